package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type BooksController struct {
	store BookStore
}

func NewBooksController(store BookStore) *BooksController {
	return &BooksController{
		store: store,
	}
}

type bookRequest struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Category    string `json:"category"`
	Keywords    string `json:"keywords"`
	Description string `json:"description"`
}

// ListBooks returns every book, or only matches when ?search= is given.
func (controller *BooksController) ListBooks(c *gin.Context) {
	keyword, hasSearch := c.GetQuery("search")
	if hasSearch {
		c.JSON(http.StatusOK, controller.store.SearchBooks(keyword))
		return
	}
	c.JSON(http.StatusOK, controller.store.GetAllBooks())
}

func (controller *BooksController) GetBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book := controller.store.FindBook(id)
	if book == nil {
		respondFailure(c, http.StatusNotFound, "book not found")
		return
	}
	c.JSON(http.StatusOK, book)
}

func (controller *BooksController) AddBook(c *gin.Context) {
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFailure(c, http.StatusBadRequest, "invalid request body")
		return
	}

	id := controller.store.AddBook(req.Title, req.Author, req.Category, req.Keywords, req.Description)
	if id < 0 {
		respondFailure(c, http.StatusBadRequest, "failed to add book: title and author are required and limited to 255 characters")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"bookId":  id,
		"message": "Book added successfully",
	})
}

func (controller *BooksController) UpdateBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFailure(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if !controller.store.UpdateBook(id, req.Title, req.Author, req.Category, req.Keywords, req.Description) {
		respondFailure(c, http.StatusBadRequest, "failed to update book: unknown id or invalid fields")
		return
	}
	respondSuccess(c, "Book updated successfully")
}

func (controller *BooksController) DeleteBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if !controller.store.DeleteBook(id) {
		respondFailure(c, http.StatusBadRequest, "failed to delete book: unknown id or currently borrowed")
		return
	}
	respondSuccess(c, "Book deleted successfully")
}

// GetBookHistory returns every borrow record of the book in stored order.
func (controller *BooksController) GetBookHistory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if controller.store.FindBook(id) == nil {
		respondFailure(c, http.StatusNotFound, "book not found")
		return
	}

	records := controller.store.GetBookBorrowHistory(id)
	c.JSON(http.StatusOK, gin.H{"records": records, "count": len(records)})
}
