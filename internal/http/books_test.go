package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"librarium/internal/catalog"
	"librarium/internal/entities"
)

func setupBooksRouter(t *testing.T) (*gin.Engine, *catalog.Catalog) {
	t.Helper()
	cat := setupTestCatalog(t)
	controller := NewBooksController(cat)

	router := gin.New()
	router.GET("/api/books", controller.ListBooks)
	router.POST("/api/books", controller.AddBook)
	router.GET("/api/books/:id", controller.GetBook)
	router.PUT("/api/books/:id", controller.UpdateBook)
	router.DELETE("/api/books/:id", controller.DeleteBook)
	router.GET("/api/books/:id/history", controller.GetBookHistory)
	return router, cat
}

func TestBooksController_AddBook(t *testing.T) {
	t.Run("creates a book and returns its id", func(t *testing.T) {
		router, store := setupBooksRouter(t)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/books", jsonBody(t, gin.H{
			"title":    "Dune",
			"author":   "Frank Herbert",
			"category": "Fiction",
			"keywords": "scifi",
		}))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Success bool `json:"success"`
			BookID  int  `json:"bookId"`
		}
		decodeBody(t, w, &resp)
		assert.True(t, resp.Success)
		assert.Equal(t, 1, resp.BookID)

		book := store.FindBook(1)
		require.NotNil(t, book)
		assert.True(t, book.IsAvailable, "new books start available")
	})

	t.Run("rejects missing author", func(t *testing.T) {
		router, _ := setupBooksRouter(t)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/books", jsonBody(t, gin.H{"title": "Dune"}))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestBooksController_ListBooks(t *testing.T) {
	router, store := setupBooksRouter(t)
	store.AddBook("Dune", "Frank Herbert", "Fiction", "scifi", "")
	store.AddBook("The Go Programming Language", "Donovan", "Computing", "golang", "")

	t.Run("lists everything without a search parameter", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/books", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var books []entities.Book
		decodeBody(t, w, &books)
		assert.Len(t, books, 2)
	})

	t.Run("filters with the search parameter", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/books?search=golang", nil)
		router.ServeHTTP(w, req)

		var books []entities.Book
		decodeBody(t, w, &books)
		require.Len(t, books, 1)
		assert.Equal(t, "The Go Programming Language", books[0].Title)
	})
}

func TestBooksController_GetBook(t *testing.T) {
	router, store := setupBooksRouter(t)
	store.AddBook("Dune", "Frank Herbert", "", "", "")

	t.Run("returns the book", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/books/1", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var book entities.Book
		decodeBody(t, w, &book)
		assert.Equal(t, "Dune", book.Title)
	})

	t.Run("unknown id is 404", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/books/999", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestBooksController_UpdateBook(t *testing.T) {
	router, store := setupBooksRouter(t)
	store.AddBook("Dune", "Frank Herbert", "", "", "")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", "/api/books/1", jsonBody(t, gin.H{
		"title":    "Dune Messiah",
		"author":   "Frank Herbert",
		"category": "Fiction",
	}))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Dune Messiah", store.FindBook(1).Title)
}

func TestBooksController_DeleteBook(t *testing.T) {
	router, store := setupBooksRouter(t)
	store.AddBook("Dune", "Frank Herbert", "", "", "")

	t.Run("deletes an available book", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("DELETE", "/api/books/1", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Nil(t, store.FindBook(1))
	})

	t.Run("refuses a borrowed book", func(t *testing.T) {
		userID := store.AddUser("Alice", "alice@example.com", "")
		bookID := store.AddBook("Emma", "Austen", "", "", "")
		require.True(t, store.BorrowBook(userID, bookID))

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("DELETE", "/api/books/2", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.NotNil(t, store.FindBook(bookID))
	})
}

func TestBooksController_GetBookHistory(t *testing.T) {
	router, store := setupBooksRouter(t)
	userID := store.AddUser("Alice", "alice@example.com", "")
	bookID := store.AddBook("Dune", "Frank Herbert", "", "", "")
	require.True(t, store.BorrowBook(userID, bookID))
	require.True(t, store.ReturnBook(userID, bookID))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/books/1/history", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Records []entities.BorrowRecord `json:"records"`
		Count   int                     `json:"count"`
	}
	decodeBody(t, w, &resp)
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, userID, resp.Records[0].UserID)
	assert.True(t, resp.Records[0].IsReturned)
}
