package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type UsersController struct {
	store UserStore
}

func NewUsersController(store UserStore) *UsersController {
	return &UsersController{
		store: store,
	}
}

type userRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// ListUsers returns every user, or only matches when ?search= is given.
// An empty search keyword matches everyone.
func (controller *UsersController) ListUsers(c *gin.Context) {
	keyword, hasSearch := c.GetQuery("search")
	if hasSearch {
		c.JSON(http.StatusOK, controller.store.SearchUsers(keyword))
		return
	}
	c.JSON(http.StatusOK, controller.store.GetAllUsers())
}

func (controller *UsersController) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user := controller.store.FindUser(id)
	if user == nil {
		respondFailure(c, http.StatusNotFound, "user not found")
		return
	}
	c.JSON(http.StatusOK, user)
}

func (controller *UsersController) AddUser(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFailure(c, http.StatusBadRequest, "invalid request body")
		return
	}

	id := controller.store.AddUser(req.Name, req.Email, req.Phone)
	if id < 0 {
		respondFailure(c, http.StatusBadRequest, "failed to add user: name and email are required and limited to 255 characters")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"userId":  id,
		"message": "User added successfully",
	})
}

func (controller *UsersController) UpdateUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFailure(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if !controller.store.UpdateUser(id, req.Name, req.Email, req.Phone) {
		respondFailure(c, http.StatusBadRequest, "failed to update user: unknown id or invalid fields")
		return
	}
	respondSuccess(c, "User updated successfully")
}

func (controller *UsersController) DeleteUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if !controller.store.DeleteUser(id) {
		respondFailure(c, http.StatusBadRequest, "failed to delete user: unknown id or books still borrowed")
		return
	}
	respondSuccess(c, "User deleted successfully")
}

// GetUserHistory returns every borrow record of the user, open or
// closed, in stored order.
func (controller *UsersController) GetUserHistory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if controller.store.FindUser(id) == nil {
		respondFailure(c, http.StatusNotFound, "user not found")
		return
	}

	records := controller.store.GetUserBorrowHistory(id)
	c.JSON(http.StatusOK, gin.H{"records": records, "count": len(records)})
}
