package auth

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AuthController serves the login page and the login/logout endpoints.
type AuthController struct {
	service  *Service
	sessions *SessionManager
}

func NewAuthController(service *Service, sessions *SessionManager) *AuthController {
	return &AuthController{
		service:  service,
		sessions: sessions,
	}
}

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// LoginPage renders the login form.
func (ctrl *AuthController) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{})
}

// Login validates the credential pair and establishes a session. The
// outcome travels in the success flag; a failed credential check is
// still a 200 so the form can show the message inline.
func (ctrl *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil || req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "username and password are required",
		})
		return
	}

	identity, err := ctrl.service.Authenticate(req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"message": "Invalid username or password",
		})
		return
	}

	if err := ctrl.sessions.CreateSession(c.Request, identity); err != nil {
		log.Printf("Failed to create session for %s: %v", identity.Username, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "failed to create session",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Login successful",
		"userType": identity.Role,
		"username": identity.Username,
		"userId":   identity.UserID,
	})
}

// Logout destroys the session and sends the browser back to the login page.
func (ctrl *AuthController) Logout(c *gin.Context) {
	if err := ctrl.sessions.DestroySession(c.Request); err != nil {
		log.Printf("Failed to destroy session: %v", err)
	}
	c.Redirect(http.StatusFound, "/login")
}

// Me reports the current session identity, if any.
func (ctrl *AuthController) Me(c *gin.Context) {
	identity := ctrl.sessions.CurrentIdentity(c.Request)
	if identity == nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "not logged in"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"userType": identity.Role,
		"username": identity.Username,
		"userId":   identity.UserID,
	})
}
