package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"librarium/internal/auth"
)

// UIController renders the dashboard pages. The pages are thin shells;
// all data arrives through the JSON API.
type UIController struct {
	sessions *auth.SessionManager
}

func NewUIController(sessions *auth.SessionManager) *UIController {
	return &UIController{
		sessions: sessions,
	}
}

// AdminDashboard renders the management console. Readers are sent to
// their own dashboard, anonymous visitors to the login page.
func (controller *UIController) AdminDashboard(c *gin.Context) {
	identity := controller.identity(c)
	if identity == nil {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	if identity.Role != auth.RoleAdmin {
		c.Redirect(http.StatusFound, "/reader")
		return
	}
	c.HTML(http.StatusOK, "index.html", gin.H{"username": identity.Username})
}

// ReaderDashboard renders the reader's personal page.
func (controller *UIController) ReaderDashboard(c *gin.Context) {
	identity := controller.identity(c)
	if identity == nil {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	c.HTML(http.StatusOK, "reader.html", gin.H{
		"username": identity.Username,
		"userId":   identity.UserID,
	})
}

func (controller *UIController) identity(c *gin.Context) *auth.Identity {
	if controller.sessions == nil {
		return nil
	}
	return controller.sessions.CurrentIdentity(c.Request)
}
