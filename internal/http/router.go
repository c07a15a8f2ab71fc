package http

import (
	"html/template"

	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}

	if cfg.TemplatesPath != "" {
		tmpl := template.Must(template.ParseGlob(cfg.TemplatesPath + "/*.html"))
		router.SetHTMLTemplate(tmpl)
	}

	usersController := NewUsersController(cfg.Users)
	booksController := NewBooksController(cfg.Books)
	circulationController := NewCirculationController(cfg.Circulation, cfg.Auditor)
	statisticsController := NewStatisticsController(cfg.Reporting)
	health := NewHealthController(cfg.Reporting, cfg.Version)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// User endpoints
	router.GET("/api/users", usersController.ListUsers)
	router.POST("/api/users", usersController.AddUser)
	router.GET("/api/users/:id", usersController.GetUser)
	router.PUT("/api/users/:id", usersController.UpdateUser)
	router.DELETE("/api/users/:id", usersController.DeleteUser)
	router.GET("/api/users/:id/history", usersController.GetUserHistory)

	// Book endpoints
	router.GET("/api/books", booksController.ListBooks)
	router.POST("/api/books", booksController.AddBook)
	router.GET("/api/books/:id", booksController.GetBook)
	router.PUT("/api/books/:id", booksController.UpdateBook)
	router.DELETE("/api/books/:id", booksController.DeleteBook)
	router.GET("/api/books/:id/history", booksController.GetBookHistory)

	// Circulation endpoints
	router.POST("/api/borrow", circulationController.Borrow)
	router.POST("/api/return", circulationController.Return)
	router.GET("/api/records", circulationController.ListRecords)

	// Statistics endpoints
	router.GET("/api/statistics", statisticsController.GetStatistics)
	router.GET("/api/statistics/top-books", statisticsController.GetTopBooks)
	router.GET("/api/statistics/top-users", statisticsController.GetTopUsers)

	// Auth and UI routes when the login stub is wired
	if cfg.AuthController != nil {
		router.GET("/login", cfg.AuthController.LoginPage)
		router.POST("/api/login", cfg.AuthController.Login)
		router.GET("/logout", cfg.AuthController.Logout)
		router.GET("/api/me", cfg.AuthController.Me)

		uiController := NewUIController(cfg.SessionManager)
		router.GET("/", uiController.AdminDashboard)
		router.GET("/reader", uiController.ReaderDashboard)
	}

	return router
}
