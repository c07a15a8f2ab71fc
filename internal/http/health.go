package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthController struct {
	store   ReportingStore
	version string
}

func NewHealthController(store ReportingStore, version string) *HealthController {
	return &HealthController{
		store:   store,
		version: version,
	}
}

func (controller *HealthController) Status(c *gin.Context) {
	users, books, records := controller.store.Counts()
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": controller.version,
		"users":   users,
		"books":   books,
		"records": records,
	})
}
