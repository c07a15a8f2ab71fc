package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type StatisticsController struct {
	store ReportingStore
}

func NewStatisticsController(store ReportingStore) *StatisticsController {
	return &StatisticsController{
		store: store,
	}
}

// GetStatistics returns the aggregated counters together with the
// collection sizes.
func (controller *StatisticsController) GetStatistics(c *gin.Context) {
	users, books, records := controller.store.Counts()
	c.JSON(http.StatusOK, gin.H{
		"statistics":   controller.store.StatisticsReport(),
		"totalUsers":   users,
		"totalBooks":   books,
		"totalRecords": records,
	})
}

// GetTopBooks returns the most borrowed books, defaulting to 10.
func (controller *StatisticsController) GetTopBooks(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"books": controller.store.MostPopularBooks(topLimit(c))})
}

// GetTopUsers returns the most active borrowers, defaulting to 10.
func (controller *StatisticsController) GetTopUsers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"users": controller.store.MostActiveUsers(topLimit(c))})
}

func topLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit <= 0 {
		return 10
	}
	return limit
}
