package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"librarium/internal/catalog"
	"librarium/internal/statistics"
)

func setupStatisticsRouter(t *testing.T) (*gin.Engine, *catalog.Catalog) {
	t.Helper()
	cat := setupTestCatalog(t)
	controller := NewStatisticsController(cat)

	router := gin.New()
	router.GET("/api/statistics", controller.GetStatistics)
	router.GET("/api/statistics/top-books", controller.GetTopBooks)
	router.GET("/api/statistics/top-users", controller.GetTopUsers)
	return router, cat
}

func TestStatisticsController_GetStatistics(t *testing.T) {
	router, store := setupStatisticsRouter(t)
	userID := store.AddUser("Alice", "alice@example.com", "")
	bookID := store.AddBook("Dune", "Herbert", "", "", "")
	require.True(t, store.BorrowBook(userID, bookID))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/statistics", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Statistics   statistics.Report `json:"statistics"`
		TotalUsers   int               `json:"totalUsers"`
		TotalBooks   int               `json:"totalBooks"`
		TotalRecords int               `json:"totalRecords"`
	}
	decodeBody(t, w, &resp)
	assert.Equal(t, 1, resp.TotalUsers)
	assert.Equal(t, 1, resp.TotalBooks)
	assert.Equal(t, 1, resp.TotalRecords)
	assert.Equal(t, 1, resp.Statistics.BookPopularity["1"])
	assert.Equal(t, 1, resp.Statistics.UserActivity["1"])
}

func TestStatisticsController_TopRankings(t *testing.T) {
	router, store := setupStatisticsRouter(t)
	alice := store.AddUser("Alice", "alice@example.com", "")
	dune := store.AddBook("Dune", "Herbert", "", "", "")
	emma := store.AddBook("Emma", "Austen", "", "", "")

	require.True(t, store.BorrowBook(alice, dune))
	require.True(t, store.ReturnBook(alice, dune))
	require.True(t, store.BorrowBook(alice, dune))
	require.True(t, store.BorrowBook(alice, emma))

	t.Run("top books honors the limit parameter", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/statistics/top-books?limit=1", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Books []statistics.Entry `json:"books"`
		}
		decodeBody(t, w, &resp)
		require.Len(t, resp.Books, 1)
		assert.Equal(t, dune, resp.Books[0].ID)
		assert.Equal(t, 2, resp.Books[0].Count)
	})

	t.Run("an invalid limit falls back to the default", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/statistics/top-users?limit=bogus", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Users []statistics.Entry `json:"users"`
		}
		decodeBody(t, w, &resp)
		require.Len(t, resp.Users, 1)
		assert.Equal(t, 3, resp.Users[0].Count)
	})
}
