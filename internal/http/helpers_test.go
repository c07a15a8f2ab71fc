package http

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"librarium/internal/catalog"
	"librarium/internal/persistence"
)

// setupTestCatalog builds a real catalog backed by a temp directory so
// the controllers are tested against the same store the server uses.
func setupTestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := persistence.NewStore(t.TempDir())
	require.NoError(t, err)

	c, err := catalog.Open(store)
	require.NoError(t, err)
	return c
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(data)
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}
