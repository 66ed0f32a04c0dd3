package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/blog-generator/internal/handler"
	"github.com/jonesrussell/blog-generator/internal/storage"
)

func setupRootRouter(t *testing.T, store storage.Store, urlSet, nameSet bool) *gin.Engine {
	t.Helper()

	r := gin.New()
	h := handler.NewRootHandler(store, urlSet, nameSet)
	r.GET("/", h.Root)
	r.GET("/test", h.Diagnostics)
	return r
}

func decodeDiagnostics(t *testing.T, body []byte) map[string]any {
	t.Helper()

	var resp map[string]any
	require.NoError(t, json.Unmarshal(body, &resp))
	return resp
}

func TestRoot(t *testing.T) {
	t.Parallel()

	r := setupRootRouter(t, storage.NewMemoryStore("test"), false, false)

	w := doRequest(r, http.MethodGet, "/", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Blog Generator Backend is running"}`, w.Body.String())
}

func TestDiagnostics_Connected(t *testing.T) {
	t.Parallel()

	store := storage.NewMemoryStore("blog")
	_, err := store.Create(context.Background(), "blogpost", map[string]any{"title": "x"})
	require.NoError(t, err)

	r := setupRootRouter(t, store, true, false)

	w := doRequest(r, http.MethodGet, "/test", "")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeDiagnostics(t, w.Body.Bytes())
	assert.Equal(t, "✅ Running", resp["backend"])
	assert.Equal(t, "✅ Connected & Working", resp["database"])
	assert.Equal(t, "✅ Set", resp["database_url"])
	assert.Equal(t, "❌ Not Set", resp["database_name"])
	assert.Equal(t, "Connected", resp["connection_status"])
	assert.Equal(t, []any{"blogpost"}, resp["collections"])
}

func TestDiagnostics_NeverFails(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		reason       error
		wantDatabase string
	}{
		{"not configured", storage.ErrNotConfigured, "❌ Not Available"},
		{"connection error", errors.New("dial tcp 10.0.0.1:5432: i/o timeout"), "❌ Error: ping: document store unavailable: dial tcp 10.0.0.1:5432: i/o timeout"},
		{
			"long error truncated on rune boundary",
			errors.New("x" + strings.Repeat("é", 60)),
			"❌ Error: ping: document store unavailable: x" + strings.Repeat("é", 45),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := setupRootRouter(t, storage.NewUnavailable("blog", tt.reason), false, true)

			w := doRequest(r, http.MethodGet, "/test", "")
			require.Equal(t, http.StatusOK, w.Code)

			resp := decodeDiagnostics(t, w.Body.Bytes())
			assert.Equal(t, tt.wantDatabase, resp["database"])
			assert.True(t, utf8.ValidString(resp["database"].(string)))
			assert.Equal(t, "Not Connected", resp["connection_status"])
			assert.Equal(t, "✅ Set", resp["database_name"])
			assert.Equal(t, []any{}, resp["collections"])
		})
	}
}
