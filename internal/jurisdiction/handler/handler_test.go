package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meridian/internal/jurisdiction"
)

func newRouter() chi.Router {
	r := chi.NewRouter()
	New(jurisdiction.Default(), slog.New(slog.NewTextHandler(io.Discard, nil))).Register(r)
	return r
}

func get(t *testing.T, router chi.Router, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return rec, out
}

func TestGetJurisdiction(t *testing.T) {
	router := newRouter()

	t.Run("known code", func(t *testing.T) {
		rec, body := get(t, router, "/jurisdictions/fr")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "FR", body["country_code"])
		assert.Equal(t, "EU", body["region"])
		assert.Equal(t, true, body["passporting"])
		permissions, ok := body["permissions"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, true, permissions["retail"])
	})

	t.Run("unknown code", func(t *testing.T) {
		rec, body := get(t, router, "/jurisdictions/ZZ")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "not_found", body["error"])
	})
}

func TestListJurisdictions(t *testing.T) {
	router := newRouter()

	t.Run("all", func(t *testing.T) {
		rec, body := get(t, router, "/jurisdictions")
		assert.Equal(t, http.StatusOK, rec.Code)
		list, ok := body["jurisdictions"].([]any)
		require.True(t, ok)
		assert.Len(t, list, jurisdiction.Default().Len())
	})

	t.Run("by region", func(t *testing.T) {
		rec, body := get(t, router, "/jurisdictions?region=eea")
		assert.Equal(t, http.StatusOK, rec.Code)
		list, ok := body["jurisdictions"].([]any)
		require.True(t, ok)
		require.NotEmpty(t, list)
		var codes []string
		for _, item := range list {
			entry := item.(map[string]any)
			assert.Equal(t, "EEA", entry["region"])
			codes = append(codes, entry["country_code"].(string))
		}
		assert.Contains(t, codes, "NO")
		assert.IsIncreasing(t, codes)
	})

	t.Run("invalid region", func(t *testing.T) {
		rec, body := get(t, router, "/jurisdictions?region=MOON")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "validation_error", body["error"])
	})
}
