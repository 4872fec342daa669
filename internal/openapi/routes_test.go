package openapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func TestOpenAPIJSON(t *testing.T) {
	router := chi.NewRouter()
	RegisterRoutes(router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/openapi.json", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	paths := doc["paths"].(map[string]any)
	for _, path := range []string{"/v1/transport/play", "/v1/transport/queue/{objectID}", "/v1/transport/state"} {
		require.Contains(t, paths, path)
	}
	// Aliased response blocks resolve to the same content.
	pause := paths["/v1/transport/pause"].(map[string]any)["post"].(map[string]any)
	require.Contains(t, pause["responses"], "504")
}

func TestOpenAPIYAML(t *testing.T) {
	router := chi.NewRouter()
	RegisterRoutes(router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/openapi", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "text/yaml; charset=utf-8", rec.Header().Get("Content-Type"))
	require.Contains(t, rec.Body.String(), "openapi: 3.0.3")
}
