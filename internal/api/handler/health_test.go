package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creamcroissant/skeleton/internal/replies"
	"github.com/creamcroissant/skeleton/internal/support/schema"
)

func TestHealthQuery(t *testing.T) {
	fixed := time.UnixMilli(1_700_000_000_123)
	h := NewHealthHandler(func() time.Time { return fixed })

	rec := httptest.NewRecorder()
	h.Query(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"code":"APP_HEALTH_QUERIED","success":true,"payload":{"time":1700000000123}}`, rec.Body.String())
}

func TestHealthRoutesDeclareResponseSchema(t *testing.T) {
	routes := NewHealthHandler(nil).Routes()
	require.Len(t, routes, 1)

	route := routes[0]
	assert.Equal(t, http.MethodGet, route.Method)
	assert.Equal(t, "/", route.Pattern)
	assert.Nil(t, route.Query)
	assert.Nil(t, route.Body)
	require.Contains(t, route.Responses, http.StatusOK)
	assert.Same(t, replies.HealthQuerySchema, route.Responses[http.StatusOK])

	rec := httptest.NewRecorder()
	route.Handler(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	v := schema.MustCompile(route.Responses[http.StatusOK])
	assert.NoError(t, schema.ValidateJSON(v, rec.Body.Bytes()))
}
