package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/api/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	counter := HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/users/{id}", "400")
	before := testutil.ToFloat64(counter)

	for _, path := range []string{"/api/users/1", "/api/users/2", "/api/users/abc"} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusBadRequest, rr.Code)
	}

	assert.Equal(t, before+3, testutil.ToFloat64(counter))
	assert.Equal(t, float64(0), testutil.ToFloat64(HTTPRequestsInFlight))
}

func TestMiddleware_ImplicitOK(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	counter := HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/health", "200")
	before := testutil.ToFloat64(counter)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestRoutePattern_WithoutRouter(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/anything", nil)
	assert.Equal(t, unmatchedRoute, RoutePattern(req))
}

func TestRecordDomainError(t *testing.T) {
	counter := DomainErrorsTotal.WithLabelValues("forbidden")
	before := testutil.ToFloat64(counter)

	RecordDomainError("forbidden")

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}
