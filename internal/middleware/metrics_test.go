package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/Siddarth2230/upid/pkg/metrics"
)

func TestMetricsMiddlewareUsesRouteTemplate(t *testing.T) {
	r := mux.NewRouter()
	r.Use(MetricsMiddleware)
	r.HandleFunc("/upids/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)

	counter := metrics.RequestTotal.WithLabelValues(http.MethodGet, "/upids/{id}", "404")
	before := testutil.ToFloat64(counter)

	for _, path := range []string{"/upids/a", "/upids/b"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	}

	assert.Equal(t, before+2, testutil.ToFloat64(counter))
}

func TestRouteTemplateUnmatched(t *testing.T) {
	assert.Equal(t, "unmatched", routeTemplate(httptest.NewRequest(http.MethodGet, "/", nil)))
}
