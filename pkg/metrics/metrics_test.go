package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/bazar/pkg/metrics"
)

func scrape(t *testing.T) string {
	t.Helper()
	rec := httptest.NewRecorder()
	metrics.Handler()(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(metrics.Middleware())
	r.Get("/api/orders/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/orders/1", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/orders/2", nil))

	body := scrape(t)
	assert.Contains(t, body, `route="/api/orders/{id}"`)
	assert.Contains(t, body, `status="418"`)
	assert.NotContains(t, body, `route="/api/orders/1"`)
}

func TestRecordQueueJob(t *testing.T) {
	metrics.RecordQueueJob("media.properties", "success", time.Now())

	assert.Contains(t, scrape(t), `bazar_queue_jobs_processed_total{job_type="media.properties",status="success"}`)
}

func TestHandlerExposesDomainCollectors(t *testing.T) {
	metrics.DiscountCalculations.WithLabelValues("enabled").Inc()

	assert.Contains(t, scrape(t), "bazar_discount_calculations_total")
}
