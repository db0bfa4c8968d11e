package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func TestRegistry(t *testing.T) {
	if Registry == nil {
		t.Error("Registry should not be nil")
	}

	if Registry != prometheus.DefaultRegisterer {
		t.Error("Registry should be the default Prometheus registerer")
	}
}

func TestHandler_ExposesRegisteredMetrics(t *testing.T) {
	counter := promauto.NewCounter(prometheus.CounterOpts{
		Name: "metrics_handler_test_total",
		Help: "Counter registered by the handler test",
	})
	counter.Inc()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "metrics_handler_test_total 1") {
		t.Errorf("metrics output missing test counter:\n%s", body)
	}
}
