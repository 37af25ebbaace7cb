package metrics_test

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/c360studio/semshape/metrics"
)

func TestObserveSynthesis(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.ObserveSynthesis(metrics.OutcomeOK, "json", false, 2*time.Millisecond)
	m.ObserveSynthesis(metrics.OutcomeOK, "json", true, time.Millisecond)
	m.ObserveSynthesis(metrics.OutcomeUnknownType, "yaml", false, time.Millisecond)

	if got := testutil.ToFloat64(m.SynthesisTotal.WithLabelValues(metrics.OutcomeOK, "json")); got != 2 {
		t.Errorf("ok/json = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.SynthesisTotal.WithLabelValues(metrics.OutcomeUnknownType, "yaml")); got != 1 {
		t.Errorf("unknown_type/yaml = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(m.SynthesisDuration); got != 2 {
		t.Errorf("expected 2 duration series (all, mandatory), got %d", got)
	}
}

func TestRegistryMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.RegistryPublished(7, false)
	m.RegistryPublished(9, true)
	m.ReloadFailed()
	m.CatalogPublished(12)
	m.CatalogExported("exported", "turtle")
	m.CatalogExported("exported", "turtle")
	m.CatalogExported("skipped", "turtle")

	if got := testutil.ToFloat64(m.RegistryTypes); got != 9 {
		t.Errorf("registry_types = %v, want 9", got)
	}
	if got := testutil.ToFloat64(m.RegistryReloads); got != 1 {
		t.Errorf("registry_reloads_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.RegistryReloadErrors); got != 1 {
		t.Errorf("registry_reload_errors_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.CatalogEntitiesPublished); got != 12 {
		t.Errorf("catalog_entities_published_total = %v, want 12", got)
	}
	if got := testutil.ToFloat64(m.CatalogExports.WithLabelValues("exported", "turtle")); got != 2 {
		t.Errorf("catalog_exports_total{exported} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.RegistryLastReload); got == 0 {
		t.Error("registry_last_reload_timestamp not set")
	}
}

func TestNilCollector(t *testing.T) {
	var m *metrics.Collector
	m.ObserveSynthesis(metrics.OutcomeOK, "json", false, time.Millisecond)
	m.RegistryPublished(1, true)
	m.ReloadFailed()
	m.CatalogPublished(1)
	m.CatalogExported("exported", "turtle")
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.RegistryPublished(3, false)

	rec := httptest.NewRecorder()
	metrics.Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "semshape_registry_types 3") {
		t.Errorf("metrics output missing registry gauge:\n%s", body)
	}
}

func TestDefault(t *testing.T) {
	if metrics.Default() != metrics.Default() {
		t.Error("Default must return the same collector")
	}
	families, err := metrics.DefaultRegistry().Gather()
	if err != nil {
		t.Fatalf("Gather error: %v", err)
	}
	if len(families) == 0 {
		t.Error("default registry should expose runtime metrics")
	}
}
