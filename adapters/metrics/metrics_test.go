package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollector_RecordsActivity(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewWithRegistry(reg)

	c.TypeBuilt("point", 3)
	c.WriteApplied("point", "x")
	c.WriteApplied("point", "x")
	c.RefreshCompleted("point", 3)
	c.RefreshFailed("point")

	if got := testutil.ToFloat64(c.TypesBuilt.WithLabelValues("point")); got != 1 {
		t.Errorf("types_built_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.RegistryFields.WithLabelValues("point")); got != 3 {
		t.Errorf("registry_fields = %v, want 3", got)
	}
	if got := testutil.ToFloat64(c.WritesTotal.WithLabelValues("point", "x")); got != 2 {
		t.Errorf("writes_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.RefreshTotal.WithLabelValues("point")); got != 1 {
		t.Errorf("refresh_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.RefreshFailures.WithLabelValues("point")); got != 1 {
		t.Errorf("refresh_failures_total = %v, want 1", got)
	}
}

func TestNewWithRegistry_RegistersMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewWithRegistry(reg)
	c.TypeBuilt("point", 1)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	found := false
	for _, mf := range families {
		if mf.GetName() == "fieldprop_types_built_total" {
			found = true
		}
	}
	if !found {
		t.Error("fieldprop_types_built_total should be registered")
	}
}
