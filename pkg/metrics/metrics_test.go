package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestPOSMetricsExports(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPOSMetrics(reg)

	m.IncPriceLookup("external", true)
	m.IncPriceLookup("external", false)
	m.IncCheckout("Lunas")
	m.IncStockMove("lens", "out")
	m.IncWriteFailure()
	m.ObserveCheckout(150 * time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	if got, err := counterValue(mfs, "price_lookups_total", map[string]string{"kind": "external", "outcome": "hit"}); err != nil || got != 1 {
		t.Fatalf("price hit counter = %f err=%v", got, err)
	}
	if got, err := counterValue(mfs, "price_lookups_total", map[string]string{"kind": "external", "outcome": "miss"}); err != nil || got != 1 {
		t.Fatalf("price miss counter = %f err=%v", got, err)
	}
	if got, err := counterValue(mfs, "checkouts_total", map[string]string{"status": "Lunas"}); err != nil || got != 1 {
		t.Fatalf("checkout counter = %f err=%v", got, err)
	}
	if got, err := counterValue(mfs, "sheet_write_failures_total", nil); err != nil || got != 1 {
		t.Fatalf("write failure counter = %f err=%v", got, err)
	}
}

func TestPOSMetricsNilSafe(t *testing.T) {
	var m *POSMetrics
	m.IncPriceLookup("stock", true)
	m.IncCheckout("Lunas")
	m.IncStockMove("frame", "in")
	m.IncWriteFailure()
	m.ObserveCheckout(time.Second)

	empty := NewPOSMetrics(nil)
	empty.IncPriceLookup("stock", false)
}

func counterValue(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			if matchesLabels(metric.GetLabel(), labels) {
				return metric.GetCounter().GetValue(), nil
			}
		}
	}
	return 0, fmt.Errorf("metric %q with labels %v not found", name, labels)
}

func matchesLabels(pairs []*dto.LabelPair, want map[string]string) bool {
	have := map[string]string{}
	for _, p := range pairs {
		have[p.GetName()] = p.GetValue()
	}
	for k, v := range want {
		if have[k] != v {
			return false
		}
	}
	return true
}
