package observability

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestInitTracing_NoEndpoint(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), "  ", "test")
	if err != nil {
		t.Fatalf("InitTracing failed: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}

	_, span := Tracer.Start(context.Background(), "noop")
	span.End()
}

func TestMetricsRegistered(t *testing.T) {
	DiagnosticsTotal.WithLabelValues("warning").Inc()
	DocumentsParsedTotal.WithLabelValues("ok").Inc()
	CacheHitsTotal.Inc()

	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}

	want := map[string]bool{
		"apidocgen_diagnostics_total":      false,
		"apidocgen_documents_parsed_total": false,
		"apidocgen_cache_hits_total":       false,
	}
	for _, mf := range families {
		if _, ok := want[mf.GetName()]; ok {
			want[mf.GetName()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("metric %s not registered", name)
		}
	}
}

func TestRecordRunHeap(t *testing.T) {
	RecordRunHeap()

	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != "apidocgen_run_heap_bytes" {
			continue
		}
		if v := mf.GetMetric()[0].GetGauge().GetValue(); v <= 0 {
			t.Fatalf("expected positive heap gauge, got %v", v)
		}
		return
	}
	t.Fatal("apidocgen_run_heap_bytes not registered")
}
