package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventoryMetricsExportaContadoresEHistograma(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewInventoryMetrics(reg)

	m.ObserveOperation("deduct", 120*time.Millisecond, nil)
	m.ObserveOperation("deduct", 10*time.Millisecond, errors.New("boom"))
	m.ObserveOperation("", time.Millisecond, nil)
	m.IncDeficit()
	m.IncDeficit()
	m.IncNegativeStock()

	mfs, err := reg.Gather()
	require.NoError(t, err)

	ok, err := counterValue(mfs, "inventory_operations_total", map[string]string{"operation": "deduct", "result": "ok"})
	require.NoError(t, err)
	assert.Equal(t, 1.0, ok)

	failed, err := counterValue(mfs, "inventory_operations_total", map[string]string{"operation": "deduct", "result": "error"})
	require.NoError(t, err)
	assert.Equal(t, 1.0, failed)

	unknown, err := counterValue(mfs, "inventory_operations_total", map[string]string{"operation": "unknown", "result": "ok"})
	require.NoError(t, err)
	assert.Equal(t, 1.0, unknown)

	deficits, err := counterValue(mfs, "inventory_deficit_total", nil)
	require.NoError(t, err)
	assert.Equal(t, 2.0, deficits)

	negative, err := counterValue(mfs, "inventory_negative_stock_total", nil)
	require.NoError(t, err)
	assert.Equal(t, 1.0, negative)

	mf := findMetricFamily(mfs, "inventory_operation_duration_seconds")
	require.NotNil(t, mf)
	assert.Greater(t, mf.GetMetric()[0].GetHistogram().GetSampleSum(), 0.0)
}

func TestInventoryMetricsNilEsSeguro(t *testing.T) {
	var m *InventoryMetrics
	assert.NotPanics(t, func() {
		m.ObserveOperation("merge", time.Second, nil)
		m.IncDeficit()
		m.IncNegativeStock()
	})
	assert.NotPanics(t, func() {
		NewInventoryMetrics(nil).IncDeficit()
	})
}

func counterValue(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabels(metric.GetLabel(), labels) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing labels %v", name, labels)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabels(pairs []*dto.LabelPair, want map[string]string) bool {
	found := 0
	for _, p := range pairs {
		if v, ok := want[p.GetName()]; ok && v == p.GetValue() {
			found++
		}
	}
	return found == len(want)
}
