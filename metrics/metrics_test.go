package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/savings-engine/metrics"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestRecordMutation(t *testing.T) {
	c := metrics.Mutations.WithLabelValues("unrestricted", "deposit", metrics.OutcomeOK)
	before := counterValue(t, c)

	metrics.RecordMutation("unrestricted", "deposit", metrics.OutcomeOK)
	metrics.RecordMutation("unrestricted", "deposit", metrics.OutcomeOK)

	assert.Equal(t, before+2, counterValue(t, c))
}

func TestRecordSummary(t *testing.T) {
	c := metrics.Summaries.WithLabelValues("incentivized_capped")
	before := counterValue(t, c)

	var h dto.Metric
	require.NoError(t, metrics.SimulatedDays.Write(&h))
	samples := h.GetHistogram().GetSampleCount()

	metrics.RecordSummary("incentivized_capped", 366)

	assert.Equal(t, before+1, counterValue(t, c))
	require.NoError(t, metrics.SimulatedDays.Write(&h))
	assert.Equal(t, samples+1, h.GetHistogram().GetSampleCount())
}
