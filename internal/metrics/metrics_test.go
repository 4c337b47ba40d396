package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestNewRegistersAllCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["aiml_respond_total"])
	assert.True(t, names["aiml_lookup_miss_total"])
	assert.True(t, names["aiml_respond_duration_seconds"])
}

func TestCountersIncrement(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RespondTotal.Inc()
	m.RespondTotal.Inc()
	m.LookupMissTotal.Inc()

	assert.Equal(t, 2.0, counterValue(t, m.RespondTotal))
	assert.Equal(t, 1.0, counterValue(t, m.LookupMissTotal))
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}
