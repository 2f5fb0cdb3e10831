package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wordbloom.lopezb.com/internal/wordbloom/bloom"
	"wordbloom.lopezb.com/internal/wordbloom/score"
	"wordbloom.lopezb.com/internal/wordbloom/timing"
)

func TestMetrics_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	f, err := bloom.New(bloom.Config{Bits: 128, Probes: 3, Workers: 1, Scheme: bloom.SchemeDouble})
	require.NoError(t, err)
	f.BulkInsert([]string{"a", "b", "c"})

	m.ObserveInserted(3)
	m.ObserveFilter(f)
	m.ObserveResult(score.Result{Correct: 7, Incorrect: 2, FalsePositives: 2})

	var r timing.Report
	r.Record("Insertion", 1500*time.Millisecond)
	m.ObserveReport(&r)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.ItemsInserted))
	assert.Equal(t, 128.0, testutil.ToFloat64(m.FilterBits))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.FilterProbes))
	assert.InDelta(t, f.FillRatio(), testutil.ToFloat64(m.FillRatio), 1e-12)
	assert.Equal(t, float64(f.SetBits()), testutil.ToFloat64(m.FilterSetBits))
	assert.NotZero(t, testutil.ToFloat64(m.FilterSetBits))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.Queries.WithLabelValues("correct")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Queries.WithLabelValues("incorrect")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.FalsePositives))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.FalseNegatives))
	assert.Equal(t, 1.5, testutil.ToFloat64(m.PhaseDuration.WithLabelValues("Insertion")))
}

func TestMetrics_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}

func TestMetrics_WriteToTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.ObserveInserted(42)

	path := filepath.Join(t.TempDir(), "wordbloom.prom")
	require.NoError(t, prometheus.WriteToTextfile(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "wordbloom_items_inserted_total 42"), string(data))
}
