package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()

	m.IncRows("processed")
	m.IncRows("processed")
	m.IncRows("skipped")
	m.ObserveFetch("ok", 120*time.Millisecond)
	m.ObserveFetch("cached", 0)
	m.IncProbes("image")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RowsTotal.WithLabelValues("processed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RowsTotal.WithLabelValues("skipped")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FolderFetches.WithLabelValues("cached")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProbesTotal.WithLabelValues("image")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.FetchDuration))
}

func TestNewUsesPrivateRegistry(t *testing.T) {
	// Two runs in one process must not collide on registration.
	assert.NotPanics(t, func() {
		New()
		New()
	})
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.IncRows("failed")

	path := filepath.Join(t.TempDir(), "drivethumbs.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `drivethumbs_rows_total{outcome="failed"} 1`)
	assert.Contains(t, string(data), "drivethumbs_last_run_timestamp_seconds")
}
