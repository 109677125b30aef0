package prometheus

import (
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/metrics"
	"github.com/stretchr/testify/require"

	"github.com/unicornultrafoundation/go-u2u-proxy/monitoring"
)

func TestMetricName(t *testing.T) {
	require.Equal(t, "vm_native_call", metricName("vm/native/call"))
	require.Equal(t, "db_size", metricName("db.size"))
}

func TestHandler_ExportsCounters(t *testing.T) {
	reg := metrics.NewRegistry()
	counter := metrics.NewRegisteredCounterForced("ledger/tx/applied", reg)
	counter.Inc(3)
	reg.Register("unsupported", struct{}{})

	rec := httptest.NewRecorder()
	Handler("test", reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "test_ledger_tx_applied 3")
	require.NotContains(t, string(body), "unsupported")
}

func TestHandler_ExportsDataDirSize(t *testing.T) {
	defer monitoring.SetDataDirMonitor("")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "chaindata"), make([]byte, 42), 0600))
	monitoring.SetDataDirMonitor(dir)

	rec := httptest.NewRecorder()
	Handler("test", metrics.NewRegistry()).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "test_db_size 42")
}
