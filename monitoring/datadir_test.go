package monitoring

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDataDirSize(t *testing.T) {
	defer SetDataDirMonitor("")

	SetDataDirMonitor("")
	require.Zero(t, DataDirSize())

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "chaindata"), 0700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a"), make([]byte, 100), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "chaindata", "b"), make([]byte, 28), 0600))

	SetDataDirMonitor(dir)
	require.Equal(t, int64(128), DataDirSize())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "c"), make([]byte, 2), 0600))
	require.Equal(t, int64(130), DataDirSize())
}

func TestDataDirSize_MissingDirIsZero(t *testing.T) {
	defer SetDataDirMonitor("")

	SetDataDirMonitor(filepath.Join(t.TempDir(), "missing"))
	require.Zero(t, DataDirSize())
}
