package monitoring

import (
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/log"
)

var dbDirMonitor atomic.Value

// SetDataDirMonitor points the db_size gauge at datadir.
func SetDataDirMonitor(datadir string) {
	dbDirMonitor.Store(datadir)
}

// DataDirSize measures the monitored data directory in bytes. It is zero
// while no directory is monitored.
func DataDirSize() (size int64) {
	datadir, ok := dbDirMonitor.Load().(string)
	if !ok || datadir == "" {
		return
	}

	err := filepath.Walk(datadir, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			size += info.Size()
		}
		return err
	})
	if err != nil {
		log.Error("filepath.Walk", "path", datadir, "err", err)
		return 0
	}

	return
}
