package logger

import (
	"github.com/ethereum/go-ethereum/log"
)

// Instance is embedded by long-lived components to get a module-scoped logger.
type Instance struct {
	Log log.Logger
}

// New binds the logger to the root handler installed at the time of the call,
// so components should be constructed after logging is configured.
func New(name ...string) Instance {
	if len(name) == 0 {
		return Instance{
			Log: log.New(),
		}
	}
	return Instance{
		Log: log.New("module", name[0]),
	}
}
