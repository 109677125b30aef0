package logger

import (
	"io"

	"github.com/ethereum/go-ethereum/log"
)

// SetVerbosity installs a terminal root handler filtering records below the
// given legacy verbosity (0=crit ... 5=trace).
func SetVerbosity(w io.Writer, verbosity int, useColor bool) {
	log.SetDefault(log.NewLogger(log.NewTerminalHandlerWithLevel(w, log.FromLegacyLevel(verbosity), useColor)))
}
