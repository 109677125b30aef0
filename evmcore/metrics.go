package evmcore

import "github.com/ethereum/go-ethereum/metrics"

var (
	appliedTxCounter  = metrics.NewRegisteredCounter("evmcore/tx/applied", nil)
	failedTxCounter   = metrics.NewRegisteredCounter("evmcore/tx/failed", nil)
	rejectedTxCounter = metrics.NewRegisteredCounter("evmcore/tx/rejected", nil)
	gasUsedMeter      = metrics.NewRegisteredMeter("evmcore/gas/used", nil)
)
