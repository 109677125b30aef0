package vm

import "github.com/ethereum/go-ethereum/metrics"

var (
	// native frame metrics
	nativeCallMeter      = metrics.NewRegisteredMeter("vm/native/call", nil)
	nativeFailureMeter   = metrics.NewRegisteredMeter("vm/native/failed", nil)
	nativeExecutionTimer = metrics.NewRegisteredTimer("vm/native/execution", nil)
)
