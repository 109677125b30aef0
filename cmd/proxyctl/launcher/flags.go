package launcher

import (
	"gopkg.in/urfave/cli.v1"

	"github.com/unicornultrafoundation/go-u2u-proxy/monitoring"
	"github.com/unicornultrafoundation/go-u2u-proxy/params"
)

var (
	configFileFlag = cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
	DataDirFlag = cli.StringFlag{
		Name:  "datadir",
		Usage: "Data directory for the ledger database",
		Value: DefaultDataDir(),
	}
	KeyFlag = cli.StringFlag{
		Name:  "key",
		Usage: "Hex encoded private key of the sender (default: the funded development account)",
	}
	ChainIDFlag = cli.Uint64Flag{
		Name:  "chainid",
		Usage: "Chain id used for replay protection",
		Value: params.DevChainID.Uint64(),
	}
	GasLimitFlag = cli.Uint64Flag{
		Name:  "gaslimit",
		Usage: "Gas limit of issued transactions",
		Value: params.DefaultTxGas,
	}
	VerbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Usage: "Logging verbosity: 0=silent, 1=error, 2=warn, 3=info, 4=debug, 5=detail",
		Value: 3,
	}
	// MetricsEnabledFlag is also picked up by go-ethereum's metrics package
	// while initializing, so meters created at startup are live.
	MetricsEnabledFlag = cli.BoolFlag{
		Name:  "metrics",
		Usage: "Enable metrics collection and reporting",
	}
	MetricsPrometheusEndpointFlag = cli.StringFlag{
		Name:  "metrics.prometheus.endpoint",
		Usage: "Listen address of the Prometheus exporter",
		Value: monitoring.DefaultConfig.Endpoint,
	}
	ValueFlag = cli.StringFlag{
		Name:  "value",
		Usage: "Wei sent along with the transaction",
		Value: "0",
	}
)

var globalFlags = []cli.Flag{
	configFileFlag,
	DataDirFlag,
	KeyFlag,
	ChainIDFlag,
	GasLimitFlag,
	VerbosityFlag,
	MetricsEnabledFlag,
	MetricsPrometheusEndpointFlag,
}
