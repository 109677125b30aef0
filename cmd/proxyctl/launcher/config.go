package launcher

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"reflect"

	"github.com/naoina/toml"
	"github.com/pkg/errors"
	"gopkg.in/urfave/cli.v1"

	"github.com/unicornultrafoundation/go-u2u-proxy/evmcore"
	"github.com/unicornultrafoundation/go-u2u-proxy/monitoring"
	"github.com/unicornultrafoundation/go-u2u-proxy/params"
)

var (
	dumpConfigCommand = cli.Command{
		Action:      dumpConfig,
		Name:        "dumpconfig",
		Usage:       "Show configuration values",
		ArgsUsage:   "[file]",
		Category:    "MISCELLANEOUS COMMANDS",
		Description: `The dumpconfig command shows configuration values.`,
	}
)

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		return fmt.Errorf("field '%s' is not defined in %s", field, rt.String())
	},
}

// NodeConfig configures the local operator.
type NodeConfig struct {
	DataDir string
	// Key is the hex encoded private key of the sender. The funded
	// development account is used if it's empty.
	Key       string `toml:",omitempty"`
	GasLimit  uint64
	GasPrice  uint64
	Verbosity int
	// FakeAccounts is the number of development accounts funded in the
	// genesis of a new ledger.
	FakeAccounts uint32
}

type config struct {
	Node    NodeConfig
	Ledger  evmcore.LedgerConfig
	Metrics monitoring.Config
}

// DefaultDataDir is the default data directory to use for the databases and other
// persistence requirements.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, ".proxyctl")
}

func defaultConfig() config {
	return config{
		Node: NodeConfig{
			DataDir:      DefaultDataDir(),
			GasLimit:     params.DefaultTxGas,
			GasPrice:     1,
			Verbosity:    3,
			FakeAccounts: 1,
		},
		Ledger:  evmcore.DefaultLedgerConfig(),
		Metrics: monitoring.DefaultConfig,
	}
}

func loadAllConfigs(file string, cfg *config) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg)
	// Add file name to errors that have a line number.
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(file + ", " + err.Error())
	}
	if err != nil {
		return errors.Errorf("TOML config file error: %v.\n"+
			"Use 'dumpconfig' command to get an example config file.", err)
	}
	return nil
}

func mayMakeAllConfigs(ctx *cli.Context) (*config, error) {
	cfg := defaultConfig()

	if file := ctx.GlobalString(configFileFlag.Name); file != "" {
		if err := loadAllConfigs(file, &cfg); err != nil {
			return nil, err
		}
	}

	if ctx.GlobalIsSet(DataDirFlag.Name) {
		cfg.Node.DataDir = ctx.GlobalString(DataDirFlag.Name)
	}
	if ctx.GlobalIsSet(KeyFlag.Name) {
		cfg.Node.Key = ctx.GlobalString(KeyFlag.Name)
	}
	if ctx.GlobalIsSet(GasLimitFlag.Name) {
		cfg.Node.GasLimit = ctx.GlobalUint64(GasLimitFlag.Name)
	}
	if ctx.GlobalIsSet(VerbosityFlag.Name) {
		cfg.Node.Verbosity = ctx.GlobalInt(VerbosityFlag.Name)
	}
	if ctx.GlobalIsSet(ChainIDFlag.Name) {
		cfg.Ledger.ChainID = ctx.GlobalUint64(ChainIDFlag.Name)
	}
	if ctx.GlobalIsSet(MetricsEnabledFlag.Name) {
		cfg.Metrics.Enabled = ctx.GlobalBool(MetricsEnabledFlag.Name)
	}
	if ctx.GlobalIsSet(MetricsPrometheusEndpointFlag.Name) {
		cfg.Metrics.Endpoint = ctx.GlobalString(MetricsPrometheusEndpointFlag.Name)
	}

	if cfg.Node.GasLimit == 0 {
		return nil, errors.New("gas limit must be positive")
	}
	if cfg.Node.GasLimit > cfg.Ledger.BlockGasLimit {
		return nil, errors.Errorf("gas limit %d exceeds block gas limit %d", cfg.Node.GasLimit, cfg.Ledger.BlockGasLimit)
	}
	return &cfg, nil
}

// dumpConfig is the dumpconfig command.
func dumpConfig(ctx *cli.Context) error {
	cfg, err := mayMakeAllConfigs(ctx)
	if err != nil {
		return err
	}

	out, err := tomlSettings.Marshal(cfg)
	if err != nil {
		return err
	}

	dump := ctx.App.Writer
	if ctx.NArg() > 0 {
		f, err := os.OpenFile(ctx.Args().Get(0), os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		dump = f
	}
	_, err = dump.Write(out)
	return err
}
