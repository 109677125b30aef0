package launcher

import (
	"context"
	"io"
	"os"
	"sort"

	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/metrics"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"gopkg.in/urfave/cli.v1"

	"github.com/unicornultrafoundation/go-u2u-proxy/logger"
	"github.com/unicornultrafoundation/go-u2u-proxy/monitoring/prometheus"
	"github.com/unicornultrafoundation/go-u2u-proxy/params"
)

var (
	// Git SHA1 commit hash of the release (set via linker flags).
	gitCommit = ""
	gitDate   = ""
)

// NewApp creates the proxyctl command line application.
func NewApp() *cli.App {
	app := cli.NewApp()
	app.Name = "proxyctl"
	app.Usage = "operate upgradeable proxies on a native contract ledger"
	app.Version = params.VersionWithCommit(gitCommit, gitDate)
	app.HideVersion = true // we have a command to print the version
	app.Commands = []cli.Command{
		// See commands.go:
		deployCommand,
		upgradeCommand,
		changeAdminCommand,
		sendCommand,
		callCommand,
		inspectCommand,
		// See demo.go:
		demoCommand,
		// See config.go:
		dumpConfigCommand,
		// See misccmd.go:
		versionCommand,
	}
	sort.Sort(cli.CommandsByName(app.Commands))
	app.Flags = append(app.Flags, globalFlags...)

	stopMetrics := func() {}
	app.Before = func(ctx *cli.Context) error {
		cfg, err := mayMakeAllConfigs(ctx)
		if err != nil {
			return err
		}
		setupLogging(ctx.App.ErrWriter, cfg.Node.Verbosity)
		stopMetrics = setupMetrics(cfg)
		return nil
	}
	app.After = func(ctx *cli.Context) error {
		stopMetrics()
		return nil
	}
	return app
}

// Launch runs the application with the given command line.
func Launch(args []string) error {
	return NewApp().Run(args)
}

func setupLogging(w io.Writer, verbosity int) {
	if w == nil {
		w = os.Stderr
	}
	useColor := false
	if w == os.Stderr {
		useColor = (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) && os.Getenv("TERM") != "dumb"
		if useColor {
			w = colorable.NewColorableStderr()
		}
	}
	logger.SetVerbosity(w, verbosity, useColor)
}

func setupMetrics(cfg *config) (stop func()) {
	if !cfg.Metrics.Enabled {
		return func() {}
	}
	if !metrics.Enabled {
		// metrics registered while initializing stay disabled
		log.Warn("Metrics enabled by configuration only, pass --metrics to collect all of them")
		metrics.Enabled = true
	}
	if cfg.Metrics.Endpoint == "" {
		return func() {}
	}
	ctx, cancel := context.WithCancel(context.Background())
	prometheus.PrometheusListener(ctx, cfg.Metrics.Endpoint, cfg.Metrics.Namespace, nil)
	return cancel
}
