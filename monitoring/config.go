package monitoring

// Config is the metrics export configuration.
type Config struct {
	// Enabled turns the collection of metrics on.
	Enabled bool
	// Endpoint is the listen address of the Prometheus exporter. The exporter
	// doesn't start if it's empty.
	Endpoint string `toml:",omitempty"`
	// Namespace prefixes every exported metric name.
	Namespace string `toml:",omitempty"`
}

// DefaultConfig is the default config for metrics.
var DefaultConfig = Config{
	Enabled:   false,
	Endpoint:  "127.0.0.1:19090",
	Namespace: "proxyctl",
}
