package prometheus

import (
	"strings"

	"github.com/ethereum/go-ethereum/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	nameReplacer = strings.NewReplacer("/", "_", ".", "_", "-", "_", " ", "_")

	timerQuantiles = []float64{0.5, 0.75, 0.95, 0.99}
)

// metricName maps a go-ethereum metric name onto the prometheus name charset.
func metricName(name string) string {
	return nameReplacer.Replace(name)
}

func convertToPrometheusMetric(namespace, name string, metric interface{}) (prometheus.Collector, bool) {
	opts := prometheus.Opts{
		Namespace: namespace,
		Name:      metricName(name),
		Help:      name,
	}
	switch m := metric.(type) {
	case metrics.Counter:
		return prometheus.NewCounterFunc(prometheus.CounterOpts(opts), func() float64 {
			return float64(m.Snapshot().Count())
		}), true
	case metrics.Gauge:
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts(opts), func() float64 {
			return float64(m.Snapshot().Value())
		}), true
	case metrics.GaugeFloat64:
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts(opts), func() float64 {
			return m.Snapshot().Value()
		}), true
	case metrics.Meter:
		return prometheus.NewCounterFunc(prometheus.CounterOpts(opts), func() float64 {
			return float64(m.Snapshot().Count())
		}), true
	case metrics.Timer:
		return &timerCollector{
			timer: m,
			desc:  prometheus.NewDesc(prometheus.BuildFQName(namespace, "", metricName(name)), name, nil, nil),
		}, true
	default:
		return nil, false
	}
}

// timerCollector exports a timer as a summary of nanosecond durations.
type timerCollector struct {
	timer metrics.Timer
	desc  *prometheus.Desc
}

func (c *timerCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

func (c *timerCollector) Collect(ch chan<- prometheus.Metric) {
	snapshot := c.timer.Snapshot()
	values := snapshot.Percentiles(timerQuantiles)
	quantiles := make(map[float64]float64, len(timerQuantiles))
	for i, q := range timerQuantiles {
		quantiles[q] = values[i]
	}
	ch <- prometheus.MustNewConstSummary(c.desc, uint64(snapshot.Count()), float64(snapshot.Sum()), quantiles)
}
