package server

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kylerisse/uptui/pkg/probe"
)

var (
	upDesc = prometheus.NewDesc(
		"uptui_monitor_up",
		"Whether the monitor target is up (1) or not (0).",
		[]string{"monitor", "address"}, nil,
	)
	latencyDesc = prometheus.NewDesc(
		"uptui_monitor_latency_milliseconds",
		"Latency of the last completed probe in milliseconds.",
		[]string{"monitor", "address"}, nil,
	)
	stateDesc = prometheus.NewDesc(
		"uptui_monitor_state",
		"Current state of the monitor, 1 for the active state.",
		[]string{"monitor", "address", "state", "category"}, nil,
	)
	lastCycleDesc = prometheus.NewDesc(
		"uptui_last_cycle_timestamp_seconds",
		"Unix time of the last finished probe cycle.",
		nil, nil,
	)
	cyclesDesc = prometheus.NewDesc(
		"uptui_cycles_total",
		"Number of finished probe cycles.",
		nil, nil,
	)
)

// collector exposes the store as Prometheus metrics at scrape time.
type collector struct {
	store *Store
}

func newCollector(store *Store) *collector {
	return &collector{store: store}
}

// Describe implements prometheus.Collector.
func (c *collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- upDesc
	ch <- latencyDesc
	ch <- stateDesc
	ch <- lastCycleDesc
	ch <- cyclesDesc
}

// Collect implements prometheus.Collector.
func (c *collector) Collect(ch chan<- prometheus.Metric) {
	snap := c.store.Snapshot()

	ch <- prometheus.MustNewConstMetric(cyclesDesc, prometheus.CounterValue, float64(snap.Cycles))
	if !snap.LastUpdate.IsZero() {
		ch <- prometheus.MustNewConstMetric(lastCycleDesc, prometheus.GaugeValue, float64(snap.LastUpdate.Unix()))
	}

	// Duplicate label sets make the registry reject the whole scrape.
	seen := make(map[[2]string]bool, len(snap.Rows))

	for _, r := range snap.Rows {
		key := [2]string{r.Name, r.Address}
		if seen[key] {
			continue
		}
		seen[key] = true

		up := 0.0
		if r.State == probe.StateUp {
			up = 1
		}
		ch <- prometheus.MustNewConstMetric(upDesc, prometheus.GaugeValue, up, r.Name, r.Address)
		ch <- prometheus.MustNewConstMetric(stateDesc, prometheus.GaugeValue, 1, r.Name, r.Address, string(r.State), r.Category.String())

		if r.Measured {
			ch <- prometheus.MustNewConstMetric(latencyDesc, prometheus.GaugeValue, float64(r.LatencyMS()), r.Name, r.Address)
		}
	}
}
