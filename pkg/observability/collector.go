package observability

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/calyptra/synapse/pkg/plasm"
)

// GraphCollector implements prometheus.Collector over a graph.
type GraphCollector struct {
	p *plasm.Plasm

	calls    *prometheus.Desc
	busy     *prometheus.Desc
	duration *prometheus.Desc
	queueLen *prometheus.Desc
}

// NewGraphCollector builds a collector that scrapes p.
func NewGraphCollector(p *plasm.Plasm) *GraphCollector {
	return &GraphCollector{
		p: p,
		calls: prometheus.NewDesc(
			"synapse_cell_process_calls_total",
			"Process invocations per cell.",
			[]string{"cell", "type"}, nil),
		busy: prometheus.NewDesc(
			"synapse_cell_busy",
			"Whether the cell is currently inside its process hook.",
			[]string{"cell", "type"}, nil),
		duration: prometheus.NewDesc(
			"synapse_cell_process_seconds_total",
			"Accumulated time spent inside the process hook per cell.",
			[]string{"cell", "type"}, nil),
		queueLen: prometheus.NewDesc(
			"synapse_edge_queue_length",
			"Values currently buffered on an edge.",
			[]string{"from", "from_port", "to", "to_port"}, nil),
	}
}

func (c *GraphCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.calls
	ch <- c.busy
	ch <- c.duration
	ch <- c.queueLen
}

func (c *GraphCollector) Collect(ch chan<- prometheus.Metric) {
	for _, cl := range c.p.Cells() {
		snap := cl.Stats().Snapshot()
		labels := []string{cl.Name(), cl.TypeName()}
		ch <- prometheus.MustNewConstMetric(c.calls, prometheus.CounterValue,
			float64(snap.Calls), labels...)
		busy := 0.0
		if snap.On {
			busy = 1.0
		}
		ch <- prometheus.MustNewConstMetric(c.busy, prometheus.GaugeValue, busy, labels...)
		ch <- prometheus.MustNewConstMetric(c.duration, prometheus.CounterValue,
			snap.Total.Seconds(), labels...)
	}
	for _, conn := range c.p.Connections() {
		ch <- prometheus.MustNewConstMetric(c.queueLen, prometheus.GaugeValue,
			float64(conn.Edge.Len()),
			conn.From, conn.FromPort, conn.To, conn.ToPort)
	}
}
