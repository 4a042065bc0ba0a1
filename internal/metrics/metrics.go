// Package metrics exports session activity and the last reported controller
// state as Prometheus metrics.
package metrics

import (
	"errors"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vrazzer/LED-control/internal/command"
	"github.com/vrazzer/LED-control/internal/state"
	"github.com/vrazzer/LED-control/internal/version"
)

const namespace = "spe6ctrl"

// Collector counts session events. It implements both prometheus.Collector
// and the session observer interface.
type Collector struct {
	connects     *prometheus.CounterVec
	connected    prometheus.Gauge
	identified   *prometheus.GaugeVec
	commandsSent *prometheus.CounterVec
	rejected     *prometheus.CounterVec
	segments     *prometheus.CounterVec
	queries      prometheus.Counter
	byteChanges  prometheus.Counter
	lastReport   prometheus.Gauge
	stateByte    *prometheus.GaugeVec
	buildInfo    *prometheus.GaugeVec
}

// stateGauges are the record fields exported as gauges.
var stateGauges = []struct {
	field  string
	offset int
}{
	{"power", state.OffsetPower},
	{"mode", state.OffsetMode},
	{"effect", state.OffsetEffect},
	{"level", state.OffsetLevel},
	{"white", state.OffsetWhite},
	{"speed", state.OffsetSpeed},
	{"length", state.OffsetLength},
	{"direction", state.OffsetDirection},
	{"gain", state.OffsetGain},
	{"remotes", state.OffsetRemoteCount},
}

// NewCollector creates the collector.
func NewCollector() *Collector {
	c := &Collector{
		connects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connects_total",
			Help:      "Connection attempts by result",
		}, []string{"result"}),
		connected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connected",
			Help:      "1 while the link is up",
		}),
		identified: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "identified",
			Help:      "1 for the device kind identified on the current link",
		}, []string{"kind"}),
		commandsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_sent_total",
			Help:      "Commands written to the device",
		}, []string{"command"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_rejected_total",
			Help:      "Command lines not sent, by reason",
		}, []string{"reason"}),
		segments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "segments_total",
			Help:      "State segments received, by result",
		}, []string{"result"}),
		queries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_completed_total",
			Help:      "State records fully reassembled",
		}),
		byteChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "state_byte_changes_total",
			Help:      "Record bytes that changed between consecutive queries",
		}),
		lastReport: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_report_timestamp_seconds",
			Help:      "Time of the last completed query (epoch seconds)",
		}),
		stateByte: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "state",
			Help:      "Controller setting from the last completed query",
		}, []string{"field"}),
		buildInfo: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "build_info",
			Help:      "Build information",
		}, []string{"version"}),
	}
	c.buildInfo.WithLabelValues(version.Version).Set(1)
	return c
}

// NewRegistry returns a registry holding c.
func NewRegistry(c *Collector) *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(c)
	return registry
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.connects.Describe(ch)
	c.connected.Describe(ch)
	c.identified.Describe(ch)
	c.commandsSent.Describe(ch)
	c.rejected.Describe(ch)
	c.segments.Describe(ch)
	c.queries.Describe(ch)
	c.byteChanges.Describe(ch)
	c.lastReport.Describe(ch)
	c.stateByte.Describe(ch)
	c.buildInfo.Describe(ch)
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.connects.Collect(ch)
	c.connected.Collect(ch)
	c.identified.Collect(ch)
	c.commandsSent.Collect(ch)
	c.rejected.Collect(ch)
	c.segments.Collect(ch)
	c.queries.Collect(ch)
	c.byteChanges.Collect(ch)
	c.lastReport.Collect(ch)
	c.stateByte.Collect(ch)
	c.buildInfo.Collect(ch)
}

func (c *Collector) Connected(string) {
	c.connects.WithLabelValues("ok").Inc()
	c.connected.Set(1)
}

func (c *Collector) ConnectFailed(string, error) {
	c.connects.WithLabelValues("error").Inc()
}

func (c *Collector) Disconnected(string, error) {
	c.connected.Set(0)
	c.identified.Reset()
}

func (c *Collector) Identified(_ string, kind string) {
	c.identified.WithLabelValues(kind).Set(1)
}

func (c *Collector) Sent(req *command.Request) {
	name := req.Name
	if req.Raw {
		name = command.RawMarker
	}
	c.commandsSent.WithLabelValues(name).Inc()
}

func (c *Collector) Rejected(_ string, err error) {
	reason := "other"
	var cmdErr *command.Error
	if errors.As(err, &cmdErr) {
		reason = strings.ToLower(strings.ReplaceAll(cmdErr.Type.String(), " ", "_"))
	}
	c.rejected.WithLabelValues(reason).Inc()
}

func (c *Collector) Segment(result state.SegmentResult) {
	c.segments.WithLabelValues(result.String()).Inc()
}

func (c *Collector) Reported(_, _ string, report *state.Report) {
	c.queries.Inc()
	c.byteChanges.Add(float64(len(report.Changes)))
	c.lastReport.Set(float64(time.Now().Unix()))

	rec := state.NewRecord(report.Record)
	for _, g := range stateGauges {
		if v, ok := rec.Byte(g.offset); ok {
			c.stateByte.WithLabelValues(g.field).Set(float64(v))
		}
	}
}
