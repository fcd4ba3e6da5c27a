// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bridge

import (
	"time"

	"github.com/luxfi/metric"

	"github.com/luxfi/mpbridge/utils/wrappers"
)

// averager tracks a running mean as a count and a sum.
type averager struct {
	count metric.Counter
	sum   metric.Gauge
}

func newAverager(name, desc string) averager {
	return averager{
		count: metric.NewCounter(metric.CounterOpts{
			Name: name + "_count",
			Help: "Total # of observations of " + desc,
		}),
		sum: metric.NewGauge(metric.GaugeOpts{
			Name: name + "_sum",
			Help: "Sum of " + desc,
		}),
	}
}

func (a averager) observe(v float64) {
	a.count.Inc()
	a.sum.Add(v)
}

func (a averager) register(registerer metric.Registerer) []error {
	return []error{
		registerer.Register(metric.AsCollector(a.count)),
		registerer.Register(metric.AsCollector(a.sum)),
	}
}

// metrics is shared by every State a Bridge creates. A nil *metrics records
// nothing.
type metrics struct {
	directCalls  metric.Counter
	runs         metric.Counter
	passThrough  metric.Counter
	emptyBatches metric.Counter
	failures     metric.Counter
	lastBatch    metric.Gauge

	batchSize   averager
	recordTime  averager
	computeTime averager
	replayTime  averager
}

func newMetrics(registerer metric.Registerer) (*metrics, error) {
	m := &metrics{
		directCalls: metric.NewCounter(metric.CounterOpts{
			Name: "direct_calls",
			Help: "Number of exponentiations computed in direct mode",
		}),
		runs: metric.NewCounter(metric.CounterOpts{
			Name: "runs",
			Help: "Number of orchestrated runs started",
		}),
		passThrough: metric.NewCounter(metric.CounterOpts{
			Name: "pass_through_runs",
			Help: "Number of runs executed once because interception is disabled",
		}),
		emptyBatches: metric.NewCounter(metric.CounterOpts{
			Name: "empty_batches",
			Help: "Number of runs that recorded no exponentiation",
		}),
		failures: metric.NewCounter(metric.CounterOpts{
			Name: "failed_runs",
			Help: "Number of runs aborted by an error",
		}),
		lastBatch: metric.NewGauge(metric.GaugeOpts{
			Name: "last_batch_size",
			Help: "Number of requests in the most recent batch",
		}),
		batchSize:   newAverager("batch_size", "recorded batch sizes"),
		recordTime:  newAverager("record_duration", "time (in ns) spent recording"),
		computeTime: newAverager("compute_duration", "time (in ns) spent in the compute service"),
		replayTime:  newAverager("replay_duration", "time (in ns) spent replaying"),
	}

	errs := wrappers.Errs{}
	errs.Add(
		registerer.Register(metric.AsCollector(m.directCalls)),
		registerer.Register(metric.AsCollector(m.runs)),
		registerer.Register(metric.AsCollector(m.passThrough)),
		registerer.Register(metric.AsCollector(m.emptyBatches)),
		registerer.Register(metric.AsCollector(m.failures)),
		registerer.Register(metric.AsCollector(m.lastBatch)),
	)
	errs.Add(m.batchSize.register(registerer)...)
	errs.Add(m.recordTime.register(registerer)...)
	errs.Add(m.computeTime.register(registerer)...)
	errs.Add(m.replayTime.register(registerer)...)
	return m, errs.Err
}

func (m *metrics) markDirect() {
	if m != nil {
		m.directCalls.Inc()
	}
}

func (m *metrics) markRun() {
	if m != nil {
		m.runs.Inc()
	}
}

func (m *metrics) markPassThrough() {
	if m != nil {
		m.passThrough.Inc()
	}
}

func (m *metrics) markFailure() {
	if m != nil {
		m.failures.Inc()
	}
}

func (m *metrics) markRecorded(size int, d time.Duration) {
	if m == nil {
		return
	}
	m.lastBatch.Set(float64(size))
	m.batchSize.observe(float64(size))
	m.recordTime.observe(float64(d))
	if size == 0 {
		m.emptyBatches.Inc()
	}
}

func (m *metrics) markComputed(d time.Duration) {
	if m != nil {
		m.computeTime.observe(float64(d))
	}
}

func (m *metrics) markReplayed(d time.Duration) {
	if m != nil {
		m.replayTime.observe(float64(d))
	}
}
