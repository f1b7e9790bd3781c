package observability

import (
	"context"
	"strconv"
	"time"
)

// Recorder fans application measurements out to Prometheus and
// CloudWatch. Either sink may be nil.
type Recorder struct {
	collector  *Collector
	cloudwatch *Metrics
}

// NewRecorder creates a recorder over the given sinks
func NewRecorder(collector *Collector, cloudwatch *Metrics) *Recorder {
	return &Recorder{collector: collector, cloudwatch: cloudwatch}
}

// NewNopRecorder records nothing
func NewNopRecorder() *Recorder {
	return &Recorder{}
}

// RecordCommand records a command or query execution
func (r *Recorder) RecordCommand(ctx context.Context, name string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	if r.collector != nil {
		r.collector.CommandDuration.WithLabelValues(name, status).Observe(duration.Seconds())
	}
	if r.cloudwatch != nil {
		r.cloudwatch.RecordCommandExecution(ctx, name, duration, err)
	}
}

// RecordHTTPRequest records one served request
func (r *Recorder) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if r.collector == nil {
		return
	}
	r.collector.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.collector.HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ChartGenerated counts a generated chart
func (r *Recorder) ChartGenerated(ctx context.Context, synced bool) {
	if r.collector != nil {
		r.collector.ChartsGenerated.WithLabelValues(strconv.FormatBool(synced)).Inc()
	}
	if r.cloudwatch != nil {
		r.cloudwatch.RecordBusinessMetric(ctx, "ChartsGenerated", 1, map[string]string{"Synced": strconv.FormatBool(synced)})
	}
}

// PersistenceRetry counts a retried remote write
func (r *Recorder) PersistenceRetry(ctx context.Context) {
	if r.collector != nil {
		r.collector.PersistenceRetries.Inc()
	}
}

// SyncOutcome counts a deferred-sync attempt result: synced, failed or abandoned
func (r *Recorder) SyncOutcome(ctx context.Context, outcome string) {
	if r.collector != nil {
		r.collector.SyncOutcomes.WithLabelValues(outcome).Inc()
	}
	if r.cloudwatch != nil {
		r.cloudwatch.RecordBusinessMetric(ctx, "ChartSync", 1, map[string]string{"Outcome": outcome})
	}
}

// TieredRead counts which tier served a read
func (r *Recorder) TieredRead(ctx context.Context, resource, source string) {
	if r.collector != nil {
		r.collector.TieredReads.WithLabelValues(resource, source).Inc()
	}
	if r.cloudwatch != nil && source == "fallback" {
		r.cloudwatch.RecordBusinessMetric(ctx, "FallbackServed", 1, map[string]string{"Resource": resource})
	}
}
