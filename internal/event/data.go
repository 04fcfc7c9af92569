package event

import "time"

// Canonical telemetry unit

// Well-known metric names emitted by the load generator. The failure metric
// carries a 0/1 value per request; checks carry a 0/1 value plus a check tag.
const (
	MetricRequests     = "http_reqs"
	MetricDuration     = "http_req_duration"
	MetricFailed       = "http_req_failed"
	MetricChecks       = "checks"
	MetricIterations   = "iterations"
	MetricVUs          = "vus"
	MetricVUsMax       = "vus_max"
	MetricDataReceived = "data_received"
	MetricDataSent     = "data_sent"
)

type Kind int

const (
	KindMetric Kind = iota
	KindCheck
)

type Tags map[string]string

// Event is the normalized form every accepted input shape reduces to.
// A missing timestamp stays nil; such events are excluded from time-range
// math rather than defaulted to wall-clock time.
type Event struct {
	kind      Kind
	name      string
	value     float64
	passed    bool
	timestamp *time.Time
	tags      Tags
}

func NewMetricSample(name string, value float64, timestamp *time.Time, tags Tags) Event {
	return Event{
		kind:      KindMetric,
		name:      name,
		value:     value,
		timestamp: timestamp,
		tags:      tags,
	}
}

func NewCheckSample(name string, passed bool, timestamp *time.Time, tags Tags) Event {
	return Event{
		kind:      KindCheck,
		name:      name,
		passed:    passed,
		timestamp: timestamp,
		tags:      tags,
	}
}

func (e *Event) Kind() Kind {
	return e.kind
}

func (e *Event) Name() string {
	return e.name
}

func (e *Event) Value() float64 {
	return e.value
}

func (e *Event) Passed() bool {
	return e.passed
}

func (e *Event) Timestamp() *time.Time {
	return e.timestamp
}

func (e *Event) Tags() Tags {
	return e.tags
}

// Outcome classifies what one raw line turned into.
type Outcome int

const (
	// OutcomeInvalid means the line was not valid JSON.
	OutcomeInvalid Outcome = iota
	// OutcomeNone means the line was valid JSON but produced no sample
	// (metric declarations, unrecognized schemas).
	OutcomeNone
	// OutcomeEvents means one or more canonical events were produced.
	OutcomeEvents
)
