package errclass

import (
	"time"

	"github.com/ShafaqShahid/LoadTestGMC/internal/event"
)

// Category is one bucket of the failure taxonomy. Status-derived buckets are
// constructed per status code ("server_error_500", "client_error_404"); the
// rest are fixed.
type Category string

const (
	CategoryTimeout            Category = "timeout"
	CategoryRequestTimeout     Category = "request_timeout"
	CategoryBadGateway         Category = "bad_gateway"
	CategoryConnectionFailed   Category = "connection_failed"
	CategoryUnexpectedResponse Category = "unexpected_response"
	CategoryOther              Category = "other_error"
)

func ServerErrorCategory(status string) Category {
	return Category("server_error_" + status)
}

func ClientErrorCategory(status string) Category {
	return Category("client_error_" + status)
}

// Record is one retained failure sample for diagnostics. Records live only
// in the classifier's capped ring buffer, never unbounded.
type Record struct {
	timestamp *time.Time
	category  Category
	status    string
	method    string
	url       string
	tags      event.Tags
}

func NewRecord(
	timestamp *time.Time,
	category Category,
	status string,
	method string,
	url string,
	tags event.Tags,
) Record {
	return Record{
		timestamp: timestamp,
		category:  category,
		status:    status,
		method:    method,
		url:       url,
		tags:      tags,
	}
}

func (r *Record) Timestamp() *time.Time {
	return r.timestamp
}

func (r *Record) Category() Category {
	return r.category
}

func (r *Record) Status() string {
	return r.status
}

func (r *Record) Method() string {
	return r.method
}

func (r *Record) URL() string {
	return r.url
}

func (r *Record) Tags() event.Tags {
	return r.tags
}

// TypeCount is one row of the per-category breakdown. Percentage is the
// share of the classifier total, formatted with one decimal ("100.0").
type TypeCount struct {
	Type       Category
	Count      int64
	Percentage string
}

// Report is the finalized classifier output. ByType always sums to Total.
type Report struct {
	Total    int64
	ByType   []TypeCount
	ByStatus map[string]int64
	Samples  []Record
}
