package errclass

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ShafaqShahid/LoadTestGMC/internal/event"
)

/*
Classifier aggregates failure-metric samples into a fixed taxonomy.

It observes EVERY sample of the failure metric, success or failure: the
status histogram is built from all responses so success/failure accounting
does not depend on the raw failure flag alone. Failures additionally feed
the per-category counters, the global total, and the ring buffer of recent
samples.

The classifier total is the single source of truth for totalErrors;
everything else (byType counts, percentages, error rate) is derived from it.
*/
type Classifier struct {
	byCategory map[Category]int64
	byStatus   map[string]int64
	responses  int64
	failures   int64
	samples    *ring
	truncate   int
}

const (
	DefaultSampleCap   = 20
	DefaultURLTruncate = 120
)

// generator error codes observed in the wild
const errCodeRequestTimeout = "1050"

func NewClassifier(sampleCap int, urlTruncate int) *Classifier {
	if sampleCap < 1 {
		sampleCap = DefaultSampleCap
	}
	if urlTruncate < 1 {
		urlTruncate = DefaultURLTruncate
	}
	return &Classifier{
		byCategory: make(map[Category]int64),
		byStatus:   make(map[string]int64),
		samples:    newRing(sampleCap),
		truncate:   urlTruncate,
	}
}

/*
Classify assigns exactly one category, evaluating in fixed priority order:

 1. explicit timeout marker
 2. explicit known error code or text (request timeout, bad gateway)
 3. HTTP-status-derived bucket (5xx, 4xx, status "0" = connection failed)
 4. explicit unexpected-response flag
 5. fallback other_error
*/
func Classify(tags event.Tags) Category {
	if tags["timeout"] == "true" {
		return CategoryTimeout
	}

	errText := strings.ToLower(tags["error"])
	switch {
	case tags["error_code"] == errCodeRequestTimeout,
		strings.Contains(errText, "request timeout"):
		return CategoryRequestTimeout
	case strings.Contains(errText, "bad gateway"):
		return CategoryBadGateway
	}

	status := tags["status"]
	switch {
	case len(status) == 3 && status[0] == '5':
		return ServerErrorCategory(status)
	case len(status) == 3 && status[0] == '4':
		return ClientErrorCategory(status)
	case status == "0":
		return CategoryConnectionFailed
	}

	if tags["expected_response"] == "false" {
		return CategoryUnexpectedResponse
	}

	return CategoryOther
}

// ObserveResponse records one failure-metric sample. failed mirrors the
// sample value (value != 0). Every response lands in the status histogram;
// only failures are classified and retained.
func (c *Classifier) ObserveResponse(timestamp *time.Time, tags event.Tags, failed bool) {
	c.responses++
	if status := tags["status"]; status != "" {
		c.byStatus[status]++
	}

	if !failed {
		return
	}

	c.failures++
	category := Classify(tags)
	c.byCategory[category]++
	c.samples.Add(NewRecord(
		timestamp,
		category,
		tags["status"],
		tags["method"],
		truncateURL(tags["url"], c.truncate),
		tags,
	))
}

// Responses returns the number of failure-metric samples observed, success
// and failure alike.
func (c *Classifier) Responses() int64 {
	return c.responses
}

// Total returns the canonical failure count.
func (c *Classifier) Total() int64 {
	return c.failures
}

// Merge folds other into c. Counters add; retained samples are re-buffered
// most recent last so the combined ring keeps the newest entries.
func (c *Classifier) Merge(other *Classifier) {
	if other == nil {
		return
	}
	c.responses += other.responses
	c.failures += other.failures
	for category, n := range other.byCategory {
		c.byCategory[category] += n
	}
	for status, n := range other.byStatus {
		c.byStatus[status] += n
	}

	combined := append(c.samples.Items(), other.samples.Items()...)
	sort.SliceStable(combined, func(i, j int) bool {
		return recordTime(combined[i]).Before(recordTime(combined[j]))
	})
	rebuffered := newRing(c.samples.Cap())
	for _, rec := range combined {
		rebuffered.Add(rec)
	}
	c.samples = rebuffered
}

// Finalize derives the classifier report. ByType rows are sorted by count
// descending, then name, so the dominant failure mode leads.
func (c *Classifier) Finalize() Report {
	byType := make([]TypeCount, 0, len(c.byCategory))
	for category, count := range c.byCategory {
		byType = append(byType, TypeCount{
			Type:       category,
			Count:      count,
			Percentage: percentage(count, c.failures),
		})
	}
	sort.Slice(byType, func(i, j int) bool {
		if byType[i].Count != byType[j].Count {
			return byType[i].Count > byType[j].Count
		}
		return byType[i].Type < byType[j].Type
	})

	byStatus := make(map[string]int64, len(c.byStatus))
	for status, n := range c.byStatus {
		byStatus[status] = n
	}

	return Report{
		Total:    c.failures,
		ByType:   byType,
		ByStatus: byStatus,
		Samples:  c.samples.Items(),
	}
}

func percentage(count int64, total int64) string {
	if total == 0 {
		return "0.0"
	}
	return fmt.Sprintf("%.1f", float64(count)/float64(total)*100)
}

func truncateURL(url string, max int) string {
	if len(url) <= max {
		return url
	}
	return url[:max]
}

func recordTime(r Record) time.Time {
	if r.Timestamp() == nil {
		return time.Time{}
	}
	return *r.Timestamp()
}
