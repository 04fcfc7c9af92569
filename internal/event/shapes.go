package event

import (
	"strconv"
	"strings"
	"time"
)

/*
Shape matchers.

The load generator and its wrapper scripts have produced at least six
incompatible line shapes over time. Each shape gets one first-class matcher;
matchers are tried in a fixed priority order and the first success wins.
Adding a shape means adding a table entry plus one fixture test, never
another inline branch.

Guards are strict so every entry stays reachable: the untyped shapes only
match lines without a "type" key, otherwise the typed matchers would be dead.
*/

type matcher struct {
	name  string
	match func(raw map[string]any) ([]Event, bool)
}

func defaultMatchers() []matcher {
	return []matcher{
		{name: "metric+data", match: matchMetricData},
		{name: "metric+value", match: matchMetricValue},
		{name: "point", match: matchPoint},
		{name: "metric-declaration", match: matchMetricDeclaration},
		{name: "bare-metric", match: matchBareMetric},
		{name: "heuristic-keys", match: matchHeuristicKeys},
	}
}

// {metric: "...", data: {value: ..., tags: {...}, time: ...}} without a type key
func matchMetricData(raw map[string]any) ([]Event, bool) {
	if _, typed := raw["type"]; typed {
		return nil, false
	}
	name, ok := stringField(raw, "metric")
	if !ok {
		return nil, false
	}
	data, ok := raw["data"].(map[string]any)
	if !ok {
		return nil, false
	}
	return []Event{sampleFromData(name, data)}, true
}

// {metric: "...", value: ...} without a type key
func matchMetricValue(raw map[string]any) ([]Event, bool) {
	if _, typed := raw["type"]; typed {
		return nil, false
	}
	name, ok := stringField(raw, "metric")
	if !ok {
		return nil, false
	}
	value, ok := numberField(raw, "value")
	if !ok {
		return nil, false
	}
	return []Event{normalize(name, value, timestampField(raw), tagsField(raw))}, true
}

// {type: "Point", metric: "...", data: {...}}, the canonical generator output
func matchPoint(raw map[string]any) ([]Event, bool) {
	if t, _ := stringField(raw, "type"); t != "Point" {
		return nil, false
	}
	name, ok := stringField(raw, "metric")
	if !ok {
		return nil, false
	}
	if data, ok := raw["data"].(map[string]any); ok {
		return []Event{sampleFromData(name, data)}, true
	}
	// some wrappers flatten the value to the top level
	if value, ok := numberField(raw, "value"); ok {
		return []Event{normalize(name, value, timestampField(raw), tagsField(raw))}, true
	}
	return nil, false
}

// {type: "Metric", ...} declaration lines carry no sample but are valid input
func matchMetricDeclaration(raw map[string]any) ([]Event, bool) {
	if t, _ := stringField(raw, "type"); t != "Metric" {
		return nil, false
	}
	return nil, true
}

// {metric: "..."} with neither data nor value: presence counts as one occurrence
func matchBareMetric(raw map[string]any) ([]Event, bool) {
	name, ok := stringField(raw, "metric")
	if !ok {
		return nil, false
	}
	if _, hasData := raw["data"]; hasData {
		return nil, false
	}
	if _, hasValue := raw["value"]; hasValue {
		return nil, false
	}
	return []Event{normalize(name, 1, timestampField(raw), tagsField(raw))}, true
}

var heuristicSubstrings = []string{"http_req", "iteration", "vus", "data_"}

// Last resort: top-level keys that look like known metric names with numeric
// values. One sample per matching key.
func matchHeuristicKeys(raw map[string]any) ([]Event, bool) {
	ts := timestampField(raw)
	tags := tagsField(raw)
	var events []Event
	for key, v := range raw {
		value, ok := asNumber(v)
		if !ok {
			continue
		}
		for _, sub := range heuristicSubstrings {
			if strings.Contains(key, sub) {
				events = append(events, normalize(key, value, ts, tags))
				break
			}
		}
	}
	if len(events) == 0 {
		return nil, false
	}
	return events, true
}

// normalize is where a metric sample may turn into a check sample: the checks
// metric with a check tag is a pass/fail observation, value != 0 means passed.
func normalize(name string, value float64, ts *time.Time, tags Tags) Event {
	if name == MetricChecks {
		if checkName, ok := tags["check"]; ok && checkName != "" {
			return NewCheckSample(checkName, value != 0, ts, tags)
		}
	}
	return NewMetricSample(name, value, ts, tags)
}

func sampleFromData(name string, data map[string]any) Event {
	value, ok := numberField(data, "value")
	if !ok {
		value = 1
	}
	return normalize(name, value, timestampField(data), tagsField(data))
}

func stringField(m map[string]any, key string) (string, bool) {
	s, ok := m[key].(string)
	return s, ok
}

func numberField(m map[string]any, key string) (float64, bool) {
	v, ok := m[key]
	if !ok {
		return 0, false
	}
	return asNumber(v)
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		parsed, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

func tagsField(m map[string]any) Tags {
	rawTags, ok := m["tags"].(map[string]any)
	if !ok {
		return nil
	}
	tags := make(Tags, len(rawTags))
	for k, v := range rawTags {
		switch s := v.(type) {
		case string:
			tags[k] = s
		case float64:
			tags[k] = strconv.FormatFloat(s, 'f', -1, 64)
		case bool:
			tags[k] = strconv.FormatBool(s)
		}
	}
	return tags
}

// timestampField accepts RFC3339 strings under "time" or "timestamp", or an
// epoch value in milliseconds. Absent or unparseable timestamps yield nil.
func timestampField(m map[string]any) *time.Time {
	for _, key := range []string{"time", "timestamp"} {
		v, ok := m[key]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case string:
			if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
				return &parsed
			}
		case float64:
			parsed := time.UnixMilli(int64(t)).UTC()
			return &parsed
		}
	}
	return nil
}
