package event

import (
	"encoding/json"
)

/*
Parser normalizes one raw input line into canonical events.

This is the single boundary where JSON parse failures are absorbed: a
malformed line yields OutcomeInvalid and nothing else. Nothing downstream of
the parser ever sees a parse error, and the parser never panics on input.
*/
type Parser struct {
	matchers []matcher
}

func NewParser() Parser {
	return Parser{
		matchers: defaultMatchers(),
	}
}

// Parse attempts to normalize one raw line. Most shapes yield a single event;
// the key heuristic can yield several. The returned Outcome tells the caller
// how to count the line.
func (p *Parser) Parse(line []byte) ([]Event, Outcome) {
	if len(line) == 0 {
		return nil, OutcomeInvalid
	}

	var raw map[string]any
	if err := json.Unmarshal(line, &raw); err != nil {
		return nil, OutcomeInvalid
	}

	for _, m := range p.matchers {
		events, ok := m.match(raw)
		if !ok {
			continue
		}
		if len(events) == 0 {
			return nil, OutcomeNone
		}
		return events, OutcomeEvents
	}

	// valid JSON, no recognizable schema
	return nil, OutcomeNone
}
