package metadata

/*
mergeStats
  - Represents a terminal, derived summary of a completed merge run
  - Contains only aggregate counts and durations
  - Is computed by the coordinator after merge termination
  - Is recorded exactly once
  - Must not influence file scheduling or merge termination
  - Must be constructed without reading metadata
*/
type mergeStats struct {
	filesProcessed int
	totalLines     int64
	validLines     int64
	totalRequests  int64
	totalErrors    int64
	durationMs     int64
}

/*
	ErrorCause is a closed, canonical classification used exclusively for
	observability (logging, reporting).

	Rules:
	 - ErrorCause is for observability only.
	 - It must never be used to derive skip, continuation, or abort decisions.
	 - ErrorCause MUST NOT influence control flow.
	 - ErrorCause values MUST have stable, package-agnostic semantics.
	 - Pipeline packages MAY map their local errors to ErrorCause,
	   but MUST NOT invent new meanings.
	Non-goals:
	 - ErrorCause does not encode severity.
	 - ErrorCause does not imply retryability.
	 - ErrorCause does not imply merge termination.

If a failure does not clearly match a defined cause, CauseUnknown MUST be used.
*/
type ErrorCause int

/*
Canonical ErrorCause Table

# CauseUnknown

Meaning:
  - The failure does not map cleanly to any known category.
  - Used as a safe fallback.

# CauseFileUnreadable

Meaning:
  - An input file could not be opened or read.

Examples:
  - Missing file
  - Permission errors
  - Corrupt compressed stream

# CauseContentInvalid

Meaning:
  - Input content was read but could not be processed meaningfully.

Examples:
  - Config file that fails to parse
  - Overlong telemetry lines discarded by the line cap

# CauseDuplicateInput

Meaning:
  - An input's content was already folded under another path.
  - The content itself is well-formed; only the repetition is notable.

Examples:
  - The same artifact listed twice on the command line
  - A copied result file alongside the original

# CauseStorageFailure

Meaning:
  - Failure while persisting the merged summary or history entries.

Examples:
  - Disk full
  - Write permission errors

# CauseInvariantViolation

Meaning:
  - A system-level invariant was violated.

Examples:
  - Error totals disagreeing with category totals
  - Internal consistency checks failing
*/
const (
	CauseUnknown ErrorCause = iota
	CauseFileUnreadable
	CauseContentInvalid
	CauseDuplicateInput
	CauseStorageFailure
	CauseInvariantViolation
)

type Attribute struct {
	Key   AttributeKey
	Value string
}

func NewAttr(key AttributeKey, val string) Attribute {
	return Attribute{
		Key:   key,
		Value: val,
	}
}

type AttributeKey string

const (
	AttrTime      AttributeKey = "time"
	AttrFile      AttributeKey = "file"
	AttrLine      AttributeKey = "line"
	AttrField     AttributeKey = "field"
	AttrHash      AttributeKey = "hash"
	AttrRunID     AttributeKey = "run_id"
	AttrWritePath AttributeKey = "write_path"
)

type ArtifactKind string

const (
	ArtifactSummary ArtifactKind = "summary"
	ArtifactHistory ArtifactKind = "history"
)
