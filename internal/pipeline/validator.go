package pipeline

import "strings"

// DefaultAutoCreateThreshold is the confidence above which an accepted draft
// is materialized without human review. The comparison is strictly greater
// than, so a draft at exactly the threshold stays in pending_review.
const DefaultAutoCreateThreshold = 0.8

// Rejection reason codes
const (
	ReasonEmptyTitle           = "EMPTY_TITLE"
	ReasonConfidenceOutOfRange = "CONFIDENCE_OUT_OF_RANGE"
	ReasonDuplicateSource      = "DUPLICATE_SOURCE"
)

// Outcome is the validator's decision for one draft. A rejection is a
// normal outcome carrying a reason code, not an error.
type Outcome struct {
	Accepted   bool
	AutoCreate bool
	Reason     string
}

// Validator applies deterministic business rules to task drafts. It performs
// no I/O and never mutates its inputs.
type Validator struct {
	threshold float64
}

// NewValidator creates a Validator with the given auto-create threshold.
// Non-positive thresholds fall back to DefaultAutoCreateThreshold.
func NewValidator(threshold float64) *Validator {
	if threshold <= 0 {
		threshold = DefaultAutoCreateThreshold
	}
	return &Validator{threshold: threshold}
}

// Threshold returns the configured auto-create threshold.
func (v *Validator) Threshold() float64 {
	return v.threshold
}

// Validate decides whether a draft becomes an actionable task. The seen set
// holds source email IDs that already produced a task in the current run;
// the validator reads it but leaves recording to the caller.
//
// Out-of-range confidence is rejected rather than clamped: the extractor
// contract guarantees [0,1], so a violation is a bug worth surfacing.
func (v *Validator) Validate(draft TaskDraft, seen map[string]bool) Outcome {
	if strings.TrimSpace(draft.Title) == "" {
		return Outcome{Reason: ReasonEmptyTitle}
	}
	if draft.Confidence < 0 || draft.Confidence > 1 {
		return Outcome{Reason: ReasonConfidenceOutOfRange}
	}
	if seen[draft.SourceEmailID] {
		return Outcome{Reason: ReasonDuplicateSource}
	}
	return Outcome{
		Accepted:   true,
		AutoCreate: draft.Confidence > v.threshold,
	}
}
