package pipeline

import (
	"strings"
	"time"
)

// cue is a weighted phrase used by the intent scorer. Cues are kept in a
// slice, not a map, so scoring order and float accumulation stay
// deterministic across runs.
type cue struct {
	phrase string
	weight float64
}

// actionCues signal that the sender expects something to be done
var actionCues = []cue{
	{"action required", 0.35},
	{"reminder", 0.25},
	{"deadline", 0.25},
	{"follow up", 0.2},
	{"please", 0.2},
	{"can you", 0.2},
	{"could you", 0.2},
	{"review", 0.2},
	{"approve", 0.2},
	{"schedule", 0.2},
	{"due", 0.2},
	{"task", 0.2},
	{"would you", 0.15},
	{"need", 0.15},
	{"must", 0.15},
	{"submit", 0.15},
	{"complete", 0.15},
	{"prepare", 0.15},
	{"confirm", 0.15},
	{"meeting", 0.15},
	{"send", 0.1},
	{"update", 0.1},
	{"call", 0.1},
}

// noiseCues mark bulk mail that should not become tasks
var noiseCues = []cue{
	{"unsubscribe", 0.4},
	{"newsletter", 0.3},
	{"no-reply", 0.2},
	{"noreply", 0.2},
	{"do not reply", 0.2},
}

var highPriorityCues = []string{
	"urgent", "asap", "as soon as possible", "critical",
	"immediately", "right away", "high priority",
}

var lowPriorityCues = []string{
	"no rush", "no hurry", "whenever", "low priority",
	"when you get a chance", "eventually",
}

const (
	// minActionScore is the score below which an email is treated as
	// non-actionable and yields no draft.
	minActionScore = 0.2

	// maxConfidence caps the calibrated confidence; keyword evidence alone
	// never justifies full certainty.
	maxConfidence = 0.95

	maxTitleLen       = 80
	maxDescriptionLen = 280
)

// Extractor turns normalized emails into task drafts using deterministic
// keyword and temporal-expression scoring. The same input always produces
// the same draft; relative dates resolve against the injected clock.
type Extractor struct {
	now func() time.Time
}

// NewExtractor creates an Extractor using the system clock.
func NewExtractor() *Extractor {
	return NewExtractorWithClock(time.Now)
}

// NewExtractorWithClock creates an Extractor with a custom clock, used to
// pin relative due dates ("tomorrow", "by friday") in tests.
func NewExtractorWithClock(now func() time.Time) *Extractor {
	return &Extractor{now: now}
}

// Extract analyzes subject and body text and produces at most one draft.
// The second return value is false when no actionable intent is detected;
// that is a normal outcome, not an error.
func (e *Extractor) Extract(email NormalizedEmail) (TaskDraft, bool) {
	text := strings.ToLower(email.Subject + "\n" + email.Body)

	score := e.scoreIntent(email, text)
	if score < minActionScore {
		return TaskDraft{}, false
	}

	title := extractTitle(email)
	if title == "" {
		return TaskDraft{}, false
	}

	due := e.extractDueDate(text)
	if due != nil {
		score += 0.15
	}

	confidence := 0.35 + score*0.6
	if confidence > maxConfidence {
		confidence = maxConfidence
	}

	return TaskDraft{
		SourceEmailID: email.ID,
		Title:         title,
		Description:   extractDescription(email),
		DueDate:       due,
		Confidence:    confidence,
		Priority:      extractPriority(text),
	}, true
}

// scoreIntent accumulates cue weights over the lowercased text. Cues found
// in the subject count half again, since subjects state intent more directly
// than body prose.
func (e *Extractor) scoreIntent(email NormalizedEmail, text string) float64 {
	subject := strings.ToLower(email.Subject)

	var score float64
	for _, c := range actionCues {
		if !strings.Contains(text, c.phrase) {
			continue
		}
		score += c.weight
		if strings.Contains(subject, c.phrase) {
			score += c.weight / 2
		}
	}
	for _, c := range noiseCues {
		if strings.Contains(text, c.phrase) {
			score -= c.weight
		}
	}
	return score
}

// extractTitle derives the task title from the subject, falling back to the
// first salient body sentence when the subject is absent.
func extractTitle(email NormalizedEmail) string {
	title := stripReplyPrefixes(email.Subject)
	if title == "" || title == DefaultSubject {
		title = firstSentence(email.Body)
	}
	return truncate(title, maxTitleLen)
}

// stripReplyPrefixes removes leading Re:/Fwd:/Fw: markers, repeatedly
func stripReplyPrefixes(subject string) string {
	s := strings.TrimSpace(subject)
	for {
		lower := strings.ToLower(s)
		var trimmed string
		switch {
		case strings.HasPrefix(lower, "re:"):
			trimmed = s[3:]
		case strings.HasPrefix(lower, "fwd:"):
			trimmed = s[4:]
		case strings.HasPrefix(lower, "fw:"):
			trimmed = s[3:]
		default:
			return s
		}
		s = strings.TrimSpace(trimmed)
	}
}

// firstSentence returns the first non-trivial line or sentence of the body
func firstSentence(body string) string {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if idx := strings.IndexAny(line, ".!?"); idx > 0 {
			line = line[:idx]
		}
		if len(line) > 3 {
			return line
		}
	}
	return ""
}

func extractDescription(email NormalizedEmail) string {
	body := strings.TrimSpace(email.Body)
	if body == "" {
		return email.Subject
	}
	return truncate(body, maxDescriptionLen)
}

func extractPriority(text string) Priority {
	for _, cue := range highPriorityCues {
		if strings.Contains(text, cue) {
			return PriorityHigh
		}
	}
	for _, cue := range lowPriorityCues {
		if strings.Contains(text, cue) {
			return PriorityLow
		}
	}
	return PriorityMedium
}

func truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return strings.TrimSpace(string(runes[:limit]))
}
