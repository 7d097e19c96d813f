package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testClock pins relative dates to Monday, 2025-03-10 10:00 UTC.
func testClock() time.Time {
	return time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
}

func newTestExtractor() *Extractor {
	return NewExtractorWithClock(testClock)
}

func TestExtract_ActionableEmail(t *testing.T) {
	e := newTestExtractor()

	draft, ok := e.Extract(NormalizedEmail{
		ID:      "m1",
		Sender:  "alice@example.com",
		Subject: "Action Required: Review proposal",
		Body:    "Please review the proposal by Friday. The deadline is firm.",
	})

	require.True(t, ok, "expected a draft for an actionable email")
	assert.Equal(t, "m1", draft.SourceEmailID)
	assert.Equal(t, "Action Required: Review proposal", draft.Title)
	assert.Equal(t, PriorityMedium, draft.Priority)
	assert.Equal(t, 0.95, draft.Confidence, "heavy cue stacking hits the confidence cap")

	require.NotNil(t, draft.DueDate)
	// Friday after Monday 2025-03-10, at close of business
	want := time.Date(2025, 3, 14, 17, 0, 0, 0, time.UTC)
	assert.Equal(t, want, *draft.DueDate)
}

func TestExtract_ModerateConfidence(t *testing.T) {
	e := newTestExtractor()

	draft, ok := e.Extract(NormalizedEmail{
		ID:      "m2",
		Sender:  "bob@example.com",
		Subject: "Review proposal",
		Body:    "Please review the attached proposal by Friday.",
	})

	require.True(t, ok)
	// please 0.2 + review 0.2 + subject bonus 0.1 + due date 0.15, calibrated
	assert.InDelta(t, 0.74, draft.Confidence, 0.0001)
	assert.Equal(t, PriorityMedium, draft.Priority)
}

func TestExtract_Newsletter(t *testing.T) {
	e := newTestExtractor()

	_, ok := e.Extract(NormalizedEmail{
		ID:      "m3",
		Sender:  "news@example.com",
		Subject: "Weekly newsletter",
		Body:    "Here is what happened this week. Click unsubscribe to stop receiving these.",
	})

	assert.False(t, ok, "bulk mail must not produce a draft")
}

func TestExtract_Deterministic(t *testing.T) {
	e := newTestExtractor()
	email := NormalizedEmail{
		ID:      "m4",
		Sender:  "carol@example.com",
		Subject: "Please prepare the quarterly report",
		Body:    "We need the numbers by end of week. This is urgent.",
	}

	first, ok1 := e.Extract(email)
	second, ok2 := e.Extract(email)

	require.True(t, ok1)
	require.True(t, ok2)
	assert.Equal(t, first, second, "extraction must be deterministic")
}

func TestExtract_Priority(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Priority
	}{
		{
			name: "urgent marker",
			body: "Please send the report. This is urgent.",
			want: PriorityHigh,
		},
		{
			name: "asap marker",
			body: "Can you review this asap?",
			want: PriorityHigh,
		},
		{
			name: "relaxed marker",
			body: "Please update the wiki, no rush.",
			want: PriorityLow,
		},
		{
			name: "no marker",
			body: "Please review the document.",
			want: PriorityMedium,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestExtractor()
			draft, ok := e.Extract(NormalizedEmail{
				ID:      "m5",
				Subject: "Request",
				Body:    tt.body,
			})
			require.True(t, ok)
			assert.Equal(t, tt.want, draft.Priority)
		})
	}
}

func TestExtract_TitleFromSubject(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		body    string
		want    string
	}{
		{
			name:    "reply prefixes stripped",
			subject: "Re: Re: Fwd: Review the contract",
			body:    "Please take a look.",
			want:    "Review the contract",
		},
		{
			name:    "default subject falls back to body",
			subject: DefaultSubject,
			body:    "Schedule the kickoff meeting with the vendor. More context below.",
			want:    "Schedule the kickoff meeting with the vendor",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestExtractor()
			draft, ok := e.Extract(NormalizedEmail{ID: "m6", Subject: tt.subject, Body: tt.body})
			require.True(t, ok)
			assert.Equal(t, tt.want, draft.Title)
		})
	}
}

func TestExtract_LongTitleTruncated(t *testing.T) {
	e := newTestExtractor()

	longSubject := "Please review the extremely detailed and thoroughly annotated specification document covering every aspect of the project"
	draft, ok := e.Extract(NormalizedEmail{ID: "m7", Subject: longSubject, Body: "Details inside."})

	require.True(t, ok)
	assert.LessOrEqual(t, len([]rune(draft.Title)), maxTitleLen)
}

func TestExtractDueDate(t *testing.T) {
	tests := []struct {
		name string
		text string
		want *time.Time
	}{
		{
			name: "iso date",
			text: "the report is due 2025-04-01 at the latest",
			want: timePtr(time.Date(2025, 4, 1, 17, 0, 0, 0, time.UTC)),
		},
		{
			name: "month day",
			text: "please submit by march 20th",
			want: timePtr(time.Date(2025, 3, 20, 17, 0, 0, 0, time.UTC)),
		},
		{
			name: "past month day rolls to next year",
			text: "please submit by jan 5",
			want: timePtr(time.Date(2026, 1, 5, 17, 0, 0, 0, time.UTC)),
		},
		{
			name: "tomorrow",
			text: "can you send it tomorrow",
			want: timePtr(time.Date(2025, 3, 11, 17, 0, 0, 0, time.UTC)),
		},
		{
			name: "weekday needs preposition",
			text: "the meeting moved, friday works for everyone",
			want: nil,
		},
		{
			name: "by weekday",
			text: "please finish by wednesday",
			want: timePtr(time.Date(2025, 3, 12, 17, 0, 0, 0, time.UTC)),
		},
		{
			name: "same weekday means next week",
			text: "please finish by monday",
			want: timePtr(time.Date(2025, 3, 17, 17, 0, 0, 0, time.UTC)),
		},
		{
			name: "end of week",
			text: "need this done by end of week",
			want: timePtr(time.Date(2025, 3, 14, 17, 0, 0, 0, time.UTC)),
		},
		{
			name: "end of day",
			text: "need this done eod",
			want: timePtr(time.Date(2025, 3, 10, 17, 0, 0, 0, time.UTC)),
		},
		{
			name: "no temporal expression",
			text: "please review when convenient",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestExtractor()
			got := e.extractDueDate(tt.text)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}
