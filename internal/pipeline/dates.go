package pipeline

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Temporal expression patterns, checked in order of specificity. All
// matching happens on lowercased text.
var (
	isoDatePattern   = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	monthDayPattern  = regexp.MustCompile(`\b(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+(\d{1,2})(?:st|nd|rd|th)?\b`)
	weekdayPattern   = regexp.MustCompile(`\b(?:by|on|next|until|before)\s+(monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`)
	endOfDayPattern  = regexp.MustCompile(`\b(?:end of (?:the )?day|eod|today)\b`)
	endOfWeekPattern = regexp.MustCompile(`\b(?:end of (?:the )?week|eow)\b`)
)

var monthsByPrefix = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

var weekdaysByName = map[string]time.Weekday{
	"monday": time.Monday, "tuesday": time.Tuesday, "wednesday": time.Wednesday,
	"thursday": time.Thursday, "friday": time.Friday,
	"saturday": time.Saturday, "sunday": time.Sunday,
}

// businessHour is the hour of day assigned to due dates derived from
// day-granular expressions ("tomorrow", "by friday").
const businessHour = 17

// extractDueDate scans lowercased text for the first recognizable temporal
// expression. It returns nil when nothing matches; extraction is best-effort
// and never fails.
func (e *Extractor) extractDueDate(text string) *time.Time {
	now := e.now()

	if m := isoDatePattern.FindStringSubmatch(text); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		if month >= 1 && month <= 12 && day >= 1 && day <= 31 {
			t := time.Date(year, time.Month(month), day, businessHour, 0, 0, 0, now.Location())
			return &t
		}
	}

	if m := monthDayPattern.FindStringSubmatch(text); m != nil {
		month := monthsByPrefix[m[1]]
		day, _ := strconv.Atoi(m[2])
		if day >= 1 && day <= 31 {
			t := time.Date(now.Year(), month, day, businessHour, 0, 0, 0, now.Location())
			// A date already past this year refers to the next one
			if t.Before(now) {
				t = t.AddDate(1, 0, 0)
			}
			return &t
		}
	}

	if strings.Contains(text, "tomorrow") {
		t := atHour(now.AddDate(0, 0, 1), businessHour)
		return &t
	}

	if m := weekdayPattern.FindStringSubmatch(text); m != nil {
		target := weekdaysByName[m[1]]
		days := (int(target) - int(now.Weekday()) + 7) % 7
		if days == 0 {
			days = 7
		}
		t := atHour(now.AddDate(0, 0, days), businessHour)
		return &t
	}

	if endOfWeekPattern.MatchString(text) {
		days := (int(time.Friday) - int(now.Weekday()) + 7) % 7
		t := atHour(now.AddDate(0, 0, days), businessHour)
		return &t
	}

	if endOfDayPattern.MatchString(text) {
		t := atHour(now, businessHour)
		return &t
	}

	return nil
}

func atHour(t time.Time, hour int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), hour, 0, 0, 0, t.Location())
}
