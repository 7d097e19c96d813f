package calendar

import "time"

// EventInput contains the fields needed to create a calendar event
type EventInput struct {
	// Summary is the event title (required)
	Summary string

	// Description is the event description (optional)
	Description string

	// Start is the event start time (required)
	Start time.Time

	// End is the event end time (required)
	End time.Time

	// CalendarID is the target calendar; defaults to "primary" when empty
	CalendarID string
}

// EventSummary contains the provider-assigned details of a created event
type EventSummary struct {
	// ID is the event identifier assigned by the provider
	ID string

	// HTMLLink is the browser link to the event
	HTMLLink string

	// Summary is the event title as stored
	Summary string

	// Start is the event start time
	Start time.Time

	// End is the event end time
	End time.Time
}
