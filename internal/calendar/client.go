package calendar

import (
	"context"
	"fmt"
	"time"

	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/teemow/autotask/internal/google"
	"github.com/teemow/autotask/internal/pipeline"
)

// Client wraps the Google Calendar service
type Client struct {
	svc        *calendar.Service
	account    string
	calendarID string
}

// Account returns the account name this client is associated with
func (c *Client) Account() string {
	return c.account
}

// NewClientForAccount creates a new Calendar client with OAuth2
// authentication for a specific account. Events are created on calendarID,
// or on the primary calendar when calendarID is empty.
func NewClientForAccount(ctx context.Context, account, calendarID string) (*Client, error) {
	client, err := google.GetHTTPClientForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token found for account %s: %w", account, err)
	}

	svc, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}

	if calendarID == "" {
		calendarID = "primary"
	}

	return &Client{
		svc:        svc,
		account:    account,
		calendarID: calendarID,
	}, nil
}

// NewClient creates a new Calendar client for the default account and
// primary calendar
func NewClient(ctx context.Context) (*Client, error) {
	return NewClientForAccount(ctx, "default", "primary")
}

// CreateEvent creates a calendar event from the given input
func (c *Client) CreateEvent(ctx context.Context, input EventInput) (*EventSummary, error) {
	if input.Summary == "" {
		return nil, fmt.Errorf("event summary is required")
	}
	if input.Start.IsZero() || input.End.IsZero() {
		return nil, fmt.Errorf("event start and end times are required")
	}
	if !input.End.After(input.Start) {
		return nil, fmt.Errorf("event end must be after start")
	}

	event := &calendar.Event{
		Summary:     input.Summary,
		Description: input.Description,
		Start: &calendar.EventDateTime{
			DateTime: input.Start.Format(time.RFC3339),
		},
		End: &calendar.EventDateTime{
			DateTime: input.End.Format(time.RFC3339),
		},
		Reminders: &calendar.EventReminders{
			UseDefault:      true,
			ForceSendFields: []string{"UseDefault"},
		},
	}

	calendarID := input.CalendarID
	if calendarID == "" {
		calendarID = c.calendarID
	}

	created, err := c.svc.Events.Insert(calendarID, event).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	return &EventSummary{
		ID:       created.Id,
		HTMLLink: created.HtmlLink,
		Summary:  created.Summary,
		Start:    input.Start,
		End:      input.End,
	}, nil
}

// CreateTaskEvent creates a calendar event for an auto-created task. It
// satisfies the pipeline.CalendarScheduler interface.
func (c *Client) CreateTaskEvent(ctx context.Context, req pipeline.EventRequest) (pipeline.EventRef, error) {
	summary, err := c.CreateEvent(ctx, EventInput{
		Summary:     req.Title,
		Description: req.Description,
		Start:       req.Start,
		End:         req.End,
	})
	if err != nil {
		return pipeline.EventRef{}, err
	}

	return pipeline.EventRef{
		ID:       summary.ID,
		HTMLLink: summary.HTMLLink,
	}, nil
}
