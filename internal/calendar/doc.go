// Package calendar provides the scheduling collaborator for the sync
// pipeline.
//
// The client wraps the Google Calendar service and creates events for tasks
// whose confidence clears the auto-create threshold. It satisfies the
// pipeline.CalendarScheduler interface.
//
// Authentication uses the stored Google OAuth token from the google package.
package calendar
