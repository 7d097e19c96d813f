package pipeline

import "time"

// Priority represents the urgency level of an extracted task
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// TaskStatus represents the lifecycle state of a composed task.
// Transitions only move forward: pending_review and rejected are terminal,
// auto_created may be downgraded to pending_review once, when the calendar
// insert for the task fails.
type TaskStatus string

const (
	StatusAutoCreated   TaskStatus = "auto_created"
	StatusPendingReview TaskStatus = "pending_review"
	StatusRejected      TaskStatus = "rejected"
)

// Sync result status values
const (
	SyncStatusOK      = "ok"
	SyncStatusPartial = "partial"
)

// NormalizedEmail is the canonical form of one provider message.
// It is immutable once produced and discarded after the pipeline run.
type NormalizedEmail struct {
	ID      string
	Sender  string
	Subject string
	Body    string
}

// TaskDraft is a tentative task extracted from an email, not yet validated.
type TaskDraft struct {
	SourceEmailID string
	Title         string
	Description   string
	DueDate       *time.Time
	Confidence    float64
	Priority      Priority
}

// Task is the finalized entity composed from a validated draft
type Task struct {
	TaskID          string     `json:"task_id"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	SourceEmailID   string     `json:"source_email_id"`
	DueDate         *time.Time `json:"due_date,omitempty"`
	Confidence      float64    `json:"confidence"`
	Priority        Priority   `json:"priority"`
	Status          TaskStatus `json:"status"`
	CalendarEventID string     `json:"calendar_event_id,omitempty"`
	CalendarLink    string     `json:"calendar_link,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// SyncResult aggregates one orchestrator run. TasksCreated counts only tasks
// that end the run with status auto_created. Tasks holds every processed
// (non-rejected, non-skipped) task in processing order.
type SyncResult struct {
	Status       string `json:"status"`
	TasksCreated int    `json:"tasks_created"`
	Tasks        []Task `json:"tasks"`
}
