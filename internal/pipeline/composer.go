package pipeline

import (
	"time"

	"github.com/google/uuid"
)

// Compose finalizes a Task from a validated draft. Each call assigns a fresh
// globally unique task ID. Rejected drafts yield a Task carrying only
// identifiers and the rejected status; the orchestrator excludes those from
// the returned batch.
func Compose(draft TaskDraft, outcome Outcome) Task {
	task := Task{
		TaskID:        uuid.NewString(),
		SourceEmailID: draft.SourceEmailID,
		CreatedAt:     time.Now().UTC(),
	}

	if !outcome.Accepted {
		task.Status = StatusRejected
		return task
	}

	task.Title = draft.Title
	task.Description = draft.Description
	task.DueDate = draft.DueDate
	task.Confidence = draft.Confidence
	task.Priority = draft.Priority
	if outcome.AutoCreate {
		task.Status = StatusAutoCreated
	} else {
		task.Status = StatusPendingReview
	}
	return task
}
