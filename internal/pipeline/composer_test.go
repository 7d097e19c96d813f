package pipeline

import (
	"testing"
	"time"
)

func TestCompose_AutoCreate(t *testing.T) {
	due := time.Date(2025, 3, 14, 17, 0, 0, 0, time.UTC)
	draft := TaskDraft{
		SourceEmailID: "m1",
		Title:         "Review proposal",
		Description:   "Please review the proposal by Friday.",
		DueDate:       &due,
		Confidence:    0.9,
		Priority:      PriorityHigh,
	}

	task := Compose(draft, Outcome{Accepted: true, AutoCreate: true})

	if task.TaskID == "" {
		t.Error("TaskID is empty")
	}
	if task.Status != StatusAutoCreated {
		t.Errorf("Status = %q, want %q", task.Status, StatusAutoCreated)
	}
	if task.Title != draft.Title || task.Description != draft.Description {
		t.Error("draft fields not copied to task")
	}
	if task.SourceEmailID != "m1" {
		t.Errorf("SourceEmailID = %q, want %q", task.SourceEmailID, "m1")
	}
	if task.DueDate == nil || !task.DueDate.Equal(due) {
		t.Errorf("DueDate = %v, want %v", task.DueDate, due)
	}
	if task.Confidence != 0.9 {
		t.Errorf("Confidence = %v, want 0.9", task.Confidence)
	}
	if task.Priority != PriorityHigh {
		t.Errorf("Priority = %q, want %q", task.Priority, PriorityHigh)
	}
	if task.CreatedAt.Location() != time.UTC {
		t.Error("CreatedAt is not UTC")
	}
	if time.Since(task.CreatedAt) > time.Minute {
		t.Errorf("CreatedAt = %v, not recent", task.CreatedAt)
	}
}

func TestCompose_PendingReview(t *testing.T) {
	draft := TaskDraft{SourceEmailID: "m2", Title: "Update wiki", Confidence: 0.5}

	task := Compose(draft, Outcome{Accepted: true, AutoCreate: false})

	if task.Status != StatusPendingReview {
		t.Errorf("Status = %q, want %q", task.Status, StatusPendingReview)
	}
	if task.CalendarEventID != "" || task.CalendarLink != "" {
		t.Error("composed task must not carry calendar references")
	}
}

func TestCompose_Rejected(t *testing.T) {
	draft := TaskDraft{SourceEmailID: "m3", Title: "Anything", Confidence: 0.9}

	task := Compose(draft, Outcome{Accepted: false, Reason: ReasonDuplicateSource})

	if task.Status != StatusRejected {
		t.Errorf("Status = %q, want %q", task.Status, StatusRejected)
	}
	if task.Title != "" {
		t.Errorf("rejected task carries title %q, want empty", task.Title)
	}
	if task.SourceEmailID != "m3" {
		t.Errorf("SourceEmailID = %q, want %q", task.SourceEmailID, "m3")
	}
	if task.TaskID == "" {
		t.Error("rejected task still needs a task ID")
	}
}

func TestCompose_UniqueIDs(t *testing.T) {
	draft := TaskDraft{SourceEmailID: "m4", Title: "Review", Confidence: 0.9}
	outcome := Outcome{Accepted: true}

	ids := make(map[string]bool)
	for i := 0; i < 100; i++ {
		task := Compose(draft, outcome)
		if ids[task.TaskID] {
			t.Fatalf("duplicate TaskID %q", task.TaskID)
		}
		ids[task.TaskID] = true
	}
}
