// Package pipeline implements the email-to-task extraction pipeline.
//
// The pipeline is a straight line of pure stages over immutable records:
//
//	raw Gmail message -> NormalizedEmail -> TaskDraft -> Task -> calendar event
//
// Normalize converts one provider message into its canonical form. The
// Extractor scores actionable intent deterministically and produces at most
// one draft per email. The Validator applies business rules (title present,
// confidence in range, duplicate suppression) and decides whether a task is
// created automatically or queued for review. Compose finalizes the Task
// entity, and the Orchestrator drives a whole batch, requesting calendar
// events for tasks above the auto-create threshold.
//
// External systems are modeled as the MailSource and CalendarScheduler
// interfaces so tests can substitute doubles. No stage performs I/O except
// the Orchestrator, which isolates per-message failures: a bad message is
// logged and skipped, and only an unreachable mail provider aborts a run.
package pipeline
