package pipeline

import (
	"context"
	"log/slog"
	"time"

	gmail "google.golang.org/api/gmail/v1"

	"github.com/teemow/autotask/internal/instrumentation"
	"github.com/teemow/autotask/internal/logging"
)

// MailSource lists unread raw messages from the mail provider. Message order
// is provider-defined but stable within one call.
type MailSource interface {
	ListUnread(ctx context.Context, maxResults int64) ([]*gmail.Message, error)
}

// MailAcknowledger marks processed messages as read so the next run does not
// pick them up again. Mail sources may optionally implement it.
type MailAcknowledger interface {
	MarkRead(ctx context.Context, messageID string) error
}

// EventRequest describes the calendar event for an auto-created task
type EventRequest struct {
	Title       string
	Description string
	Start       time.Time
	End         time.Time
}

// EventRef identifies a created calendar event
type EventRef struct {
	ID       string
	HTMLLink string
}

// CalendarScheduler creates calendar events for auto-created tasks.
type CalendarScheduler interface {
	CreateTaskEvent(ctx context.Context, req EventRequest) (EventRef, error)
}

// Defaults for orchestrator configuration
const (
	DefaultBatchSize = 10
	DefaultOpTimeout = 30 * time.Second

	// eventDuration is the length of calendar events created for tasks
	eventDuration = time.Hour

	// defaultEventHour is the start hour for events of tasks without a due
	// date; they land on the next day.
	defaultEventHour = 9
)

// Config holds the tunable knobs of the sync pipeline.
type Config struct {
	// BatchSize is the number of unread messages requested per run when the
	// caller does not pass an explicit limit (default 10).
	BatchSize int64

	// AutoCreateThreshold gates unreviewed task creation (default 0.8,
	// strictly greater-than comparison).
	AutoCreateThreshold float64

	// OpTimeout bounds each individual collaborator call (default 30s).
	OpTimeout time.Duration

	// MarkProcessedRead removes the UNREAD label from messages that
	// produced a task, when the mail source supports it.
	MarkProcessedRead bool
}

func (c Config) withDefaults() Config {
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.AutoCreateThreshold <= 0 {
		c.AutoCreateThreshold = DefaultAutoCreateThreshold
	}
	if c.OpTimeout <= 0 {
		c.OpTimeout = DefaultOpTimeout
	}
	return c
}

// draftExtractor lets tests substitute the NLU stage with fixed outputs
type draftExtractor interface {
	Extract(NormalizedEmail) (TaskDraft, bool)
}

// Orchestrator drives the end-to-end flow: list unread mail, normalize,
// extract, validate, compose, and materialize calendar events for tasks
// crossing the auto-create threshold. Messages are processed sequentially;
// no state crosses runs except through the mail provider itself.
type Orchestrator struct {
	mail      MailSource
	calendar  CalendarScheduler
	extractor draftExtractor
	validator *Validator
	cfg       Config
	logger    *slog.Logger
	metrics   *instrumentation.Metrics
}

// NewOrchestrator creates an Orchestrator with the given collaborators.
func NewOrchestrator(mail MailSource, calendar CalendarScheduler, cfg Config, logger *slog.Logger) *Orchestrator {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		mail:      mail,
		calendar:  calendar,
		extractor: NewExtractor(),
		validator: NewValidator(cfg.AutoCreateThreshold),
		cfg:       cfg,
		logger:    logging.WithService(logger, "sync"),
	}
}

// SetMetrics attaches a metrics recorder. Safe to leave unset.
func (o *Orchestrator) SetMetrics(m *instrumentation.Metrics) {
	o.metrics = m
}

// Run processes one batch of up to maxResults unread messages. A failure of
// any single message is logged and skipped; only an unreachable mail
// collaborator aborts the run, as a CollaboratorUnavailableError.
func (o *Orchestrator) Run(ctx context.Context, maxResults int64) (*SyncResult, error) {
	if maxResults <= 0 {
		maxResults = o.cfg.BatchSize
	}
	start := time.Now()
	logger := logging.WithOperation(o.logger, "run_sync")

	listCtx, cancel := context.WithTimeout(ctx, o.cfg.OpTimeout)
	defer cancel()
	messages, err := o.mail.ListUnread(listCtx, maxResults)
	if err != nil {
		logger.Error("failed to list unread messages", logging.Err(err))
		o.recordRun(ctx, "error", time.Since(start))
		return nil, &CollaboratorUnavailableError{Collaborator: "gmail", Err: err}
	}

	result := &SyncResult{Status: SyncStatusOK, Tasks: []Task{}}
	seen := make(map[string]bool)
	degraded := false

	for _, msg := range messages {
		email, err := Normalize(msg)
		if err != nil {
			logger.Warn("skipping malformed message",
				slog.String("message_id", messageID(msg)), logging.Err(err))
			o.recordEmail(ctx, "skipped_malformed")
			degraded = true
			continue
		}

		draft, ok := o.extractor.Extract(email)
		if !ok {
			o.recordEmail(ctx, "no_intent")
			continue
		}

		outcome := o.validator.Validate(draft, seen)
		if !outcome.Accepted {
			logger.Info("draft rejected",
				slog.String("message_id", email.ID),
				slog.String("reason", outcome.Reason))
			o.recordEmail(ctx, "rejected")
			continue
		}
		seen[draft.SourceEmailID] = true

		task := Compose(draft, outcome)
		if task.Status == StatusAutoCreated {
			ref, err := o.createEvent(ctx, draft)
			if err != nil {
				// Non-fatal: the task falls back to human review
				logger.Warn("calendar event creation failed, downgrading task",
					slog.String("task_id", task.TaskID), logging.Err(err))
				o.recordCalendarInsert(ctx, "error")
				task.Status = StatusPendingReview
				degraded = true
			} else {
				task.CalendarEventID = ref.ID
				task.CalendarLink = ref.HTMLLink
				o.recordCalendarInsert(ctx, "success")
			}
		}

		o.acknowledge(ctx, logger, email.ID)

		if task.Status == StatusAutoCreated {
			result.TasksCreated++
		}
		result.Tasks = append(result.Tasks, task)
		o.recordEmail(ctx, "task")

		logger.Info("task composed",
			slog.String("task_id", task.TaskID),
			slog.String("message_id", email.ID),
			logging.UserHash(email.Sender),
			logging.Domain(email.Sender),
			slog.String("task_status", string(task.Status)),
			slog.Float64("confidence", task.Confidence))
	}

	if degraded {
		result.Status = SyncStatusPartial
	}
	o.recordRun(ctx, result.Status, time.Since(start))

	logger.Info("sync run complete",
		slog.Int("messages", len(messages)),
		slog.Int("tasks", len(result.Tasks)),
		slog.Int("tasks_created", result.TasksCreated),
		logging.Status(result.Status),
		slog.Duration(logging.KeyDuration, time.Since(start)))
	return result, nil
}

// createEvent schedules a one-hour event at the draft's due date, or at
// defaultEventHour the next day when no due date was extracted.
func (o *Orchestrator) createEvent(ctx context.Context, draft TaskDraft) (EventRef, error) {
	eventStart := o.eventStart(draft)

	callCtx, cancel := context.WithTimeout(ctx, o.cfg.OpTimeout)
	defer cancel()
	return o.calendar.CreateTaskEvent(callCtx, EventRequest{
		Title:       draft.Title,
		Description: draft.Description,
		Start:       eventStart,
		End:         eventStart.Add(eventDuration),
	})
}

func (o *Orchestrator) eventStart(draft TaskDraft) time.Time {
	if draft.DueDate != nil {
		return *draft.DueDate
	}
	next := time.Now().AddDate(0, 0, 1)
	return time.Date(next.Year(), next.Month(), next.Day(), defaultEventHour, 0, 0, 0, next.Location())
}

// acknowledge marks a processed message read, best effort
func (o *Orchestrator) acknowledge(ctx context.Context, logger *slog.Logger, messageID string) {
	if !o.cfg.MarkProcessedRead {
		return
	}
	ack, ok := o.mail.(MailAcknowledger)
	if !ok {
		return
	}
	ackCtx, cancel := context.WithTimeout(ctx, o.cfg.OpTimeout)
	defer cancel()
	if err := ack.MarkRead(ackCtx, messageID); err != nil {
		logger.Warn("failed to mark message read",
			slog.String("message_id", messageID), logging.Err(err))
	}
}

func (o *Orchestrator) recordRun(ctx context.Context, status string, d time.Duration) {
	if o.metrics != nil {
		o.metrics.RecordSyncRun(ctx, status, d)
	}
}

func (o *Orchestrator) recordEmail(ctx context.Context, outcome string) {
	if o.metrics != nil {
		o.metrics.RecordEmailProcessed(ctx, outcome)
	}
}

func (o *Orchestrator) recordCalendarInsert(ctx context.Context, result string) {
	if o.metrics != nil {
		o.metrics.RecordCalendarInsert(ctx, result)
	}
}

func messageID(msg *gmail.Message) string {
	if msg == nil {
		return ""
	}
	return msg.Id
}
