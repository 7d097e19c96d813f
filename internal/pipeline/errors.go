package pipeline

import "fmt"

// MalformedMessageError indicates a provider message that is missing a
// mandatory header. The affected message is skipped, never the whole batch.
type MalformedMessageError struct {
	MessageID string
	Missing   string
}

func (e *MalformedMessageError) Error() string {
	return fmt.Sprintf("malformed message %s: missing %s header", e.MessageID, e.Missing)
}

// CollaboratorUnavailableError indicates that an external collaborator
// (mail or calendar provider) could not be reached or refused the request.
// It is fatal for the whole run only when the mail collaborator fails on
// the initial listing.
type CollaboratorUnavailableError struct {
	Collaborator string
	Err          error
}

func (e *CollaboratorUnavailableError) Error() string {
	return fmt.Sprintf("%s collaborator unavailable: %v", e.Collaborator, e.Err)
}

func (e *CollaboratorUnavailableError) Unwrap() error {
	return e.Err
}
