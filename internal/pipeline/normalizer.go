package pipeline

import (
	"encoding/base64"

	gmail "google.golang.org/api/gmail/v1"
)

// DefaultSubject is used when a message carries no Subject header
const DefaultSubject = "No Subject"

// Normalize converts a raw Gmail message into a NormalizedEmail.
// The From header is mandatory; a missing From yields a MalformedMessageError.
// The Subject header defaults to DefaultSubject when absent. Body extraction
// never fails: undecodable parts are skipped and an absent body yields "".
func Normalize(msg *gmail.Message) (NormalizedEmail, error) {
	var id string
	if msg != nil {
		id = msg.Id
	}
	if msg == nil || msg.Payload == nil {
		return NormalizedEmail{}, &MalformedMessageError{MessageID: id, Missing: "From"}
	}

	from, ok := headerValue(msg.Payload, "From")
	if !ok || from == "" {
		return NormalizedEmail{}, &MalformedMessageError{MessageID: id, Missing: "From"}
	}

	subject, ok := headerValue(msg.Payload, "Subject")
	if !ok {
		subject = DefaultSubject
	}

	return NormalizedEmail{
		ID:      id,
		Sender:  from,
		Subject: subject,
		Body:    extractBody(msg.Payload),
	}, nil
}

// headerValue extracts a header value by case-sensitive name match
func headerValue(part *gmail.MessagePart, name string) (string, bool) {
	for _, h := range part.Headers {
		if h.Name == name {
			return h.Value, true
		}
	}
	return "", false
}

// extractBody returns the decoded text of the first text/plain part found by
// a depth-first walk, or the directly decoded body for non-multipart
// messages. Decode failures of individual parts skip the part and continue.
func extractBody(payload *gmail.MessagePart) string {
	if len(payload.Parts) == 0 {
		if payload.Body == nil || payload.Body.Data == "" {
			return ""
		}
		text, err := decodeBody(payload.Body.Data)
		if err != nil {
			return ""
		}
		return text
	}

	var body string
	walkParts(payload, func(part *gmail.MessagePart) bool {
		if part.MimeType != "text/plain" || part.Body == nil || part.Body.Data == "" {
			return true
		}
		text, err := decodeBody(part.Body.Data)
		if err != nil {
			// Undecodable part, keep scanning
			return true
		}
		body = text
		return false
	})
	return body
}

// walkParts walks message parts depth-first until fn returns false
func walkParts(part *gmail.MessagePart, fn func(*gmail.MessagePart) bool) bool {
	if part == nil {
		return true
	}
	if !fn(part) {
		return false
	}
	for _, sub := range part.Parts {
		if !walkParts(sub, fn) {
			return false
		}
	}
	return true
}

// bodyEncodings are tried in order. The Gmail API emits base64url (RFC 4648)
// and usually omits padding; older payloads carry standard base64.
var bodyEncodings = []*base64.Encoding{
	base64.URLEncoding,
	base64.RawURLEncoding,
	base64.StdEncoding,
	base64.RawStdEncoding,
}

// decodeBody decodes body data against each known base64 variant.
func decodeBody(data string) (string, error) {
	var err error
	for _, enc := range bodyEncodings {
		var decoded []byte
		if decoded, err = enc.DecodeString(data); err == nil {
			return string(decoded), nil
		}
	}
	return "", err
}
