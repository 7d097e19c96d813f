package gmail

import (
	"context"
	"fmt"
	"log/slog"

	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/teemow/autotask/internal/google"
	"github.com/teemow/autotask/internal/logging"
)

// unreadQuery selects the messages a sync run considers
const unreadQuery = "is:unread in:inbox"

// maxPageSize is the Gmail API page size cap
const maxPageSize = 100

// Client wraps the Gmail Users service
type Client struct {
	svc     *gmail.UsersService
	account string
}

// Account returns the account name this client is associated with
func (c *Client) Account() string {
	return c.account
}

// HasTokenForAccount checks if a valid OAuth token exists for the specified account
func HasTokenForAccount(account string) bool {
	return google.HasTokenForAccount(account)
}

// NewClientForAccount creates a new Gmail client with OAuth2 authentication
// for a specific account. The OAuth token must already exist on disk (or be
// reachable through the configured token provider).
func NewClientForAccount(ctx context.Context, account string) (*Client, error) {
	client, err := google.GetHTTPClientForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token found for account %s: %w", account, err)
	}

	svc, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}

	return &Client{
		svc:     svc.Users,
		account: account,
	}, nil
}

// NewClient creates a new Gmail client for the default account
func NewClient(ctx context.Context) (*Client, error) {
	return NewClientForAccount(ctx, "default")
}

// ListUnread lists up to maxResults unread inbox messages in full format,
// making multiple API calls if necessary. The listing preserves the
// provider's ordering (most recent first).
func (c *Client) ListUnread(ctx context.Context, maxResults int64) ([]*gmail.Message, error) {
	if maxResults <= 0 {
		return nil, fmt.Errorf("maxResults must be positive, got %d", maxResults)
	}

	var refs []*gmail.Message
	pageToken := ""

	for {
		remaining := maxResults - int64(len(refs))
		if remaining <= 0 {
			break
		}

		pageSize := remaining
		if pageSize > maxPageSize {
			pageSize = maxPageSize
		}

		req := c.svc.Messages.List("me").Q(unreadQuery).MaxResults(pageSize).Context(ctx)
		if pageToken != "" {
			req = req.PageToken(pageToken)
		}

		res, err := req.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list unread messages: %w", err)
		}

		refs = append(refs, res.Messages...)

		if res.NextPageToken == "" || int64(len(refs)) >= maxResults {
			break
		}
		pageToken = res.NextPageToken
	}

	if int64(len(refs)) > maxResults {
		refs = refs[:maxResults]
	}

	// The list call returns id/threadId stubs only; fetch each message in
	// full format so headers and body parts are populated. A message can
	// vanish between listing and fetching; that must not abort the batch.
	messages := make([]*gmail.Message, 0, len(refs))
	for _, ref := range refs {
		msg, err := c.GetMessage(ctx, ref.Id)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			slog.Warn("skipping unfetchable message",
				slog.String("message_id", ref.Id), logging.Err(err))
			continue
		}
		messages = append(messages, msg)
	}

	return messages, nil
}

// GetMessage retrieves a full Gmail message
func (c *Client) GetMessage(ctx context.Context, messageID string) (*gmail.Message, error) {
	if messageID == "" {
		return nil, fmt.Errorf("messageID is required")
	}
	msg, err := c.svc.Messages.Get("me", messageID).Format("full").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get message %s: %w", messageID, err)
	}
	return msg, nil
}

// MarkRead removes the UNREAD label from a message so subsequent sync runs
// skip it.
func (c *Client) MarkRead(ctx context.Context, messageID string) error {
	if messageID == "" {
		return fmt.Errorf("messageID is required")
	}
	_, err := c.svc.Messages.Modify("me", messageID, &gmail.ModifyMessageRequest{
		RemoveLabelIds: []string{"UNREAD"},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to mark message %s read: %w", messageID, err)
	}
	return nil
}
