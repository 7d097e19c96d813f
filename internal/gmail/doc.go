// Package gmail provides the mail collaborator for the sync pipeline.
//
// The client wraps the Gmail Users service and offers the small surface the
// orchestrator needs: listing unread inbox messages in full format, fetching
// single messages, and clearing the UNREAD label after processing. It
// satisfies the pipeline.MailSource and pipeline.MailAcknowledger
// interfaces.
//
// Authentication uses the stored Google OAuth token from the google package.
//
// Example usage:
//
//	ctx := context.Background()
//	client, err := gmail.NewClient(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	messages, err := client.ListUnread(ctx, 10)
//	if err != nil {
//	    log.Fatal(err)
//	}
package gmail
