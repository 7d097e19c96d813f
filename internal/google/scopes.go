package google

// DefaultOAuthScopes are the Google OAuth scopes required for the sync
// pipeline:
//   - Gmail: read and modify (listing unread messages, removing the UNREAD
//     label after processing)
//   - Google Calendar: event creation for auto-created tasks
var DefaultOAuthScopes = []string{
	"https://www.googleapis.com/auth/gmail.modify",
	"https://www.googleapis.com/auth/calendar.events",
}
