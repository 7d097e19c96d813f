// Package google handles Google OAuth token storage and HTTP client
// construction for the Gmail and Calendar collaborators.
//
// Tokens are stored under the user cache dir (one file per account) and
// refreshed through golang.org/x/oauth2. The OAuth consent flow itself is
// not implemented here; tokens are expected on disk or provided through a
// custom TokenProvider.
package google
