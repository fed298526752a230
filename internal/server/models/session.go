package models

import "time"

// Session is the server-side half of a login. The cookie carries Token
// inside a signed JWT; deleting the row revokes the cookie.
type Session struct {
	Token       string
	PrincipalID string
	ExpiresAt   time.Time
	CreatedAt   time.Time
}
