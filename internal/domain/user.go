package domain

import "time"

// User is the single registered account of a session. Identity fields
// are immutable once registered; re-registering starts a fresh session.
type User struct {
	Name         string
	Email        string
	Phone        string
	RegisteredAt time.Time // UTC
}
