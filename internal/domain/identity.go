package domain

import "time"

// Identity is a (name, email) pair resolved to a stable numeric reference.
// Email is the immutable key; the display name follows the most recent post.
type Identity struct {
	Id        IdentityId
	Name      string
	Email     Email
	CreatedAt time.Time
}
