package domain

type (
	Email      = string
	IdentityId = int64

	MsgText = string
	MsgId   = int64
)

// Bounds for posted fields. All three are rune-counted, matching how
// VARCHAR(n) counts characters, so multi-byte text is not penalized.
const (
	MaxNameLen  = 50
	MaxEmailLen = 255
	MaxTextLen  = 1000
)
