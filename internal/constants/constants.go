package constants

// Pagination
const (
	MinPage         = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Password policy
const MinPasswordLength = 8

// Context keys
const (
	ContextKeyUser   = "current_user"
	ContextKeyUserID = "user_id"
)

// Field length bounds
const (
	MaxTitleLength       = 255
	MaxDescriptionLength = 2000
	MaxNotesLength       = 1000
	MaxNameLength        = 100
)
