package usercontext

// Locals keys set by the auth middleware
const (
	KeyUserContext = "USER_CONTEXT"
	KeyUserID      = "user_id"
	KeyUsername    = "username"
	KeyRole        = "role"
)
