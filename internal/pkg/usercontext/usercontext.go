package usercontext

import "github.com/gofiber/fiber/v2"

// UserContext is the authenticated caller of an admin request.
type UserContext struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Set attaches the caller to the request.
func Set(c *fiber.Ctx, uc UserContext) {
	c.Locals(KeyUserContext, uc)
	c.Locals(KeyUserID, uc.UserID)
	c.Locals(KeyUsername, uc.Username)
	c.Locals(KeyRole, uc.Role)
}

// GetUserContext retrieves the user context from fiber context.
// The second value is false on unauthenticated requests.
func GetUserContext(c *fiber.Ctx) (UserContext, bool) {
	uc, ok := c.Locals(KeyUserContext).(UserContext)
	return uc, ok
}

// GetUserID returns the current user's ID, or 0 if not logged in
func GetUserID(c *fiber.Ctx) uint {
	uc, _ := GetUserContext(c)
	return uc.UserID
}

// GetUsername returns the current user's username, or empty string if not logged in
func GetUsername(c *fiber.Ctx) string {
	uc, _ := GetUserContext(c)
	return uc.Username
}

// IsAdmin reports whether the caller has the admin role.
func IsAdmin(c *fiber.Ctx) bool {
	uc, _ := GetUserContext(c)
	return uc.Role == "admin"
}
