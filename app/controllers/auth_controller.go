package controllers

import (
	"errors"
	"strings"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/gracechapel/chapelcms/app/models"
	"github.com/gracechapel/chapelcms/app/repository"
	"github.com/gracechapel/chapelcms/internal/pkg/apperrors"
	"github.com/gracechapel/chapelcms/internal/pkg/auth"
	"github.com/gracechapel/chapelcms/internal/pkg/usercontext"
)

const invalidCredentials = "Invalid credentials"

// dummyHash is compared against when the user does not exist, so unknown
// users and wrong passwords take the same time.
var dummyHash = sync.OnceValue(func() string {
	h, err := models.HashPassword("not-a-real-password")
	if err != nil {
		log.Errorf("[Auth] failed to build dummy hash: %v", err)
	}
	return h
})

// AuthController issues tokens for admin users.
type AuthController struct {
	users  repository.UserRepository
	tokens *auth.Manager
}

func NewAuthController(users repository.UserRepository, tokens *auth.Manager) *AuthController {
	return &AuthController{users: users, tokens: tokens}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin accepts a username or email plus password and returns a
// bearer token.
func (ac *AuthController) HandleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.Validation("Invalid request body")
	}
	req.Username = strings.TrimSpace(req.Username)
	if err := validate.Struct(&req); err != nil {
		return apperrors.Validation("Username and password are required")
	}

	ctx := c.UserContext()
	user, err := ac.users.GetByLogin(ctx, req.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			models.CheckPasswordHash(req.Password, dummyHash())
			return apperrors.Auth(invalidCredentials)
		}
		return err
	}
	if !user.CheckPassword(req.Password) {
		log.Infof("[Auth] failed login for user %d from %s", user.ID, c.IP())
		return apperrors.Auth(invalidCredentials)
	}

	token, err := ac.tokens.Issue(user)
	if err != nil {
		return apperrors.Internal("Login failed", err)
	}
	if err := ac.users.TouchLastLogin(ctx, user.ID); err != nil {
		log.Warnf("[Auth] failed to update last login for user %d: %v", user.ID, err)
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

// HandleMe returns the user behind the bearer token.
func (ac *AuthController) HandleMe(c *fiber.Ctx) error {
	uc, ok := usercontext.GetUserContext(c)
	if !ok {
		return apperrors.Auth("Access token required")
	}
	user, err := ac.users.GetByID(c.UserContext(), uc.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// token outlived its user
			return apperrors.Auth("Invalid or expired token")
		}
		return err
	}
	return c.JSON(fiber.Map{"user": user})
}
