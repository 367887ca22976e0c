package apperrors

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCode(t *testing.T) {
	t.Parallel()

	cause := errors.New("duplicate entry")
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "validation", err: Validation("Title is required"), want: fiber.StatusBadRequest},
		{name: "not found", err: NotFound("Post not found"), want: fiber.StatusNotFound},
		{name: "conflict", err: Conflict("Slug already exists", cause), want: fiber.StatusConflict},
		{name: "auth", err: Auth("Access token required"), want: fiber.StatusUnauthorized},
		{name: "upload", err: Upload("Image upload failed", cause), want: fiber.StatusBadGateway},
		{name: "internal", err: Internal("query failed", cause), want: fiber.StatusInternalServerError},
		{name: "wrapped kind", err: fmt.Errorf("create post: %w", NotFound("gone")), want: fiber.StatusNotFound},
		{name: "fiber error", err: fiber.ErrRequestTimeout, want: fiber.StatusRequestTimeout},
		{name: "plain error", err: cause, want: fiber.StatusInternalServerError},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, StatusCode(tc.err))
		})
	}
}

func TestErrorUnwrapsKindAndCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("Error 1062")
	err := Conflict("Slug already exists", cause)

	assert.ErrorIs(t, err, ErrConflict)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "Slug already exists: Error 1062", err.Error())
}

func TestPublicMessageHidesInternalDetails(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Internal server error", PublicMessage(Internal("select blog_posts", errors.New("dsn leaked"))))
	assert.Equal(t, "Internal server error", PublicMessage(errors.New("raw")))
	assert.Equal(t, "Post not found", PublicMessage(NotFound("Post not found")))
}

func TestHandlerWritesJSONBody(t *testing.T) {
	t.Parallel()

	app := fiber.New(fiber.Config{ErrorHandler: Handler})
	app.Get("/missing", func(c *fiber.Ctx) error { return NotFound("Post not found") })
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("secret detail") })

	tests := []struct {
		path string
		code int
		msg  string
	}{
		{path: "/missing", code: fiber.StatusNotFound, msg: "Post not found"},
		{path: "/boom", code: fiber.StatusInternalServerError, msg: "Internal server error"},
		{path: "/no-route", code: fiber.StatusNotFound, msg: "Cannot GET /no-route"},
	}
	for _, tc := range tests {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, tc.path, nil), -1)
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)

		var payload map[string]string
		require.NoError(t, json.Unmarshal(body, &payload))
		assert.Equal(t, tc.code, resp.StatusCode, tc.path)
		assert.Equal(t, tc.msg, payload["error"], tc.path)
	}
}
