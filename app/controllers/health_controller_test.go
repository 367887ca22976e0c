package controllers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestHealth(t *testing.T) {
	ok := PingFunc(func(context.Context) error { return nil })
	down := PingFunc(func(context.Context) error { return errors.New("connection refused") })

	tests := []struct {
		name      string
		db, cache Pinger
		status    int
		dbState   string
		cacheStat string
	}{
		{"all good", ok, ok, fiber.StatusOK, "ok", "ok"},
		{"no cache configured", ok, nil, fiber.StatusOK, "ok", "disabled"},
		{"cache down", ok, down, fiber.StatusOK, "ok", "unreachable"},
		{"database down", down, ok, fiber.StatusServiceUnavailable, "unreachable", "ok"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp()
			app.Get("/health", NewHealthController(tt.db, tt.cache).HandleHealth)

			resp, body := doJSON(t, app, http.MethodGet, "/health", nil)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.dbState, body["database"])
			assert.Equal(t, tt.cacheStat, body["cache"])
		})
	}
}
