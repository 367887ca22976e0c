package controllers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gracechapel/chapelcms/app/models"
	"github.com/gracechapel/chapelcms/app/repository"
)

// racingSettings runs beforeReturn after All has read the rows, the window
// in which a concurrent write can land.
type racingSettings struct {
	repository.SettingRepository
	beforeReturn func()
}

func (r *racingSettings) All(ctx context.Context) ([]models.Setting, error) {
	all, err := r.SettingRepository.All(ctx)
	if r.beforeReturn != nil {
		hook := r.beforeReturn
		r.beforeReturn = nil
		hook()
	}
	return all, err
}

func TestSettings(t *testing.T) {
	repos := newTestRepos(t)
	sc := NewSettingsController(repos.Setting, time.Minute)
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	sc.now = func() time.Time { return clock }

	app := newTestApp()
	app.Get("/api/settings", sc.HandlePublic)
	admin := app.Group("/api/admin/settings", asEditor(1))
	admin.Get("/", sc.HandleAdminList)
	admin.Put("/", sc.HandleUpdate)

	resp, body := doJSON(t, app, http.MethodPut, "/api/admin/settings", fiber.Map{
		"site_title":      "Grace Chapel",
		"services_per_wk": 3,
		"show_livestream": true,
		"service_times":   []string{"09:00", "11:00"},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 4, body["updated"])

	stored, err := repos.Setting.Get(context.Background(), "show_livestream")
	require.NoError(t, err)
	assert.Equal(t, models.KIND_BOOLEAN, stored.Type)

	_, public := doJSON(t, app, http.MethodGet, "/api/settings", nil)
	assert.Equal(t, "Grace Chapel", public["site_title"])
	assert.EqualValues(t, 3, public["services_per_wk"])
	assert.Equal(t, true, public["show_livestream"])
	assert.Equal(t, []any{"09:00", "11:00"}, public["service_times"])

	// written behind the controller's back: the snapshot is still fresh
	require.NoError(t, repos.Setting.Upsert(context.Background(), []models.Setting{{Key: "site_title", Value: "Renamed", Type: models.KIND_STRING}}))
	_, public = doJSON(t, app, http.MethodGet, "/api/settings", nil)
	assert.Equal(t, "Grace Chapel", public["site_title"])

	clock = clock.Add(2 * time.Minute)
	_, public = doJSON(t, app, http.MethodGet, "/api/settings", nil)
	assert.Equal(t, "Renamed", public["site_title"])

	// writes through the API invalidate immediately
	resp, _ = doJSON(t, app, http.MethodPut, "/api/admin/settings", fiber.Map{"site_title": "Grace Chapel Downtown"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	_, public = doJSON(t, app, http.MethodGet, "/api/settings", nil)
	assert.Equal(t, "Grace Chapel Downtown", public["site_title"])
}

func TestSettingsUpdate_Rejects(t *testing.T) {
	repos := newTestRepos(t)
	sc := NewSettingsController(repos.Setting, 0)
	app := newTestApp()
	app.Put("/api/admin/settings", sc.HandleUpdate)

	resp, _ := doJSON(t, app, http.MethodPut, "/api/admin/settings", fiber.Map{})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPut, "/api/admin/settings", []string{"not", "an", "object"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSettingsSnapshotFresh(t *testing.T) {
	now := time.Now()
	var missing *settingsSnapshot
	assert.False(t, missing.Fresh(now, time.Minute))

	s := &settingsSnapshot{fetchedAt: now}
	assert.True(t, s.Fresh(now.Add(59*time.Second), time.Minute))
	assert.False(t, s.Fresh(now.Add(time.Minute), time.Minute))
}

func TestSettingsPublic_WriteDuringLoadIsNotCached(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	require.NoError(t, repos.Setting.Upsert(ctx, []models.Setting{{Key: "site_title", Value: "Old", Type: models.KIND_STRING}}))

	racing := &racingSettings{SettingRepository: repos.Setting}
	sc := NewSettingsController(racing, time.Hour)
	app := newTestApp()
	app.Get("/api/settings", sc.HandlePublic)
	app.Put("/api/admin/settings", sc.HandleUpdate)

	racing.beforeReturn = func() {
		assert.NoError(t, repos.Setting.Upsert(ctx, []models.Setting{{Key: "site_title", Value: "New", Type: models.KIND_STRING}}))
		sc.invalidate()
	}
	_, public := doJSON(t, app, http.MethodGet, "/api/settings", nil)
	assert.Equal(t, "Old", public["site_title"], "the racing read still answers with what it loaded")

	_, public = doJSON(t, app, http.MethodGet, "/api/settings", nil)
	assert.Equal(t, "New", public["site_title"], "a snapshot older than the write must not be cached")
}

func TestSettingsStore_DropsSnapshotFromOlderGeneration(t *testing.T) {
	sc := NewSettingsController(nil, time.Minute)
	snap := &settingsSnapshot{data: map[string]any{"site_title": "Old"}, fetchedAt: time.Now()}

	assert.True(t, sc.store(snap, 0))
	sc.invalidate()
	assert.False(t, sc.store(snap, 0))
	assert.Nil(t, sc.snapshot)
	assert.True(t, sc.store(snap, 1))
	assert.Same(t, snap, sc.snapshot)
}
