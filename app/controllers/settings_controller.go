package controllers

import (
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/gracechapel/chapelcms/app/models"
	"github.com/gracechapel/chapelcms/app/repository"
	"github.com/gracechapel/chapelcms/internal/pkg/apperrors"
)

const DefaultSettingsTTL = 5 * time.Minute

const maxSettingKeyLength = 255

// settingsSnapshot is one read of the public settings.
type settingsSnapshot struct {
	data      map[string]any
	fetchedAt time.Time
}

func (s *settingsSnapshot) Fresh(now time.Time, ttl time.Duration) bool {
	return s != nil && now.Sub(s.fetchedAt) < ttl
}

// SettingsController serves site settings. Public reads go through a
// snapshot that is refreshed after ttl or on any write.
type SettingsController struct {
	settings repository.SettingRepository
	ttl      time.Duration
	now      func() time.Time

	mu       sync.RWMutex
	snapshot *settingsSnapshot

	// bumped on every write so a load that raced one is dropped
	generation uint64
}

func NewSettingsController(settings repository.SettingRepository, ttl time.Duration) *SettingsController {
	if ttl <= 0 {
		ttl = DefaultSettingsTTL
	}
	return &SettingsController{settings: settings, ttl: ttl, now: time.Now}
}

// HandlePublic returns key -> decoded value.
func (sc *SettingsController) HandlePublic(c *fiber.Ctx) error {
	now := sc.now()

	sc.mu.RLock()
	snap, gen := sc.snapshot, sc.generation
	sc.mu.RUnlock()
	if snap.Fresh(now, sc.ttl) {
		return c.JSON(snap.data)
	}

	all, err := sc.settings.All(c.UserContext())
	if err != nil {
		return err
	}
	snap = &settingsSnapshot{data: models.DecodeSettings(all), fetchedAt: now}
	sc.store(snap, gen)
	return c.JSON(snap.data)
}

// store keeps snap unless a write happened since generation gen was read.
func (sc *SettingsController) store(snap *settingsSnapshot, gen uint64) bool {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if sc.generation != gen {
		return false
	}
	sc.snapshot = snap
	return true
}

func (sc *SettingsController) invalidate() {
	sc.mu.Lock()
	sc.snapshot = nil
	sc.generation++
	sc.mu.Unlock()
}

// HandleAdminList returns the stored settings with their kinds.
func (sc *SettingsController) HandleAdminList(c *fiber.Ctx) error {
	all, err := sc.settings.All(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(all)
}

// HandleUpdate upserts a map of key -> JSON value. The kind of each value
// is taken from its JSON type.
func (sc *SettingsController) HandleUpdate(c *fiber.Ctx) error {
	var body map[string]json.RawMessage
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return apperrors.Validation("Request body must be a JSON object")
	}
	if len(body) == 0 {
		return apperrors.Validation("No settings provided")
	}

	settings := make([]models.Setting, 0, len(body))
	for key, raw := range body {
		key = strings.TrimSpace(key)
		if key == "" || len(key) > maxSettingKeyLength {
			return apperrors.Validation("Invalid setting key")
		}
		v, err := models.NewSettingValue(raw)
		if err != nil {
			return apperrors.Validation("Invalid value for setting " + key)
		}
		settings = append(settings, models.Setting{Key: key, Value: v.Raw, Type: v.Kind})
	}

	if err := sc.settings.Upsert(c.UserContext(), settings); err != nil {
		return err
	}
	sc.invalidate()
	return c.JSON(fiber.Map{"message": "Settings updated successfully", "updated": len(settings)})
}
