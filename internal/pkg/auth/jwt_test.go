package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gracechapel/chapelcms/app/models"
)

const testSecret = "0123456789abcdef-test-secret"

func testUser() *models.User {
	return &models.User{ID: 7, Username: "pastor", Role: models.ROLE_ADMIN}
}

func TestIssueAndParse(t *testing.T) {
	m := NewManager(Config{Secret: testSecret, Issuer: "chapelcms"})

	token, err := m.Issue(testUser())
	require.NoError(t, err)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "pastor", claims.Username)
	assert.Equal(t, models.ROLE_ADMIN, claims.Role)
	assert.Equal(t, "7", claims.Subject)
	assert.WithinDuration(t, time.Now().Add(DefaultTokenTTL), claims.ExpiresAt.Time, time.Minute)
}

func TestParseRejects(t *testing.T) {
	m := NewManager(Config{Secret: testSecret})
	valid, err := m.Issue(testUser())
	require.NoError(t, err)

	expiredManager := NewManager(Config{Secret: testSecret, TTL: time.Hour})
	expiredManager.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := expiredManager.Issue(testUser())
	require.NoError(t, err)

	otherSecret, err := NewManager(Config{Secret: "another-secret-of-enough-length"}).Issue(testUser())
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 7}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		UserID:           7,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := map[string]string{
		"garbage":      "not.a.token",
		"empty":        "",
		"tampered":     valid + "x",
		"expired":      expired,
		"wrong secret": otherSecret,
		"alg none":     none,
		"wrong alg":    hs512,
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := m.Parse(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestLoadConfigRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "short")
	_, err := LoadConfig()
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("JWT_TTL", "2h")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, cfg.TTL)
}
