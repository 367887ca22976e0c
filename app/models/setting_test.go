package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSettingValueInfersKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		token    string
		wantKind string
		wantRaw  string
		decoded  any
	}{
		{name: "string", token: `"Grace Chapel"`, wantKind: KIND_STRING, wantRaw: "Grace Chapel", decoded: "Grace Chapel"},
		{name: "number", token: `10.5`, wantKind: KIND_NUMBER, wantRaw: "10.5", decoded: 10.5},
		{name: "negative number", token: `-3`, wantKind: KIND_NUMBER, wantRaw: "-3", decoded: float64(-3)},
		{name: "boolean", token: `true`, wantKind: KIND_BOOLEAN, wantRaw: "true", decoded: true},
		{name: "object", token: `{"sunday":"10:00"}`, wantKind: KIND_JSON, wantRaw: `{"sunday":"10:00"}`, decoded: map[string]any{"sunday": "10:00"}},
		{name: "array", token: ` [1,2] `, wantKind: KIND_JSON, wantRaw: `[1,2]`, decoded: []any{float64(1), float64(2)}},
		{name: "null", token: `null`, wantKind: KIND_STRING, wantRaw: "", decoded: ""},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			v, err := NewSettingValue(json.RawMessage(tc.token))
			require.NoError(t, err)
			assert.Equal(t, tc.wantKind, v.Kind)
			assert.Equal(t, tc.wantRaw, v.Raw)
			assert.Equal(t, tc.decoded, v.Decode())
		})
	}
}

func TestNewSettingValueRejectsInvalidJSON(t *testing.T) {
	t.Parallel()

	_, err := NewSettingValue(json.RawMessage(`{broken`))
	assert.Error(t, err)
}

func TestDecodeSettingsFallsBackToRaw(t *testing.T) {
	t.Parallel()

	got := DecodeSettings([]Setting{
		{Key: "site_name", Value: "Grace Chapel", Type: KIND_STRING},
		{Key: "posts_per_page", Value: "12", Type: KIND_NUMBER},
		{Key: "maintenance", Value: "not-a-bool", Type: KIND_BOOLEAN},
		{Key: "legacy", Value: "untyped"},
	})

	assert.Equal(t, "Grace Chapel", got["site_name"])
	assert.Equal(t, float64(12), got["posts_per_page"])
	assert.Equal(t, "not-a-bool", got["maintenance"])
	assert.Equal(t, "untyped", got["legacy"])
}
