package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Setting value kinds.
const (
	KIND_STRING  = "string"
	KIND_NUMBER  = "number"
	KIND_BOOLEAN = "boolean"
	KIND_JSON    = "json"
)

// Setting is a site-wide key/value pair. Value holds the encoded form of
// the kind recorded in Type at write time.
type Setting struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Key         string    `gorm:"column:setting_key;size:255;not null;uniqueIndex" json:"key"`
	Value       string    `gorm:"type:text" json:"value"`
	Type        string    `gorm:"size:50;not null;default:'string'" json:"type"`
	Description string    `gorm:"type:varchar(255)" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SettingValue is the decoded, typed value of a setting.
type SettingValue struct {
	Kind string
	Raw  string
}

// NewSettingValue infers the kind from a JSON token: strings, numbers and
// booleans keep their kind, objects and arrays become json.
func NewSettingValue(token json.RawMessage) (SettingValue, error) {
	trimmed := strings.TrimSpace(string(token))
	if trimmed == "" || trimmed == "null" {
		return SettingValue{Kind: KIND_STRING, Raw: ""}, nil
	}
	if !json.Valid([]byte(trimmed)) {
		return SettingValue{}, fmt.Errorf("invalid JSON value")
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal([]byte(trimmed), &s); err != nil {
			return SettingValue{}, err
		}
		return SettingValue{Kind: KIND_STRING, Raw: s}, nil
	case 't', 'f':
		return SettingValue{Kind: KIND_BOOLEAN, Raw: trimmed}, nil
	case '{', '[':
		return SettingValue{Kind: KIND_JSON, Raw: trimmed}, nil
	default:
		return SettingValue{Kind: KIND_NUMBER, Raw: trimmed}, nil
	}
}

// Decode returns the Go value for the kind. Values that no longer parse
// fall back to the raw string.
func (v SettingValue) Decode() any {
	switch v.Kind {
	case KIND_NUMBER:
		if f, err := strconv.ParseFloat(v.Raw, 64); err == nil {
			return f
		}
	case KIND_BOOLEAN:
		if b, err := strconv.ParseBool(v.Raw); err == nil {
			return b
		}
	case KIND_JSON:
		var out any
		if err := json.Unmarshal([]byte(v.Raw), &out); err == nil {
			return out
		}
	}
	return v.Raw
}

// Typed returns the setting's tagged value.
func (s Setting) Typed() SettingValue {
	kind := s.Type
	if kind == "" {
		kind = KIND_STRING
	}
	return SettingValue{Kind: kind, Raw: s.Value}
}

// DecodeSettings flattens settings into key -> decoded value.
func DecodeSettings(settings []Setting) map[string]any {
	out := make(map[string]any, len(settings))
	for _, s := range settings {
		out[s.Key] = s.Typed().Decode()
	}
	return out
}
