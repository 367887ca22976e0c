package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

const webpKey = "webp"

// ImageURLs maps each named CDN variant of an image to its URL. WebP holds
// the same variants forced to WebP output. Variants other than the built-in
// ones are kept in Extra and written inline next to them in JSON.
type ImageURLs struct {
	Thumbnail string
	Small     string
	Medium    string
	Large     string
	Featured  string
	Card      string
	WebP      map[string]string
	Extra     map[string]string
}

// IsZero reports whether no variant is set.
func (u ImageURLs) IsZero() bool {
	return u.Thumbnail == "" && u.Small == "" && u.Medium == "" && u.Large == "" &&
		u.Featured == "" && u.Card == "" && len(u.WebP) == 0 && len(u.Extra) == 0
}

func (u ImageURLs) named() map[string]string {
	return map[string]string{
		"thumbnail": u.Thumbnail,
		"small":     u.Small,
		"medium":    u.Medium,
		"large":     u.Large,
		"featured":  u.Featured,
		"card":      u.Card,
	}
}

// MarshalJSON writes one flat object; empty variants are left out.
func (u ImageURLs) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(u.Extra)+7)
	for name, url := range u.Extra {
		if url != "" {
			out[name] = url
		}
	}
	for name, url := range u.named() {
		if url != "" {
			out[name] = url
		}
	}
	if len(u.WebP) > 0 {
		out[webpKey] = u.WebP
	}
	return json.Marshal(out)
}

func (u *ImageURLs) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*u = ImageURLs{}
	for name, v := range raw {
		if name == webpKey {
			if err := json.Unmarshal(v, &u.WebP); err != nil {
				return fmt.Errorf("image_urls.%s: %w", name, err)
			}
			continue
		}
		var url string
		if err := json.Unmarshal(v, &url); err != nil {
			return fmt.Errorf("image_urls.%s: %w", name, err)
		}
		u.Set(name, url)
	}
	return nil
}

// Set assigns a variant by name. Names without a field go to Extra.
func (u *ImageURLs) Set(name, url string) {
	switch name {
	case "thumbnail":
		u.Thumbnail = url
	case "small":
		u.Small = url
	case "medium":
		u.Medium = url
	case "large":
		u.Large = url
	case "featured":
		u.Featured = url
	case "card":
		u.Card = url
	default:
		if url == "" {
			delete(u.Extra, name)
			return
		}
		if u.Extra == nil {
			u.Extra = map[string]string{}
		}
		u.Extra[name] = url
	}
}

// Value stores the variants as JSON, or NULL when empty.
func (u ImageURLs) Value() (driver.Value, error) {
	if u.IsZero() {
		return nil, nil
	}
	b, err := json.Marshal(u)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (u *ImageURLs) Scan(value any) error {
	*u = ImageURLs{}
	var raw []byte
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported image_urls type %T", value)
	}
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, u)
}

func (ImageURLs) GormDataType() string {
	return "json"
}
