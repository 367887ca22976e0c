package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageURLsValueAndScan(t *testing.T) {
	t.Parallel()

	var empty ImageURLs
	v, err := empty.Value()
	require.NoError(t, err)
	assert.Nil(t, v, "empty variants are stored as NULL")

	urls := ImageURLs{Thumbnail: "https://cdn.example/t.jpg", WebP: map[string]string{"thumbnail": "https://cdn.example/t.webp"}}
	v, err = urls.Value()
	require.NoError(t, err)

	var fromString ImageURLs
	require.NoError(t, fromString.Scan(v))
	assert.Equal(t, urls, fromString)

	var fromBytes ImageURLs
	require.NoError(t, fromBytes.Scan([]byte(v.(string))))
	assert.Equal(t, urls, fromBytes)

	stale := ImageURLs{Large: "x"}
	require.NoError(t, stale.Scan(nil))
	assert.True(t, stale.IsZero())

	assert.Error(t, stale.Scan(42))
}

func TestImageURLsSet(t *testing.T) {
	t.Parallel()

	var u ImageURLs
	u.Set("featured", "f")
	u.Set("card", "c")
	u.Set("hero", "h")
	assert.Equal(t, ImageURLs{Featured: "f", Card: "c", Extra: map[string]string{"hero": "h"}}, u)
	assert.False(t, ImageURLs{Extra: map[string]string{"hero": "h"}}.IsZero())

	u.Set("hero", "")
	assert.Empty(t, u.Extra)
}

func TestImageURLsJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want ImageURLs
	}{
		{
			name: "built-in variants",
			in:   `{"thumbnail":"t","card":"c"}`,
			want: ImageURLs{Thumbnail: "t", Card: "c"},
		},
		{
			name: "custom variant is kept",
			in:   `{"thumbnail":"t","banner":"b"}`,
			want: ImageURLs{Thumbnail: "t", Extra: map[string]string{"banner": "b"}},
		},
		{
			name: "webp variants",
			in:   `{"webp":{"thumbnail":"t.webp"}}`,
			want: ImageURLs{WebP: map[string]string{"thumbnail": "t.webp"}},
		},
		{
			name: "empty object",
			in:   `{}`,
			want: ImageURLs{},
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var got ImageURLs
			require.NoError(t, json.Unmarshal([]byte(tc.in), &got))
			assert.Equal(t, tc.want, got)

			out, err := json.Marshal(got)
			require.NoError(t, err)
			assert.JSONEq(t, tc.in, string(out))
		})
	}

	var bad ImageURLs
	assert.Error(t, json.Unmarshal([]byte(`{"banner":42}`), &bad))
	assert.Error(t, json.Unmarshal([]byte(`["thumbnail"]`), &bad))
}

func TestImageURLsCustomVariantSurvivesStorage(t *testing.T) {
	t.Parallel()

	urls := ImageURLs{Medium: "m", Extra: map[string]string{"banner": "b"}}
	v, err := urls.Value()
	require.NoError(t, err)

	var back ImageURLs
	require.NoError(t, back.Scan(v))
	assert.Equal(t, urls, back)
}
