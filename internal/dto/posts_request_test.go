package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawBody(t *testing.T, body string) map[string]json.RawMessage {
	t.Helper()
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(body), &raw))
	return raw
}

func TestParsePostUpdates(t *testing.T) {
	patch, err := ParsePostUpdates(rawBody(t, `{
		"title": "New title",
		"tags": ["go", "web"],
		"draft": false,
		"is_deleted": true,
		"deleted_at": "2024-05-01T10:00:00Z"
	}`))
	require.NoError(t, err)

	require.NotNil(t, patch.Title)
	assert.Equal(t, "New title", *patch.Title)
	require.NotNil(t, patch.Tags)
	assert.Equal(t, []string{"go", "web"}, *patch.Tags)
	require.NotNil(t, patch.Draft)
	assert.False(t, *patch.Draft)
	require.NotNil(t, patch.IsDeleted)
	assert.True(t, *patch.IsDeleted)
	require.NotNil(t, patch.DeletedAt)
	assert.True(t, patch.DeletedAt.Equal(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)))
	assert.Nil(t, patch.Content)
}

func TestParsePostUpdates_Nulls(t *testing.T) {
	patch, err := ParsePostUpdates(rawBody(t, `{"deleted_at": null, "tags": null}`))
	require.NoError(t, err)
	assert.True(t, patch.ClearDeletedAt)
	assert.Nil(t, patch.IsDeleted)
	require.NotNil(t, patch.Tags)
	assert.Empty(t, *patch.Tags)
}

func TestParsePostUpdates_Rejects(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{name: "not allow-listed", body: `{"views": 10}`, want: ErrFieldNotAllowed},
		{name: "created_at is immutable", body: `{"created_at": "2024-01-01T00:00:00Z"}`, want: ErrFieldNotAllowed},
		{name: "wrong type", body: `{"draft": "yes"}`, want: ErrInvalidField},
		{name: "null draft", body: `{"draft": null}`, want: ErrInvalidField},
		{name: "null is_deleted", body: `{"is_deleted": null}`, want: ErrInvalidField},
		{name: "bad timestamp", body: `{"deleted_at": "yesterday"}`, want: ErrInvalidField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePostUpdates(rawBody(t, tt.body))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
