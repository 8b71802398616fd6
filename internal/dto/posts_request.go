package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/BloggingApp/blog-console/internal/model"
)

var (
	ErrFieldNotAllowed = errors.New("field is not allowed to update")
	ErrInvalidField    = errors.New("invalid field value")
)

type CreatePostRequest struct {
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Excerpt    string   `json:"excerpt"`
	CoverImage string   `json:"cover_image"`
	Category   string   `json:"category"`
	Tags       []string `json:"tags"`
	Images     []string `json:"images"`
	// Draft defaults to true when omitted.
	Draft *bool `json:"draft"`
}

func (r CreatePostRequest) IsDraft() bool {
	return r.Draft == nil || *r.Draft
}

type ListPostsRequest struct {
	Status   string `form:"status"`
	Limit    int    `form:"limit"`
	Page     int    `form:"page"`
	Category string `form:"category"`
	Tag      string `form:"tag"`
	Title    string `form:"title"`
	Start    string `form:"start"`
	End      string `form:"end"`
	Sort     string `form:"sort"`
}

type BatchRequest struct {
	IDs     []string                   `json:"ids"`
	Updates map[string]json.RawMessage `json:"updates"`
}

// ParsePostUpdates decodes an allow-listed update body into a typed patch.
// Unknown keys are rejected rather than ignored.
func ParsePostUpdates(raw map[string]json.RawMessage) (model.PostPatch, error) {
	var patch model.PostPatch

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := raw[key]
		var err error
		switch key {
		case "title":
			patch.Title, err = decodeString(value)
		case "content":
			patch.Content, err = decodeString(value)
		case "excerpt":
			patch.Excerpt, err = decodeString(value)
		case "cover_image":
			patch.CoverImage, err = decodeString(value)
		case "category":
			patch.Category, err = decodeString(value)
		case "tags":
			patch.Tags, err = decodeStrings(value)
		case "images":
			patch.Images, err = decodeStrings(value)
		case "draft":
			patch.Draft, err = decodeFlag(key, value)
		case "is_deleted":
			patch.IsDeleted, err = decodeFlag(key, value)
		case "deleted_at":
			if isNull(value) {
				patch.ClearDeletedAt = true
				break
			}
			var t time.Time
			err = json.Unmarshal(value, &t)
			patch.DeletedAt = &t
		default:
			return model.PostPatch{}, fmt.Errorf("%w: %s", ErrFieldNotAllowed, key)
		}
		if err != nil {
			return model.PostPatch{}, fmt.Errorf("%w: %s: %s", ErrInvalidField, key, err.Error())
		}
	}

	return patch, nil
}

func isNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// decodeFlag reads a lifecycle flag. null is refused since it names no state.
func decodeFlag(key string, raw json.RawMessage) (*bool, error) {
	if isNull(raw) {
		return nil, fmt.Errorf("%s cannot be null", key)
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func decodeString(raw json.RawMessage) (*string, error) {
	var s string
	if isNull(raw) {
		return &s, nil
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func decodeStrings(raw json.RawMessage) (*[]string, error) {
	s := []string{}
	if isNull(raw) {
		return &s, nil
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
