package model

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Content       string     `json:"content"`
	Excerpt       string     `json:"excerpt"`
	CoverImage    string     `json:"cover_image"`
	Category      string     `json:"category"`
	Tags          []string   `json:"tags"`
	Images        []string   `json:"images"`
	Draft         bool       `json:"draft"`
	IsDeleted     *bool      `json:"is_deleted"`
	DeletedAt     *time.Time `json:"deleted_at"`
	Views         *int64     `json:"views"`
	CommentsCount *int64     `json:"comments_count"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Status is derived from the draft and is_deleted flags. It is never stored.
func (p *Post) Status() Status {
	return StatusOf(p.Draft, p.IsDeleted)
}

func (p *Post) Deleted() bool {
	return p.IsDeleted != nil && *p.IsDeleted
}

func (p *Post) Clone() *Post {
	cp := *p
	cp.Tags = slices.Clone(p.Tags)
	cp.Images = slices.Clone(p.Images)
	if p.IsDeleted != nil {
		v := *p.IsDeleted
		cp.IsDeleted = &v
	}
	if p.DeletedAt != nil {
		v := *p.DeletedAt
		cp.DeletedAt = &v
	}
	if p.Views != nil {
		v := *p.Views
		cp.Views = &v
	}
	if p.CommentsCount != nil {
		v := *p.CommentsCount
		cp.CommentsCount = &v
	}
	return &cp
}

func (p *Post) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
