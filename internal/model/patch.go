package model

import "time"

// PostPatch is a partial update over the mutable post columns.
// Nil fields are left untouched. ClearDeletedAt writes NULL into deleted_at.
type PostPatch struct {
	Title          *string
	Content        *string
	Excerpt        *string
	CoverImage     *string
	Category       *string
	Tags           *[]string
	Images         *[]string
	Draft          *bool
	IsDeleted      *bool
	DeletedAt      *time.Time
	ClearDeletedAt bool
	UpdatedAt      time.Time
}

type Column struct {
	Name  string
	Value interface{}
}

func (p PostPatch) IsEmpty() bool {
	return p.Title == nil &&
		p.Content == nil &&
		p.Excerpt == nil &&
		p.CoverImage == nil &&
		p.Category == nil &&
		p.Tags == nil &&
		p.Images == nil &&
		p.Draft == nil &&
		p.IsDeleted == nil &&
		p.DeletedAt == nil &&
		!p.ClearDeletedAt
}

// Columns lists the columns the patch writes in a stable order.
func (p PostPatch) Columns() []Column {
	var cols []Column
	if p.Title != nil {
		cols = append(cols, Column{"title", *p.Title})
	}
	if p.Content != nil {
		cols = append(cols, Column{"content", *p.Content})
	}
	if p.Excerpt != nil {
		cols = append(cols, Column{"excerpt", *p.Excerpt})
	}
	if p.CoverImage != nil {
		cols = append(cols, Column{"cover_image", *p.CoverImage})
	}
	if p.Category != nil {
		cols = append(cols, Column{"category", *p.Category})
	}
	if p.Tags != nil {
		cols = append(cols, Column{"tags", nonNil(*p.Tags)})
	}
	if p.Images != nil {
		cols = append(cols, Column{"images", nonNil(*p.Images)})
	}
	if p.Draft != nil {
		cols = append(cols, Column{"draft", *p.Draft})
	}
	if p.IsDeleted != nil {
		cols = append(cols, Column{"is_deleted", *p.IsDeleted})
	}
	if p.ClearDeletedAt {
		cols = append(cols, Column{"deleted_at", nil})
	} else if p.DeletedAt != nil {
		cols = append(cols, Column{"deleted_at", *p.DeletedAt})
	}
	if !p.UpdatedAt.IsZero() {
		cols = append(cols, Column{"updated_at", p.UpdatedAt})
	}
	return cols
}

func (p PostPatch) ApplyTo(post *Post) {
	if p.Title != nil {
		post.Title = *p.Title
	}
	if p.Content != nil {
		post.Content = *p.Content
	}
	if p.Excerpt != nil {
		post.Excerpt = *p.Excerpt
	}
	if p.CoverImage != nil {
		post.CoverImage = *p.CoverImage
	}
	if p.Category != nil {
		post.Category = *p.Category
	}
	if p.Tags != nil {
		post.Tags = append([]string(nil), *p.Tags...)
	}
	if p.Images != nil {
		post.Images = append([]string(nil), *p.Images...)
	}
	if p.Draft != nil {
		post.Draft = *p.Draft
	}
	if p.IsDeleted != nil {
		v := *p.IsDeleted
		post.IsDeleted = &v
	}
	if p.ClearDeletedAt {
		post.DeletedAt = nil
	} else if p.DeletedAt != nil {
		v := *p.DeletedAt
		post.DeletedAt = &v
	}
	if !p.UpdatedAt.IsZero() {
		post.UpdatedAt = p.UpdatedAt
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
