package query

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/BloggingApp/blog-console/internal/model"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

func (d Direction) Toggle() Direction {
	if d == Desc {
		return Asc
	}
	return Desc
}

type Kind int

const (
	KindString Kind = iota
	KindNumeric
	KindDate
)

var fieldKinds = map[string]Kind{
	"id":             KindString,
	"title":          KindString,
	"content":        KindString,
	"excerpt":        KindString,
	"cover_image":    KindString,
	"category":       KindString,
	"tags":           KindString,
	"views":          KindNumeric,
	"comments_count": KindNumeric,
	"created_at":     KindDate,
	"updated_at":     KindDate,
	"deleted_at":     KindDate,
}

func FieldKind(key string) Kind {
	return fieldKinds[key]
}

func Sortable(key string) bool {
	_, ok := fieldKinds[key]
	return ok
}

type SortField struct {
	Key       string    `json:"key"`
	Direction Direction `json:"direction"`
}

// SortSpec is an ordered list of keys; earlier entries take precedence.
type SortSpec []SortField

var DefaultSort = SortSpec{{Key: "created_at", Direction: Desc}}

func (s SortSpec) orDefault() SortSpec {
	if len(s) == 0 {
		return DefaultSort
	}
	return s
}

func (s SortSpec) String() string {
	parts := make([]string, 0, len(s))
	for _, f := range s {
		parts = append(parts, f.Key+":"+string(f.Direction))
	}
	return strings.Join(parts, ",")
}

func (s SortSpec) index(key string) int {
	for i, f := range s {
		if f.Key == key {
			return i
		}
	}
	return -1
}

// Click applies the column-header policy. A plain click replaces the spec
// with a single key, flipping direction when that key was already the only
// one. A multi click updates the key in place or appends it as desc.
func (s SortSpec) Click(key string, multi bool) SortSpec {
	if !multi {
		if len(s) == 1 && s[0].Key == key {
			return SortSpec{{Key: key, Direction: s[0].Direction.Toggle()}}
		}
		return SortSpec{{Key: key, Direction: Desc}}
	}

	out := slices.Clone(s)
	if i := out.index(key); i >= 0 {
		out[i].Direction = out[i].Direction.Toggle()
		return out
	}
	return append(out, SortField{Key: key, Direction: Desc})
}

// ParseSortSpec reads "views:asc,created_at:desc". A key without a direction is desc.
func ParseSortSpec(raw string) (SortSpec, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var spec SortSpec
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, dir, _ := strings.Cut(part, ":")
		key = strings.TrimSpace(key)
		if !Sortable(key) {
			return nil, fmt.Errorf("unsortable field %q", key)
		}
		d := Direction(strings.ToLower(strings.TrimSpace(dir)))
		switch d {
		case "":
			d = Desc
		case Asc, Desc:
		default:
			return nil, fmt.Errorf("invalid sort direction %q", dir)
		}
		if spec.index(key) >= 0 {
			return nil, fmt.Errorf("duplicate sort field %q", key)
		}
		spec = append(spec, SortField{Key: key, Direction: d})
	}
	return spec, nil
}

// Compare orders a against b by every key in turn.
func (s SortSpec) Compare(a, b *model.Post) int {
	for _, f := range s.orDefault() {
		c := compareField(a, b, f.Key)
		if c == 0 {
			continue
		}
		if f.Direction == Desc {
			return -c
		}
		return c
	}
	return 0
}

// Sort orders posts in place with a stable multi-key comparator.
func Sort(posts []*model.Post, spec SortSpec) {
	spec = spec.orDefault()
	slices.SortStableFunc(posts, spec.Compare)
}

func compareField(a, b *model.Post, key string) int {
	switch FieldKind(key) {
	case KindNumeric:
		x, y := numericValue(a, key), numericValue(b, key)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	case KindDate:
		return dateValue(a, key).Compare(dateValue(b, key))
	}
	return strings.Compare(strings.ToLower(stringValue(a, key)), strings.ToLower(stringValue(b, key)))
}

func numericValue(p *model.Post, key string) int64 {
	var v *int64
	switch key {
	case "views":
		v = p.Views
	case "comments_count":
		v = p.CommentsCount
	}
	if v == nil {
		return 0
	}
	return *v
}

func dateValue(p *model.Post, key string) time.Time {
	switch key {
	case "created_at":
		return p.CreatedAt
	case "updated_at":
		return p.UpdatedAt
	case "deleted_at":
		if p.DeletedAt != nil {
			return *p.DeletedAt
		}
	}
	return time.Time{}
}

func stringValue(p *model.Post, key string) string {
	switch key {
	case "id":
		return p.ID.String()
	case "title":
		return p.Title
	case "content":
		return p.Content
	case "excerpt":
		return p.Excerpt
	case "cover_image":
		return p.CoverImage
	case "category":
		return p.Category
	case "tags":
		return strings.Join(p.Tags, ",")
	}
	return ""
}
