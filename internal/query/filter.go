package query

import (
	"fmt"
	"strings"
	"time"

	"github.com/BloggingApp/blog-console/internal/model"
)

const dateLayout = "2006-01-02"

type DateRange struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

func (r DateRange) IsEmpty() bool {
	return r.Start == nil && r.End == nil
}

type FilterSpec struct {
	Title     string    `json:"title"`
	Category  string    `json:"category"`
	Tag       string    `json:"tag"`
	DateRange DateRange `json:"dateRange"`
}

// IsEmpty reports whether the filter places no constraint at all.
func (f FilterSpec) IsEmpty() bool {
	return strings.TrimSpace(f.Title) == "" &&
		strings.TrimSpace(f.Category) == "" &&
		strings.TrimSpace(f.Tag) == "" &&
		f.DateRange.IsEmpty()
}

// ParseDate accepts a calendar date (2006-01-02) or an RFC 3339 timestamp.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.ParseInLocation(dateLayout, s, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return t, nil
}

func ParseDateRange(start, end string, loc *time.Location) (DateRange, error) {
	var r DateRange
	if s := strings.TrimSpace(start); s != "" {
		t, err := ParseDate(s, loc)
		if err != nil {
			return r, err
		}
		r.Start = &t
	}
	if s := strings.TrimSpace(end); s != "" {
		t, err := ParseDate(s, loc)
		if err != nil {
			return r, err
		}
		t = EndOfDay(t)
		r.End = &t
	}
	if r.Start != nil && r.End != nil && r.End.Before(*r.Start) {
		return r, fmt.Errorf("date range end %s is before start %s", end, start)
	}
	return r, nil
}

// EndOfDay moves t to 23:59:59.999 of its calendar day.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// DateField returns the timestamp range filters look at for the given partition.
func DateField(p *model.Post, status model.Status) *time.Time {
	if status == model.StatusDeleted {
		return p.DeletedAt
	}
	if p.CreatedAt.IsZero() {
		return nil
	}
	return &p.CreatedAt
}

func (f FilterSpec) Match(p *model.Post, status model.Status) bool {
	if title := strings.TrimSpace(f.Title); title != "" {
		if !strings.Contains(strings.ToLower(p.Title), strings.ToLower(title)) {
			return false
		}
	}
	if category := strings.TrimSpace(f.Category); category != "" && p.Category != category {
		return false
	}
	if tag := strings.TrimSpace(f.Tag); tag != "" && !p.HasTag(tag) {
		return false
	}
	if f.DateRange.IsEmpty() {
		return true
	}

	ts := DateField(p, status)
	if ts == nil {
		return false
	}
	if f.DateRange.Start != nil && ts.Before(*f.DateRange.Start) {
		return false
	}
	if f.DateRange.End != nil && ts.After(EndOfDay(*f.DateRange.End)) {
		return false
	}
	return true
}

// Filter keeps the posts of the given partition matching every constraint in spec.
func Filter(posts []*model.Post, status model.Status, spec FilterSpec) []*model.Post {
	out := make([]*model.Post, 0, len(posts))
	for _, p := range posts {
		if p.Status() != status {
			continue
		}
		if spec.Match(p, status) {
			out = append(out, p)
		}
	}
	return out
}
