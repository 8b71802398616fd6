package query

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/BloggingApp/blog-console/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func i64(v int64) *int64 { return &v }
func yes() *bool         { b := true; return &b }

func date(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		panic(err)
	}
	return t
}

func published(title string, created time.Time) *model.Post {
	return &model.Post{ID: uuid.New(), Title: title, CreatedAt: created}
}

func TestFilter_TitleIsCaseInsensitiveSubstring(t *testing.T) {
	posts := []*model.Post{
		published("Learning Go", date("2024-01-01T00:00:00Z")),
		published("GOLANG tips", date("2024-01-02T00:00:00Z")),
		published("Rust notes", date("2024-01-03T00:00:00Z")),
	}

	got := Filter(posts, model.StatusPublished, FilterSpec{Title: "go"})
	require.Len(t, got, 2)
	assert.Equal(t, "Learning Go", got[0].Title)
	assert.Equal(t, "GOLANG tips", got[1].Title)
}

func TestFilter_DropsOtherPartitions(t *testing.T) {
	draft := published("draft", date("2024-01-01T00:00:00Z"))
	draft.Draft = true
	trashed := published("trash", date("2024-01-01T00:00:00Z"))
	trashed.IsDeleted = yes()

	posts := []*model.Post{draft, trashed, published("live", date("2024-01-01T00:00:00Z"))}

	assert.Len(t, Filter(posts, model.StatusPublished, FilterSpec{}), 1)
	assert.Len(t, Filter(posts, model.StatusDraft, FilterSpec{}), 1)
	assert.Len(t, Filter(posts, model.StatusDeleted, FilterSpec{}), 1)
}

func TestFilter_CategoryAndTag(t *testing.T) {
	a := published("a", date("2024-01-01T00:00:00Z"))
	a.Category, a.Tags = "design", []string{"ui", "css"}
	b := published("b", date("2024-01-01T00:00:00Z"))
	b.Category, b.Tags = "technology", []string{"go"}

	posts := []*model.Post{a, b}
	assert.Equal(t, []*model.Post{a}, Filter(posts, model.StatusPublished, FilterSpec{Category: "design"}))
	assert.Equal(t, []*model.Post{b}, Filter(posts, model.StatusPublished, FilterSpec{Tag: "go"}))
	assert.Empty(t, Filter(posts, model.StatusPublished, FilterSpec{Category: "design", Tag: "go"}))
}

func TestFilter_DateRangeIncludesWholeEndDay(t *testing.T) {
	r, err := ParseDateRange("2024-01-01", "2024-01-10", time.UTC)
	require.NoError(t, err)
	require.NotNil(t, r.End)
	assert.Equal(t, date("2024-01-10T23:59:59.999Z"), *r.End)

	inside := published("inside", date("2024-01-10T23:59:59.000Z"))
	after := published("after", date("2024-01-11T00:00:00.000Z"))
	before := published("before", date("2023-12-31T23:59:59.000Z"))
	start := published("start", date("2024-01-01T00:00:00.000Z"))

	got := Filter([]*model.Post{inside, after, before, start}, model.StatusPublished, FilterSpec{DateRange: r})
	assert.ElementsMatch(t, []*model.Post{inside, start}, got)
}

func TestFilter_EndDayNormalizedEvenWhenBuiltByHand(t *testing.T) {
	end := date("2024-01-10T00:00:00Z")
	spec := FilterSpec{DateRange: DateRange{End: &end}}
	p := published("late", date("2024-01-10T23:59:59.000Z"))

	assert.True(t, spec.Match(p, model.StatusPublished))
}

func TestFilter_DeletedPartitionUsesDeletedAt(t *testing.T) {
	deletedAt := date("2024-02-05T12:00:00Z")
	p := published("gone", date("2023-01-01T00:00:00Z"))
	p.IsDeleted = yes()
	p.DeletedAt = &deletedAt

	r, err := ParseDateRange("2024-02-01", "2024-02-05", time.UTC)
	require.NoError(t, err)

	assert.Len(t, Filter([]*model.Post{p}, model.StatusDeleted, FilterSpec{DateRange: r}), 1)

	old, err := ParseDateRange("2023-01-01", "2023-01-02", time.UTC)
	require.NoError(t, err)
	assert.Empty(t, Filter([]*model.Post{p}, model.StatusDeleted, FilterSpec{DateRange: old}))
}

func TestParseDateRange_Errors(t *testing.T) {
	_, err := ParseDateRange("yesterday", "", time.UTC)
	assert.Error(t, err)

	_, err = ParseDateRange("2024-02-10", "2024-02-01", time.UTC)
	assert.Error(t, err)
}

func TestFilterSpec_IsEmpty(t *testing.T) {
	assert.True(t, FilterSpec{}.IsEmpty())
	assert.True(t, FilterSpec{Title: "   "}.IsEmpty())
	now := time.Now()
	assert.False(t, FilterSpec{DateRange: DateRange{Start: &now}}.IsEmpty())
	assert.False(t, FilterSpec{Tag: "go"}.IsEmpty())
}

func TestSort_NumericTreatsNullAsZero(t *testing.T) {
	five := &model.Post{Title: "five", Views: i64(5)}
	null := &model.Post{Title: "null"}
	two := &model.Post{Title: "two", Views: i64(2)}

	posts := []*model.Post{five, null, two}
	Sort(posts, SortSpec{{Key: "views", Direction: Asc}})
	assert.Equal(t, []*model.Post{null, two, five}, posts)

	Sort(posts, SortSpec{{Key: "views", Direction: Desc}})
	assert.Equal(t, []*model.Post{five, two, null}, posts)
}

func TestSort_StringsCaseInsensitiveAndMissingEmpty(t *testing.T) {
	b := &model.Post{Category: "beta"}
	a := &model.Post{Category: "Alpha"}
	none := &model.Post{}

	posts := []*model.Post{b, a, none}
	Sort(posts, SortSpec{{Key: "category", Direction: Asc}})
	assert.Equal(t, []*model.Post{none, a, b}, posts)
}

func TestSort_MultiKeyTieBreak(t *testing.T) {
	p1 := &model.Post{Title: "p1", Views: i64(1), CreatedAt: date("2024-01-01T00:00:00Z")}
	p2 := &model.Post{Title: "p2", Views: i64(1), CreatedAt: date("2024-01-03T00:00:00Z")}
	p3 := &model.Post{Title: "p3", Views: i64(7), CreatedAt: date("2024-01-02T00:00:00Z")}

	posts := []*model.Post{p1, p2, p3}
	Sort(posts, SortSpec{{Key: "views", Direction: Desc}, {Key: "created_at", Direction: Asc}})
	assert.Equal(t, []*model.Post{p3, p1, p2}, posts)
}

func TestSort_DefaultIsCreatedAtDesc(t *testing.T) {
	older := &model.Post{CreatedAt: date("2024-01-01T00:00:00Z")}
	newer := &model.Post{CreatedAt: date("2024-06-01T00:00:00Z")}

	posts := []*model.Post{older, newer}
	Sort(posts, nil)
	assert.Equal(t, []*model.Post{newer, older}, posts)
}

func TestSort_IsStable(t *testing.T) {
	var posts []*model.Post
	for i := 0; i < 20; i++ {
		posts = append(posts, &model.Post{Title: fmt.Sprintf("%02d", i), Category: "same"})
	}
	Sort(posts, SortSpec{{Key: "category", Direction: Asc}})
	for i, p := range posts {
		assert.Equal(t, fmt.Sprintf("%02d", i), p.Title)
	}
}

func TestSortSpec_PlainClickReplaces(t *testing.T) {
	var spec SortSpec
	spec = spec.Click("views", false)
	assert.Equal(t, SortSpec{{Key: "views", Direction: Desc}}, spec)

	spec = spec.Click("views", false)
	assert.Equal(t, SortSpec{{Key: "views", Direction: Asc}}, spec)

	spec = spec.Click("views", false)
	assert.Equal(t, SortSpec{{Key: "views", Direction: Desc}}, spec)

	spec = spec.Click("created_at", false)
	assert.Equal(t, SortSpec{{Key: "created_at", Direction: Desc}}, spec)
}

func TestSortSpec_MultiClickAppends(t *testing.T) {
	var spec SortSpec
	spec = spec.Click("views", true)
	spec = spec.Click("created_at", true)
	assert.Equal(t, SortSpec{
		{Key: "views", Direction: Desc},
		{Key: "created_at", Direction: Desc},
	}, spec)

	spec = spec.Click("views", true)
	assert.Equal(t, SortSpec{
		{Key: "views", Direction: Asc},
		{Key: "created_at", Direction: Desc},
	}, spec)
}

func TestSortSpec_ClickDoesNotMutateReceiver(t *testing.T) {
	spec := SortSpec{{Key: "views", Direction: Desc}}
	_ = spec.Click("views", true)
	assert.Equal(t, Desc, spec[0].Direction)
}

func TestParseSortSpec(t *testing.T) {
	spec, err := ParseSortSpec("views:asc, created_at")
	require.NoError(t, err)
	assert.Equal(t, SortSpec{{Key: "views", Direction: Asc}, {Key: "created_at", Direction: Desc}}, spec)
	assert.Equal(t, "views:asc,created_at:desc", spec.String())

	spec, err = ParseSortSpec("")
	require.NoError(t, err)
	assert.Nil(t, spec)

	for _, bad := range []string{"password", "views:sideways", "views,views"} {
		_, err := ParseSortSpec(bad)
		assert.Error(t, err, bad)
	}
}

func TestPaginate(t *testing.T) {
	items := make([]*model.Post, 23)
	for i := range items {
		items[i] = &model.Post{Title: fmt.Sprint(i)}
	}

	tests := []struct {
		name      string
		page      int
		pageSize  int
		wantItems int
		wantPages int
		wantFirst string
	}{
		{name: "first page", page: 1, pageSize: 10, wantItems: 10, wantPages: 3, wantFirst: "0"},
		{name: "last partial page", page: 3, pageSize: 10, wantItems: 3, wantPages: 3, wantFirst: "20"},
		{name: "past the end", page: 4, pageSize: 10, wantItems: 0, wantPages: 3},
		{name: "page below one", page: 0, pageSize: 10, wantItems: 10, wantPages: 3, wantFirst: "0"},
		{name: "single page", page: 1, pageSize: 50, wantItems: 23, wantPages: 1, wantFirst: "0"},
		{name: "huge page", page: math.MaxInt, pageSize: 10, wantItems: 0, wantPages: 3},
		{name: "huge page and size", page: math.MaxInt, pageSize: math.MaxInt, wantItems: 0, wantPages: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paginate(items, tt.page, tt.pageSize)
			assert.Len(t, p.Items, tt.wantItems)
			assert.Equal(t, tt.wantPages, p.TotalPages)
			assert.Equal(t, 23, p.TotalCount)
			if tt.wantFirst != "" {
				assert.Equal(t, tt.wantFirst, p.Items[0].Title)
			}
		})
	}
}

func TestPaginate_EmptyHasOnePage(t *testing.T) {
	for _, page := range []int{1, 2, 9} {
		p := Paginate(nil, page, 10)
		assert.Equal(t, 1, p.TotalPages)
		assert.Equal(t, 0, p.TotalCount)
		assert.NotNil(t, p.Items)
		assert.Empty(t, p.Items)
	}
}

func TestListView(t *testing.T) {
	var posts []*model.Post
	for i := 0; i < 30; i++ {
		p := published(fmt.Sprintf("post %02d", i), date("2024-01-01T00:00:00Z").Add(time.Duration(i)*time.Hour))
		if i%2 == 0 {
			p.Category = "design"
		}
		posts = append(posts, p)
	}

	page := ListView(posts, model.StatusPublished, FilterSpec{Category: "design"}, SortSpec{{Key: "title", Direction: Asc}}, 2, 10)
	assert.Equal(t, 15, page.TotalCount)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Items, 5)
	assert.Equal(t, "post 20", page.Items[0].Title)

	assert.Equal(t, "post 00", posts[0].Title)
}
