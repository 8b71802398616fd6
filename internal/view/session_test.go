package view

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/BloggingApp/blog-console/internal/model"
	"github.com/BloggingApp/blog-console/internal/query"
	"github.com/BloggingApp/blog-console/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	mu    sync.Mutex
	reqs  []service.ListRequest
	posts []*model.Post
	// block, when set, is consulted per call and may hold the call open.
	block func(call int) <-chan struct{}
}

func (f *fakeLister) List(ctx context.Context, req service.ListRequest) (*query.Page, error) {
	f.mu.Lock()
	f.reqs = append(f.reqs, req)
	call := len(f.reqs)
	block := f.block
	posts := f.posts
	f.mu.Unlock()

	if block != nil {
		if ch := block(call); ch != nil {
			<-ch
		}
	}

	page := query.ListView(posts, req.Status, req.Filters, req.Sort, req.Page, req.PageSize)
	return &page, nil
}

func (f *fakeLister) requests() []service.ListRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]service.ListRequest(nil), f.reqs...)
}

func posts(titles ...string) []*model.Post {
	out := make([]*model.Post, 0, len(titles))
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, title := range titles {
		out = append(out, &model.Post{ID: uuid.New(), Title: title, Content: "c", CreatedAt: base.Add(time.Duration(i) * time.Hour)})
	}
	return out
}

func TestEditFilters_TrailingDebounce(t *testing.T) {
	lister := &fakeLister{posts: posts("go one", "rust", "go two")}
	s := NewSession(lister, Options{Debounce: 20 * time.Millisecond})
	defer s.Close()

	s.EditFilters(query.FilterSpec{Title: "g"})
	s.EditFilters(query.FilterSpec{Title: "go"})
	s.EditFilters(query.FilterSpec{Title: "go t"})

	require.Eventually(t, func() bool { return len(lister.requests()) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)

	reqs := lister.requests()
	require.Len(t, reqs, 1, "only the last edit is fetched")
	assert.Equal(t, "go t", reqs[0].Filters.Title)

	snap := s.Snapshot()
	require.Len(t, snap.Current.Items, 1)
	assert.Equal(t, "go two", snap.Current.Items[0].Title)
}

func TestRefresh_DiscardsStaleResults(t *testing.T) {
	release := make(chan struct{})
	lister := &fakeLister{
		posts: posts("b", "a"),
		block: func(call int) <-chan struct{} {
			if call == 1 {
				return release
			}
			return nil
		},
	}
	s := NewSession(lister, Options{})

	slow := make(chan error, 1)
	go func() { slow <- s.Refresh(context.Background()) }()
	require.Eventually(t, func() bool { return len(lister.requests()) == 1 }, time.Second, time.Millisecond)

	require.NoError(t, s.ClickSort(context.Background(), "title", false))
	fresh := s.Snapshot()
	assert.Equal(t, "b", fresh.Current.Items[0].Title)

	close(release)
	require.NoError(t, <-slow)

	after := s.Snapshot()
	assert.Equal(t, fresh.Generation, after.Generation)
	assert.Equal(t, "b", after.Current.Items[0].Title, "late default-sort result is ignored")
}

func TestSearch_RejectsEmptyFilters(t *testing.T) {
	lister := &fakeLister{}
	s := NewSession(lister, Options{})

	assert.ErrorIs(t, s.Search(context.Background()), service.ErrEmptySearch)
	assert.Empty(t, lister.requests())
}

func TestSearch_CancelsPendingDebounce(t *testing.T) {
	lister := &fakeLister{posts: posts("alpha", "beta")}
	s := NewSession(lister, Options{Debounce: 30 * time.Millisecond})

	s.EditFilters(query.FilterSpec{Title: "alp"})
	require.NoError(t, s.Search(context.Background()))
	time.Sleep(60 * time.Millisecond)

	assert.Len(t, lister.requests(), 1)
	assert.Equal(t, 1, s.Snapshot().Current.TotalCount)
}

func TestReset(t *testing.T) {
	lister := &fakeLister{posts: posts("alpha", "beta")}
	s := NewSession(lister, Options{})

	s.EditFilters(query.FilterSpec{Title: "alp"})
	require.NoError(t, s.Reset(context.Background()))

	snap := s.Snapshot()
	assert.True(t, snap.Filters.IsEmpty())
	assert.Equal(t, 2, snap.Current.TotalCount)
	assert.Len(t, lister.requests(), 1)
}

func TestClickSort(t *testing.T) {
	ctx := context.Background()
	s := NewSession(&fakeLister{}, Options{})

	require.NoError(t, s.ClickSort(ctx, "created_at", false))
	assert.Equal(t, "created_at:asc", s.Snapshot().Sort.String())

	require.NoError(t, s.ClickSort(ctx, "views", true))
	assert.Equal(t, "created_at:asc,views:desc", s.Snapshot().Sort.String())

	require.NoError(t, s.ClickSort(ctx, "title", false))
	assert.Equal(t, "title:desc", s.Snapshot().Sort.String())

	assert.Error(t, s.ClickSort(ctx, "author", false))
}

func TestSetPage_ClampsToAtLeastOne(t *testing.T) {
	lister := &fakeLister{posts: posts("a", "b", "c")}
	s := NewSession(lister, Options{PageSize: 2})

	require.NoError(t, s.SetPage(context.Background(), 2))
	snap := s.Snapshot()
	assert.Len(t, snap.Current.Items, 1)
	assert.Equal(t, 2, snap.Current.TotalPages)

	require.NoError(t, s.SetPage(context.Background(), -3))
	assert.Equal(t, 1, s.Snapshot().Page)
}

func TestReconcile(t *testing.T) {
	lister := &fakeLister{posts: posts("a", "b", "c")}
	s := NewSession(lister, Options{Status: model.StatusPublished, PageSize: 2})
	require.NoError(t, s.Refresh(context.Background()))

	items := s.Snapshot().Current.Items
	require.Len(t, items, 2)

	s.Reconcile(&model.BatchResult{
		Succeeded: []uuid.UUID{items[0].ID},
		Failed:    []*model.BatchFailure{{ID: items[1].ID, Error: "boom"}},
	})

	snap := s.Snapshot()
	require.Len(t, snap.Current.Items, 1)
	assert.Equal(t, items[1].ID, snap.Current.Items[0].ID)
	assert.Equal(t, 2, snap.Current.TotalCount)
	assert.Equal(t, 1, snap.Current.TotalPages)
	assert.Len(t, lister.requests(), 1, "no refetch")
}

func TestReconcile_DiscardsFetchStartedBeforeBatch(t *testing.T) {
	release := make(chan struct{})
	lister := &fakeLister{posts: posts("a", "b", "c")}
	s := NewSession(lister, Options{Status: model.StatusPublished})
	require.NoError(t, s.Refresh(context.Background()))
	items := s.Snapshot().Current.Items
	require.Len(t, items, 3)

	lister.mu.Lock()
	lister.block = func(call int) <-chan struct{} {
		if call == 2 {
			return release
		}
		return nil
	}
	lister.mu.Unlock()

	inflight := make(chan error, 1)
	go func() { inflight <- s.Refresh(context.Background()) }()
	require.Eventually(t, func() bool { return len(lister.requests()) == 2 }, time.Second, time.Millisecond)

	gone := items[0].ID
	s.Reconcile(&model.BatchResult{Succeeded: []uuid.UUID{gone}, Failed: []*model.BatchFailure{}})
	require.Len(t, s.Snapshot().Current.Items, 2)

	close(release)
	require.NoError(t, <-inflight)

	snap := s.Snapshot()
	require.Len(t, snap.Current.Items, 2, "pre-batch fetch does not bring the id back")
	for _, p := range snap.Current.Items {
		assert.NotEqual(t, gone, p.ID)
	}
	assert.Equal(t, 2, snap.Current.TotalCount)
}

func TestOnUpdate(t *testing.T) {
	var got []Snapshot
	s := NewSession(&fakeLister{posts: posts("a")}, Options{OnUpdate: func(s Snapshot) { got = append(got, s) }})

	require.NoError(t, s.SetStatus(context.Background(), model.StatusPublished))
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].Current.TotalCount)
}

func TestSetFilters_CancelsPendingDebounce(t *testing.T) {
	lister := &fakeLister{posts: posts("alpha", "beta")}
	s := NewSession(lister, Options{Debounce: 20 * time.Millisecond})

	s.EditFilters(query.FilterSpec{Title: "alp"})
	s.SetFilters(query.FilterSpec{Title: "bet"})
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, lister.requests())

	require.NoError(t, s.Refresh(context.Background()))
	snap := s.Snapshot()
	require.Len(t, snap.Current.Items, 1)
	assert.Equal(t, "beta", snap.Current.Items[0].Title)
}
