// Package view keeps the state of one admin list screen: which partition is
// shown, the pending filter edits, and the page last fetched for it.
package view

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/BloggingApp/blog-console/internal/model"
	"github.com/BloggingApp/blog-console/internal/query"
	"github.com/BloggingApp/blog-console/internal/service"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const DefaultDebounce = 300 * time.Millisecond

type Lister interface {
	List(ctx context.Context, req service.ListRequest) (*query.Page, error)
}

type Options struct {
	Status   model.Status
	PageSize int
	Debounce time.Duration
	Logger   *zap.Logger
	// OnUpdate is called after every applied fetch, outside the session lock.
	OnUpdate func(Snapshot)
}

// Snapshot is a copy of the session state safe to hand to other goroutines.
type Snapshot struct {
	Status     model.Status
	Filters    query.FilterSpec
	Sort       query.SortSpec
	Page       int
	PageSize   int
	Current    query.Page
	Generation uint64
	Err        error
}

type Session struct {
	lister   Lister
	logger   *zap.Logger
	debounce time.Duration
	onUpdate func(Snapshot)

	mu         sync.Mutex
	status     model.Status
	filters    query.FilterSpec
	sort       query.SortSpec
	page       int
	pageSize   int
	current    query.Page
	err        error
	generation uint64
	timer      *time.Timer
}

func NewSession(lister Lister, opts Options) *Session {
	if opts.Status == "" {
		opts.Status = model.StatusPublished
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	_, pageSize := query.NormalizePaging(1, opts.PageSize)

	return &Session{
		lister:   lister,
		logger:   opts.Logger,
		debounce: opts.Debounce,
		onUpdate: opts.OnUpdate,
		status:   opts.Status,
		sort:     slices.Clone(query.DefaultSort),
		page:     1,
		pageSize: pageSize,
		current:  query.Paginate(nil, 1, pageSize),
	}
}

// EditFilters replaces the filters and schedules a fetch once edits have
// been quiet for the debounce interval. A newer edit restarts the wait.
func (s *Session) EditFilters(filters query.FilterSpec) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.filters = filters
	s.page = 1
	s.generation++
	s.stopTimerLocked()
	s.timer = time.AfterFunc(s.debounce, func() {
		if err := s.Refresh(context.Background()); err != nil {
			s.logger.Sugar().Errorf("debounced refresh of %s view failed: %s", s.status, err.Error())
		}
	})
}

// SetFilters replaces the filters without fetching and drops any pending
// debounced fetch.
func (s *Session) SetFilters(filters query.FilterSpec) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopTimerLocked()
	s.filters = filters
	s.page = 1
	s.generation++
}

// Search fetches immediately with the current filters, which must not be empty.
func (s *Session) Search(ctx context.Context) error {
	s.mu.Lock()
	if s.filters.IsEmpty() {
		s.mu.Unlock()
		return service.ErrEmptySearch
	}
	s.stopTimerLocked()
	s.page = 1
	s.mu.Unlock()

	return s.Refresh(ctx)
}

func (s *Session) Reset(ctx context.Context) error {
	s.mu.Lock()
	s.stopTimerLocked()
	s.filters = query.FilterSpec{}
	s.page = 1
	s.mu.Unlock()

	return s.Refresh(ctx)
}

func (s *Session) SetStatus(ctx context.Context, status model.Status) error {
	s.mu.Lock()
	s.status = status
	s.page = 1
	s.mu.Unlock()

	return s.Refresh(ctx)
}

func (s *Session) ClickSort(ctx context.Context, key string, multi bool) error {
	if !query.Sortable(key) {
		return &service.ValidationError{Field: "sort", Reason: fmt.Sprintf("%q is not sortable", key)}
	}

	s.mu.Lock()
	s.sort = s.sort.Click(key, multi)
	s.mu.Unlock()

	return s.Refresh(ctx)
}

func (s *Session) SetSort(ctx context.Context, spec query.SortSpec) error {
	s.mu.Lock()
	if len(spec) == 0 {
		spec = query.DefaultSort
	}
	s.sort = slices.Clone(spec)
	s.mu.Unlock()

	return s.Refresh(ctx)
}

func (s *Session) SetPage(ctx context.Context, page int) error {
	s.mu.Lock()
	s.page = page
	s.mu.Unlock()

	return s.Refresh(ctx)
}

// Refresh fetches the page for the current state. The result is dropped when
// another fetch or edit started in the meantime.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	req := service.ListRequest{
		Status:   s.status,
		Filters:  s.filters,
		Sort:     slices.Clone(s.sort),
		Page:     s.page,
		PageSize: s.pageSize,
	}
	s.mu.Unlock()

	page, err := s.lister.List(ctx, req)

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return nil
	}
	s.err = err
	if err == nil {
		s.current = *page
		s.page = page.Page
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if s.onUpdate != nil {
		s.onUpdate(snap)
	}
	return err
}

// Reconcile drops the ids a batch action moved out of this partition from the
// visible page. Failed ids stay where they are. Fetches still in flight predate
// the batch and are discarded when they land.
func (s *Session) Reconcile(result *model.BatchResult) {
	if result == nil || len(result.Succeeded) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++

	gone := make(map[uuid.UUID]struct{}, len(result.Succeeded))
	for _, id := range result.Succeeded {
		gone[id] = struct{}{}
	}

	kept := make([]*model.Post, 0, len(s.current.Items))
	for _, p := range s.current.Items {
		if _, ok := gone[p.ID]; !ok {
			kept = append(kept, p)
		}
	}

	removed := len(s.current.Items) - len(kept)
	s.current.Items = kept
	s.current.TotalCount -= removed
	s.current.TotalPages = max(1, (s.current.TotalCount+s.current.PageSize-1)/s.current.PageSize)
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Close cancels a pending debounced fetch.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopTimerLocked()
}

func (s *Session) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Session) snapshotLocked() Snapshot {
	current := s.current
	current.Items = slices.Clone(s.current.Items)
	return Snapshot{
		Status:     s.status,
		Filters:    s.filters,
		Sort:       slices.Clone(s.sort),
		Page:       s.page,
		PageSize:   s.pageSize,
		Current:    current,
		Generation: s.generation,
		Err:        s.err,
	}
}
