package query

import "github.com/BloggingApp/blog-console/internal/model"

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type Page struct {
	Items      []*model.Post `json:"items"`
	TotalCount int           `json:"totalCount"`
	TotalPages int           `json:"totalPages"`
	Page       int           `json:"page"`
	PageSize   int           `json:"pageSize"`
}

// NormalizePaging clamps page to >= 1 and pageSize to [1, MaxPageSize].
func NormalizePaging(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

// Paginate slices [(page-1)*pageSize, page*pageSize). TotalPages is never below 1.
func Paginate(items []*model.Post, page, pageSize int) Page {
	page, pageSize = NormalizePaging(page, pageSize)

	total := len(items)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	result := Page{
		Items:      []*model.Post{},
		TotalCount: total,
		TotalPages: totalPages,
		Page:       page,
		PageSize:   pageSize,
	}

	if page > totalPages {
		return result
	}
	offset := (page - 1) * pageSize
	if offset >= total {
		return result
	}
	end := offset + pageSize
	if end > total {
		end = total
	}
	result.Items = items[offset:end]
	return result
}

// ListView runs the whole pipeline over an already fetched partition:
// filter, sort, then paginate. The input slice is not reordered.
func ListView(posts []*model.Post, status model.Status, filters FilterSpec, sort SortSpec, page, pageSize int) Page {
	filtered := Filter(posts, status, filters)
	Sort(filtered, sort)
	return Paginate(filtered, page, pageSize)
}
