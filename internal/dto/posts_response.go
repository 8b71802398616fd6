package dto

import (
	"github.com/BloggingApp/blog-console/internal/model"
	"github.com/BloggingApp/blog-console/internal/query"
)

type ListMeta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

type ListPostsResponse struct {
	Data []*model.Post `json:"data"`
	Meta ListMeta      `json:"meta"`
}

func NewListPostsResponse(page query.Page) ListPostsResponse {
	return ListPostsResponse{
		Data: page.Items,
		Meta: ListMeta{
			Total:      page.TotalCount,
			Page:       page.Page,
			Limit:      page.PageSize,
			TotalPages: page.TotalPages,
		},
	}
}
