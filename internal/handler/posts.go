package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/BloggingApp/blog-console/internal/dto"
	"github.com/BloggingApp/blog-console/internal/model"
	"github.com/BloggingApp/blog-console/internal/query"
	"github.com/BloggingApp/blog-console/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (h *Handler) postsList(c *gin.Context) {
	req, ok := h.bindListRequest(c)
	if !ok {
		return
	}

	page, err := h.services.Post.List(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListPostsResponse(*page))
}

func (h *Handler) postsSearch(c *gin.Context) {
	req, ok := h.bindListRequest(c)
	if !ok {
		return
	}

	page, err := h.services.Post.Search(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListPostsResponse(*page))
}

// bindListRequest reads the list query string. Anonymous callers only see the
// published partition.
func (h *Handler) bindListRequest(c *gin.Context) (service.ListRequest, bool) {
	var input dto.ListPostsRequest
	if err := c.ShouldBindQuery(&input); err != nil {
		badRequest(c, errPageAndLimitMustInt)
		return service.ListRequest{}, false
	}

	status, err := model.ParseStatus(strings.TrimSpace(input.Status))
	if err != nil {
		badRequest(c, err)
		return service.ListRequest{}, false
	}
	if status != model.StatusPublished && h.getActorFromRequest(c) == nil {
		writeError(c, service.ErrUnauthorized)
		return service.ListRequest{}, false
	}

	dates, err := query.ParseDateRange(input.Start, input.End, time.Local)
	if err != nil {
		badRequest(c, err)
		return service.ListRequest{}, false
	}

	sort, err := query.ParseSortSpec(input.Sort)
	if err != nil {
		badRequest(c, err)
		return service.ListRequest{}, false
	}

	category := strings.TrimSpace(input.Category)
	tag := strings.TrimSpace(input.Tag)
	return service.ListRequest{
		Status:   status,
		Category: category,
		Tag:      tag,
		Filters: query.FilterSpec{
			Title:     strings.TrimSpace(input.Title),
			Category:  category,
			Tag:       tag,
			DateRange: dates,
		},
		Sort:     sort,
		Page:     input.Page,
		PageSize: input.Limit,
	}, true
}

func (h *Handler) postsGetByID(c *gin.Context) {
	postID, ok := parsePostID(c)
	if !ok {
		return
	}

	post, err := h.services.Post.FindByID(c.Request.Context(), postID)
	if err != nil {
		writeError(c, err)
		return
	}

	if post.Status() != model.StatusPublished && h.getActorFromRequest(c) == nil {
		writeError(c, service.ErrNotFound)
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *Handler) postsCreate(c *gin.Context) {
	var input dto.CreatePostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	createdPost, err := h.services.Post.Create(c.Request.Context(), input)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, createdPost)
}

func (h *Handler) postsUpdate(c *gin.Context) {
	postID, ok := parsePostID(c)
	if !ok {
		return
	}

	var raw map[string]json.RawMessage
	if err := c.ShouldBindJSON(&raw); err != nil {
		badRequest(c, err)
		return
	}

	patch, err := dto.ParsePostUpdates(raw)
	if err != nil {
		badRequest(c, err)
		return
	}

	updated, err := h.services.Post.Update(c.Request.Context(), postID, patch)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// postsDelete soft deletes by default. ?permanent=true purges a deleted post
// and ?restore=true brings it back.
func (h *Handler) postsDelete(c *gin.Context) {
	postID, ok := parsePostID(c)
	if !ok {
		return
	}

	permanent, restore := queryFlag(c, "permanent"), queryFlag(c, "restore")
	if permanent && restore {
		badRequest(c, errConflictingFlags)
		return
	}

	ctx := c.Request.Context()
	var err error
	details := "post moved to trash"
	switch {
	case permanent:
		err = h.services.Post.PermanentlyDelete(ctx, postID)
		details = "post deleted permanently"
	case restore:
		err = h.services.Post.Restore(ctx, postID)
		details = "post restored"
	default:
		err = h.services.Post.SoftDelete(ctx, postID)
	}
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, details))
}

func (h *Handler) postsBatchUpdate(c *gin.Context) {
	var input dto.BatchRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	ids, ok := parseIDs(c, input.IDs)
	if !ok {
		return
	}

	patch, err := dto.ParsePostUpdates(input.Updates)
	if err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.services.Post.BatchUpdate(c.Request.Context(), ids, patch)
	h.writeBatch(c, result, err)
}

func (h *Handler) postsBatchDelete(c *gin.Context) {
	var input dto.BatchRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	ids, ok := parseIDs(c, input.IDs)
	if !ok {
		return
	}

	var (
		result *model.BatchResult
		err    error
	)
	if queryFlag(c, "permanent") {
		result, err = h.services.Post.BatchPermanentlyDelete(c.Request.Context(), ids)
	} else {
		result, err = h.services.Post.BatchSoftDelete(c.Request.Context(), ids)
	}
	h.writeBatch(c, result, err)
}

func (h *Handler) postsBatchAction(c *gin.Context) {
	var input dto.BatchRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	ids, ok := parseIDs(c, input.IDs)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	var (
		result *model.BatchResult
		err    error
	)
	switch c.Param("action") {
	case "publish":
		result, err = h.services.Post.BatchPublish(ctx, ids)
	case "unpublish":
		result, err = h.services.Post.BatchUnpublish(ctx, ids)
	case "restore":
		result, err = h.services.Post.BatchRestore(ctx, ids)
	default:
		c.JSON(http.StatusNotFound, dto.NewBasicResponse(false, errUnknownBatchAction.Error()))
		return
	}
	h.writeBatch(c, result, err)
}

func (h *Handler) writeBatch(c *gin.Context, result *model.BatchResult, err error) {
	if err != nil {
		writeError(c, err)
		return
	}

	if n := len(result.Failed); n > 0 {
		h.logger.Sugar().Warnf("batch %s %s: %d of %d posts failed", c.Request.Method, c.Request.URL.Path, n, n+result.SuccessCount())
	}

	status := http.StatusOK
	switch result.Outcome() {
	case model.BatchPartial:
		status = http.StatusMultiStatus
	case model.BatchNone:
		status = http.StatusUnprocessableEntity
	}

	c.JSON(status, dto.NewBatchResponse(result))
}

func parsePostID(c *gin.Context) (uuid.UUID, bool) {
	postID, err := uuid.Parse(strings.TrimSpace(c.Param("postID")))
	if err != nil {
		badRequest(c, errInvalidPostID)
		return uuid.Nil, false
	}
	return postID, true
}

func parseIDs(c *gin.Context, raw []string) ([]uuid.UUID, bool) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(strings.TrimSpace(s))
		if err != nil {
			badRequest(c, errInvalidID)
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}

func queryFlag(c *gin.Context, name string) bool {
	v, err := strconv.ParseBool(c.DefaultQuery(name, "false"))
	return err == nil && v
}
