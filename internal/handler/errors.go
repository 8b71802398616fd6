package handler

import (
	"errors"
	"net/http"

	"github.com/BloggingApp/blog-console/internal/dto"
	"github.com/BloggingApp/blog-console/internal/service"
	"github.com/gin-gonic/gin"
)

var (
	errNotAuthorized       = errors.New("user is not authorized")
	errInvalidPostID       = errors.New("invalid post ID")
	errInvalidID           = errors.New("invalid ID")
	errConflictingFlags    = errors.New("permanent and restore cannot be combined")
	errUnknownBatchAction  = errors.New("unknown batch action")
	errPageAndLimitMustInt = errors.New("page and limit must be int")
)

// writeError maps service errors onto status codes. Anything unrecognised is
// answered with a generic message.
func writeError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, verr.Error()))
	case errors.Is(err, service.ErrEmptySearch):
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, dto.NewBasicResponse(false, err.Error()))
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.NewBasicResponse(false, err.Error()))
	case errors.Is(err, service.ErrSchemaOutdated):
		c.JSON(http.StatusInternalServerError, dto.NewBasicResponse(false, err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, dto.NewBasicResponse(false, service.ErrInternal.Error()))
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
}
