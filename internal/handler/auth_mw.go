package handler

import (
	"net/http"
	"strings"

	"github.com/BloggingApp/blog-console/internal/dto"
	"github.com/BloggingApp/blog-console/pkg/utils"
	"github.com/gin-gonic/gin"
)

const actorKey = "actor"

// Actor is the authenticated caller behind a request.
type Actor struct {
	ID   string
	Role string
}

func (h *Handler) authMiddleware(c *gin.Context) {
	actor, ok := h.actorFromHeader(c.GetHeader("Authorization"))
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewBasicResponse(false, errNotAuthorized.Error()))
		c.Abort()
		return
	}

	c.Set(actorKey, *actor)

	c.Next()
}

// notRequiredAuthMiddleware attaches the actor when a valid token is present
// and lets anonymous requests through otherwise.
func (h *Handler) notRequiredAuthMiddleware(c *gin.Context) {
	if actor, ok := h.actorFromHeader(c.GetHeader("Authorization")); ok {
		c.Set(actorKey, *actor)
	}

	c.Next()
}

func (h *Handler) actorFromHeader(header string) (*Actor, bool) {
	if !strings.HasPrefix(header, "Bearer ") || len(h.accessSecret) == 0 {
		return nil, false
	}

	accessToken := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if accessToken == "" {
		return nil, false
	}

	claims, err := utils.DecodeJWT(accessToken, h.accessSecret)
	if err != nil {
		return nil, false
	}

	id := utils.ClaimString(claims, "id")
	if id == "" {
		id = utils.ClaimString(claims, "sub")
	}
	if id == "" {
		return nil, false
	}

	return &Actor{ID: id, Role: utils.ClaimString(claims, "role")}, true
}

func (h *Handler) getActorFromRequest(c *gin.Context) *Actor {
	actorReq, _ := c.Get(actorKey)

	actor, ok := actorReq.(Actor)
	if !ok {
		return nil
	}

	return &actor
}
