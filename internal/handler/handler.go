package handler

import (
	"net/http"

	"github.com/BloggingApp/blog-console/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Options struct {
	AccessSecret  string
	ClientOrigins []string
}

type Handler struct {
	services     *service.Service
	logger       *zap.Logger
	accessSecret []byte
	origins      []string
}

func New(services *service.Service, logger *zap.Logger, opts Options) *Handler {
	origins := opts.ClientOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return &Handler{
		services:     services,
		logger:       logger,
		accessSecret: []byte(opts.AccessSecret),
		origins:      origins,
	}
}

func (h *Handler) InitRoutes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), metricsMiddleware)

	corsConfig := cors.Config{
		AllowMethods: []string{"POST", "GET", "PUT", "PATCH", "DELETE"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
	}
	if len(h.origins) == 1 && h.origins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = h.origins
		corsConfig.AllowCredentials = true
	}
	r.Use(cors.New(corsConfig))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/settings", h.settingsGet)

		blog := api.Group("/blog")
		{
			blog.GET("", h.notRequiredAuthMiddleware, h.postsList)
			blog.GET("/search", h.notRequiredAuthMiddleware, h.postsSearch)
			blog.POST("", h.authMiddleware, h.postsCreate)
			blog.PATCH("", h.authMiddleware, h.postsBatchUpdate)
			blog.DELETE("", h.authMiddleware, h.postsBatchDelete)
			blog.POST("/batch/:action", h.authMiddleware, h.postsBatchAction)

			post := blog.Group("/:postID")
			{
				post.GET("", h.notRequiredAuthMiddleware, h.postsGetByID)
				post.PUT("", h.authMiddleware, h.postsUpdate)
				post.PATCH("", h.authMiddleware, h.postsUpdate)
				post.DELETE("", h.authMiddleware, h.postsDelete)
			}
		}
	}

	return r
}

func (h *Handler) settingsGet(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Post.Settings())
}
