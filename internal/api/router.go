// Package api wires handlers and middleware into the gin engine.
package api

import (
	"net/http"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	_ "github.com/Hunter-sfcb/iceapp/docs"
	"github.com/Hunter-sfcb/iceapp/internal/api/handler"
	"github.com/Hunter-sfcb/iceapp/internal/api/middleware"
	"github.com/Hunter-sfcb/iceapp/internal/session"
)

// Options 路由可选项
type Options struct {
	Mode        string
	ServiceName string
	AuthLimiter *middleware.IPRateLimiter
	Sentry      bool
	Tracing     bool
}

func NewRouter(h *handler.Handler, newSession session.Factory, opts Options) *gin.Engine {
	if opts.Mode != "" {
		gin.SetMode(opts.Mode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	if opts.Sentry {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	if opts.Tracing {
		r.Use(otelgin.Middleware(opts.ServiceName))
	}
	r.Use(middleware.Metrics())
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	v1.Use(middleware.Session(newSession), middleware.Logger())

	authGroup := v1.Group("/auth")
	{
		limited := authGroup.Group("")
		if opts.AuthLimiter != nil {
			limited.Use(middleware.RateLimit(opts.AuthLimiter))
		}
		limited.POST("/signup", h.SignUp)
		limited.POST("/signin", h.SignIn)
		authGroup.POST("/signout", h.SignOut)
		authGroup.GET("/session", h.CurrentSession)
	}

	signedIn := v1.Group("")
	signedIn.Use(middleware.RequireAuth())
	{
		signedIn.GET("/feed", h.Feed)
		signedIn.POST("/posts", h.CreatePost)
		signedIn.POST("/posts/:id/like", h.ToggleLike)
		signedIn.GET("/posts/:id/comments", h.ListComments)
		signedIn.POST("/posts/:id/comments", h.CreateComment)

		signedIn.POST("/relations/follow", h.Follow)
		signedIn.POST("/relations/unfollow", h.Unfollow)
		signedIn.GET("/profiles/:id/following", h.ListFollowing)
		signedIn.GET("/profiles/:id/followers", h.ListFollowers)
		signedIn.GET("/profiles/:id/follow-stats", h.FollowStats)
	}

	admin := v1.Group("/admin")
	admin.Use(middleware.RequireAuth(), middleware.RequireOwner())
	{
		admin.GET("", h.AdminData)
		admin.POST("/ranks", h.CreateRank)
		admin.PUT("/users/:id/rank", h.SetUserRank)
		admin.POST("/users/:id/verified", h.ToggleVerified)
		admin.POST("/users/:id/premium", h.TogglePremium)
	}

	return r
}
