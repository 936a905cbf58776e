// Package inkwell is a blog platform with a JSON API and server-rendered
// pages. Content lives in SQLite; staff accounts carry roles, and non-admin
// editors need per-category grants to publish. Pages are described by a
// declarative route tree whose loaders fetch data before rendering.
package inkwell

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// App wires together the store, token service, asset resolver, and the HTTP
// surface.
type App struct {
	cfg    Config
	e      *echo.Echo
	store  *Store
	tokens *TokenService
	assets AssetResolver
	logins *loginLimiter
	routes []Route
}

// New builds the app: opens the store (running migrations), picks the asset
// resolver for the configured environment, and registers every route.
func New(cfg Config) (*App, error) {
	store, err := NewStore(cfg.DatabasePath())
	if err != nil {
		return nil, err
	}

	var assets AssetResolver
	if cfg.Development() {
		assets = NewDevAssets(cfg.DevServerURL, cfg.ClientEntry)
	} else {
		assets = NewLazyManifestAssets(cfg.DistDir, cfg.ClientEntry)
	}

	a := &App{
		cfg:    cfg,
		e:      echo.New(),
		store:  store,
		tokens: NewTokenService(cfg.JWTSecret, cfg.JWTExpiresIn.Duration),
		assets: assets,
		logins: newLoginLimiter(5, time.Minute),
	}
	a.e.HideBanner = true
	a.routes = a.pageRoutes()
	a.setupMiddleware()
	a.setupRoutes()
	return a, nil
}

func (a *App) setupRoutes() {
	e := a.e

	api := e.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/login", a.handleLogin)
	auth.POST("/logout", a.handleLogout)
	auth.GET("/me", a.handleMe, a.requireAuth)

	staff := a.requireRole(RoleAdmin, RoleEditor)
	admin := a.requireRole(RoleAdmin)

	posts := api.Group("/posts")
	posts.GET("", a.handleListPosts)
	posts.GET("/:id", a.handleGetPost)
	posts.POST("/:id/view", a.handleIncrementView)
	posts.POST("", a.handleCreatePost, a.requireAuth, staff, a.requireCategoryPermission(categoryFromBody))
	posts.PUT("/:id", a.handleUpdatePost, a.requireAuth, staff)
	posts.DELETE("/:id", a.handleDeletePost, a.requireAuth, staff)

	categories := api.Group("/categories")
	categories.GET("", a.handleListCategories)
	categories.GET("/:id", a.handleGetCategory)
	categories.GET("/:id/posts", a.handleCategoryPosts)
	categories.POST("", a.handleCreateCategory, a.requireAuth, admin)
	categories.PUT("/:id", a.handleUpdateCategory, a.requireAuth, admin)
	categories.DELETE("/:id", a.handleDeleteCategory, a.requireAuth, admin)

	tags := api.Group("/tags")
	tags.GET("", a.handleListTags)
	tags.GET("/:id/posts", a.handleTagPosts)
	tags.POST("", a.handleCreateTag, a.requireAuth, staff)
	tags.PUT("/:id", a.handleUpdateTag, a.requireAuth, staff)
	tags.DELETE("/:id", a.handleDeleteTag, a.requireAuth, admin)

	users := api.Group("/users", a.requireAuth, admin)
	users.GET("", a.handleListUsers)
	users.GET("/:id", a.handleGetUser)
	users.POST("", a.handleCreateUser)
	users.PUT("/:id", a.handleUpdateUser)
	users.DELETE("/:id", a.handleDeleteUser)

	perms := api.Group("/permissions", a.requireAuth, admin)
	perms.POST("", a.handleGrantPermission)
	perms.DELETE("/:userId/:categoryId", a.handleRevokePermission)
	perms.GET("/user/:userId", a.handleListUserPermissions)
	perms.GET("/category/:categoryId", a.handleListCategoryPermissions)

	api.GET("/dashboard/stats", a.handleDashboardStats, a.requireAuth, staff)
	api.GET("/dashboard/permissions", a.handleMyCategories, a.requireAuth, staff)

	api.POST("/upload/image", a.handleUpload, middleware.BodyLimit("6M"), a.requireAuth, staff)

	e.GET("/feed.xml", a.handleFeed)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/robots.txt", a.handleRobots)

	e.Static("/uploads", a.cfg.UploadDir)
	if !a.cfg.Development() {
		e.Static("/assets", a.cfg.DistDir+"/assets")
	}

	// Everything else is a page render.
	e.GET("/*", a.handleSSR)
	e.POST("/*", a.handleSSR)
}

// Start runs the HTTP server until it is shut down.
func (a *App) Start() error {
	if err := a.e.Start(a.cfg.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the HTTP server, waiting for in-flight requests.
func (a *App) Shutdown(ctx context.Context) error {
	return a.e.Shutdown(ctx)
}

// Close releases the store and its background workers.
func (a *App) Close() error {
	return a.store.Close()
}
