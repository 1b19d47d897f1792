package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/Skotchmaster/artique/internal/models"
	authmw "github.com/Skotchmaster/artique/pkg/middleware/auth"
)

type Deps struct {
	AuthHandler  *AuthHTTP
	ItemsHandler *ItemsHTTP
	Auth         *authmw.Auth

	// Ready backs /health/ready; nil means always ready.
	Ready func(ctx context.Context) error

	// Per client IP on /api/auth. A zero rate disables throttling.
	AuthRateLimit float64
	AuthRateBurst int

	StaticDir string
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "not ready")
			}
		}
		return c.NoContent(http.StatusNoContent)
	})

	if d.StaticDir != "" {
		e.Static("/", d.StaticDir)
	} else {
		e.GET("/", func(c echo.Context) error {
			return c.String(http.StatusOK, "Welcome to the Artique API")
		})
	}

	api := e.Group("/api")

	var limit []echo.MiddlewareFunc
	if d.AuthRateLimit > 0 {
		limit = append(limit, authRateLimiter(d.AuthRateLimit, d.AuthRateBurst))
	}
	auth := api.Group("/auth", limit...)
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/logout", d.AuthHandler.Logout)
	auth.GET("/me", d.AuthHandler.Me, d.Auth.RequireAuth)

	items := api.Group("/items")
	items.GET("", d.ItemsHandler.List)
	items.GET("/search", d.ItemsHandler.Search)
	items.GET("/:id", d.ItemsHandler.Get)

	artist := items.Group("", d.Auth.RequireAuth, authmw.RequireRole(models.RoleArtist))
	artist.POST("", d.ItemsHandler.Create)
	artist.PUT("/:id", d.ItemsHandler.Update)
	artist.DELETE("/:id", d.ItemsHandler.Delete)
}

func authRateLimiter(perSecond float64, burst int) echo.MiddlewareFunc {
	store := echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(perSecond),
		Burst:     burst,
		ExpiresIn: 3 * time.Minute,
	})
	return echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Store: store,
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests")
		},
	})
}
