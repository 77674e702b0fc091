// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/wedding-reservation/internal/config"
	"github.com/iliyamo/wedding-reservation/internal/handler"
	"github.com/iliyamo/wedding-reservation/internal/middleware"
)

// Handlers bundles everything the route table needs.
type Handlers struct {
	Auth         *handler.AuthHandler
	Groom        *handler.GroomHandler
	Admin        *handler.AdminHandler
	Special      *handler.SpecialHandler
	Settings     *handler.SettingsHandler
	Availability *handler.AvailabilityHandler
	Health       *handler.HealthHandler
}

// RegisterRoutes registers the full route table.  The rate limiter wraps
// every /v1 route; the response cache wraps only the public availability
// reads, which tolerate slightly stale answers.
func RegisterRoutes(e *echo.Echo, h Handlers, jwtSecret string, rdb *redis.Client) {
	e.GET("/healthz", h.Health.Check)

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	v1 := e.Group("/v1", limiter)

	// Public surface: login and the advisory calendar reads.
	v1.POST("/auth/login", h.Auth.Login)
	v1.GET("/availability", h.Availability.Check, cache)
	v1.GET("/clans/:clan_id/halls", h.Availability.Halls, cache)

	// Any authenticated actor.
	auth := v1.Group("", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", h.Auth.Me)
	auth.POST("/auth/change-password", h.Auth.ChangePassword)

	// Groom surface.
	groom := auth.Group("/reservations", middleware.RequireRole("GROOM"))
	groom.POST("", h.Groom.Create)
	groom.GET("/me", h.Groom.Mine)
	groom.POST("/cancel", h.Groom.Cancel)

	// Clan admin surface.
	admin := auth.Group("/admin", middleware.RequireRole("CLAN_ADMIN"))
	admin.GET("/reservations", h.Admin.List)
	admin.POST("/reservations/:groom_id/validate", h.Admin.Validate)
	admin.POST("/reservations/:groom_id/cancel", h.Admin.Cancel)
	admin.POST("/reservations/:groom_id/payment", h.Admin.SetPayment)
	admin.POST("/special-dates", h.Special.Create)
	admin.POST("/special-dates/:id/toggle", h.Special.Toggle)
	admin.GET("/settings", h.Settings.Get)
	admin.PUT("/settings", h.Settings.Update)
}
