package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// HealthHandler reports liveness and dependency health.  Redis is optional
// infrastructure (rate limiting and caching degrade without it), so a
// missing Redis never fails the check; a broken database does.
type HealthHandler struct {
	db  *sql.DB
	rdb *redis.Client
}

// NewHealthHandler wires the health endpoint.
func NewHealthHandler(db *sql.DB, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, rdb: rdb}
}

// Check handles GET /healthz.
func (h *HealthHandler) Check(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	resp := echo.Map{"status": "ok"}
	status := http.StatusOK

	if err := h.db.PingContext(ctx); err != nil {
		resp["status"] = "degraded"
		resp["database"] = "down"
		status = http.StatusServiceUnavailable
	} else {
		resp["database"] = "up"
	}

	if h.rdb == nil {
		resp["redis"] = "disabled"
	} else if err := h.rdb.Ping(ctx).Err(); err != nil {
		resp["redis"] = "down"
	} else {
		resp["redis"] = "up"
	}

	return c.JSON(status, resp)
}
