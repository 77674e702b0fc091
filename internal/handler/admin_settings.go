package handler

import (
	"database/sql"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/wedding-reservation/internal/model"
	"github.com/iliyamo/wedding-reservation/internal/repository"
)

// SettingsHandler lets a clan admin read and update their own clan's
// booking policy.  The clan is always the admin's own; there is no path
// parameter to reach another clan's settings.
type SettingsHandler struct {
	clans *repository.ClanRepo
}

// NewSettingsHandler wires the settings endpoints.
func NewSettingsHandler(clans *repository.ClanRepo) *SettingsHandler {
	return &SettingsHandler{clans: clans}
}

type settingsJSON struct {
	ClanID                 uint64 `json:"clan_id"`
	MaxGroomsPerDate       int    `json:"max_grooms_per_date"`
	AllowTwoDay            bool   `json:"allow_two_day"`
	AllowedMonthsTwoDay    string `json:"allowed_months_two_day"`
	AllowCrossClan         bool   `json:"allow_cross_clan"`
	MaxCrossClanPerDate    *int   `json:"max_cross_clan_per_date"`
	ValidationDeadlineDays int    `json:"validation_deadline_days"`
}

// Get handles GET /v1/admin/settings.
func (h *SettingsHandler) Get(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token claims"})
	}
	s, err := h.clans.SettingsByClan(c.Request().Context(), actor.ClanID)
	if err != nil {
		return respondErr(c, err)
	}
	if s == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "clan has no settings"})
	}
	return c.JSON(http.StatusOK, settingsJSON{
		ClanID:                 s.ClanID,
		MaxGroomsPerDate:       s.MaxGroomsPerDate,
		AllowTwoDay:            s.AllowTwoDay,
		AllowedMonthsTwoDay:    s.AllowedMonthsTwoDay,
		AllowCrossClan:         s.AllowCrossClan,
		MaxCrossClanPerDate:    s.MaxCrossClanPerDate,
		ValidationDeadlineDays: s.ValidationDeadlineDays,
	})
}

// Update handles PUT /v1/admin/settings.  The whole policy is replaced;
// partial updates are not supported.
func (h *SettingsHandler) Update(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token claims"})
	}
	var req settingsJSON
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.MaxGroomsPerDate < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "max_grooms_per_date must be at least 1"})
	}
	if req.MaxCrossClanPerDate != nil && *req.MaxCrossClanPerDate < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "max_cross_clan_per_date must not be negative"})
	}
	if req.ValidationDeadlineDays < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation_deadline_days must be at least 1"})
	}

	s := &model.ClanSettings{
		ClanID:                 actor.ClanID,
		MaxGroomsPerDate:       req.MaxGroomsPerDate,
		AllowTwoDay:            req.AllowTwoDay,
		AllowedMonthsTwoDay:    req.AllowedMonthsTwoDay,
		AllowCrossClan:         req.AllowCrossClan,
		MaxCrossClanPerDate:    req.MaxCrossClanPerDate,
		ValidationDeadlineDays: req.ValidationDeadlineDays,
	}
	if err := h.clans.UpdateSettings(c.Request().Context(), s); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "clan has no settings"})
		}
		return respondErr(c, err)
	}
	req.ClanID = actor.ClanID
	return c.JSON(http.StatusOK, req)
}
