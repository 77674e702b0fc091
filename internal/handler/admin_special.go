package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/wedding-reservation/internal/booking"
)

// SpecialHandler serves the clan-admin special date endpoints.  A special
// date is an exclusive block for clan business that pre-empts groom
// bookings on that date.
type SpecialHandler struct {
	svc *booking.Service
}

// NewSpecialHandler wires the special date endpoints.
func NewSpecialHandler(svc *booking.Service) *SpecialHandler {
	return &SpecialHandler{svc: svc}
}

type specialRequest struct {
	Date   string `json:"date"`
	Reason string `json:"reason"`
}

// Create handles POST /v1/admin/special-dates.
func (h *SpecialHandler) Create(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token claims"})
	}
	var req specialRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Reason = strings.TrimSpace(req.Reason)
	if req.Date == "" || req.Reason == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date and reason are required"})
	}

	sp, err := h.svc.CreateSpecial(c.Request().Context(), actor, req.Date, req.Reason)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusCreated, toSpecialJSON(sp))
}

// Toggle handles POST /v1/admin/special-dates/:id/toggle, flipping the
// block between validated and cancelled.
func (h *SpecialHandler) Toggle(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token claims"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid special date id"})
	}

	sp, err := h.svc.ToggleSpecial(c.Request().Context(), actor, id)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, toSpecialJSON(sp))
}
