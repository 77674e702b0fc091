package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/wedding-reservation/internal/booking"
	"github.com/iliyamo/wedding-reservation/internal/repository"
)

// AvailabilityHandler serves the public calendar read model.  Answers are
// advisory: the authoritative check happens inside the booking
// transaction, so these endpoints sit behind the response cache.
type AvailabilityHandler struct {
	svc   *booking.Service
	halls *repository.HallRepo
}

// NewAvailabilityHandler wires the availability endpoints.
func NewAvailabilityHandler(svc *booking.Service, halls *repository.HallRepo) *AvailabilityHandler {
	return &AvailabilityHandler{svc: svc, halls: halls}
}

// Check handles GET /v1/availability?clan_id=&date=.
func (h *AvailabilityHandler) Check(c echo.Context) error {
	clanID, err := strconv.ParseUint(c.QueryParam("clan_id"), 10, 64)
	if err != nil || clanID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "clan_id is required"})
	}
	date := c.QueryParam("date")
	if date == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date is required"})
	}

	av, err := h.svc.CheckAvailability(c.Request().Context(), clanID, date)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, av)
}

// Halls handles GET /v1/clans/:clan_id/halls: the active venues a groom
// may pick when booking.
func (h *AvailabilityHandler) Halls(c echo.Context) error {
	clanID, ok := pathID(c, "clan_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid clan id"})
	}
	halls, err := h.halls.ListByClan(c.Request().Context(), clanID)
	if err != nil {
		return respondErr(c, err)
	}

	out := make([]echo.Map, 0, len(halls))
	for _, hall := range halls {
		m := echo.Map{
			"id":      hall.ID,
			"clan_id": hall.ClanID,
			"name":    hall.Name,
		}
		if hall.Capacity != nil {
			m["capacity"] = *hall.Capacity
		}
		out = append(out, m)
	}
	return c.JSON(http.StatusOK, echo.Map{"halls": out})
}
