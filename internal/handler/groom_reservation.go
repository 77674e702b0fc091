package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/wedding-reservation/internal/booking"
	"github.com/iliyamo/wedding-reservation/internal/repository"
)

// GroomHandler serves the groom-facing reservation endpoints.  All
// conflict resolution happens in the booking service; the handler only
// translates HTTP to engine calls.
type GroomHandler struct {
	svc   *booking.Service
	store *repository.BookingStore
}

// NewGroomHandler wires the groom endpoints.
func NewGroomHandler(svc *booking.Service, store *repository.BookingStore) *GroomHandler {
	return &GroomHandler{svc: svc, store: store}
}

// Create handles POST /v1/reservations.  The request body is the candidate
// booking; the engine runs the full rule chain and returns either the
// persisted pending reservation or the first failing check's reason.
func (h *GroomHandler) Create(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token claims"})
	}
	var req booking.CreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.ClanID == 0 || req.Date1 == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "clan_id and date1 are required"})
	}

	res, err := h.svc.CreateReservation(c.Request().Context(), actor, req)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusCreated, toReservationJSON(res))
}

// Mine handles GET /v1/reservations/me: the groom's reservation history in
// their county, newest first.
func (h *GroomHandler) Mine(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token claims"})
	}
	list, err := h.store.ListByGroom(c.Request().Context(), actor.ID, actor.CountyID)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": toReservationList(list)})
}

// Cancel handles POST /v1/reservations/cancel.  Only a pending reservation
// can be withdrawn by its groom; validated ones need the clan admin.
func (h *GroomHandler) Cancel(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token claims"})
	}
	res, err := h.svc.CancelByGroom(c.Request().Context(), actor)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, toReservationJSON(res))
}
