package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/wedding-reservation/internal/booking"
	"github.com/iliyamo/wedding-reservation/internal/model"
	"github.com/iliyamo/wedding-reservation/internal/repository"
)

// AdminHandler serves the clan-admin reservation lifecycle endpoints.
// Scope is always the admin's own clan/county as carried in the token.
type AdminHandler struct {
	svc   *booking.Service
	store *repository.BookingStore
}

// NewAdminHandler wires the admin reservation endpoints.
func NewAdminHandler(svc *booking.Service, store *repository.BookingStore) *AdminHandler {
	return &AdminHandler{svc: svc, store: store}
}

// List handles GET /v1/admin/reservations with optional ?date= and
// ?status= filters.
func (h *AdminHandler) List(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token claims"})
	}

	var date *time.Time
	if raw := c.QueryParam("date"); raw != "" {
		d, err := booking.ParseDate(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be a valid YYYY-MM-DD date"})
		}
		date = &d
	}
	var status *model.ReservationStatus
	if raw := c.QueryParam("status"); raw != "" {
		st, err := model.ParseReservationStatus(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status filter"})
		}
		status = &st
	}

	list, err := h.store.ListByClan(c.Request().Context(), actor.ClanID, actor.CountyID, date, status)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": toReservationList(list)})
}

// Validate handles POST /v1/admin/reservations/:groom_id/validate.
func (h *AdminHandler) Validate(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token claims"})
	}
	groomID, ok := pathID(c, "groom_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid groom id"})
	}
	res, err := h.svc.Validate(c.Request().Context(), actor, groomID)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, toReservationJSON(res))
}

// Cancel handles POST /v1/admin/reservations/:groom_id/cancel.
func (h *AdminHandler) Cancel(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token claims"})
	}
	groomID, ok := pathID(c, "groom_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid groom id"})
	}
	res, err := h.svc.CancelByAdmin(c.Request().Context(), actor, groomID)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, toReservationJSON(res))
}

type paymentRequest struct {
	PaymentStatus string `json:"payment_status"`
}

// SetPayment handles POST /v1/admin/reservations/:groom_id/payment.
func (h *AdminHandler) SetPayment(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token claims"})
	}
	groomID, ok := pathID(c, "groom_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid groom id"})
	}
	var req paymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	status, err := model.ParsePaymentStatus(req.PaymentStatus)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment_status must be paid, not_paid or partially_paid"})
	}

	res, err := h.svc.SetPayment(c.Request().Context(), actor, groomID, status)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, toReservationJSON(res))
}
