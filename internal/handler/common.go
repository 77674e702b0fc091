package handler

import (
	"database/sql"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/wedding-reservation/internal/booking"
	"github.com/iliyamo/wedding-reservation/internal/model"
	"github.com/iliyamo/wedding-reservation/internal/repository"
)

const dateLayout = "2006-01-02"

// getActor reconstructs the booking actor from the claims the auth
// middleware stored in the context.  JWT numeric claims arrive as float64
// after JSON decoding, so every numeric field goes through asUint64.
func getActor(c echo.Context) (booking.Actor, bool) {
	id, ok := asUint64(c.Get("user_id"))
	if !ok {
		return booking.Actor{}, false
	}
	roleRaw, _ := c.Get("role").(string)
	role, err := model.ParseRole(roleRaw)
	if err != nil {
		return booking.Actor{}, false
	}
	clanID, _ := asUint64(c.Get("clan_id"))
	countyID, _ := asUint64(c.Get("county_id"))
	return booking.Actor{ID: id, Role: role, ClanID: clanID, CountyID: countyID}, true
}

func asUint64(v interface{}) (uint64, bool) {
	switch t := v.(type) {
	case float64:
		if t < 0 {
			return 0, false
		}
		return uint64(t), true
	case uint64:
		return t, true
	case int64:
		if t < 0 {
			return 0, false
		}
		return uint64(t), true
	case string:
		n, err := strconv.ParseUint(t, 10, 64)
		return n, err == nil
	}
	return 0, false
}

// respondErr maps engine and repository errors onto HTTP responses.
// booking.Error carries its own status; the repository sentinels and
// sql.ErrNoRows get their conventional codes; everything else is a 500
// with the detail kept server-side.
func respondErr(c echo.Context, err error) error {
	var be *booking.Error
	if errors.As(err, &be) {
		return c.JSON(be.Status, echo.Map{"error": be.Message})
	}
	switch {
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "conflict"})
	case errors.Is(err, sql.ErrNoRows):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	}
	log.Printf("handler: internal error: %v", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
}

// reservationJSON is the wire shape of a reservation.  The legacy
// allow_others / join_to_mass_wedding pair is emitted from the single
// stored flag so existing clients keep working.
type reservationJSON struct {
	ID                uint64  `json:"id"`
	GroomID           uint64  `json:"groom_id"`
	ClanID            uint64  `json:"clan_id"`
	CountyID          uint64  `json:"county_id"`
	Date1             string  `json:"date1"`
	Date2             *string `json:"date2"`
	TwoDay            bool    `json:"date2_bool"`
	AllowOthers       bool    `json:"allow_others"`
	JoinMassWedding   bool    `json:"join_to_mass_wedding"`
	Status            string  `json:"status"`
	PaymentStatus     string  `json:"payment_status"`
	HallID            *uint64 `json:"hall_id"`
	HaiaCommitteeID   *uint64 `json:"haia_committee_id"`
	MadaehCommitteeID *uint64 `json:"madaeh_committee_id"`
	GroomName         string  `json:"groom_name"`
	GroomPhone        string  `json:"groom_phone"`
	GuardianName      string  `json:"guardian_name"`
	GuardianPhone     string  `json:"guardian_phone"`
	CreatedAt         string  `json:"created_at"`
	UpdatedAt         string  `json:"updated_at"`
}

func toReservationJSON(r *model.Reservation) reservationJSON {
	out := reservationJSON{
		ID:                r.ID,
		GroomID:           r.GroomID,
		ClanID:            r.ClanID,
		CountyID:          r.CountyID,
		Date1:             r.Date1.Format(dateLayout),
		TwoDay:            r.TwoDay,
		AllowOthers:       r.IsMassWedding,
		JoinMassWedding:   r.IsMassWedding,
		Status:            string(r.Status),
		PaymentStatus:     string(r.PaymentStatus),
		HallID:            r.HallID,
		HaiaCommitteeID:   r.HaiaCommitteeID,
		MadaehCommitteeID: r.MadaehCommitteeID,
		GroomName:         r.GroomName,
		GroomPhone:        r.GroomPhone,
		GuardianName:      r.GuardianName,
		GuardianPhone:     r.GuardianPhone,
		CreatedAt:         r.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:         r.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if r.Date2 != nil {
		d2 := r.Date2.Format(dateLayout)
		out.Date2 = &d2
	}
	return out
}

func toReservationList(rs []model.Reservation) []reservationJSON {
	out := make([]reservationJSON, 0, len(rs))
	for i := range rs {
		out = append(out, toReservationJSON(&rs[i]))
	}
	return out
}

// specialJSON is the wire shape of a special date block.
type specialJSON struct {
	ID       uint64 `json:"id"`
	ClanID   uint64 `json:"clan_id"`
	CountyID uint64 `json:"county_id"`
	Date     string `json:"date"`
	Reason   string `json:"reason"`
	Status   string `json:"status"`
}

func toSpecialJSON(sp *model.ReservationSpecial) specialJSON {
	return specialJSON{
		ID:       sp.ID,
		ClanID:   sp.ClanID,
		CountyID: sp.CountyID,
		Date:     sp.Date.Format(dateLayout),
		Reason:   sp.Reason,
		Status:   string(sp.Status),
	}
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	return n, err == nil && n > 0
}
