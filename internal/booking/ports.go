package booking

import (
	"context"
	"time"

	"github.com/iliyamo/wedding-reservation/internal/model"
)

// Actor is the resolved identity attached to every request by the auth
// middleware.  The engine trusts it without re-verifying credentials.
type Actor struct {
	ID       uint64
	Role     model.Role
	ClanID   uint64 // home clan
	CountyID uint64 // home county
}

// WindowRow is one existing reservation inside the locked date window,
// annotated with the groom's home clan so the cross-clan rules can tell
// same-clan rows from out-of-clan ones without another query.
type WindowRow struct {
	model.Reservation
	GroomClanID uint64
}

// Store is the transactional port over the reservation and special-date
// tables.  Begin opens the request-scoped transaction; everything from the
// window lock through the final write happens on the returned Tx so that
// checks and the corresponding write are atomic with respect to other
// committers.
type Store interface {
	Begin(ctx context.Context) (Tx, error)

	// Window is the unlocked variant of Tx.LockWindow, used by the
	// availability read model.
	Window(ctx context.Context, clanID, countyID uint64, dates []time.Time) ([]WindowRow, error)

	// ValidatedSpecialOn reports whether a validated special block covers
	// the date, outside a transaction.
	ValidatedSpecialOn(ctx context.Context, clanID, countyID uint64, date time.Time) (bool, error)
}

// Tx is a single booking transaction.  Callers must Commit or Rollback.
type Tx interface {
	Commit() error
	Rollback() error

	// LockWindow selects every non-cancelled reservation touching any of
	// the given dates for the clan/county, with FOR UPDATE.  This is the
	// system's only explicit concurrency control: two requests racing for
	// the same slot serialize here.
	LockWindow(ctx context.Context, clanID, countyID uint64, dates []time.Time) ([]WindowRow, error)

	// ActiveByGroom returns the groom's non-cancelled reservation in the
	// county, or nil when none exists.
	ActiveByGroom(ctx context.Context, groomID, countyID uint64) (*model.Reservation, error)

	InsertReservation(ctx context.Context, r *model.Reservation) error
	UpdateReservationStatus(ctx context.Context, id uint64, status model.ReservationStatus) error
	UpdatePaymentStatus(ctx context.Context, id uint64, status model.PaymentStatus) error

	// HasOtherValidated reports whether the groom holds a validated
	// reservation in the clan/county other than the given one.
	HasOtherValidated(ctx context.Context, groomID, clanID, countyID, exceptID uint64) (bool, error)

	// ValidatedSpecialOnAny reports whether a validated special block
	// covers any of the dates.
	ValidatedSpecialOnAny(ctx context.Context, clanID, countyID uint64, dates []time.Time) (bool, error)

	// ActiveSpecialOn returns the validated special block on the date, or
	// nil when the date is free of blocks.
	ActiveSpecialOn(ctx context.Context, clanID, countyID uint64, date time.Time) (*model.ReservationSpecial, error)

	GetSpecial(ctx context.Context, id uint64) (*model.ReservationSpecial, error)
	InsertSpecial(ctx context.Context, s *model.ReservationSpecial) error
	UpdateSpecialStatus(ctx context.Context, id uint64, status model.SpecialStatus) error
}

// Clans resolves clans and their booking policy.
type Clans interface {
	ClanByID(ctx context.Context, id uint64) (*model.Clan, error)
	SettingsByClan(ctx context.Context, clanID uint64) (*model.ClanSettings, error)
}

// Users resolves user records and the admin responsible for a clan.
type Users interface {
	UserByID(ctx context.Context, id uint64) (*model.User, error)
	AdminByClan(ctx context.Context, clanID uint64) (*model.User, error)
}

// Halls answers whether a clan has venues to book.
type Halls interface {
	CountByClan(ctx context.Context, clanID uint64) (int, error)
}

// Event is the payload sent to the notification collaborator when a
// reservation changes state.
type Event struct {
	ReservationID uint64         `json:"reservation_id"`
	RecipientID   uint64         `json:"recipient_id"`
	Audience      model.Audience `json:"audience"`
	Title         string         `json:"title"`
	Message       string         `json:"message"`
	ClanID        uint64         `json:"clan_id"`
	CountyID      uint64         `json:"county_id"`
	Date1         string         `json:"date1"`
	Date2         string         `json:"date2,omitempty"`
	OccurredAt    string         `json:"occurred_at"`
}

// Notifier dispatches events.  Calls are best-effort: a failure is logged
// by the implementation and never rolls back the reservation transaction.
type Notifier interface {
	Notify(ctx context.Context, ev Event) error
}
