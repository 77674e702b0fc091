package booking

import (
	"context"
	"time"

	"github.com/iliyamo/wedding-reservation/internal/model"
)

// Special-date blocking lets a clan admin reserve a date exclusively for
// clan business.  A validated block pre-empts groom bookings on its date
// and also blocks validation of pending groom reservations.

// CreateSpecial declares an exclusive date block for the admin's clan.
// It is rejected when an active block already covers the date or when a
// groom reservation, cancelled excluded, already occupies it.  The groom
// check runs on the locked window so it cannot race with a concurrent
// booking for the same date.
func (s *Service) CreateSpecial(ctx context.Context, admin Actor, rawDate, reason string) (*model.ReservationSpecial, error) {
	date, err := ParseDate(rawDate)
	if err != nil {
		return nil, reject("date must be a valid YYYY-MM-DD date")
	}
	if date.Before(day(s.now())) {
		return nil, reject("date %s is in the past", date.Format(dateLayout))
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	existing, err := tx.ActiveSpecialOn(ctx, admin.ClanID, admin.CountyID, date)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, reject("date %s is already blocked for a clan event", date.Format(dateLayout))
	}

	rows, err := tx.LockWindow(ctx, admin.ClanID, admin.CountyID, []time.Time{date})
	if err != nil {
		return nil, err
	}
	if len(rows) > 0 {
		return nil, reject("date %s already has groom reservations", date.Format(dateLayout))
	}

	sp := &model.ReservationSpecial{
		ClanID:   admin.ClanID,
		CountyID: admin.CountyID,
		Date:     date,
		Reason:   reason,
		Status:   model.SpecialValidated,
	}
	if err := tx.InsertSpecial(ctx, sp); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return sp, nil
}

// ToggleSpecial flips a block between validated and cancelled.  Occupancy
// is re-checked at toggle time: re-validating is rejected when a groom
// reservation has claimed the date since the block was cancelled, or when
// another active block now covers it.
func (s *Service) ToggleSpecial(ctx context.Context, admin Actor, id uint64) (*model.ReservationSpecial, error) {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	sp, err := tx.GetSpecial(ctx, id)
	if err != nil {
		return nil, err
	}
	if sp == nil {
		return nil, notFound("special date %d not found", id)
	}
	if sp.ClanID != admin.ClanID || sp.CountyID != admin.CountyID {
		return nil, forbidden("special date belongs to another clan")
	}

	next := model.SpecialCancelled
	if sp.Status == model.SpecialCancelled {
		next = model.SpecialValidated
		rows, err := tx.LockWindow(ctx, sp.ClanID, sp.CountyID, []time.Time{sp.Date})
		if err != nil {
			return nil, err
		}
		if len(rows) > 0 {
			return nil, reject("date %s has been claimed by groom reservations", sp.Date.Format(dateLayout))
		}
		other, err := tx.ActiveSpecialOn(ctx, sp.ClanID, sp.CountyID, sp.Date)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != sp.ID {
			return nil, reject("date %s is already blocked for a clan event", sp.Date.Format(dateLayout))
		}
	}

	if err := tx.UpdateSpecialStatus(ctx, sp.ID, next); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	sp.Status = next
	return sp, nil
}
