package booking

import (
	"context"
	"fmt"

	"github.com/iliyamo/wedding-reservation/internal/model"
)

// State machine: pending_validation -> validated (clan admin) or
// pending_validation -> cancelled (groom or clan admin); validated ->
// cancelled (clan admin only).  cancelled is terminal and never reversed;
// a groom whose reservation was cancelled may book again.

// forbidden builds a 403 permission/state error, distinct from the 400
// conflict errors so clients can tell "wrong actor" from "wrong date".
func forbidden(format string, args ...interface{}) *Error {
	return &Error{Status: 403, Message: fmt.Sprintf(format, args...)}
}

// Validate transitions a groom's pending reservation to validated.  Only
// the admin of the target clan may validate, and only when the groom holds
// no other validated reservation in the clan/county and no validated
// special block has since claimed the reservation's dates.
func (s *Service) Validate(ctx context.Context, admin Actor, groomID uint64) (*model.Reservation, error) {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ActiveByGroom(ctx, groomID, admin.CountyID)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, notFound("groom %d has no active reservation", groomID)
	}
	if res.ClanID != admin.ClanID {
		return nil, forbidden("reservation belongs to another clan")
	}
	if res.Status == model.StatusValidated {
		return nil, reject("reservation is already validated")
	}

	other, err := tx.HasOtherValidated(ctx, groomID, res.ClanID, res.CountyID, res.ID)
	if err != nil {
		return nil, err
	}
	if other {
		return nil, reject("groom %d already has a validated reservation in this clan", groomID)
	}
	blocked, err := tx.ValidatedSpecialOnAny(ctx, res.ClanID, res.CountyID, res.Dates())
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, reject("date %s is blocked for a clan event", res.Date1.Format(dateLayout))
	}

	if err := tx.UpdateReservationStatus(ctx, res.ID, model.StatusValidated); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	res.Status = model.StatusValidated

	s.notifyGroom(ctx, res, "Reservation validated",
		fmt.Sprintf("your reservation for %s has been validated", describeDates(res)))
	return res, nil
}

// CancelByGroom lets a groom withdraw their own reservation while it is
// still pending.  A validated reservation can only be cancelled by the
// clan admin; cancelling an already-cancelled reservation is rejected
// rather than treated as a no-op.
func (s *Service) CancelByGroom(ctx context.Context, actor Actor) (*model.Reservation, error) {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ActiveByGroom(ctx, actor.ID, actor.CountyID)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, notFound("you have no active reservation to cancel")
	}
	if res.Status == model.StatusValidated {
		return nil, forbidden("a validated reservation can only be cancelled by the clan admin")
	}

	if err := tx.UpdateReservationStatus(ctx, res.ID, model.StatusCancelled); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	res.Status = model.StatusCancelled

	s.notifyAdmin(ctx, res, "Reservation cancelled",
		fmt.Sprintf("the reservation for %s was cancelled by the groom", describeDates(res)))
	return res, nil
}

// CancelByAdmin cancels any non-cancelled reservation within the admin's
// own clan/county scope.
func (s *Service) CancelByAdmin(ctx context.Context, admin Actor, groomID uint64) (*model.Reservation, error) {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ActiveByGroom(ctx, groomID, admin.CountyID)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, notFound("groom %d has no active reservation", groomID)
	}
	if res.ClanID != admin.ClanID {
		return nil, forbidden("reservation belongs to another clan")
	}

	if err := tx.UpdateReservationStatus(ctx, res.ID, model.StatusCancelled); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	res.Status = model.StatusCancelled

	s.notifyGroom(ctx, res, "Reservation cancelled",
		fmt.Sprintf("your reservation for %s was cancelled by the clan admin", describeDates(res)))
	return res, nil
}

// SetPayment updates the payment status of a groom's active reservation.
// Payment state is independent of the reservation lifecycle.
func (s *Service) SetPayment(ctx context.Context, admin Actor, groomID uint64, status model.PaymentStatus) (*model.Reservation, error) {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ActiveByGroom(ctx, groomID, admin.CountyID)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, notFound("groom %d has no active reservation", groomID)
	}
	if res.ClanID != admin.ClanID {
		return nil, forbidden("reservation belongs to another clan")
	}

	if err := tx.UpdatePaymentStatus(ctx, res.ID, status); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	res.PaymentStatus = status
	return res, nil
}
