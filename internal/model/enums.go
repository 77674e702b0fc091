package model

import "fmt"

// The statuses below are persisted as strings but handled as closed types in
// code.  Raw values coming back from storage must pass through the Parse
// helpers so that an unknown string is caught at the scan boundary instead
// of leaking into business logic.

// Role identifies what an authenticated user is allowed to do.
type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN" // manages counties and clans
	RoleClanAdmin  Role = "CLAN_ADMIN"  // manages one clan's calendar
	RoleGroom      Role = "GROOM"       // books reservations
)

// ParseRole validates a raw role string from storage or a token claim.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleSuperAdmin, RoleClanAdmin, RoleGroom:
		return Role(raw), nil
	}
	return "", fmt.Errorf("unknown role %q", raw)
}

// ReservationStatus is the lifecycle state of a groom reservation.
// pending_validation is the initial state; cancelled is terminal.
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending_validation"
	StatusValidated ReservationStatus = "validated"
	StatusCancelled ReservationStatus = "cancelled"
)

// ParseReservationStatus validates a raw status string.
func ParseReservationStatus(raw string) (ReservationStatus, error) {
	switch ReservationStatus(raw) {
	case StatusPending, StatusValidated, StatusCancelled:
		return ReservationStatus(raw), nil
	}
	return "", fmt.Errorf("unknown reservation status %q", raw)
}

// Active reports whether the reservation still occupies its dates.
func (s ReservationStatus) Active() bool { return s == StatusPending || s == StatusValidated }

// PaymentStatus tracks payment independently of the reservation lifecycle.
type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "paid"
	PaymentNotPaid PaymentStatus = "not_paid"
	PaymentPartial PaymentStatus = "partially_paid"
)

// ParsePaymentStatus validates a raw payment status string.
func ParsePaymentStatus(raw string) (PaymentStatus, error) {
	switch PaymentStatus(raw) {
	case PaymentPaid, PaymentNotPaid, PaymentPartial:
		return PaymentStatus(raw), nil
	}
	return "", fmt.Errorf("unknown payment status %q", raw)
}

// SpecialStatus is the state of a clan-declared exclusive date block.
type SpecialStatus string

const (
	SpecialValidated SpecialStatus = "validated"
	SpecialCancelled SpecialStatus = "cancelled"
)

// ParseSpecialStatus validates a raw special-date status string.
func ParseSpecialStatus(raw string) (SpecialStatus, error) {
	switch SpecialStatus(raw) {
	case SpecialValidated, SpecialCancelled:
		return SpecialStatus(raw), nil
	}
	return "", fmt.Errorf("unknown special status %q", raw)
}

// Audience says which side of the groom/admin pair a notification targets.
type Audience string

const (
	AudienceGroom Audience = "groom"
	AudienceAdmin Audience = "admin"
)

// ParseAudience validates a raw audience string from a queued message.
func ParseAudience(raw string) (Audience, error) {
	switch Audience(raw) {
	case AudienceGroom, AudienceAdmin:
		return Audience(raw), nil
	}
	return "", fmt.Errorf("unknown audience %q", raw)
}
