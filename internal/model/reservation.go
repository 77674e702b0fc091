package model

import "time"

// Reservation records one groom's claim on a clan's calendar for one or two
// consecutive dates.  The groom's personal and guardian details are copied
// onto the record at creation time so the paperwork stays stable even if
// the user record changes later.
//
// IsMassWedding collapses the legacy allow_others / join_to_mass_wedding
// pair: the old system always stored the OR of the two flags in both
// columns, so a single field carries the same information.  The API keeps
// accepting and emitting both names for compatibility.
type Reservation struct {
	ID       uint64 // reservations.id
	GroomID  uint64 // reservations.groom_id
	ClanID   uint64 // reservations.clan_id (target clan, may differ from the groom's home clan)
	CountyID uint64 // reservations.county_id (denormalized from the target clan)

	Date1  time.Time  // reservations.date1 (UTC midnight)
	Date2  *time.Time // reservations.date2, always Date1+1d when set
	TwoDay bool       // reservations.two_day

	IsMassWedding bool              // reservations.is_mass_wedding
	Status        ReservationStatus // reservations.status
	PaymentStatus PaymentStatus     // reservations.payment_status

	HallID            *uint64 // reservations.hall_id (nullable)
	HaiaCommitteeID   *uint64 // reservations.haia_committee_id (nullable)
	MadaehCommitteeID *uint64 // reservations.madaeh_committee_id (nullable)

	// Snapshot of the groom's record at creation time.
	GroomName         string     // reservations.groom_name
	GroomPhone        string     // reservations.groom_phone
	GroomBirthDate    *time.Time // reservations.groom_birth_date
	GroomBirthPlace   string     // reservations.groom_birth_place
	GroomAddress      string     // reservations.groom_address
	GuardianName      string     // reservations.guardian_name
	GuardianPhone     string     // reservations.guardian_phone
	GuardianAddress   string     // reservations.guardian_address
	GuardianBirthDate *time.Time // reservations.guardian_birth_date

	CreatedAt time.Time // reservations.created_at
	UpdatedAt time.Time // reservations.updated_at
}

// Dates returns the occupied dates, one or two entries.
func (r *Reservation) Dates() []time.Time {
	if r.Date2 != nil {
		return []time.Time{r.Date1, *r.Date2}
	}
	return []time.Time{r.Date1}
}

// Occupies reports whether the reservation claims the given calendar date.
func (r *Reservation) Occupies(day time.Time) bool {
	if r.Date1.Equal(day) {
		return true
	}
	return r.Date2 != nil && r.Date2.Equal(day)
}

// ReservationSpecial is a clan-admin-declared exclusive date block, e.g. a
// clan event that pre-empts groom bookings.  While validated it blocks both
// new groom reservations and validation of pending ones on its date.
type ReservationSpecial struct {
	ID        uint64        // reservation_specials.id
	ClanID    uint64        // reservation_specials.clan_id
	CountyID  uint64        // reservation_specials.county_id
	Date      time.Time     // reservation_specials.date (UTC midnight)
	Reason    string        // reservation_specials.reason
	Status    SpecialStatus // reservation_specials.status
	CreatedAt time.Time     // reservation_specials.created_at
	UpdatedAt time.Time     // reservation_specials.updated_at
}
