package model

import "time"

// User represents a row in the `users` table.  Grooms carry personal and
// guardian details that are snapshotted onto reservations at booking time;
// the guardian fields must be complete before a reservation is accepted
// because they feed the legal paperwork generated downstream.
//
// ClanID and CountyID are the user's home clan and county.  A groom may
// book a venue in a different clan (same county) when that clan permits
// cross-clan reservations.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         Role      // users.role
	ClanID       uint64    // users.clan_id (home clan)
	CountyID     uint64    // users.county_id (home county)
	Name         string    // users.name
	Phone        string    // users.phone
	BirthDate    *time.Time // users.birth_date (nullable)
	BirthPlace   string    // users.birth_place
	Address      string    // users.address
	GuardianName      string     // users.guardian_name
	GuardianPhone     string     // users.guardian_phone
	GuardianAddress   string     // users.guardian_address
	GuardianBirthDate *time.Time // users.guardian_birth_date (nullable)
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// GuardianComplete reports whether all guardian fields required for the
// downstream paperwork are present.
func (u *User) GuardianComplete() bool {
	return u.GuardianName != "" &&
		u.GuardianPhone != "" &&
		u.GuardianAddress != "" &&
		u.GuardianBirthDate != nil
}
