package model

import (
	"strconv"
	"strings"
	"time"
)

// County is the top level of the organization hierarchy.  Clans belong to
// exactly one county and reservations are scoped by county.
type County struct {
	ID        uint64    // counties.id
	Name      string    // counties.name
	CreatedAt time.Time // counties.created_at
	UpdatedAt time.Time // counties.updated_at
}

// Clan owns a wedding calendar.  Every clan lives in one county and has an
// optional set of halls and committees that grooms may select from.
type Clan struct {
	ID        uint64    // clans.id
	CountyID  uint64    // clans.county_id
	Name      string    // clans.name
	CreatedAt time.Time // clans.created_at
	UpdatedAt time.Time // clans.updated_at
}

// ClanSettings holds the per-clan booking policy.  One row per clan,
// created alongside the clan; a clan without a settings row cannot receive
// bookings.  Mutated only by that clan's admin.
type ClanSettings struct {
	ClanID              uint64 // clan_settings.clan_id
	MaxGroomsPerDate    int    // capacity of a mass wedding on one date
	AllowTwoDay         bool   // whether two-day reservations are permitted at all
	AllowedMonthsTwoDay string // comma-separated month numbers, e.g. "6,7,8"
	AllowCrossClan      bool   // whether out-of-clan grooms may book here
	MaxCrossClanPerDate *int   // per-date cap for out-of-clan grooms; nil -> MaxGroomsPerDate/2
	ValidationDeadlineDays int // days an admin has to validate a pending reservation
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// TwoDayMonths parses the AllowedMonthsTwoDay list into a month set.
// Malformed entries are skipped rather than failing the whole policy.
func (s *ClanSettings) TwoDayMonths() map[time.Month]bool {
	months := make(map[time.Month]bool)
	for _, part := range strings.Split(s.AllowedMonthsTwoDay, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if n, err := strconv.Atoi(part); err == nil && n >= 1 && n <= 12 {
			months[time.Month(n)] = true
		}
	}
	return months
}

// CrossClanCap returns the per-date allowance for out-of-clan grooms.
// When unset it defaults to half the mass-wedding capacity.
func (s *ClanSettings) CrossClanCap() int {
	if s.MaxCrossClanPerDate != nil {
		return *s.MaxCrossClanPerDate
	}
	return s.MaxGroomsPerDate / 2
}

// Hall is a venue within a clan.  A clan needs at least one hall before it
// can accept reservations.
type Hall struct {
	ID        uint64    // halls.id
	ClanID    uint64    // halls.clan_id
	CountyID  uint64    // halls.county_id
	Name      string    // halls.name
	Capacity  *uint32   // halls.capacity (nullable)
	IsActive  bool      // halls.is_active
	CreatedAt time.Time // halls.created_at
	UpdatedAt time.Time // halls.updated_at
}

// CommitteeKind distinguishes the two committee types a groom may select.
type CommitteeKind string

const (
	CommitteeHaia   CommitteeKind = "HAIA"
	CommitteeMadaeh CommitteeKind = "MADAEH"
)

// Committee is a service committee attached to a county.
type Committee struct {
	ID        uint64        // committees.id
	CountyID  uint64        // committees.county_id
	Kind      CommitteeKind // committees.kind
	Name      string        // committees.name
	CreatedAt time.Time     // committees.created_at
	UpdatedAt time.Time     // committees.updated_at
}
