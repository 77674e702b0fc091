package booking

import (
	"time"

	"github.com/iliyamo/wedding-reservation/internal/model"
)

// This file holds the pure checks of the conflict-resolution chain.  Each
// function inspects the locked window (plus the clan policy) and returns
// the specific *Error that blocked the request, or nil.  The chain order
// is fixed: the first failing check wins.

// requestedDates validates the temporal part of a candidate request and
// returns the occupied dates.  date1 must not be in the past (today is
// allowed); a two-day request occupies date1 and date1+1d and both months
// involved must appear in the clan's two-day month list.
func requestedDates(today, date1 time.Time, twoDay bool, settings *model.ClanSettings) ([]time.Time, *Error) {
	if date1.Before(today) {
		return nil, reject("date %s is in the past", date1.Format(dateLayout))
	}
	if !twoDay {
		return []time.Time{date1}, nil
	}
	if !settings.AllowTwoDay {
		return nil, reject("this clan does not allow two-day reservations")
	}
	date2 := date1.AddDate(0, 0, 1)
	allowed := settings.TwoDayMonths()
	if !allowed[date1.Month()] {
		return nil, reject("two-day reservations are not allowed in month %d", int(date1.Month()))
	}
	if date2.Month() != date1.Month() && !allowed[date2.Month()] {
		return nil, reject("two-day reservations are not allowed in month %d", int(date2.Month()))
	}
	return []time.Time{date1, date2}, nil
}

// checkSolo rejects when an exclusive reservation already occupies any
// requested date.  A validated solo booking blocks the date permanently; a
// pending one blocks it until the clan's validation deadline passes.
func checkSolo(w *window, dates []time.Time, settings *model.ClanSettings) *Error {
	for _, d := range dates {
		for _, r := range w.soloOn(d) {
			if r.Status == model.StatusValidated {
				return reject("date %s is already reserved", d.Format(dateLayout))
			}
			return reject("date %s is reserved pending validation; it may free up within %d days",
				d.Format(dateLayout), settings.ValidationDeadlineDays)
		}
	}
	return nil
}

// checkMassWedding applies the group-booking rules.
//
// Two-day requests distinguish four cases on (day1, day2):
//   - group on day1 only: allowed, the group extends to a second day;
//   - group on day2 only: rejected, joining as "second day only" is not
//     permitted;
//   - distinct groups on both days: rejected, a booking cannot straddle
//     two mass weddings;
//   - the same group on both days: allowed only when the candidate asked
//     to join it.
//
// Single-day requests against an occupied date are rejected as fully
// booked at capacity, or invited to join below capacity.
func checkMassWedding(w *window, dates []time.Time, wantsMass bool, settings *model.ClanSettings) *Error {
	if len(dates) == 2 {
		day1, day2 := dates[0], dates[1]
		g1 := w.massGroomsOn(day1)
		g2 := w.massGroomsOn(day2)
		switch {
		case len(g1) > 0 && len(g2) == 0:
			return nil
		case len(g1) == 0 && len(g2) > 0:
			return reject("cannot join the mass wedding on %s as a second day; book %s as your first day or book a single day",
				day2.Format(dateLayout), day2.Format(dateLayout))
		case len(g1) > 0 && len(g2) > 0:
			if !sameGroup(g1, g2) {
				return reject("dates %s and %s belong to different mass weddings",
					day1.Format(dateLayout), day2.Format(dateLayout))
			}
			if !wantsMass {
				return reject("dates %s and %s are reserved for a mass wedding; set the mass wedding option to join",
					day1.Format(dateLayout), day2.Format(dateLayout))
			}
		}
		return nil
	}

	d := dates[0]
	grooms := w.massGroomsOn(d)
	if len(grooms) == 0 {
		return nil
	}
	if len(grooms) >= settings.MaxGroomsPerDate {
		return reject("date %s is fully booked", d.Format(dateLayout))
	}
	if !wantsMass {
		return reject("date %s is reserved for a mass wedding; set the mass wedding option to join",
			d.Format(dateLayout))
	}
	return nil
}

// sameGroup reports whether the two participant sets share a groom.  A
// two-day mass reservation links its days, so intersecting sets mean one
// group; disjoint sets mean two distinct weddings.
func sameGroup(a, b map[uint64]bool) bool {
	for id := range a {
		if b[id] {
			return true
		}
	}
	return false
}

// checkCrossClan applies the restrictions on booking outside the groom's
// home clan: same county only, the target clan must opt in, same-clan
// pending requests take priority, and the per-date out-of-clan allowance
// must not be exhausted.  Only pending same-clan rows grant priority;
// validated ones already consume capacity through checkCapacity.
func checkCrossClan(w *window, actor Actor, clan *model.Clan, settings *model.ClanSettings, dates []time.Time) *Error {
	if actor.ClanID == clan.ID {
		return nil
	}
	if clan.CountyID != actor.CountyID {
		return reject("reservations are limited to clans in your own county")
	}
	if !settings.AllowCrossClan {
		return reject("this clan does not accept reservations from other clans")
	}
	for _, d := range dates {
		if w.sameClanPendingOn(d, clan.ID) {
			return reject("members of this clan have pending reservations on %s; same-clan requests take priority",
				d.Format(dateLayout))
		}
	}
	allowance := settings.CrossClanCap()
	for _, d := range dates {
		if w.crossClanCountOn(d, clan.ID) >= allowance {
			return reject("the allowance for out-of-clan reservations on %s has been reached", d.Format(dateLayout))
		}
	}
	return nil
}

// checkCapacity enforces the per-date total: the count of non-cancelled
// reservations must stay strictly below the clan's capacity on every
// requested date.
func checkCapacity(w *window, dates []time.Time, settings *model.ClanSettings) *Error {
	for _, d := range dates {
		if w.countOn(d) >= settings.MaxGroomsPerDate {
			return reject("date %s is fully booked", d.Format(dateLayout))
		}
	}
	return nil
}
