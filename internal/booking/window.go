package booking

import (
	"time"

	"github.com/iliyamo/wedding-reservation/internal/model"
)

// dateLayout is the wire format for calendar dates.
const dateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD string into a UTC-midnight day value.
func ParseDate(raw string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, raw, time.UTC)
}

// day truncates a timestamp to its UTC calendar date.
func day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// window is the request-scoped read model the rule chain evaluates over:
// every non-cancelled reservation touching the requested dates for the
// target clan/county, fetched (and row-locked) in a single query instead
// of one query per check.
type window struct {
	rows []WindowRow
}

// on returns the rows occupying the given date.
func (w *window) on(date time.Time) []WindowRow {
	var out []WindowRow
	for _, r := range w.rows {
		if r.Occupies(date) {
			out = append(out, r)
		}
	}
	return out
}

// soloOn returns the exclusive (non-mass) reservations on the date.
func (w *window) soloOn(date time.Time) []WindowRow {
	var out []WindowRow
	for _, r := range w.on(date) {
		if !r.IsMassWedding {
			out = append(out, r)
		}
	}
	return out
}

// massGroomsOn returns the set of grooms participating in a mass wedding
// on the date.  An empty set means no group occupies the date.
func (w *window) massGroomsOn(date time.Time) map[uint64]bool {
	grooms := make(map[uint64]bool)
	for _, r := range w.on(date) {
		if r.IsMassWedding {
			grooms[r.GroomID] = true
		}
	}
	return grooms
}

// countOn returns the number of non-cancelled reservations on the date.
func (w *window) countOn(date time.Time) int {
	return len(w.on(date))
}

// crossClanCountOn counts reservations on the date made by grooms whose
// home clan differs from the target clan.
func (w *window) crossClanCountOn(date time.Time, clanID uint64) int {
	n := 0
	for _, r := range w.on(date) {
		if r.GroomClanID != clanID {
			n++
		}
	}
	return n
}

// sameClanPendingOn reports whether a groom from the target clan holds a
// pending reservation on the date.
func (w *window) sameClanPendingOn(date time.Time, clanID uint64) bool {
	for _, r := range w.on(date) {
		if r.Status == model.StatusPending && r.GroomClanID == clanID {
			return true
		}
	}
	return false
}
