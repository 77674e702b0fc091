package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/wedding-reservation/internal/booking"
	"github.com/iliyamo/wedding-reservation/internal/model"
)

// BookingStore implements booking.Store over MySQL.  The transactional
// methods live on bookingTx; the unlocked read variants run directly on
// the pool for availability-style queries.
type BookingStore struct {
	db *sql.DB
}

// NewBookingStore returns a BookingStore bound to the given database.
func NewBookingStore(db *sql.DB) *BookingStore { return &BookingStore{db: db} }

// DB exposes the underlying handle for callers that need raw access.
func (s *BookingStore) DB() *sql.DB { return s.db }

// Begin opens the request-scoped booking transaction.
func (s *BookingStore) Begin(ctx context.Context) (booking.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &bookingTx{tx: tx}, nil
}

// querier is satisfied by both *sql.DB and *sql.Tx so the window and
// special-date queries can be shared between locked and unlocked callers.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

const reservationCols = `r.id, r.groom_id, r.clan_id, r.county_id,
	r.date1, r.date2, r.two_day, r.is_mass_wedding, r.status, r.payment_status,
	r.hall_id, r.haia_committee_id, r.madaeh_committee_id,
	r.groom_name, r.groom_phone, r.groom_birth_date, r.groom_birth_place, r.groom_address,
	r.guardian_name, r.guardian_phone, r.guardian_address, r.guardian_birth_date,
	r.created_at, r.updated_at`

// scanReservation reads one reservations row.  Status strings are parsed
// into their closed types here so unknown values fail at the boundary.
func scanReservation(scan func(dest ...interface{}) error) (*model.Reservation, error) {
	var r model.Reservation
	var date2, groomBirth, guardianBirth sql.NullTime
	var hallID, haiaID, madaehID sql.NullInt64
	var status, payment string
	err := scan(
		&r.ID, &r.GroomID, &r.ClanID, &r.CountyID,
		&r.Date1, &date2, &r.TwoDay, &r.IsMassWedding, &status, &payment,
		&hallID, &haiaID, &madaehID,
		&r.GroomName, &r.GroomPhone, &groomBirth, &r.GroomBirthPlace, &r.GroomAddress,
		&r.GuardianName, &r.GuardianPhone, &r.GuardianAddress, &guardianBirth,
		&r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if r.Status, err = model.ParseReservationStatus(status); err != nil {
		return nil, err
	}
	if r.PaymentStatus, err = model.ParsePaymentStatus(payment); err != nil {
		return nil, err
	}
	if date2.Valid {
		d := date2.Time.UTC()
		r.Date2 = &d
	}
	if groomBirth.Valid {
		d := groomBirth.Time.UTC()
		r.GroomBirthDate = &d
	}
	if guardianBirth.Valid {
		d := guardianBirth.Time.UTC()
		r.GuardianBirthDate = &d
	}
	if hallID.Valid {
		v := uint64(hallID.Int64)
		r.HallID = &v
	}
	if haiaID.Valid {
		v := uint64(haiaID.Int64)
		r.HaiaCommitteeID = &v
	}
	if madaehID.Valid {
		v := uint64(madaehID.Int64)
		r.MadaehCommitteeID = &v
	}
	r.Date1 = r.Date1.UTC()
	return &r, nil
}

// queryWindow selects every non-cancelled reservation touching any of the
// dates for the clan/county, joined with users for the groom's home clan.
// With lock=true the rows are selected FOR UPDATE, which is the critical
// section serializing concurrent bookings against the same slot.
func queryWindow(ctx context.Context, q querier, clanID, countyID uint64, dates []time.Time, lock bool) ([]booking.WindowRow, error) {
	if len(dates) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(dates))
	args := []interface{}{clanID, countyID}
	for i, d := range dates {
		placeholders[i] = "?"
		args = append(args, d.Format("2006-01-02"))
	}
	in := strings.Join(placeholders, ",")
	query := `SELECT ` + reservationCols + `, u.clan_id
			  FROM reservations r
			  JOIN users u ON u.id = r.groom_id
			  WHERE r.clan_id = ? AND r.county_id = ? AND r.status <> 'cancelled'
				AND (r.date1 IN (` + in + `) OR r.date2 IN (` + in + `))`
	if lock {
		query += ` FOR UPDATE`
	}
	// date placeholders appear twice (date1 IN / date2 IN)
	for _, d := range dates {
		args = append(args, d.Format("2006-01-02"))
	}
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []booking.WindowRow
	for rows.Next() {
		var groomClan uint64
		res, err := scanReservation(func(dest ...interface{}) error {
			dest = append(dest, &groomClan)
			return rows.Scan(dest...)
		})
		if err != nil {
			return nil, err
		}
		out = append(out, booking.WindowRow{Reservation: *res, GroomClanID: groomClan})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func querySpecialOn(ctx context.Context, q querier, clanID, countyID uint64, date time.Time, lock bool) (*model.ReservationSpecial, error) {
	query := `SELECT id, clan_id, county_id, date, reason, status, created_at, updated_at
			  FROM reservation_specials
			  WHERE clan_id = ? AND county_id = ? AND date = ? AND status = 'validated'
			  LIMIT 1`
	if lock {
		query += ` FOR UPDATE`
	}
	return scanSpecial(q.QueryRowContext(ctx, query, clanID, countyID, date.Format("2006-01-02")))
}

func scanSpecial(row *sql.Row) (*model.ReservationSpecial, error) {
	var sp model.ReservationSpecial
	var status string
	err := row.Scan(&sp.ID, &sp.ClanID, &sp.CountyID, &sp.Date, &sp.Reason, &status, &sp.CreatedAt, &sp.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if sp.Status, err = model.ParseSpecialStatus(status); err != nil {
		return nil, err
	}
	sp.Date = sp.Date.UTC()
	return &sp, nil
}

// Window implements booking.Store without locking.
func (s *BookingStore) Window(ctx context.Context, clanID, countyID uint64, dates []time.Time) ([]booking.WindowRow, error) {
	return queryWindow(ctx, s.db, clanID, countyID, dates, false)
}

// ValidatedSpecialOn implements booking.Store without locking.
func (s *BookingStore) ValidatedSpecialOn(ctx context.Context, clanID, countyID uint64, date time.Time) (bool, error) {
	sp, err := querySpecialOn(ctx, s.db, clanID, countyID, date, false)
	return sp != nil, err
}

// ListByClan returns reservations in the clan/county for the admin list
// view, optionally filtered by date and status, newest first.
func (s *BookingStore) ListByClan(ctx context.Context, clanID, countyID uint64, date *time.Time, status *model.ReservationStatus) ([]model.Reservation, error) {
	query := `SELECT ` + reservationCols + ` FROM reservations r WHERE r.clan_id = ? AND r.county_id = ?`
	args := []interface{}{clanID, countyID}
	if date != nil {
		query += ` AND (r.date1 = ? OR r.date2 = ?)`
		ds := date.Format("2006-01-02")
		args = append(args, ds, ds)
	}
	if status != nil {
		query += ` AND r.status = ?`
		args = append(args, string(*status))
	}
	query += ` ORDER BY r.created_at DESC`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Reservation, 0)
	for rows.Next() {
		r, err := scanReservation(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByGroom returns a groom's reservations in the county, newest first.
func (s *BookingStore) ListByGroom(ctx context.Context, groomID, countyID uint64) ([]model.Reservation, error) {
	query := `SELECT ` + reservationCols + ` FROM reservations r
			  WHERE r.groom_id = ? AND r.county_id = ?
			  ORDER BY r.created_at DESC`
	rows, err := s.db.QueryContext(ctx, query, groomID, countyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Reservation, 0)
	for rows.Next() {
		r, err := scanReservation(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// bookingTx implements booking.Tx on one *sql.Tx.
type bookingTx struct {
	tx *sql.Tx
}

func (t *bookingTx) Commit() error   { return t.tx.Commit() }
func (t *bookingTx) Rollback() error { return t.tx.Rollback() }

// LockWindow implements booking.Tx.
func (t *bookingTx) LockWindow(ctx context.Context, clanID, countyID uint64, dates []time.Time) ([]booking.WindowRow, error) {
	return queryWindow(ctx, t.tx, clanID, countyID, dates, true)
}

// ActiveByGroom returns the groom's single non-cancelled reservation in
// the county, locked for the remainder of the transaction.
func (t *bookingTx) ActiveByGroom(ctx context.Context, groomID, countyID uint64) (*model.Reservation, error) {
	query := `SELECT ` + reservationCols + ` FROM reservations r
			  WHERE r.groom_id = ? AND r.county_id = ? AND r.status <> 'cancelled'
			  LIMIT 1 FOR UPDATE`
	res, err := scanReservation(t.tx.QueryRowContext(ctx, query, groomID, countyID).Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

// InsertReservation persists a new reservation and reads the generated id
// and timestamps back onto the record.
func (t *bookingTx) InsertReservation(ctx context.Context, r *model.Reservation) error {
	const q = `INSERT INTO reservations
		(groom_id, clan_id, county_id, date1, date2, two_day, is_mass_wedding, status, payment_status,
		 hall_id, haia_committee_id, madaeh_committee_id,
		 groom_name, groom_phone, groom_birth_date, groom_birth_place, groom_address,
		 guardian_name, guardian_phone, guardian_address, guardian_birth_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	var date2 interface{}
	if r.Date2 != nil {
		date2 = r.Date2.Format("2006-01-02")
	}
	result, err := t.tx.ExecContext(ctx, q,
		r.GroomID, r.ClanID, r.CountyID, r.Date1.Format("2006-01-02"), date2,
		r.TwoDay, r.IsMassWedding, string(r.Status), string(r.PaymentStatus),
		nullableID(r.HallID), nullableID(r.HaiaCommitteeID), nullableID(r.MadaehCommitteeID),
		r.GroomName, r.GroomPhone, nullableDate(r.GroomBirthDate), r.GroomBirthPlace, r.GroomAddress,
		r.GuardianName, r.GuardianPhone, r.GuardianAddress, nullableDate(r.GuardianBirthDate),
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	r.ID = uint64(id)
	return t.tx.QueryRowContext(ctx,
		`SELECT created_at, updated_at FROM reservations WHERE id = ?`, r.ID,
	).Scan(&r.CreatedAt, &r.UpdatedAt)
}

// UpdateReservationStatus implements booking.Tx.
func (t *bookingTx) UpdateReservationStatus(ctx context.Context, id uint64, status model.ReservationStatus) error {
	_, err := t.tx.ExecContext(ctx,
		`UPDATE reservations SET status = ? WHERE id = ?`, string(status), id)
	return err
}

// UpdatePaymentStatus implements booking.Tx.
func (t *bookingTx) UpdatePaymentStatus(ctx context.Context, id uint64, status model.PaymentStatus) error {
	_, err := t.tx.ExecContext(ctx,
		`UPDATE reservations SET payment_status = ? WHERE id = ?`, string(status), id)
	return err
}

// HasOtherValidated implements booking.Tx.
func (t *bookingTx) HasOtherValidated(ctx context.Context, groomID, clanID, countyID, exceptID uint64) (bool, error) {
	var n int
	err := t.tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reservations
		 WHERE groom_id = ? AND clan_id = ? AND county_id = ? AND status = 'validated' AND id <> ?`,
		groomID, clanID, countyID, exceptID,
	).Scan(&n)
	return n > 0, err
}

// ValidatedSpecialOnAny implements booking.Tx.
func (t *bookingTx) ValidatedSpecialOnAny(ctx context.Context, clanID, countyID uint64, dates []time.Time) (bool, error) {
	if len(dates) == 0 {
		return false, nil
	}
	placeholders := make([]string, len(dates))
	args := []interface{}{clanID, countyID}
	for i, d := range dates {
		placeholders[i] = "?"
		args = append(args, d.Format("2006-01-02"))
	}
	var n int
	err := t.tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reservation_specials
		 WHERE clan_id = ? AND county_id = ? AND status = 'validated'
		   AND date IN (`+strings.Join(placeholders, ",")+`)`,
		args...,
	).Scan(&n)
	return n > 0, err
}

// ActiveSpecialOn implements booking.Tx.
func (t *bookingTx) ActiveSpecialOn(ctx context.Context, clanID, countyID uint64, date time.Time) (*model.ReservationSpecial, error) {
	return querySpecialOn(ctx, t.tx, clanID, countyID, date, true)
}

// GetSpecial implements booking.Tx.
func (t *bookingTx) GetSpecial(ctx context.Context, id uint64) (*model.ReservationSpecial, error) {
	return scanSpecial(t.tx.QueryRowContext(ctx,
		`SELECT id, clan_id, county_id, date, reason, status, created_at, updated_at
		 FROM reservation_specials WHERE id = ? FOR UPDATE`, id))
}

// InsertSpecial implements booking.Tx.
func (t *bookingTx) InsertSpecial(ctx context.Context, sp *model.ReservationSpecial) error {
	result, err := t.tx.ExecContext(ctx,
		`INSERT INTO reservation_specials (clan_id, county_id, date, reason, status) VALUES (?, ?, ?, ?, ?)`,
		sp.ClanID, sp.CountyID, sp.Date.Format("2006-01-02"), sp.Reason, string(sp.Status))
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	sp.ID = uint64(id)
	return t.tx.QueryRowContext(ctx,
		`SELECT created_at, updated_at FROM reservation_specials WHERE id = ?`, sp.ID,
	).Scan(&sp.CreatedAt, &sp.UpdatedAt)
}

// UpdateSpecialStatus implements booking.Tx.
func (t *bookingTx) UpdateSpecialStatus(ctx context.Context, id uint64, status model.SpecialStatus) error {
	_, err := t.tx.ExecContext(ctx,
		`UPDATE reservation_specials SET status = ? WHERE id = ?`, string(status), id)
	return err
}

func nullableID(v *uint64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func nullableDate(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Format("2006-01-02")
}
