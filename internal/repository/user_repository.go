package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/wedding-reservation/internal/model"
)

// UserRepo provides read access to users.  Registration and profile
// editing are handled by a separate onboarding system; this service only
// resolves identities and reads the snapshot source fields.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo returns a UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

const userCols = `id, email, password_hash, role, clan_id, county_id,
	name, phone, birth_date, birth_place, address,
	guardian_name, guardian_phone, guardian_address, guardian_birth_date,
	is_active, created_at, updated_at`

func scanUser(row *sql.Row) (*model.User, error) {
	var u model.User
	var role string
	var birth, guardianBirth sql.NullTime
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &role, &u.ClanID, &u.CountyID,
		&u.Name, &u.Phone, &birth, &u.BirthPlace, &u.Address,
		&u.GuardianName, &u.GuardianPhone, &u.GuardianAddress, &guardianBirth,
		&u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if u.Role, err = model.ParseRole(role); err != nil {
		return nil, err
	}
	if birth.Valid {
		d := birth.Time.UTC()
		u.BirthDate = &d
	}
	if guardianBirth.Valid {
		d := guardianBirth.Time.UTC()
		u.GuardianBirthDate = &d
	}
	return &u, nil
}

// GetByEmail looks a user up for login.  Returns sql.ErrNoRows when the
// email is unknown.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userCols+` FROM users WHERE email = ? AND is_active = 1`, email))
}

// UserByID implements booking.Users.  Returns nil when the user does not
// exist so the engine can produce its own 404.
func (r *UserRepo) UserByID(ctx context.Context, id uint64) (*model.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userCols+` FROM users WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return u, err
}

// UpdatePassword replaces a user's password hash.
func (r *UserRepo) UpdatePassword(ctx context.Context, id uint64, hash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ? WHERE id = ?`, hash, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// AdminByClan implements booking.Users: the clan admin who receives
// reservation notifications.  When a clan has several admins the oldest
// account wins.
func (r *UserRepo) AdminByClan(ctx context.Context, clanID uint64) (*model.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userCols+` FROM users
		 WHERE clan_id = ? AND role = 'CLAN_ADMIN' AND is_active = 1
		 ORDER BY id LIMIT 1`, clanID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return u, err
}
