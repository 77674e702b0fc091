package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/wedding-reservation/internal/model"
)

// ClanRepo resolves clans and their booking policy.  Clan and county CRUD
// belongs to the administration surface; the booking engine only reads.
type ClanRepo struct {
	db *sql.DB
}

// NewClanRepo returns a ClanRepo bound to the given database.
func NewClanRepo(db *sql.DB) *ClanRepo { return &ClanRepo{db: db} }

// ClanByID implements booking.Clans.  Returns nil when the clan does not
// exist.
func (r *ClanRepo) ClanByID(ctx context.Context, id uint64) (*model.Clan, error) {
	var c model.Clan
	err := r.db.QueryRowContext(ctx,
		`SELECT id, county_id, name, created_at, updated_at FROM clans WHERE id = ?`, id,
	).Scan(&c.ID, &c.CountyID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

const settingsCols = `clan_id, max_grooms_per_date, allow_two_day, allowed_months_two_day,
	allow_cross_clan, max_cross_clan_per_date, validation_deadline_days, created_at, updated_at`

// SettingsByClan implements booking.Clans.  Returns nil when the clan has
// no settings row, which the engine treats as "cannot receive bookings".
func (r *ClanRepo) SettingsByClan(ctx context.Context, clanID uint64) (*model.ClanSettings, error) {
	var s model.ClanSettings
	var crossCap sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT `+settingsCols+` FROM clan_settings WHERE clan_id = ?`, clanID,
	).Scan(&s.ClanID, &s.MaxGroomsPerDate, &s.AllowTwoDay, &s.AllowedMonthsTwoDay,
		&s.AllowCrossClan, &crossCap, &s.ValidationDeadlineDays, &s.CreatedAt, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if crossCap.Valid {
		v := int(crossCap.Int64)
		s.MaxCrossClanPerDate = &v
	}
	return &s, nil
}

// UpdateSettings overwrites a clan's policy.  Only the clan's own admin
// reaches this (enforced by the handler); the row must already exist
// because settings are created alongside the clan.
func (r *ClanRepo) UpdateSettings(ctx context.Context, s *model.ClanSettings) error {
	var crossCap interface{}
	if s.MaxCrossClanPerDate != nil {
		crossCap = *s.MaxCrossClanPerDate
	}
	var one int
	if err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM clan_settings WHERE clan_id = ?`, s.ClanID).Scan(&one); err != nil {
		return err // sql.ErrNoRows when the clan has no settings row
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE clan_settings
		 SET max_grooms_per_date = ?, allow_two_day = ?, allowed_months_two_day = ?,
			 allow_cross_clan = ?, max_cross_clan_per_date = ?, validation_deadline_days = ?
		 WHERE clan_id = ?`,
		s.MaxGroomsPerDate, s.AllowTwoDay, s.AllowedMonthsTwoDay,
		s.AllowCrossClan, crossCap, s.ValidationDeadlineDays, s.ClanID)
	return err
}
