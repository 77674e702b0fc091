package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/wedding-reservation/internal/model"
)

// HallRepo provides read access to halls.  Hall CRUD is out of scope; the
// engine only needs to know whether a clan has a venue at all, and the
// availability endpoint lists them for groom selection.
type HallRepo struct {
	db *sql.DB
}

// NewHallRepo returns a HallRepo bound to the given database.
func NewHallRepo(db *sql.DB) *HallRepo { return &HallRepo{db: db} }

// CountByClan implements booking.Halls.
func (r *HallRepo) CountByClan(ctx context.Context, clanID uint64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM halls WHERE clan_id = ? AND is_active = 1`, clanID).Scan(&n)
	return n, err
}

// ListByClan returns the active halls of a clan ordered by name.
func (r *HallRepo) ListByClan(ctx context.Context, clanID uint64) ([]model.Hall, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, clan_id, county_id, name, capacity, is_active, created_at, updated_at
		 FROM halls WHERE clan_id = ? AND is_active = 1 ORDER BY name`, clanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Hall, 0)
	for rows.Next() {
		var h model.Hall
		var capacity sql.NullInt64
		if err := rows.Scan(&h.ID, &h.ClanID, &h.CountyID, &h.Name, &capacity,
			&h.IsActive, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		if capacity.Valid {
			v := uint32(capacity.Int64)
			h.Capacity = &v
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
