package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/wedding-reservation/internal/model"
)

// NotificationRepo persists notifications written by the queue consumer.
// Listing and read-marking for clients live in the administration surface;
// this service only appends.
type NotificationRepo struct {
	db *sql.DB
}

// NewNotificationRepo returns a NotificationRepo bound to the database.
func NewNotificationRepo(db *sql.DB) *NotificationRepo { return &NotificationRepo{db: db} }

// Insert stores one notification row and populates the generated ID.
func (r *NotificationRepo) Insert(ctx context.Context, n *model.Notification) error {
	var resID interface{}
	if n.ReservationID != nil {
		resID = *n.ReservationID
	}
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO notifications (user_id, reservation_id, audience, title, body) VALUES (?, ?, ?, ?, ?)`,
		n.UserID, resID, string(n.Audience), n.Title, n.Body)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	n.ID = uint64(id)
	return nil
}
