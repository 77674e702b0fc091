package model

import "time"

// Notification is a stored message for a groom or a clan admin, written by
// the queue consumer when a reservation changes state.  Delivery channels
// (SMS, push) are outside this service; rows here are the source of truth.
type Notification struct {
	ID            uint64    // notifications.id
	UserID        uint64    // notifications.user_id (recipient)
	ReservationID *uint64   // notifications.reservation_id (nullable)
	Audience      Audience  // notifications.audience
	Title         string    // notifications.title
	Body          string    // notifications.body
	IsRead        bool      // notifications.is_read
	CreatedAt     time.Time // notifications.created_at
}
