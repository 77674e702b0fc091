// Package queue defines message payloads exchanged over the message broker
// and the background consumer that persists notifications.
package queue

// ReservationEvent is published whenever a reservation changes state:
// created, validated or cancelled.  It carries enough information for the
// consumer to write a notification row without querying the primary
// database.
type ReservationEvent struct {
	ReservationID uint64 `json:"reservation_id"`
	RecipientID   uint64 `json:"recipient_id"`
	Audience      string `json:"audience"`
	Title         string `json:"title"`
	Message       string `json:"message"`
	ClanID        uint64 `json:"clan_id"`
	CountyID      uint64 `json:"county_id"`
	Date1         string `json:"date1"`
	Date2         string `json:"date2,omitempty"`
	OccurredAt    string `json:"occurred_at"`
}

// ReservationQueueName is the durable queue the events travel through.
const ReservationQueueName = "reservation.events"
