package model

import "time"

// Message is a chat message tied to a booking. Immutable once sent; removed
// only when its booking is deleted.
type Message struct {
	ID        int64     `json:"id"`
	BookingID int64     `json:"booking_id"`
	SenderID  int64     `json:"sender_id"`
	Text      string    `json:"text"`
	SentAt    time.Time `json:"sent_at"`
}
