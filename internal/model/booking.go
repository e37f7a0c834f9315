package model

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"   // waiting for teacher approval
	BookingStatusAccepted  BookingStatus = "accepted"  // approved by teacher
	BookingStatusRejected  BookingStatus = "rejected"  // declined by teacher
	BookingStatusCancelled BookingStatus = "cancelled" // cancelled by either party
	BookingStatusCompleted BookingStatus = "completed" // accepted and the lesson time elapsed
)

// Valid reports whether the status is one of the known values.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusAccepted, BookingStatusRejected,
		BookingStatusCancelled, BookingStatusCompleted:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is allowed from the status.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusRejected || s == BookingStatusCancelled || s == BookingStatusCompleted
}

// IsActive reports whether the booking still counts toward upcoming lessons.
func (s BookingStatus) IsActive() bool {
	return s == BookingStatusPending || s == BookingStatusAccepted
}

type Booking struct {
	ID          int64         `json:"id"`
	StudentID   int64         `json:"student_id"`
	TeacherID   int64         `json:"teacher_id"`
	CourseID    int64         `json:"course_id"`
	ScheduledAt time.Time     `json:"scheduled_at"`
	Status      BookingStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`

	// Joined records for convenience (not from the bookings table)
	Student *User   `json:"student,omitempty"`
	Teacher *User   `json:"teacher,omitempty"`
	Course  *Course `json:"course,omitempty"`
}

// EffectiveStatus folds elapsed accepted bookings into completed. The
// background sweeper persists the same transition eventually; queries made
// between sweeps classify through this.
func (b *Booking) EffectiveStatus(now time.Time) BookingStatus {
	if b.Status == BookingStatusAccepted && b.ScheduledAt.Before(now) {
		return BookingStatusCompleted
	}
	return b.Status
}
