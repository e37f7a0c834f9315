package model

import "time"

// CalendarEntry is a transient projection of a booking for calendar views.
// Never persisted.
type CalendarEntry struct {
	BookingID   int64         `json:"booking_id"`
	StudentID   int64         `json:"student_id"`
	TeacherID   int64         `json:"teacher_id"`
	ScheduledAt time.Time     `json:"scheduled_at"`
	Status      BookingStatus `json:"status"`
}

// MonthView carries one month of a user's bookings plus the facts a grid
// renderer needs.
type MonthView struct {
	Year         int             `json:"year"`
	Month        time.Month      `json:"month"`
	DaysInMonth  int             `json:"days_in_month"`
	FirstWeekday int             `json:"first_weekday"` // 0 = Sunday ... 6 = Saturday
	Entries      []CalendarEntry `json:"entries"`
}
