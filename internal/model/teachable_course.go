package model

import "time"

// TeachableCourse records that a teacher may be booked for a course. Created
// and removed independently of any booking.
type TeachableCourse struct {
	ID        int64     `json:"id"`
	TeacherID int64     `json:"teacher_id"`
	CourseID  int64     `json:"course_id"`
	AddedAt   time.Time `json:"added_at"`
}
