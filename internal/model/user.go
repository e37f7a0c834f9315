package model

import "time"

type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

// Valid reports whether the role is one of the known tags.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleTeacher || r == RoleAdmin
}

type User struct {
	ID         int64     `json:"id"`
	TelegramID int64     `json:"telegram_id"` // chat id for notifications, 0 = none
	Username   string    `json:"username"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Role       Role      `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
}

// IsTeacher checks if the user carries the teacher role
func (u *User) IsTeacher() bool {
	return u.Role == RoleTeacher
}

// IsStudent checks if the user carries the student role
func (u *User) IsStudent() bool {
	return u.Role == RoleStudent
}
