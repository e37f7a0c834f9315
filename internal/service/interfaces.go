package service

import (
	"context"
	"time"

	"github.com/lessonhub/lessonhub/internal/model"
)

// Store contracts consumed by the services. The pgx repositories satisfy them
// in production; tests plug in in-memory fakes.

type UserStore interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

type CourseStore interface {
	GetByID(ctx context.Context, id int64) (*model.Course, error)
	Delete(ctx context.Context, id int64) error
}

type BookingStore interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id int64) (*model.Booking, error)
	ListUpcoming(ctx context.Context, userID int64, role model.Role, now time.Time) ([]*model.Booking, error)
	ListPast(ctx context.Context, userID int64, role model.Role, now time.Time) ([]*model.Booking, error)
	ListInRange(ctx context.Context, userID int64, role model.Role, from, to time.Time) ([]*model.Booking, error)
	ListByCourseID(ctx context.Context, courseID int64) ([]*model.Booking, error)
	// UpdateStatus performs a compare-and-set transition: it succeeds only
	// from one of the expected statuses, returning the updated booking.
	// Missing booking yields apperr.ErrNotFound, a lost race or terminal
	// state yields apperr.ErrConflict.
	UpdateStatus(ctx context.Context, id int64, from []model.BookingStatus, to model.BookingStatus) (*model.Booking, error)
	MarkCompletedBefore(ctx context.Context, cutoff time.Time) (int64, error)
	CountByStatus(ctx context.Context, status model.BookingStatus) (int64, error)
	Delete(ctx context.Context, id int64) error
}

type MessageStore interface {
	Create(ctx context.Context, message *model.Message) error
	ListByBookingID(ctx context.Context, bookingID int64) ([]*model.Message, error)
	DeleteByBookingID(ctx context.Context, bookingID int64) (int64, error)
}

type MaterialStore interface {
	Create(ctx context.Context, material *model.StudyMaterial) error
	GetByID(ctx context.Context, id int64) (*model.StudyMaterial, error)
	ListByBookingID(ctx context.Context, bookingID int64) ([]*model.StudyMaterial, error)
	DeleteByBookingID(ctx context.Context, bookingID int64) (int64, error)
}

type TeachableCourseStore interface {
	Exists(ctx context.Context, teacherID, courseID int64) (bool, error)
	DeleteByCourseID(ctx context.Context, courseID int64) (int64, error)
}

// Stores bundles every store plus the transaction boundary. The callback of
// InTx receives stores bound to one open transaction; any error rolls the
// whole unit back.
type Stores interface {
	Users() UserStore
	Courses() CourseStore
	Bookings() BookingStore
	Messages() MessageStore
	Materials() MaterialStore
	TeachableCourses() TeachableCourseStore
	InTx(ctx context.Context, fn func(tx Stores) error) error
}

// Identity supplies the current actor for the convenience entry points. The
// outer request layer owns real authentication.
type Identity interface {
	Actor(ctx context.Context) (id int64, role model.Role, err error)
}
