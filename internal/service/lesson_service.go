package service

import (
	"context"
	"fmt"
	"time"

	"github.com/lessonhub/lessonhub/internal/apperr"
	"github.com/lessonhub/lessonhub/internal/cache"
	"github.com/lessonhub/lessonhub/internal/model"
	"github.com/lessonhub/lessonhub/internal/notify"
	"go.uber.org/zap"
)

// LessonService владеет жизненным циклом бронирования: создание, валидация
// и переходы статусов.
type LessonService struct {
	stores   Stores
	users    *cache.Users
	bookings *cache.Bookings
	notifier notify.Notifier
	logger   *zap.Logger
}

func NewLessonService(
	stores Stores,
	users *cache.Users,
	bookings *cache.Bookings,
	notifier notify.Notifier,
	logger *zap.Logger,
) *LessonService {
	return &LessonService{
		stores:   stores,
		users:    users,
		bookings: bookings,
		notifier: notifier,
		logger:   logger,
	}
}

// RequestLesson создаёт заявку на урок со статусом pending. Время в прошлом
// отклоняется до любых проверок существования, поэтому результат валидации
// не зависит от валидности ссылок.
func (s *LessonService) RequestLesson(ctx context.Context, studentID, teacherID, courseID int64, when time.Time) (*model.Booking, error) {
	if when.Before(time.Now()) {
		return nil, apperr.Validation(fmt.Sprintf("scheduled time %s is in the past", when.Format(time.RFC3339)))
	}

	student, err := s.users.GetByID(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("get student: %w", err)
	}
	if student == nil {
		return nil, apperr.NotFound(fmt.Sprintf("student %d", studentID))
	}
	if !student.IsStudent() {
		return nil, apperr.Validation(fmt.Sprintf("user %d is not a student", studentID))
	}

	teacher, err := s.users.GetByID(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("get teacher: %w", err)
	}
	if teacher == nil {
		return nil, apperr.NotFound(fmt.Sprintf("teacher %d", teacherID))
	}
	if !teacher.IsTeacher() {
		return nil, apperr.Validation(fmt.Sprintf("user %d is not a teacher", teacherID))
	}

	course, err := s.stores.Courses().GetByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}
	if course == nil {
		return nil, apperr.NotFound(fmt.Sprintf("course %d", courseID))
	}

	teaches, err := s.stores.TeachableCourses().Exists(ctx, teacherID, courseID)
	if err != nil {
		return nil, fmt.Errorf("check teachable course: %w", err)
	}
	if !teaches {
		return nil, apperr.Validation(fmt.Sprintf("teacher %d does not teach course %d", teacherID, courseID))
	}

	booking := &model.Booking{
		StudentID:   studentID,
		TeacherID:   teacherID,
		CourseID:    courseID,
		ScheduledAt: when,
		Status:      model.BookingStatusPending,
	}

	if err := s.stores.Bookings().Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.bookings.Put(booking)

	if err := s.notifier.BookingRequested(ctx, booking); err != nil {
		s.logger.Warn("Failed to notify teacher about request",
			zap.Int64("booking_id", booking.ID),
			zap.Error(err),
		)
	}

	s.logger.Info("Lesson requested",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("student_id", studentID),
		zap.Int64("teacher_id", teacherID),
		zap.Int64("course_id", courseID),
		zap.Time("scheduled_at", when),
	)

	booking.Student = student
	booking.Teacher = teacher
	booking.Course = course

	return booking, nil
}

// GetBooking получает бронирование по ID через кэш
func (s *LessonService) GetBooking(ctx context.Context, bookingID int64) (*model.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return nil, apperr.NotFound(fmt.Sprintf("booking %d", bookingID))
	}
	return booking, nil
}

// Approve одобряет заявку: pending -> accepted
func (s *LessonService) Approve(ctx context.Context, bookingID int64) (*model.Booking, error) {
	return s.transition(ctx, bookingID,
		[]model.BookingStatus{model.BookingStatusPending},
		model.BookingStatusAccepted,
		"Booking approved",
	)
}

// Reject отклоняет заявку: pending -> rejected
func (s *LessonService) Reject(ctx context.Context, bookingID int64) (*model.Booking, error) {
	return s.transition(ctx, bookingID,
		[]model.BookingStatus{model.BookingStatusPending},
		model.BookingStatusRejected,
		"Booking rejected",
	)
}

// Cancel отменяет активное бронирование: pending/accepted -> cancelled
func (s *LessonService) Cancel(ctx context.Context, bookingID int64) (*model.Booking, error) {
	return s.transition(ctx, bookingID,
		[]model.BookingStatus{model.BookingStatusPending, model.BookingStatusAccepted},
		model.BookingStatusCancelled,
		"Booking cancelled",
	)
}

// Complete завершает принятое бронирование: accepted -> completed
func (s *LessonService) Complete(ctx context.Context, bookingID int64) (*model.Booking, error) {
	return s.transition(ctx, bookingID,
		[]model.BookingStatus{model.BookingStatusAccepted},
		model.BookingStatusCompleted,
		"Booking completed",
	)
}

// CompleteElapsed переводит все принятые бронирования с истёкшим временем в
// completed. Вызывается фоновым свипером; запросы "прошедших" уроков дают
// тот же результат и без него за счёт ленивой классификации.
func (s *LessonService) CompleteElapsed(ctx context.Context) (int64, error) {
	count, err := s.stores.Bookings().MarkCompletedBefore(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("complete elapsed bookings: %w", err)
	}

	if count > 0 {
		s.logger.Info("Elapsed bookings completed", zap.Int64("count", count))
	}

	return count, nil
}

// CountByStatus считает бронирования в заданном статусе (сводка для админа)
func (s *LessonService) CountByStatus(ctx context.Context, status model.BookingStatus) (int64, error) {
	if !status.Valid() {
		return 0, apperr.Validation(fmt.Sprintf("unknown status %q", status))
	}
	return s.stores.Bookings().CountByStatus(ctx, status)
}

// transition выполняет compare-and-set переход статуса. Проигравший гонку
// или переход из терминального статуса получает ErrConflict от стора.
func (s *LessonService) transition(ctx context.Context, bookingID int64, from []model.BookingStatus, to model.BookingStatus, event string) (*model.Booking, error) {
	booking, err := s.stores.Bookings().UpdateStatus(ctx, bookingID, from, to)
	if err != nil {
		return nil, err
	}

	s.bookings.Put(booking)

	if err := s.notifier.BookingStatusChanged(ctx, booking); err != nil {
		s.logger.Warn("Failed to notify about status change",
			zap.Int64("booking_id", bookingID),
			zap.Error(err),
		)
	}

	s.logger.Info(event,
		zap.Int64("booking_id", bookingID),
		zap.String("status", string(to)),
	)

	return booking, nil
}
