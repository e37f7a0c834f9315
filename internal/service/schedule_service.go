package service

import (
	"context"
	"fmt"
	"time"

	"github.com/lessonhub/lessonhub/internal/apperr"
	"github.com/lessonhub/lessonhub/internal/model"
	"go.uber.org/zap"
)

// ScheduleService строит списки предстоящих и прошедших уроков пользователя.
type ScheduleService struct {
	bookings BookingStore
	identity Identity
	logger   *zap.Logger
}

func NewScheduleService(bookings BookingStore, identity Identity, logger *zap.Logger) *ScheduleService {
	return &ScheduleService{
		bookings: bookings,
		identity: identity,
		logger:   logger,
	}
}

// Upcoming получает активные бронирования с временем >= now, по возрастанию
// времени; при равном времени порядок стабилен по возрастанию id.
func (s *ScheduleService) Upcoming(ctx context.Context, userID int64, role model.Role) ([]*model.Booking, error) {
	if !role.Valid() {
		return nil, apperr.Validation(fmt.Sprintf("unknown role %q", role))
	}
	return s.bookings.ListUpcoming(ctx, userID, role, time.Now())
}

// Past получает прошедшие бронирования: принятые с истёкшим временем плюс
// все отклонённые и отменённые, по убыванию времени, без дубликатов.
// Принятые с истёкшим временем отдаются со статусом completed.
func (s *ScheduleService) Past(ctx context.Context, userID int64, role model.Role) ([]*model.Booking, error) {
	if !role.Valid() {
		return nil, apperr.Validation(fmt.Sprintf("unknown role %q", role))
	}

	now := time.Now()
	bookings, err := s.bookings.ListPast(ctx, userID, role, now)
	if err != nil {
		return nil, err
	}

	// Свипер мог ещё не пройти — классифицируем лениво.
	for _, b := range bookings {
		b.Status = b.EffectiveStatus(now)
	}

	return bookings, nil
}

// NextBooking получает ближайший предстоящий урок, nil если его нет
func (s *ScheduleService) NextBooking(ctx context.Context, userID int64, role model.Role) (*model.Booking, error) {
	upcoming, err := s.Upcoming(ctx, userID, role)
	if err != nil {
		return nil, err
	}
	if len(upcoming) == 0 {
		return nil, nil
	}
	return upcoming[0], nil
}

// UpcomingForActor получает предстоящие уроки текущего пользователя
func (s *ScheduleService) UpcomingForActor(ctx context.Context) ([]*model.Booking, error) {
	id, role, err := s.identity.Actor(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve actor: %w", err)
	}
	return s.Upcoming(ctx, id, role)
}

// PastForActor получает прошедшие уроки текущего пользователя
func (s *ScheduleService) PastForActor(ctx context.Context) ([]*model.Booking, error) {
	id, role, err := s.identity.Actor(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve actor: %w", err)
	}
	return s.Past(ctx, id, role)
}

// NextBookingForActor получает ближайший урок текущего пользователя
func (s *ScheduleService) NextBookingForActor(ctx context.Context) (*model.Booking, error) {
	id, role, err := s.identity.Actor(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve actor: %w", err)
	}
	return s.NextBooking(ctx, id, role)
}
