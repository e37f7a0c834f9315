package service

import (
	"context"
	"fmt"

	"github.com/lessonhub/lessonhub/internal/apperr"
	"github.com/lessonhub/lessonhub/internal/cache"
	"github.com/lessonhub/lessonhub/internal/model"
)

// AccessService проверяет, что действующий пользователь — сторона
// бронирования. Вызывается синхронно перед каждой защищённой операцией:
// просмотром деталей, сообщениями и материалами.
type AccessService struct {
	bookings *cache.Bookings
}

func NewAccessService(bookings *cache.Bookings) *AccessService {
	return &AccessService{bookings: bookings}
}

// Authorize — чистая проверка без побочных эффектов: студент должен быть
// студентом бронирования, учитель — его учителем. Админ проходит всегда.
func (s *AccessService) Authorize(booking *model.Booking, actorID int64, role model.Role) error {
	switch role {
	case model.RoleStudent:
		if booking.StudentID == actorID {
			return nil
		}
	case model.RoleTeacher:
		if booking.TeacherID == actorID {
			return nil
		}
	case model.RoleAdmin:
		return nil
	}
	return apperr.AccessDenied(fmt.Sprintf("user %d is not a party to booking %d", actorID, booking.ID))
}

// BookingForActor загружает бронирование и авторизует доступ к нему.
// Использует общий кэш недавних записей.
func (s *AccessService) BookingForActor(ctx context.Context, bookingID, actorID int64, role model.Role) (*model.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return nil, apperr.NotFound(fmt.Sprintf("booking %d", bookingID))
	}
	if err := s.Authorize(booking, actorID, role); err != nil {
		return nil, err
	}
	return booking, nil
}
