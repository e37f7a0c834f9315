package service

import (
	"context"
	"fmt"
	"time"

	"github.com/lessonhub/lessonhub/internal/apperr"
	"github.com/lessonhub/lessonhub/internal/model"
)

// CalendarService проецирует бронирования пользователя на месячную сетку.
// Чистое чтение: без кэширования и без мутаций.
type CalendarService struct {
	bookings BookingStore
}

func NewCalendarService(bookings BookingStore) *CalendarService {
	return &CalendarService{bookings: bookings}
}

// MonthView собирает все бронирования пользователя за месяц и факты для
// отрисовки сетки: число дней и день недели первого числа (0 = воскресенье).
// Нулевые year/month означают текущий месяц.
func (s *CalendarService) MonthView(ctx context.Context, userID int64, role model.Role, year int, month time.Month) (*model.MonthView, error) {
	if !role.Valid() {
		return nil, apperr.Validation(fmt.Sprintf("unknown role %q", role))
	}

	now := time.Now()
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = now.Month()
	}
	if month < time.January || month > time.December {
		return nil, apperr.Validation(fmt.Sprintf("month %d out of range", month))
	}

	// Закрытый диапазон: первое число 00:00 .. последнее число 23:59.
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	daysInMonth := start.AddDate(0, 1, -1).Day()
	end := time.Date(year, month, daysInMonth, 23, 59, 59, int(time.Second-time.Nanosecond), time.Local)

	bookings, err := s.bookings.ListInRange(ctx, userID, role, start, end)
	if err != nil {
		return nil, fmt.Errorf("list bookings for month: %w", err)
	}

	entries := make([]model.CalendarEntry, 0, len(bookings))
	for _, b := range bookings {
		entries = append(entries, model.CalendarEntry{
			BookingID:   b.ID,
			StudentID:   b.StudentID,
			TeacherID:   b.TeacherID,
			ScheduledAt: b.ScheduledAt,
			Status:      b.EffectiveStatus(now),
		})
	}

	return &model.MonthView{
		Year:         year,
		Month:        month,
		DaysInMonth:  daysInMonth,
		FirstWeekday: int(start.Weekday()),
		Entries:      entries,
	}, nil
}
