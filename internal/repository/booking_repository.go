package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/lessonhub/lessonhub/internal/apperr"
	"github.com/lessonhub/lessonhub/internal/model"
	"github.com/lessonhub/lessonhub/internal/repository/base"
)

type BookingRepository struct {
	db base.Querier
}

func NewBookingRepository(db base.Querier) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = `id, student_id, teacher_id, course_id, scheduled_at, status, created_at`

// roleColumn выбирает колонку владельца по роли. Админ видит записи как
// учитель либо студент через отдельные вызовы, своей колонки у него нет.
func roleColumn(role model.Role) string {
	if role == model.RoleTeacher {
		return "teacher_id"
	}
	return "student_id"
}

func scanBooking(row pgx.Row, b *model.Booking) error {
	return row.Scan(
		&b.ID,
		&b.StudentID,
		&b.TeacherID,
		&b.CourseID,
		&b.ScheduledAt,
		&b.Status,
		&b.CreatedAt,
	)
}

func collectBookings(rows pgx.Rows) ([]*model.Booking, error) {
	defer rows.Close()

	var bookings []*model.Booking
	for rows.Next() {
		var b model.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, &b)
	}
	return bookings, rows.Err()
}

// Create создаёт новое бронирование
func (r *BookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	query := `
		INSERT INTO bookings (student_id, teacher_id, course_id, scheduled_at, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(
		ctx, query,
		booking.StudentID,
		booking.TeacherID,
		booking.CourseID,
		booking.ScheduledAt,
		booking.Status,
	).Scan(&booking.ID, &booking.CreatedAt)

	if err != nil {
		return fmt.Errorf("create booking: %w", err)
	}

	return nil
}

// GetByID получает бронирование по ID
func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	var booking model.Booking
	err := scanBooking(r.db.QueryRow(ctx, query, id), &booking)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking by id: %w", err)
	}

	return &booking, nil
}

// ListUpcoming получает активные бронирования пользователя начиная с now,
// по возрастанию времени, при равенстве — по возрастанию id.
func (r *BookingRepository) ListUpcoming(ctx context.Context, userID int64, role model.Role, now time.Time) ([]*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE ` + roleColumn(role) + ` = $1
		  AND status IN ('pending', 'accepted')
		  AND scheduled_at >= $2
		ORDER BY scheduled_at ASC, id ASC
	`

	rows, err := r.db.Query(ctx, query, userID, now)
	if err != nil {
		return nil, fmt.Errorf("list upcoming bookings: %w", err)
	}

	return collectBookings(rows)
}

// ListPast получает прошедшие бронирования: принятые с истёкшим временем и
// все отклонённые/отменённые/завершённые, по убыванию времени.
func (r *BookingRepository) ListPast(ctx context.Context, userID int64, role model.Role, now time.Time) ([]*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE ` + roleColumn(role) + ` = $1
		  AND (
		        (status = 'accepted' AND scheduled_at < $2)
		     OR status IN ('rejected', 'cancelled', 'completed')
		  )
		ORDER BY scheduled_at DESC, id DESC
	`

	rows, err := r.db.Query(ctx, query, userID, now)
	if err != nil {
		return nil, fmt.Errorf("list past bookings: %w", err)
	}

	return collectBookings(rows)
}

// ListInRange получает все бронирования пользователя в закрытом диапазоне
// времени (для календаря), любой статус.
func (r *BookingRepository) ListInRange(ctx context.Context, userID int64, role model.Role, from, to time.Time) ([]*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE ` + roleColumn(role) + ` = $1
		  AND scheduled_at >= $2
		  AND scheduled_at <= $3
		ORDER BY scheduled_at ASC, id ASC
	`

	rows, err := r.db.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list bookings in range: %w", err)
	}

	return collectBookings(rows)
}

// ListByCourseID получает все бронирования курса по убыванию времени
func (r *BookingRepository) ListByCourseID(ctx context.Context, courseID int64) ([]*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE course_id = $1
		ORDER BY scheduled_at DESC, id DESC
	`

	rows, err := r.db.Query(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("list bookings by course: %w", err)
	}

	return collectBookings(rows)
}

// UpdateStatus переводит бронирование в новый статус через compare-and-set:
// обновление проходит только из одного из ожидаемых статусов. Параллельный
// проигравший или переход из терминального статуса получает ErrConflict.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, from []model.BookingStatus, to model.BookingStatus) (*model.Booking, error) {
	query := `
		UPDATE bookings
		SET status = $1
		WHERE id = $2 AND status = ANY($3)
		RETURNING ` + bookingColumns + `
	`

	expected := make([]string, len(from))
	for i, s := range from {
		expected[i] = string(s)
	}

	var booking model.Booking
	err := scanBooking(r.db.QueryRow(ctx, query, to, id, expected), &booking)
	if err == nil {
		return &booking, nil
	}
	if err != pgx.ErrNoRows {
		return nil, fmt.Errorf("update booking status: %w", err)
	}

	// CAS не прошёл: различаем отсутствие записи и конфликт статуса.
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, apperr.NotFound(fmt.Sprintf("booking %d", id))
	}
	return nil, apperr.Conflict(fmt.Sprintf("booking %d is %s", id, current.Status))
}

// MarkCompletedBefore переводит принятые бронирования с истёкшим временем в
// completed. Возвращает количество обновлённых записей.
func (r *BookingRepository) MarkCompletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		UPDATE bookings
		SET status = 'completed'
		WHERE status = 'accepted' AND scheduled_at < $1
	`

	result, err := r.db.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("mark bookings completed: %w", err)
	}

	return result.RowsAffected(), nil
}

// CountByStatus считает бронирования в заданном статусе
func (r *BookingRepository) CountByStatus(ctx context.Context, status model.BookingStatus) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE status = $1`

	var count int64
	if err := r.db.QueryRow(ctx, query, status).Scan(&count); err != nil {
		return 0, fmt.Errorf("count bookings by status: %w", err)
	}

	return count, nil
}

// Delete удаляет бронирование
func (r *BookingRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM bookings WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound(fmt.Sprintf("booking %d", id))
	}

	return nil
}
