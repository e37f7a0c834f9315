package repository

import (
	"context"
	"fmt"

	"github.com/lessonhub/lessonhub/internal/model"
	"github.com/lessonhub/lessonhub/internal/repository/base"
)

type MessageRepository struct {
	db base.Querier
}

func NewMessageRepository(db base.Querier) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create создаёт новое сообщение
func (r *MessageRepository) Create(ctx context.Context, message *model.Message) error {
	query := `
		INSERT INTO messages (booking_id, sender_id, text)
		VALUES ($1, $2, $3)
		RETURNING id, sent_at
	`

	err := r.db.QueryRow(
		ctx, query,
		message.BookingID,
		message.SenderID,
		message.Text,
	).Scan(&message.ID, &message.SentAt)

	if err != nil {
		return fmt.Errorf("create message: %w", err)
	}

	return nil
}

// ListByBookingID получает сообщения бронирования по возрастанию времени отправки
func (r *MessageRepository) ListByBookingID(ctx context.Context, bookingID int64) ([]*model.Message, error) {
	query := `
		SELECT id, booking_id, sender_id, text, sent_at
		FROM messages
		WHERE booking_id = $1
		ORDER BY sent_at ASC, id ASC
	`

	rows, err := r.db.Query(ctx, query, bookingID)
	if err != nil {
		return nil, fmt.Errorf("list messages by booking: %w", err)
	}
	defer rows.Close()

	var messages []*model.Message
	for rows.Next() {
		var m model.Message
		err := rows.Scan(&m.ID, &m.BookingID, &m.SenderID, &m.Text, &m.SentAt)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, &m)
	}

	return messages, rows.Err()
}

// DeleteByBookingID удаляет все сообщения бронирования
func (r *MessageRepository) DeleteByBookingID(ctx context.Context, bookingID int64) (int64, error) {
	query := `DELETE FROM messages WHERE booking_id = $1`

	result, err := r.db.Exec(ctx, query, bookingID)
	if err != nil {
		return 0, fmt.Errorf("delete messages by booking: %w", err)
	}

	return result.RowsAffected(), nil
}
