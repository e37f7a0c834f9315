package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/lessonhub/lessonhub/internal/apperr"
	"github.com/lessonhub/lessonhub/internal/model"
	"go.uber.org/zap"
)

// MessageService обрабатывает переписку внутри бронирования. Обе операции
// проходят через AccessService.
type MessageService struct {
	messages MessageStore
	access   *AccessService
	logger   *zap.Logger
}

func NewMessageService(messages MessageStore, access *AccessService, logger *zap.Logger) *MessageService {
	return &MessageService{
		messages: messages,
		access:   access,
		logger:   logger,
	}
}

// List получает сообщения бронирования по возрастанию времени отправки
func (s *MessageService) List(ctx context.Context, bookingID, actorID int64, role model.Role) ([]*model.Message, error) {
	if _, err := s.access.BookingForActor(ctx, bookingID, actorID, role); err != nil {
		return nil, err
	}
	return s.messages.ListByBookingID(ctx, bookingID)
}

// Send отправляет сообщение в бронирование. Сообщение неизменяемо после
// отправки и живёт до каскадного удаления бронирования.
func (s *MessageService) Send(ctx context.Context, bookingID, actorID int64, role model.Role, text string) (*model.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperr.Validation("message text is empty")
	}

	if _, err := s.access.BookingForActor(ctx, bookingID, actorID, role); err != nil {
		return nil, err
	}

	message := &model.Message{
		BookingID: bookingID,
		SenderID:  actorID,
		Text:      text,
	}

	if err := s.messages.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	s.logger.Info("Message sent",
		zap.Int64("message_id", message.ID),
		zap.Int64("booking_id", bookingID),
		zap.Int64("sender_id", actorID),
	)

	return message, nil
}
