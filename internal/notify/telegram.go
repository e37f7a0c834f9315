package notify

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/lessonhub/lessonhub/internal/model"
	"go.uber.org/zap"
)

// userResolver looks up the parties of a booking to find their chat ids.
type userResolver interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// Telegram delivers booking events over a Telegram bot. Users without a
// telegram id are skipped silently.
type Telegram struct {
	bot    *bot.Bot
	users  userResolver
	logger *zap.Logger
}

func NewTelegram(token string, users userResolver, logger *zap.Logger) (*Telegram, error) {
	b, err := bot.New(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &Telegram{bot: b, users: users, logger: logger}, nil
}

func (t *Telegram) BookingRequested(ctx context.Context, booking *model.Booking) error {
	text := fmt.Sprintf("📚 New lesson request #%d for %s", booking.ID, booking.ScheduledAt.Format("02.01.2006 15:04"))
	return t.send(ctx, booking.TeacherID, text)
}

func (t *Telegram) BookingStatusChanged(ctx context.Context, booking *model.Booking) error {
	text := fmt.Sprintf("📅 Lesson #%d on %s is now %s", booking.ID, booking.ScheduledAt.Format("02.01.2006 15:04"), booking.Status)
	if err := t.send(ctx, booking.StudentID, text); err != nil {
		return err
	}
	return t.send(ctx, booking.TeacherID, text)
}

func (t *Telegram) send(ctx context.Context, userID int64, text string) error {
	user, err := t.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("resolve user: %w", err)
	}
	if user == nil || user.TelegramID == 0 {
		return nil
	}

	_, err = t.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: user.TelegramID,
		Text:   text,
	})
	if err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}

	t.logger.Debug("Notification sent",
		zap.Int64("user_id", userID),
		zap.Int64("chat_id", user.TelegramID),
	)

	return nil
}
