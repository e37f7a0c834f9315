package notify

import (
	"context"

	"github.com/lessonhub/lessonhub/internal/model"
)

// Notifier delivers booking events to the parties involved. Delivery is best
// effort; callers log failures and move on.
type Notifier interface {
	// BookingRequested tells the teacher a new request is waiting.
	BookingRequested(ctx context.Context, booking *model.Booking) error
	// BookingStatusChanged tells both parties about a transition.
	BookingStatusChanged(ctx context.Context, booking *model.Booking) error
}

// Nop is the notifier used when no delivery channel is configured.
type Nop struct{}

func (Nop) BookingRequested(context.Context, *model.Booking) error     { return nil }
func (Nop) BookingStatusChanged(context.Context, *model.Booking) error { return nil }
