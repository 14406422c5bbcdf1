// Package notify delivers reservation hand-offs to members once a return has
// committed.
package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/YusovID/library-service/internal/domain"
)

// Notifier matches service.ReservationNotifier.
type Notifier interface {
	NotifyReservation(ctx context.Context, reservation domain.Reservation)
}

// Message is the payload pushed to a member when their reservation is served.
type Message struct {
	Type          string    `json:"type"`
	ReservationID int64     `json:"reservation_id"`
	MemberID      int64     `json:"member_id"`
	CopyID        int64     `json:"copy_id"`
	ReservedAt    time.Time `json:"reserved_at"`
	Text          string    `json:"text"`
}

func newMessage(r domain.Reservation) Message {
	return Message{
		Type:          "reservation_available",
		ReservationID: r.ID,
		MemberID:      r.MemberID,
		CopyID:        r.CopyID,
		ReservedAt:    r.ReservedAt,
		Text:          "the copy you reserved is available for borrowing",
	}
}

// LogNotifier records hand-offs in the service log in place of an e-mail gateway.
type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) NotifyReservation(_ context.Context, r domain.Reservation) {
	n.log.Info("reservation notified",
		slog.Int64("reservation_id", r.ID),
		slog.Int64("member_id", r.MemberID),
		slog.Int64("copy_id", r.CopyID),
	)
}

// Multi fans a hand-off out to several notifiers in order.
type Multi []Notifier

func (m Multi) NotifyReservation(ctx context.Context, r domain.Reservation) {
	for _, n := range m {
		n.NotifyReservation(ctx, r)
	}
}
