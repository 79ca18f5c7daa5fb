package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shivraj110504/RuralCare/pkg/logging"
)

// OrderLine is one item on an order confirmation.
type OrderLine struct {
	Name  string
	Price int
}

// OrderPlaced describes an order the user just created from the chat.
type OrderPlaced struct {
	OrderID     string
	UserName    string
	UserEmail   string
	Lines       []OrderLine
	DeliveryFee int
	Total       int
	PlacedAt    time.Time
}

// Service sends user-facing notifications.
type Service struct {
	email  EmailSender
	logger *logging.Logger
}

func NewService(email EmailSender, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{email: email, logger: logger}
}

// NotifyOrderPlaced emails a plain-text order summary. Users without an
// email address are skipped.
func (s *Service) NotifyOrderPlaced(ctx context.Context, evt OrderPlaced) error {
	if s == nil || s.email == nil {
		return nil
	}
	if strings.TrimSpace(evt.UserEmail) == "" {
		s.logger.Debug("notify: no email on file, skipping order confirmation", "order_id", evt.OrderID)
		return nil
	}

	msg := EmailMessage{
		To:      evt.UserEmail,
		ToName:  evt.UserName,
		Subject: fmt.Sprintf("Your order %s is pending", shortID(evt.OrderID)),
		Body:    orderBody(evt),
	}
	if err := s.email.Send(ctx, msg); err != nil {
		return fmt.Errorf("notify: order confirmation: %w", err)
	}
	return nil
}

func orderBody(evt OrderPlaced) string {
	var b strings.Builder
	name := strings.TrimSpace(evt.UserName)
	if name == "" {
		name = "there"
	}
	fmt.Fprintf(&b, "Hello %s,\n\n", name)
	b.WriteString("We've added the following to your cart:\n\n")
	for _, line := range evt.Lines {
		fmt.Fprintf(&b, "  - %s: ₹%d\n", line.Name, line.Price)
	}
	fmt.Fprintf(&b, "\nDelivery fee: ₹%d\n", evt.DeliveryFee)
	fmt.Fprintf(&b, "Total: ₹%d\n", evt.Total)
	if !evt.PlacedAt.IsZero() {
		fmt.Fprintf(&b, "Placed: %s\n", evt.PlacedAt.Format("January 2, 2006 at 3:04 PM"))
	}
	b.WriteString("\nComplete your purchase in the medicine delivery section.\n")
	b.WriteString("Always consult a doctor before taking any medication.\n")
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
