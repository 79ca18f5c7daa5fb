package orders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	TypeMedicine  = "medicine"
	StatusPending = "pending"

	// DefaultDeliveryFee is added to every medicine order, in rupees.
	DefaultDeliveryFee = 40
	// AssistantInstructions marks orders created from a chat recommendation.
	AssistantInstructions = "Added from AI Assistant"
)

// ErrOrderNotFound is returned when no order matches the lookup.
var ErrOrderNotFound = errors.New("orders: order not found")

// Item is a catalog item captured at the price it was ordered for.
type Item struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Generic      string `json:"generic"`
	Price        int    `json:"price"`
	Prescription bool   `json:"prescription"`
}

// Details is stored alongside the order as a JSON document.
type Details struct {
	Items               []Item `json:"items"`
	Address             string `json:"address"`
	SpecialInstructions string `json:"specialInstructions"`
	DeliveryFee         int    `json:"deliveryFee"`
}

type Order struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"user_id"`
	Type      string    `json:"order_type"`
	Details   Details   `json:"order_details"`
	Total     int       `json:"total_amount"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Subtotal is the sum of item prices without the delivery fee.
func (o Order) Subtotal() int {
	sum := 0
	for _, it := range o.Details.Items {
		sum += it.Price
	}
	return sum
}

// Store persists orders.
type Store interface {
	Create(ctx context.Context, order *Order) error
	Get(ctx context.Context, id uuid.UUID) (Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
}
