package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shivraj110504/RuralCare/internal/conversation"
	"github.com/shivraj110504/RuralCare/internal/knowledge"
	"github.com/shivraj110504/RuralCare/internal/notify"
	"github.com/shivraj110504/RuralCare/pkg/logging"
)

// OrderNotifier is told about every order the cart creates.
type OrderNotifier interface {
	NotifyOrderPlaced(ctx context.Context, evt notify.OrderPlaced) error
}

// CartService turns a recommended catalog item into a pending order.
type CartService struct {
	store       Store
	notifier    OrderNotifier
	deliveryFee int
	logger      *logging.Logger
}

var _ conversation.CartSink = (*CartService)(nil)

// NewCartService builds a cart over store. notifier may be nil. A
// non-positive fee falls back to DefaultDeliveryFee.
func NewCartService(store Store, notifier OrderNotifier, deliveryFee int, logger *logging.Logger) *CartService {
	if store == nil {
		panic("orders: store required")
	}
	if deliveryFee <= 0 {
		deliveryFee = DefaultDeliveryFee
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &CartService{store: store, notifier: notifier, deliveryFee: deliveryFee, logger: logger}
}

func (c *CartService) AddToCart(ctx context.Context, user conversation.User, item knowledge.CatalogItem) (conversation.OrderRef, error) {
	if strings.TrimSpace(user.ID) == "" {
		return conversation.OrderRef{}, errors.New("orders: user id required")
	}
	if item.ID <= 0 || item.Price <= 0 {
		return conversation.OrderRef{}, fmt.Errorf("orders: invalid catalog item %d", item.ID)
	}

	order := &Order{
		UserID: user.ID,
		Type:   TypeMedicine,
		Details: Details{
			Items: []Item{{
				ID:      item.ID,
				Name:    item.Name,
				Generic: item.Generic,
				Price:   item.Price,
			}},
			SpecialInstructions: AssistantInstructions,
			DeliveryFee:         c.deliveryFee,
		},
		Total:  item.Price + c.deliveryFee,
		Status: StatusPending,
	}
	if err := c.store.Create(ctx, order); err != nil {
		return conversation.OrderRef{}, err
	}

	if c.notifier != nil {
		evt := notify.OrderPlaced{
			OrderID:     order.ID.String(),
			UserName:    user.Name,
			UserEmail:   user.Email,
			Lines:       []notify.OrderLine{{Name: item.Name, Price: item.Price}},
			DeliveryFee: c.deliveryFee,
			Total:       order.Total,
			PlacedAt:    order.CreatedAt,
		}
		if err := c.notifier.NotifyOrderPlaced(ctx, evt); err != nil {
			c.logger.Warn("order confirmation not sent", "error", err, "order_id", order.ID)
		}
	}

	return conversation.OrderRef{OrderID: order.ID.String(), Total: order.Total}, nil
}

// Orders lists a user's orders, newest first.
func (c *CartService) Orders(ctx context.Context, userID string) ([]Order, error) {
	return c.store.ListByUser(ctx, userID)
}
