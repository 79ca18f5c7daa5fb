package conversation

import (
	"context"
	"strings"

	"github.com/shivraj110504/RuralCare/internal/knowledge"
)

// User is the signed-in person a conversation belongs to.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// DisplayName is the name used in greetings and prompts.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	return strings.TrimSpace(u.Name)
}

// IdentityProvider reports the user attached to a conversation, if any.
type IdentityProvider interface {
	CurrentUser(ctx context.Context) (*User, bool)
}

// StaticIdentity always reports the same user. A nil User means anonymous.
type StaticIdentity struct {
	User *User
}

func (s StaticIdentity) CurrentUser(context.Context) (*User, bool) {
	if s.User == nil || strings.TrimSpace(s.User.ID) == "" {
		return nil, false
	}
	u := *s.User
	return &u, true
}

// OrderRef identifies the order a cart addition created.
type OrderRef struct {
	OrderID string `json:"order_id"`
	Total   int    `json:"total"`
}

// CartSink accepts catalog items the user chose from a recommendation.
type CartSink interface {
	AddToCart(ctx context.Context, user User, item knowledge.CatalogItem) (OrderRef, error)
}
