package ordering

import (
	"context"

	"github.com/google/uuid"
)

type OrderRepo interface {
	Create(ctx context.Context, order *Order) error
	Get(ctx context.Context, id uuid.UUID) (*Order, error)
	// GetOpenByAccount returns the account's open order, or nil when the
	// account has none.
	GetOpenByAccount(ctx context.Context, accountID uuid.UUID) (*Order, error)
	// ListEndedByAccount returns the account's ended orders, oldest first.
	ListEndedByAccount(ctx context.Context, accountID uuid.UUID) ([]*Order, error)
	Save(ctx context.Context, order *Order) error
}

type SuborderRepo interface {
	Create(ctx context.Context, suborder *Suborder) error
	// GetActiveByOrder returns the order's unsent suborder, or nil when
	// nothing is being assembled.
	GetActiveByOrder(ctx context.Context, orderID uuid.UUID) (*Suborder, error)
	// ListSentByOrder returns the order's sent suborders in sequence order.
	ListSentByOrder(ctx context.Context, orderID uuid.UUID) ([]*Suborder, error)
	Save(ctx context.Context, suborder *Suborder) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type Repos struct {
	OrderRepo    OrderRepo
	SuborderRepo SuborderRepo
}
