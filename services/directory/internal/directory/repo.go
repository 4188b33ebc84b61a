package directory

import (
	"context"

	"github.com/google/uuid"
)

type RestaurantRepo interface {
	Create(ctx context.Context, restaurant *Restaurant) error
	Get(ctx context.Context, id uuid.UUID) (*Restaurant, error)
	List(ctx context.Context) ([]*Restaurant, error)
}

type TableRepo interface {
	Create(ctx context.Context, table *Table) error
	Get(ctx context.Context, id uuid.UUID) (*Table, error)
	GetByCode(ctx context.Context, restaurantID uuid.UUID, code string) (*Table, error)
	ListByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]*Table, error)
}

type MenuRepo interface {
	Create(ctx context.Context, menu *Menu) error
	Get(ctx context.Context, id uuid.UUID) (*Menu, error)
	ListByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]*Menu, error)
}

type MenuItemRepo interface {
	Create(ctx context.Context, item *MenuItem) error
	Get(ctx context.Context, id uuid.UUID) (*MenuItem, error)
	ListByMenu(ctx context.Context, menuID uuid.UUID) ([]*MenuItem, error)
}
