package ordering

import (
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"

	"github.com/edotat/edotat/pkg/money"
)

type OrderStatus string

const (
	OrderOpen  OrderStatus = "open"
	OrderEnded OrderStatus = "ended"
)

// Order is one dining session: one account at one table, ordering from one
// menu. An account has at most one open order at a time; once ended the
// order is immutable history.
type Order struct {
	ID           uuid.UUID      `json:"id" bson:"_id"`
	AccountID    uuid.UUID      `json:"account_id" bson:"account_id"`
	RestaurantID uuid.UUID      `json:"restaurant_id" bson:"restaurant_id"`
	TableID      uuid.UUID      `json:"table_id" bson:"table_id"`
	MenuID       uuid.UUID      `json:"menu_id" bson:"menu_id"`
	Currency     money.Currency `json:"currency" bson:"currency"`
	Timezone     string         `json:"timezone" bson:"timezone"`
	Status       OrderStatus    `json:"status" bson:"status"`
	StartedAt    time.Time      `json:"started_at" bson:"started_at"`
	EndedAt      *time.Time     `json:"ended_at,omitempty" bson:"ended_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" bson:"updated_at"`
}

func (o *Order) GetID() uuid.UUID {
	return o.ID
}

func (o *Order) ResourceType() string {
	return "order"
}

func (o *Order) SetID(id uuid.UUID) {
	o.ID = id
}

func NewOrder() *Order {
	return &Order{
		ID:     apt.GenerateNewID(),
		Status: OrderOpen,
	}
}

func (o *Order) EnsureID() {
	if o.ID == uuid.Nil {
		o.ID = apt.GenerateNewID()
	}
}

func (o *Order) BeforeCreate() {
	o.EnsureID()
	o.CreatedAt = time.Now()
	o.UpdatedAt = time.Now()
}

func (o *Order) BeforeUpdate() {
	o.UpdatedAt = time.Now()
}

func (o *Order) Open() bool {
	return o.Status == OrderOpen
}

// End closes the session. Timestamps are recorded in the restaurant's
// local time.
func (o *Order) End(now time.Time) {
	o.Status = OrderEnded
	o.EndedAt = &now
	o.UpdatedAt = time.Now()
}

// Location resolves the restaurant timezone captured when the order began,
// falling back to UTC.
func (o *Order) Location() *time.Location {
	loc, err := time.LoadLocation(o.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// OrderRecord pairs an ended order with its sent suborders for the
// per-account history ledger.
type OrderRecord struct {
	Order     *Order      `json:"order"`
	Suborders []*Suborder `json:"suborders"`
}
