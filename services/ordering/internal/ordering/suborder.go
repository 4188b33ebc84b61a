package ordering

import (
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"

	"github.com/edotat/edotat/pkg/money"
)

// Suborder is one batch of items submitted together within an order. It is
// "active" while being assembled (SentAt nil) and historical once sent.
// Seq is the per-order sequence number; history order is Seq order.
type Suborder struct {
	ID        uuid.UUID  `json:"id" bson:"_id"`
	OrderID   uuid.UUID  `json:"order_id" bson:"order_id"`
	Seq       int        `json:"seq" bson:"seq"`
	StartedAt time.Time  `json:"started_at" bson:"started_at"`
	SentAt    *time.Time `json:"sent_at,omitempty" bson:"sent_at,omitempty"`
	Entries   []Entry    `json:"entries" bson:"entries"`
}

// Entry is an (item, quantity) line within a suborder. Quantity is always
// at least 1; an entry that would reach 0 is removed instead. The unit
// price and name are snapshotted from the menu item at first add.
type Entry struct {
	MenuItemID uuid.UUID    `json:"menu_item_id" bson:"menu_item_id"`
	Name       string       `json:"name" bson:"name"`
	UnitPrice  money.Amount `json:"unit_price" bson:"unit_price"`
	Quantity   int          `json:"quantity" bson:"quantity"`
}

// ItemRef identifies a menu item plus the snapshot data recorded when it
// first enters a suborder.
type ItemRef struct {
	MenuItemID uuid.UUID
	Name       string
	UnitPrice  money.Amount
}

func (s *Suborder) GetID() uuid.UUID {
	return s.ID
}

func (s *Suborder) ResourceType() string {
	return "suborder"
}

func (s *Suborder) SetID(id uuid.UUID) {
	s.ID = id
}

func NewSuborder(orderID uuid.UUID, seq int, startedAt time.Time) *Suborder {
	return &Suborder{
		ID:        apt.GenerateNewID(),
		OrderID:   orderID,
		Seq:       seq,
		StartedAt: startedAt,
		Entries:   []Entry{},
	}
}

func (s *Suborder) EnsureID() {
	if s.ID == uuid.Nil {
		s.ID = apt.GenerateNewID()
	}
}

// Active reports whether the suborder is still being assembled.
func (s *Suborder) Active() bool {
	return s.SentAt == nil
}

// Empty reports whether the suborder holds no entries.
func (s *Suborder) Empty() bool {
	return len(s.Entries) == 0
}

// Quantity returns the current quantity for a menu item, 0 when absent.
func (s *Suborder) Quantity(menuItemID uuid.UUID) int {
	for _, entry := range s.Entries {
		if entry.MenuItemID == menuItemID {
			return entry.Quantity
		}
	}
	return 0
}

// Increment adds one unit of the item, inserting a quantity-1 entry on
// first add. Returns the new quantity. Quantities are unbounded.
func (s *Suborder) Increment(item ItemRef) int {
	for i := range s.Entries {
		if s.Entries[i].MenuItemID == item.MenuItemID {
			s.Entries[i].Quantity++
			return s.Entries[i].Quantity
		}
	}
	s.Entries = append(s.Entries, Entry{
		MenuItemID: item.MenuItemID,
		Name:       item.Name,
		UnitPrice:  item.UnitPrice,
		Quantity:   1,
	})
	return 1
}

// Decrement removes one unit of the item. At quantity 1 the entry is
// dropped entirely and 0 is returned. The second result is false when the
// suborder holds no entry for the item.
func (s *Suborder) Decrement(menuItemID uuid.UUID) (int, bool) {
	for i := range s.Entries {
		if s.Entries[i].MenuItemID != menuItemID {
			continue
		}
		if s.Entries[i].Quantity <= 1 {
			s.Entries = append(s.Entries[:i], s.Entries[i+1:]...)
			return 0, true
		}
		s.Entries[i].Quantity--
		return s.Entries[i].Quantity, true
	}
	return 0, false
}

// Send stamps the transmission time, closing the suborder.
func (s *Suborder) Send(now time.Time) {
	s.SentAt = &now
}

// Total sums unit price times quantity over the suborder's entries.
func (s *Suborder) Total(currency money.Currency) (money.Amount, error) {
	amounts := make([]money.Amount, 0, len(s.Entries))
	for _, entry := range s.Entries {
		amounts = append(amounts, entry.UnitPrice.Times(entry.Quantity))
	}
	return money.Sum(currency, amounts...)
}
