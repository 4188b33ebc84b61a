package directory

import (
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"
)

// Table is a physical table in a restaurant. Code is the short
// human-enterable identifier printed at the table; ID is globally unique
// and is what QR codes encode.
type Table struct {
	ID           uuid.UUID `json:"id" bson:"_id"`
	RestaurantID uuid.UUID `json:"restaurant_id" bson:"restaurant_id"`
	Code         string    `json:"code" bson:"code"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

func (t *Table) GetID() uuid.UUID {
	return t.ID
}

func (t *Table) ResourceType() string {
	return "table"
}

func (t *Table) SetID(id uuid.UUID) {
	t.ID = id
}

func NewTable(restaurantID uuid.UUID, code string) *Table {
	return &Table{
		ID:           apt.GenerateNewID(),
		RestaurantID: restaurantID,
		Code:         code,
	}
}

func (t *Table) EnsureID() {
	if t.ID == uuid.Nil {
		t.ID = apt.GenerateNewID()
	}
}

func (t *Table) BeforeCreate() {
	t.EnsureID()
	t.CreatedAt = time.Now()
	t.UpdatedAt = time.Now()
}

func (t *Table) BeforeUpdate() {
	t.UpdatedAt = time.Now()
}
