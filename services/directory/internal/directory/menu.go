package directory

import (
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"

	"github.com/edotat/edotat/pkg/money"
)

// MinutesPerDay bounds a menu's active window. Windows do not wrap past
// midnight.
const MinutesPerDay = 24 * 60

// MinuteOfDay converts a 24h clock reading to minutes since midnight.
func MinuteOfDay(hour24, minute int) int {
	return hour24*60 + minute
}

// LocalMinuteOfDay returns the minute of day for t in the given location.
func LocalMinuteOfDay(t time.Time, loc *time.Location) int {
	local := t.In(loc)
	return MinuteOfDay(local.Hour(), local.Minute())
}

// Menu is a named set of items offered by a restaurant during a
// time-of-day window. A restaurant may carry several (breakfast, lunch,
// dinner); only menus whose window contains the current local time are
// orderable.
type Menu struct {
	ID           uuid.UUID `json:"id" bson:"_id"`
	RestaurantID uuid.UUID `json:"restaurant_id" bson:"restaurant_id"`
	Name         string    `json:"name" bson:"name"`
	StartMinute  int       `json:"start_minute" bson:"start_minute"`
	EndMinute    int       `json:"end_minute" bson:"end_minute"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

func (m *Menu) GetID() uuid.UUID {
	return m.ID
}

func (m *Menu) ResourceType() string {
	return "menu"
}

func (m *Menu) SetID(id uuid.UUID) {
	m.ID = id
}

func NewMenu(restaurantID uuid.UUID, name string, startMinute, endMinute int) *Menu {
	return &Menu{
		ID:           apt.GenerateNewID(),
		RestaurantID: restaurantID,
		Name:         name,
		StartMinute:  startMinute,
		EndMinute:    endMinute,
	}
}

func (m *Menu) EnsureID() {
	if m.ID == uuid.Nil {
		m.ID = apt.GenerateNewID()
	}
}

func (m *Menu) BeforeCreate() {
	m.EnsureID()
	m.CreatedAt = time.Now()
	m.UpdatedAt = time.Now()
}

func (m *Menu) BeforeUpdate() {
	m.UpdatedAt = time.Now()
}

// ActiveAt reports whether the window contains the given minute of day.
// Both bounds are inclusive.
func (m *Menu) ActiveAt(minuteOfDay int) bool {
	return minuteOfDay >= m.StartMinute && minuteOfDay <= m.EndMinute
}

// MenuItem is one orderable dish on a menu. Items carry an explicit UUID so
// two dishes with identical display fields stay distinguishable.
type MenuItem struct {
	ID          uuid.UUID    `json:"id" bson:"_id"`
	MenuID      uuid.UUID    `json:"menu_id" bson:"menu_id"`
	Category    string       `json:"category" bson:"category"`
	Position    int          `json:"position" bson:"position"`
	Name        string       `json:"name" bson:"name"`
	Description string       `json:"description,omitempty" bson:"description,omitempty"`
	Price       money.Amount `json:"price" bson:"price"`
	CreatedAt   time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" bson:"updated_at"`
}

func (i *MenuItem) GetID() uuid.UUID {
	return i.ID
}

func (i *MenuItem) ResourceType() string {
	return "menu-item"
}

func (i *MenuItem) SetID(id uuid.UUID) {
	i.ID = id
}

func NewMenuItem(menuID uuid.UUID, category, name string, price money.Amount) *MenuItem {
	return &MenuItem{
		ID:       apt.GenerateNewID(),
		MenuID:   menuID,
		Category: category,
		Name:     name,
		Price:    price,
	}
}

func (i *MenuItem) EnsureID() {
	if i.ID == uuid.Nil {
		i.ID = apt.GenerateNewID()
	}
}

func (i *MenuItem) BeforeCreate() {
	i.EnsureID()
	i.CreatedAt = time.Now()
	i.UpdatedAt = time.Now()
}

func (i *MenuItem) BeforeUpdate() {
	i.UpdatedAt = time.Now()
}
