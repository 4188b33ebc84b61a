package event

import "time"

const (
	// OrderSubordersTopic carries suborder lifecycle events from the
	// ordering service.
	OrderSubordersTopic = "orders.suborders"
	// OrdersTopic carries order lifecycle events from the ordering service.
	OrdersTopic = "orders.lifecycle"

	EventSuborderSent = "order.suborder.sent"
	EventOrderEnded   = "order.ended"
)

// SuborderSentEvent is published when a suborder batch is transmitted to the
// kitchen. Entry data is denormalized so consumers can render tickets
// without calling back into the ordering service.
type SuborderSentEvent struct {
	EventType  string          `json:"event_type"`
	OccurredAt time.Time       `json:"occurred_at"`
	OrderID    string          `json:"order_id"`
	SuborderID string          `json:"suborder_id"`
	Seq        int             `json:"seq"`
	TableID    string          `json:"table_id,omitempty"`
	Entries    []SuborderEntry `json:"entries"`
}

// SuborderEntry is one (item, quantity) line of a sent suborder.
type SuborderEntry struct {
	MenuItemID string `json:"menu_item_id"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	UnitPrice  int64  `json:"unit_price"`
	Currency   string `json:"currency"`
}

// OrderEndedEvent is published when a dining session closes and the order
// moves into per-account history.
type OrderEndedEvent struct {
	EventType     string    `json:"event_type"`
	OccurredAt    time.Time `json:"occurred_at"`
	OrderID       string    `json:"order_id"`
	AccountID     string    `json:"account_id"`
	TableID       string    `json:"table_id"`
	SuborderCount int       `json:"suborder_count"`
	TotalUnits    int64     `json:"total_units"`
	Currency      string    `json:"currency"`
}
