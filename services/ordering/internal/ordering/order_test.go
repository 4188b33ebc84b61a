package ordering

import (
	"testing"
	"time"
)

func TestNewOrder(t *testing.T) {
	o := NewOrder()

	if !o.Open() {
		t.Errorf("new order must be open")
	}
	if o.ID.String() == "" {
		t.Errorf("expected a generated id")
	}
}

func TestOrderEnd(t *testing.T) {
	o := NewOrder()
	o.BeforeCreate()

	now := time.Now()
	o.End(now)

	if o.Open() {
		t.Errorf("ended order must not be open")
	}
	if o.Status != OrderEnded {
		t.Errorf("expected status %q, got %q", OrderEnded, o.Status)
	}
	if o.EndedAt == nil || !o.EndedAt.Equal(now) {
		t.Errorf("expected EndedAt %v, got %v", now, o.EndedAt)
	}
}

func TestOrderLocation(t *testing.T) {
	o := NewOrder()
	o.Timezone = "Europe/Rome"

	loc := o.Location()
	if _, err := time.LoadLocation("Europe/Rome"); err == nil && loc.String() != "Europe/Rome" {
		t.Errorf("expected Europe/Rome, got %s", loc)
	}

	o.Timezone = "Nowhere/Invalid"
	if o.Location() != time.UTC {
		t.Errorf("invalid timezone must fall back to UTC")
	}

	o.Timezone = ""
	if o.Location() != time.UTC {
		t.Errorf("empty timezone must fall back to UTC")
	}
}
