package ordering

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"

	"github.com/edotat/edotat/pkg/money"
)

// Precondition violations. Each signals a caller trying an operation the
// order's current state does not allow; state is never changed on error.
var (
	ErrOrderAlreadyOpen      = errors.New("account already has an open order")
	ErrNoOpenOrder           = errors.New("account has no open order")
	ErrSuborderAlreadyActive = errors.New("a suborder is already being assembled")
	ErrNoActiveSuborder      = errors.New("no suborder is being assembled")
	ErrNoSuchEntry           = errors.New("item has no entry in the active suborder")
	ErrActiveSuborderExists  = errors.New("active suborder must be sent or discarded before ending the order")
)

// OrderRef carries the table/menu context captured when an order begins.
type OrderRef struct {
	RestaurantID uuid.UUID
	TableID      uuid.UUID
	MenuID       uuid.UUID
	Currency     money.Currency
	Timezone     string
}

// Ledger owns all order and suborder state transitions for every account.
// Each operation is a read-modify-write over the account's open order, so
// the ledger serializes operations per account: two concurrent increments
// on the same item must never lose an update.
type Ledger struct {
	orders    OrderRepo
	suborders SuborderRepo
	logger    apt.Logger

	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex

	// now is replaceable in tests.
	now func() time.Time
}

func NewLedger(repos Repos, logger apt.Logger) *Ledger {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Ledger{
		orders:    repos.OrderRepo,
		suborders: repos.SuborderRepo,
		logger:    logger,
		locks:     make(map[uuid.UUID]*sync.Mutex),
		now:       time.Now,
	}
}

// lock acquires the account's mutex, creating it on first use. Mutexes are
// never removed; the per-account footprint is one mutex for the lifetime
// of the process.
func (l *Ledger) lock(accountID uuid.UUID) func() {
	l.mu.Lock()
	m, ok := l.locks[accountID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[accountID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// localNow is the current time in the order's restaurant timezone.
func (l *Ledger) localNow(order *Order) time.Time {
	return l.now().In(order.Location())
}

// BeginOrder opens a dining session for the account. At most one order may
// be open per account; a second BeginOrder fails with ErrOrderAlreadyOpen.
func (l *Ledger) BeginOrder(ctx context.Context, accountID uuid.UUID, ref OrderRef) (*Order, error) {
	defer l.lock(accountID)()

	existing, err := l.orders.GetOpenByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("lookup open order: %w", err)
	}
	if existing != nil {
		return nil, ErrOrderAlreadyOpen
	}

	order := NewOrder()
	order.AccountID = accountID
	order.RestaurantID = ref.RestaurantID
	order.TableID = ref.TableID
	order.MenuID = ref.MenuID
	order.Currency = ref.Currency
	order.Timezone = ref.Timezone
	order.BeforeCreate()
	order.StartedAt = l.localNow(order)

	if err := l.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	l.logger.Info("order opened", "order_id", order.ID.String(), "account_id", accountID.String(), "table_id", ref.TableID.String())
	return order, nil
}

// ActiveOrder returns the account's open order, or nil when there is none.
// Clients use it on reconnect to resume without re-selecting table/menu.
func (l *Ledger) ActiveOrder(ctx context.Context, accountID uuid.UUID) (*Order, error) {
	return l.orders.GetOpenByAccount(ctx, accountID)
}

// BeginSuborder explicitly opens the active suborder. Most callers rely on
// IncrementItem's lazy creation instead; an explicit begin with one already
// active fails with ErrSuborderAlreadyActive.
func (l *Ledger) BeginSuborder(ctx context.Context, accountID uuid.UUID) (*Suborder, error) {
	defer l.lock(accountID)()

	order, err := l.requireOpenOrder(ctx, accountID)
	if err != nil {
		return nil, err
	}

	active, err := l.suborders.GetActiveByOrder(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("lookup active suborder: %w", err)
	}
	if active != nil {
		return nil, ErrSuborderAlreadyActive
	}

	return l.openSuborder(ctx, order)
}

// ActiveSuborder returns the in-progress suborder with its entries, or nil
// when nothing is being assembled.
func (l *Ledger) ActiveSuborder(ctx context.Context, accountID uuid.UUID) (*Suborder, error) {
	order, err := l.requireOpenOrder(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return l.suborders.GetActiveByOrder(ctx, order.ID)
}

// IncrementItem adds one unit of the item to the active suborder, creating
// the suborder lazily on the first modification. Returns the new quantity,
// always at least 1. Quantities are deliberately unbounded: no business
// rule caps them.
func (l *Ledger) IncrementItem(ctx context.Context, accountID uuid.UUID, item ItemRef) (int, error) {
	defer l.lock(accountID)()

	order, err := l.requireOpenOrder(ctx, accountID)
	if err != nil {
		return 0, err
	}

	active, err := l.suborders.GetActiveByOrder(ctx, order.ID)
	if err != nil {
		return 0, fmt.Errorf("lookup active suborder: %w", err)
	}
	if active == nil {
		active, err = l.openSuborder(ctx, order)
		if err != nil {
			return 0, err
		}
	}

	quantity := active.Increment(item)
	if err := l.suborders.Save(ctx, active); err != nil {
		return 0, fmt.Errorf("save suborder: %w", err)
	}

	return quantity, nil
}

// DecrementItem removes one unit of the item from the active suborder.
// Decrementing an item with no entry fails with ErrNoSuchEntry rather than
// no-opping, so a caller whose view has drifted finds out immediately.
// When the last unit of the last item is removed the suborder is discarded
// outright; an emptied suborder is never sent or recorded.
func (l *Ledger) DecrementItem(ctx context.Context, accountID uuid.UUID, menuItemID uuid.UUID) (int, error) {
	defer l.lock(accountID)()

	order, err := l.requireOpenOrder(ctx, accountID)
	if err != nil {
		return 0, err
	}

	active, err := l.suborders.GetActiveByOrder(ctx, order.ID)
	if err != nil {
		return 0, fmt.Errorf("lookup active suborder: %w", err)
	}
	if active == nil {
		return 0, ErrNoActiveSuborder
	}

	quantity, found := active.Decrement(menuItemID)
	if !found {
		return 0, ErrNoSuchEntry
	}

	if active.Empty() {
		if err := l.suborders.Delete(ctx, active.ID); err != nil {
			return 0, fmt.Errorf("discard empty suborder: %w", err)
		}
		l.logger.Info("empty suborder discarded", "order_id", order.ID.String(), "suborder_id", active.ID.String())
		return quantity, nil
	}

	if err := l.suborders.Save(ctx, active); err != nil {
		return 0, fmt.Errorf("save suborder: %w", err)
	}

	return quantity, nil
}

// SendSuborder transmits the active suborder: stamps the send time, moves
// it into history, and clears the active slot. Sending with nothing active
// fails with ErrNoActiveSuborder; a second send without an intervening
// increment fails the same way.
func (l *Ledger) SendSuborder(ctx context.Context, accountID uuid.UUID) (*Suborder, error) {
	defer l.lock(accountID)()

	order, err := l.requireOpenOrder(ctx, accountID)
	if err != nil {
		return nil, err
	}

	active, err := l.suborders.GetActiveByOrder(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("lookup active suborder: %w", err)
	}
	if active == nil {
		return nil, ErrNoActiveSuborder
	}

	active.Send(l.localNow(order))
	if err := l.suborders.Save(ctx, active); err != nil {
		return nil, fmt.Errorf("save suborder: %w", err)
	}

	l.logger.Info("suborder sent", "order_id", order.ID.String(), "suborder_id", active.ID.String(), "seq", active.Seq, "entries", len(active.Entries))
	return active, nil
}

// SuborderHistory returns the order's sent suborders in send order.
func (l *Ledger) SuborderHistory(ctx context.Context, accountID uuid.UUID) ([]*Suborder, error) {
	order, err := l.requireOpenOrder(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return l.suborders.ListSentByOrder(ctx, order.ID)
}

// CurrentTotal sums price times quantity across the sent suborders of the
// open order. The active suborder never contributes. Every entry must be
// denominated in currency; a mismatch is an error, never a conversion.
func (l *Ledger) CurrentTotal(ctx context.Context, accountID uuid.UUID, currency money.Currency) (money.Amount, error) {
	order, err := l.requireOpenOrder(ctx, accountID)
	if err != nil {
		return money.Amount{}, err
	}

	sent, err := l.suborders.ListSentByOrder(ctx, order.ID)
	if err != nil {
		return money.Amount{}, fmt.Errorf("list sent suborders: %w", err)
	}

	total := money.Amount{Currency: currency}
	for _, suborder := range sent {
		subtotal, err := suborder.Total(currency)
		if err != nil {
			return money.Amount{}, err
		}
		total.Units += subtotal.Units
	}
	return total, nil
}

// EndOrder closes the account's open order, moving it with its suborder
// record into per-account history. The active suborder must be sent or
// discarded first; otherwise ErrActiveSuborderExists.
func (l *Ledger) EndOrder(ctx context.Context, accountID uuid.UUID) (*Order, error) {
	defer l.lock(accountID)()

	order, err := l.requireOpenOrder(ctx, accountID)
	if err != nil {
		return nil, err
	}

	active, err := l.suborders.GetActiveByOrder(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("lookup active suborder: %w", err)
	}
	if active != nil {
		return nil, ErrActiveSuborderExists
	}

	order.End(l.localNow(order))
	if err := l.orders.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("end order: %w", err)
	}

	l.logger.Info("order ended", "order_id", order.ID.String(), "account_id", accountID.String())
	return order, nil
}

// OrderHistory returns the account's ended orders with their suborder
// records, oldest first.
func (l *Ledger) OrderHistory(ctx context.Context, accountID uuid.UUID) ([]OrderRecord, error) {
	ended, err := l.orders.ListEndedByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("list ended orders: %w", err)
	}

	records := make([]OrderRecord, 0, len(ended))
	for _, order := range ended {
		suborders, err := l.suborders.ListSentByOrder(ctx, order.ID)
		if err != nil {
			return nil, fmt.Errorf("list suborders for order %s: %w", order.ID, err)
		}
		records = append(records, OrderRecord{Order: order, Suborders: suborders})
	}
	return records, nil
}

func (l *Ledger) requireOpenOrder(ctx context.Context, accountID uuid.UUID) (*Order, error) {
	order, err := l.orders.GetOpenByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("lookup open order: %w", err)
	}
	if order == nil {
		return nil, ErrNoOpenOrder
	}
	return order, nil
}

func (l *Ledger) openSuborder(ctx context.Context, order *Order) (*Suborder, error) {
	sent, err := l.suborders.ListSentByOrder(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("list sent suborders: %w", err)
	}

	suborder := NewSuborder(order.ID, len(sent)+1, l.localNow(order))
	if err := l.suborders.Create(ctx, suborder); err != nil {
		return nil, fmt.Errorf("create suborder: %w", err)
	}

	l.logger.Info("suborder opened", "order_id", order.ID.String(), "suborder_id", suborder.ID.String(), "seq", suborder.Seq)
	return suborder, nil
}
