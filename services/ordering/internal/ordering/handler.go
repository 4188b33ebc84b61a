package ordering

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"
	"github.com/appetiteclub/apt/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/edotat/edotat/pkg/event"
	"github.com/edotat/edotat/pkg/money"
)

const MaxBodyBytes = 1 << 20

type Handler struct {
	logger    apt.Logger
	config    *apt.Config
	tlm       *telemetry.HTTP
	ledger    *Ledger
	directory Directory
	accounts  AccountResolver
	publisher events.Publisher
}

type HandlerDeps struct {
	Ledger    *Ledger
	Directory Directory
	Accounts  AccountResolver
	Publisher events.Publisher
}

func NewHandler(hd HandlerDeps, config *apt.Config, logger apt.Logger) *Handler {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}

	return &Handler{
		config:    config,
		logger:    logger,
		tlm:       telemetry.NewHTTP(),
		ledger:    hd.Ledger,
		directory: hd.Directory,
		accounts:  hd.Accounts,
		publisher: hd.Publisher,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Post("/", h.BeginOrder)
		r.Get("/history", h.OrderHistory)

		r.Route("/active", func(r chi.Router) {
			r.Get("/", h.ActiveOrder)
			r.Get("/total", h.CurrentTotal)
			r.Post("/end", h.EndOrder)
			r.Get("/suborders", h.SuborderHistory)

			r.Route("/suborder", func(r chi.Router) {
				r.Post("/", h.BeginSuborder)
				r.Get("/", h.ActiveSuborder)
				r.Post("/send", h.SendSuborder)
			})

			r.Route("/items/{menuItemID}", func(r chi.Router) {
				r.Post("/increment", h.IncrementItem)
				r.Post("/decrement", h.DecrementItem)
			})
		})
	})
}

// Order lifecycle

func (h *Handler) BeginOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.BeginOrder")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	accountID, ok := h.account(w, r, log)
	if !ok {
		return
	}

	req, ok := h.decodeBeginOrderPayload(w, r, log)
	if !ok {
		return
	}

	if req.TableID == uuid.Nil {
		log.Debug("missing table id in begin order request")
		apt.RespondError(w, http.StatusBadRequest, "table_id is required")
		return
	}
	if req.MenuID == uuid.Nil {
		log.Debug("missing menu id in begin order request")
		apt.RespondError(w, http.StatusBadRequest, "menu_id is required")
		return
	}

	table, err := h.directory.Table(ctx, req.TableID)
	if err != nil {
		log.Error("cannot resolve table", "error", err, "table_id", req.TableID.String())
		apt.RespondError(w, http.StatusBadGateway, "Could not verify table")
		return
	}
	if table == nil {
		apt.RespondError(w, http.StatusBadRequest, "Unknown table")
		return
	}

	menu, err := h.directory.Menu(ctx, req.MenuID)
	if err != nil {
		log.Error("cannot resolve menu", "error", err, "menu_id", req.MenuID.String())
		apt.RespondError(w, http.StatusBadGateway, "Could not verify menu")
		return
	}
	if menu == nil || menu.RestaurantID != table.RestaurantID {
		apt.RespondError(w, http.StatusBadRequest, "Menu does not belong to the table's restaurant")
		return
	}

	restaurant, err := h.directory.Restaurant(ctx, table.RestaurantID)
	if err != nil || restaurant == nil {
		log.Error("cannot resolve restaurant", "error", err, "restaurant_id", table.RestaurantID.String())
		apt.RespondError(w, http.StatusBadGateway, "Could not verify restaurant")
		return
	}

	currency, err := money.Parse(restaurant.Currency)
	if err != nil {
		log.Error("restaurant has unsupported currency", "currency", restaurant.Currency)
		apt.RespondError(w, http.StatusUnprocessableEntity, "Restaurant currency not supported")
		return
	}

	order, err := h.ledger.BeginOrder(ctx, accountID, OrderRef{
		RestaurantID: table.RestaurantID,
		TableID:      table.ID,
		MenuID:       menu.ID,
		Currency:     currency,
		Timezone:     restaurant.Timezone,
	})
	if err != nil {
		h.respondLedgerError(w, log, err, "cannot begin order")
		return
	}

	links := apt.RESTfulLinksFor(order)
	w.WriteHeader(http.StatusCreated)
	apt.RespondSuccess(w, order, links...)
}

func (h *Handler) ActiveOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ActiveOrder")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	accountID, ok := h.account(w, r, log)
	if !ok {
		return
	}

	order, err := h.ledger.ActiveOrder(ctx, accountID)
	if err != nil {
		log.Error("cannot load active order", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not load active order")
		return
	}
	if order == nil {
		apt.RespondError(w, http.StatusNotFound, "No open order")
		return
	}

	links := apt.RESTfulLinksFor(order)
	apt.RespondSuccess(w, order, links...)
}

func (h *Handler) EndOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.EndOrder")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	accountID, ok := h.account(w, r, log)
	if !ok {
		return
	}

	// Snapshot the bill before closing; once the order is ended its
	// suborders are reachable only through history.
	sent, err := h.ledger.SuborderHistory(ctx, accountID)
	if err != nil {
		log.Error("cannot snapshot suborder history for end event", "error", err)
	}

	order, err := h.ledger.EndOrder(ctx, accountID)
	if err != nil {
		h.respondLedgerError(w, log, err, "cannot end order")
		return
	}

	h.publishOrderEnded(ctx, order, sent)

	links := apt.RESTfulLinksFor(order)
	apt.RespondSuccess(w, order, links...)
}

func (h *Handler) OrderHistory(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.OrderHistory")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	accountID, ok := h.account(w, r, log)
	if !ok {
		return
	}

	records, err := h.ledger.OrderHistory(ctx, accountID)
	if err != nil {
		log.Error("cannot load order history", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not load order history")
		return
	}

	apt.RespondCollection(w, records, "order")
}

// Suborder assembly

func (h *Handler) BeginSuborder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.BeginSuborder")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	accountID, ok := h.account(w, r, log)
	if !ok {
		return
	}

	suborder, err := h.ledger.BeginSuborder(ctx, accountID)
	if err != nil {
		h.respondLedgerError(w, log, err, "cannot begin suborder")
		return
	}

	links := apt.RESTfulLinksFor(suborder)
	w.WriteHeader(http.StatusCreated)
	apt.RespondSuccess(w, suborder, links...)
}

func (h *Handler) ActiveSuborder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ActiveSuborder")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	accountID, ok := h.account(w, r, log)
	if !ok {
		return
	}

	suborder, err := h.ledger.ActiveSuborder(ctx, accountID)
	if err != nil {
		h.respondLedgerError(w, log, err, "cannot load active suborder")
		return
	}
	if suborder == nil {
		apt.RespondError(w, http.StatusNotFound, "No active suborder")
		return
	}

	links := apt.RESTfulLinksFor(suborder)
	apt.RespondSuccess(w, suborder, links...)
}

func (h *Handler) IncrementItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.IncrementItem")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	accountID, ok := h.account(w, r, log)
	if !ok {
		return
	}

	menuItemID, ok := h.parseMenuItemID(w, r, log)
	if !ok {
		return
	}

	req, ok := h.decodeItemPayload(w, r, log)
	if !ok {
		return
	}

	if req.Name == "" {
		log.Debug("missing item name in increment request")
		apt.RespondError(w, http.StatusBadRequest, "name is required")
		return
	}
	currency, err := money.Parse(req.Currency)
	if err != nil {
		log.Debug("invalid currency in increment request", "currency", req.Currency)
		apt.RespondError(w, http.StatusBadRequest, "Invalid currency")
		return
	}

	item := ItemRef{
		MenuItemID: menuItemID,
		Name:       req.Name,
		UnitPrice:  money.Amount{Units: req.UnitPrice, Currency: currency},
	}

	quantity, err := h.ledger.IncrementItem(ctx, accountID, item)
	if err != nil {
		h.respondLedgerError(w, log, err, "cannot increment item")
		return
	}

	apt.Respond(w, http.StatusOK, QuantityResponse{MenuItemID: menuItemID, Quantity: quantity}, nil)
}

func (h *Handler) DecrementItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DecrementItem")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	accountID, ok := h.account(w, r, log)
	if !ok {
		return
	}

	menuItemID, ok := h.parseMenuItemID(w, r, log)
	if !ok {
		return
	}

	quantity, err := h.ledger.DecrementItem(ctx, accountID, menuItemID)
	if err != nil {
		h.respondLedgerError(w, log, err, "cannot decrement item")
		return
	}

	apt.Respond(w, http.StatusOK, QuantityResponse{MenuItemID: menuItemID, Quantity: quantity}, nil)
}

func (h *Handler) SendSuborder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SendSuborder")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	accountID, ok := h.account(w, r, log)
	if !ok {
		return
	}

	suborder, err := h.ledger.SendSuborder(ctx, accountID)
	if err != nil {
		h.respondLedgerError(w, log, err, "cannot send suborder")
		return
	}

	order, err := h.ledger.ActiveOrder(ctx, accountID)
	if err != nil {
		log.Error("cannot load order for sent suborder event", "error", err)
	}
	h.publishSuborderSent(ctx, order, suborder)

	links := apt.RESTfulLinksFor(suborder)
	apt.RespondSuccess(w, suborder, links...)
}

func (h *Handler) SuborderHistory(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SuborderHistory")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	accountID, ok := h.account(w, r, log)
	if !ok {
		return
	}

	suborders, err := h.ledger.SuborderHistory(ctx, accountID)
	if err != nil {
		h.respondLedgerError(w, log, err, "cannot load suborder history")
		return
	}

	apt.RespondCollection(w, suborders, "suborder")
}

func (h *Handler) CurrentTotal(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CurrentTotal")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	accountID, ok := h.account(w, r, log)
	if !ok {
		return
	}

	order, err := h.ledger.ActiveOrder(ctx, accountID)
	if err != nil {
		log.Error("cannot load active order", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not load active order")
		return
	}
	if order == nil {
		apt.RespondError(w, http.StatusNotFound, "No open order")
		return
	}

	currency := order.Currency
	if raw := r.URL.Query().Get("currency"); raw != "" {
		currency, err = money.Parse(raw)
		if err != nil {
			log.Debug("invalid currency parameter", "currency", raw)
			apt.RespondError(w, http.StatusBadRequest, "Invalid currency parameter")
			return
		}
	}

	total, err := h.ledger.CurrentTotal(ctx, accountID, currency)
	if err != nil {
		h.respondLedgerError(w, log, err, "cannot compute total")
		return
	}

	apt.Respond(w, http.StatusOK, TotalResponse{
		Units:     total.Units,
		Currency:  string(total.Currency),
		Formatted: total.String(),
	}, nil)
}

// Response shapes

type QuantityResponse struct {
	MenuItemID uuid.UUID `json:"menu_item_id"`
	Quantity   int       `json:"quantity"`
}

type TotalResponse struct {
	Units     int64  `json:"units"`
	Currency  string `json:"currency"`
	Formatted string `json:"formatted"`
}

// Payload decoders

type BeginOrderRequest struct {
	TableID uuid.UUID `json:"table_id"`
	MenuID  uuid.UUID `json:"menu_id"`
}

// ItemRequest snapshots the menu item at add time; the ledger never calls
// back into the directory once an entry exists.
type ItemRequest struct {
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Currency  string `json:"currency"`
}

func (h *Handler) decodeBeginOrderPayload(w http.ResponseWriter, r *http.Request, log apt.Logger) (BeginOrderRequest, bool) {
	var req BeginOrderRequest
	if !h.decodeJSON(w, r, log, &req) {
		return BeginOrderRequest{}, false
	}
	return req, true
}

func (h *Handler) decodeItemPayload(w http.ResponseWriter, r *http.Request, log apt.Logger) (ItemRequest, bool) {
	var req ItemRequest
	if !h.decodeJSON(w, r, log, &req) {
		return ItemRequest{}, false
	}
	return req, true
}

func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, log apt.Logger, target interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			log.Debug("empty request body")
			apt.RespondError(w, http.StatusBadRequest, "Request body is required")
			return false
		}
		log.Debug("invalid request body", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// Helpers

// account resolves the bearer token to an account id, responding 401 when
// the token is missing, unknown, or expired.
func (h *Handler) account(w http.ResponseWriter, r *http.Request, log apt.Logger) (uuid.UUID, bool) {
	token := bearerToken(r)
	if token == "" {
		apt.RespondError(w, http.StatusUnauthorized, "Missing bearer token")
		return uuid.Nil, false
	}

	accountID, err := h.accounts.Resolve(r.Context(), token)
	if err != nil {
		log.Error("cannot resolve session token", "error", err)
		apt.RespondError(w, http.StatusBadGateway, "Could not verify session")
		return uuid.Nil, false
	}
	if accountID == uuid.Nil {
		apt.RespondError(w, http.StatusUnauthorized, "Invalid or expired session")
		return uuid.Nil, false
	}

	return accountID, true
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}
	return strings.TrimSpace(auth[len(prefix):])
}

func (h *Handler) parseMenuItemID(w http.ResponseWriter, r *http.Request, log apt.Logger) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, "menuItemID")
	if idStr == "" {
		log.Debug("missing menu item id parameter")
		apt.RespondError(w, http.StatusBadRequest, "Missing menu item id")
		return uuid.Nil, false
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		log.Debug("invalid menu item id parameter", "id", idStr)
		apt.RespondError(w, http.StatusBadRequest, "Invalid menu item id")
		return uuid.Nil, false
	}

	return id, true
}

// respondLedgerError maps the ledger's precondition errors to status codes;
// anything unrecognized is a 500.
func (h *Handler) respondLedgerError(w http.ResponseWriter, log apt.Logger, err error, msg string) {
	switch {
	case errors.Is(err, ErrOrderAlreadyOpen):
		apt.RespondError(w, http.StatusConflict, "An order is already open")
	case errors.Is(err, ErrNoOpenOrder):
		apt.RespondError(w, http.StatusNotFound, "No open order")
	case errors.Is(err, ErrSuborderAlreadyActive):
		apt.RespondError(w, http.StatusConflict, "A suborder is already active")
	case errors.Is(err, ErrNoActiveSuborder):
		apt.RespondError(w, http.StatusConflict, "No active suborder")
	case errors.Is(err, ErrNoSuchEntry):
		apt.RespondError(w, http.StatusNotFound, "Item is not in the active suborder")
	case errors.Is(err, ErrActiveSuborderExists):
		apt.RespondError(w, http.StatusConflict, "Send or discard the active suborder first")
	case errors.Is(err, money.ErrCurrencyMismatch):
		apt.RespondError(w, http.StatusConflict, "Currency mismatch")
	default:
		log.Error(msg, "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Internal error")
	}
}

// Event publishing, best effort: failures are logged, never surfaced.

func (h *Handler) publishSuborderSent(ctx context.Context, order *Order, suborder *Suborder) {
	if h.publisher == nil || suborder == nil {
		return
	}

	evt := event.SuborderSentEvent{
		EventType:  event.EventSuborderSent,
		OccurredAt: time.Now().UTC(),
		OrderID:    suborder.OrderID.String(),
		SuborderID: suborder.ID.String(),
		Seq:        suborder.Seq,
		Entries:    make([]event.SuborderEntry, 0, len(suborder.Entries)),
	}
	if order != nil {
		evt.TableID = order.TableID.String()
	}
	for _, entry := range suborder.Entries {
		evt.Entries = append(evt.Entries, event.SuborderEntry{
			MenuItemID: entry.MenuItemID.String(),
			Name:       entry.Name,
			Quantity:   entry.Quantity,
			UnitPrice:  entry.UnitPrice.Units,
			Currency:   string(entry.UnitPrice.Currency),
		})
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		h.logger.Error("cannot marshal suborder sent event", "error", err)
		return
	}
	if err := h.publisher.Publish(ctx, event.OrderSubordersTopic, payload); err != nil {
		h.logger.Error("cannot publish suborder sent event", "error", err)
	} else {
		h.logger.Info("published suborder sent event", "suborder_id", suborder.ID.String(), "seq", suborder.Seq)
	}
}

func (h *Handler) publishOrderEnded(ctx context.Context, order *Order, sent []*Suborder) {
	if h.publisher == nil || order == nil {
		return
	}

	var totalUnits int64
	for _, suborder := range sent {
		for _, entry := range suborder.Entries {
			totalUnits += entry.UnitPrice.Units * int64(entry.Quantity)
		}
	}

	evt := event.OrderEndedEvent{
		EventType:     event.EventOrderEnded,
		OccurredAt:    time.Now().UTC(),
		OrderID:       order.ID.String(),
		AccountID:     order.AccountID.String(),
		TableID:       order.TableID.String(),
		SuborderCount: len(sent),
		TotalUnits:    totalUnits,
		Currency:      string(order.Currency),
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		h.logger.Error("cannot marshal order ended event", "error", err)
		return
	}
	if err := h.publisher.Publish(ctx, event.OrdersTopic, payload); err != nil {
		h.logger.Error("cannot publish order ended event", "error", err)
	} else {
		h.logger.Info("published order ended event", "order_id", order.ID.String())
	}
}

func (h *Handler) log(r *http.Request) apt.Logger {
	return h.logger.With("request_id", r.Context().Value("request_id"))
}
