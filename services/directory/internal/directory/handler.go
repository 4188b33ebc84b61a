package directory

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	DefaultMaxDistanceMeters = 10000.0
	DefaultMaxCount          = 20
)

type Handler struct {
	logger         apt.Logger
	config         *apt.Config
	tlm            *telemetry.HTTP
	restaurantRepo RestaurantRepo
	tableRepo      TableRepo
	menuRepo       MenuRepo
	menuItemRepo   MenuItemRepo
}

type Repos struct {
	RestaurantRepo RestaurantRepo
	TableRepo      TableRepo
	MenuRepo       MenuRepo
	MenuItemRepo   MenuItemRepo
}

func NewHandler(repos Repos, config *apt.Config, logger apt.Logger) *Handler {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}

	return &Handler{
		logger:         logger,
		config:         config,
		tlm:            telemetry.NewHTTP(),
		restaurantRepo: repos.RestaurantRepo,
		tableRepo:      repos.TableRepo,
		menuRepo:       repos.MenuRepo,
		menuItemRepo:   repos.MenuItemRepo,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/restaurants", func(r chi.Router) {
		r.Get("/", h.ListRestaurants)
		r.Get("/{id}", h.GetRestaurant)
		r.Get("/{id}/menus", h.ListMenus)
		r.Get("/{id}/tables", h.ListTables)
		r.Get("/{id}/tables/code/{code}", h.FindTableByCode)
	})

	r.Route("/tables", func(r chi.Router) {
		r.Get("/{id}", h.GetTable)
	})

	r.Route("/menus", func(r chi.Router) {
		r.Get("/{id}", h.GetMenu)
		r.Get("/{id}/items", h.ListMenuItems)
	})
}

// NearbyRestaurant pairs a restaurant with its distance from the caller's
// position.
type NearbyRestaurant struct {
	*Restaurant
	DistanceMeters float64 `json:"distance_meters"`
}

// ListRestaurants lists the catalog. With lat/lng query parameters it
// returns only restaurants within max_distance meters, nearest first.
func (h *Handler) ListRestaurants(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListRestaurants")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	restaurants, err := h.restaurantRepo.List(ctx)
	if err != nil {
		log.Error("error retrieving restaurants", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not retrieve restaurants")
		return
	}

	latStr := r.URL.Query().Get("lat")
	lngStr := r.URL.Query().Get("lng")
	if latStr == "" && lngStr == "" {
		apt.RespondCollection(w, restaurants, "restaurant")
		return
	}

	lat, latErr := strconv.ParseFloat(latStr, 64)
	lng, lngErr := strconv.ParseFloat(lngStr, 64)
	if latErr != nil || lngErr != nil {
		log.Debug("invalid coordinates", "lat", latStr, "lng", lngStr)
		apt.RespondError(w, http.StatusBadRequest, "Invalid lat/lng parameters")
		return
	}

	maxDistance := DefaultMaxDistanceMeters
	if s := r.URL.Query().Get("max_distance"); s != "" {
		if v, err := strconv.ParseFloat(s, 64); err == nil && v > 0 {
			maxDistance = v
		}
	}
	maxCount := DefaultMaxCount
	if s := r.URL.Query().Get("max_count"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			maxCount = v
		}
	}

	var nearby []NearbyRestaurant
	for _, restaurant := range restaurants {
		distance := restaurant.DistanceMeters(lat, lng)
		if distance < maxDistance {
			nearby = append(nearby, NearbyRestaurant{Restaurant: restaurant, DistanceMeters: distance})
		}
	}
	sort.Slice(nearby, func(i, j int) bool {
		return nearby[i].DistanceMeters < nearby[j].DistanceMeters
	})
	if len(nearby) > maxCount {
		nearby = nearby[:maxCount]
	}

	apt.RespondCollection(w, nearby, "restaurant")
}

func (h *Handler) GetRestaurant(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetRestaurant")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	restaurant, err := h.restaurantRepo.Get(ctx, id)
	if err != nil {
		log.Error("error loading restaurant", "error", err, "id", id.String())
		apt.RespondError(w, http.StatusNotFound, "Restaurant not found")
		return
	}
	if restaurant == nil {
		apt.RespondError(w, http.StatusNotFound, "Restaurant not found")
		return
	}

	links := apt.RESTfulLinksFor(restaurant)
	apt.RespondSuccess(w, restaurant, links...)
}

// ListMenus lists a restaurant's menus. With active_at=<minute> only menus
// whose window contains that minute are returned; with active=true the
// restaurant's current local time is used.
func (h *Handler) ListMenus(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListMenus")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	restaurant, err := h.restaurantRepo.Get(ctx, id)
	if err != nil || restaurant == nil {
		log.Debug("restaurant not found for menus", "id", id.String())
		apt.RespondError(w, http.StatusNotFound, "Restaurant not found")
		return
	}

	menus, err := h.menuRepo.ListByRestaurant(ctx, id)
	if err != nil {
		log.Error("error retrieving menus", "error", err, "restaurant_id", id.String())
		apt.RespondError(w, http.StatusInternalServerError, "Could not retrieve menus")
		return
	}

	minute := -1
	if s := r.URL.Query().Get("active_at"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 || v > MinutesPerDay {
			log.Debug("invalid active_at parameter", "active_at", s)
			apt.RespondError(w, http.StatusBadRequest, "Invalid active_at parameter")
			return
		}
		minute = v
	} else if r.URL.Query().Get("active") == "true" {
		minute = LocalMinuteOfDay(time.Now(), restaurant.Location())
	}

	if minute >= 0 {
		var active []*Menu
		for _, menu := range menus {
			if menu.ActiveAt(minute) {
				active = append(active, menu)
			}
		}
		menus = active
	}

	apt.RespondCollection(w, menus, "menu")
}

func (h *Handler) ListTables(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListTables")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	tables, err := h.tableRepo.ListByRestaurant(ctx, id)
	if err != nil {
		log.Error("error retrieving tables", "error", err, "restaurant_id", id.String())
		apt.RespondError(w, http.StatusInternalServerError, "Could not retrieve tables")
		return
	}

	apt.RespondCollection(w, tables, "table")
}

// FindTableByCode resolves a short table code within one restaurant, the
// manual-entry alternative to scanning a QR code.
func (h *Handler) FindTableByCode(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.FindTableByCode")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	code := strings.TrimSpace(chi.URLParam(r, "code"))
	if code == "" {
		apt.RespondError(w, http.StatusBadRequest, "Missing code parameter")
		return
	}

	table, err := h.tableRepo.GetByCode(ctx, id, code)
	if err != nil {
		log.Error("error loading table by code", "error", err, "restaurant_id", id.String(), "code", code)
		apt.RespondError(w, http.StatusInternalServerError, "Could not retrieve table")
		return
	}
	if table == nil {
		apt.RespondError(w, http.StatusNotFound, "Table not found")
		return
	}

	links := apt.RESTfulLinksFor(table)
	apt.RespondSuccess(w, table, links...)
}

func (h *Handler) GetTable(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetTable")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	table, err := h.tableRepo.Get(ctx, id)
	if err != nil {
		log.Error("error loading table", "error", err, "id", id.String())
		apt.RespondError(w, http.StatusNotFound, "Table not found")
		return
	}
	if table == nil {
		apt.RespondError(w, http.StatusNotFound, "Table not found")
		return
	}

	links := apt.RESTfulLinksFor(table)
	apt.RespondSuccess(w, table, links...)
}

func (h *Handler) GetMenu(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetMenu")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	menu, err := h.menuRepo.Get(ctx, id)
	if err != nil {
		log.Error("error loading menu", "error", err, "id", id.String())
		apt.RespondError(w, http.StatusNotFound, "Menu not found")
		return
	}
	if menu == nil {
		apt.RespondError(w, http.StatusNotFound, "Menu not found")
		return
	}

	links := apt.RESTfulLinksFor(menu)
	apt.RespondSuccess(w, menu, links...)
}

// ListMenuItems returns a menu's items in display order: categories in
// declaration order, items in position order within each category.
func (h *Handler) ListMenuItems(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListMenuItems")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	items, err := h.menuItemRepo.ListByMenu(ctx, id)
	if err != nil {
		log.Error("error retrieving menu items", "error", err, "menu_id", id.String())
		apt.RespondError(w, http.StatusInternalServerError, "Could not retrieve menu items")
		return
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Position < items[j].Position
	})

	apt.RespondCollection(w, items, "menu-item")
}

func (h *Handler) parseIDParam(w http.ResponseWriter, r *http.Request, log apt.Logger) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, "id")
	if idStr == "" {
		log.Debug("missing id parameter")
		apt.RespondError(w, http.StatusBadRequest, "Missing id parameter")
		return uuid.Nil, false
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		log.Debug("invalid id parameter", "id", idStr)
		apt.RespondError(w, http.StatusBadRequest, "Invalid id parameter")
		return uuid.Nil, false
	}

	return id, true
}

func (h *Handler) log(r *http.Request) apt.Logger {
	return h.logger.With("request_id", r.Context().Value("request_id"))
}
