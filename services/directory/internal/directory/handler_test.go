package directory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/appetiteclub/apt"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func newTestHandler(repos Repos) *Handler {
	return NewHandler(repos, apt.NewConfig(), nil)
}

func withURLParams(req *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestHandlerGetRestaurant(t *testing.T) {
	restaurantID := uuid.MustParse("550e8400-e29b-41d4-a716-446655440010")

	tests := []struct {
		name           string
		id             string
		seed           bool
		expectedStatus int
	}{
		{
			name:           "found",
			id:             restaurantID.String(),
			seed:           true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "notFound",
			id:             uuid.New().String(),
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "invalidID",
			id:             "not-a-uuid",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewMockRestaurantRepo()
			if tt.seed {
				repo.restaurants[restaurantID] = &Restaurant{ID: restaurantID, Name: "Trattoria da Edo"}
			}

			h := newTestHandler(Repos{RestaurantRepo: repo})

			req := httptest.NewRequest(http.MethodGet, "/restaurants/"+tt.id, nil)
			req = withURLParams(req, map[string]string{"id": tt.id})

			w := httptest.NewRecorder()
			h.GetRestaurant(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("GetRestaurant() status = %d, want %d", w.Code, tt.expectedStatus)
			}
		})
	}
}

func TestHandlerListRestaurantsNearby(t *testing.T) {
	near := NewRestaurant()
	near.Name = "Near"
	near.Latitude = 46.0679
	near.Longitude = 11.1211

	far := NewRestaurant()
	far.Name = "Far"
	far.Latitude = 45.4642 // Milan, well outside a 10 km radius of Trento
	far.Longitude = 9.19

	repo := NewMockRestaurantRepo()
	repo.restaurants[near.ID] = near
	repo.restaurants[far.ID] = far

	h := newTestHandler(Repos{RestaurantRepo: repo})

	req := httptest.NewRequest(http.MethodGet, "/restaurants?lat=46.0679&lng=11.1211", nil)
	w := httptest.NewRecorder()
	h.ListRestaurants(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("ListRestaurants() status = %d, want %d", w.Code, http.StatusOK)
	}

	body := w.Body.String()
	if !contains(body, "Near") {
		t.Error("nearby restaurant missing from response")
	}
	if contains(body, "Far") {
		t.Error("restaurant outside the radius should be filtered out")
	}
}

func TestHandlerListRestaurantsInvalidCoordinates(t *testing.T) {
	h := newTestHandler(Repos{RestaurantRepo: NewMockRestaurantRepo()})

	req := httptest.NewRequest(http.MethodGet, "/restaurants?lat=abc&lng=11.1", nil)
	w := httptest.NewRecorder()
	h.ListRestaurants(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("ListRestaurants() status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestHandlerListMenusActiveAt(t *testing.T) {
	restaurant := NewRestaurant()

	restaurantRepo := NewMockRestaurantRepo()
	restaurantRepo.restaurants[restaurant.ID] = restaurant

	menuRepo := NewMockMenuRepo()
	dinner := NewMenu(restaurant.ID, "Dinner menu", MinuteOfDay(19, 0), MinuteOfDay(21, 0))
	lunch := NewMenu(restaurant.ID, "Lunch menu", MinuteOfDay(12, 0), MinuteOfDay(14, 0))
	menuRepo.menus[dinner.ID] = dinner
	menuRepo.menus[lunch.ID] = lunch

	h := newTestHandler(Repos{RestaurantRepo: restaurantRepo, MenuRepo: menuRepo})

	req := httptest.NewRequest(http.MethodGet, "/restaurants/"+restaurant.ID.String()+"/menus?active_at=1200", nil)
	req = withURLParams(req, map[string]string{"id": restaurant.ID.String()})

	w := httptest.NewRecorder()
	h.ListMenus(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("ListMenus() status = %d, want %d", w.Code, http.StatusOK)
	}

	body := w.Body.String()
	if !contains(body, "Dinner menu") {
		t.Error("dinner menu should be active at minute 1200")
	}
	if contains(body, "Lunch menu") {
		t.Error("lunch menu should not be active at minute 1200")
	}
}

func TestHandlerListMenusInvalidActiveAt(t *testing.T) {
	restaurant := NewRestaurant()
	restaurantRepo := NewMockRestaurantRepo()
	restaurantRepo.restaurants[restaurant.ID] = restaurant

	h := newTestHandler(Repos{RestaurantRepo: restaurantRepo, MenuRepo: NewMockMenuRepo()})

	req := httptest.NewRequest(http.MethodGet, "/restaurants/"+restaurant.ID.String()+"/menus?active_at=9999", nil)
	req = withURLParams(req, map[string]string{"id": restaurant.ID.String()})

	w := httptest.NewRecorder()
	h.ListMenus(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("ListMenus() status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestHandlerFindTableByCode(t *testing.T) {
	restaurantID := uuid.New()
	table := NewTable(restaurantID, "A1")

	tableRepo := NewMockTableRepo()
	tableRepo.tables[table.ID] = table

	tests := []struct {
		name           string
		code           string
		expectedStatus int
	}{
		{
			name:           "found",
			code:           "A1",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unknownCode",
			code:           "Z9",
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(Repos{TableRepo: tableRepo})

			req := httptest.NewRequest(http.MethodGet, "/restaurants/"+restaurantID.String()+"/tables/code/"+tt.code, nil)
			req = withURLParams(req, map[string]string{"id": restaurantID.String(), "code": tt.code})

			w := httptest.NewRecorder()
			h.FindTableByCode(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("FindTableByCode() status = %d, want %d", w.Code, tt.expectedStatus)
			}
		})
	}
}

func TestHandlerGetTable(t *testing.T) {
	table := NewTable(uuid.New(), "B2")
	tableRepo := NewMockTableRepo()
	tableRepo.tables[table.ID] = table

	h := newTestHandler(Repos{TableRepo: tableRepo})

	req := httptest.NewRequest(http.MethodGet, "/tables/"+table.ID.String(), nil)
	req = withURLParams(req, map[string]string{"id": table.ID.String()})

	w := httptest.NewRecorder()
	h.GetTable(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("GetTable() status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestHandlerListMenuItems(t *testing.T) {
	menuID := uuid.New()
	itemRepo := NewMockMenuItemRepo()

	second := NewMenuItem(menuID, "Pizza", "Diavola", itemPrice(800))
	second.Position = 1
	first := NewMenuItem(menuID, "Pizza", "Margherita", itemPrice(700))
	first.Position = 0
	itemRepo.items[second.ID] = second
	itemRepo.items[first.ID] = first

	h := newTestHandler(Repos{MenuItemRepo: itemRepo})

	req := httptest.NewRequest(http.MethodGet, "/menus/"+menuID.String()+"/items", nil)
	req = withURLParams(req, map[string]string{"id": menuID.String()})

	w := httptest.NewRecorder()
	h.ListMenuItems(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("ListMenuItems() status = %d, want %d", w.Code, http.StatusOK)
	}

	body := w.Body.String()
	margherita := indexOf(body, "Margherita")
	diavola := indexOf(body, "Diavola")
	if margherita < 0 || diavola < 0 {
		t.Fatal("both items should appear in the response")
	}
	if margherita > diavola {
		t.Error("items should be sorted by position")
	}
}

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}

func indexOf(s, substr string) int {
	return strings.Index(s, substr)
}
