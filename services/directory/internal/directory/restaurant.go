package directory

import (
	"fmt"
	"math"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"

	"github.com/edotat/edotat/pkg/money"
)

// Restaurant is one venue in the catalog. Its currency denominates every
// price on its menus and its timezone anchors order timestamps.
type Restaurant struct {
	ID        uuid.UUID      `json:"id" bson:"_id"`
	Name      string         `json:"name" bson:"name"`
	Address   Address        `json:"address" bson:"address"`
	Latitude  float64        `json:"latitude" bson:"latitude"`
	Longitude float64        `json:"longitude" bson:"longitude"`
	Timezone  string         `json:"timezone" bson:"timezone"`
	Currency  money.Currency `json:"currency" bson:"currency"`
	CreatedAt time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" bson:"updated_at"`
}

// Address is a displayable postal address.
type Address struct {
	Street   string `json:"street" bson:"street"`
	Locality string `json:"locality" bson:"locality"`
	Division string `json:"division" bson:"division"`
	Country  string `json:"country" bson:"country"`
}

func (a Address) String() string {
	return fmt.Sprintf("%s, %s, %s, %s", a.Street, a.Locality, a.Division, a.Country)
}

func (r *Restaurant) GetID() uuid.UUID {
	return r.ID
}

func (r *Restaurant) ResourceType() string {
	return "restaurant"
}

func (r *Restaurant) SetID(id uuid.UUID) {
	r.ID = id
}

func NewRestaurant() *Restaurant {
	return &Restaurant{
		ID: apt.GenerateNewID(),
	}
}

func (r *Restaurant) EnsureID() {
	if r.ID == uuid.Nil {
		r.ID = apt.GenerateNewID()
	}
}

func (r *Restaurant) BeforeCreate() {
	r.EnsureID()
	r.CreatedAt = time.Now()
	r.UpdatedAt = time.Now()
}

func (r *Restaurant) BeforeUpdate() {
	r.UpdatedAt = time.Now()
}

// Location resolves the restaurant's IANA timezone, falling back to UTC when
// the stored name cannot be loaded.
func (r *Restaurant) Location() *time.Location {
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DistanceMeters returns the great-circle distance from the given
// coordinates to the restaurant.
func (r *Restaurant) DistanceMeters(latitude, longitude float64) float64 {
	return haversineMeters(latitude, longitude, r.Latitude, r.Longitude)
}

const earthRadiusMeters = 6371000.0

func haversineMeters(lat1, lng1, lat2, lng2 float64) float64 {
	rad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := rad(lat2 - lat1)
	dLng := rad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMeters * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
