package seeding

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Demo catalog for local development: the same trattoria the directory
// service seeds for itself when seeding.demo is enabled. Documents are
// written directly so the tool stays decoupled from the services.

const demoRestaurantName = "Trattoria da Edo"

type demoItem struct {
	category    string
	name        string
	description string
	priceCents  int64
}

var demoMenuItems = []demoItem{
	{"Appetizers", "Bruschetta con Pomodorini", "Grilled bread topped with cherry tomatoes, garlic, basil, and olive oil.", 400},
	{"Appetizers", "Caprese Salad", "Fresh mozzarella, ripe tomatoes, basil, and olive oil.", 500},
	{"Appetizers", "Olive all'Ascolana", "Fried green olives stuffed with seasoned meat.", 500},
	{"Pasta", "Spaghetti alla Carbonara", "Spaghetti with eggs, pecorino, guanciale, and black pepper.", 900},
	{"Pasta", "Tagliatelle al Ragù Bolognese", "Tagliatelle with slow-cooked beef ragù.", 800},
	{"Pasta", "Penne all'Arrabbiata", "Penne in spicy tomato sauce with garlic and chili.", 700},
	{"Pasta", "Lasagna al Forno", "Layered pasta with meat ragù, béchamel, and cheese.", 800},
	{"Meat", "Osso Buco", "Braised veal shanks with vegetables, white wine, and gremolata.", 1000},
	{"Meat", "Bistecca alla Fiorentina", "Thick-cut T-bone steak, grilled rare.", 1500},
	{"Fish", "Grilled Branzino", "Whole sea bass grilled with herbs and lemon.", 700},
	{"Sides", "Roasted Potatoes with Rosemary", "Crispy oven-roasted potatoes seasoned with rosemary.", 500},
	{"Sides", "French Fries", "", 500},
	{"Pizza", "Margherita", "Tomato sauce, mozzarella, and basil.", 700},
	{"Pizza", "Diavola", "Spicy salami, tomato sauce, and mozzarella.", 800},
	{"Pizza", "Quattro Formaggi", "Mozzarella, gorgonzola, parmesan, and fontina.", 800},
	{"Desserts", "Tiramisù", "Layered dessert with coffee-soaked ladyfingers, mascarpone, and cocoa.", 600},
	{"Desserts", "Panna Cotta", "Creamy gelatin dessert served with berry sauce.", 700},
	{"Drinks", "Still Water", "", 200},
	{"Drinks", "Sparkling Water", "", 200},
	{"Drinks", "Chinotto", "", 300},
}

var demoMenus = []struct {
	name        string
	startMinute int
	endMinute   int
}{
	{"Breakfast menu", 8 * 60, 10 * 60},
	{"Lunch menu", 12 * 60, 14 * 60},
	{"Dinner menu", 19 * 60, 21 * 60},
	{"All-day menu", 0, 24 * 60},
}

var demoTableCodes = []string{"A1", "A2", "A3", "B1", "B2", "T1"}

type catalog struct {
	restaurant bson.M
	tables     []bson.M
	menus      []bson.M
	items      []bson.M
}

func demoCatalog(now time.Time) catalog {
	restaurantID := uuid.New()

	restaurant := bson.M{
		"_id":  restaurantID,
		"name": demoRestaurantName,
		"address": bson.M{
			"street":   "Via Roma 12",
			"locality": "Trento",
			"division": "Trentino-Alto Adige",
			"country":  "Italy",
		},
		"latitude":   46.0679,
		"longitude":  11.1211,
		"timezone":   "Europe/Rome",
		"currency":   "EUR",
		"created_at": now,
		"updated_at": now,
	}

	var tables []bson.M
	for _, code := range demoTableCodes {
		tables = append(tables, bson.M{
			"_id":           uuid.New(),
			"restaurant_id": restaurantID,
			"code":          code,
			"created_at":    now,
			"updated_at":    now,
		})
	}

	var menus []bson.M
	var items []bson.M
	for _, m := range demoMenus {
		menuID := uuid.New()
		menus = append(menus, bson.M{
			"_id":           menuID,
			"restaurant_id": restaurantID,
			"name":          m.name,
			"start_minute":  m.startMinute,
			"end_minute":    m.endMinute,
			"created_at":    now,
			"updated_at":    now,
		})

		for position, it := range demoMenuItems {
			doc := bson.M{
				"_id":        uuid.New(),
				"menu_id":    menuID,
				"category":   it.category,
				"position":   position,
				"name":       it.name,
				"price":      bson.M{"units": it.priceCents, "currency": "EUR"},
				"created_at": now,
				"updated_at": now,
			}
			if it.description != "" {
				doc["description"] = it.description
			}
			items = append(items, doc)
		}
	}

	return catalog{restaurant: restaurant, tables: tables, menus: menus, items: items}
}

// SeedCatalog writes the demo restaurant with its tables, menus, and menu
// items into the directory database. A database already carrying the demo
// restaurant is left untouched.
func SeedCatalog(ctx context.Context, db *mongo.Database) error {
	restaurants := db.Collection("restaurants")

	count, err := restaurants.CountDocuments(ctx, bson.M{"name": demoRestaurantName})
	if err != nil {
		return fmt.Errorf("cannot check for demo restaurant: %w", err)
	}
	if count > 0 {
		return nil
	}

	c := demoCatalog(time.Now())

	if _, err := restaurants.InsertOne(ctx, c.restaurant); err != nil {
		return fmt.Errorf("cannot create demo restaurant: %w", err)
	}
	if err := insertAll(ctx, db.Collection("tables"), c.tables); err != nil {
		return fmt.Errorf("cannot create demo tables: %w", err)
	}
	if err := insertAll(ctx, db.Collection("menus"), c.menus); err != nil {
		return fmt.Errorf("cannot create demo menus: %w", err)
	}
	if err := insertAll(ctx, db.Collection("menu_items"), c.items); err != nil {
		return fmt.Errorf("cannot create demo menu items: %w", err)
	}

	return nil
}

func insertAll(ctx context.Context, collection *mongo.Collection, docs []bson.M) error {
	batch := make([]interface{}, len(docs))
	for i, doc := range docs {
		batch[i] = doc
	}
	_, err := collection.InsertMany(ctx, batch)
	return err
}
