package directory

import (
	"context"
	"errors"
	"fmt"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/seed"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/edotat/edotat/pkg/money"
)

const directorySeedApplication = "directory_demo"

type seedItem struct {
	category    string
	name        string
	description string
	priceCents  int64
}

// Demo fixture: an Italian trattoria with the menu the mobile client was
// developed against.
var demoMenuItems = []seedItem{
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
	{"Breakfast menu", MinuteOfDay(8, 0), MinuteOfDay(10, 0)},
	{"Lunch menu", MinuteOfDay(12, 0), MinuteOfDay(14, 0)},
	{"Dinner menu", MinuteOfDay(19, 0), MinuteOfDay(21, 0)},
	{"All-day menu", MinuteOfDay(0, 0), MinuteOfDay(24, 0)},
}

var demoTableCodes = []string{"A1", "A2", "A3", "B1", "B2", "T1"}

// DemoSeedingFunc returns a lifecycle OnStart-compatible function that
// applies the demo catalog once.
func DemoSeedingFunc(seedCtx context.Context, repos Repos, db *mongo.Database, logger apt.Logger) func(ctx context.Context) error {
	return func(context.Context) error {
		return ApplyDemoSeeds(seedCtx, repos, db, logger)
	}
}

// ApplyDemoSeeds creates the demo restaurant with its tables, menus, and
// items. Application is tracked in mongo so restarts do not duplicate data.
func ApplyDemoSeeds(ctx context.Context, repos Repos, db *mongo.Database, logger apt.Logger) error {
	if db == nil {
		return errors.New("database is required for demo seeding")
	}

	seeds := []seed.Seed{
		{
			ID:          "2026-08-30_demo_catalog_v1",
			Description: "Create demo restaurant with tables, menus, and menu items",
			Run: func(ctx context.Context) error {
				return seedDemoCatalog(ctx, repos, logger)
			},
		},
	}

	tracker := seed.NewMongoTracker(db)

	logger.Info("Applying directory demo seeds")
	if err := seed.Apply(ctx, tracker, seeds, directorySeedApplication); err != nil {
		return err
	}
	logger.Info("Directory demo seeds applied successfully")
	return nil
}

func seedDemoCatalog(ctx context.Context, repos Repos, logger apt.Logger) error {
	restaurant := NewRestaurant()
	restaurant.Name = "Trattoria da Edo"
	restaurant.Address = Address{
		Street:   "Via Roma 12",
		Locality: "Trento",
		Division: "Trentino-Alto Adige",
		Country:  "Italy",
	}
	restaurant.Latitude = 46.0679
	restaurant.Longitude = 11.1211
	restaurant.Timezone = "Europe/Rome"
	restaurant.Currency = money.EUR
	restaurant.BeforeCreate()

	if err := repos.RestaurantRepo.Create(ctx, restaurant); err != nil {
		return fmt.Errorf("seed restaurant: %w", err)
	}

	for _, code := range demoTableCodes {
		table := NewTable(restaurant.ID, code)
		table.BeforeCreate()
		if err := repos.TableRepo.Create(ctx, table); err != nil {
			return fmt.Errorf("seed table %s: %w", code, err)
		}
	}

	for _, m := range demoMenus {
		menu := NewMenu(restaurant.ID, m.name, m.startMinute, m.endMinute)
		menu.BeforeCreate()
		if err := repos.MenuRepo.Create(ctx, menu); err != nil {
			return fmt.Errorf("seed menu %s: %w", m.name, err)
		}

		for position, it := range demoMenuItems {
			item := NewMenuItem(menu.ID, it.category, it.name, money.Amount{Units: it.priceCents, Currency: money.EUR})
			item.Description = it.description
			item.Position = position
			item.BeforeCreate()
			if err := repos.MenuItemRepo.Create(ctx, item); err != nil {
				return fmt.Errorf("seed menu item %s: %w", it.name, err)
			}
		}
	}

	logger.Info("Seeded demo catalog", "restaurant_id", restaurant.ID.String(), "tables", len(demoTableCodes), "menus", len(demoMenus))
	return nil
}
