package mongo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/edotat/edotat/services/directory/internal/directory"
)

type MenuItemRepo struct {
	collection *mongo.Collection
}

func NewMenuItemRepo(db *mongo.Database) *MenuItemRepo {
	return &MenuItemRepo{
		collection: db.Collection("menu_items"),
	}
}

func (r *MenuItemRepo) Create(ctx context.Context, item *directory.MenuItem) error {
	if item == nil {
		return fmt.Errorf("menu item is nil")
	}

	if _, err := r.collection.InsertOne(ctx, item); err != nil {
		return fmt.Errorf("cannot create menu item: %w", err)
	}

	return nil
}

func (r *MenuItemRepo) Get(ctx context.Context, id uuid.UUID) (*directory.MenuItem, error) {
	var item directory.MenuItem
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot get menu item: %w", err)
	}
	return &item, nil
}

func (r *MenuItemRepo) ListByMenu(ctx context.Context, menuID uuid.UUID) ([]*directory.MenuItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "position", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"menu_id": menuID}, opts)
	if err != nil {
		return nil, fmt.Errorf("cannot list menu items: %w", err)
	}
	defer cursor.Close(ctx)

	var result []*directory.MenuItem
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("cannot decode menu items: %w", err)
	}

	return result, nil
}
