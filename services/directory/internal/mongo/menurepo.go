package mongo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/edotat/edotat/services/directory/internal/directory"
)

type MenuRepo struct {
	collection *mongo.Collection
}

func NewMenuRepo(db *mongo.Database) *MenuRepo {
	return &MenuRepo{
		collection: db.Collection("menus"),
	}
}

func (r *MenuRepo) Create(ctx context.Context, menu *directory.Menu) error {
	if menu == nil {
		return fmt.Errorf("menu is nil")
	}

	if _, err := r.collection.InsertOne(ctx, menu); err != nil {
		return fmt.Errorf("cannot create menu: %w", err)
	}

	return nil
}

func (r *MenuRepo) Get(ctx context.Context, id uuid.UUID) (*directory.Menu, error) {
	var menu directory.Menu
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&menu)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot get menu: %w", err)
	}
	return &menu, nil
}

func (r *MenuRepo) ListByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]*directory.Menu, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"restaurant_id": restaurantID})
	if err != nil {
		return nil, fmt.Errorf("cannot list menus: %w", err)
	}
	defer cursor.Close(ctx)

	var result []*directory.Menu
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("cannot decode menus: %w", err)
	}

	return result, nil
}
