package mongo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/edotat/edotat/services/directory/internal/directory"
)

type RestaurantRepo struct {
	collection *mongo.Collection
}

func NewRestaurantRepo(db *mongo.Database) *RestaurantRepo {
	return &RestaurantRepo{
		collection: db.Collection("restaurants"),
	}
}

func (r *RestaurantRepo) Create(ctx context.Context, restaurant *directory.Restaurant) error {
	if restaurant == nil {
		return fmt.Errorf("restaurant is nil")
	}

	if _, err := r.collection.InsertOne(ctx, restaurant); err != nil {
		return fmt.Errorf("cannot create restaurant: %w", err)
	}

	return nil
}

func (r *RestaurantRepo) Get(ctx context.Context, id uuid.UUID) (*directory.Restaurant, error) {
	var restaurant directory.Restaurant
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&restaurant)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot get restaurant: %w", err)
	}
	return &restaurant, nil
}

func (r *RestaurantRepo) List(ctx context.Context) ([]*directory.Restaurant, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("cannot list restaurants: %w", err)
	}
	defer cursor.Close(ctx)

	var result []*directory.Restaurant
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("cannot decode restaurants: %w", err)
	}

	return result, nil
}
