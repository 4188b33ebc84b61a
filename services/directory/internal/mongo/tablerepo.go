package mongo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/edotat/edotat/services/directory/internal/directory"
)

type TableRepo struct {
	collection *mongo.Collection
}

func NewTableRepo(db *mongo.Database) *TableRepo {
	return &TableRepo{
		collection: db.Collection("tables"),
	}
}

func (r *TableRepo) Create(ctx context.Context, table *directory.Table) error {
	if table == nil {
		return fmt.Errorf("table is nil")
	}

	if _, err := r.collection.InsertOne(ctx, table); err != nil {
		return fmt.Errorf("cannot create table: %w", err)
	}

	return nil
}

func (r *TableRepo) Get(ctx context.Context, id uuid.UUID) (*directory.Table, error) {
	var table directory.Table
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&table)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot get table: %w", err)
	}
	return &table, nil
}

func (r *TableRepo) GetByCode(ctx context.Context, restaurantID uuid.UUID, code string) (*directory.Table, error) {
	var table directory.Table
	err := r.collection.FindOne(ctx, bson.M{"restaurant_id": restaurantID, "code": code}).Decode(&table)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot get table by code: %w", err)
	}
	return &table, nil
}

func (r *TableRepo) ListByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]*directory.Table, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"restaurant_id": restaurantID})
	if err != nil {
		return nil, fmt.Errorf("cannot list tables: %w", err)
	}
	defer cursor.Close(ctx)

	var result []*directory.Table
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("cannot decode tables: %w", err)
	}

	return result, nil
}
