package mongo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/edotat/edotat/services/ordering/internal/ordering"
)

type SuborderRepo struct {
	collection *mongo.Collection
}

func NewSuborderRepo(db *mongo.Database) *SuborderRepo {
	return &SuborderRepo{
		collection: db.Collection("suborders"),
	}
}

func (r *SuborderRepo) Create(ctx context.Context, s *ordering.Suborder) error {
	if s == nil {
		return fmt.Errorf("suborder is nil")
	}

	if _, err := r.collection.InsertOne(ctx, s); err != nil {
		return fmt.Errorf("cannot create suborder: %w", err)
	}

	return nil
}

// GetActiveByOrder finds the order's suborder with no sent_at field. At
// most one exists at a time; the ledger enforces that.
func (r *SuborderRepo) GetActiveByOrder(ctx context.Context, orderID uuid.UUID) (*ordering.Suborder, error) {
	filter := bson.M{"order_id": orderID, "sent_at": bson.M{"$exists": false}}

	var s ordering.Suborder
	err := r.collection.FindOne(ctx, filter).Decode(&s)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot get active suborder: %w", err)
	}
	return &s, nil
}

func (r *SuborderRepo) ListSentByOrder(ctx context.Context, orderID uuid.UUID) ([]*ordering.Suborder, error) {
	filter := bson.M{"order_id": orderID, "sent_at": bson.M{"$exists": true}}
	opts := options.Find().SetSort(bson.M{"seq": 1})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("cannot list sent suborders: %w", err)
	}
	defer cursor.Close(ctx)

	var result []*ordering.Suborder
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("cannot decode suborders: %w", err)
	}

	return result, nil
}

func (r *SuborderRepo) Save(ctx context.Context, s *ordering.Suborder) error {
	if s == nil {
		return fmt.Errorf("suborder is nil")
	}

	filter := bson.M{"_id": s.ID}
	update := bson.M{"$set": s}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("cannot update suborder: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("suborder not found")
	}

	return nil
}

func (r *SuborderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("cannot delete suborder: %w", err)
	}

	if result.DeletedCount == 0 {
		return fmt.Errorf("suborder not found")
	}

	return nil
}
