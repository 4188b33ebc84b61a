package mongo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/edotat/edotat/services/authn/internal/authn"
)

type AccountRepo struct {
	collection *mongo.Collection
}

func NewAccountRepo(db *mongo.Database) *AccountRepo {
	return &AccountRepo{
		collection: db.Collection("accounts"),
	}
}

func (r *AccountRepo) Create(ctx context.Context, a *authn.Account) error {
	if a == nil {
		return fmt.Errorf("account is nil")
	}

	if _, err := r.collection.InsertOne(ctx, a); err != nil {
		return fmt.Errorf("cannot create account: %w", err)
	}

	return nil
}

func (r *AccountRepo) Get(ctx context.Context, id uuid.UUID) (*authn.Account, error) {
	var a authn.Account
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot get account: %w", err)
	}
	return &a, nil
}

func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (*authn.Account, error) {
	var a authn.Account
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&a)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot get account by email: %w", err)
	}
	return &a, nil
}

func (r *AccountRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("cannot delete account: %w", err)
	}

	if result.DeletedCount == 0 {
		return fmt.Errorf("account not found")
	}

	return nil
}
