package mongo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/edotat/edotat/services/authn/internal/authn"
)

type SessionRepo struct {
	collection *mongo.Collection
}

func NewSessionRepo(db *mongo.Database) *SessionRepo {
	return &SessionRepo{
		collection: db.Collection("sessions"),
	}
}

func (r *SessionRepo) Create(ctx context.Context, s *authn.Session) error {
	if s == nil {
		return fmt.Errorf("session is nil")
	}

	if _, err := r.collection.InsertOne(ctx, s); err != nil {
		return fmt.Errorf("cannot create session: %w", err)
	}

	return nil
}

func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*authn.Session, error) {
	var s authn.Session
	err := r.collection.FindOne(ctx, bson.M{"token": token}).Decode(&s)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot get session by token: %w", err)
	}
	return &s, nil
}

func (r *SessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("cannot delete session: %w", err)
	}

	if result.DeletedCount == 0 {
		return fmt.Errorf("session not found")
	}

	return nil
}

func (r *SessionRepo) DeleteByAccount(ctx context.Context, accountID uuid.UUID) error {
	if _, err := r.collection.DeleteMany(ctx, bson.M{"account_id": accountID}); err != nil {
		return fmt.Errorf("cannot delete sessions for account: %w", err)
	}
	return nil
}
