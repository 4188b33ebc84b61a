package seeding

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

const (
	DemoAccountEmail    = "demo@edotat.app"
	demoAccountPassword = "demo-password"
)

// SeedDemoAccount creates the demo diner account in the authn database
// when it does not exist yet.
func SeedDemoAccount(ctx context.Context, db *mongo.Database) error {
	accounts := db.Collection("accounts")

	count, err := accounts.CountDocuments(ctx, bson.M{"email": DemoAccountEmail})
	if err != nil {
		return fmt.Errorf("cannot check for demo account: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(demoAccountPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("cannot hash demo password: %w", err)
	}

	now := time.Now()
	_, err = accounts.InsertOne(ctx, bson.M{
		"_id":           uuid.New(),
		"email":         DemoAccountEmail,
		"password_hash": hash,
		"created_at":    now,
		"updated_at":    now,
	})
	if err != nil {
		return fmt.Errorf("cannot create demo account: %w", err)
	}

	return nil
}
