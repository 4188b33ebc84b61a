package commands

import (
	"context"
	"fmt"

	"github.com/appetiteclub/apt"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var allDatabases = []string{
	"edotat_directory",
	"edotat_ordering",
	"edotat_authn",
}

// ResetDB drops all Edotat databases - USE WITH CAUTION
func ResetDB(ctx context.Context, config *apt.Config, logger apt.Logger) error {
	logger.Infof("⚠️  DANGER: This will drop ALL Edotat databases!")
	logger.Infof("⚠️  This action cannot be undone!")

	client, err := connect(ctx, config)
	if err != nil {
		return err
	}
	defer client.Disconnect(ctx)

	logger.Info("Connected to MongoDB")

	for _, dbName := range allDatabases {
		logger.Info("Dropping database", "database", dbName)
		db := client.Database(dbName)
		result := db.RunCommand(ctx, bson.D{{Key: "dropDatabase", Value: 1}})
		if result.Err() != nil {
			logger.Infof("⚠️  Failed to drop database %s (may not exist): %v", dbName, result.Err())
		} else {
			logger.Info("Database dropped", "database", dbName)
		}
	}

	logger.Info("All databases have been dropped")
	return nil
}

func connect(ctx context.Context, config *apt.Config) (*mongo.Client, error) {
	mongoURL, _ := config.GetString("mongo.url")
	if mongoURL == "" {
		mongoURL = "mongodb://localhost:27017"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURL))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return client, nil
}
