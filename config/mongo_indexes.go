package config

import (
	"context"
	"errors"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func MongoDatabase() *mongo.Database {
	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "salesflow"
	}
	return MongoClient.Database(dbName)
}

func EnsureMongoIndexes() error {
	if MongoClient == nil {
		return errors.New("MongoClient is nil; call InitMongo() first")
	}
	db := MongoDatabase()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// interactions audit log indexes
	interactions := db.Collection("interactions")
	_, err := interactions.Indexes().CreateMany(ctx, []mongo.IndexModel{
		// per-user history, newest first
		{
			Keys:    bson.D{{Key: "identity", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("by_identity_created"),
		},
		// keep the audit log bounded: drop entries after 90 days
		{
			Keys: bson.D{{Key: "created_at", Value: 1}},
			Options: options.Index().
				SetName("ttl_created_at").
				SetExpireAfterSeconds(90 * 24 * 3600),
		},
	})
	return err
}
