// Package store provides database-backed catalog sources.
package store

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sweetpotato0/intakekit/catalog"
)

// MongoConfig holds MongoDB connection configuration.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// DefaultMongoConfig returns default MongoDB configuration.
func DefaultMongoConfig() *MongoConfig {
	return &MongoConfig{
		URI:        "mongodb://localhost:27017",
		Database:   "intakekit",
		Collection: "questions",
	}
}

// MongoConfigFromEnv loads MongoDB configuration from environment
// variables.
func MongoConfigFromEnv() *MongoConfig {
	cfg := DefaultMongoConfig()
	if v := os.Getenv("MONGODB_URI"); v != "" {
		cfg.URI = v
	}
	if v := os.Getenv("MONGODB_DB"); v != "" {
		cfg.Database = v
	}
	if v := os.Getenv("MONGODB_COLLECTION"); v != "" {
		cfg.Collection = v
	}
	return cfg
}

// MongoSource loads catalog questions from a MongoDB collection. It
// implements catalog.Source.
type MongoSource struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoSource connects to MongoDB and prepares a catalog source.
func NewMongoSource(config *MongoConfig) (*MongoSource, error) {
	if config == nil {
		config = DefaultMongoConfig()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(config.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &MongoSource{
		client:     client,
		collection: client.Database(config.Database).Collection(config.Collection),
	}, nil
}

// Load implements catalog.Source. Questions come back ordered by ID
// so catalog construction is deterministic across restarts.
func (s *MongoSource) Load() ([]catalog.Question, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "id", Value: 1}})
	cursor, err := s.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	defer cursor.Close(ctx)

	var questions []catalog.Question
	if err := cursor.All(ctx, &questions); err != nil {
		return nil, fmt.Errorf("failed to decode questions: %w", err)
	}
	return questions, nil
}

// Save upserts questions, keyed by question ID. Used by catalog
// provisioning tools, not by the selection pipeline.
func (s *MongoSource) Save(ctx context.Context, questions []catalog.Question) error {
	for _, q := range questions {
		filter := bson.D{{Key: "id", Value: q.ID}}
		update := bson.D{{Key: "$set", Value: q}}
		if _, err := s.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
			return fmt.Errorf("failed to upsert question %s: %w", q.ID, err)
		}
	}
	return nil
}

// Close disconnects from MongoDB.
func (s *MongoSource) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
