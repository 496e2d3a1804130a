package notify

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	eventsCollection = "inventory_events"
	mongoTimeout     = 5 * time.Second
)

// MongoArchive stores every event in the inventory_events collection
type MongoArchive struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoArchive connects to uri and verifies the connection with a ping
func NewMongoArchive(ctx context.Context, uri, dbName string) (*MongoArchive, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return &MongoArchive{
		client:     client,
		collection: client.Database(dbName).Collection(eventsCollection),
	}, nil
}

func (a *MongoArchive) Notify(ctx context.Context, event Event) error {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	if _, err := a.collection.InsertOne(ctx, event); err != nil {
		return fmt.Errorf("archive event: %w", err)
	}
	return nil
}

func (a *MongoArchive) Close(ctx context.Context) error {
	return a.client.Disconnect(ctx)
}
