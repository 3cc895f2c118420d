package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

var (
	client *mongo.Client
	DB     *mongo.Database
)

// Connect opens the client and pings the primary. Callers treat an error as
// fatal: the service must not serve requests without its store.
func Connect(ctx context.Context, uri, dbName string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	clientOpts := options.Client().ApplyURI(uri)
	c, err := mongo.Connect(clientOpts)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}

	if err := c.Ping(ctx, readpref.Primary()); err != nil {
		_ = c.Disconnect(context.Background())
		return fmt.Errorf("ping: %w", err)
	}

	client = c
	DB = c.Database(dbName)
	slog.Info("Connected to MongoDB", "database", dbName)
	return nil
}

func GetCollection(name string) *mongo.Collection {
	return DB.Collection(name)
}

// Ping reports whether the primary is reachable.
func Ping(ctx context.Context) error {
	if client == nil {
		return fmt.Errorf("mongo client not connected")
	}
	return client.Ping(ctx, readpref.Primary())
}

func Disconnect(ctx context.Context) error {
	if client == nil {
		return nil
	}
	return client.Disconnect(ctx)
}

// HealthChecker adapts Ping for the health endpoint.
type HealthChecker struct{}

func (HealthChecker) Check(ctx context.Context) error {
	return Ping(ctx)
}
