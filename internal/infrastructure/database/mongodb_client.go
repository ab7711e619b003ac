package database

import (
	"context"
	"fmt"
	"time"

	"payment_relay/internal/config"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mongoConnectTimeout = 10 * time.Second

// ConnectMongoDB connects and pings MongoDB. The caller owns Disconnect.
func ConnectMongoDB(ctx context.Context, cfg config.StoreConfig) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	log.WithFields(log.Fields{
		"database":   cfg.MongoDB,
		"collection": cfg.MongoCollection,
	}).Info("[database][mongodb] connection established")
	return client, nil
}
