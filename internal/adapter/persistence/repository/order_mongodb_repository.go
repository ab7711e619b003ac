package repository

import (
	"context"
	"errors"
	"time"

	"payment_relay/internal/domain/entities"
	"payment_relay/internal/usecase/interfaces"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type orderDocument struct {
	ID        string    `bson:"_id"`
	Reference string    `bson:"reference,omitempty"`
	Status    string    `bson:"status,omitempty"`
	UpdatedAt time.Time `bson:"updated_at,omitempty"`
}

// OrderMongoRepository persists order references and statuses in MongoDB.
// Documents are keyed by the storefront's orderId in _id.
type OrderMongoRepository struct {
	col *mongo.Collection
}

var _ interfaces.IOrderRepository = (*OrderMongoRepository)(nil)

// NewOrderMongoRepository ensures the reference index exists; an index error is
// logged and ignored so a read-only user can still run the relay.
func NewOrderMongoRepository(ctx context.Context, client *mongo.Client, dbName, collection string) *OrderMongoRepository {
	col := client.Database(dbName).Collection(collection)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err := col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "reference", Value: 1}},
	})
	if err != nil {
		log.WithError(err).Warn("[order][repository] failed to ensure reference index")
	}

	return &OrderMongoRepository{col: col}
}

func (r *OrderMongoRepository) UpdateReference(ctx context.Context, orderID, reference string) (entities.Order, error) {
	return r.findOneAndSet(ctx,
		bson.M{"_id": orderID},
		bson.M{"reference": reference, "updated_at": time.Now().UTC()},
	)
}

func (r *OrderMongoRepository) UpdateStatus(ctx context.Context, orderID, reference string, status entities.OrderStatus) (entities.Order, error) {
	return r.findOneAndSet(ctx,
		bson.M{"_id": orderID, "reference": reference},
		bson.M{"status": string(status), "updated_at": time.Now().UTC()},
	)
}

func (r *OrderMongoRepository) ListByReference(ctx context.Context, reference string, limit int) ([]entities.Order, error) {
	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := r.col.Find(ctx, bson.M{"reference": reference}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	orders := make([]entities.Order, 0)
	for cur.Next(ctx) {
		var doc orderDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		orders = append(orders, fromOrderDocument(doc))
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderMongoRepository) findOneAndSet(ctx context.Context, filter, set bson.M) (entities.Order, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc orderDocument
	err := r.col.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return entities.Order{}, interfaces.ErrOrderNotFound
		}
		return entities.Order{}, err
	}
	return fromOrderDocument(doc), nil
}

func fromOrderDocument(doc orderDocument) entities.Order {
	return entities.Order{
		ID:        doc.ID,
		Reference: doc.Reference,
		Status:    entities.OrderStatus(doc.Status),
		UpdatedAt: doc.UpdatedAt,
	}
}
