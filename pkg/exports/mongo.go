package exports

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const connectTimeout = 10 * time.Second

// MongoStore keeps records in a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to uri and uses database.collection. An index on
// created_at keeps Last and List cheap.
func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	coll := client.Database(database).Collection(collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("create index: %w", err)
	}
	return &MongoStore{client: client, coll: coll}, nil
}

// Add inserts r.
func (s *MongoStore) Add(ctx context.Context, r Record) error {
	if _, err := s.coll.InsertOne(ctx, r); err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

// Last returns the record with the newest created_at, or ErrEmpty.
func (s *MongoStore) Last(ctx context.Context) (Record, error) {
	var r Record
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
	err := s.coll.FindOne(ctx, bson.D{}, opts).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Record{}, ErrEmpty
	}
	if err != nil {
		return Record{}, fmt.Errorf("find last record: %w", err)
	}
	return r, nil
}

// List returns up to limit records, newest first.
func (s *MongoStore) List(ctx context.Context, limit int) ([]Record, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find records: %w", err)
	}
	var records []Record
	if err := cur.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	return records, nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}

var _ Store = (*MongoStore)(nil)
