package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultMongoDatabase = "blog_generator"

// MongoStore maps each collection to a MongoDB collection.
type MongoStore struct {
	client  *mongo.Client
	db      *mongo.Database
	timeout time.Duration
}

// OpenMongo connects to uri and pings the primary.
func OpenMongo(ctx context.Context, uri, name string, timeout time.Duration) (*MongoStore, error) {
	connectCtx, cancel := withTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, unavailable("connect", err)
	}

	store := NewMongoStore(client, name, timeout)
	if pingErr := store.Ping(ctx); pingErr != nil {
		_ = client.Disconnect(context.Background())
		return nil, pingErr
	}

	return store, nil
}

// NewMongoStore wraps a connected client, using database name.
func NewMongoStore(client *mongo.Client, name string, timeout time.Duration) *MongoStore {
	return &MongoStore{client: client, db: client.Database(name), timeout: timeout}
}

// Create inserts a copy of fields with creation timestamps.
func (s *MongoStore) Create(ctx context.Context, collection string, fields map[string]any) (Ref, error) {
	now := time.Now().UTC().Truncate(time.Millisecond)

	doc := bson.M(bodyFields(fields))
	doc[FieldCreatedAt] = now
	doc[FieldUpdatedAt] = now

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.db.Collection(collection).InsertOne(ctx, doc)
	if err != nil {
		return Ref{}, unavailable("create document", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return Ref{}, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}

	return Ref{ID: oid.Hex(), CreatedAt: now}, nil
}

// List returns the newest documents of collection matching filter.
func (s *MongoStore) List(ctx context.Context, collection string, filter Filter, limit int) ([]Document, error) {
	query := bson.M{}
	for k, v := range filter {
		query[k] = v
	}

	opts := options.Find().
		SetSort(bson.D{{Key: FieldCreatedAt, Value: -1}}).
		SetLimit(int64(limit))

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	cursor, err := s.db.Collection(collection).Find(ctx, query, opts)
	if err != nil {
		return nil, unavailable("list documents", err)
	}

	var raw []bson.M
	if err = cursor.All(ctx, &raw); err != nil {
		return nil, unavailable("list documents", err)
	}

	docs := make([]Document, 0, len(raw))
	for _, m := range raw {
		docs = append(docs, fromBSON(m))
	}
	return docs, nil
}

// Get returns the document whose ObjectID hex is id, or ErrNotFound.
func (s *MongoStore) Get(ctx context.Context, collection, id string) (Document, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	var m bson.M
	err = s.db.Collection(collection).FindOne(ctx, bson.M{"_id": oid}).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, unavailable("get document", err)
	}

	return fromBSON(m), nil
}

// Ping checks the primary.
func (s *MongoStore) Ping(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.client.Ping(ctx, nil); err != nil {
		return unavailable("ping", err)
	}
	return nil
}

// Collections returns up to limit collection names of the database.
func (s *MongoStore) Collections(ctx context.Context, limit int) ([]string, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	names, err := s.db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, unavailable("list collections", err)
	}
	if len(names) > limit {
		names = names[:limit]
	}
	return names, nil
}

// DatabaseName returns the database name.
func (s *MongoStore) DatabaseName() string { return s.db.Name() }

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := withTimeout(context.Background(), s.timeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// fromBSON converts a decoded document into driver-independent values.
// _id becomes the hex string "id".
func fromBSON(m bson.M) Document {
	doc := make(Document, len(m))
	for k, v := range m {
		if k == "_id" {
			doc[FieldID] = bsonID(v)
			continue
		}
		doc[k] = fromBSONValue(v)
	}
	return doc
}

func bsonID(v any) string {
	if oid, ok := v.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return fmt.Sprint(v)
}

func fromBSONValue(v any) any {
	switch val := v.(type) {
	case primitive.DateTime:
		return val.Time().UTC()
	case primitive.ObjectID:
		return val.Hex()
	case primitive.A:
		out := make([]any, len(val))
		for i := range val {
			out[i] = fromBSONValue(val[i])
		}
		return out
	case bson.M:
		return map[string]any(fromBSON(val))
	case bson.D:
		return map[string]any(fromBSON(val.Map()))
	default:
		return v
	}
}
