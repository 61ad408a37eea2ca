package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/planstack/floorplan/pkg/errors"
	"github.com/planstack/floorplan/pkg/layout"
)

const (
	mongoCollection    = "layouts"
	mongoSelectTimeout = 5 * time.Second
	mongoCloseTimeout  = 5 * time.Second
)

// MongoStore keeps layouts in a MongoDB collection. Each document
// wraps the full layout with its summary fields, so listings never
// transfer object arrays.
type MongoStore struct {
	client *mongo.Client
	col    *mongo.Collection
}

// record is the stored document shape.
type record struct {
	Info   `bson:",inline"`
	Layout *layout.Layout `bson:"layout"`
}

// NewMongoStore connects to MongoDB and verifies the connection.
// An empty database name selects "floorplan".
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	if database == "" {
		database = "floorplan"
	}

	opts := options.Client().ApplyURI(uri).SetServerSelectionTimeout(mongoSelectTimeout)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "connect mongodb")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "ping mongodb at %s", uri)
	}

	return &MongoStore{
		client: client,
		col:    client.Database(database).Collection(mongoCollection),
	}, nil
}

// List returns summaries of every stored layout, ordered by id.
func (s *MongoStore) List(ctx context.Context) ([]Info, error) {
	opts := options.Find().
		SetProjection(bson.M{"layout": 0}).
		SetSort(bson.D{{Key: "_id", Value: 1}})

	cursor, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list layouts")
	}

	infos := []Info{}
	if err := cursor.All(ctx, &infos); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "decode layout listing")
	}
	return infos, nil
}

// Get loads a layout by id.
func (s *MongoStore) Get(ctx context.Context, id string) (*layout.Layout, error) {
	if err := errors.ValidateStoreID(id); err != nil {
		return nil, err
	}

	var rec record
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, errors.New(errors.ErrCodeLayoutNotFound, "layout %q not found", id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "read layout %q", id)
	}
	if rec.Layout == nil {
		return nil, errors.New(errors.ErrCodeStorage, "layout %q has no document", id)
	}
	return rec.Layout, nil
}

// Put stores a layout, replacing any previous version. An empty id
// mints a fresh one.
func (s *MongoStore) Put(ctx context.Context, id string, l *layout.Layout) (string, error) {
	if id == "" {
		id = uuid.NewString()
	} else if err := errors.ValidateStoreID(id); err != nil {
		return "", err
	}

	rec := record{
		Info: Info{
			ID:        id,
			Name:      l.Name,
			Objects:   len(l.Objects),
			UpdatedAt: time.Now().UTC(),
		},
		Layout: l,
	}

	_, err := s.col.ReplaceOne(ctx, bson.M{"_id": id}, rec, options.Replace().SetUpsert(true))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeStorage, err, "store layout %q", id)
	}
	return id, nil
}

// Delete removes a stored layout.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if err := errors.ValidateStoreID(id); err != nil {
		return err
	}

	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "delete layout %q", id)
	}
	if res.DeletedCount == 0 {
		return errors.New(errors.ErrCodeLayoutNotFound, "layout %q not found", id)
	}
	return nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), mongoCloseTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
