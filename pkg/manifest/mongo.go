package manifest

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/matzehuels/synthtext/pkg/errors"
)

// disconnectTimeout bounds Close.
const disconnectTimeout = 10 * time.Second

// Mongo inserts records into a MongoDB collection, one document per sample
// keyed by the record ID.
type Mongo struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongo connects to uri and pings the primary.
func NewMongo(ctx context.Context, uri, database, collection string) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeManifest, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeManifest, err, "ping mongodb")
	}
	return &Mongo{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}, nil
}

// Write inserts r.
func (m *Mongo) Write(ctx context.Context, r Record) error {
	if _, err := m.coll.InsertOne(ctx, r); err != nil {
		return errors.Wrap(errors.ErrCodeManifest, err, "insert record %s", r.ID)
	}
	return nil
}

// Close disconnects the client.
func (m *Mongo) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
	defer cancel()
	if err := m.client.Disconnect(ctx); err != nil {
		return errors.Wrap(errors.ErrCodeManifest, err, "disconnect mongodb")
	}
	return nil
}

var _ Sink = (*Mongo)(nil)
