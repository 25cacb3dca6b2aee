package mongo

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/atomiccms/atomic-service/internal/config"
	"github.com/atomiccms/atomic-service/internal/store"
)

// MongoStore implements store.Store on a MongoDB database.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database

	// retention caps the activity and notice logs. Zero disables trimming.
	retention int64
}

// Open connects to MongoDB and returns a ready store.
func Open(ctx context.Context, cfg *config.Config) (*MongoStore, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(cfg.DBURL))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return &MongoStore{
		client:    client,
		db:        client.Database(cfg.DBName),
		retention: cfg.ActivityRetention,
	}, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) users() *mongo.Collection      { return s.db.Collection("users") }
func (s *MongoStore) roles() *mongo.Collection      { return s.db.Collection("roles") }
func (s *MongoStore) categories() *mongo.Collection { return s.db.Collection("categories") }
func (s *MongoStore) articles() *mongo.Collection   { return s.db.Collection("articles") }
func (s *MongoStore) projects() *mongo.Collection   { return s.db.Collection("projects") }
func (s *MongoStore) tickets() *mongo.Collection    { return s.db.Collection("tickets") }
func (s *MongoStore) chats() *mongo.Collection      { return s.db.Collection("chats") }
func (s *MongoStore) userChats() *mongo.Collection  { return s.db.Collection("user_chats") }
func (s *MongoStore) messages() *mongo.Collection   { return s.db.Collection("messages") }
func (s *MongoStore) notices() *mongo.Collection    { return s.db.Collection("notices") }
func (s *MongoStore) activities() *mongo.Collection {
	return s.db.Collection("dashboard_activities")
}
func (s *MongoStore) files() *mongo.Collection  { return s.db.Collection("files") }
func (s *MongoStore) images() *mongo.Collection { return s.db.Collection("images") }
func (s *MongoStore) settings() *mongo.Collection {
	return s.db.Collection("dashboard_settings")
}

// findAll runs a paginated find and materializes the full result.
func findAll[T any](ctx context.Context, coll *mongo.Collection, q *store.Query, opts store.ListOptions) ([]T, error) {
	findOpts := options.Find().SetSort(opts.Sort())
	if opts.Skip > 0 {
		findOpts.SetSkip(opts.Skip)
	}
	if opts.Limit > 0 {
		findOpts.SetLimit(opts.Limit)
	}
	if q == nil {
		q = store.NewQuery()
	}
	cursor, err := coll.Find(ctx, q.Build(), findOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to find %s: %w", coll.Name(), err)
	}
	docs := []T{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", coll.Name(), err)
	}
	return docs, nil
}

// trimNewest keeps the n newest documents matching filter and deletes the rest.
func trimNewest(ctx context.Context, coll *mongo.Collection, filter bson.M, n int64) error {
	if n <= 0 {
		return nil
	}
	cursor, err := coll.Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(n).
		SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return fmt.Errorf("failed to find newest %s: %w", coll.Name(), err)
	}
	var keep []struct {
		ID bson.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &keep); err != nil {
		return fmt.Errorf("failed to decode newest %s: %w", coll.Name(), err)
	}
	if int64(len(keep)) < n {
		return nil
	}
	ids := make([]bson.ObjectID, 0, len(keep))
	for _, d := range keep {
		ids = append(ids, d.ID)
	}
	trimFilter := bson.M{"_id": bson.M{"$nin": ids}}
	for k, v := range filter {
		trimFilter[k] = v
	}
	res, err := coll.DeleteMany(ctx, trimFilter)
	if err != nil {
		return fmt.Errorf("failed to trim %s: %w", coll.Name(), err)
	}
	if res.DeletedCount > 0 {
		log.Debug("Trimmed log", "collection", coll.Name(), "deleted", res.DeletedCount)
	}
	return nil
}
