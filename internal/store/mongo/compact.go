package mongo

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/atomiccms/atomic-service/internal/store"
)

// CompactOrphans walks every collection that carries mandatory references
// and deletes documents whose referent is gone. Each deletion is logged.
func (s *MongoStore) CompactOrphans(ctx context.Context) (store.CompactStats, error) {
	userIDs, err := s.collectIDs(ctx, s.users())
	if err != nil {
		return nil, err
	}
	chatIDs, err := s.collectIDs(ctx, s.chats())
	if err != nil {
		return nil, err
	}

	stats := store.CompactStats{}
	passes := []struct {
		coll   *mongo.Collection
		filter bson.M
	}{
		{s.articles(), missingRef("author", userIDs)},
		{s.projects(), missingRef("author", userIDs)},
		{s.tickets(), orFilter(missingRef("author", userIDs), missingRef("counsellor", userIDs))},
		{s.notices(), missingRef("author", userIDs)},
		{s.messages(), orFilter(missingRef("chat", chatIDs), missingRef("user", userIDs))},
		{s.userChats(), orFilter(missingRef("chat", chatIDs), missingRef("user", userIDs))},
		{s.activities(), missingRef("user", userIDs)},
	}

	for _, p := range passes {
		res, err := p.coll.DeleteMany(ctx, p.filter)
		if err != nil {
			return stats, fmt.Errorf("failed to compact %s: %w", p.coll.Name(), err)
		}
		stats[p.coll.Name()] = res.DeletedCount
		if res.DeletedCount > 0 {
			log.Info("Compacted orphaned documents", "collection", p.coll.Name(), "deleted", res.DeletedCount)
		}
	}
	return stats, nil
}

func (s *MongoStore) collectIDs(ctx context.Context, coll *mongo.Collection) ([]bson.ObjectID, error) {
	cursor, err := coll.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s ids: %w", coll.Name(), err)
	}
	var docs []struct {
		ID bson.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode %s ids: %w", coll.Name(), err)
	}
	ids := make([]bson.ObjectID, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	return ids, nil
}

func missingRef(field string, ids []bson.ObjectID) bson.M {
	return bson.M{field: bson.M{"$nin": ids}}
}

func orFilter(filters ...bson.M) bson.M {
	clauses := make(bson.A, 0, len(filters))
	for _, f := range filters {
		clauses = append(clauses, f)
	}
	return bson.M{"$or": clauses}
}
