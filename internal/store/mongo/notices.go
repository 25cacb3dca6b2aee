package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/atomiccms/atomic-service/internal/model"
	"github.com/atomiccms/atomic-service/internal/store"
)

func (s *MongoStore) CreateNotice(ctx context.Context, notice *model.Notice) error {
	now := time.Now()
	notice.CreatedAt = now
	notice.UpdatedAt = now
	if notice.ID.IsZero() {
		notice.ID = bson.NewObjectID()
	}
	if notice.Status == "" {
		notice.Status = model.MessageUnreaded
	}
	if _, err := s.notices().InsertOne(ctx, notice); err != nil {
		return fmt.Errorf("failed to insert notice: %w", err)
	}
	return trimNewest(ctx, s.notices(), bson.M{"author": notice.Author}, s.retention)
}

func (s *MongoStore) NoticeByID(ctx context.Context, id bson.ObjectID) (*model.Notice, error) {
	var notice model.Notice
	err := s.notices().FindOne(ctx, bson.M{"_id": id}).Decode(&notice)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, &store.NotFoundError{Resource: "notice", ID: id.Hex()}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find notice: %w", err)
	}
	return &notice, nil
}

func (s *MongoStore) NoticesByIDs(ctx context.Context, ids []bson.ObjectID) ([]model.Notice, error) {
	q := store.NewQuery().In("_id", ids)
	return findAll[model.Notice](ctx, s.notices(), q, store.ListOptions{})
}

func (s *MongoStore) Notices(ctx context.Context, q *store.Query, opts store.ListOptions) ([]model.Notice, error) {
	return findAll[model.Notice](ctx, s.notices(), q, opts)
}

func (s *MongoStore) SaveNotice(ctx context.Context, notice *model.Notice) error {
	notice.UpdatedAt = time.Now()
	res, err := s.notices().ReplaceOne(ctx, bson.M{"_id": notice.ID}, notice)
	if err != nil {
		return fmt.Errorf("failed to save notice: %w", err)
	}
	if res.MatchedCount == 0 {
		return &store.NotFoundError{Resource: "notice", ID: notice.ID.Hex()}
	}
	return nil
}

func (s *MongoStore) DeleteNotice(ctx context.Context, id bson.ObjectID) error {
	if _, err := s.notices().DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete notice: %w", err)
	}
	return nil
}

func (s *MongoStore) MarkNoticesRead(ctx context.Context, ids []bson.ObjectID) error {
	_, err := s.notices().UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		bson.M{"$set": bson.M{"status": model.MessageReaded, "updated_at": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark notices read: %w", err)
	}
	return nil
}
