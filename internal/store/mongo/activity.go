package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/atomiccms/atomic-service/internal/model"
	"github.com/atomiccms/atomic-service/internal/store"
)

func (s *MongoStore) CreateActivity(ctx context.Context, activity *model.Activity) error {
	now := time.Now()
	activity.CreatedAt = now
	activity.UpdatedAt = now
	if activity.ID.IsZero() {
		activity.ID = bson.NewObjectID()
	}
	if _, err := s.activities().InsertOne(ctx, activity); err != nil {
		return fmt.Errorf("failed to insert activity: %w", err)
	}
	return trimNewest(ctx, s.activities(), bson.M{}, s.retention)
}

func (s *MongoStore) Activities(ctx context.Context, opts store.ListOptions) ([]model.Activity, error) {
	return findAll[model.Activity](ctx, s.activities(), nil, opts)
}
