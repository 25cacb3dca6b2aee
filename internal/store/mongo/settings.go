package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/atomiccms/atomic-service/internal/model"
)

// DashboardSettings returns the singleton settings document, creating it
// with defaults on first access.
func (s *MongoStore) DashboardSettings(ctx context.Context) (*model.DashboardSettings, error) {
	var settings model.DashboardSettings
	err := s.settings().FindOne(ctx, bson.M{}).Decode(&settings)
	if errors.Is(err, mongo.ErrNoDocuments) {
		settings = model.DashboardSettings{
			ID:        bson.NewObjectID(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if _, err := s.settings().InsertOne(ctx, &settings); err != nil {
			return nil, fmt.Errorf("failed to insert dashboard settings: %w", err)
		}
		return &settings, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find dashboard settings: %w", err)
	}
	return &settings, nil
}

func (s *MongoStore) SaveDashboardSettings(ctx context.Context, settings *model.DashboardSettings) error {
	settings.UpdatedAt = time.Now()
	_, err := s.settings().ReplaceOne(ctx, bson.M{"_id": settings.ID}, settings,
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save dashboard settings: %w", err)
	}
	return nil
}

func (s *MongoStore) DeleteDashboardSettings(ctx context.Context) error {
	if _, err := s.settings().DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("failed to delete dashboard settings: %w", err)
	}
	return nil
}
