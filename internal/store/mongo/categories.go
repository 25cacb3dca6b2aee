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

func (s *MongoStore) CreateCategory(ctx context.Context, category *model.Category) error {
	now := time.Now()
	category.CreatedAt = now
	category.UpdatedAt = now
	if category.ID.IsZero() {
		category.ID = bson.NewObjectID()
	}
	if _, err := s.categories().InsertOne(ctx, category); err != nil {
		return fmt.Errorf("failed to insert category: %w", err)
	}
	return nil
}

func (s *MongoStore) CategoryByID(ctx context.Context, id bson.ObjectID) (*model.Category, error) {
	var category model.Category
	err := s.categories().FindOne(ctx, bson.M{"_id": id}).Decode(&category)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, &store.NotFoundError{Resource: "category", ID: id.Hex()}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find category: %w", err)
	}
	return &category, nil
}

func (s *MongoStore) Categories(ctx context.Context, q *store.Query, opts store.ListOptions) ([]model.Category, error) {
	return findAll[model.Category](ctx, s.categories(), q, opts)
}

func (s *MongoStore) SaveCategory(ctx context.Context, category *model.Category) error {
	category.UpdatedAt = time.Now()
	res, err := s.categories().ReplaceOne(ctx, bson.M{"_id": category.ID}, category)
	if err != nil {
		return fmt.Errorf("failed to save category: %w", err)
	}
	if res.MatchedCount == 0 {
		return &store.NotFoundError{Resource: "category", ID: category.ID.Hex()}
	}
	return nil
}

func (s *MongoStore) DeleteCategory(ctx context.Context, id bson.ObjectID) error {
	if _, err := s.categories().DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	unset := bson.M{"$unset": bson.M{"category": ""}}
	if _, err := s.articles().UpdateMany(ctx, bson.M{"category": id}, unset); err != nil {
		return fmt.Errorf("failed to unset category on articles: %w", err)
	}
	if _, err := s.projects().UpdateMany(ctx, bson.M{"category": id}, unset); err != nil {
		return fmt.Errorf("failed to unset category on projects: %w", err)
	}
	return nil
}
