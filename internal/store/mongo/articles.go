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

func (s *MongoStore) CreateArticle(ctx context.Context, article *model.Article) error {
	now := time.Now()
	article.CreatedAt = now
	article.UpdatedAt = now
	if article.ID.IsZero() {
		article.ID = bson.NewObjectID()
	}
	if article.Comments == nil {
		article.Comments = []model.Comment{}
	}
	if article.Views == nil {
		article.Views = []bson.ObjectID{}
	}
	if article.Rating == nil {
		article.Rating = []bson.ObjectID{}
	}
	if _, err := s.articles().InsertOne(ctx, article); err != nil {
		return fmt.Errorf("failed to insert article: %w", err)
	}
	return nil
}

func (s *MongoStore) ArticleByID(ctx context.Context, id bson.ObjectID) (*model.Article, error) {
	var article model.Article
	err := s.articles().FindOne(ctx, bson.M{"_id": id}).Decode(&article)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, &store.NotFoundError{Resource: "article", ID: id.Hex()}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find article: %w", err)
	}
	return &article, nil
}

func (s *MongoStore) Articles(ctx context.Context, q *store.Query, opts store.ListOptions) ([]model.Article, error) {
	return findAll[model.Article](ctx, s.articles(), q, opts)
}

func (s *MongoStore) SaveArticle(ctx context.Context, article *model.Article) error {
	article.UpdatedAt = time.Now()
	res, err := s.articles().ReplaceOne(ctx, bson.M{"_id": article.ID}, article)
	if err != nil {
		return fmt.Errorf("failed to save article: %w", err)
	}
	if res.MatchedCount == 0 {
		return &store.NotFoundError{Resource: "article", ID: article.ID.Hex()}
	}
	return nil
}

func (s *MongoStore) DeleteArticle(ctx context.Context, id bson.ObjectID) error {
	if _, err := s.articles().DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete article: %w", err)
	}
	return nil
}
