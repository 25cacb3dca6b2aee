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

func (s *MongoStore) CreateProject(ctx context.Context, project *model.Project) error {
	now := time.Now()
	project.CreatedAt = now
	project.UpdatedAt = now
	if project.ID.IsZero() {
		project.ID = bson.NewObjectID()
	}
	if project.Members == nil {
		project.Members = []bson.ObjectID{}
	}
	if project.Files == nil {
		project.Files = []bson.ObjectID{}
	}
	if project.Screenshots == nil {
		project.Screenshots = []bson.ObjectID{}
	}
	if project.Views == nil {
		project.Views = []bson.ObjectID{}
	}
	if project.Rating == nil {
		project.Rating = []bson.ObjectID{}
	}
	if _, err := s.projects().InsertOne(ctx, project); err != nil {
		return fmt.Errorf("failed to insert project: %w", err)
	}
	return nil
}

func (s *MongoStore) ProjectByID(ctx context.Context, id bson.ObjectID) (*model.Project, error) {
	var project model.Project
	err := s.projects().FindOne(ctx, bson.M{"_id": id}).Decode(&project)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, &store.NotFoundError{Resource: "project", ID: id.Hex()}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return &project, nil
}

func (s *MongoStore) Projects(ctx context.Context, q *store.Query, opts store.ListOptions) ([]model.Project, error) {
	return findAll[model.Project](ctx, s.projects(), q, opts)
}

func (s *MongoStore) ProjectsByIDs(ctx context.Context, ids []bson.ObjectID, status *model.PostStatus) ([]model.Project, error) {
	q := store.NewQuery().In("_id", ids)
	if status != nil {
		q.Eq("status", *status)
	}
	return findAll[model.Project](ctx, s.projects(), q, store.ListOptions{})
}

func (s *MongoStore) SaveProject(ctx context.Context, project *model.Project) error {
	project.UpdatedAt = time.Now()
	res, err := s.projects().ReplaceOne(ctx, bson.M{"_id": project.ID}, project)
	if err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}
	if res.MatchedCount == 0 {
		return &store.NotFoundError{Resource: "project", ID: project.ID.Hex()}
	}
	return nil
}

func (s *MongoStore) DeleteProject(ctx context.Context, id bson.ObjectID) error {
	if _, err := s.projects().DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	// Drop the project from user folders so the client does not render
	// dangling entries.
	if _, err := s.users().UpdateMany(ctx,
		bson.M{"folders.projects": id},
		bson.M{"$pull": bson.M{"folders.$[].projects": id}},
	); err != nil {
		return fmt.Errorf("failed to remove project from folders: %w", err)
	}
	return nil
}
