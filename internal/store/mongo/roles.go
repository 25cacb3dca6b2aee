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

func (s *MongoStore) CreateRole(ctx context.Context, role *model.Role) error {
	now := time.Now()
	role.CreatedAt = now
	role.UpdatedAt = now
	if role.ID.IsZero() {
		role.ID = bson.NewObjectID()
	}
	if _, err := s.roles().InsertOne(ctx, role); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return &store.ConflictError{Message: "role already exists", Code: "role_exists"}
		}
		return fmt.Errorf("failed to insert role: %w", err)
	}
	return nil
}

func (s *MongoStore) RoleByID(ctx context.Context, id bson.ObjectID) (*model.Role, error) {
	var role model.Role
	err := s.roles().FindOne(ctx, bson.M{"_id": id}).Decode(&role)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, &store.NotFoundError{Resource: "role", ID: id.Hex()}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find role: %w", err)
	}
	return &role, nil
}

func (s *MongoStore) RoleByName(ctx context.Context, name string) (*model.Role, error) {
	var role model.Role
	err := s.roles().FindOne(ctx, bson.M{"name": name}).Decode(&role)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, &store.NotFoundError{Resource: "role", ID: name}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find role: %w", err)
	}
	return &role, nil
}

func (s *MongoStore) Roles(ctx context.Context, q *store.Query, opts store.ListOptions) ([]model.Role, error) {
	return findAll[model.Role](ctx, s.roles(), q, opts)
}

func (s *MongoStore) SaveRole(ctx context.Context, role *model.Role) error {
	role.UpdatedAt = time.Now()
	res, err := s.roles().ReplaceOne(ctx, bson.M{"_id": role.ID}, role)
	if err != nil {
		return fmt.Errorf("failed to save role: %w", err)
	}
	if res.MatchedCount == 0 {
		return &store.NotFoundError{Resource: "role", ID: role.ID.Hex()}
	}
	return nil
}

func (s *MongoStore) DeleteRole(ctx context.Context, id bson.ObjectID) error {
	if _, err := s.roles().DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete role: %w", err)
	}
	return nil
}
