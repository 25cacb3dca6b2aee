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

func (s *MongoStore) CreateUser(ctx context.Context, user *model.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.ID.IsZero() {
		user.ID = bson.NewObjectID()
	}
	if _, err := s.users().InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return &store.ConflictError{Message: "user already exists", Code: "user_exists"}
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (s *MongoStore) UserByID(ctx context.Context, id bson.ObjectID) (*model.User, error) {
	return s.findUser(ctx, bson.M{"_id": id}, id.Hex())
}

func (s *MongoStore) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.findUser(ctx, bson.M{"email": email}, email)
}

func (s *MongoStore) UserByLogin(ctx context.Context, login string) (*model.User, error) {
	filter := bson.M{"$or": bson.A{bson.M{"email": login}, bson.M{"phone": login}}}
	return s.findUser(ctx, filter, login)
}

func (s *MongoStore) findUser(ctx context.Context, filter bson.M, id string) (*model.User, error) {
	var user model.User
	err := s.users().FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, &store.NotFoundError{Resource: "user", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

func (s *MongoStore) Users(ctx context.Context, q *store.Query, opts store.ListOptions) ([]model.User, error) {
	return findAll[model.User](ctx, s.users(), q, opts)
}

func (s *MongoStore) SaveUser(ctx context.Context, user *model.User) error {
	user.UpdatedAt = time.Now()
	res, err := s.users().ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return &store.ConflictError{Message: "user already exists", Code: "user_exists"}
		}
		return fmt.Errorf("failed to save user: %w", err)
	}
	if res.MatchedCount == 0 {
		return &store.NotFoundError{Resource: "user", ID: user.ID.Hex()}
	}
	return nil
}

func (s *MongoStore) DeleteUser(ctx context.Context, id bson.ObjectID) error {
	if _, err := s.users().DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

func (s *MongoStore) CountCompanyMembers(ctx context.Context, company bson.ObjectID) (int64, error) {
	n, err := s.users().CountDocuments(ctx, bson.M{"company": company})
	if err != nil {
		return 0, fmt.Errorf("failed to count company members: %w", err)
	}
	return n, nil
}
