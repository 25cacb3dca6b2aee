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

func (s *MongoStore) uploadColl(kind model.UploadKind) *mongo.Collection {
	if kind == model.UploadImage {
		return s.images()
	}
	return s.files()
}

func (s *MongoStore) CreateUpload(ctx context.Context, kind model.UploadKind, upload *model.Upload) error {
	now := time.Now()
	upload.CreatedAt = now
	upload.UpdatedAt = now
	if upload.ID.IsZero() {
		upload.ID = bson.NewObjectID()
	}
	if _, err := s.uploadColl(kind).InsertOne(ctx, upload); err != nil {
		return fmt.Errorf("failed to insert %s: %w", kind, err)
	}
	return nil
}

func (s *MongoStore) UploadByID(ctx context.Context, kind model.UploadKind, id bson.ObjectID) (*model.Upload, error) {
	var upload model.Upload
	err := s.uploadColl(kind).FindOne(ctx, bson.M{"_id": id}).Decode(&upload)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, &store.NotFoundError{Resource: string(kind), ID: id.Hex()}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find %s: %w", kind, err)
	}
	return &upload, nil
}

func (s *MongoStore) Uploads(ctx context.Context, kind model.UploadKind, q *store.Query, opts store.ListOptions) ([]model.Upload, error) {
	return findAll[model.Upload](ctx, s.uploadColl(kind), q, opts)
}

func (s *MongoStore) DeleteUpload(ctx context.Context, kind model.UploadKind, id bson.ObjectID) error {
	if _, err := s.uploadColl(kind).DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete %s: %w", kind, err)
	}
	return nil
}
