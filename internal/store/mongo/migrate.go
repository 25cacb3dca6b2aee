package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Migrate creates the collections and indexes the service relies on. Safe to
// run repeatedly.
func (s *MongoStore) Migrate(ctx context.Context) error {
	log.Info("Running migration", "name", "mongo-schema")

	collections := map[string][]mongo.IndexModel{
		"users": {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "phone", Value: 1}}},
			{Keys: bson.D{{Key: "company", Value: 1}}},
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		},
		"roles": {
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		"categories": {
			{Keys: bson.D{{Key: "name", Value: 1}}},
			{Keys: bson.D{{Key: "type", Value: 1}}},
		},
		"articles": {
			{Keys: bson.D{{Key: "author", Value: 1}}},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "category", Value: 1}}},
		},
		"projects": {
			{Keys: bson.D{{Key: "author", Value: 1}}},
			{Keys: bson.D{{Key: "members", Value: 1}}},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "category", Value: 1}}},
		},
		"tickets": {
			{Keys: bson.D{{Key: "author", Value: 1}}},
			{Keys: bson.D{{Key: "counsellor", Value: 1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
		"chats": {
			{Keys: bson.D{{Key: "members", Value: 1}}},
		},
		"user_chats": {
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "chat", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		"messages": {
			{Keys: bson.D{{Key: "chat", Value: 1}, {Key: "created_at", Value: 1}}},
			{Keys: bson.D{{Key: "user", Value: 1}}},
		},
		"notices": {
			{Keys: bson.D{{Key: "author", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		"dashboard_activities": {
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "user", Value: 1}}},
		},
		"files": {
			{Keys: bson.D{{Key: "filename", Value: 1}}},
		},
		"images": {
			{Keys: bson.D{{Key: "filename", Value: 1}}},
		},
		"dashboard_settings": nil,
	}

	for name, indexes := range collections {
		if err := s.db.CreateCollection(ctx, name); err != nil {
			// Already existing collections are fine.
			if !isNamespaceExists(err) {
				return fmt.Errorf("mongo migration: failed to create collection %s: %w", name, err)
			}
		}
		if len(indexes) == 0 {
			continue
		}
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("mongo migration: failed to create indexes for %s: %w", name, err)
		}
	}
	return nil
}

func isNamespaceExists(err error) bool {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Code == 48 // NamespaceExists
	}
	return false
}
