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

func (s *MongoStore) CreateChat(ctx context.Context, chat *model.Chat) error {
	now := time.Now()
	chat.CreatedAt = now
	chat.UpdatedAt = now
	if chat.ID.IsZero() {
		chat.ID = bson.NewObjectID()
	}
	if chat.Messages == nil {
		chat.Messages = []bson.ObjectID{}
	}
	if _, err := s.chats().InsertOne(ctx, chat); err != nil {
		return fmt.Errorf("failed to insert chat: %w", err)
	}
	return nil
}

func (s *MongoStore) ChatByID(ctx context.Context, id bson.ObjectID) (*model.Chat, error) {
	var chat model.Chat
	err := s.chats().FindOne(ctx, bson.M{"_id": id}).Decode(&chat)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, &store.NotFoundError{Resource: "chat", ID: id.Hex()}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find chat: %w", err)
	}
	return &chat, nil
}

func (s *MongoStore) PersonalChat(ctx context.Context, a, b bson.ObjectID) (*model.Chat, error) {
	var chat model.Chat
	err := s.chats().FindOne(ctx, bson.M{
		"type":    model.ChatPersonal,
		"members": bson.M{"$all": bson.A{a, b}},
	}).Decode(&chat)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, &store.NotFoundError{Resource: "chat", ID: a.Hex() + ":" + b.Hex()}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find personal chat: %w", err)
	}
	return &chat, nil
}

func (s *MongoStore) SaveChat(ctx context.Context, chat *model.Chat) error {
	chat.UpdatedAt = time.Now()
	res, err := s.chats().ReplaceOne(ctx, bson.M{"_id": chat.ID}, chat)
	if err != nil {
		return fmt.Errorf("failed to save chat: %w", err)
	}
	if res.MatchedCount == 0 {
		return &store.NotFoundError{Resource: "chat", ID: chat.ID.Hex()}
	}
	return nil
}

func (s *MongoStore) CreateUserChat(ctx context.Context, uc *model.UserChat) error {
	now := time.Now()
	uc.CreatedAt = now
	uc.UpdatedAt = now
	if uc.ID.IsZero() {
		uc.ID = bson.NewObjectID()
	}
	if _, err := s.userChats().InsertOne(ctx, uc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return &store.ConflictError{Message: "chat already added", Code: "user_chat_exists"}
		}
		return fmt.Errorf("failed to insert user chat: %w", err)
	}
	return nil
}

func (s *MongoStore) UserChats(ctx context.Context, user bson.ObjectID) ([]model.UserChat, error) {
	q := store.NewQuery().Eq("user", user)
	return findAll[model.UserChat](ctx, s.userChats(), q, store.ListOptions{})
}

func (s *MongoStore) UserChat(ctx context.Context, user, chat bson.ObjectID) (*model.UserChat, error) {
	var uc model.UserChat
	err := s.userChats().FindOne(ctx, bson.M{"user": user, "chat": chat}).Decode(&uc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, &store.NotFoundError{Resource: "user chat", ID: chat.Hex()}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user chat: %w", err)
	}
	return &uc, nil
}

func (s *MongoStore) SaveUserChat(ctx context.Context, uc *model.UserChat) error {
	uc.UpdatedAt = time.Now()
	res, err := s.userChats().ReplaceOne(ctx, bson.M{"_id": uc.ID}, uc)
	if err != nil {
		return fmt.Errorf("failed to save user chat: %w", err)
	}
	if res.MatchedCount == 0 {
		return &store.NotFoundError{Resource: "user chat", ID: uc.ID.Hex()}
	}
	return nil
}

func (s *MongoStore) CreateMessage(ctx context.Context, msg *model.Message) error {
	now := time.Now()
	msg.CreatedAt = now
	msg.UpdatedAt = now
	if msg.ID.IsZero() {
		msg.ID = bson.NewObjectID()
	}
	if _, err := s.messages().InsertOne(ctx, msg); err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	// The chat document keeps the ordered message reference list.
	if _, err := s.chats().UpdateByID(ctx, msg.Chat, bson.M{
		"$push": bson.M{"messages": msg.ID},
		"$set":  bson.M{"updated_at": now},
	}); err != nil {
		return fmt.Errorf("failed to append message to chat: %w", err)
	}
	return nil
}

func (s *MongoStore) MessagesByIDs(ctx context.Context, ids []bson.ObjectID) ([]model.Message, error) {
	q := store.NewQuery().In("_id", ids)
	return findAll[model.Message](ctx, s.messages(), q, store.ListOptions{SortField: "created_at"})
}

func (s *MongoStore) MarkMessagesReadByIDs(ctx context.Context, ids []bson.ObjectID) error {
	_, err := s.messages().UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		bson.M{"$set": bson.M{"type": model.MessageReaded, "updated_at": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark messages read: %w", err)
	}
	return nil
}

func (s *MongoStore) MarkMessagesRead(ctx context.Context, chat, reader bson.ObjectID) error {
	_, err := s.messages().UpdateMany(ctx,
		bson.M{"chat": chat, "user": bson.M{"$ne": reader}, "type": model.MessageUnreaded},
		bson.M{"$set": bson.M{"type": model.MessageReaded, "updated_at": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark messages read: %w", err)
	}
	return nil
}
