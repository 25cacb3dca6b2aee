package resolver

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/atomiccms/atomic-service/internal/model"
	"github.com/atomiccms/atomic-service/internal/store"
)

// UserChats lists the viewer's open chats. Anonymous callers get an empty
// list.
func (r *Resolvers) UserChats(ctx context.Context, viewer *model.User) ([]model.UserChat, error) {
	if viewer == nil {
		return []model.UserChat{}, nil
	}
	all, err := r.Store.UserChats(ctx, viewer.ID)
	if err != nil {
		return nil, err
	}
	open := make([]model.UserChat, 0, len(all))
	for _, uc := range all {
		if uc.Status == model.ChatOpened {
			open = append(open, uc)
		}
	}
	return open, nil
}

func (r *Resolvers) Chat(ctx context.Context, id bson.ObjectID) (*model.Chat, error) {
	return r.Store.ChatByID(ctx, id)
}

// ChatMessages returns a chat's messages in order.
func (r *Resolvers) ChatMessages(ctx context.Context, id bson.ObjectID) ([]model.Message, error) {
	chat, err := r.Store.ChatByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return r.Store.MessagesByIDs(ctx, chat.Messages)
}

// AddUserChat opens the direct chat between the viewer and the recipient,
// creating the chat on first contact. Both sides get an open chat entry.
// Returns false when either party cannot be resolved.
func (r *Resolvers) AddUserChat(ctx context.Context, viewer *model.User, recipient string) (bool, error) {
	if viewer == nil {
		return false, nil
	}
	candidate, err := r.Store.UserByEmail(ctx, recipient)
	if err != nil {
		if store.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}

	chat, err := r.Store.PersonalChat(ctx, viewer.ID, candidate.ID)
	if store.IsNotFound(err) {
		chat = &model.Chat{
			Type:    model.ChatPersonal,
			Title:   fmt.Sprintf("Chat with %s", candidate.Name),
			Members: []bson.ObjectID{viewer.ID, candidate.ID},
		}
		if err := r.Store.CreateChat(ctx, chat); err != nil {
			return false, err
		}
	} else if err != nil {
		return false, err
	}

	for _, member := range []bson.ObjectID{viewer.ID, candidate.ID} {
		if err := r.openUserChat(ctx, member, chat.ID); err != nil {
			return false, err
		}
	}
	return true, nil
}

func (r *Resolvers) openUserChat(ctx context.Context, user, chat bson.ObjectID) error {
	uc, err := r.Store.UserChat(ctx, user, chat)
	if store.IsNotFound(err) {
		return r.Store.CreateUserChat(ctx, &model.UserChat{
			Chat:   chat,
			User:   user,
			Status: model.ChatOpened,
		})
	}
	if err != nil {
		return err
	}
	if uc.Status != model.ChatOpened {
		uc.Status = model.ChatOpened
		return r.Store.SaveUserChat(ctx, uc)
	}
	return nil
}

// SendMessage posts a message into the viewer's direct chat with the
// recipient and returns the chat's messages. Without an established chat
// the message is not delivered and the list is empty.
func (r *Resolvers) SendMessage(ctx context.Context, viewer *model.User, recipient, text string) ([]model.Message, error) {
	if err := requireViewer(viewer); err != nil {
		return nil, err
	}
	if text == "" {
		return nil, &store.ValidationError{Field: "text", Message: "text required"}
	}

	candidate, err := r.Store.UserByEmail(ctx, recipient)
	if err != nil {
		if store.IsNotFound(err) {
			return []model.Message{}, nil
		}
		return nil, err
	}

	chat, err := r.Store.PersonalChat(ctx, viewer.ID, candidate.ID)
	if err != nil {
		if store.IsNotFound(err) {
			return []model.Message{}, nil
		}
		return nil, err
	}

	msg := &model.Message{
		Chat: chat.ID,
		User: viewer.ID,
		Text: text,
		Type: model.MessageUnreaded,
	}
	if err := r.Store.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	chat, err = r.Store.ChatByID(ctx, chat.ID)
	if err != nil {
		return nil, err
	}
	return r.Store.MessagesByIDs(ctx, chat.Messages)
}

// ReadMessages marks the given messages read.
func (r *Resolvers) ReadMessages(ctx context.Context, viewer *model.User, ids []bson.ObjectID) (bool, error) {
	if err := requireViewer(viewer); err != nil {
		return false, err
	}
	if len(ids) == 0 {
		return true, nil
	}
	if err := r.Store.MarkMessagesReadByIDs(ctx, ids); err != nil {
		return false, err
	}
	return true, nil
}
