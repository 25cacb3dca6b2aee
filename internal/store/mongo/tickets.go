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

func (s *MongoStore) CreateTicket(ctx context.Context, ticket *model.Ticket) error {
	now := time.Now()
	ticket.CreatedAt = now
	ticket.UpdatedAt = now
	if ticket.ID.IsZero() {
		ticket.ID = bson.NewObjectID()
	}
	if ticket.Messages == nil {
		ticket.Messages = []bson.ObjectID{}
	}
	if _, err := s.tickets().InsertOne(ctx, ticket); err != nil {
		return fmt.Errorf("failed to insert ticket: %w", err)
	}
	return nil
}

func (s *MongoStore) TicketByID(ctx context.Context, id bson.ObjectID) (*model.Ticket, error) {
	var ticket model.Ticket
	err := s.tickets().FindOne(ctx, bson.M{"_id": id}).Decode(&ticket)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, &store.NotFoundError{Resource: "ticket", ID: id.Hex()}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find ticket: %w", err)
	}
	return &ticket, nil
}

func (s *MongoStore) Tickets(ctx context.Context, q *store.Query, opts store.ListOptions) ([]model.Ticket, error) {
	return findAll[model.Ticket](ctx, s.tickets(), q, opts)
}

func (s *MongoStore) SaveTicket(ctx context.Context, ticket *model.Ticket) error {
	ticket.UpdatedAt = time.Now()
	res, err := s.tickets().ReplaceOne(ctx, bson.M{"_id": ticket.ID}, ticket)
	if err != nil {
		return fmt.Errorf("failed to save ticket: %w", err)
	}
	if res.MatchedCount == 0 {
		return &store.NotFoundError{Resource: "ticket", ID: ticket.ID.Hex()}
	}
	return nil
}

func (s *MongoStore) DeleteTicket(ctx context.Context, id bson.ObjectID) error {
	if _, err := s.tickets().DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete ticket: %w", err)
	}
	return nil
}
