package resolver

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/atomiccms/atomic-service/internal/model"
	"github.com/atomiccms/atomic-service/internal/store"
)

func (r *Resolvers) Tickets(ctx context.Context, args ListArgs) ([]model.Ticket, error) {
	q := store.NewQuery()
	if args.Search != "" {
		q.Search(args.Search, "title")
	}
	return r.Store.Tickets(ctx, q, args.options())
}

func (r *Resolvers) Ticket(ctx context.Context, id bson.ObjectID) (*model.Ticket, error) {
	return r.Store.TicketByID(ctx, id)
}

// TicketMessages returns a ticket's conversation in order.
func (r *Resolvers) TicketMessages(ctx context.Context, id bson.ObjectID) ([]model.Message, error) {
	ticket, err := r.Store.TicketByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return r.Store.MessagesByIDs(ctx, ticket.Messages)
}

// TicketInput carries ticket create/update fields.
type TicketInput struct {
	Title      string           `json:"title"`
	Message    string           `json:"message"`
	Category   *bson.ObjectID   `json:"category"`
	Counsellor *bson.ObjectID   `json:"counsellor"`
	Status     model.ChatStatus `json:"status"`
}

// CreateTicket opens a support ticket authored by the viewer. Without an
// explicit counsellor an admin account is assigned. Returns the refreshed
// listing.
func (r *Resolvers) CreateTicket(ctx context.Context, viewer *model.User, input TicketInput) ([]model.Ticket, error) {
	if err := requireViewer(viewer); err != nil {
		return nil, err
	}
	if input.Title == "" {
		return nil, &store.ValidationError{Field: "title", Message: "title required"}
	}

	ticket := &model.Ticket{
		Title:    input.Title,
		Author:   viewer.ID,
		Category: input.Category,
		Status:   model.ChatOpened,
	}
	if input.Counsellor != nil {
		ticket.Counsellor = *input.Counsellor
	} else {
		admins, err := r.Store.Users(ctx,
			store.NewQuery().Eq("account", model.AccountAdmin),
			store.ListOptions{Limit: 1})
		if err != nil {
			return nil, err
		}
		if len(admins) == 0 {
			return nil, &store.ValidationError{Field: "counsellor", Message: "no counsellor available"}
		}
		ticket.Counsellor = admins[0].ID
	}

	if err := r.Store.CreateTicket(ctx, ticket); err != nil {
		return nil, err
	}

	if input.Message != "" {
		// Ticket messages ride the message collection keyed by ticket id.
		msg := &model.Message{
			Chat: ticket.ID,
			User: viewer.ID,
			Text: input.Message,
			Type: model.MessageUnreaded,
		}
		if err := r.Store.CreateMessage(ctx, msg); err != nil {
			return nil, err
		}
		ticket.Messages = append(ticket.Messages, msg.ID)
		if err := r.Store.SaveTicket(ctx, ticket); err != nil {
			return nil, err
		}
	}

	r.recordActivity(ctx, viewer, model.ActivityCreateTicket, model.EntityTicket, ticket.ID.Hex())

	return r.Store.Tickets(ctx, store.NewQuery(), store.ListOptions{})
}

// UpdateTicket edits a ticket and returns the refreshed listing. An
// unknown id is a no-op.
func (r *Resolvers) UpdateTicket(ctx context.Context, viewer *model.User, id bson.ObjectID, input TicketInput) ([]model.Ticket, error) {
	if err := requireViewer(viewer); err != nil {
		return nil, err
	}

	ticket, err := r.Store.TicketByID(ctx, id)
	if err == nil {
		if input.Title != "" {
			ticket.Title = input.Title
		}
		if input.Category != nil {
			ticket.Category = input.Category
		}
		if input.Counsellor != nil {
			ticket.Counsellor = *input.Counsellor
		}
		if input.Status != "" {
			ticket.Status = input.Status
		}
		if err := r.Store.SaveTicket(ctx, ticket); err != nil {
			return nil, err
		}
		r.recordActivity(ctx, viewer, model.ActivityUpdateTicket, model.EntityTicket, ticket.ID.Hex())
	} else if !store.IsNotFound(err) {
		return nil, err
	}

	return r.Store.Tickets(ctx, store.NewQuery(), store.ListOptions{})
}

// DeleteTicket removes a ticket and returns the refreshed listing.
func (r *Resolvers) DeleteTicket(ctx context.Context, viewer *model.User, id bson.ObjectID) ([]model.Ticket, error) {
	if err := requireViewer(viewer); err != nil {
		return nil, err
	}

	ticket, err := r.Store.TicketByID(ctx, id)
	if err == nil {
		if err := r.Store.DeleteTicket(ctx, ticket.ID); err != nil {
			return nil, err
		}
		r.recordActivity(ctx, viewer, model.ActivityDeleteTicket, model.EntityTicket, ticket.ID.Hex())
	} else if !store.IsNotFound(err) {
		return nil, err
	}

	return r.Store.Tickets(ctx, store.NewQuery(), store.ListOptions{})
}
