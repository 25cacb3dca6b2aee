// Package resolver implements the operation surface of the service. Each
// operation is a method on Resolvers, which carries the typed dependencies
// the operations share. The caller (the HTTP layer) resolves the viewer from
// the request and passes it in explicitly.
package resolver

import (
	"context"

	"github.com/charmbracelet/log"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/atomiccms/atomic-service/internal/config"
	"github.com/atomiccms/atomic-service/internal/mailer"
	"github.com/atomiccms/atomic-service/internal/model"
	"github.com/atomiccms/atomic-service/internal/pubsub"
	"github.com/atomiccms/atomic-service/internal/security"
	"github.com/atomiccms/atomic-service/internal/store"
	"github.com/atomiccms/atomic-service/internal/uploads"
)

type Resolvers struct {
	Store   store.Store
	Uploads *uploads.Manager
	Broker  pubsub.Broker
	Mail    mailer.Mailer
	Tokens  *security.TokenResolver
	Google  *security.GoogleVerifier
	Config  *config.Config
}

func New(s store.Store, up *uploads.Manager, broker pubsub.Broker, mail mailer.Mailer, tokens *security.TokenResolver, google *security.GoogleVerifier, cfg *config.Config) *Resolvers {
	return &Resolvers{
		Store:   s,
		Uploads: up,
		Broker:  broker,
		Mail:    mail,
		Tokens:  tokens,
		Google:  google,
		Config:  cfg,
	}
}

// ListArgs are the common list query arguments.
type ListArgs struct {
	Search string
	Sort   string
	Offset int64
	Limit  int64
}

func (a ListArgs) options() store.ListOptions {
	return store.ListOptions{SortField: a.Sort, Skip: a.Offset, Limit: a.Limit}
}

func requireViewer(viewer *model.User) error {
	if viewer == nil {
		return &store.UnauthorizedError{Message: "authentication required"}
	}
	return nil
}

// constrainByEmail resolves a user natural key to an id constraint on the
// given field. When the user does not exist the constraint is dropped, or
// under strict filtering the query is pinned to match nothing.
func (r *Resolvers) constrainByEmail(ctx context.Context, q *store.Query, field, email string) {
	if email == "" {
		return
	}
	user, err := r.Store.UserByEmail(ctx, email)
	if err != nil {
		if r.Config.StrictFilters {
			q.MatchNothing()
		}
		return
	}
	q.Eq(field, user.ID)
}

// resolveCompany maps a company email to its account id. Only entity
// accounts qualify.
func (r *Resolvers) resolveCompany(ctx context.Context, email string) *bson.ObjectID {
	if email == "" {
		return nil
	}
	company, err := r.Store.UserByEmail(ctx, email)
	if err != nil || company.Account != model.AccountEntity {
		return nil
	}
	return &company.ID
}

// recordActivity appends a dashboard feed entry. Failures are logged and do
// not fail the operation that produced them.
func (r *Resolvers) recordActivity(ctx context.Context, author *model.User, message string, entity model.EntityType, identity string) {
	if author == nil {
		return
	}
	err := r.Store.CreateActivity(ctx, &model.Activity{
		User:           author.ID,
		Message:        message,
		EntityType:     entity,
		IdentityString: identity,
	})
	if err != nil {
		log.Warn("Failed to record dashboard activity", "message", message, "error", err)
	}
}

func (r *Resolvers) publish(ctx context.Context, topic string, payload any) {
	if err := r.Broker.Publish(ctx, topic, payload); err != nil {
		log.Warn("Failed to publish event", "topic", topic, "error", err)
	}
}

func (r *Resolvers) sendMail(to, subject, body string) {
	if err := r.Mail.Send(to, subject, body); err != nil {
		log.Warn("Failed to send mail", "to", to, "error", err)
	}
}
