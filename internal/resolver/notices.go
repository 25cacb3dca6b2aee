package resolver

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/atomiccms/atomic-service/internal/model"
	"github.com/atomiccms/atomic-service/internal/store"
)

// Notifications lists notices addressed to the account with the given
// email.
func (r *Resolvers) Notifications(ctx context.Context, authorEmail string, args ListArgs) ([]model.Notice, error) {
	q := store.NewQuery()
	r.constrainByEmail(ctx, q, "author", authorEmail)
	if args.Search != "" {
		q.Search(args.Search, "title")
	}
	return r.Store.Notices(ctx, q, args.options())
}

func (r *Resolvers) Notice(ctx context.Context, id bson.ObjectID) (*model.Notice, error) {
	return r.Store.NoticeByID(ctx, id)
}

// ReadNotifications marks the given notices read. Unknown ids fail the
// whole call.
func (r *Resolvers) ReadNotifications(ctx context.Context, viewer *model.User, ids []bson.ObjectID) (bool, error) {
	if err := requireViewer(viewer); err != nil {
		return false, err
	}
	if len(ids) == 0 {
		return true, nil
	}
	notices, err := r.Store.NoticesByIDs(ctx, ids)
	if err != nil {
		return false, err
	}
	if len(notices) != len(ids) {
		return false, &store.NotFoundError{Resource: "notice", ID: "batch"}
	}
	if err := r.Store.MarkNoticesRead(ctx, ids); err != nil {
		return false, err
	}
	return true, nil
}
