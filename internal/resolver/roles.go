package resolver

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/atomiccms/atomic-service/internal/model"
	"github.com/atomiccms/atomic-service/internal/store"
)

// RoleInput carries role create/update fields.
type RoleInput struct {
	Name        string             `json:"name"`
	Permissions []model.Permission `json:"permissions"`
}

func (r *Resolvers) Roles(ctx context.Context, args ListArgs) ([]model.Role, error) {
	q := store.NewQuery()
	if args.Search != "" {
		q.Search(args.Search, "name")
	}
	return r.Store.Roles(ctx, q, args.options())
}

func (r *Resolvers) Role(ctx context.Context, id bson.ObjectID) (*model.Role, error) {
	return r.Store.RoleByID(ctx, id)
}

// CreateRole adds a role and returns the refreshed listing.
func (r *Resolvers) CreateRole(ctx context.Context, viewer *model.User, input RoleInput) ([]model.Role, error) {
	if err := requireViewer(viewer); err != nil {
		return nil, err
	}
	if input.Name == "" {
		return nil, &store.ValidationError{Field: "name", Message: "name required"}
	}

	role := &model.Role{Name: input.Name, Permissions: input.Permissions}
	if err := r.Store.CreateRole(ctx, role); err != nil {
		return nil, err
	}
	r.recordActivity(ctx, viewer, model.ActivityCreateRole, model.EntityRole, role.Name)

	return r.Store.Roles(ctx, store.NewQuery(), store.ListOptions{})
}

// UpdateRole edits a role and returns the refreshed listing. An unknown id
// is a no-op.
func (r *Resolvers) UpdateRole(ctx context.Context, viewer *model.User, id bson.ObjectID, input RoleInput) ([]model.Role, error) {
	if err := requireViewer(viewer); err != nil {
		return nil, err
	}
	if input.Name == "" {
		return nil, &store.ValidationError{Field: "name", Message: "name required"}
	}

	role, err := r.Store.RoleByID(ctx, id)
	if err == nil {
		role.Name = input.Name
		if input.Permissions != nil {
			role.Permissions = input.Permissions
		}
		if err := r.Store.SaveRole(ctx, role); err != nil {
			return nil, err
		}
		r.recordActivity(ctx, viewer, model.ActivityUpdateRole, model.EntityRole, role.Name)
	} else if !store.IsNotFound(err) {
		return nil, err
	}

	return r.Store.Roles(ctx, store.NewQuery(), store.ListOptions{})
}

// DeleteRole removes a role and returns the refreshed listing.
func (r *Resolvers) DeleteRole(ctx context.Context, viewer *model.User, id bson.ObjectID) ([]model.Role, error) {
	if err := requireViewer(viewer); err != nil {
		return nil, err
	}

	role, err := r.Store.RoleByID(ctx, id)
	if err == nil {
		if err := r.Store.DeleteRole(ctx, role.ID); err != nil {
			return nil, err
		}
		r.recordActivity(ctx, viewer, model.ActivityDeleteRole, model.EntityRole, role.Name)
	} else if !store.IsNotFound(err) {
		return nil, err
	}

	return r.Store.Roles(ctx, store.NewQuery(), store.ListOptions{})
}
