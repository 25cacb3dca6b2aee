package resolver

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/atomiccms/atomic-service/internal/model"
	"github.com/atomiccms/atomic-service/internal/store"
)

// CategoryInput carries category create/update fields.
type CategoryInput struct {
	Name        string             `json:"name"`
	Type        model.CategoryType `json:"type"`
	Description string             `json:"description"`
}

// CategoryFilter narrows the category listing.
type CategoryFilter struct {
	Type model.CategoryType
	ListArgs
}

func (r *Resolvers) Categories(ctx context.Context, f CategoryFilter) ([]model.Category, error) {
	q := store.NewQuery()
	if f.Type != "" {
		q.Eq("type", f.Type)
	}
	if f.Search != "" {
		q.Search(f.Search, "name", "description")
	}
	return r.Store.Categories(ctx, q, f.options())
}

func (r *Resolvers) Category(ctx context.Context, id bson.ObjectID) (*model.Category, error) {
	return r.Store.CategoryByID(ctx, id)
}

// CreateCategory adds a category and returns the refreshed listing.
func (r *Resolvers) CreateCategory(ctx context.Context, viewer *model.User, input CategoryInput) ([]model.Category, error) {
	if err := requireViewer(viewer); err != nil {
		return nil, err
	}
	if input.Name == "" {
		return nil, &store.ValidationError{Field: "name", Message: "name required"}
	}

	category := &model.Category{
		Name:        input.Name,
		Type:        input.Type,
		Description: input.Description,
	}
	if category.Type == "" {
		category.Type = model.CategoryDivision
	}
	if err := r.Store.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	r.recordActivity(ctx, viewer, model.ActivityCreateCategory, model.EntityCategory, category.Name)

	return r.Store.Categories(ctx, store.NewQuery(), store.ListOptions{})
}

// UpdateCategory edits a category and returns the refreshed listing. An
// unknown id is a no-op.
func (r *Resolvers) UpdateCategory(ctx context.Context, viewer *model.User, id bson.ObjectID, input CategoryInput) ([]model.Category, error) {
	if err := requireViewer(viewer); err != nil {
		return nil, err
	}
	if input.Name == "" {
		return nil, &store.ValidationError{Field: "name", Message: "name required"}
	}

	category, err := r.Store.CategoryByID(ctx, id)
	if err == nil {
		category.Name = input.Name
		if input.Type != "" {
			category.Type = input.Type
		}
		if input.Description != "" {
			category.Description = input.Description
		}
		if err := r.Store.SaveCategory(ctx, category); err != nil {
			return nil, err
		}
		r.recordActivity(ctx, viewer, model.ActivityUpdateCategory, model.EntityCategory, category.Name)
	} else if !store.IsNotFound(err) {
		return nil, err
	}

	return r.Store.Categories(ctx, store.NewQuery(), store.ListOptions{})
}

// DeleteCategory removes a category. Articles and projects that referenced
// it are left uncategorized. Returns the refreshed listing.
func (r *Resolvers) DeleteCategory(ctx context.Context, viewer *model.User, id bson.ObjectID) ([]model.Category, error) {
	if err := requireViewer(viewer); err != nil {
		return nil, err
	}

	category, err := r.Store.CategoryByID(ctx, id)
	if err == nil {
		if err := r.Store.DeleteCategory(ctx, category.ID); err != nil {
			return nil, err
		}
		r.recordActivity(ctx, viewer, model.ActivityDeleteCategory, model.EntityCategory, category.Name)
	} else if !store.IsNotFound(err) {
		return nil, err
	}

	return r.Store.Categories(ctx, store.NewQuery(), store.ListOptions{})
}
