package resolver

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/atomiccms/atomic-service/internal/model"
	"github.com/atomiccms/atomic-service/internal/pubsub"
	"github.com/atomiccms/atomic-service/internal/store"
	"github.com/atomiccms/atomic-service/internal/uploads"
)

// ProjectFilter narrows the project listing. Member matches projects the
// user participates in or that belong to their company.
type ProjectFilter struct {
	Status *model.PostStatus
	Author string
	Member string
	ListArgs
}

func (r *Resolvers) Projects(ctx context.Context, f ProjectFilter) ([]model.Project, error) {
	q := store.NewQuery()
	if f.Status != nil {
		q.Eq("status", *f.Status)
	}
	r.constrainByEmail(ctx, q, "author", f.Author)
	if f.Member != "" {
		user, err := r.Store.UserByEmail(ctx, f.Member)
		if err == nil {
			q.Or(
				bson.M{"members": user.ID},
				bson.M{"company": user.ID},
			)
		} else if r.Config.StrictFilters {
			q.MatchNothing()
		}
	}
	if f.Search != "" {
		q.Search(f.Search, "title", "description", "body")
	}
	return r.Store.Projects(ctx, q, f.options())
}

// ProjectsByIDs resolves the given ids, dropping those that no longer
// exist.
func (r *Resolvers) ProjectsByIDs(ctx context.Context, ids []bson.ObjectID, status *model.PostStatus) ([]model.Project, error) {
	return r.Store.ProjectsByIDs(ctx, ids, status)
}

func (r *Resolvers) Project(ctx context.Context, id bson.ObjectID) (*model.Project, error) {
	return r.Store.ProjectByID(ctx, id)
}

// ProjectInput carries project create/update fields. Attachments replace
// their current sets when given.
type ProjectInput struct {
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	Body         string              `json:"body"`
	Company      string              `json:"company"`
	Category     *bson.ObjectID      `json:"category"`
	Presentation string              `json:"presentation"`
	Members      []string            `json:"members"`
	Status       model.PostStatus    `json:"status"`
	Preview      *uploads.Incoming   `json:"-"`
	Files        []*uploads.Incoming `json:"-"`
	Screenshots  []*uploads.Incoming `json:"-"`
}

// memberIDs resolves member emails, skipping unknown addresses.
func (r *Resolvers) memberIDs(ctx context.Context, emails []string) ([]bson.ObjectID, error) {
	ids := make([]bson.ObjectID, 0, len(emails))
	for _, email := range emails {
		member, err := r.Store.UserByEmail(ctx, email)
		if err != nil {
			if store.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		ids = append(ids, member.ID)
	}
	return ids, nil
}

func (r *Resolvers) projectListing(ctx context.Context, status *model.PostStatus) ([]model.Project, error) {
	q := store.NewQuery()
	if status != nil {
		q.Eq("status", *status)
	}
	return r.Store.Projects(ctx, q, store.ListOptions{})
}

// CreateProject publishes a new project authored by the viewer and returns
// the refreshed listing.
func (r *Resolvers) CreateProject(ctx context.Context, viewer *model.User, input ProjectInput, status *model.PostStatus) ([]model.Project, error) {
	if err := requireViewer(viewer); err != nil {
		return nil, err
	}
	if input.Title == "" {
		return nil, &store.ValidationError{Field: "title", Message: "title required"}
	}

	project := &model.Project{
		Author:       viewer.ID,
		Title:        input.Title,
		Description:  input.Description,
		Body:         input.Body,
		Category:     input.Category,
		Presentation: input.Presentation,
		Status:       input.Status,
	}
	if project.Status == "" {
		project.Status = model.PostModeration
	}
	if input.Company != "" {
		// Any existing account qualifies as a project company.
		company, err := r.Store.UserByEmail(ctx, input.Company)
		if err == nil {
			project.Company = &company.ID
		} else if !store.IsNotFound(err) {
			return nil, err
		}
	}
	members, err := r.memberIDs(ctx, input.Members)
	if err != nil {
		return nil, err
	}
	project.Members = members

	preview, err := r.Uploads.Create(ctx, model.UploadImage, input.Preview)
	if err != nil {
		return nil, err
	}
	if preview != nil {
		project.Preview = &preview.ID
	}
	files, err := r.Uploads.CreateAll(ctx, model.UploadFile, input.Files)
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		project.Files = append(project.Files, f.ID)
	}
	screenshots, err := r.Uploads.CreateAll(ctx, model.UploadImage, input.Screenshots)
	if err != nil {
		return nil, err
	}
	for _, s := range screenshots {
		project.Screenshots = append(project.Screenshots, s.ID)
	}

	if err := r.Store.CreateProject(ctx, project); err != nil {
		return nil, err
	}
	r.recordActivity(ctx, viewer, model.ActivityCreateProject, model.EntityProject, project.ID.Hex())
	r.publish(ctx, pubsub.TopicNewProject, project)

	return r.projectListing(ctx, status)
}

// UpdateProject edits a project and returns the refreshed listing. An
// unknown id is a no-op.
func (r *Resolvers) UpdateProject(ctx context.Context, viewer *model.User, id bson.ObjectID, input ProjectInput, status *model.PostStatus) ([]model.Project, error) {
	if err := requireViewer(viewer); err != nil {
		return nil, err
	}
	if input.Title == "" {
		return nil, &store.ValidationError{Field: "title", Message: "title required"}
	}

	project, err := r.Store.ProjectByID(ctx, id)
	if err == nil {
		project.Title = input.Title
		if input.Body != "" {
			project.Body = input.Body
		}
		if input.Description != "" {
			project.Description = input.Description
		}
		if input.Category != nil {
			project.Category = input.Category
		}
		if input.Presentation != "" {
			project.Presentation = input.Presentation
		}
		if input.Status != "" {
			project.Status = input.Status
		}
		if input.Company != "" {
			company, err := r.Store.UserByEmail(ctx, input.Company)
			if err == nil {
				project.Company = &company.ID
			} else if !store.IsNotFound(err) {
				return nil, err
			}
		}
		if len(input.Members) > 0 {
			members, err := r.memberIDs(ctx, input.Members)
			if err != nil {
				return nil, err
			}
			project.Members = members
		}

		if input.Preview != nil {
			preview, err := r.Uploads.Create(ctx, model.UploadImage, input.Preview)
			if err != nil {
				return nil, err
			}
			old := project.Preview
			project.Preview = &preview.ID
			if old != nil {
				if err := r.Uploads.Delete(ctx, model.UploadImage, *old); err != nil {
					return nil, err
				}
			}
		}
		if len(input.Files) > 0 {
			files, err := r.Uploads.CreateAll(ctx, model.UploadFile, input.Files)
			if err != nil {
				return nil, err
			}
			project.Files = nil
			for _, f := range files {
				project.Files = append(project.Files, f.ID)
			}
		}
		if len(input.Screenshots) > 0 {
			screenshots, err := r.Uploads.CreateAll(ctx, model.UploadImage, input.Screenshots)
			if err != nil {
				return nil, err
			}
			project.Screenshots = nil
			for _, s := range screenshots {
				project.Screenshots = append(project.Screenshots, s.ID)
			}
		}

		if err := r.Store.SaveProject(ctx, project); err != nil {
			return nil, err
		}
		r.recordActivity(ctx, viewer, model.ActivityUpdateProject, model.EntityProject, project.ID.Hex())
		r.publish(ctx, pubsub.TopicNewProject, project)
	} else if !store.IsNotFound(err) {
		return nil, err
	}

	return r.projectListing(ctx, status)
}

// DeleteProject removes a project with its attachments and returns the
// refreshed listing.
func (r *Resolvers) DeleteProject(ctx context.Context, viewer *model.User, id bson.ObjectID, status *model.PostStatus) ([]model.Project, error) {
	if err := requireViewer(viewer); err != nil {
		return nil, err
	}

	project, err := r.Store.ProjectByID(ctx, id)
	if err == nil {
		if project.Preview != nil {
			if err := r.Uploads.Delete(ctx, model.UploadImage, *project.Preview); err != nil {
				return nil, err
			}
		}
		if err := r.Uploads.DeleteAll(ctx, model.UploadImage, project.Screenshots); err != nil {
			return nil, err
		}
		if err := r.Uploads.DeleteAll(ctx, model.UploadFile, project.Files); err != nil {
			return nil, err
		}
		r.recordActivity(ctx, viewer, model.ActivityDeleteProject, model.EntityProject, project.ID.Hex())
		if err := r.Store.DeleteProject(ctx, project.ID); err != nil {
			return nil, err
		}
	} else if !store.IsNotFound(err) {
		return nil, err
	}

	return r.projectListing(ctx, status)
}
