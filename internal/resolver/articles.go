package resolver

import (
	"context"
	"slices"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/atomiccms/atomic-service/internal/model"
	"github.com/atomiccms/atomic-service/internal/pubsub"
	"github.com/atomiccms/atomic-service/internal/store"
	"github.com/atomiccms/atomic-service/internal/uploads"
)

// ArticleFilter narrows the article listing. Without a status the listing
// shows published articles only.
type ArticleFilter struct {
	Status    *model.PostStatus
	Category  *bson.ObjectID
	Author    string
	CreatedOn *time.Time
	ListArgs
}

func (r *Resolvers) Articles(ctx context.Context, f ArticleFilter) ([]model.Article, error) {
	q := store.NewQuery()
	status := model.PostPublished
	if f.Status != nil {
		status = *f.Status
	}
	q.Eq("status", status)
	if f.Category != nil {
		q.Eq("category", *f.Category)
	}
	r.constrainByEmail(ctx, q, "author", f.Author)
	if f.CreatedOn != nil {
		q.CreatedOn(*f.CreatedOn)
	}
	if f.Search != "" {
		q.Search(f.Search, "title", "body")
	}
	return r.Store.Articles(ctx, q, f.options())
}

func (r *Resolvers) Article(ctx context.Context, id bson.ObjectID) (*model.Article, error) {
	return r.Store.ArticleByID(ctx, id)
}

// ArticleInput carries article create/update fields.
type ArticleInput struct {
	Title    string            `json:"title"`
	Body     string            `json:"body"`
	Category *bson.ObjectID    `json:"category"`
	Status   model.PostStatus  `json:"status"`
	Preview  *uploads.Incoming `json:"-"`
}

// articleListing is the refreshed listing mutations return; when status is
// given the listing is narrowed to it.
func (r *Resolvers) articleListing(ctx context.Context, status *model.PostStatus) ([]model.Article, error) {
	q := store.NewQuery()
	if status != nil {
		q.Eq("status", *status)
	}
	return r.Store.Articles(ctx, q, store.ListOptions{})
}

// CreateArticle publishes a new article authored by the viewer and returns
// the refreshed listing.
func (r *Resolvers) CreateArticle(ctx context.Context, viewer *model.User, input ArticleInput, status *model.PostStatus) ([]model.Article, error) {
	if err := requireViewer(viewer); err != nil {
		return nil, err
	}
	if input.Body == "" {
		return nil, &store.ValidationError{Field: "body", Message: "body required"}
	}

	article := &model.Article{
		Author:   viewer.ID,
		Title:    input.Title,
		Body:     input.Body,
		Category: input.Category,
		Status:   input.Status,
	}
	if article.Status == "" {
		article.Status = model.PostModeration
	}

	preview, err := r.Uploads.Create(ctx, model.UploadImage, input.Preview)
	if err != nil {
		return nil, err
	}
	if preview != nil {
		article.Preview = &preview.ID
	}

	if err := r.Store.CreateArticle(ctx, article); err != nil {
		return nil, err
	}
	r.recordActivity(ctx, viewer, model.ActivityCreateArticle, model.EntityArticle, article.ID.Hex())
	r.publish(ctx, pubsub.TopicNewArticle, article)

	return r.articleListing(ctx, status)
}

// UpdateArticle edits an article and returns the refreshed listing. An
// unknown id is a no-op.
func (r *Resolvers) UpdateArticle(ctx context.Context, viewer *model.User, id bson.ObjectID, input ArticleInput, status *model.PostStatus) ([]model.Article, error) {
	if err := requireViewer(viewer); err != nil {
		return nil, err
	}
	if input.Body == "" {
		return nil, &store.ValidationError{Field: "body", Message: "body required"}
	}

	article, err := r.Store.ArticleByID(ctx, id)
	if err == nil {
		if input.Title != "" {
			article.Title = input.Title
		}
		article.Body = input.Body
		if input.Category != nil {
			article.Category = input.Category
		}
		if input.Status != "" {
			article.Status = input.Status
		}

		if input.Preview != nil {
			preview, err := r.Uploads.Create(ctx, model.UploadImage, input.Preview)
			if err != nil {
				return nil, err
			}
			old := article.Preview
			article.Preview = &preview.ID
			if old != nil {
				if err := r.Uploads.Delete(ctx, model.UploadImage, *old); err != nil {
					return nil, err
				}
			}
		}

		if err := r.Store.SaveArticle(ctx, article); err != nil {
			return nil, err
		}
		r.recordActivity(ctx, viewer, model.ActivityUpdateArticle, model.EntityArticle, article.ID.Hex())
		r.publish(ctx, pubsub.TopicNewArticle, article)
	} else if !store.IsNotFound(err) {
		return nil, err
	}

	return r.articleListing(ctx, status)
}

// DeleteArticles removes the given articles with their previews and returns
// the refreshed listing.
func (r *Resolvers) DeleteArticles(ctx context.Context, viewer *model.User, ids []bson.ObjectID, status *model.PostStatus) ([]model.Article, error) {
	if err := requireViewer(viewer); err != nil {
		return nil, err
	}

	for _, id := range ids {
		article, err := r.Store.ArticleByID(ctx, id)
		if err != nil {
			if store.IsNotFound(err) {
				continue
			}
			return nil, err
		}

		if article.Preview != nil {
			if err := r.Uploads.Delete(ctx, model.UploadImage, *article.Preview); err != nil {
				return nil, err
			}
		}
		r.recordActivity(ctx, viewer, model.ActivityDeleteArticle, model.EntityArticle, article.ID.Hex())
		if err := r.Store.DeleteArticle(ctx, article.ID); err != nil {
			return nil, err
		}
	}

	return r.articleListing(ctx, status)
}

// Comments returns an article's comments.
func (r *Resolvers) Comments(ctx context.Context, articleID bson.ObjectID) ([]model.Comment, error) {
	article, err := r.Store.ArticleByID(ctx, articleID)
	if err != nil {
		return nil, err
	}
	return article.Comments, nil
}

// CreateComment prepends the viewer's comment to an article and returns
// the article.
func (r *Resolvers) CreateComment(ctx context.Context, viewer *model.User, articleID bson.ObjectID, text string) (*model.Article, error) {
	if err := requireViewer(viewer); err != nil {
		return nil, err
	}
	if text == "" {
		return nil, &store.ValidationError{Field: "text", Message: "text required"}
	}

	article, err := r.Store.ArticleByID(ctx, articleID)
	if err != nil {
		return nil, err
	}

	comment := model.Comment{
		ID:        bson.NewObjectID(),
		User:      viewer.ID,
		Text:      text,
		CreatedAt: time.Now(),
	}
	article.Comments = append([]model.Comment{comment}, article.Comments...)
	if err := r.Store.SaveArticle(ctx, article); err != nil {
		return nil, err
	}
	r.publish(ctx, pubsub.TopicNewComment, comment)

	return article, nil
}

// DeleteComment removes the viewer's own comment from an article and
// returns the article. Deleting someone else's comment is forbidden.
func (r *Resolvers) DeleteComment(ctx context.Context, viewer *model.User, articleID, commentID bson.ObjectID) (*model.Article, error) {
	if err := requireViewer(viewer); err != nil {
		return nil, err
	}

	article, err := r.Store.ArticleByID(ctx, articleID)
	if err != nil {
		return nil, err
	}

	i := slices.IndexFunc(article.Comments, func(c model.Comment) bool { return c.ID == commentID })
	if i < 0 {
		return nil, &store.NotFoundError{Resource: "comment", ID: commentID.Hex()}
	}
	if article.Comments[i].User != viewer.ID {
		return nil, &store.ForbiddenError{}
	}

	article.Comments = slices.Delete(article.Comments, i, i+1)
	if err := r.Store.SaveArticle(ctx, article); err != nil {
		return nil, err
	}
	return article, nil
}
