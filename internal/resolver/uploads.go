package resolver

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/atomiccms/atomic-service/internal/model"
	"github.com/atomiccms/atomic-service/internal/store"
	"github.com/atomiccms/atomic-service/internal/uploads"
)

func (r *Resolvers) Files(ctx context.Context, args ListArgs) ([]model.Upload, error) {
	return r.listUploads(ctx, model.UploadFile, args)
}

func (r *Resolvers) Images(ctx context.Context, args ListArgs) ([]model.Upload, error) {
	return r.listUploads(ctx, model.UploadImage, args)
}

func (r *Resolvers) listUploads(ctx context.Context, kind model.UploadKind, args ListArgs) ([]model.Upload, error) {
	q := store.NewQuery()
	if args.Search != "" {
		q.Search(args.Search, "filename")
	}
	return r.Store.Uploads(ctx, kind, q, args.options())
}

func (r *Resolvers) File(ctx context.Context, id bson.ObjectID) (*model.Upload, error) {
	return r.Store.UploadByID(ctx, model.UploadFile, id)
}

func (r *Resolvers) Image(ctx context.Context, id bson.ObjectID) (*model.Upload, error) {
	return r.Store.UploadByID(ctx, model.UploadImage, id)
}

// CreateFile stores an uploaded file and returns its record.
func (r *Resolvers) CreateFile(ctx context.Context, viewer *model.User, in *uploads.Incoming) (*model.Upload, error) {
	return r.createUpload(ctx, viewer, model.UploadFile, in)
}

// CreateImage stores an uploaded image and returns its record.
func (r *Resolvers) CreateImage(ctx context.Context, viewer *model.User, in *uploads.Incoming) (*model.Upload, error) {
	return r.createUpload(ctx, viewer, model.UploadImage, in)
}

func (r *Resolvers) createUpload(ctx context.Context, viewer *model.User, kind model.UploadKind, in *uploads.Incoming) (*model.Upload, error) {
	if err := requireViewer(viewer); err != nil {
		return nil, err
	}
	if in == nil {
		return nil, &store.ValidationError{Field: "file", Message: "file required"}
	}
	return r.Uploads.Create(ctx, kind, in)
}

// UpdateFile replaces a file's content. The new content is stored before
// the old record is removed.
func (r *Resolvers) UpdateFile(ctx context.Context, viewer *model.User, id bson.ObjectID, in *uploads.Incoming) (*model.Upload, error) {
	return r.updateUpload(ctx, viewer, model.UploadFile, id, in)
}

// UpdateImage replaces an image's content.
func (r *Resolvers) UpdateImage(ctx context.Context, viewer *model.User, id bson.ObjectID, in *uploads.Incoming) (*model.Upload, error) {
	return r.updateUpload(ctx, viewer, model.UploadImage, id, in)
}

func (r *Resolvers) updateUpload(ctx context.Context, viewer *model.User, kind model.UploadKind, id bson.ObjectID, in *uploads.Incoming) (*model.Upload, error) {
	if err := requireViewer(viewer); err != nil {
		return nil, err
	}
	if in == nil {
		return r.Store.UploadByID(ctx, kind, id)
	}
	replacement, err := r.Uploads.Create(ctx, kind, in)
	if err != nil {
		return nil, err
	}
	if err := r.Uploads.Delete(ctx, kind, id); err != nil {
		return nil, err
	}
	return replacement, nil
}

// DeleteFile removes a file record and its stored content.
func (r *Resolvers) DeleteFile(ctx context.Context, viewer *model.User, id bson.ObjectID) (bool, error) {
	return r.deleteUpload(ctx, viewer, model.UploadFile, id)
}

// DeleteImage removes an image record and its stored content.
func (r *Resolvers) DeleteImage(ctx context.Context, viewer *model.User, id bson.ObjectID) (bool, error) {
	return r.deleteUpload(ctx, viewer, model.UploadImage, id)
}

func (r *Resolvers) deleteUpload(ctx context.Context, viewer *model.User, kind model.UploadKind, id bson.ObjectID) (bool, error) {
	if err := requireViewer(viewer); err != nil {
		return false, err
	}
	if err := r.Uploads.Delete(ctx, kind, id); err != nil {
		return false, err
	}
	return true, nil
}
