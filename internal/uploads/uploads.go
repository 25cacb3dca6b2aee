// Package uploads manages the disk lifecycle of uploaded files and their
// metadata records. Each upload lives alone in a random directory so that
// deleting the directory removes exactly one upload.
package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/atomiccms/atomic-service/internal/model"
	"github.com/atomiccms/atomic-service/internal/security"
	"github.com/atomiccms/atomic-service/internal/store"
)

// Incoming is a pending upload: a content stream plus its declared name and size.
type Incoming struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// Store is the slice of the document store the manager needs.
type Store interface {
	CreateUpload(ctx context.Context, kind model.UploadKind, upload *model.Upload) error
	UploadByID(ctx context.Context, kind model.UploadKind, id bson.ObjectID) (*model.Upload, error)
	DeleteUpload(ctx context.Context, kind model.UploadKind, id bson.ObjectID) error
}

// Manager writes upload content under a root directory and keeps the
// metadata records in the store. Stored paths are public URLs built from
// the server base URL.
type Manager struct {
	store     Store
	root      string
	serverURL string

	// MaxSize caps the accepted upload size in bytes. Zero means unlimited.
	MaxSize int64
}

// NewManager returns a Manager rooted at dir.
func NewManager(s Store, dir, serverURL string) *Manager {
	return &Manager{store: s, root: dir, serverURL: strings.TrimRight(serverURL, "/")}
}

// Create streams the upload to disk and records its metadata. A nil upload
// returns (nil, nil). No record is created unless the file was fully written.
func (m *Manager) Create(ctx context.Context, kind model.UploadKind, in *Incoming) (*model.Upload, error) {
	if in == nil || in.Content == nil {
		return nil, nil
	}
	if m.MaxSize > 0 && in.Size > m.MaxSize {
		return nil, &store.ValidationError{Field: "file", Message: fmt.Sprintf("file exceeds %d bytes", m.MaxSize)}
	}

	dir := uuid.NewString()
	name := uuid.NewString() + "-" + in.Filename
	absDir := filepath.Join(m.root, dir)
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %q: %w", absDir, err)
	}

	absPath := filepath.Join(absDir, name)
	f, err := os.Create(absPath)
	if err != nil {
		return nil, fmt.Errorf("create upload file: %w", err)
	}
	// The declared size check above is advisory; the copy enforces the limit.
	content := in.Content
	if m.MaxSize > 0 {
		content = io.LimitReader(content, m.MaxSize+1)
	}
	written, err := io.Copy(f, content)
	if err != nil {
		f.Close()
		os.RemoveAll(absDir)
		return nil, fmt.Errorf("write upload file: %w", err)
	}
	if m.MaxSize > 0 && written > m.MaxSize {
		f.Close()
		os.RemoveAll(absDir)
		return nil, &store.ValidationError{Field: "file", Message: fmt.Sprintf("file exceeds %d bytes", m.MaxSize)}
	}
	if err := f.Close(); err != nil {
		os.RemoveAll(absDir)
		return nil, fmt.Errorf("close upload file: %w", err)
	}

	upload := &model.Upload{
		Path:     m.serverURL + "/" + path.Join("uploads", dir, name),
		Size:     in.Size,
		Filename: in.Filename,
	}
	if err := m.store.CreateUpload(ctx, kind, upload); err != nil {
		os.RemoveAll(absDir)
		return nil, err
	}
	if security.UploadsWrittenTotal != nil {
		security.UploadsWrittenTotal.Inc()
	}
	return upload, nil
}

// CreateAll stores a positional batch. Nil entries are skipped, so the result
// can be shorter than the input.
func (m *Manager) CreateAll(ctx context.Context, kind model.UploadKind, in []*Incoming) ([]*model.Upload, error) {
	out := make([]*model.Upload, 0, len(in))
	for _, item := range in {
		upload, err := m.Create(ctx, kind, item)
		if err != nil {
			return out, err
		}
		if upload != nil {
			out = append(out, upload)
		}
	}
	return out, nil
}

// Delete removes the upload's directory and its metadata record. Unknown ids
// are a no-op.
func (m *Manager) Delete(ctx context.Context, kind model.UploadKind, id bson.ObjectID) error {
	upload, err := m.store.UploadByID(ctx, kind, id)
	if err != nil {
		var notFound *store.NotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}

	if dir := m.containingDir(upload.Path); dir != "" {
		if err := os.RemoveAll(dir); err != nil {
			log.Warn("Failed to remove upload directory", "dir", dir, "error", err)
		}
	}
	return m.store.DeleteUpload(ctx, kind, id)
}

// DeleteAll deletes each upload in turn, stopping at the first store error.
func (m *Manager) DeleteAll(ctx context.Context, kind model.UploadKind, ids []bson.ObjectID) error {
	for _, id := range ids {
		if err := m.Delete(ctx, kind, id); err != nil {
			return err
		}
	}
	return nil
}

// containingDir maps a stored public path back to the upload's directory on
// disk. Returns "" when the path does not point into the upload root.
func (m *Manager) containingDir(storedPath string) string {
	u, err := url.Parse(storedPath)
	if err != nil {
		return ""
	}
	rel := strings.TrimPrefix(u.Path, "/")
	rel, found := strings.CutPrefix(rel, "uploads/")
	if !found {
		return ""
	}
	dir, _, ok := strings.Cut(rel, "/")
	if !ok || dir == "" || dir == "." || dir == ".." {
		return ""
	}
	return filepath.Join(m.root, dir)
}
