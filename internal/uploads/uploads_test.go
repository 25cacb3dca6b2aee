package uploads

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/atomiccms/atomic-service/internal/model"
	"github.com/atomiccms/atomic-service/internal/store"
)

type fakeStore struct {
	records map[bson.ObjectID]*model.Upload
	fail    bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: map[bson.ObjectID]*model.Upload{}}
}

func (f *fakeStore) CreateUpload(_ context.Context, _ model.UploadKind, upload *model.Upload) error {
	if f.fail {
		return assert.AnError
	}
	if upload.ID.IsZero() {
		upload.ID = bson.NewObjectID()
	}
	f.records[upload.ID] = upload
	return nil
}

func (f *fakeStore) UploadByID(_ context.Context, kind model.UploadKind, id bson.ObjectID) (*model.Upload, error) {
	if u, ok := f.records[id]; ok {
		return u, nil
	}
	return nil, &store.NotFoundError{Resource: string(kind), ID: id.Hex()}
}

func (f *fakeStore) DeleteUpload(_ context.Context, _ model.UploadKind, id bson.ObjectID) error {
	delete(f.records, id)
	return nil
}

func listFiles(t *testing.T, root string) []string {
	t.Helper()
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			paths = append(paths, path)
		}
		return nil
	})
	require.NoError(t, err)
	return paths
}

func TestCreate_NilUpload(t *testing.T) {
	m := NewManager(newFakeStore(), t.TempDir(), "http://srv")

	upload, err := m.Create(context.Background(), model.UploadImage, nil)
	require.NoError(t, err)
	assert.Nil(t, upload)
}

func TestCreate_WritesFileAndRecord(t *testing.T) {
	root := t.TempDir()
	fs := newFakeStore()
	m := NewManager(fs, root, "http://srv/")

	upload, err := m.Create(context.Background(), model.UploadImage, &Incoming{
		Filename: "avatar.png",
		Size:     4,
		Content:  strings.NewReader("data"),
	})
	require.NoError(t, err)
	require.NotNil(t, upload)

	assert.Equal(t, "avatar.png", upload.Filename)
	assert.True(t, strings.HasPrefix(upload.Path, "http://srv/uploads/"), upload.Path)
	assert.True(t, strings.HasSuffix(upload.Path, "-avatar.png"), upload.Path)

	files := listFiles(t, root)
	require.Len(t, files, 1)
	content, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Equal(t, "data", string(content))

	// The file lives alone in its own directory.
	rel, err := filepath.Rel(root, files[0])
	require.NoError(t, err)
	parts := strings.Split(rel, string(filepath.Separator))
	assert.Len(t, parts, 2)
}

func TestCreate_EnforcesMaxSize(t *testing.T) {
	root := t.TempDir()
	m := NewManager(newFakeStore(), root, "http://srv")
	m.MaxSize = 3

	_, err := m.Create(context.Background(), model.UploadFile, &Incoming{
		Filename: "big.bin",
		Size:     10,
		Content:  strings.NewReader("0123456789"),
	})
	require.Error(t, err)

	// Declared size can lie; the copy still enforces the limit.
	_, err = m.Create(context.Background(), model.UploadFile, &Incoming{
		Filename: "sneaky.bin",
		Size:     1,
		Content:  strings.NewReader("0123456789"),
	})
	var validation *store.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Empty(t, listFiles(t, root))

	_, err = m.Create(context.Background(), model.UploadFile, &Incoming{
		Filename: "ok.bin",
		Size:     3,
		Content:  strings.NewReader("abc"),
	})
	require.NoError(t, err)
}

func TestCreate_RecordFailureRemovesFile(t *testing.T) {
	root := t.TempDir()
	fs := newFakeStore()
	fs.fail = true
	m := NewManager(fs, root, "http://srv")

	_, err := m.Create(context.Background(), model.UploadFile, &Incoming{
		Filename: "doc.pdf",
		Content:  strings.NewReader("data"),
	})
	require.Error(t, err)
	assert.Empty(t, listFiles(t, root))
}

func TestCreateAll_SkipsNilEntries(t *testing.T) {
	m := NewManager(newFakeStore(), t.TempDir(), "http://srv")

	out, err := m.CreateAll(context.Background(), model.UploadFile, []*Incoming{
		{Filename: "a.txt", Content: strings.NewReader("a")},
		nil,
		{Filename: "b.txt", Content: strings.NewReader("b")},
	})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "a.txt", out[0].Filename)
	assert.Equal(t, "b.txt", out[1].Filename)
}

func TestDelete_RemovesDirectoryAndRecord(t *testing.T) {
	root := t.TempDir()
	fs := newFakeStore()
	m := NewManager(fs, root, "http://srv")

	upload, err := m.Create(context.Background(), model.UploadImage, &Incoming{
		Filename: "pic.jpg",
		Content:  strings.NewReader("x"),
	})
	require.NoError(t, err)

	require.NoError(t, m.Delete(context.Background(), model.UploadImage, upload.ID))
	assert.Empty(t, listFiles(t, root))
	assert.Empty(t, fs.records)
}

func TestDelete_UnknownIDIsNoOp(t *testing.T) {
	m := NewManager(newFakeStore(), t.TempDir(), "http://srv")
	require.NoError(t, m.Delete(context.Background(), model.UploadFile, bson.NewObjectID()))
}

func TestContainingDir_RejectsForeignPaths(t *testing.T) {
	m := NewManager(newFakeStore(), "/var/uploads", "http://srv")

	assert.Equal(t, "", m.containingDir("http://srv/other/thing.txt/"))
	assert.Equal(t, filepath.Join("/var/uploads", "abc"), m.containingDir("http://srv/uploads/abc/x-y.txt"))
	assert.Equal(t, "", m.containingDir("http://srv/uploads/../etc/passwd"))
}
