package mongo_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/atomiccms/atomic-service/internal/model"
	"github.com/atomiccms/atomic-service/internal/store"
	"github.com/atomiccms/atomic-service/internal/store/mongo"
	"github.com/atomiccms/atomic-service/internal/testutil/testmongo"
)

func setupTestStore(t *testing.T) (*mongo.MongoStore, context.Context) {
	t.Helper()

	cfg := testmongo.TestConfig(t)
	ctx := context.Background()

	s, err := mongo.Open(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })

	require.NoError(t, s.Migrate(ctx))
	return s, ctx
}

func newUser(t *testing.T, ctx context.Context, s *mongo.MongoStore, email string) *model.User {
	t.Helper()
	user := &model.User{
		Name:    "Test User",
		Email:   email,
		Account: model.AccountIndividual,
		Role:    bson.NewObjectID(),
	}
	require.NoError(t, s.CreateUser(ctx, user))
	return user
}

func TestCreateAndGetUser(t *testing.T) {
	s, ctx := setupTestStore(t)

	user := newUser(t, ctx, s, "alice@example.com")

	got, err := s.UserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", got.Email)
	assert.Equal(t, model.AccountIndividual, got.Account)

	got, err = s.UserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	s, ctx := setupTestStore(t)

	newUser(t, ctx, s, "dup@example.com")
	err := s.CreateUser(ctx, &model.User{
		Name:    "Other",
		Email:   "dup@example.com",
		Account: model.AccountIndividual,
		Role:    bson.NewObjectID(),
	})

	var conflict *store.ConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestUserByLogin_MatchesEmailOrPhone(t *testing.T) {
	s, ctx := setupTestStore(t)

	user := newUser(t, ctx, s, "bob@example.com")
	user.Phone = "+100200300"
	require.NoError(t, s.SaveUser(ctx, user))

	byEmail, err := s.UserByLogin(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	byPhone, err := s.UserByLogin(ctx, "+100200300")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byPhone.ID)

	_, err = s.UserByLogin(ctx, "unknown")
	var notFound *store.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestUsers_FilterAndSort(t *testing.T) {
	s, ctx := setupTestStore(t)

	a := newUser(t, ctx, s, "a@example.com")
	time.Sleep(10 * time.Millisecond) // ensure ordering
	newUser(t, ctx, s, "b@example.com")

	// Default sort is newest first.
	users, err := s.Users(ctx, nil, store.ListOptions{})
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "b@example.com", users[0].Email)

	// Exclusion filter.
	users, err = s.Users(ctx, store.NewQuery().NotIn("email", []string{"b@example.com"}), store.ListOptions{})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, a.ID, users[0].ID)

	// Search over name/about.
	users, err = s.Users(ctx, store.NewQuery().Search("test", "name", "about"), store.ListOptions{})
	require.NoError(t, err)
	assert.Len(t, users, 2)

	// Pagination.
	users, err = s.Users(ctx, nil, store.ListOptions{Skip: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "a@example.com", users[0].Email)
}

func TestArticles_StatusAndDayFilter(t *testing.T) {
	s, ctx := setupTestStore(t)

	author := newUser(t, ctx, s, "author@example.com")
	art := &model.Article{
		Author: author.ID,
		Title:  "Hello",
		Body:   "World",
		Status: model.PostPublished,
	}
	require.NoError(t, s.CreateArticle(ctx, art))

	q := store.NewQuery().Eq("status", model.PostPublished).CreatedOn(time.Now())
	articles, err := s.Articles(ctx, q, store.ListOptions{})
	require.NoError(t, err)
	require.Len(t, articles, 1)

	// Yesterday matches nothing.
	q = store.NewQuery().CreatedOn(time.Now().AddDate(0, 0, -1))
	articles, err = s.Articles(ctx, q, store.ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, articles)
}

func TestDeleteCategory_UnsetsReferences(t *testing.T) {
	s, ctx := setupTestStore(t)

	author := newUser(t, ctx, s, "cat@example.com")
	cat := &model.Category{Name: "News", Type: model.CategoryDivision}
	require.NoError(t, s.CreateCategory(ctx, cat))

	art := &model.Article{Author: author.ID, Title: "T", Body: "B", Category: &cat.ID, Status: model.PostPublished}
	require.NoError(t, s.CreateArticle(ctx, art))
	proj := &model.Project{Author: author.ID, Title: "P", Body: "B", Description: "D", Category: &cat.ID, Status: model.PostPublished}
	require.NoError(t, s.CreateProject(ctx, proj))

	require.NoError(t, s.DeleteCategory(ctx, cat.ID))

	gotArt, err := s.ArticleByID(ctx, art.ID)
	require.NoError(t, err)
	assert.Nil(t, gotArt.Category)

	gotProj, err := s.ProjectByID(ctx, proj.ID)
	require.NoError(t, err)
	assert.Nil(t, gotProj.Category)
}

func TestCreateMessage_AppendsToChat(t *testing.T) {
	s, ctx := setupTestStore(t)

	a := newUser(t, ctx, s, "m1@example.com")
	b := newUser(t, ctx, s, "m2@example.com")

	chat := &model.Chat{Type: model.ChatPersonal, Title: "direct", Members: []bson.ObjectID{a.ID, b.ID}}
	require.NoError(t, s.CreateChat(ctx, chat))

	msg := &model.Message{Chat: chat.ID, User: a.ID, Text: "hi", Type: model.MessageUnreaded}
	require.NoError(t, s.CreateMessage(ctx, msg))

	got, err := s.ChatByID(ctx, chat.ID)
	require.NoError(t, err)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, msg.ID, got.Messages[0])

	found, err := s.PersonalChat(ctx, b.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, chat.ID, found.ID)

	require.NoError(t, s.MarkMessagesRead(ctx, chat.ID, b.ID))
	msgs, err := s.MessagesByIDs(ctx, got.Messages)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, model.MessageReaded, msgs[0].Type)
}

func TestCreateActivity_TrimsToRetention(t *testing.T) {
	s, ctx := setupTestStore(t)

	user := newUser(t, ctx, s, "feed@example.com")
	for i := 0; i < 13; i++ {
		err := s.CreateActivity(ctx, &model.Activity{
			User:           user.ID,
			Message:        model.ActivityCreateArticle,
			EntityType:     model.EntityArticle,
			IdentityString: "article",
		})
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)
	}

	activities, err := s.Activities(ctx, store.ListOptions{})
	require.NoError(t, err)
	assert.Len(t, activities, 10)
}

func TestCompactOrphans(t *testing.T) {
	s, ctx := setupTestStore(t)

	author := newUser(t, ctx, s, "keep@example.com")
	ghost := bson.NewObjectID()

	kept := &model.Article{Author: author.ID, Title: "kept", Body: "b", Status: model.PostPublished}
	require.NoError(t, s.CreateArticle(ctx, kept))
	orphan := &model.Article{Author: ghost, Title: "orphan", Body: "b", Status: model.PostPublished}
	require.NoError(t, s.CreateArticle(ctx, orphan))

	stats, err := s.CompactOrphans(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats["articles"])

	articles, err := s.Articles(ctx, nil, store.ListOptions{})
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, kept.ID, articles[0].ID)

	// A second pass deletes nothing.
	stats, err = s.CompactOrphans(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Total())
}

func TestDashboardSettings_Singleton(t *testing.T) {
	s, ctx := setupTestStore(t)

	first, err := s.DashboardSettings(ctx)
	require.NoError(t, err)

	second, err := s.DashboardSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	second.Meta.Title = "Atomic"
	require.NoError(t, s.SaveDashboardSettings(ctx, second))

	got, err := s.DashboardSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Atomic", got.Meta.Title)

	require.NoError(t, s.DeleteDashboardSettings(ctx))
	fresh, err := s.DashboardSettings(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, fresh.ID)
	assert.Empty(t, fresh.Meta.Title)
}

func TestUploads_NotFoundIsTyped(t *testing.T) {
	s, ctx := setupTestStore(t)

	_, err := s.UploadByID(ctx, model.UploadImage, bson.NewObjectID())
	var notFound *store.NotFoundError
	require.True(t, errors.As(err, &notFound))

	// Deleting an unknown upload is a no-op.
	require.NoError(t, s.DeleteUpload(ctx, model.UploadFile, bson.NewObjectID()))
}
