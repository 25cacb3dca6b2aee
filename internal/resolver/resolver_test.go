package resolver_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/atomiccms/atomic-service/internal/config"
	"github.com/atomiccms/atomic-service/internal/mailer"
	"github.com/atomiccms/atomic-service/internal/model"
	"github.com/atomiccms/atomic-service/internal/pubsub"
	"github.com/atomiccms/atomic-service/internal/resolver"
	"github.com/atomiccms/atomic-service/internal/security"
	"github.com/atomiccms/atomic-service/internal/store"
	"github.com/atomiccms/atomic-service/internal/store/mongo"
	"github.com/atomiccms/atomic-service/internal/testutil/testmongo"
	"github.com/atomiccms/atomic-service/internal/uploads"
)

func setupResolvers(t *testing.T) (*resolver.Resolvers, *config.Config, context.Context) {
	t.Helper()

	cfg := testmongo.TestConfig(t)
	ctx := context.Background()

	s, err := mongo.Open(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	require.NoError(t, s.Migrate(ctx))

	// Self-registration expects the default role to exist.
	require.NoError(t, s.CreateRole(ctx, &model.Role{
		Name:        "USER",
		Permissions: []model.Permission{model.PermAccessClient},
	}))

	r := resolver.New(
		s,
		uploads.NewManager(s, cfg.UploadDir, cfg.ServerURL),
		pubsub.NewMemoryBroker(),
		mailer.New(cfg),
		security.NewTokenResolver(cfg, s),
		nil,
		cfg,
	)
	return r, cfg, ctx
}

func register(t *testing.T, ctx context.Context, r *resolver.Resolvers, name, email string) *model.User {
	t.Helper()
	payload, err := r.Register(ctx, resolver.RegisterInput{
		Name:            name,
		Email:           email,
		Password:        "secret123",
		ConfirmPassword: "secret123",
	})
	require.NoError(t, err)
	return payload.User
}

func TestRegisterAndLogin(t *testing.T) {
	r, _, ctx := setupResolvers(t)

	payload, err := r.Register(ctx, resolver.RegisterInput{
		Name:            "Alice",
		Email:           "alice@example.com",
		Phone:           "+1000",
		Password:        "secret123",
		ConfirmPassword: "secret123",
	})
	require.NoError(t, err)
	assert.True(t, payload.Register)
	assert.NotEmpty(t, payload.Token)
	assert.Equal(t, model.AccountIndividual, payload.User.Account)

	ok, err := r.Checkin(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = r.Checkin(ctx, "+1000")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = r.Checkin(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.False(t, ok)

	login, err := r.Login(ctx, "alice@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, payload.User.ID, login.User.ID)
	assert.NotEmpty(t, login.Token)

	_, err = r.Login(ctx, "alice@example.com", "wrong")
	var unauthorized *store.UnauthorizedError
	assert.ErrorAs(t, err, &unauthorized)
}

func TestRegister_Validation(t *testing.T) {
	r, _, ctx := setupResolvers(t)

	_, err := r.Register(ctx, resolver.RegisterInput{Email: "a@b.c", Password: "x", ConfirmPassword: "x"})
	var validation *store.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "name", validation.Field)

	_, err = r.Register(ctx, resolver.RegisterInput{
		Name: "A", Email: "a@b.c", Password: "x", ConfirmPassword: "y",
	})
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "confirmPassword", validation.Field)

	register(t, ctx, r, "Alice", "alice@example.com")
	_, err = r.Register(ctx, resolver.RegisterInput{
		Name: "Alice2", Email: "alice@example.com", Password: "x", ConfirmPassword: "x",
	})
	var conflict *store.ConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestPasswordResetFlow(t *testing.T) {
	r, _, ctx := setupResolvers(t)
	register(t, ctx, r, "Alice", "alice@example.com")

	_, err := r.RequestPasswordReset(ctx, "alice@example.com")
	require.NoError(t, err)

	user, err := r.Store.UserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	key := user.ResetPasswordKey
	require.Len(t, key, 6)

	ok, err := r.VerifyResetKey(ctx, "alice@example.com", "WRONG1")
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = r.VerifyResetKey(ctx, "alice@example.com", key)
	require.NoError(t, err)
	assert.True(t, ok)

	reset, err := r.ResetPassword(ctx, "alice@example.com", key, "newpass456")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", reset.Email)

	_, err = r.Login(ctx, "alice@example.com", "newpass456")
	require.NoError(t, err)

	// The key is single-use.
	reset, err = r.ResetPassword(ctx, "alice@example.com", key, "again789")
	require.NoError(t, err)
	assert.Empty(t, reset.Email)
}

func TestLogoutRotatesSession(t *testing.T) {
	r, _, ctx := setupResolvers(t)
	alice := register(t, ctx, r, "Alice", "alice@example.com")

	ok, err := r.Logout(ctx, alice)
	require.NoError(t, err)
	assert.True(t, ok)
	first := alice.SessionID
	assert.NotEmpty(t, first)

	ok, err = r.Logout(ctx, alice)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NotEqual(t, first, alice.SessionID)

	ok, err = r.Logout(ctx, nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckUser(t *testing.T) {
	r, _, ctx := setupResolvers(t)
	register(t, ctx, r, "Alice", "alice@example.com")

	res, err := r.CheckUser(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "error", res.Status)

	res, err = r.CheckUser(ctx, "free@example.com")
	require.NoError(t, err)
	assert.Equal(t, "success", res.Status)
}

func TestUsersFiltering(t *testing.T) {
	r, cfg, ctx := setupResolvers(t)
	register(t, ctx, r, "Alice", "alice@example.com")
	register(t, ctx, r, "Bob", "bob@example.com")

	users, err := r.Users(ctx, resolver.UserFilter{})
	require.NoError(t, err)
	assert.Len(t, users, 2)

	users, err = r.Users(ctx, resolver.UserFilter{ExcludeEmails: []string{"alice@example.com"}})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "bob@example.com", users[0].Email)

	users, err = r.Users(ctx, resolver.UserFilter{ListArgs: resolver.ListArgs{Search: "ali"}})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Alice", users[0].Name)

	// An unknown company is dropped from the filter by default.
	users, err = r.Users(ctx, resolver.UserFilter{Company: "ghost@example.com"})
	require.NoError(t, err)
	assert.Len(t, users, 2)

	cfg.StrictFilters = true
	users, err = r.Users(ctx, resolver.UserFilter{Company: "ghost@example.com"})
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestArticleLifecycle(t *testing.T) {
	r, _, ctx := setupResolvers(t)
	alice := register(t, ctx, r, "Alice", "alice@example.com")

	_, err := r.CreateArticle(ctx, alice, resolver.ArticleInput{Title: "No body"}, nil)
	var validation *store.ValidationError
	require.ErrorAs(t, err, &validation)

	preview := &uploads.Incoming{
		Filename: "preview.png",
		Size:     4,
		Content:  strings.NewReader("data"),
	}
	listing, err := r.CreateArticle(ctx, alice, resolver.ArticleInput{
		Title:   "First",
		Body:    "Hello world",
		Status:  model.PostPublished,
		Preview: preview,
	}, nil)
	require.NoError(t, err)
	require.Len(t, listing, 1)
	article := listing[0]
	require.NotNil(t, article.Preview)

	status := model.PostPublished
	listing, err = r.UpdateArticle(ctx, alice, article.ID, resolver.ArticleInput{
		Body: "Updated body",
	}, &status)
	require.NoError(t, err)
	require.Len(t, listing, 1)
	assert.Equal(t, "Updated body", listing[0].Body)
	assert.Equal(t, "First", listing[0].Title)

	listing, err = r.DeleteArticles(ctx, alice, []bson.ObjectID{article.ID}, nil)
	require.NoError(t, err)
	assert.Empty(t, listing)

	// The preview record went with the article.
	_, err = r.Image(ctx, *article.Preview)
	var notFound *store.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestArticlesDefaultToPublished(t *testing.T) {
	r, _, ctx := setupResolvers(t)
	alice := register(t, ctx, r, "Alice", "alice@example.com")

	_, err := r.CreateArticle(ctx, alice, resolver.ArticleInput{Title: "Draft", Body: "b"}, nil)
	require.NoError(t, err)
	_, err = r.CreateArticle(ctx, alice, resolver.ArticleInput{
		Title: "Live", Body: "b", Status: model.PostPublished,
	}, nil)
	require.NoError(t, err)

	articles, err := r.Articles(ctx, resolver.ArticleFilter{})
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "Live", articles[0].Title)

	moderation := model.PostModeration
	articles, err = r.Articles(ctx, resolver.ArticleFilter{Status: &moderation})
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "Draft", articles[0].Title)
}

func TestComments(t *testing.T) {
	r, _, ctx := setupResolvers(t)
	alice := register(t, ctx, r, "Alice", "alice@example.com")
	bob := register(t, ctx, r, "Bob", "bob@example.com")

	listing, err := r.CreateArticle(ctx, alice, resolver.ArticleInput{Title: "A", Body: "b"}, nil)
	require.NoError(t, err)
	articleID := listing[0].ID

	article, err := r.CreateComment(ctx, bob, articleID, "first!")
	require.NoError(t, err)
	require.Len(t, article.Comments, 1)
	comment := article.Comments[0]
	assert.Equal(t, bob.ID, comment.User)

	article, err = r.CreateComment(ctx, alice, articleID, "welcome")
	require.NoError(t, err)
	require.Len(t, article.Comments, 2)
	// Newest first.
	assert.Equal(t, "welcome", article.Comments[0].Text)

	_, err = r.DeleteComment(ctx, alice, articleID, comment.ID)
	var forbidden *store.ForbiddenError
	require.ErrorAs(t, err, &forbidden)

	article, err = r.DeleteComment(ctx, bob, articleID, comment.ID)
	require.NoError(t, err)
	assert.Len(t, article.Comments, 1)
}

func TestProjectLifecycle(t *testing.T) {
	r, _, ctx := setupResolvers(t)
	alice := register(t, ctx, r, "Alice", "alice@example.com")
	bob := register(t, ctx, r, "Bob", "bob@example.com")

	listing, err := r.CreateProject(ctx, alice, resolver.ProjectInput{
		Title:       "Rocket",
		Description: "to the moon",
		Members:     []string{"bob@example.com", "ghost@example.com"},
		Status:      model.PostPublished,
		Screenshots: []*uploads.Incoming{
			{Filename: "s1.png", Size: 1, Content: strings.NewReader("x")},
			nil,
			{Filename: "s2.png", Size: 1, Content: strings.NewReader("y")},
		},
	}, nil)
	require.NoError(t, err)
	require.Len(t, listing, 1)
	project := listing[0]
	assert.Equal(t, []bson.ObjectID{bob.ID}, project.Members)
	assert.Len(t, project.Screenshots, 2)

	projects, err := r.Projects(ctx, resolver.ProjectFilter{Member: "bob@example.com"})
	require.NoError(t, err)
	assert.Len(t, projects, 1)

	// Member and search constraints hold together, not search alone.
	projects, err = r.Projects(ctx, resolver.ProjectFilter{
		Member:   "bob@example.com",
		ListArgs: resolver.ListArgs{Search: "moon"},
	})
	require.NoError(t, err)
	assert.Len(t, projects, 1)

	projects, err = r.Projects(ctx, resolver.ProjectFilter{
		Member:   "alice@example.com",
		ListArgs: resolver.ListArgs{Search: "moon"},
	})
	require.NoError(t, err)
	assert.Empty(t, projects)

	byIDs, err := r.ProjectsByIDs(ctx, []bson.ObjectID{project.ID, bson.NewObjectID()}, nil)
	require.NoError(t, err)
	assert.Len(t, byIDs, 1)

	listing, err = r.DeleteProject(ctx, alice, project.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, listing)

	for _, id := range project.Screenshots {
		_, err = r.Image(ctx, id)
		var notFound *store.NotFoundError
		assert.ErrorAs(t, err, &notFound)
	}
}

func TestLikeProjectToggles(t *testing.T) {
	r, _, ctx := setupResolvers(t)
	alice := register(t, ctx, r, "Alice", "alice@example.com")

	listing, err := r.CreateProject(ctx, alice, resolver.ProjectInput{Title: "P"}, nil)
	require.NoError(t, err)
	id := listing[0].ID

	viewer, err := r.LikeProject(ctx, alice, id)
	require.NoError(t, err)
	assert.Equal(t, []bson.ObjectID{id}, viewer.LikedProjects)
	project, err := r.Project(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []bson.ObjectID{alice.ID}, project.Rating)

	viewer, err = r.LikeProject(ctx, alice, id)
	require.NoError(t, err)
	assert.Empty(t, viewer.LikedProjects)
	project, err = r.Project(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, project.Rating)
}

func TestFolders(t *testing.T) {
	r, _, ctx := setupResolvers(t)
	alice := register(t, ctx, r, "Alice", "alice@example.com")

	folders, err := r.AddFolder(ctx, alice, "Favorites")
	require.NoError(t, err)
	require.Len(t, folders, 1)
	folder := folders[0]

	listing, err := r.CreateProject(ctx, alice, resolver.ProjectInput{
		Title: "P", Status: model.PostPublished,
	}, nil)
	require.NoError(t, err)
	projectID := listing[0].ID

	ok, err := r.AddFolderProject(ctx, alice, folder.ID, projectID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.AddFolderProject(ctx, alice, bson.NewObjectID(), projectID)
	require.NoError(t, err)
	assert.False(t, ok)

	projects, err := r.FolderProjects(ctx, &alice.Folders[0], nil)
	require.NoError(t, err)
	assert.Len(t, projects, 1)

	ok, err = r.RemoveFolderProject(ctx, alice, folder.ID, projectID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, alice.Folders[0].Projects)

	folders, err = r.DeleteFolder(ctx, alice, folder.ID)
	require.NoError(t, err)
	assert.Empty(t, folders)
}

func TestChatFlow(t *testing.T) {
	r, _, ctx := setupResolvers(t)
	alice := register(t, ctx, r, "Alice", "alice@example.com")
	bob := register(t, ctx, r, "Bob", "bob@example.com")

	// No chat yet so nothing is delivered.
	messages, err := r.SendMessage(ctx, alice, "bob@example.com", "hello?")
	require.NoError(t, err)
	assert.Empty(t, messages)

	ok, err := r.AddUserChat(ctx, alice, "bob@example.com")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = r.AddUserChat(ctx, alice, "ghost@example.com")
	require.NoError(t, err)
	assert.False(t, ok)

	messages, err = r.SendMessage(ctx, alice, "bob@example.com", "hello")
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, model.MessageUnreaded, messages[0].Type)

	messages, err = r.SendMessage(ctx, bob, "alice@example.com", "hi back")
	require.NoError(t, err)
	require.Len(t, messages, 2)

	aliceChats, err := r.UserChats(ctx, alice)
	require.NoError(t, err)
	require.Len(t, aliceChats, 1)
	bobChats, err := r.UserChats(ctx, bob)
	require.NoError(t, err)
	require.Len(t, bobChats, 1)
	assert.Equal(t, aliceChats[0].Chat, bobChats[0].Chat)

	// Re-adding the same chat reuses it.
	ok, err = r.AddUserChat(ctx, bob, "alice@example.com")
	require.NoError(t, err)
	assert.True(t, ok)
	chats, err := r.UserChats(ctx, bob)
	require.NoError(t, err)
	assert.Len(t, chats, 1)

	ok, err = r.ReadMessages(ctx, bob, []bson.ObjectID{messages[0].ID})
	require.NoError(t, err)
	assert.True(t, ok)
	got, err := r.ChatMessages(ctx, aliceChats[0].Chat)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, m := range got {
		if m.ID == messages[0].ID {
			assert.Equal(t, model.MessageReaded, m.Type)
		}
	}
}

func TestMemberInviteFlow(t *testing.T) {
	r, _, ctx := setupResolvers(t)
	alice := register(t, ctx, r, "Alice", "alice@example.com")

	company, err := r.Register(ctx, resolver.RegisterInput{
		Name:            "Acme",
		Account:         model.AccountEntity,
		Email:           "acme@example.com",
		Password:        "secret123",
		ConfirmPassword: "secret123",
	})
	require.NoError(t, err)

	ok, err := r.InviteMember(ctx, company.User, "alice@example.com")
	require.NoError(t, err)
	assert.True(t, ok)

	notices, err := r.Notifications(ctx, "alice@example.com", resolver.ListArgs{})
	require.NoError(t, err)
	require.Len(t, notices, 1)
	assert.Equal(t, model.NoticeInvite, notices[0].Type)

	_, err = r.ApplyInvite(ctx, alice, notices[0].ID, "acme@example.com")
	require.NoError(t, err)

	updated, err := r.Store.UserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, updated.Company)
	assert.Equal(t, company.User.ID, *updated.Company)

	members, err := r.UserMembers(ctx, "acme@example.com", resolver.ListArgs{})
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, alice.ID, members[0].ID)

	// The company got an acceptance notice.
	companyNotices, err := r.Notifications(ctx, "acme@example.com", resolver.ListArgs{})
	require.NoError(t, err)
	require.Len(t, companyNotices, 1)
	assert.Equal(t, model.NoticeMessage, companyNotices[0].Type)
}

func TestAppointAndExcludeMember(t *testing.T) {
	r, _, ctx := setupResolvers(t)
	alice := register(t, ctx, r, "Alice", "alice@example.com")

	company, err := r.Register(ctx, resolver.RegisterInput{
		Name:            "Acme",
		Account:         model.AccountEntity,
		Email:           "acme@example.com",
		Password:        "secret123",
		ConfirmPassword: "secret123",
	})
	require.NoError(t, err)

	alice.Company = &company.User.ID
	require.NoError(t, r.Store.SaveUser(ctx, alice))

	members, err := r.AppointMember(ctx, company.User, "alice@example.com")
	require.NoError(t, err)
	require.Len(t, members, 1)

	role, err := r.Role(ctx, members[0].Role)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(role.Name, "RESPONSIBLE "))
	assert.Contains(t, role.Permissions, model.PermAddArticle)
	assert.Contains(t, role.Permissions, model.PermAddProject)

	members, err = r.ExcludeMember(ctx, company.User, "alice@example.com")
	require.NoError(t, err)
	require.Len(t, members, 1)
	role, err = r.Role(ctx, members[0].Role)
	require.NoError(t, err)
	assert.NotContains(t, role.Permissions, model.PermAddArticle)

	members, err = r.DismissMember(ctx, company.User, "alice@example.com")
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestTicketLifecycle(t *testing.T) {
	r, _, ctx := setupResolvers(t)
	alice := register(t, ctx, r, "Alice", "alice@example.com")

	_, err := r.CreateTicket(ctx, alice, resolver.TicketInput{Title: "Help", Message: "it broke"})
	var validation *store.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "counsellor", validation.Field)

	admin := &model.User{
		Name:    "Admin",
		Email:   "admin@example.com",
		Account: model.AccountAdmin,
		Role:    bson.NewObjectID(),
	}
	require.NoError(t, r.Store.CreateUser(ctx, admin))

	listing, err := r.CreateTicket(ctx, alice, resolver.TicketInput{Title: "Help", Message: "it broke"})
	require.NoError(t, err)
	require.Len(t, listing, 1)
	ticket := listing[0]
	assert.Equal(t, admin.ID, ticket.Counsellor)
	assert.Equal(t, model.ChatOpened, ticket.Status)

	messages, err := r.TicketMessages(ctx, ticket.ID)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "it broke", messages[0].Text)

	listing, err = r.UpdateTicket(ctx, admin, ticket.ID, resolver.TicketInput{Status: model.ChatClosed})
	require.NoError(t, err)
	assert.Equal(t, model.ChatClosed, listing[0].Status)

	listing, err = r.DeleteTicket(ctx, admin, ticket.ID)
	require.NoError(t, err)
	assert.Empty(t, listing)
}

func TestRoleAndCategoryMutationsReturnListing(t *testing.T) {
	r, _, ctx := setupResolvers(t)
	alice := register(t, ctx, r, "Alice", "alice@example.com")

	roles, err := r.CreateRole(ctx, alice, resolver.RoleInput{
		Name:        "EDITOR",
		Permissions: []model.Permission{model.PermEditArticle},
	})
	require.NoError(t, err)
	assert.Len(t, roles, 2) // includes the seeded USER role

	_, err = r.CreateRole(ctx, alice, resolver.RoleInput{Name: ""})
	var validation *store.ValidationError
	require.ErrorAs(t, err, &validation)

	categories, err := r.CreateCategory(ctx, alice, resolver.CategoryInput{Name: "News"})
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, model.CategoryDivision, categories[0].Type)

	categories, err = r.UpdateCategory(ctx, alice, categories[0].ID, resolver.CategoryInput{
		Name: "Updates",
	})
	require.NoError(t, err)
	assert.Equal(t, "Updates", categories[0].Name)

	categories, err = r.DeleteCategory(ctx, alice, categories[0].ID)
	require.NoError(t, err)
	assert.Empty(t, categories)
}

func TestMutationsRecordDashboardActivity(t *testing.T) {
	r, _, ctx := setupResolvers(t)
	alice := register(t, ctx, r, "Alice", "alice@example.com")

	_, err := r.CreateCategory(ctx, alice, resolver.CategoryInput{Name: "News"})
	require.NoError(t, err)
	_, err = r.CreateArticle(ctx, alice, resolver.ArticleInput{Title: "T", Body: "b"}, nil)
	require.NoError(t, err)

	activities, err := r.DashboardActivities(ctx, resolver.ListArgs{})
	require.NoError(t, err)
	require.Len(t, activities, 2)
	messages := []string{activities[0].Message, activities[1].Message}
	assert.ElementsMatch(t, []string{model.ActivityCreateArticle, model.ActivityCreateCategory}, messages)
}

func TestDashboardSettings(t *testing.T) {
	r, _, ctx := setupResolvers(t)
	alice := register(t, ctx, r, "Alice", "alice@example.com")

	settings, err := r.DashboardSettings(ctx)
	require.NoError(t, err)
	require.NotNil(t, settings)

	isRandom := true
	settings, err = r.UpdateDashboardSettings(ctx, alice, resolver.SettingsInput{
		MetaTitle: "Atomic",
		IsRandom:  &isRandom,
		Logotype:  &uploads.Incoming{Filename: "logo.png", Size: 1, Content: strings.NewReader("x")},
	})
	require.NoError(t, err)
	assert.Equal(t, "Atomic", settings.Meta.Title)
	assert.True(t, settings.Scaffold.IsRandom)
	require.NotNil(t, settings.General.Logotype)

	ok, err := r.DeleteDashboardSettings(ctx, alice)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAnonymousViewerRejected(t *testing.T) {
	r, _, ctx := setupResolvers(t)

	_, err := r.CreateArticle(ctx, nil, resolver.ArticleInput{Title: "T", Body: "b"}, nil)
	var unauthorized *store.UnauthorizedError
	require.True(t, errors.As(err, &unauthorized))

	chats, err := r.UserChats(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, chats)
}
