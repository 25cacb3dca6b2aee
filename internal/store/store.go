package store

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/atomiccms/atomic-service/internal/model"
)

// Store is the document persistence contract for the service. Implementations
// return the typed errors from this package; lookups that miss return
// *NotFoundError.
type Store interface {
	// Users
	CreateUser(ctx context.Context, user *model.User) error
	UserByID(ctx context.Context, id bson.ObjectID) (*model.User, error)
	UserByEmail(ctx context.Context, email string) (*model.User, error)
	// UserByLogin matches email or phone.
	UserByLogin(ctx context.Context, login string) (*model.User, error)
	Users(ctx context.Context, q *Query, opts ListOptions) ([]model.User, error)
	SaveUser(ctx context.Context, user *model.User) error
	DeleteUser(ctx context.Context, id bson.ObjectID) error
	CountCompanyMembers(ctx context.Context, company bson.ObjectID) (int64, error)

	// Roles
	CreateRole(ctx context.Context, role *model.Role) error
	RoleByID(ctx context.Context, id bson.ObjectID) (*model.Role, error)
	RoleByName(ctx context.Context, name string) (*model.Role, error)
	Roles(ctx context.Context, q *Query, opts ListOptions) ([]model.Role, error)
	SaveRole(ctx context.Context, role *model.Role) error
	DeleteRole(ctx context.Context, id bson.ObjectID) error

	// Categories
	CreateCategory(ctx context.Context, category *model.Category) error
	CategoryByID(ctx context.Context, id bson.ObjectID) (*model.Category, error)
	Categories(ctx context.Context, q *Query, opts ListOptions) ([]model.Category, error)
	SaveCategory(ctx context.Context, category *model.Category) error
	// DeleteCategory removes the category and unsets references to it on
	// articles and projects.
	DeleteCategory(ctx context.Context, id bson.ObjectID) error

	// Articles
	CreateArticle(ctx context.Context, article *model.Article) error
	ArticleByID(ctx context.Context, id bson.ObjectID) (*model.Article, error)
	Articles(ctx context.Context, q *Query, opts ListOptions) ([]model.Article, error)
	SaveArticle(ctx context.Context, article *model.Article) error
	DeleteArticle(ctx context.Context, id bson.ObjectID) error

	// Projects
	CreateProject(ctx context.Context, project *model.Project) error
	ProjectByID(ctx context.Context, id bson.ObjectID) (*model.Project, error)
	Projects(ctx context.Context, q *Query, opts ListOptions) ([]model.Project, error)
	ProjectsByIDs(ctx context.Context, ids []bson.ObjectID, status *model.PostStatus) ([]model.Project, error)
	SaveProject(ctx context.Context, project *model.Project) error
	DeleteProject(ctx context.Context, id bson.ObjectID) error

	// Tickets
	CreateTicket(ctx context.Context, ticket *model.Ticket) error
	TicketByID(ctx context.Context, id bson.ObjectID) (*model.Ticket, error)
	Tickets(ctx context.Context, q *Query, opts ListOptions) ([]model.Ticket, error)
	SaveTicket(ctx context.Context, ticket *model.Ticket) error
	DeleteTicket(ctx context.Context, id bson.ObjectID) error

	// Chats and messages
	CreateChat(ctx context.Context, chat *model.Chat) error
	ChatByID(ctx context.Context, id bson.ObjectID) (*model.Chat, error)
	// PersonalChat finds the direct chat containing both members.
	PersonalChat(ctx context.Context, a, b bson.ObjectID) (*model.Chat, error)
	SaveChat(ctx context.Context, chat *model.Chat) error
	CreateUserChat(ctx context.Context, uc *model.UserChat) error
	UserChats(ctx context.Context, user bson.ObjectID) ([]model.UserChat, error)
	UserChat(ctx context.Context, user, chat bson.ObjectID) (*model.UserChat, error)
	SaveUserChat(ctx context.Context, uc *model.UserChat) error
	CreateMessage(ctx context.Context, msg *model.Message) error
	MessagesByIDs(ctx context.Context, ids []bson.ObjectID) ([]model.Message, error)
	// MarkMessagesRead marks every unread message in the chat not sent by
	// the given user as read.
	MarkMessagesRead(ctx context.Context, chat, reader bson.ObjectID) error
	MarkMessagesReadByIDs(ctx context.Context, ids []bson.ObjectID) error

	// Notices
	CreateNotice(ctx context.Context, notice *model.Notice) error
	NoticeByID(ctx context.Context, id bson.ObjectID) (*model.Notice, error)
	NoticesByIDs(ctx context.Context, ids []bson.ObjectID) ([]model.Notice, error)
	Notices(ctx context.Context, q *Query, opts ListOptions) ([]model.Notice, error)
	SaveNotice(ctx context.Context, notice *model.Notice) error
	DeleteNotice(ctx context.Context, id bson.ObjectID) error
	MarkNoticesRead(ctx context.Context, ids []bson.ObjectID) error

	// Dashboard activity
	CreateActivity(ctx context.Context, activity *model.Activity) error
	Activities(ctx context.Context, opts ListOptions) ([]model.Activity, error)

	// Uploads
	CreateUpload(ctx context.Context, kind model.UploadKind, upload *model.Upload) error
	UploadByID(ctx context.Context, kind model.UploadKind, id bson.ObjectID) (*model.Upload, error)
	Uploads(ctx context.Context, kind model.UploadKind, q *Query, opts ListOptions) ([]model.Upload, error)
	DeleteUpload(ctx context.Context, kind model.UploadKind, id bson.ObjectID) error

	// Dashboard settings singleton
	DashboardSettings(ctx context.Context) (*model.DashboardSettings, error)
	SaveDashboardSettings(ctx context.Context, s *model.DashboardSettings) error
	DeleteDashboardSettings(ctx context.Context) error

	// CompactOrphans deletes documents whose mandatory references no longer
	// resolve. Queries never filter orphans implicitly; this pass is the
	// only thing that removes them.
	CompactOrphans(ctx context.Context) (CompactStats, error)

	Close(ctx context.Context) error
}

// CompactStats reports how many orphaned documents a compaction pass deleted
// from each collection.
type CompactStats map[string]int64

// Total sums the deleted counts.
func (s CompactStats) Total() int64 {
	var n int64
	for _, v := range s {
		n += v
	}
	return n
}
