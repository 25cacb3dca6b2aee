package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User is an account on the platform. Password holds the bcrypt hash and is
// never serialized. Company links employee accounts to their entity account.
type User struct {
	ID               bson.ObjectID  `json:"id"                         bson:"_id,omitempty"`
	Name             string         `json:"name"                       bson:"name"`
	About            string         `json:"about,omitempty"            bson:"about,omitempty"`
	Password         string         `json:"-"                          bson:"password,omitempty"`
	Account          AccountType    `json:"account"                    bson:"account"`
	Gender           Gender         `json:"gender,omitempty"           bson:"gender,omitempty"`
	Email            string         `json:"email"                      bson:"email"`
	Phone            string         `json:"phone,omitempty"            bson:"phone,omitempty"`
	DateOfBirth      string         `json:"dateOfBirth,omitempty"      bson:"date_of_birth,omitempty"`
	ResetPasswordKey string         `json:"-"                          bson:"reset_password_key,omitempty"`
	SessionID        string         `json:"-"                          bson:"session_id,omitempty"`
	Company          *bson.ObjectID `json:"company,omitempty"          bson:"company,omitempty"`
	Role             bson.ObjectID  `json:"role"                       bson:"role"`
	Avatar           *bson.ObjectID `json:"avatar,omitempty"           bson:"avatar,omitempty"`
	Folders          []Folder       `json:"folders,omitempty"          bson:"folders,omitempty"`
	LikedProjects    []bson.ObjectID `json:"likedProjects,omitempty"   bson:"liked_projects,omitempty"`
	Notifications    []bson.ObjectID `json:"notifications,omitempty"   bson:"notifications,omitempty"`
	Settings         []UserSetting  `json:"settings,omitempty"         bson:"settings,omitempty"`
	GoogleAccount    *OAuthAccount  `json:"-"                          bson:"google_account,omitempty"`
	CreatedAt        time.Time      `json:"createdAt"                  bson:"created_at"`
	UpdatedAt        time.Time      `json:"updatedAt"                  bson:"updated_at"`
}

// OAuthAccount holds linked third-party account state.
type OAuthAccount struct {
	AccessToken string `json:"-" bson:"access_token"`
}

// Folder is a user-curated grouping of projects, embedded on User.
type Folder struct {
	ID       bson.ObjectID   `json:"id"       bson:"_id"`
	Name     string          `json:"name"     bson:"name"`
	Projects []bson.ObjectID `json:"projects" bson:"projects"`
}

// Role names a set of permissions.
type Role struct {
	ID          bson.ObjectID `json:"id"          bson:"_id,omitempty"`
	Name        string        `json:"name"        bson:"name"`
	Permissions []Permission  `json:"permissions" bson:"permissions"`
	CreatedAt   time.Time     `json:"createdAt"   bson:"created_at"`
	UpdatedAt   time.Time     `json:"updatedAt"   bson:"updated_at"`
}

// Category groups articles/projects (DIVISION) or tickets (TICKET).
type Category struct {
	ID          bson.ObjectID `json:"id"                    bson:"_id,omitempty"`
	Name        string        `json:"name"                  bson:"name"`
	Type        CategoryType  `json:"type"                  bson:"type"`
	Description string        `json:"description,omitempty" bson:"description,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"             bson:"created_at"`
	UpdatedAt   time.Time     `json:"updatedAt"             bson:"updated_at"`
}

// Comment is embedded on Article.
type Comment struct {
	ID        bson.ObjectID `json:"id"        bson:"_id"`
	User      bson.ObjectID `json:"user"      bson:"user"`
	Text      string        `json:"text"      bson:"text"`
	CreatedAt time.Time     `json:"createdAt" bson:"created_at"`
}

// Article is an authored post with embedded comments and view/rating marks.
type Article struct {
	ID        bson.ObjectID   `json:"id"                 bson:"_id,omitempty"`
	Author    bson.ObjectID   `json:"author"             bson:"author"`
	Title     string          `json:"title"              bson:"title"`
	Body      string          `json:"body"               bson:"body"`
	Preview   *bson.ObjectID  `json:"preview,omitempty"  bson:"preview,omitempty"`
	Category  *bson.ObjectID  `json:"category,omitempty" bson:"category,omitempty"`
	Comments  []Comment       `json:"comments"           bson:"comments"`
	Views     []bson.ObjectID `json:"views"              bson:"views"`
	Rating    []bson.ObjectID `json:"rating"             bson:"rating"`
	Status    PostStatus      `json:"status"             bson:"status"`
	CreatedAt time.Time       `json:"createdAt"          bson:"created_at"`
	UpdatedAt time.Time       `json:"updatedAt"          bson:"updated_at"`
}

// Project is an authored post with member, file and screenshot references.
type Project struct {
	ID           bson.ObjectID   `json:"id"                     bson:"_id,omitempty"`
	Author       bson.ObjectID   `json:"author"                 bson:"author"`
	Title        string          `json:"title"                  bson:"title"`
	Description  string          `json:"description"            bson:"description"`
	Body         string          `json:"body"                   bson:"body"`
	Company      *bson.ObjectID  `json:"company,omitempty"      bson:"company,omitempty"`
	Preview      *bson.ObjectID  `json:"preview,omitempty"      bson:"preview,omitempty"`
	Category     *bson.ObjectID  `json:"category,omitempty"     bson:"category,omitempty"`
	Presentation string          `json:"presentation,omitempty" bson:"presentation,omitempty"`
	Members      []bson.ObjectID `json:"members"                bson:"members"`
	Files        []bson.ObjectID `json:"files"                  bson:"files"`
	Screenshots  []bson.ObjectID `json:"screenshots"            bson:"screenshots"`
	Views        []bson.ObjectID `json:"views"                  bson:"views"`
	Rating       []bson.ObjectID `json:"rating"                 bson:"rating"`
	Status       PostStatus      `json:"status"                 bson:"status"`
	CreatedAt    time.Time       `json:"createdAt"              bson:"created_at"`
	UpdatedAt    time.Time       `json:"updatedAt"              bson:"updated_at"`
}

// Ticket is a support request routed to a counsellor.
type Ticket struct {
	ID         bson.ObjectID   `json:"id"                 bson:"_id,omitempty"`
	Title      string          `json:"title"              bson:"title"`
	Author     bson.ObjectID   `json:"author"             bson:"author"`
	Counsellor bson.ObjectID   `json:"counsellor"         bson:"counsellor"`
	Category   *bson.ObjectID  `json:"category,omitempty" bson:"category,omitempty"`
	Messages   []bson.ObjectID `json:"messages"           bson:"messages"`
	Status     ChatStatus      `json:"status"             bson:"status"`
	CreatedAt  time.Time       `json:"createdAt"          bson:"created_at"`
	UpdatedAt  time.Time       `json:"updatedAt"          bson:"updated_at"`
}

// Chat is a conversation between members. Messages are stored separately
// and referenced in order.
type Chat struct {
	ID        bson.ObjectID   `json:"id"        bson:"_id,omitempty"`
	Type      ChatType        `json:"type"      bson:"type"`
	Title     string          `json:"title"     bson:"title"`
	Members   []bson.ObjectID `json:"members"   bson:"members"`
	Messages  []bson.ObjectID `json:"messages"  bson:"messages"`
	CreatedAt time.Time       `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time       `json:"updatedAt" bson:"updated_at"`
}

// UserChat is a user's view of a chat (open or closed).
type UserChat struct {
	ID        bson.ObjectID `json:"id"        bson:"_id,omitempty"`
	Chat      bson.ObjectID `json:"chat"      bson:"chat"`
	User      bson.ObjectID `json:"user"      bson:"user"`
	Status    ChatStatus    `json:"status"    bson:"status"`
	CreatedAt time.Time     `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time     `json:"updatedAt" bson:"updated_at"`
}

// Message is a single chat message.
type Message struct {
	ID        bson.ObjectID `json:"id"        bson:"_id,omitempty"`
	Chat      bson.ObjectID `json:"chat"      bson:"chat"`
	User      bson.ObjectID `json:"user"      bson:"user"`
	Text      string        `json:"text"      bson:"text"`
	Type      MessageStatus `json:"type"      bson:"type"`
	CreatedAt time.Time     `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time     `json:"updatedAt" bson:"updated_at"`
}

// Notice is a user notification. The log is retention-capped.
type Notice struct {
	ID        bson.ObjectID  `json:"id"                bson:"_id,omitempty"`
	Type      NoticeType     `json:"type"              bson:"type"`
	Author    bson.ObjectID  `json:"author"            bson:"author"`
	Company   *bson.ObjectID `json:"company,omitempty" bson:"company,omitempty"`
	Title     string         `json:"title"             bson:"title"`
	Message   string         `json:"message"           bson:"message"`
	Status    MessageStatus  `json:"status"            bson:"status"`
	CreatedAt time.Time      `json:"createdAt"         bson:"created_at"`
	UpdatedAt time.Time      `json:"updatedAt"         bson:"updated_at"`
}

// Activity is a dashboard feed entry. The log is retention-capped.
type Activity struct {
	ID             bson.ObjectID `json:"id"             bson:"_id,omitempty"`
	User           bson.ObjectID `json:"user"           bson:"user"`
	Message        string        `json:"message"        bson:"message"`
	EntityType     EntityType    `json:"entityType"     bson:"entity_type"`
	IdentityString string        `json:"identityString" bson:"identity_string"`
	CreatedAt      time.Time     `json:"createdAt"      bson:"created_at"`
	UpdatedAt      time.Time     `json:"updatedAt"      bson:"updated_at"`
}

// UploadKind selects the collection an upload record lives in.
type UploadKind string

const (
	UploadFile  UploadKind = "file"
	UploadImage UploadKind = "image"
)

// Upload is the metadata record for a stored file or image. Path is the
// public URL of the stored content.
type Upload struct {
	ID        bson.ObjectID `json:"id"        bson:"_id,omitempty"`
	Path      string        `json:"path"      bson:"path"`
	Size      int64         `json:"size"      bson:"size"`
	Filename  string        `json:"filename"  bson:"filename"`
	CreatedAt time.Time     `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time     `json:"updatedAt" bson:"updated_at"`
}

// ScaffoldSettings controls the public landing page composition.
type ScaffoldSettings struct {
	Title      string          `json:"title,omitempty"      bson:"title,omitempty"`
	Primary    *bson.ObjectID  `json:"primary,omitempty"    bson:"primary,omitempty"`
	Residues   []bson.ObjectID `json:"residues,omitempty"   bson:"residues,omitempty"`
	Background *bson.ObjectID  `json:"background,omitempty" bson:"background,omitempty"`
	IsRandom   bool            `json:"isRandom"             bson:"is_random"`
}

// GeneralSettings holds site-wide branding.
type GeneralSettings struct {
	Logotype *bson.ObjectID `json:"logotype,omitempty" bson:"logotype,omitempty"`
}

// MetaSettings holds SEO metadata.
type MetaSettings struct {
	Title       string `json:"title,omitempty"       bson:"title,omitempty"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
}

// DashboardSettings is a singleton document.
type DashboardSettings struct {
	ID        bson.ObjectID    `json:"id"        bson:"_id,omitempty"`
	General   GeneralSettings  `json:"general"   bson:"general"`
	Scaffold  ScaffoldSettings `json:"scaffold"  bson:"scaffold"`
	Meta      MetaSettings     `json:"meta"      bson:"meta"`
	CreatedAt time.Time        `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time        `json:"updatedAt" bson:"updated_at"`
}
