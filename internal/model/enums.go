package model

// AccountType classifies a user account.
type AccountType string

const (
	AccountAdmin      AccountType = "ADMIN"
	AccountIndividual AccountType = "INDIVIDUAL"
	AccountOficial    AccountType = "OFICIAL"
	AccountEntity     AccountType = "ENTITY"
)

// AccountTypes lists every account type in declaration order.
func AccountTypes() []AccountType {
	return []AccountType{AccountAdmin, AccountIndividual, AccountOficial, AccountEntity}
}

// Gender is an optional user attribute.
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
)

// PostStatus is the moderation state of an article or project.
type PostStatus string

const (
	PostModeration PostStatus = "MODERATION"
	PostPublished  PostStatus = "PUBLISHED"
)

// PostStatuses lists every post status in declaration order.
func PostStatuses() []PostStatus {
	return []PostStatus{PostModeration, PostPublished}
}

// MessageStatus tracks whether a message or notice has been read.
type MessageStatus string

const (
	MessageReaded   MessageStatus = "READED"
	MessageUnreaded MessageStatus = "UNREADED"
)

// ChatType distinguishes direct chats from group chats.
type ChatType string

const (
	ChatPersonal ChatType = "PERSONAL"
	ChatGroup    ChatType = "GROUP"
)

// ChatTypes lists every chat type in declaration order.
func ChatTypes() []ChatType {
	return []ChatType{ChatPersonal, ChatGroup}
}

// ChatStatus is the open/closed state of a user's chat or a ticket.
type ChatStatus string

const (
	ChatOpened ChatStatus = "OPENED"
	ChatClosed ChatStatus = "CLOSED"
)

// ChatStatuses lists every chat status in declaration order.
func ChatStatuses() []ChatStatus {
	return []ChatStatus{ChatOpened, ChatClosed}
}

// CategoryType scopes a category to articles/projects or to support tickets.
type CategoryType string

const (
	CategoryDivision CategoryType = "DIVISION"
	CategoryTicket   CategoryType = "TICKET"
)

// CategoryTypes lists every category type in declaration order.
func CategoryTypes() []CategoryType {
	return []CategoryType{CategoryDivision, CategoryTicket}
}

// UserSetting is a per-user feature toggle.
type UserSetting string

const (
	SettingVerifiedEmail UserSetting = "VERIFIED_EMAIL"
	SettingVerifiedPhone UserSetting = "VERIFIED_PHONE"
	SettingNotifiedEmail UserSetting = "NOTIFIED_EMAIL"
)

// NoticeType classifies a notification.
type NoticeType string

const (
	NoticeMessage NoticeType = "MESSAGE"
	NoticeInvite  NoticeType = "INVITE"
)

// Permission grants access to a dashboard or client capability.
type Permission string

const (
	PermAccessClient    Permission = "ACCESS_CLIENT"
	PermAccessDashboard Permission = "ACCESS_DASHBOARD"
	PermViewUser        Permission = "VIEW_USER"
	PermViewCategory    Permission = "VIEW_CATEGORY"
	PermViewArticle     Permission = "VIEW_ARTICLE"
	PermViewProject     Permission = "VIEW_PROJECT"
	PermViewTicket      Permission = "VIEW_TICKET"
	PermViewRole        Permission = "VIEW_ROLE"
	PermAddUser         Permission = "ADD_USER"
	PermAddCategory     Permission = "ADD_CATEGORY"
	PermAddArticle      Permission = "ADD_ARTICLE"
	PermAddProject      Permission = "ADD_PROJECT"
	PermEditUser        Permission = "EDIT_USER"
	PermEditCategory    Permission = "EDIT_CATEGORY"
	PermEditArticle     Permission = "EDIT_ARTICLE"
	PermEditProject     Permission = "EDIT_PROJECT"
	PermDeleteUser      Permission = "DELETE_USER"
	PermDeleteCategory  Permission = "DELETE_CATEGORY"
	PermDeleteArticle   Permission = "DELETE_ARTICLE"
	PermDeleteProject   Permission = "DELETE_PROJECT"
	PermCommentArticle  Permission = "COMMENT_ARTICLE"
	PermCommentProject  Permission = "COMMENT_PROJECT"
	PermChatting        Permission = "CHATTING"
)

// Permissions lists every permission in declaration order.
func Permissions() []Permission {
	return []Permission{
		PermAccessClient, PermAccessDashboard,
		PermViewUser, PermViewCategory, PermViewArticle, PermViewProject, PermViewTicket, PermViewRole,
		PermAddUser, PermAddCategory, PermAddArticle, PermAddProject,
		PermEditUser, PermEditCategory, PermEditArticle, PermEditProject,
		PermDeleteUser, PermDeleteCategory, PermDeleteArticle, PermDeleteProject,
		PermCommentArticle, PermCommentProject, PermChatting,
	}
}

// EntityType names the kind of entity a dashboard activity refers to.
type EntityType string

const (
	EntityUser     EntityType = "USER"
	EntityCategory EntityType = "CATEGORY"
	EntityArticle  EntityType = "ARTICLE"
	EntityProject  EntityType = "PROJECT"
	EntityTicket   EntityType = "TICKET"
	EntityRole     EntityType = "ROLE"
)

// Activity messages recorded on the dashboard feed.
const (
	ActivityCreateUser     = "Added a new user"
	ActivityCreateCategory = "Added a new category"
	ActivityCreateArticle  = "Added a new article"
	ActivityCreateProject  = "Added a new project"
	ActivityCreateTicket   = "Added a new ticket"
	ActivityCreateRole     = "Added a new role"

	ActivityUpdateUser     = "Edited a user"
	ActivityUpdateCategory = "Edited a category"
	ActivityUpdateArticle  = "Edited an article"
	ActivityUpdateProject  = "Edited a project"
	ActivityUpdateTicket   = "Edited a ticket"
	ActivityUpdateRole     = "Edited a role"

	ActivityDeleteUser     = "Deleted a user"
	ActivityDeleteCategory = "Deleted a category"
	ActivityDeleteArticle  = "Deleted an article"
	ActivityDeleteProject  = "Deleted a project"
	ActivityDeleteTicket   = "Deleted a ticket"
	ActivityDeleteRole     = "Deleted a role"
)
