package resolver

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/atomiccms/atomic-service/internal/mailer"
	"github.com/atomiccms/atomic-service/internal/model"
	"github.com/atomiccms/atomic-service/internal/security"
	"github.com/atomiccms/atomic-service/internal/store"
	"github.com/atomiccms/atomic-service/internal/uploads"
)

// UserFilter narrows the user listing.
type UserFilter struct {
	ExcludeEmails []string
	Account       []model.AccountType
	Role          string
	Company       string
	CreatedOn     *time.Time
	ListArgs
}

// Users lists accounts. Without an account filter, admin accounts are
// excluded.
func (r *Resolvers) Users(ctx context.Context, f UserFilter) ([]model.User, error) {
	q := store.NewQuery()
	if len(f.ExcludeEmails) > 0 {
		q.NotIn("email", f.ExcludeEmails)
	}
	account := f.Account
	if len(account) == 0 {
		account = []model.AccountType{model.AccountIndividual, model.AccountOficial, model.AccountEntity}
	}
	q.In("account", account)
	if f.Role != "" {
		role, err := r.Store.RoleByName(ctx, f.Role)
		if err == nil {
			q.Eq("role", role.ID)
		} else if r.Config.StrictFilters {
			q.MatchNothing()
		}
	}
	r.constrainByEmail(ctx, q, "company", f.Company)
	if f.CreatedOn != nil {
		q.CreatedOn(*f.CreatedOn)
	}
	if f.Search != "" {
		q.Search(f.Search, "name", "about")
	}
	return r.Store.Users(ctx, q, f.options())
}

// User returns the account with the given email, or the viewer when no
// email is given.
func (r *Resolvers) User(ctx context.Context, viewer *model.User, email string) (*model.User, error) {
	if email != "" {
		return r.Store.UserByEmail(ctx, email)
	}
	return viewer, nil
}

// CheckResult reports availability of a natural key.
type CheckResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// CheckUser reports whether the email or phone is free to register.
func (r *Resolvers) CheckUser(ctx context.Context, search string) (*CheckResult, error) {
	_, err := r.Store.UserByLogin(ctx, search)
	if store.IsNotFound(err) {
		return &CheckResult{Status: "success", Message: "available"}, nil
	}
	if err != nil {
		return nil, err
	}
	return &CheckResult{Status: "error", Message: "user already exists"}, nil
}

// UserMembers lists the employees of the entity account with the given
// email. An unknown company yields an empty list.
func (r *Resolvers) UserMembers(ctx context.Context, email string, args ListArgs) ([]model.User, error) {
	company, err := r.Store.UserByEmail(ctx, email)
	if err != nil {
		if store.IsNotFound(err) {
			return []model.User{}, nil
		}
		return nil, err
	}
	q := store.NewQuery().Eq("company", company.ID)
	return r.Store.Users(ctx, q, args.options())
}

// UserInput carries user create/update fields. Avatar replaces the current
// one when set.
type UserInput struct {
	Name        string            `json:"name"`
	About       string            `json:"about"`
	Email       string            `json:"email"`
	Phone       string            `json:"phone"`
	Password    string            `json:"password"`
	Account     model.AccountType `json:"account"`
	Gender      model.Gender      `json:"gender"`
	DateOfBirth string            `json:"dateOfBirth"`
	Company     string            `json:"company"`
	Role        *bson.ObjectID    `json:"role"`
	Avatar      *uploads.Incoming `json:"-"`
}

// CreateUser adds an account from the dashboard. An existing email or phone
// is skipped silently. Returns the refreshed listing.
func (r *Resolvers) CreateUser(ctx context.Context, viewer *model.User, input UserInput) ([]model.User, error) {
	if err := requireViewer(viewer); err != nil {
		return nil, err
	}

	if _, err := r.Store.UserByLogin(ctx, input.Email); store.IsNotFound(err) {
		user := &model.User{
			Name:        input.Name,
			About:       input.About,
			Email:       input.Email,
			Phone:       input.Phone,
			Account:     input.Account,
			Gender:      input.Gender,
			DateOfBirth: input.DateOfBirth,
			Company:     r.resolveCompany(ctx, input.Company),
		}
		if input.Role != nil {
			user.Role = *input.Role
		}
		if input.Password != "" {
			hash, err := security.HashPassword(input.Password, r.Config.BcryptCost)
			if err != nil {
				return nil, err
			}
			user.Password = hash
		}
		avatar, err := r.Uploads.Create(ctx, model.UploadImage, input.Avatar)
		if err != nil {
			return nil, err
		}
		if avatar != nil {
			user.Avatar = &avatar.ID
		}
		if err := r.Store.CreateUser(ctx, user); err != nil {
			return nil, err
		}
		r.recordActivity(ctx, viewer, model.ActivityCreateUser, model.EntityUser, user.Email)
	}

	return r.Store.Users(ctx, store.NewQuery(), store.ListOptions{})
}

func (r *Resolvers) applyUserInput(ctx context.Context, user *model.User, input UserInput, hashPassword bool) error {
	if input.Name != "" {
		user.Name = input.Name
	}
	if input.About != "" {
		user.About = input.About
	}
	if input.Email != "" {
		user.Email = input.Email
	}
	if input.Phone != "" {
		user.Phone = input.Phone
	}
	if input.Gender != "" {
		user.Gender = input.Gender
	}
	if input.Account != "" {
		user.Account = input.Account
	}
	if input.DateOfBirth != "" {
		user.DateOfBirth = input.DateOfBirth
	}
	if company := r.resolveCompany(ctx, input.Company); company != nil {
		user.Company = company
	}
	if input.Password != "" {
		if hashPassword {
			hash, err := security.HashPassword(input.Password, r.Config.BcryptCost)
			if err != nil {
				return err
			}
			user.Password = hash
		} else {
			user.Password = input.Password
		}
	}
	if input.Avatar != nil {
		// The replacement is written before the old avatar is removed so a
		// failure cannot leave the account with neither.
		avatar, err := r.Uploads.Create(ctx, model.UploadImage, input.Avatar)
		if err != nil {
			return err
		}
		old := user.Avatar
		user.Avatar = &avatar.ID
		if old != nil {
			if err := r.Uploads.Delete(ctx, model.UploadImage, *old); err != nil {
				return err
			}
		}
	}
	return nil
}

// UpdateUser edits the account with the given email from the dashboard.
// Returns the refreshed listing.
func (r *Resolvers) UpdateUser(ctx context.Context, viewer *model.User, email string, input UserInput) ([]model.User, error) {
	if err := requireViewer(viewer); err != nil {
		return nil, err
	}

	user, err := r.Store.UserByEmail(ctx, email)
	if err == nil {
		if input.Role != nil {
			user.Role = *input.Role
		}
		if err := r.applyUserInput(ctx, user, input, true); err != nil {
			return nil, err
		}
		r.recordActivity(ctx, viewer, model.ActivityUpdateUser, model.EntityUser, user.Email)
		if err := r.Store.SaveUser(ctx, user); err != nil {
			return nil, err
		}
	} else if !store.IsNotFound(err) {
		return nil, err
	}

	return r.Store.Users(ctx, store.NewQuery(), store.ListOptions{})
}

// UpdateClientUser edits the viewer's own profile.
func (r *Resolvers) UpdateClientUser(ctx context.Context, viewer *model.User, input UserInput) (*model.User, error) {
	if err := requireViewer(viewer); err != nil {
		return nil, err
	}
	if err := r.applyUserInput(ctx, viewer, input, true); err != nil {
		return nil, err
	}
	if err := r.Store.SaveUser(ctx, viewer); err != nil {
		return nil, err
	}
	return viewer, nil
}

// DeleteUsers removes the accounts with the given emails along with their
// avatars, notifying each by mail. Returns the refreshed listing.
func (r *Resolvers) DeleteUsers(ctx context.Context, viewer *model.User, emails []string) ([]model.User, error) {
	if err := requireViewer(viewer); err != nil {
		return nil, err
	}

	for _, email := range emails {
		user, err := r.Store.UserByEmail(ctx, email)
		if err != nil {
			if store.IsNotFound(err) {
				continue
			}
			return nil, err
		}

		r.recordActivity(ctx, viewer, model.ActivityDeleteUser, model.EntityUser, user.Email)
		if user.Avatar != nil {
			if err := r.Uploads.Delete(ctx, model.UploadImage, *user.Avatar); err != nil {
				return nil, err
			}
		}
		subject, body := mailer.AccountDeletedMail()
		r.sendMail(user.Email, subject, body)

		if err := r.Store.DeleteUser(ctx, user.ID); err != nil {
			return nil, err
		}
	}

	return r.Store.Users(ctx, store.NewQuery(), store.ListOptions{})
}

// AddFolder appends a project folder to the viewer's profile and returns
// the folders.
func (r *Resolvers) AddFolder(ctx context.Context, viewer *model.User, name string) ([]model.Folder, error) {
	if err := requireViewer(viewer); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, &store.ValidationError{Field: "name", Message: "name required"}
	}
	viewer.Folders = append(viewer.Folders, model.Folder{
		ID:       bson.NewObjectID(),
		Name:     name,
		Projects: []bson.ObjectID{},
	})
	if err := r.Store.SaveUser(ctx, viewer); err != nil {
		return nil, err
	}
	return viewer.Folders, nil
}

// DeleteFolder removes a folder from the viewer's profile.
func (r *Resolvers) DeleteFolder(ctx context.Context, viewer *model.User, id bson.ObjectID) ([]model.Folder, error) {
	if err := requireViewer(viewer); err != nil {
		return nil, err
	}
	viewer.Folders = slices.DeleteFunc(viewer.Folders, func(f model.Folder) bool {
		return f.ID == id
	})
	if err := r.Store.SaveUser(ctx, viewer); err != nil {
		return nil, err
	}
	return viewer.Folders, nil
}

// AddFolderProject files a project into one of the viewer's folders.
func (r *Resolvers) AddFolderProject(ctx context.Context, viewer *model.User, folder, project bson.ObjectID) (bool, error) {
	if viewer == nil {
		return false, nil
	}
	for i := range viewer.Folders {
		if viewer.Folders[i].ID != folder {
			continue
		}
		if !slices.Contains(viewer.Folders[i].Projects, project) {
			viewer.Folders[i].Projects = append(viewer.Folders[i].Projects, project)
		}
		if err := r.Store.SaveUser(ctx, viewer); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// RemoveFolderProject takes a project out of one of the viewer's folders.
func (r *Resolvers) RemoveFolderProject(ctx context.Context, viewer *model.User, folder, project bson.ObjectID) (bool, error) {
	if viewer == nil {
		return false, nil
	}
	for i := range viewer.Folders {
		if viewer.Folders[i].ID != folder {
			continue
		}
		viewer.Folders[i].Projects = slices.DeleteFunc(viewer.Folders[i].Projects, func(p bson.ObjectID) bool {
			return p == project
		})
		if err := r.Store.SaveUser(ctx, viewer); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// FolderProjects resolves a folder's project references, dropping those that
// no longer exist.
func (r *Resolvers) FolderProjects(ctx context.Context, folder *model.Folder, status *model.PostStatus) ([]model.Project, error) {
	if folder == nil || len(folder.Projects) == 0 {
		return []model.Project{}, nil
	}
	return r.Store.ProjectsByIDs(ctx, folder.Projects, status)
}

// LikeProject toggles the viewer's like on a project and returns the
// updated viewer.
func (r *Resolvers) LikeProject(ctx context.Context, viewer *model.User, id bson.ObjectID) (*model.User, error) {
	if err := requireViewer(viewer); err != nil {
		return nil, err
	}
	project, err := r.Store.ProjectByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if slices.Contains(project.Rating, viewer.ID) {
		project.Rating = slices.DeleteFunc(project.Rating, func(u bson.ObjectID) bool { return u == viewer.ID })
		viewer.LikedProjects = slices.DeleteFunc(viewer.LikedProjects, func(p bson.ObjectID) bool { return p == project.ID })
	} else {
		project.Rating = append(project.Rating, viewer.ID)
		viewer.LikedProjects = append(viewer.LikedProjects, project.ID)
	}

	if err := r.Store.SaveProject(ctx, project); err != nil {
		return nil, err
	}
	if err := r.Store.SaveUser(ctx, viewer); err != nil {
		return nil, err
	}
	return viewer, nil
}

// InviteMember invites an individual account to join the viewer's company.
// Only entity accounts can invite. The candidate gets a notice and a mail.
func (r *Resolvers) InviteMember(ctx context.Context, viewer *model.User, email string) (bool, error) {
	if err := requireViewer(viewer); err != nil {
		return false, err
	}
	if viewer.Account != model.AccountEntity {
		return true, nil
	}

	candidate, err := r.Store.UserByEmail(ctx, email)
	if err != nil {
		if store.IsNotFound(err) {
			return true, nil
		}
		return false, err
	}
	if candidate.Account == model.AccountEntity {
		return true, nil
	}

	subject, body := mailer.InviteMail(viewer.Name)
	err = r.Store.CreateNotice(ctx, &model.Notice{
		Type:    model.NoticeInvite,
		Author:  candidate.ID,
		Company: &viewer.ID,
		Title:   subject,
		Message: fmt.Sprintf("%s invited you to join their company", viewer.Name),
	})
	if err != nil {
		return false, err
	}
	r.sendMail(candidate.Email, subject, body)
	return true, nil
}

// ApplyInvite accepts a company invitation. The notice is rewritten as a
// read receipt and the company is notified. Returns the viewer's notices.
func (r *Resolvers) ApplyInvite(ctx context.Context, viewer *model.User, noticeID bson.ObjectID, companyEmail string) ([]model.Notice, error) {
	if err := requireViewer(viewer); err != nil {
		return nil, err
	}

	if viewer.Account != model.AccountEntity {
		company, err := r.Store.UserByEmail(ctx, companyEmail)
		if err == nil && company.Account == model.AccountEntity {
			viewer.Company = &company.ID
			if err := r.Store.SaveUser(ctx, viewer); err != nil {
				return nil, err
			}

			notice, err := r.Store.NoticeByID(ctx, noticeID)
			if err == nil {
				notice.Type = model.NoticeMessage
				notice.Title = "Invitation accepted"
				notice.Message = fmt.Sprintf("You accepted the invitation from %s", company.Name)
				notice.Status = model.MessageReaded
				if err := r.Store.SaveNotice(ctx, notice); err != nil {
					return nil, err
				}
			}

			subject, body := mailer.InviteAcceptedMail(viewer.Name)
			if err := r.Store.CreateNotice(ctx, &model.Notice{
				Type:    model.NoticeMessage,
				Author:  company.ID,
				Title:   subject,
				Message: fmt.Sprintf("%s accepted your invitation", viewer.Name),
			}); err != nil {
				return nil, err
			}
			r.sendMail(company.Email, subject, body)
		} else if err != nil && !store.IsNotFound(err) {
			return nil, err
		}
	}

	return r.Notifications(ctx, viewer.Email, ListArgs{})
}

// RejectInvite declines a company invitation and notifies the company.
// Returns the viewer's notices.
func (r *Resolvers) RejectInvite(ctx context.Context, viewer *model.User, noticeID bson.ObjectID, companyEmail string) ([]model.Notice, error) {
	if err := requireViewer(viewer); err != nil {
		return nil, err
	}

	if viewer.Account != model.AccountEntity {
		company, err := r.Store.UserByEmail(ctx, companyEmail)
		if err == nil && company.Account == model.AccountEntity {
			notice, err := r.Store.NoticeByID(ctx, noticeID)
			if err == nil {
				notice.Type = model.NoticeMessage
				notice.Title = "Invitation declined"
				notice.Message = fmt.Sprintf("You declined the invitation from %s", company.Name)
				notice.Status = model.MessageReaded
				if err := r.Store.SaveNotice(ctx, notice); err != nil {
					return nil, err
				}
			}

			subject, body := mailer.InviteDeclinedMail(viewer.Name)
			if err := r.Store.CreateNotice(ctx, &model.Notice{
				Type:    model.NoticeMessage,
				Author:  company.ID,
				Title:   subject,
				Message: fmt.Sprintf("%s declined your invitation", viewer.Name),
			}); err != nil {
				return nil, err
			}
			r.sendMail(company.Email, subject, body)
		} else if err != nil && !store.IsNotFound(err) {
			return nil, err
		}
	}

	return r.Notifications(ctx, viewer.Email, ListArgs{})
}

// responsiblePermissions are granted to appointed company members.
var responsiblePermissions = []model.Permission{model.PermAddArticle, model.PermAddProject}

const responsiblePrefix = "RESPONSIBLE "

// AppointMember grants a company member content responsibilities by moving
// them onto a role that carries the publishing permissions. Returns the
// company's members.
func (r *Resolvers) AppointMember(ctx context.Context, viewer *model.User, email string) ([]model.User, error) {
	if err := requireViewer(viewer); err != nil {
		return nil, err
	}

	if viewer.Account == model.AccountEntity {
		candidate, err := r.Store.UserByEmail(ctx, email)
		if err != nil && !store.IsNotFound(err) {
			return nil, err
		}
		if err == nil && candidate.Account != model.AccountEntity {
			role, err := r.Store.RoleByID(ctx, candidate.Role)
			if err == nil && len(role.Permissions) > 0 && !hasAll(role.Permissions, responsiblePermissions) {
				perms := append(slices.Clone(role.Permissions), responsiblePermissions...)
				target, err := r.roleWithPermissions(ctx, responsiblePrefix+role.Name, perms)
				if err != nil {
					return nil, err
				}
				candidate.Role = target.ID
				if err := r.Store.SaveUser(ctx, candidate); err != nil {
					return nil, err
				}

				subject, body := mailer.AppointmentMail(viewer.Name)
				if err := r.Store.CreateNotice(ctx, &model.Notice{
					Type:    model.NoticeMessage,
					Author:  candidate.ID,
					Title:   subject,
					Message: fmt.Sprintf("%s appointed you responsible for content", viewer.Name),
				}); err != nil {
					return nil, err
				}
				r.sendMail(candidate.Email, subject, body)
			}
		}
	}

	q := store.NewQuery().Eq("company", viewer.ID)
	return r.Store.Users(ctx, q, store.ListOptions{})
}

// ExcludeMember revokes a member's content responsibilities. Returns the
// company's members.
func (r *Resolvers) ExcludeMember(ctx context.Context, viewer *model.User, email string) ([]model.User, error) {
	if err := requireViewer(viewer); err != nil {
		return nil, err
	}

	if viewer.Account == model.AccountEntity {
		candidate, err := r.Store.UserByEmail(ctx, email)
		if err != nil && !store.IsNotFound(err) {
			return nil, err
		}
		if err == nil && candidate.Account != model.AccountEntity {
			role, err := r.Store.RoleByID(ctx, candidate.Role)
			if err == nil && hasAll(role.Permissions, responsiblePermissions) {
				perms := slices.DeleteFunc(slices.Clone(role.Permissions), func(p model.Permission) bool {
					return slices.Contains(responsiblePermissions, p)
				})
				name := strings.TrimPrefix(role.Name, responsiblePrefix)
				target, err := r.roleWithPermissions(ctx, name, perms)
				if err != nil {
					return nil, err
				}
				candidate.Role = target.ID
				if err := r.Store.SaveUser(ctx, candidate); err != nil {
					return nil, err
				}

				subject, body := mailer.RevocationMail(viewer.Name)
				if err := r.Store.CreateNotice(ctx, &model.Notice{
					Type:    model.NoticeMessage,
					Author:  candidate.ID,
					Title:   subject,
					Message: fmt.Sprintf("%s revoked your content responsibilities", viewer.Name),
				}); err != nil {
					return nil, err
				}
				r.sendMail(candidate.Email, subject, body)
			}
		}
	}

	q := store.NewQuery().Eq("company", viewer.ID)
	return r.Store.Users(ctx, q, store.ListOptions{})
}

// DismissMember detaches a member from the viewer's company. Returns the
// company's members.
func (r *Resolvers) DismissMember(ctx context.Context, viewer *model.User, email string) ([]model.User, error) {
	if err := requireViewer(viewer); err != nil {
		return nil, err
	}

	if viewer.Account == model.AccountEntity {
		candidate, err := r.Store.UserByEmail(ctx, email)
		if err != nil && !store.IsNotFound(err) {
			return nil, err
		}
		if err == nil && candidate.Account != model.AccountEntity {
			candidate.Company = nil
			if err := r.Store.SaveUser(ctx, candidate); err != nil {
				return nil, err
			}

			subject, body := mailer.DismissalMail(viewer.Name)
			if err := r.Store.CreateNotice(ctx, &model.Notice{
				Type:    model.NoticeMessage,
				Author:  candidate.ID,
				Title:   subject,
				Message: fmt.Sprintf("%s removed you from their company", viewer.Name),
			}); err != nil {
				return nil, err
			}
			r.sendMail(candidate.Email, subject, body)
		}
	}

	q := store.NewQuery().Eq("company", viewer.ID)
	return r.Store.Users(ctx, q, store.ListOptions{})
}

// roleWithPermissions finds a role with exactly the given permission set,
// creating a named one when none exists.
func (r *Resolvers) roleWithPermissions(ctx context.Context, name string, perms []model.Permission) (*model.Role, error) {
	roles, err := r.Store.Roles(ctx, store.NewQuery().Eq("permissions", perms), store.ListOptions{Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(roles) > 0 {
		return &roles[0], nil
	}
	role := &model.Role{Name: name, Permissions: perms}
	if err := r.Store.CreateRole(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

func hasAll(have, want []model.Permission) bool {
	for _, p := range want {
		if !slices.Contains(have, p) {
			return false
		}
	}
	return true
}
