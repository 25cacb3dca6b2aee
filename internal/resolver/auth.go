package resolver

import (
	"context"
	"crypto/rand"
	"fmt"

	"github.com/google/uuid"

	"github.com/atomiccms/atomic-service/internal/mailer"
	"github.com/atomiccms/atomic-service/internal/model"
	"github.com/atomiccms/atomic-service/internal/security"
	"github.com/atomiccms/atomic-service/internal/store"
)

// defaultRoleName is the role assigned to self-registered accounts.
const defaultRoleName = "USER"

// AuthPayload is the result of a successful authentication. Register is set
// when the operation created the account.
type AuthPayload struct {
	User     *model.User `json:"user"`
	Token    string      `json:"token"`
	Register bool        `json:"register,omitempty"`
}

// Checkin reports whether an account with the given email or phone exists.
func (r *Resolvers) Checkin(ctx context.Context, login string) (bool, error) {
	if login == "" {
		return false, &store.ValidationError{Field: "login", Message: "email or phone required"}
	}
	if _, err := r.Store.UserByLogin(ctx, login); err != nil {
		if store.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Login authenticates by email or phone and issues a token.
func (r *Resolvers) Login(ctx context.Context, login, password string) (*AuthPayload, error) {
	if login == "" {
		return nil, &store.ValidationError{Field: "login", Message: "email or phone required"}
	}
	if password == "" {
		return nil, &store.ValidationError{Field: "password", Message: "password required"}
	}

	user, err := r.Store.UserByLogin(ctx, login)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, &store.UnauthorizedError{Message: "wrong credentials"}
		}
		return nil, err
	}
	if !security.CheckPassword(user.Password, password) {
		return nil, &store.UnauthorizedError{Message: "wrong credentials"}
	}

	token, err := r.Tokens.Sign(user)
	if err != nil {
		return nil, err
	}
	return &AuthPayload{User: user, Token: token}, nil
}

// RegisterInput is the self-registration form.
type RegisterInput struct {
	Name            string            `json:"name"`
	Account         model.AccountType `json:"account"`
	Email           string            `json:"email"`
	Phone           string            `json:"phone"`
	Password        string            `json:"password"`
	ConfirmPassword string            `json:"confirmPassword"`
}

// Register creates an account with the default role and issues a token.
func (r *Resolvers) Register(ctx context.Context, input RegisterInput) (*AuthPayload, error) {
	switch {
	case input.Name == "":
		return nil, &store.ValidationError{Field: "name", Message: "name required"}
	case input.Email == "":
		return nil, &store.ValidationError{Field: "email", Message: "email required"}
	case input.Password == "":
		return nil, &store.ValidationError{Field: "password", Message: "password required"}
	case input.Password != input.ConfirmPassword:
		return nil, &store.ValidationError{Field: "confirmPassword", Message: "passwords do not match"}
	}

	if _, err := r.Store.UserByLogin(ctx, input.Email); err == nil {
		return nil, &store.ConflictError{Message: "user already exists", Code: "user_exists"}
	} else if !store.IsNotFound(err) {
		return nil, err
	}
	if input.Phone != "" {
		if _, err := r.Store.UserByLogin(ctx, input.Phone); err == nil {
			return nil, &store.ConflictError{Message: "user already exists", Code: "user_exists"}
		} else if !store.IsNotFound(err) {
			return nil, err
		}
	}

	role, err := r.Store.RoleByName(ctx, defaultRoleName)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve default role: %w", err)
	}

	hash, err := security.HashPassword(input.Password, r.Config.BcryptCost)
	if err != nil {
		return nil, err
	}

	account := input.Account
	if account == "" {
		account = model.AccountIndividual
	}
	user := &model.User{
		Name:     input.Name,
		Account:  account,
		Email:    input.Email,
		Phone:    input.Phone,
		Password: hash,
		Role:     role.ID,
	}
	if err := r.Store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	subject, body := mailer.RegistrationMail(user.Name)
	r.sendMail(user.Email, subject, body)

	token, err := r.Tokens.Sign(user)
	if err != nil {
		return nil, err
	}
	return &AuthPayload{User: user, Token: token, Register: true}, nil
}

// Logout rotates the viewer's session id, invalidating issued tokens that
// embed the old one. Returns false for anonymous callers.
func (r *Resolvers) Logout(ctx context.Context, viewer *model.User) (bool, error) {
	if viewer == nil {
		return false, nil
	}
	viewer.SessionID = uuid.NewString()
	if err := r.Store.SaveUser(ctx, viewer); err != nil {
		return false, err
	}
	return true, nil
}

// GoogleAuth signs in with a Google access token, creating the account on
// first sign-in.
func (r *Resolvers) GoogleAuth(ctx context.Context, accessToken string) (*AuthPayload, error) {
	if r.Google == nil {
		return nil, &store.UnauthorizedError{Message: "google sign-in not configured"}
	}
	profile, err := r.Google.Profile(ctx, accessToken)
	if err != nil {
		return nil, &store.UnauthorizedError{Message: "google authentication failed"}
	}
	if profile.Email == "" {
		return nil, &store.UnauthorizedError{Message: "google profile has no email"}
	}

	user, err := r.Store.UserByEmail(ctx, profile.Email)
	if err == nil {
		user.GoogleAccount = &model.OAuthAccount{AccessToken: accessToken}
		if err := r.Store.SaveUser(ctx, user); err != nil {
			return nil, err
		}
		subject, body := mailer.GoogleSignInMail(user.Name)
		r.sendMail(user.Email, subject, body)

		token, err := r.Tokens.Sign(user)
		if err != nil {
			return nil, err
		}
		return &AuthPayload{User: user, Token: token}, nil
	}
	if !store.IsNotFound(err) {
		return nil, err
	}

	role, err := r.Store.RoleByName(ctx, defaultRoleName)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve default role: %w", err)
	}

	user = &model.User{
		Name:          profile.Name,
		Account:       model.AccountIndividual,
		Email:         profile.Email,
		Role:          role.ID,
		GoogleAccount: &model.OAuthAccount{AccessToken: accessToken},
	}
	if profile.Picture != "" {
		// The avatar stays on Google's CDN; only the reference is stored.
		avatar := &model.Upload{Path: profile.Picture, Filename: profile.Picture}
		if err := r.Store.CreateUpload(ctx, model.UploadImage, avatar); err == nil {
			user.Avatar = &avatar.ID
		}
	}
	if err := r.Store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	subject, body := mailer.RegistrationMail(user.Name)
	r.sendMail(user.Email, subject, body)

	token, err := r.Tokens.Sign(user)
	if err != nil {
		return nil, err
	}
	return &AuthPayload{User: user, Token: token, Register: true}, nil
}

// PasswordReset reports the state of a reset flow.
type PasswordReset struct {
	Email string `json:"email"`
}

// RequestPasswordReset issues a fresh reset key and mails it to the account.
func (r *Resolvers) RequestPasswordReset(ctx context.Context, email string) (*PasswordReset, error) {
	user, err := r.Store.UserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	user.ResetPasswordKey = resetKey()
	if err := r.Store.SaveUser(ctx, user); err != nil {
		return nil, err
	}

	subject, body := mailer.PasswordResetMail(user.ResetPasswordKey)
	r.sendMail(user.Email, subject, body)

	return &PasswordReset{Email: user.Email}, nil
}

// VerifyResetKey reports whether the key matches the account's pending reset.
func (r *Resolvers) VerifyResetKey(ctx context.Context, email, key string) (bool, error) {
	user, err := r.Store.UserByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	return user.ResetPasswordKey != "" && user.ResetPasswordKey == key, nil
}

// ResetPassword sets a new password when the key matches. The key is
// consumed either way it is used.
func (r *Resolvers) ResetPassword(ctx context.Context, email, key, password string) (*PasswordReset, error) {
	if password == "" {
		return nil, &store.ValidationError{Field: "password", Message: "password required"}
	}
	user, err := r.Store.UserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user.ResetPasswordKey == "" || user.ResetPasswordKey != key {
		return &PasswordReset{}, nil
	}

	hash, err := security.HashPassword(password, r.Config.BcryptCost)
	if err != nil {
		return nil, err
	}
	user.Password = hash
	user.ResetPasswordKey = ""
	if err := r.Store.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return &PasswordReset{Email: user.Email}, nil
}

const resetKeyAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func resetKey() string {
	buf := make([]byte, 6)
	rand.Read(buf)
	for i, b := range buf {
		buf[i] = resetKeyAlphabet[int(b)%len(resetKeyAlphabet)]
	}
	return string(buf)
}
