package security

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/v2/bson"
	"golang.org/x/crypto/bcrypt"

	"github.com/atomiccms/atomic-service/internal/config"
	"github.com/atomiccms/atomic-service/internal/model"
	"github.com/atomiccms/atomic-service/internal/store"
)

const (
	// ContextKeyUser is the gin context key holding the authenticated *model.User.
	ContextKeyUser = "auth.user"
)

// HashPassword returns the bcrypt hash of a plaintext password.
func HashPassword(password string, cost int) (string, error) {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether the plaintext matches the stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// UserSource resolves token subjects to users.
type UserSource interface {
	UserByID(ctx context.Context, id bson.ObjectID) (*model.User, error)
}

// TokenResolver signs and verifies the service's bearer tokens and resolves
// them to users.
type TokenResolver struct {
	secret []byte
	ttl    time.Duration
	store  UserSource
}

// NewTokenResolver builds a resolver from the configured signing secret.
func NewTokenResolver(cfg *config.Config, s UserSource) *TokenResolver {
	return &TokenResolver{secret: []byte(cfg.JWTSecret), ttl: cfg.TokenTTL, store: s}
}

// Sign issues a bearer token for the user. The user's current session id
// is embedded so that rotating it revokes the token.
func (r *TokenResolver) Sign(user *model.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"uid": user.ID.Hex(),
		"iat": now.Unix(),
	}
	if user.SessionID != "" {
		claims["sid"] = user.SessionID
	}
	if r.ttl > 0 {
		claims["exp"] = now.Add(r.ttl).Unix()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(r.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Resolve verifies a bearer token and loads the user it names. An invalid
// or expired token resolves to an error; callers treat that as anonymous.
func (r *TokenResolver) Resolve(ctx context.Context, bearerToken string) (*model.User, error) {
	token, err := jwt.Parse(bearerToken, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return r.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, &store.UnauthorizedError{Message: "invalid or expired token"}
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, &store.UnauthorizedError{Message: "invalid token claims"}
	}
	uid, _ := claims["uid"].(string)
	id, err := bson.ObjectIDFromHex(uid)
	if err != nil {
		return nil, &store.UnauthorizedError{Message: "invalid token subject"}
	}
	user, err := r.store.UserByID(ctx, id)
	if err != nil {
		return nil, &store.UnauthorizedError{Message: "unknown user"}
	}
	// Accounts without a session id have never revoked a session, so any
	// otherwise valid token is still good for them.
	if user.SessionID != "" {
		if sid, _ := claims["sid"].(string); sid != user.SessionID {
			return nil, &store.UnauthorizedError{Message: "session revoked"}
		}
	}
	return user, nil
}

// AuthMiddleware resolves the Authorization header to a user and stashes it
// on the gin context. Requests without a valid token proceed anonymously;
// handlers that need a user reject on their own.
func AuthMiddleware(resolver *TokenResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		token := strings.TrimPrefix(auth, "Bearer ")
		if auth == "" || token == auth {
			c.Next()
			return
		}
		user, err := resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			log.Debug("Anonymous request: token rejected", "method", c.Request.Method, "path", c.Request.URL.Path, "err", err)
			c.Next()
			return
		}
		c.Set(ContextKeyUser, user)
		c.Next()
	}
}

// CurrentUser returns the authenticated user on the request, or nil.
func CurrentUser(c *gin.Context) *model.User {
	if v, ok := c.Get(ContextKeyUser); ok {
		if user, ok := v.(*model.User); ok {
			return user
		}
	}
	return nil
}
