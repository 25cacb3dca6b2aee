package security

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/atomiccms/atomic-service/internal/config"
	"github.com/atomiccms/atomic-service/internal/model"
	"github.com/atomiccms/atomic-service/internal/store"
)

type fakeUserSource struct {
	users map[bson.ObjectID]*model.User
}

func (f *fakeUserSource) UserByID(_ context.Context, id bson.ObjectID) (*model.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, &store.NotFoundError{Resource: "user", ID: id.Hex()}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)
	assert.True(t, CheckPassword(hash, "s3cret"))
	assert.False(t, CheckPassword(hash, "wrong"))
}

func TestTokenRoundTrip(t *testing.T) {
	user := &model.User{ID: bson.NewObjectID(), Email: "a@b.c"}
	cfg := config.DefaultConfig()
	cfg.JWTSecret = "unit-secret"
	resolver := NewTokenResolver(&cfg, &fakeUserSource{users: map[bson.ObjectID]*model.User{user.ID: user}})

	token, err := resolver.Sign(user)
	require.NoError(t, err)

	got, err := resolver.Resolve(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestResolve_RejectsGarbageAndUnknownUsers(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.JWTSecret = "unit-secret"
	resolver := NewTokenResolver(&cfg, &fakeUserSource{users: map[bson.ObjectID]*model.User{}})

	_, err := resolver.Resolve(context.Background(), "not-a-token")
	var unauthorized *store.UnauthorizedError
	require.ErrorAs(t, err, &unauthorized)

	// Valid signature but the subject no longer exists.
	token, err := resolver.Sign(&model.User{ID: bson.NewObjectID()})
	require.NoError(t, err)
	_, err = resolver.Resolve(context.Background(), token)
	require.ErrorAs(t, err, &unauthorized)
}

func TestResolve_RejectsRotatedSession(t *testing.T) {
	user := &model.User{ID: bson.NewObjectID(), SessionID: "before"}
	cfg := config.DefaultConfig()
	cfg.JWTSecret = "unit-secret"
	resolver := NewTokenResolver(&cfg, &fakeUserSource{users: map[bson.ObjectID]*model.User{user.ID: user}})

	token, err := resolver.Sign(user)
	require.NoError(t, err)

	got, err := resolver.Resolve(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	user.SessionID = "after"
	_, err = resolver.Resolve(context.Background(), token)
	var unauthorized *store.UnauthorizedError
	require.ErrorAs(t, err, &unauthorized)

	// Tokens issued before the account ever had a session id die too.
	plain, err := resolver.Sign(&model.User{ID: user.ID})
	require.NoError(t, err)
	_, err = resolver.Resolve(context.Background(), plain)
	require.ErrorAs(t, err, &unauthorized)
}

func TestResolve_ExpiredToken(t *testing.T) {
	user := &model.User{ID: bson.NewObjectID()}
	cfg := config.DefaultConfig()
	cfg.JWTSecret = "unit-secret"
	cfg.TokenTTL = -time.Minute
	resolver := NewTokenResolver(&cfg, &fakeUserSource{users: map[bson.ObjectID]*model.User{user.ID: user}})

	token, err := resolver.Sign(user)
	require.NoError(t, err)

	_, err = resolver.Resolve(context.Background(), token)
	var unauthorized *store.UnauthorizedError
	require.ErrorAs(t, err, &unauthorized)
}

func TestParseMetricsLabels(t *testing.T) {
	labels, err := ParseMetricsLabels("service=atomic,env=dev")
	require.NoError(t, err)
	assert.Equal(t, "atomic", labels["service"])
	assert.Equal(t, "dev", labels["env"])

	_, err = ParseMetricsLabels("bad label")
	require.Error(t, err)

	labels, err = ParseMetricsLabels("")
	require.NoError(t, err)
	assert.Nil(t, labels)
}
