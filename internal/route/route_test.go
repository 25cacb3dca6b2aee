package route_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atomiccms/atomic-service/internal/mailer"
	"github.com/atomiccms/atomic-service/internal/model"
	"github.com/atomiccms/atomic-service/internal/pubsub"
	"github.com/atomiccms/atomic-service/internal/resolver"
	"github.com/atomiccms/atomic-service/internal/route"
	"github.com/atomiccms/atomic-service/internal/security"
	"github.com/atomiccms/atomic-service/internal/store/mongo"
	"github.com/atomiccms/atomic-service/internal/testutil/testmongo"
	"github.com/atomiccms/atomic-service/internal/uploads"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()

	cfg := testmongo.TestConfig(t)
	ctx := context.Background()

	s, err := mongo.Open(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	require.NoError(t, s.Migrate(ctx))
	require.NoError(t, s.CreateRole(ctx, &model.Role{
		Name:        "USER",
		Permissions: []model.Permission{model.PermAccessClient},
	}))

	tokens := security.NewTokenResolver(cfg, s)
	res := resolver.New(
		s,
		uploads.NewManager(s, cfg.UploadDir, cfg.ServerURL),
		pubsub.NewMemoryBroker(),
		mailer.New(cfg),
		tokens,
		nil,
		cfg,
	)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(security.AuthMiddleware(tokens))
	route.Mount(r, res)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func registerOverHTTP(t *testing.T, r *gin.Engine, name, email string) string {
	t.Helper()
	rec := doJSON(t, r, http.MethodPost, "/v1/auth/register", "", gin.H{
		"name":            name,
		"email":           email,
		"password":        "secret123",
		"confirmPassword": "secret123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var payload struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.NotEmpty(t, payload.Token)
	return payload.Token
}

func TestRegisterLoginRoundtrip(t *testing.T) {
	r := setupRouter(t)

	registerOverHTTP(t, r, "Alice", "alice@example.com")

	rec := doJSON(t, r, http.MethodPost, "/v1/auth/login", "", gin.H{
		"login":    "alice@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, r, http.MethodPost, "/v1/auth/login", "", gin.H{
		"login":    "alice@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBearerTokenResolvesViewer(t *testing.T) {
	r := setupRouter(t)
	token := registerOverHTTP(t, r, "Alice", "alice@example.com")

	rec := doJSON(t, r, http.MethodGet, "/v1/user", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var user model.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, "alice@example.com", user.Email)
}

func TestErrorMapping(t *testing.T) {
	r := setupRouter(t)
	token := registerOverHTTP(t, r, "Alice", "alice@example.com")

	t.Run("malformed id is 404", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodGet, "/v1/articles/nothex", token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("missing document is 404", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodGet, "/v1/articles/aaaaaaaaaaaaaaaaaaaaaaaa", token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("validation failure is 400 with field", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/v1/articles", token, gin.H{"title": "no body"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "body")
	})

	t.Run("anonymous mutation is 401", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/v1/articles", "", gin.H{"title": "x", "body": "y"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestArticlesOverHTTP(t *testing.T) {
	r := setupRouter(t)
	token := registerOverHTTP(t, r, "Alice", "alice@example.com")

	rec := doJSON(t, r, http.MethodPost, "/v1/articles?status=MODERATION", token, gin.H{
		"title": "First",
		"body":  "Body text",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var listing []model.Article
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	require.Len(t, listing, 1)
	assert.Equal(t, "First", listing[0].Title)

	// Default listing only shows published articles.
	rec = doJSON(t, r, http.MethodGet, "/v1/articles", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	listing = nil
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	assert.Empty(t, listing)

	rec = doJSON(t, r, http.MethodGet, "/v1/articles?status=MODERATION", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	listing = nil
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	assert.Len(t, listing, 1)
}

func TestMultipartImageUpload(t *testing.T) {
	r := setupRouter(t)
	token := registerOverHTTP(t, r, "Alice", "alice@example.com")

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("file", "logo.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/images", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var upload model.Upload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &upload))
	assert.Equal(t, "logo.png", upload.Filename)
	assert.NotEmpty(t, upload.Path)

	rec = doJSON(t, r, http.MethodGet, fmt.Sprintf("/v1/images/%s", upload.ID.Hex()), token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetaEndpoints(t *testing.T) {
	r := setupRouter(t)

	rec := doJSON(t, r, http.MethodGet, "/v1/meta/account-types", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ENTITY")

	rec = doJSON(t, r, http.MethodGet, "/v1/meta/post-statuses", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "PUBLISHED")
}

func TestEventsRejectsUnknownTopic(t *testing.T) {
	r := setupRouter(t)

	rec := doJSON(t, r, http.MethodGet, "/v1/events/NOT_A_TOPIC", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSystemEndpoints(t *testing.T) {
	r := setupRouter(t)
	route.MountSystem(r)
	route.MarkReady()

	rec := doJSON(t, r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "ok"))

	rec = doJSON(t, r, http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
