// Package route mounts the service's operation surface on a gin engine.
// Handlers are thin: they parse the request, call the matching resolver
// method with the viewer resolved by the auth middleware, and translate
// typed store errors to HTTP statuses.
package route

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/atomiccms/atomic-service/internal/model"
	"github.com/atomiccms/atomic-service/internal/resolver"
	"github.com/atomiccms/atomic-service/internal/security"
	"github.com/atomiccms/atomic-service/internal/store"
	"github.com/atomiccms/atomic-service/internal/uploads"
)

// Mount attaches every operation under /v1. The auth middleware must run
// before these routes so the viewer is available.
func Mount(r *gin.Engine, res *resolver.Resolvers) {
	g := r.Group("/v1")

	mountAuth(g, res)
	mountUsers(g, res)
	mountRoles(g, res)
	mountCategories(g, res)
	mountArticles(g, res)
	mountProjects(g, res)
	mountTickets(g, res)
	mountChats(g, res)
	mountNotices(g, res)
	mountUploads(g, res)
	mountDashboard(g, res)
	mountMeta(g)
	mountEvents(g, res)
}

func viewer(c *gin.Context) *model.User {
	return security.CurrentUser(c)
}

func handleError(c *gin.Context, err error) {
	var notFound *store.NotFoundError
	var validation *store.ValidationError
	var conflict *store.ConflictError
	var forbidden *store.ForbiddenError
	var unauthorized *store.UnauthorizedError

	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"code": "not_found", "error": err.Error()})
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"code": "validation_error", "error": err.Error(), "field": validation.Field})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &forbidden):
		c.JSON(http.StatusForbidden, gin.H{"code": "forbidden", "error": err.Error()})
	case errors.As(err, &unauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"code": "unauthorized", "error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// paramID parses an object id path parameter, responding 404 on garbage.
func paramID(c *gin.Context, name string) (bson.ObjectID, bool) {
	id, err := bson.ObjectIDFromHex(c.Param(name))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"code": "not_found", "error": name + " not found"})
		return bson.ObjectID{}, false
	}
	return id, true
}

// idFromHex parses an object id from a request body value.
func idFromHex(c *gin.Context, s string) (bson.ObjectID, bool) {
	id, err := bson.ObjectIDFromHex(s)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id: " + s})
		return bson.ObjectID{}, false
	}
	return id, true
}

func queryInt64(c *gin.Context, key string) int64 {
	v, _ := strconv.ParseInt(c.Query(key), 10, 64)
	return v
}

func listArgs(c *gin.Context) resolver.ListArgs {
	return resolver.ListArgs{
		Search: c.Query("search"),
		Sort:   c.Query("sort"),
		Offset: queryInt64(c, "offset"),
		Limit:  queryInt64(c, "limit"),
	}
}

// idsFromBody reads {"id": [...]} with hex ids.
func idsFromBody(c *gin.Context) ([]bson.ObjectID, bool) {
	var req struct {
		ID []string `json:"id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	ids := make([]bson.ObjectID, 0, len(req.ID))
	for _, s := range req.ID {
		id, err := bson.ObjectIDFromHex(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id: " + s})
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}

// bindInput decodes the operation input. Multipart requests carry it as a
// JSON form field named "input" next to the file parts; everything else is
// a plain JSON body.
func bindInput(c *gin.Context, out any) bool {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		raw := c.PostForm("input")
		if raw == "" {
			return true
		}
		if err := json.Unmarshal([]byte(raw), out); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return false
		}
		return true
	}
	if err := c.ShouldBindJSON(out); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// formFile opens a named multipart file part as an upload, or nil when the
// part is absent.
func formFile(c *gin.Context, field string) (*uploads.Incoming, bool) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, true
	}
	in, ok := openFileHeader(c, fh)
	return in, ok
}

// formFiles opens every part under the named field.
func formFiles(c *gin.Context, field string) ([]*uploads.Incoming, bool) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, true
	}
	var out []*uploads.Incoming
	for _, fh := range form.File[field] {
		in, ok := openFileHeader(c, fh)
		if !ok {
			return nil, false
		}
		out = append(out, in)
	}
	return out, true
}

func openFileHeader(c *gin.Context, fh *multipart.FileHeader) (*uploads.Incoming, bool) {
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	// The handler lifetime bounds the read; gin closes request bodies after
	// the handler returns.
	return &uploads.Incoming{
		Filename: fh.Filename,
		Size:     fh.Size,
		Content:  f,
	}, true
}

func postStatusQuery(c *gin.Context) *model.PostStatus {
	if v := c.Query("status"); v != "" {
		status := model.PostStatus(v)
		return &status
	}
	return nil
}
