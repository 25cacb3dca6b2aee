package route

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/atomiccms/atomic-service/internal/model"
	"github.com/atomiccms/atomic-service/internal/resolver"
	"github.com/atomiccms/atomic-service/internal/store"
)

func mountUsers(g *gin.RouterGroup, res *resolver.Resolvers) {
	g.GET("/users", func(c *gin.Context) {
		f := resolver.UserFilter{
			ExcludeEmails: c.QueryArray("email"),
			Role:          c.Query("role"),
			Company:       c.Query("company"),
			ListArgs:      listArgs(c),
		}
		for _, a := range c.QueryArray("account") {
			f.Account = append(f.Account, model.AccountType(a))
		}
		if v := c.Query("createdAt"); v != "" {
			at, err := time.Parse(time.RFC3339, v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid createdAt"})
				return
			}
			f.CreatedOn = &at
		}

		users, err := res.Users(c.Request.Context(), f)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, users)
	})

	// The viewer's own profile, or any profile by email.
	g.GET("/user", func(c *gin.Context) {
		user, err := res.User(c.Request.Context(), viewer(c), c.Query("email"))
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	})

	g.GET("/users/check", func(c *gin.Context) {
		result, err := res.CheckUser(c.Request.Context(), c.Query("search"))
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	})

	g.GET("/users/members", func(c *gin.Context) {
		members, err := res.UserMembers(c.Request.Context(), c.Query("email"), listArgs(c))
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, members)
	})

	g.POST("/users", func(c *gin.Context) {
		var input resolver.UserInput
		if !bindInput(c, &input) {
			return
		}
		avatar, ok := formFile(c, "avatar")
		if !ok {
			return
		}
		input.Avatar = avatar

		users, err := res.CreateUser(c.Request.Context(), viewer(c), input)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusCreated, users)
	})

	g.PATCH("/users/:email", func(c *gin.Context) {
		var input resolver.UserInput
		if !bindInput(c, &input) {
			return
		}
		avatar, ok := formFile(c, "avatar")
		if !ok {
			return
		}
		input.Avatar = avatar

		users, err := res.UpdateUser(c.Request.Context(), viewer(c), c.Param("email"), input)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, users)
	})

	g.PATCH("/user", func(c *gin.Context) {
		var input resolver.UserInput
		if !bindInput(c, &input) {
			return
		}
		avatar, ok := formFile(c, "avatar")
		if !ok {
			return
		}
		input.Avatar = avatar

		user, err := res.UpdateClientUser(c.Request.Context(), viewer(c), input)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	})

	g.DELETE("/users", func(c *gin.Context) {
		var req struct {
			Email []string `json:"email"`
		}
		if !bindInput(c, &req) {
			return
		}
		users, err := res.DeleteUsers(c.Request.Context(), viewer(c), req.Email)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, users)
	})

	mountFolders(g, res)
	mountMembers(g, res)
}

func mountFolders(g *gin.RouterGroup, res *resolver.Resolvers) {
	g.POST("/user/folders", func(c *gin.Context) {
		var req struct {
			Name string `json:"name"`
		}
		if !bindInput(c, &req) {
			return
		}
		folders, err := res.AddFolder(c.Request.Context(), viewer(c), req.Name)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusCreated, folders)
	})

	g.DELETE("/user/folders/:folderId", func(c *gin.Context) {
		id, ok := paramID(c, "folderId")
		if !ok {
			return
		}
		folders, err := res.DeleteFolder(c.Request.Context(), viewer(c), id)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, folders)
	})

	g.GET("/user/folders/:folderId/projects", func(c *gin.Context) {
		id, ok := paramID(c, "folderId")
		if !ok {
			return
		}
		user := viewer(c)
		if user == nil {
			handleError(c, &store.UnauthorizedError{Message: "authentication required"})
			return
		}
		var folder *model.Folder
		for i := range user.Folders {
			if user.Folders[i].ID == id {
				folder = &user.Folders[i]
				break
			}
		}
		if folder == nil {
			handleError(c, &store.NotFoundError{Resource: "folder", ID: id.Hex()})
			return
		}
		projects, err := res.FolderProjects(c.Request.Context(), folder, postStatusQuery(c))
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, projects)
	})

	g.POST("/user/folders/:folderId/projects/:projectId", func(c *gin.Context) {
		folderID, ok := paramID(c, "folderId")
		if !ok {
			return
		}
		projectID, ok := paramID(c, "projectId")
		if !ok {
			return
		}
		added, err := res.AddFolderProject(c.Request.Context(), viewer(c), folderID, projectID)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": added})
	})

	g.DELETE("/user/folders/:folderId/projects/:projectId", func(c *gin.Context) {
		folderID, ok := paramID(c, "folderId")
		if !ok {
			return
		}
		projectID, ok := paramID(c, "projectId")
		if !ok {
			return
		}
		removed, err := res.RemoveFolderProject(c.Request.Context(), viewer(c), folderID, projectID)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": removed})
	})
}

func mountMembers(g *gin.RouterGroup, res *resolver.Resolvers) {
	type emailReq struct {
		Email string `json:"email"`
	}

	g.POST("/members/invite", func(c *gin.Context) {
		var req emailReq
		if !bindInput(c, &req) {
			return
		}
		ok, err := res.InviteMember(c.Request.Context(), viewer(c), req.Email)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": ok})
	})

	g.POST("/members/apply", func(c *gin.Context) {
		var req struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		}
		if !bindInput(c, &req) {
			return
		}
		noticeID, ok := idFromHex(c, req.ID)
		if !ok {
			return
		}
		notices, err := res.ApplyInvite(c.Request.Context(), viewer(c), noticeID, req.Email)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, notices)
	})

	g.POST("/members/reject", func(c *gin.Context) {
		var req struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		}
		if !bindInput(c, &req) {
			return
		}
		noticeID, ok := idFromHex(c, req.ID)
		if !ok {
			return
		}
		notices, err := res.RejectInvite(c.Request.Context(), viewer(c), noticeID, req.Email)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, notices)
	})

	g.POST("/members/appoint", func(c *gin.Context) {
		var req emailReq
		if !bindInput(c, &req) {
			return
		}
		members, err := res.AppointMember(c.Request.Context(), viewer(c), req.Email)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, members)
	})

	g.POST("/members/exclude", func(c *gin.Context) {
		var req emailReq
		if !bindInput(c, &req) {
			return
		}
		members, err := res.ExcludeMember(c.Request.Context(), viewer(c), req.Email)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, members)
	})

	g.POST("/members/dismiss", func(c *gin.Context) {
		var req emailReq
		if !bindInput(c, &req) {
			return
		}
		members, err := res.DismissMember(c.Request.Context(), viewer(c), req.Email)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, members)
	})
}
