package route

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/atomiccms/atomic-service/internal/model"
	"github.com/atomiccms/atomic-service/internal/resolver"
)

func mountRoles(g *gin.RouterGroup, res *resolver.Resolvers) {
	g.GET("/roles", func(c *gin.Context) {
		roles, err := res.Roles(c.Request.Context(), listArgs(c))
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, roles)
	})

	g.GET("/roles/:roleId", func(c *gin.Context) {
		id, ok := paramID(c, "roleId")
		if !ok {
			return
		}
		role, err := res.Role(c.Request.Context(), id)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, role)
	})

	g.POST("/roles", func(c *gin.Context) {
		var input resolver.RoleInput
		if !bindInput(c, &input) {
			return
		}
		roles, err := res.CreateRole(c.Request.Context(), viewer(c), input)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusCreated, roles)
	})

	g.PATCH("/roles/:roleId", func(c *gin.Context) {
		id, ok := paramID(c, "roleId")
		if !ok {
			return
		}
		var input resolver.RoleInput
		if !bindInput(c, &input) {
			return
		}
		roles, err := res.UpdateRole(c.Request.Context(), viewer(c), id, input)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, roles)
	})

	g.DELETE("/roles/:roleId", func(c *gin.Context) {
		id, ok := paramID(c, "roleId")
		if !ok {
			return
		}
		roles, err := res.DeleteRole(c.Request.Context(), viewer(c), id)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, roles)
	})
}

func mountCategories(g *gin.RouterGroup, res *resolver.Resolvers) {
	g.GET("/categories", func(c *gin.Context) {
		f := resolver.CategoryFilter{ListArgs: listArgs(c)}
		if v := c.Query("type"); v != "" {
			f.Type = model.CategoryType(v)
		}
		categories, err := res.Categories(c.Request.Context(), f)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, categories)
	})

	g.GET("/categories/:categoryId", func(c *gin.Context) {
		id, ok := paramID(c, "categoryId")
		if !ok {
			return
		}
		category, err := res.Category(c.Request.Context(), id)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, category)
	})

	g.POST("/categories", func(c *gin.Context) {
		var input resolver.CategoryInput
		if !bindInput(c, &input) {
			return
		}
		categories, err := res.CreateCategory(c.Request.Context(), viewer(c), input)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusCreated, categories)
	})

	g.PATCH("/categories/:categoryId", func(c *gin.Context) {
		id, ok := paramID(c, "categoryId")
		if !ok {
			return
		}
		var input resolver.CategoryInput
		if !bindInput(c, &input) {
			return
		}
		categories, err := res.UpdateCategory(c.Request.Context(), viewer(c), id, input)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, categories)
	})

	g.DELETE("/categories/:categoryId", func(c *gin.Context) {
		id, ok := paramID(c, "categoryId")
		if !ok {
			return
		}
		categories, err := res.DeleteCategory(c.Request.Context(), viewer(c), id)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, categories)
	})
}

func mountArticles(g *gin.RouterGroup, res *resolver.Resolvers) {
	g.GET("/articles", func(c *gin.Context) {
		f := resolver.ArticleFilter{
			Status:   postStatusQuery(c),
			Author:   c.Query("author"),
			ListArgs: listArgs(c),
		}
		if v := c.Query("category"); v != "" {
			id, ok := idFromHex(c, v)
			if !ok {
				return
			}
			f.Category = &id
		}
		if v := c.Query("createdAt"); v != "" {
			at, err := time.Parse(time.RFC3339, v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid createdAt"})
				return
			}
			f.CreatedOn = &at
		}

		articles, err := res.Articles(c.Request.Context(), f)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, articles)
	})

	g.GET("/articles/:articleId", func(c *gin.Context) {
		id, ok := paramID(c, "articleId")
		if !ok {
			return
		}
		article, err := res.Article(c.Request.Context(), id)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, article)
	})

	g.POST("/articles", func(c *gin.Context) {
		var input resolver.ArticleInput
		if !bindInput(c, &input) {
			return
		}
		preview, ok := formFile(c, "preview")
		if !ok {
			return
		}
		input.Preview = preview

		articles, err := res.CreateArticle(c.Request.Context(), viewer(c), input, postStatusQuery(c))
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusCreated, articles)
	})

	g.PATCH("/articles/:articleId", func(c *gin.Context) {
		id, ok := paramID(c, "articleId")
		if !ok {
			return
		}
		var input resolver.ArticleInput
		if !bindInput(c, &input) {
			return
		}
		preview, ok := formFile(c, "preview")
		if !ok {
			return
		}
		input.Preview = preview

		articles, err := res.UpdateArticle(c.Request.Context(), viewer(c), id, input, postStatusQuery(c))
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, articles)
	})

	g.DELETE("/articles", func(c *gin.Context) {
		ids, ok := idsFromBody(c)
		if !ok {
			return
		}
		articles, err := res.DeleteArticles(c.Request.Context(), viewer(c), ids, postStatusQuery(c))
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, articles)
	})

	g.GET("/articles/:articleId/comments", func(c *gin.Context) {
		id, ok := paramID(c, "articleId")
		if !ok {
			return
		}
		comments, err := res.Comments(c.Request.Context(), id)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, comments)
	})

	g.POST("/articles/:articleId/comments", func(c *gin.Context) {
		id, ok := paramID(c, "articleId")
		if !ok {
			return
		}
		var req struct {
			Text string `json:"text"`
		}
		if !bindInput(c, &req) {
			return
		}
		article, err := res.CreateComment(c.Request.Context(), viewer(c), id, req.Text)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusCreated, article)
	})

	g.DELETE("/articles/:articleId/comments/:commentId", func(c *gin.Context) {
		articleID, ok := paramID(c, "articleId")
		if !ok {
			return
		}
		commentID, ok := paramID(c, "commentId")
		if !ok {
			return
		}
		article, err := res.DeleteComment(c.Request.Context(), viewer(c), articleID, commentID)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, article)
	})
}

func mountProjects(g *gin.RouterGroup, res *resolver.Resolvers) {
	g.GET("/projects", func(c *gin.Context) {
		f := resolver.ProjectFilter{
			Status:   postStatusQuery(c),
			Author:   c.Query("author"),
			Member:   c.Query("member"),
			ListArgs: listArgs(c),
		}
		projects, err := res.Projects(c.Request.Context(), f)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, projects)
	})

	g.POST("/projects/by-ids", func(c *gin.Context) {
		ids, ok := idsFromBody(c)
		if !ok {
			return
		}
		projects, err := res.ProjectsByIDs(c.Request.Context(), ids, postStatusQuery(c))
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, projects)
	})

	g.GET("/projects/:projectId", func(c *gin.Context) {
		id, ok := paramID(c, "projectId")
		if !ok {
			return
		}
		project, err := res.Project(c.Request.Context(), id)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, project)
	})

	g.POST("/projects", func(c *gin.Context) {
		input, ok := projectInput(c)
		if !ok {
			return
		}
		projects, err := res.CreateProject(c.Request.Context(), viewer(c), input, postStatusQuery(c))
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusCreated, projects)
	})

	g.PATCH("/projects/:projectId", func(c *gin.Context) {
		id, ok := paramID(c, "projectId")
		if !ok {
			return
		}
		input, ok := projectInput(c)
		if !ok {
			return
		}
		projects, err := res.UpdateProject(c.Request.Context(), viewer(c), id, input, postStatusQuery(c))
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, projects)
	})

	g.DELETE("/projects/:projectId", func(c *gin.Context) {
		id, ok := paramID(c, "projectId")
		if !ok {
			return
		}
		projects, err := res.DeleteProject(c.Request.Context(), viewer(c), id, postStatusQuery(c))
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, projects)
	})

	g.POST("/projects/:projectId/like", func(c *gin.Context) {
		id, ok := paramID(c, "projectId")
		if !ok {
			return
		}
		user, err := res.LikeProject(c.Request.Context(), viewer(c), id)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	})
}

func projectInput(c *gin.Context) (resolver.ProjectInput, bool) {
	var input resolver.ProjectInput
	if !bindInput(c, &input) {
		return input, false
	}
	preview, ok := formFile(c, "preview")
	if !ok {
		return input, false
	}
	input.Preview = preview
	files, ok := formFiles(c, "files")
	if !ok {
		return input, false
	}
	input.Files = files
	screenshots, ok := formFiles(c, "screenshots")
	if !ok {
		return input, false
	}
	input.Screenshots = screenshots
	return input, true
}
