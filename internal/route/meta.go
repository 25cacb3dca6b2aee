package route

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atomiccms/atomic-service/internal/model"
)

// mountMeta serves the enum vocabularies clients build pickers from.
func mountMeta(g *gin.RouterGroup) {
	g.GET("/meta/account-types", func(c *gin.Context) {
		c.JSON(http.StatusOK, model.AccountTypes())
	})
	g.GET("/meta/post-statuses", func(c *gin.Context) {
		c.JSON(http.StatusOK, model.PostStatuses())
	})
	g.GET("/meta/chat-types", func(c *gin.Context) {
		c.JSON(http.StatusOK, model.ChatTypes())
	})
	g.GET("/meta/chat-statuses", func(c *gin.Context) {
		c.JSON(http.StatusOK, model.ChatStatuses())
	})
	g.GET("/meta/category-types", func(c *gin.Context) {
		c.JSON(http.StatusOK, model.CategoryTypes())
	})
	g.GET("/meta/permissions", func(c *gin.Context) {
		c.JSON(http.StatusOK, model.Permissions())
	})
}
