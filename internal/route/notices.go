package route

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atomiccms/atomic-service/internal/resolver"
)

func mountNotices(g *gin.RouterGroup, res *resolver.Resolvers) {
	g.GET("/notifications", func(c *gin.Context) {
		notices, err := res.Notifications(c.Request.Context(), c.Query("author"), listArgs(c))
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, notices)
	})

	g.GET("/notifications/:noticeId", func(c *gin.Context) {
		id, ok := paramID(c, "noticeId")
		if !ok {
			return
		}
		notice, err := res.Notice(c.Request.Context(), id)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, notice)
	})

	g.POST("/notifications/read", func(c *gin.Context) {
		ids, ok := idsFromBody(c)
		if !ok {
			return
		}
		done, err := res.ReadNotifications(c.Request.Context(), viewer(c), ids)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": done})
	})
}
