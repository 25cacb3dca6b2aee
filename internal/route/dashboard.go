package route

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atomiccms/atomic-service/internal/resolver"
)

func mountDashboard(g *gin.RouterGroup, res *resolver.Resolvers) {
	g.GET("/dashboard/activities", func(c *gin.Context) {
		activities, err := res.DashboardActivities(c.Request.Context(), listArgs(c))
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, activities)
	})

	g.GET("/dashboard/settings", func(c *gin.Context) {
		settings, err := res.DashboardSettings(c.Request.Context())
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, settings)
	})

	g.PATCH("/dashboard/settings", func(c *gin.Context) {
		var input resolver.SettingsInput
		if !bindInput(c, &input) {
			return
		}
		var ok bool
		if input.Logotype, ok = formFile(c, "logotype"); !ok {
			return
		}
		if input.Background, ok = formFile(c, "background"); !ok {
			return
		}
		settings, err := res.UpdateDashboardSettings(c.Request.Context(), viewer(c), input)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, settings)
	})

	g.DELETE("/dashboard/settings", func(c *gin.Context) {
		done, err := res.DeleteDashboardSettings(c.Request.Context(), viewer(c))
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": done})
	})
}
