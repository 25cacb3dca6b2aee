package route

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atomiccms/atomic-service/internal/resolver"
)

func mountUploads(g *gin.RouterGroup, res *resolver.Resolvers) {
	g.GET("/files", func(c *gin.Context) {
		files, err := res.Files(c.Request.Context(), listArgs(c))
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, files)
	})

	g.GET("/files/:fileId", func(c *gin.Context) {
		id, ok := paramID(c, "fileId")
		if !ok {
			return
		}
		file, err := res.File(c.Request.Context(), id)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, file)
	})

	g.POST("/files", func(c *gin.Context) {
		in, ok := formFile(c, "file")
		if !ok {
			return
		}
		file, err := res.CreateFile(c.Request.Context(), viewer(c), in)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusCreated, file)
	})

	g.PATCH("/files/:fileId", func(c *gin.Context) {
		id, ok := paramID(c, "fileId")
		if !ok {
			return
		}
		in, ok := formFile(c, "file")
		if !ok {
			return
		}
		file, err := res.UpdateFile(c.Request.Context(), viewer(c), id, in)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, file)
	})

	g.DELETE("/files/:fileId", func(c *gin.Context) {
		id, ok := paramID(c, "fileId")
		if !ok {
			return
		}
		done, err := res.DeleteFile(c.Request.Context(), viewer(c), id)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": done})
	})

	g.GET("/images", func(c *gin.Context) {
		images, err := res.Images(c.Request.Context(), listArgs(c))
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, images)
	})

	g.GET("/images/:imageId", func(c *gin.Context) {
		id, ok := paramID(c, "imageId")
		if !ok {
			return
		}
		image, err := res.Image(c.Request.Context(), id)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, image)
	})

	g.POST("/images", func(c *gin.Context) {
		in, ok := formFile(c, "file")
		if !ok {
			return
		}
		image, err := res.CreateImage(c.Request.Context(), viewer(c), in)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusCreated, image)
	})

	g.PATCH("/images/:imageId", func(c *gin.Context) {
		id, ok := paramID(c, "imageId")
		if !ok {
			return
		}
		in, ok := formFile(c, "file")
		if !ok {
			return
		}
		image, err := res.UpdateImage(c.Request.Context(), viewer(c), id, in)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, image)
	})

	g.DELETE("/images/:imageId", func(c *gin.Context) {
		id, ok := paramID(c, "imageId")
		if !ok {
			return
		}
		done, err := res.DeleteImage(c.Request.Context(), viewer(c), id)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": done})
	})
}
