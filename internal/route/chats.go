package route

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atomiccms/atomic-service/internal/resolver"
)

func mountChats(g *gin.RouterGroup, res *resolver.Resolvers) {
	g.GET("/chats", func(c *gin.Context) {
		chats, err := res.UserChats(c.Request.Context(), viewer(c))
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, chats)
	})

	g.GET("/chats/:chatId", func(c *gin.Context) {
		id, ok := paramID(c, "chatId")
		if !ok {
			return
		}
		chat, err := res.Chat(c.Request.Context(), id)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, chat)
	})

	g.GET("/chats/:chatId/messages", func(c *gin.Context) {
		id, ok := paramID(c, "chatId")
		if !ok {
			return
		}
		messages, err := res.ChatMessages(c.Request.Context(), id)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, messages)
	})

	// Opens (or reopens) the direct chat with the recipient.
	g.POST("/chats", func(c *gin.Context) {
		var req struct {
			Recipient string `json:"recipient"`
		}
		if !bindInput(c, &req) {
			return
		}
		ok, err := res.AddUserChat(c.Request.Context(), viewer(c), req.Recipient)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": ok})
	})

	g.POST("/messages", func(c *gin.Context) {
		var req struct {
			Recipient string `json:"recipient"`
			Text      string `json:"text"`
		}
		if !bindInput(c, &req) {
			return
		}
		messages, err := res.SendMessage(c.Request.Context(), viewer(c), req.Recipient, req.Text)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusCreated, messages)
	})

	g.POST("/messages/read", func(c *gin.Context) {
		ids, ok := idsFromBody(c)
		if !ok {
			return
		}
		done, err := res.ReadMessages(c.Request.Context(), viewer(c), ids)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": done})
	})
}
