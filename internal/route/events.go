package route

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atomiccms/atomic-service/internal/pubsub"
	"github.com/atomiccms/atomic-service/internal/resolver"
)

var eventTopics = map[string]bool{
	pubsub.TopicNewArticle: true,
	pubsub.TopicNewProject: true,
	pubsub.TopicNewComment: true,
}

// mountEvents streams published events over SSE, one connection per topic.
func mountEvents(g *gin.RouterGroup, res *resolver.Resolvers) {
	g.GET("/events/:topic", func(c *gin.Context) {
		topic := c.Param("topic")
		if !eventTopics[topic] {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("unknown topic: %s", topic)})
			return
		}

		c.Writer.Header().Set("Content-Type", "text/event-stream")
		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Writer.Header().Set("Connection", "keep-alive")
		c.Writer.WriteHeader(http.StatusOK)
		c.Writer.Flush()

		events := res.Broker.Subscribe(c.Request.Context(), topic)
		for event := range events {
			fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", event.Topic, event.Payload)
			c.Writer.Flush()
		}
	})
}
