package route

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atomiccms/atomic-service/internal/resolver"
)

func mountTickets(g *gin.RouterGroup, res *resolver.Resolvers) {
	g.GET("/tickets", func(c *gin.Context) {
		tickets, err := res.Tickets(c.Request.Context(), listArgs(c))
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, tickets)
	})

	g.GET("/tickets/:ticketId", func(c *gin.Context) {
		id, ok := paramID(c, "ticketId")
		if !ok {
			return
		}
		ticket, err := res.Ticket(c.Request.Context(), id)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, ticket)
	})

	g.GET("/tickets/:ticketId/messages", func(c *gin.Context) {
		id, ok := paramID(c, "ticketId")
		if !ok {
			return
		}
		messages, err := res.TicketMessages(c.Request.Context(), id)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, messages)
	})

	g.POST("/tickets", func(c *gin.Context) {
		var input resolver.TicketInput
		if !bindInput(c, &input) {
			return
		}
		tickets, err := res.CreateTicket(c.Request.Context(), viewer(c), input)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusCreated, tickets)
	})

	g.PATCH("/tickets/:ticketId", func(c *gin.Context) {
		id, ok := paramID(c, "ticketId")
		if !ok {
			return
		}
		var input resolver.TicketInput
		if !bindInput(c, &input) {
			return
		}
		tickets, err := res.UpdateTicket(c.Request.Context(), viewer(c), id, input)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, tickets)
	})

	g.DELETE("/tickets/:ticketId", func(c *gin.Context) {
		id, ok := paramID(c, "ticketId")
		if !ok {
			return
		}
		tickets, err := res.DeleteTicket(c.Request.Context(), viewer(c), id)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, tickets)
	})
}
