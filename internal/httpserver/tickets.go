package httpserver

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"storefront/internal/domain"
)

type ticketService interface {
	List(ctx context.Context) ([]domain.Ticket, error)
	GetByCode(ctx context.Context, code string) (*domain.Ticket, error)
}

func listTicketsHandler(svc ticketService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tickets, err := svc.List(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		if tickets == nil {
			tickets = []domain.Ticket{}
		}
		c.JSON(http.StatusOK, gin.H{"tickets": tickets})
	}
}

func getTicketHandler(svc ticketService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ticket, err := svc.GetByCode(c.Request.Context(), c.Param("code"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, ticket)
	}
}
