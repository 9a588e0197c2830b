package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	maintenancedomain "github.com/roomledger/roomledger/internal/maintenance/domain"
)

func (s *Server) CreateTicket(c *gin.Context) {
	var req maintenancedomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.maintenanceSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.record(c, "maintenance:create", "ticket", resp.ID.String(), map[string]any{"request": resp.Request})
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListTickets(c *gin.Context) {
	var query struct {
		RoomID   string `form:"room_id"`
		Status   string `form:"status"`
		Priority string `form:"priority"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	filter := maintenancedomain.ListFilter{RoomID: strings.TrimSpace(query.RoomID)}
	if status := strings.TrimSpace(query.Status); status != "" {
		parsed := maintenancedomain.Status(status)
		filter.Status = &parsed
	}
	if priority := strings.TrimSpace(query.Priority); priority != "" {
		parsed := maintenancedomain.Priority(priority)
		filter.Priority = &parsed
	}

	resp, err := s.maintenanceSvc.List(c.Request.Context(), filter)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetTicketByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.maintenanceSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateTicket(c *gin.Context) {
	var req maintenancedomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = strings.TrimSpace(c.Param("id"))

	resp, err := s.maintenanceSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.record(c, "maintenance:update", "ticket", resp.ID.String(), map[string]any{"status": string(resp.Status)})
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteTicket(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := s.maintenanceSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	s.record(c, "maintenance:delete", "ticket", id, nil)
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}
