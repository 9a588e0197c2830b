package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	roomdomain "github.com/roomledger/roomledger/internal/room/domain"
)

func (s *Server) CreateRoom(c *gin.Context) {
	var req roomdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.roomSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.record(c, "room:create", "room", resp.ID.String(), map[string]any{"name": resp.Name})
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListRooms(c *gin.Context) {
	var query struct {
		PropertyID string `form:"property_id"`
		Status     string `form:"status"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	filter := roomdomain.ListFilter{PropertyID: strings.TrimSpace(query.PropertyID)}
	if status := strings.TrimSpace(query.Status); status != "" {
		parsed := roomdomain.Status(status)
		filter.Status = &parsed
	}

	resp, err := s.roomSvc.List(c.Request.Context(), filter)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetRoomByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.roomSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateRoom(c *gin.Context) {
	var req roomdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = strings.TrimSpace(c.Param("id"))

	resp, err := s.roomSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.record(c, "room:update", "room", resp.ID.String(), map[string]any{"name": resp.Name})
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteRoom(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := s.roomSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	s.record(c, "room:delete", "room", id, nil)
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}
