package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	propertydomain "github.com/roomledger/roomledger/internal/property/domain"
)

func (s *Server) CreateProperty(c *gin.Context) {
	var req propertydomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.propertySvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.record(c, "property:create", "property", resp.ID.String(), map[string]any{"name": resp.Name})
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListProperties(c *gin.Context) {
	resp, err := s.propertySvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetPropertyByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.propertySvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateProperty(c *gin.Context) {
	var req propertydomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = strings.TrimSpace(c.Param("id"))

	resp, err := s.propertySvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.record(c, "property:update", "property", resp.ID.String(), map[string]any{"name": resp.Name})
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteProperty(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := s.propertySvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	s.record(c, "property:delete", "property", id, nil)
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}
