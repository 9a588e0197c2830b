package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	contractdomain "github.com/roomledger/roomledger/internal/contract/domain"
)

func (s *Server) CreateContract(c *gin.Context) {
	var req contractdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.contractSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.record(c, "contract:create", "contract", resp.ID.String(), map[string]any{"code": resp.Code})
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListContracts(c *gin.Context) {
	var query struct {
		Status  string `form:"status"`
		RoomID  string `form:"room_id"`
		Managed string `form:"managed"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	req := contractdomain.ListRequest{}
	if status := strings.TrimSpace(query.Status); status != "" {
		parsed := contractdomain.Status(status)
		if !parsed.Valid() {
			AbortWithError(c, contractdomain.ErrInvalidStatus)
			return
		}
		req.Status = &parsed
	}
	if roomID := strings.TrimSpace(query.RoomID); roomID != "" {
		parsed, err := contractdomain.ParseID(roomID)
		if err != nil {
			AbortWithError(c, contractdomain.ErrInvalidRoom)
			return
		}
		req.RoomID = &parsed
	}
	managed, err := parseOptionalBool(query.Managed)
	if err != nil {
		AbortWithError(c, newValidationError("managed", "invalid_managed", "invalid managed"))
		return
	}
	if managed != nil {
		req.Managed = *managed
	}

	resp, err := s.contractSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetContractByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.contractSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateContract(c *gin.Context) {
	var req contractdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = strings.TrimSpace(c.Param("id"))

	resp, err := s.contractSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.record(c, "contract:update", "contract", resp.ID.String(), map[string]any{"code": resp.Code})
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ChangeContractStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	to := contractdomain.Status(strings.TrimSpace(req.Status))

	resp, err := s.contractSvc.ChangeStatus(c.Request.Context(), id, to)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.record(c, "contract:status", "contract", resp.ID.String(), map[string]any{
		"code":   resp.Code,
		"status": string(resp.Status),
	})
	c.JSON(http.StatusOK, gin.H{"data": resp})
}
