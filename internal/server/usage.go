package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	usagedomain "github.com/roomledger/roomledger/internal/usage/domain"
)

func (s *Server) ListUsage(c *gin.Context) {
	var query struct {
		Month      string `form:"month"`
		ContractID string `form:"contract_id"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	ctx := c.Request.Context()
	switch {
	case strings.TrimSpace(query.Month) != "":
		resp, err := s.usageSvc.ListByMonth(ctx, strings.TrimSpace(query.Month))
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": resp})
	case strings.TrimSpace(query.ContractID) != "":
		contractID, err := snowflake.ParseString(strings.TrimSpace(query.ContractID))
		if err != nil {
			AbortWithError(c, usagedomain.ErrInvalidContract)
			return
		}
		resp, err := s.usageSvc.ListByContract(ctx, contractID)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": resp})
	default:
		resp, err := s.usageSvc.ListAll(ctx)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": resp})
	}
}

func (s *Server) ListUsageMonths(c *gin.Context) {
	resp, err := s.usageSvc.Months(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpsertUsage(c *gin.Context) {
	contractID, err := snowflake.ParseString(strings.TrimSpace(c.Param("contractId")))
	if err != nil {
		AbortWithError(c, usagedomain.ErrInvalidContract)
		return
	}
	month := strings.TrimSpace(c.Param("month"))

	var patch usagedomain.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.usageSvc.Upsert(c.Request.Context(), contractID, month, patch)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.record(c, "usage:upsert", "usage_record", resp.ID.String(), map[string]any{
		"contract_id": contractID.String(),
		"month":       month,
	})
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) OpenMonth(c *gin.Context) {
	var req struct {
		Month string `json:"month"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	created, err := s.billingSvc.OpenMonth(c.Request.Context(), strings.TrimSpace(req.Month))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.record(c, "usage:open-month", "month", strings.TrimSpace(req.Month), map[string]any{"records": created})
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"created": created}})
}
