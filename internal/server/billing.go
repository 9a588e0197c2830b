package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	billingdomain "github.com/roomledger/roomledger/internal/billing/domain"
	contractdomain "github.com/roomledger/roomledger/internal/contract/domain"
)

func (s *Server) BillingSummary(c *gin.Context) {
	req, ok := bindSummaryRequest(c)
	if !ok {
		return
	}

	resp, err := s.billingSvc.Summarize(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) BillingHistory(c *gin.Context) {
	var query struct {
		Month string `form:"month"`
		Count string `form:"count"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	count, err := parseOptionalInt(query.Count, 0)
	if err != nil {
		AbortWithError(c, billingdomain.ErrInvalidCount)
		return
	}

	resp, err := s.billingSvc.History(c.Request.Context(), billingdomain.HistoryRequest{
		ContractID: strings.TrimSpace(c.Param("contractId")),
		Month:      strings.TrimSpace(query.Month),
		Count:      count,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) StageBillingEdit(c *gin.Context) {
	var req billingdomain.EditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if err := s.billingSvc.StageEdit(c.Request.Context(), req); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"staged": true}})
}

func (s *Server) FlushBillingEdits(c *gin.Context) {
	committed, err := s.billingSvc.FlushEdits(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"committed": committed}})
}

func (s *Server) DiscardBillingEdits(c *gin.Context) {
	s.billingSvc.DiscardEdits(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"discarded": true}})
}

func (s *Server) IssueInvoices(c *gin.Context) {
	var body struct {
		Month      string `json:"month"`
		PropertyID string `json:"property_id"`
		Status     string `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	req := billingdomain.SummaryRequest{
		Month:      strings.TrimSpace(body.Month),
		PropertyID: strings.TrimSpace(body.PropertyID),
	}
	if status := strings.TrimSpace(body.Status); status != "" {
		parsed := contractdomain.Status(status)
		if !parsed.Valid() {
			AbortWithError(c, contractdomain.ErrInvalidStatus)
			return
		}
		req.Status = &parsed
	}

	resp, err := s.billingSvc.IssueInvoices(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.record(c, "billing:issue", "month", resp.Month, map[string]any{"contracts": resp.Contracts})
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func bindSummaryRequest(c *gin.Context) (billingdomain.SummaryRequest, bool) {
	var query struct {
		Month      string `form:"month"`
		PropertyID string `form:"property_id"`
		Status     string `form:"status"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return billingdomain.SummaryRequest{}, false
	}

	req := billingdomain.SummaryRequest{
		Month:      strings.TrimSpace(query.Month),
		PropertyID: strings.TrimSpace(query.PropertyID),
	}
	if status := strings.TrimSpace(query.Status); status != "" {
		parsed := contractdomain.Status(status)
		if !parsed.Valid() {
			AbortWithError(c, contractdomain.ErrInvalidStatus)
			return billingdomain.SummaryRequest{}, false
		}
		req.Status = &parsed
	}
	return req, true
}
