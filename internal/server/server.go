// Package server exposes the admin console HTTP API.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	auditdomain "github.com/roomledger/roomledger/internal/audit/domain"
	billingdomain "github.com/roomledger/roomledger/internal/billing/domain"
	catalogdomain "github.com/roomledger/roomledger/internal/catalog/domain"
	"github.com/roomledger/roomledger/internal/config"
	contractdomain "github.com/roomledger/roomledger/internal/contract/domain"
	maintenancedomain "github.com/roomledger/roomledger/internal/maintenance/domain"
	propertydomain "github.com/roomledger/roomledger/internal/property/domain"
	roomdomain "github.com/roomledger/roomledger/internal/room/domain"
	tenantdomain "github.com/roomledger/roomledger/internal/tenant/domain"
	usagedomain "github.com/roomledger/roomledger/internal/usage/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(log.Named("http")))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)),
		)
	}
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine         *gin.Engine
	cfg            config.Config
	propertySvc    propertydomain.Service
	roomSvc        roomdomain.Service
	tenantSvc      tenantdomain.Service
	contractSvc    contractdomain.Service
	catalogSvc     catalogdomain.Service
	usageSvc       usagedomain.Service
	billingSvc     billingdomain.Service
	maintenanceSvc maintenancedomain.Service
	auditSvc       auditdomain.Service
}

type ServerParams struct {
	fx.In

	Gin            *gin.Engine
	Cfg            config.Config
	PropertySvc    propertydomain.Service
	RoomSvc        roomdomain.Service
	TenantSvc      tenantdomain.Service
	ContractSvc    contractdomain.Service
	CatalogSvc     catalogdomain.Service
	UsageSvc       usagedomain.Service
	BillingSvc     billingdomain.Service
	MaintenanceSvc maintenancedomain.Service
	AuditSvc       auditdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:         p.Gin,
		cfg:            p.Cfg,
		propertySvc:    p.PropertySvc,
		roomSvc:        p.RoomSvc,
		tenantSvc:      p.TenantSvc,
		contractSvc:    p.ContractSvc,
		catalogSvc:     p.CatalogSvc,
		usageSvc:       p.UsageSvc,
		billingSvc:     p.BillingSvc,
		maintenanceSvc: p.MaintenanceSvc,
		auditSvc:       p.AuditSvc,
	}

	svc.registerAPIRoutes()
	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Properties --------
	api.GET("/properties", s.ListProperties)
	api.POST("/properties", s.CreateProperty)
	api.GET("/properties/:id", s.GetPropertyByID)
	api.PATCH("/properties/:id", s.UpdateProperty)
	api.DELETE("/properties/:id", s.DeleteProperty)

	// -------- Rooms --------
	api.GET("/rooms", s.ListRooms)
	api.POST("/rooms", s.CreateRoom)
	api.GET("/rooms/:id", s.GetRoomByID)
	api.PATCH("/rooms/:id", s.UpdateRoom)
	api.DELETE("/rooms/:id", s.DeleteRoom)

	// -------- Tenants --------
	api.GET("/tenants", s.ListTenants)
	api.POST("/tenants", s.CreateTenant)
	api.GET("/tenants/:id", s.GetTenantByID)
	api.PATCH("/tenants/:id", s.UpdateTenant)
	api.DELETE("/tenants/:id", s.DeleteTenant)

	// -------- Contracts --------
	api.GET("/contracts", s.ListContracts)
	api.POST("/contracts", s.CreateContract)
	api.GET("/contracts/:id", s.GetContractByID)
	api.PATCH("/contracts/:id", s.UpdateContract)
	api.POST("/contracts/:id/status", s.ChangeContractStatus)

	// -------- Service catalog --------
	api.GET("/services", s.ListServices)
	api.POST("/services", s.CreateService)
	api.GET("/services/:id", s.GetServiceByID)
	api.PATCH("/services/:id", s.UpdateService)
	api.DELETE("/services/:id", s.DeleteService)

	// -------- Usage ledger --------
	api.GET("/usage", s.ListUsage)
	api.GET("/usage/months", s.ListUsageMonths)
	api.PUT("/usage/:contractId/:month", s.UpsertUsage)
	api.POST("/usage/open-month", s.OpenMonth)

	// -------- Billing --------
	api.GET("/billing/summary", s.BillingSummary)
	api.GET("/billing/history/:contractId", s.BillingHistory)
	api.POST("/billing/edits", s.StageBillingEdit)
	api.POST("/billing/edits/flush", s.FlushBillingEdits)
	api.DELETE("/billing/edits", s.DiscardBillingEdits)
	api.POST("/billing/issue", s.IssueInvoices)

	// -------- Maintenance --------
	api.GET("/maintenance", s.ListTickets)
	api.POST("/maintenance", s.CreateTicket)
	api.GET("/maintenance/:id", s.GetTicketByID)
	api.PATCH("/maintenance/:id", s.UpdateTicket)
	api.DELETE("/maintenance/:id", s.DeleteTicket)

	// -------- Audit trail --------
	api.GET("/audit-logs", s.ListAuditLogs)
}

// record writes an audit entry for a mutation; failures are already
// logged inside the audit service and never fail the request.
func (s *Server) record(c *gin.Context, action, targetType, targetID string, metadata map[string]any) {
	var target *string
	if targetID != "" {
		target = &targetID
	}
	_ = s.auditSvc.Record(c.Request.Context(), action, targetType, target, metadata)
}
