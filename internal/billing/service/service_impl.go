package service

import (
	"context"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	billingdomain "github.com/roomledger/roomledger/internal/billing/domain"
	"github.com/roomledger/roomledger/internal/billing/editbuffer"
	"github.com/roomledger/roomledger/internal/billing/engine"
	catalogdomain "github.com/roomledger/roomledger/internal/catalog/domain"
	contractdomain "github.com/roomledger/roomledger/internal/contract/domain"
	propertydomain "github.com/roomledger/roomledger/internal/property/domain"
	roomdomain "github.com/roomledger/roomledger/internal/room/domain"
	usagedomain "github.com/roomledger/roomledger/internal/usage/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	defaultHistoryCount = 6
	maxHistoryCount     = 24
)

var (
	summariesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "roomledger",
		Subsystem: "billing",
		Name:      "summaries_total",
		Help:      "Number of billing summary computations served.",
	})
	editsStagedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "roomledger",
		Subsystem: "billing",
		Name:      "edits_staged_total",
		Help:      "Number of grid edits staged into the buffer.",
	})
	invoicesIssuedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "roomledger",
		Subsystem: "billing",
		Name:      "invoices_issued_total",
		Help:      "Number of contracts included in issued invoice batches.",
	})
)

type Params struct {
	fx.In

	Log         *zap.Logger
	ContractSvc contractdomain.Service
	UsageSvc    usagedomain.Service
	CatalogSvc  catalogdomain.Service
	RoomSvc     roomdomain.Service
	PropertySvc propertydomain.Service
	Buffer      *editbuffer.Buffer
}

type Service struct {
	log         *zap.Logger
	contractSvc contractdomain.Service
	usageSvc    usagedomain.Service
	catalogSvc  catalogdomain.Service
	roomSvc     roomdomain.Service
	propertySvc propertydomain.Service
	buffer      *editbuffer.Buffer
}

func New(p Params) billingdomain.Service {
	return &Service{
		log:         p.Log.Named("billing.service"),
		contractSvc: p.ContractSvc,
		usageSvc:    p.UsageSvc,
		catalogSvc:  p.CatalogSvc,
		roomSvc:     p.RoomSvc,
		propertySvc: p.PropertySvc,
		buffer:      p.Buffer,
	}
}

// Summarize derives the month's bill preview for every matching
// contract: the engine summary plus room/property labels, alert
// classification, roll-up totals, and the issue gate.
func (s *Service) Summarize(ctx context.Context, req billingdomain.SummaryRequest) (*billingdomain.SummaryResponse, error) {
	if !usagedomain.ValidMonth(req.Month) {
		return nil, billingdomain.ErrInvalidMonth
	}

	// Without an explicit status filter the view covers managed
	// contracts only; drill-down by status still reaches DRAFT and
	// TERMINATED.
	listReq := contractdomain.ListRequest{Status: req.Status}
	if req.Status == nil {
		listReq.Managed = true
	}
	contracts, err := s.contractSvc.List(ctx, listReq)
	if err != nil {
		return nil, err
	}
	rooms, properties, err := s.loadLabels(ctx)
	if err != nil {
		return nil, err
	}
	records, err := s.usageSvc.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	catalog, err := s.catalogSvc.List(ctx)
	if err != nil {
		return nil, err
	}

	ledger := engine.NewLedger(records)
	overrides := s.buffer.Overrides()

	rows := make([]billingdomain.Row, 0, len(contracts))
	summaries := make([]engine.Summary, 0, len(contracts))
	canIssue := true

	for _, contract := range contracts {
		room := rooms[contract.RoomID.String()]
		propertyID, propertyName := "", ""
		roomName := ""
		if room != nil {
			roomName = room.Name
			propertyID = room.PropertyID.String()
			if property := properties[propertyID]; property != nil {
				propertyName = property.Name
			}
		}
		if req.PropertyID != "" && propertyID != req.PropertyID {
			continue
		}

		summary := engine.Summarize(contract, ledger, catalog, req.Month, overrides)
		if summary == nil {
			continue
		}

		alerts := append([]string{}, summary.Alerts...)
		if summary.Electricity.Prev == nil {
			alerts = append(alerts, billingdomain.AlertNoPreviousElectricity)
		}
		if summary.Water.Prev == nil {
			alerts = append(alerts, billingdomain.AlertNoPreviousWater)
		}

		hardError := summary.HasHardError()
		if hardError {
			canIssue = false
		}

		rows = append(rows, billingdomain.Row{
			ContractID:   contract.ID.String(),
			ContractCode: contract.Code,
			RoomID:       contract.RoomID.String(),
			RoomName:     roomName,
			PropertyID:   propertyID,
			PropertyName: propertyName,
			Status:       contract.Status,
			Summary:      *summary,
			Alerts:       alerts,
			HardError:    hardError,
			Warning:      !hardError && len(alerts) > 0,
		})
		summaries = append(summaries, *summary)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].PropertyName != rows[j].PropertyName {
			return rows[i].PropertyName < rows[j].PropertyName
		}
		if rows[i].RoomName != rows[j].RoomName {
			return rows[i].RoomName < rows[j].RoomName
		}
		return rows[i].ContractCode < rows[j].ContractCode
	})

	summariesTotal.Inc()
	return &billingdomain.SummaryResponse{
		Month:    req.Month,
		Rows:     rows,
		Totals:   engine.Aggregate(summaries),
		CanIssue: canIssue && len(rows) > 0,
	}, nil
}

func (s *Service) History(ctx context.Context, req billingdomain.HistoryRequest) ([]engine.HistoryPoint, error) {
	if !usagedomain.ValidMonth(req.Month) {
		return nil, billingdomain.ErrInvalidMonth
	}
	count := req.Count
	if count == 0 {
		count = defaultHistoryCount
	}
	if count < 0 || count > maxHistoryCount {
		return nil, billingdomain.ErrInvalidCount
	}

	contract, err := s.contractSvc.GetByID(ctx, req.ContractID)
	if err != nil {
		return nil, billingdomain.ErrInvalidContract
	}

	records, err := s.usageSvc.ListByContract(ctx, contract.ID)
	if err != nil {
		return nil, err
	}

	return engine.History(*contract, engine.NewLedger(records), req.Month, count), nil
}

func (s *Service) Months(ctx context.Context) ([]string, error) {
	return s.usageSvc.Months(ctx)
}

// OpenMonth backfills the month's usage records for every managed
// contract so the grid starts from carried-forward readings instead of
// blanks. DRAFT and TERMINATED contracts get no coverage.
func (s *Service) OpenMonth(ctx context.Context, month string) (int, error) {
	if !usagedomain.ValidMonth(month) {
		return 0, billingdomain.ErrInvalidMonth
	}

	contracts, err := s.contractSvc.List(ctx, contractdomain.ListRequest{Managed: true})
	if err != nil {
		return 0, err
	}

	created, err := s.usageSvc.EnsureMonthRecords(ctx, month, contracts)
	if err != nil {
		return 0, err
	}
	if created > 0 {
		s.log.Info("month opened", zap.String("month", month), zap.Int("records", created))
	}
	return created, nil
}

func (s *Service) StageEdit(ctx context.Context, req billingdomain.EditRequest) error {
	if !usagedomain.ValidMonth(req.Edit.Month) {
		return billingdomain.ErrInvalidMonth
	}
	contractID, err := contractdomain.ParseID(req.ContractID)
	if err != nil {
		return billingdomain.ErrInvalidContract
	}
	if _, err := s.contractSvc.GetByID(ctx, req.ContractID); err != nil {
		return billingdomain.ErrInvalidContract
	}

	s.buffer.Put(contractID, req.Edit)
	editsStagedTotal.Inc()
	return nil
}

func (s *Service) FlushEdits(ctx context.Context) (int, error) {
	return s.buffer.Flush(ctx)
}

func (s *Service) DiscardEdits(_ context.Context) {
	s.buffer.Discard()
}

// IssueInvoices commits any staged edits, recomputes the month, and
// refuses to issue while any row carries a hard error.
func (s *Service) IssueInvoices(ctx context.Context, req billingdomain.SummaryRequest) (*billingdomain.IssueResult, error) {
	if _, err := s.buffer.Flush(ctx); err != nil {
		return nil, err
	}

	response, err := s.Summarize(ctx, req)
	if err != nil {
		return nil, err
	}
	if !response.CanIssue {
		return nil, billingdomain.ErrIssueBlocked
	}

	invoicesIssuedTotal.Add(float64(len(response.Rows)))
	s.log.Info("invoices issued",
		zap.String("month", req.Month),
		zap.Int("contracts", len(response.Rows)),
		zap.Int64("total_amount", response.Totals.TotalAmount),
	)
	return &billingdomain.IssueResult{Month: req.Month, Contracts: len(response.Rows)}, nil
}

func (s *Service) loadLabels(ctx context.Context) (map[string]*roomdomain.Room, map[string]*propertydomain.Property, error) {
	rooms, err := s.roomSvc.List(ctx, roomdomain.ListFilter{})
	if err != nil {
		return nil, nil, err
	}
	properties, err := s.propertySvc.List(ctx)
	if err != nil {
		return nil, nil, err
	}

	roomByID := make(map[string]*roomdomain.Room, len(rooms))
	for i := range rooms {
		roomByID[rooms[i].ID.String()] = &rooms[i]
	}
	propertyByID := make(map[string]*propertydomain.Property, len(properties))
	for i := range properties {
		propertyByID[properties[i].ID.String()] = &properties[i]
	}
	return roomByID, propertyByID, nil
}
