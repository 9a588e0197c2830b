package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	contractdomain "github.com/roomledger/roomledger/internal/contract/domain"
	usagedomain "github.com/roomledger/roomledger/internal/usage/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  usagedomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  usagedomain.Repository
	genID *snowflake.Node
}

func New(p Params) usagedomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("usage.service"),
		repo:  p.Repo,
		genID: p.GenID,
	}
}

// Upsert merges a sparse patch into the (contract, month) record,
// creating the record when it does not exist yet.
func (s *Service) Upsert(ctx context.Context, contractID snowflake.ID, month string, patch usagedomain.Patch) (*usagedomain.Record, error) {
	if contractID == 0 {
		return nil, usagedomain.ErrInvalidContract
	}
	if !usagedomain.ValidMonth(month) {
		return nil, usagedomain.ErrInvalidMonth
	}

	record, err := s.repo.Find(ctx, s.db, contractID, month)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created := record == nil
	if created {
		record = &usagedomain.Record{
			ID:         s.genID.Generate(),
			ContractID: contractID,
			Month:      month,
			CreatedAt:  now,
		}
	}

	applyPatch(record, patch)
	record.UpdatedAt = now

	if created {
		err = s.repo.Insert(ctx, s.db, record)
	} else {
		err = s.repo.Update(ctx, s.db, record)
	}
	if err != nil {
		return nil, err
	}

	return record, nil
}

// EnsureMonthRecords opens a month for the given contracts by carrying
// forward each contract's most recent record, or its meter baselines
// when no history exists. The operation is whole-month-or-nothing: when
// any record already exists for the month it does nothing, even if some
// contracts are missing coverage.
func (s *Service) EnsureMonthRecords(ctx context.Context, month string, contracts []contractdomain.Contract) (int, error) {
	if !usagedomain.ValidMonth(month) {
		return 0, usagedomain.ErrInvalidMonth
	}
	if len(contracts) == 0 {
		return 0, nil
	}

	exists, err := s.repo.AnyInMonth(ctx, s.db, month)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, nil
	}

	now := time.Now().UTC()
	records := make([]*usagedomain.Record, 0, len(contracts))
	for i := range contracts {
		contract := contracts[i]
		previous, err := s.repo.LatestForContract(ctx, s.db, contract.ID)
		if err != nil {
			return 0, err
		}
		records = append(records, s.defaultRecord(contract, previous, month, now))
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.InsertBatch(ctx, tx, records)
	})
	if err != nil {
		return 0, err
	}

	s.log.Info("month opened", zap.String("month", month), zap.Int("records", len(records)))
	return len(records), nil
}

func (s *Service) ListByMonth(ctx context.Context, month string) ([]usagedomain.Record, error) {
	if !usagedomain.ValidMonth(month) {
		return nil, usagedomain.ErrInvalidMonth
	}
	return s.repo.ListByMonth(ctx, s.db, month)
}

func (s *Service) ListByContract(ctx context.Context, contractID snowflake.ID) ([]usagedomain.Record, error) {
	if contractID == 0 {
		return nil, usagedomain.ErrInvalidContract
	}
	return s.repo.ListByContract(ctx, s.db, contractID)
}

func (s *Service) ListAll(ctx context.Context) ([]usagedomain.Record, error) {
	return s.repo.List(ctx, s.db)
}

func (s *Service) Months(ctx context.Context) ([]string, error) {
	return s.repo.Months(ctx, s.db)
}

func (s *Service) defaultRecord(contract contractdomain.Contract, previous *usagedomain.Record, month string, now time.Time) *usagedomain.Record {
	record := &usagedomain.Record{
		ID:         s.genID.Generate(),
		ContractID: contract.ID,
		Month:      month,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if previous != nil {
		record.ElectricityCurrent = copyFloat(previous.ElectricityCurrent)
		record.WaterCurrent = copyFloat(previous.WaterCurrent)
		record.WifiDevices = previous.WifiDevices
		record.TrashIncluded = previous.TrashIncluded
		record.OtherAmount = previous.OtherAmount
		record.OtherNote = previous.OtherNote
	} else {
		record.ElectricityCurrent = copyFloat(contract.ElectricityBaseline)
		record.WaterCurrent = copyFloat(contract.WaterBaseline)
		if contract.HasFeeLabel("wifi") {
			record.WifiDevices = 1
		}
		record.TrashIncluded = contract.HasFeeLabel("rác")
	}

	if contract.Status == contractdomain.StatusTerminated {
		record.WifiDevices = 0
	}

	return record
}

func applyPatch(record *usagedomain.Record, patch usagedomain.Patch) {
	patch.ElectricityCurrent.Apply(&record.ElectricityCurrent)
	patch.WaterCurrent.Apply(&record.WaterCurrent)
	patch.WifiDevices.ApplyValue(&record.WifiDevices, 0)
	if record.WifiDevices < 0 {
		record.WifiDevices = 0
	}
	patch.TrashIncluded.ApplyValue(&record.TrashIncluded, false)
	patch.OtherAmount.ApplyValue(&record.OtherAmount, 0)
	patch.OtherNote.ApplyValue(&record.OtherNote, "")
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
