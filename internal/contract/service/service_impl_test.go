package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	contractdomain "github.com/roomledger/roomledger/internal/contract/domain"
	"github.com/roomledger/roomledger/internal/contract/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*Service, *snowflake.Node) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&contractdomain.Contract{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := &Service{
		db:    db,
		log:   zap.NewNop(),
		repo:  repository.New(),
		genID: node,
	}
	return svc, node
}

func createRequest(node *snowflake.Node, code string) contractdomain.CreateRequest {
	return contractdomain.CreateRequest{
		Code:            code,
		RoomID:          node.Generate().String(),
		TenantID:        node.Generate().String(),
		StartDate:       "2025-07-01",
		EndDate:         "2026-07-01",
		Rent:            3500000,
		Deposit:         3500000,
		ElectricityRate: 3500,
		WaterRate:       18000,
	}
}

func TestCreate_DefaultsToDraft(t *testing.T) {
	svc, node := newTestService(t)

	contract, err := svc.Create(context.Background(), createRequest(node, "HD-AP-2025-01"))
	require.NoError(t, err)
	assert.Equal(t, contractdomain.StatusDraft, contract.Status)
	assert.Equal(t, "2025-07", contract.StartMonth())
}

func TestCreate_RejectsDuplicateCode(t *testing.T) {
	svc, node := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, createRequest(node, "HD-AP-2025-01"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, createRequest(node, "HD-AP-2025-01"))
	assert.ErrorIs(t, err, contractdomain.ErrCodeExists)
}

func TestCreate_Validation(t *testing.T) {
	svc, node := newTestService(t)
	ctx := context.Background()

	req := createRequest(node, "HD-X")
	req.Code = " "
	_, err := svc.Create(ctx, req)
	assert.ErrorIs(t, err, contractdomain.ErrInvalidCode)

	req = createRequest(node, "HD-X")
	req.RoomID = "not-a-number"
	_, err = svc.Create(ctx, req)
	assert.ErrorIs(t, err, contractdomain.ErrInvalidRoom)

	req = createRequest(node, "HD-X")
	req.StartDate = "2025-13-01"
	_, err = svc.Create(ctx, req)
	assert.ErrorIs(t, err, contractdomain.ErrInvalidDate)

	req = createRequest(node, "HD-X")
	req.ElectricityRate = -1
	_, err = svc.Create(ctx, req)
	assert.ErrorIs(t, err, contractdomain.ErrInvalidRate)
}

func TestChangeStatus_FollowsTransitions(t *testing.T) {
	svc, node := newTestService(t)
	ctx := context.Background()

	contract, err := svc.Create(ctx, createRequest(node, "HD-AP-2025-01"))
	require.NoError(t, err)

	active, err := svc.ChangeStatus(ctx, contract.ID.String(), contractdomain.StatusActive)
	require.NoError(t, err)
	assert.Equal(t, contractdomain.StatusActive, active.Status)
	assert.True(t, active.Status.Managed())

	ending, err := svc.ChangeStatus(ctx, contract.ID.String(), contractdomain.StatusEnding)
	require.NoError(t, err)
	assert.Equal(t, contractdomain.StatusEnding, ending.Status)

	terminated, err := svc.ChangeStatus(ctx, contract.ID.String(), contractdomain.StatusTerminated)
	require.NoError(t, err)
	assert.Equal(t, contractdomain.StatusTerminated, terminated.Status)
	assert.False(t, terminated.Status.Managed())
}

func TestChangeStatus_RejectsInvalidTransition(t *testing.T) {
	svc, node := newTestService(t)
	ctx := context.Background()

	contract, err := svc.Create(ctx, createRequest(node, "HD-AP-2025-01"))
	require.NoError(t, err)

	// DRAFT cannot go straight to ENDING.
	_, err = svc.ChangeStatus(ctx, contract.ID.String(), contractdomain.StatusEnding)
	assert.ErrorIs(t, err, contractdomain.ErrInvalidTransition)

	_, err = svc.ChangeStatus(ctx, contract.ID.String(), contractdomain.StatusTerminated)
	require.NoError(t, err)

	// TERMINATED is terminal.
	_, err = svc.ChangeStatus(ctx, contract.ID.String(), contractdomain.StatusActive)
	assert.ErrorIs(t, err, contractdomain.ErrInvalidTransition)
}

func TestList_Filters(t *testing.T) {
	svc, node := newTestService(t)
	ctx := context.Background()

	draft, err := svc.Create(ctx, createRequest(node, "HD-1"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, createRequest(node, "HD-2"))
	require.NoError(t, err)

	_, err = svc.ChangeStatus(ctx, draft.ID.String(), contractdomain.StatusActive)
	require.NoError(t, err)

	managed, err := svc.List(ctx, contractdomain.ListRequest{Managed: true})
	require.NoError(t, err)
	require.Len(t, managed, 1)
	assert.Equal(t, "HD-1", managed[0].Code)

	status := contractdomain.StatusDraft
	drafts, err := svc.List(ctx, contractdomain.ListRequest{Status: &status})
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "HD-2", drafts[0].Code)
}
