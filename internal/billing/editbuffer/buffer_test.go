package editbuffer

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/roomledger/roomledger/internal/billing/engine"
	contractdomain "github.com/roomledger/roomledger/internal/contract/domain"
	usagedomain "github.com/roomledger/roomledger/internal/usage/domain"
	"github.com/roomledger/roomledger/pkg/opt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type upsertCall struct {
	contractID snowflake.ID
	month      string
	patch      usagedomain.Patch
}

// usageFake records Upsert calls in place of the store-backed service.
type usageFake struct {
	mu    sync.Mutex
	calls []upsertCall
	err   error
}

func (f *usageFake) Upsert(_ context.Context, contractID snowflake.ID, month string, patch usagedomain.Patch) (*usagedomain.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.calls = append(f.calls, upsertCall{contractID: contractID, month: month, patch: patch})
	return &usagedomain.Record{ContractID: contractID, Month: month}, nil
}

func (f *usageFake) EnsureMonthRecords(context.Context, string, []contractdomain.Contract) (int, error) {
	return 0, nil
}
func (f *usageFake) ListByMonth(context.Context, string) ([]usagedomain.Record, error) {
	return nil, nil
}
func (f *usageFake) ListByContract(context.Context, snowflake.ID) ([]usagedomain.Record, error) {
	return nil, nil
}
func (f *usageFake) ListAll(context.Context) ([]usagedomain.Record, error) { return nil, nil }
func (f *usageFake) Months(context.Context) ([]string, error)             { return nil, nil }

func (f *usageFake) recorded() []upsertCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]upsertCall, len(f.calls))
	copy(out, f.calls)
	return out
}

func newTestBuffer(fake *usageFake, debounce time.Duration) *Buffer {
	return New(zap.NewNop(), fake, debounce)
}

func TestFlush_CommitsPendingEdits(t *testing.T) {
	fake := &usageFake{}
	buffer := newTestBuffer(fake, time.Hour)
	node, _ := snowflake.NewNode(1)
	contractID := node.Generate()

	buffer.Put(contractID, engine.Override{
		Month:              "2025-09",
		ElectricityCurrent: opt.Of(180.0),
	})

	committed, err := buffer.Flush(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, committed)

	calls := fake.recorded()
	require.Len(t, calls, 1)
	assert.Equal(t, contractID, calls[0].contractID)
	assert.Equal(t, "2025-09", calls[0].month)
	value, ok := calls[0].patch.ElectricityCurrent.Get()
	require.True(t, ok)
	assert.Equal(t, 180.0, value)

	assert.Nil(t, buffer.Overrides())
}

func TestPut_MergesLastWriterWins(t *testing.T) {
	fake := &usageFake{}
	buffer := newTestBuffer(fake, time.Hour)
	node, _ := snowflake.NewNode(1)
	contractID := node.Generate()

	buffer.Put(contractID, engine.Override{Month: "2025-09", ElectricityCurrent: opt.Of(170.0)})
	buffer.Put(contractID, engine.Override{Month: "2025-09", ElectricityCurrent: opt.Of(180.0)})
	buffer.Put(contractID, engine.Override{Month: "2025-09", WifiDevices: opt.Of(2)})

	overrides := buffer.Overrides()
	require.Len(t, overrides, 1)

	edit := overrides[contractID]
	value, ok := edit.ElectricityCurrent.Get()
	require.True(t, ok)
	assert.Equal(t, 180.0, value)
	devices, ok := edit.WifiDevices.Get()
	require.True(t, ok)
	assert.Equal(t, 2, devices)
}

func TestPut_MonthChangeFlushesFirst(t *testing.T) {
	fake := &usageFake{}
	buffer := newTestBuffer(fake, time.Hour)
	node, _ := snowflake.NewNode(1)
	contractID := node.Generate()

	buffer.Put(contractID, engine.Override{Month: "2025-08", WaterCurrent: opt.Of(50.0)})
	buffer.Put(contractID, engine.Override{Month: "2025-09", WaterCurrent: opt.Of(56.0)})

	calls := fake.recorded()
	require.Len(t, calls, 1)
	assert.Equal(t, "2025-08", calls[0].month)

	overrides := buffer.Overrides()
	require.Len(t, overrides, 1)
	assert.Equal(t, "2025-09", overrides[contractID].Month)
}

func TestDiscard_DropsPendingEdits(t *testing.T) {
	fake := &usageFake{}
	buffer := newTestBuffer(fake, time.Hour)
	node, _ := snowflake.NewNode(1)

	buffer.Put(node.Generate(), engine.Override{Month: "2025-09", OtherAmount: opt.Of(int64(100000))})
	buffer.Discard()

	committed, err := buffer.Flush(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, committed)
	assert.Empty(t, fake.recorded())
}

func TestDebounce_FlushesAfterQuietPeriod(t *testing.T) {
	fake := &usageFake{}
	buffer := newTestBuffer(fake, 20*time.Millisecond)
	node, _ := snowflake.NewNode(1)

	buffer.Put(node.Generate(), engine.Override{Month: "2025-09", ElectricityCurrent: opt.Of(181.0)})

	require.Eventually(t, func() bool {
		return len(fake.recorded()) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Nil(t, buffer.Overrides())
}

func TestFlush_FailureKeepsEditForRetry(t *testing.T) {
	fake := &usageFake{err: context.DeadlineExceeded}
	buffer := newTestBuffer(fake, time.Hour)
	node, _ := snowflake.NewNode(1)
	contractID := node.Generate()

	buffer.Put(contractID, engine.Override{Month: "2025-09", ElectricityCurrent: opt.Of(180.0)})

	committed, err := buffer.Flush(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0, committed)

	// The failed edit stays buffered and commits once the store recovers.
	fake.mu.Lock()
	fake.err = nil
	fake.mu.Unlock()

	committed, err = buffer.Flush(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, committed)
}

func TestFlush_EmptyBufferIsNoop(t *testing.T) {
	fake := &usageFake{}
	buffer := newTestBuffer(fake, time.Hour)

	committed, err := buffer.Flush(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, committed)
}
