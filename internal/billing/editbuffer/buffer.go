// Package editbuffer batches in-flight billing grid edits. Edits are
// buffered per contract, merged last-writer-wins per field, and
// committed to the usage ledger in one step after a debounce delay, on
// explicit save, or on shutdown. Reads of the billing view merge the
// buffer over committed state so previews always reflect what is being
// typed.
package editbuffer

import (
	"context"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/roomledger/roomledger/internal/billing/engine"
	usagedomain "github.com/roomledger/roomledger/internal/usage/domain"
	"go.uber.org/zap"
)

type Buffer struct {
	mu       sync.Mutex
	log      *zap.Logger
	usageSvc usagedomain.Service
	debounce time.Duration

	pending map[snowflake.ID]engine.Override
	timer   *time.Timer
}

func New(log *zap.Logger, usageSvc usagedomain.Service, debounce time.Duration) *Buffer {
	return &Buffer{
		log:      log.Named("billing.editbuffer"),
		usageSvc: usageSvc,
		debounce: debounce,
		pending:  make(map[snowflake.ID]engine.Override),
	}
}

// Put merges an edit into the buffer and re-arms the debounce timer.
// An edit for a different month than the contract's buffered entry
// flushes the buffer first so commits never mix months.
func (b *Buffer) Put(contractID snowflake.ID, edit engine.Override) {
	if contractID == 0 || edit.Month == "" {
		return
	}

	b.mu.Lock()
	if existing, ok := b.pending[contractID]; ok && existing.Month != edit.Month {
		b.mu.Unlock()
		_, _ = b.Flush(context.Background())
		b.mu.Lock()
	}

	b.pending[contractID] = merge(b.pending[contractID], edit)

	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(b.debounce, func() {
		if _, err := b.Flush(context.Background()); err != nil {
			b.log.Warn("debounced flush failed", zap.Error(err))
		}
	})
	b.mu.Unlock()
}

// Flush commits every pending edit to the ledger and clears the
// buffer. Flushing an empty buffer is a no-op.
func (b *Buffer) Flush(ctx context.Context) (int, error) {
	b.mu.Lock()
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	if len(b.pending) == 0 {
		b.mu.Unlock()
		return 0, nil
	}
	batch := b.pending
	b.pending = make(map[snowflake.ID]engine.Override)
	b.mu.Unlock()

	committed := 0
	for contractID, edit := range batch {
		patch := toPatch(edit)
		if patch.Empty() {
			continue
		}
		if _, err := b.usageSvc.Upsert(ctx, contractID, edit.Month, patch); err != nil {
			// Put the failed entry back so a later flush retries it.
			b.restore(contractID, edit)
			return committed, err
		}
		committed++
	}

	if committed > 0 {
		b.log.Debug("edits committed", zap.Int("contracts", committed))
	}
	return committed, nil
}

// Discard drops all pending edits without committing them.
func (b *Buffer) Discard() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.pending = make(map[snowflake.ID]engine.Override)
}

// Overrides returns a snapshot of the buffer for override-aware reads.
func (b *Buffer) Overrides() engine.Overrides {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.pending) == 0 {
		return nil
	}
	out := make(engine.Overrides, len(b.pending))
	for id, edit := range b.pending {
		out[id] = edit
	}
	return out
}

func (b *Buffer) restore(contractID snowflake.ID, edit engine.Override) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if existing, ok := b.pending[contractID]; ok && existing.Month == edit.Month {
		// A newer edit arrived while flushing; it wins.
		b.pending[contractID] = merge(edit, existing)
		return
	}
	b.pending[contractID] = edit
}

func merge(base, incoming engine.Override) engine.Override {
	out := base
	out.Month = incoming.Month
	if incoming.ElectricityCurrent.Present() {
		out.ElectricityCurrent = incoming.ElectricityCurrent
	}
	if incoming.WaterCurrent.Present() {
		out.WaterCurrent = incoming.WaterCurrent
	}
	if incoming.WifiDevices.Present() {
		out.WifiDevices = incoming.WifiDevices
	}
	if incoming.TrashIncluded.Present() {
		out.TrashIncluded = incoming.TrashIncluded
	}
	if incoming.OtherAmount.Present() {
		out.OtherAmount = incoming.OtherAmount
	}
	if incoming.OtherNote.Present() {
		out.OtherNote = incoming.OtherNote
	}
	return out
}

func toPatch(edit engine.Override) usagedomain.Patch {
	return usagedomain.Patch{
		ElectricityCurrent: edit.ElectricityCurrent,
		WaterCurrent:       edit.WaterCurrent,
		WifiDevices:        edit.WifiDevices,
		TrashIncluded:      edit.TrashIncluded,
		OtherAmount:        edit.OtherAmount,
		OtherNote:          edit.OtherNote,
	}
}
