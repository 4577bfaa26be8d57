// Package reference issues day-scoped sequential reference numbers of the
// form PREFIX-YYYYMMDD-NNNN. Sequences restart at 1 on each calendar day
// and are strictly increasing within a day, even under concurrent callers.
package reference

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/formkiosk/internal/timex"
)

// CounterStore persists the generator state. Next advances the counter
// for the given date ("20060102" form) and returns the sequence to issue:
// 1 when date differs from the persisted date, last sequence + 1 otherwise.
// The advance must be atomic, so a crash can never reissue a sequence or
// leave the date and sequence from different days.
type CounterStore interface {
	Next(ctx context.Context, date string) (int, error)
}

// Generator issues reference numbers. Safe for concurrent use.
type Generator struct {
	mu     sync.Mutex
	prefix string
	store  CounterStore
	clock  timex.Clock
}

func NewGenerator(prefix string, store CounterStore, clock timex.Clock) *Generator {
	return &Generator{prefix: prefix, store: store, clock: clock}
}

// Next returns the next reference number. Calls are serialized; no two
// calls return the same value. An error means the counter store failed
// and nothing was issued.
func (g *Generator) Next(ctx context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	today := g.clock.Now().Format("20060102")

	seq, err := g.store.Next(ctx, today)
	if err != nil {
		return "", fmt.Errorf("advancing reference counter: %w", err)
	}

	return fmt.Sprintf("%s-%s-%04d", g.prefix, today, seq), nil
}
