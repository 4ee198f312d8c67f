package memory

import (
	"context"
	"sync"

	"ongfinanzas/internal/core"
	ports "ongfinanzas/internal/sheets"
)

// Store keeps the last written balance snapshot in memory. It stands in for
// the spreadsheet when none is configured and in tests.
type Store struct {
	mu     sync.Mutex
	last   ports.Snapshot
	writes int
	format *ports.Formatter
}

var _ ports.BalanceWriter = (*Store)(nil)

func New(format *ports.Formatter) *Store {
	if format == nil {
		format = ports.NewFormatter("en", "")
	}
	return &Store{format: format}
}

// WriteBalances replaces the stored snapshot.
func (s *Store) WriteBalances(_ context.Context, snapshot ports.Snapshot) error {
	rows := append([]core.RubroBalance(nil), snapshot.Rows...)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = ports.Snapshot{GeneratedAt: snapshot.GeneratedAt, Rows: rows}
	s.writes++
	return nil
}

// Last returns the most recent snapshot and how many writes happened so far.
func (s *Store) Last() (ports.Snapshot, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.writes
}

// Values renders the last snapshot exactly as the spreadsheet would receive it.
func (s *Store) Values() [][]any {
	snap, _ := s.Last()
	return s.format.Rows(snap)
}
