package sheets

import (
	"context"
	"time"

	"ongfinanzas/internal/core"
)

// Snapshot is the full balance table at one instant.
type Snapshot struct {
	GeneratedAt time.Time
	Rows        []core.RubroBalance
}

// Ports for outbound adapters.
type (
	// BalanceWriter replaces the exported balance table with snapshot.
	BalanceWriter interface {
		WriteBalances(ctx context.Context, snapshot Snapshot) error
	}
)

// Header is the first row of every exported balance table.
var Header = []string{"Project Code", "Project", "Rubro Code", "Rubro", "Donations", "Purchase Orders", "Balance"}
