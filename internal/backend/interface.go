package backend

import (
	"context"

	"ongfinanzas/internal/amqp"
	"ongfinanzas/internal/services"
	"ongfinanzas/internal/sheets"
	"ongfinanzas/internal/storage"
)

// Services bundles the ledger services wired to one store and publisher.
type Services struct {
	Projects       *services.ProjectService
	Rubros         *services.RubroService
	Donations      *services.DonationService
	PurchaseOrders *services.PurchaseOrderService
	Balances       *services.BalanceService
	Dashboard      *services.DashboardService
}

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the opened store, the optional event client and the
// services built on top of them.
type BackendResult struct {
	Store    *storage.Store
	Events   *amqp.Client // nil when AMQP is not configured or unreachable
	Services Services
	Cleanup  CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	// CreateBackend opens the database and the optional event publisher
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)

	// CreateBalanceWriter returns the Google Sheets writer, or the in-memory
	// writer when no spreadsheet is configured
	CreateBalanceWriter(ctx context.Context, config Config) (sheets.BalanceWriter, error)
}

// Config holds configuration for backend creation
type Config struct {
	// Backend type
	Type BackendType

	// Database
	SQLiteDBPath string
	DatabaseURL  string
	MaxOpenConns int

	// Ledger events (optional)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Balance export
	GoogleSpreadsheetID    string
	GoogleBalanceSheetName string
	ReportLocale           string
	CurrencySymbol         string
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend   BackendType = "sqlite"
	PostgresBackend BackendType = "postgres"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, PostgresBackend:
		return true
	default:
		return false
	}
}

// Dialect maps the backend type to the storage dialect.
func (bt BackendType) Dialect() storage.Dialect {
	if bt == PostgresBackend {
		return storage.Postgres
	}
	return storage.SQLite
}
