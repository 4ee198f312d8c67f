package backend

import (
	"context"
	"errors"
	"fmt"

	"ongfinanzas/internal/amqp"
	"ongfinanzas/internal/log"
	"ongfinanzas/internal/services"
	"ongfinanzas/internal/sheets"
	gsheet "ongfinanzas/internal/sheets/google"
	"ongfinanzas/internal/sheets/memory"
	"ongfinanzas/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

// NewServices wires every ledger service to store. A nil publisher disables
// ledger events.
func NewServices(store *storage.Store, publisher *amqp.Client) Services {
	// Keep the interface nil rather than a typed nil pointer
	var events services.EventPublisher
	if publisher != nil {
		events = publisher
	}
	return Services{
		Projects:       services.NewProjectService(store, events),
		Rubros:         services.NewRubroService(store, events),
		Donations:      services.NewDonationService(store, events),
		PurchaseOrders: services.NewPurchaseOrderService(store, events),
		Balances:       services.NewBalanceService(store),
		Dashboard:      services.NewDashboardService(store),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	store, err := storage.Open(ctx, storage.Config{
		Dialect:      config.Type.Dialect(),
		SQLitePath:   config.SQLiteDBPath,
		DatabaseURL:  config.DatabaseURL,
		MaxOpenConns: config.MaxOpenConns,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s store: %w", config.Type, err)
	}

	// Initialize AMQP client (optional)
	var amqpClient *amqp.Client
	if config.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without ledger events", log.FieldError, err)
			amqpClient = nil
		} else {
			f.logger.Info("Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	}

	f.logger.Info("Initialized backend",
		"type", config.Type,
		"events_enabled", amqpClient != nil)

	return &BackendResult{
		Store:    store,
		Events:   amqpClient,
		Services: NewServices(store, amqpClient),
		Cleanup: func() error {
			var errs []error
			if amqpClient != nil {
				errs = append(errs, amqpClient.Close())
			}
			errs = append(errs, store.Close())
			return errors.Join(errs...)
		},
	}, nil
}

// CreateBalanceWriter implements Factory.CreateBalanceWriter
func (f *DefaultFactory) CreateBalanceWriter(ctx context.Context, config Config) (sheets.BalanceWriter, error) {
	format := sheets.NewFormatter(config.ReportLocale, config.CurrencySymbol)

	if config.GoogleSpreadsheetID == "" {
		f.logger.Info("No spreadsheet configured, balances kept in memory")
		return memory.New(format), nil
	}

	cli, err := gsheet.New(ctx, gsheet.Options{
		SpreadsheetID: config.GoogleSpreadsheetID,
		SheetName:     config.GoogleBalanceSheetName,
		Formatter:     format,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}

	f.logger.Info("Initialized Google Sheets balance writer",
		"sheet", config.GoogleBalanceSheetName)
	return cli, nil
}
