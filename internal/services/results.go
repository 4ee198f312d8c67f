package services

import (
	"context"
	"errors"
	"fmt"

	"ongfinanzas/internal/amqp"
	"ongfinanzas/internal/core"
	"ongfinanzas/internal/log"
)

// found lifts a single-row lookup into a Result.
func found[T any](v T, err error, notFound string) (core.Result[T], error) {
	if errors.Is(err, core.ErrNotFound) {
		return core.NotFound[T](notFound), nil
	}
	if err != nil {
		return core.Result[T]{}, err
	}
	return core.Success(v, "record found"), nil
}

// listed lifts a query into a Result. An empty set is reported as not found
// while still carrying an empty, non-nil slice.
func listed[T any](rows []T, err error, notFound string) (core.Result[[]T], error) {
	if err != nil {
		return core.Result[[]T]{}, err
	}
	if len(rows) == 0 {
		res := core.NotFound[[]T](notFound)
		res.Value = []T{}
		return res, nil
	}
	return core.Success(rows, fmt.Sprintf("%d records found", len(rows))), nil
}

// applied lifts a command outcome into a Result and, on success, publishes
// the event built from the stored row.
func applied[T any](ctx context.Context, pub EventPublisher, out core.Outcome[T], err error, event func(T) *amqp.LedgerEvent) (core.Result[T], error) {
	if err != nil {
		return core.Result[T]{}, err
	}
	if out.Success && event != nil {
		publish(ctx, pub, event(out.Row))
	}
	return core.FromOutcome(out), nil
}

// publish never fails the caller: the row is already committed.
func publish(ctx context.Context, pub EventPublisher, event *amqp.LedgerEvent) {
	logger := log.FromContext(ctx).WithComponent(log.ComponentLedger)
	if pub == nil {
		logger.DebugContext(ctx, "Event publisher not configured, skipping ledger event",
			log.FieldEntity, event.Entity, log.FieldAction, event.Action)
		return
	}
	if err := pub.PublishLedgerEvent(ctx, event); err != nil {
		fields := log.NewFields().WithEntity(event.Entity, event.EntityID).WithOperation("", event.Action)
		log.NewStructuredLogger(logger).LogError(ctx, "Failed to publish ledger event", err, "", fields)
	}
}

func checkRange(from, to core.Date) []core.FieldError {
	var errs []core.FieldError
	if from.IsZero() {
		errs = append(errs, core.FieldError{Field: "from", Message: "from is required"})
	}
	if to.IsZero() {
		errs = append(errs, core.FieldError{Field: "to", Message: "to is required"})
	}
	if errs == nil && from.After(to.Time) {
		errs = append(errs, core.FieldError{Field: "from", Message: "from must not be after to"})
	}
	return errs
}

func checkID(field string, id int64) []core.FieldError {
	if id <= 0 {
		return []core.FieldError{{Field: field, Message: field + " must be a positive identifier"}}
	}
	return nil
}
