package services

import (
	"context"
	"fmt"
	"log/slog"

	"vaulto/internal/core"
	"vaulto/internal/log"
)

// KindTransactionDeleted mirrors the amqp package constant; see
// KindTransactionCreated.
const KindTransactionDeleted = "transaction_deleted"

// TransactionStore is the repository slice backing direct ledger writes.
type TransactionStore interface {
	CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
	SoftDeleteTransaction(ctx context.Context, id, userID int64) error
	ListTransactions(ctx context.Context, userID int64, w core.Window) ([]core.Transaction, error)
}

// TransactionService creates and soft-deletes ledger rows and announces each
// change on the event queue.
type TransactionService struct {
	store  TransactionStore
	events LedgerEventPublisher // optional, nil disables publishing
}

func NewTransactionService(store TransactionStore, events LedgerEventPublisher) *TransactionService {
	return &TransactionService{
		store:  store,
		events: events,
	}
}

// Create validates and persists a transaction, then publishes its event.
// A publish failure never fails the request; the row is already committed.
func (s *TransactionService) Create(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, fmt.Errorf("validate transaction: %w", err)
	}

	created, err := s.store.CreateTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	s.publish(ctx, KindTransactionCreated, created.ID)
	return created, nil
}

// Delete soft-deletes the owner's transaction. The tombstone stays in the
// database; aggregates stop seeing it immediately.
func (s *TransactionService) Delete(ctx context.Context, id, userID int64) error {
	if err := s.store.SoftDeleteTransaction(ctx, id, userID); err != nil {
		return fmt.Errorf("soft delete transaction: %w", err)
	}

	s.publish(ctx, KindTransactionDeleted, id)
	return nil
}

// List returns the owner's non-deleted transactions inside the window.
func (s *TransactionService) List(ctx context.Context, userID int64, w core.Window) ([]core.Transaction, error) {
	return s.store.ListTransactions(ctx, userID, w)
}

func (s *TransactionService) publish(ctx context.Context, kind string, id int64) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishLedgerEvent(ctx, kind, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"kind", kind,
			log.FieldTransactionID, id,
			log.FieldError, err)
	}
}
