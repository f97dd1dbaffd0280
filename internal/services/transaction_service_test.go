package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"vaulto/internal/core"
)

type fakeTransactionStore struct {
	created []core.Transaction
	deleted []int64
	nextID  int64
}

func (s *fakeTransactionStore) CreateTransaction(_ context.Context, t core.Transaction) (core.Transaction, error) {
	s.nextID++
	t.ID = s.nextID
	s.created = append(s.created, t)
	return t, nil
}

func (s *fakeTransactionStore) SoftDeleteTransaction(_ context.Context, id, _ int64) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *fakeTransactionStore) ListTransactions(_ context.Context, _ int64, _ core.Window) ([]core.Transaction, error) {
	return s.created, nil
}

func TestTransactionServiceCreate(t *testing.T) {
	store := &fakeTransactionStore{}
	events := &fakePublisher{}
	svc := NewTransactionService(store, events)

	created, err := svc.Create(context.Background(), core.Transaction{
		UserID:     1,
		CategoryID: 2,
		Type:       core.Expense,
		Amount:     core.Money{Cents: 450},
		Note:       "espresso",
		Date:       time.Now(),
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if created.ID == 0 {
		t.Error("created transaction has no ID")
	}
	if len(events.events) != 1 || events.events[0] != KindTransactionCreated {
		t.Errorf("events = %v, want one created event", events.events)
	}
}

func TestTransactionServiceCreateRejectsInvalid(t *testing.T) {
	store := &fakeTransactionStore{}
	svc := NewTransactionService(store, nil)

	_, err := svc.Create(context.Background(), core.Transaction{
		UserID:     1,
		CategoryID: 2,
		Type:       core.Expense,
		Amount:     core.Money{Cents: -100},
	})
	if !errors.Is(err, core.ErrInvalidAmount) {
		t.Errorf("Create() error = %v, want ErrInvalidAmount", err)
	}
	if len(store.created) != 0 {
		t.Error("invalid transaction reached the store")
	}
}

func TestTransactionServiceCreateSurvivesPublishFailure(t *testing.T) {
	store := &fakeTransactionStore{}
	events := &fakePublisher{err: errors.New("broker down")}
	svc := NewTransactionService(store, events)

	_, err := svc.Create(context.Background(), core.Transaction{
		UserID:     1,
		CategoryID: 2,
		Type:       core.Income,
		Amount:     core.Money{Cents: 100000},
		Date:       time.Now(),
	})
	if err != nil {
		t.Fatalf("Create() error = %v, want nil despite publish failure", err)
	}
	if len(store.created) != 1 {
		t.Error("transaction was not persisted")
	}
}

func TestTransactionServiceDelete(t *testing.T) {
	store := &fakeTransactionStore{}
	events := &fakePublisher{}
	svc := NewTransactionService(store, events)

	if err := svc.Delete(context.Background(), 42, 1); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if len(store.deleted) != 1 || store.deleted[0] != 42 {
		t.Errorf("deleted = %v, want [42]", store.deleted)
	}
	if len(events.events) != 1 || events.events[0] != KindTransactionDeleted {
		t.Errorf("events = %v, want one deleted event", events.events)
	}
}
