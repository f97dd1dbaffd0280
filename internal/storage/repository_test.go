package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"vaulto/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func seedUserAndCategory(t *testing.T, repo *SQLiteRepository) (int64, int64) {
	t.Helper()
	ctx := context.Background()

	user, err := repo.CreateUser(ctx, core.User{Email: "t@example.com", Name: "Tester", Currency: "EUR", Timezone: "UTC"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	category, err := repo.CreateCategory(ctx, core.Category{UserID: &user.ID, Name: "Food", Type: core.Expense, Icon: "🍝"})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	return user.ID, category.ID
}

func mustCreateTransaction(t *testing.T, repo *SQLiteRepository, tx core.Transaction) core.Transaction {
	t.Helper()
	created, err := repo.CreateTransaction(context.Background(), tx)
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	return created
}

func TestUserRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.CreateUser(ctx, core.User{Email: "t@example.com", Name: "Tester", Currency: "EUR", Timezone: "UTC"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	got, err := repo.GetUser(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Email != "t@example.com" || got.Name != "Tester" || got.CreatedAt.IsZero() {
		t.Errorf("round-tripped user = %+v", got)
	}

	if _, err := repo.GetUser(ctx, created.ID+1); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("GetUser(unknown) = %v, want ErrNotFound", err)
	}
}

func TestTransactionLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	userID, categoryID := seedUserAndCategory(t, repo)

	date := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	created := mustCreateTransaction(t, repo, core.Transaction{
		UserID:     userID,
		CategoryID: categoryID,
		Type:       core.Expense,
		Amount:     core.Money{Cents: 1250},
		Note:       "lunch",
		Date:       date,
	})
	if created.ID == 0 {
		t.Fatal("created transaction has no ID")
	}

	got, err := repo.GetTransaction(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetTransaction: %v", err)
	}
	if got.Amount.Cents != 1250 || got.Note != "lunch" || !got.Date.Equal(date) {
		t.Errorf("round-tripped transaction = %+v", got)
	}

	if err := repo.SoftDeleteTransaction(ctx, created.ID, userID); err != nil {
		t.Fatalf("SoftDeleteTransaction: %v", err)
	}

	// The tombstone is still readable directly but drops out of listings.
	got, err = repo.GetTransaction(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetTransaction after delete: %v", err)
	}
	if !got.Deleted {
		t.Error("Deleted = false after soft delete")
	}

	list, err := repo.ListTransactions(ctx, userID, core.AllTime())
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("listed %d transactions after delete, want 0", len(list))
	}

	// Deleting again reports not found.
	if err := repo.SoftDeleteTransaction(ctx, created.ID, userID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("second delete = %v, want ErrNotFound", err)
	}
}

func TestSoftDeleteRequiresOwner(t *testing.T) {
	repo := newTestRepo(t)
	userID, categoryID := seedUserAndCategory(t, repo)

	created := mustCreateTransaction(t, repo, core.Transaction{
		UserID:     userID,
		CategoryID: categoryID,
		Type:       core.Expense,
		Amount:     core.Money{Cents: 100},
		Date:       time.Now(),
	})

	err := repo.SoftDeleteTransaction(context.Background(), created.ID, userID+1)
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("delete by stranger = %v, want ErrNotFound", err)
	}
}

func TestSumByTypeRespectsWindowAndTombstones(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	userID, categoryID := seedUserAndCategory(t, repo)

	march := time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)
	april := time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC)

	mustCreateTransaction(t, repo, core.Transaction{UserID: userID, CategoryID: categoryID, Type: core.Income, Amount: core.Money{Cents: 50000}, Date: march})
	mustCreateTransaction(t, repo, core.Transaction{UserID: userID, CategoryID: categoryID, Type: core.Expense, Amount: core.Money{Cents: 12000}, Date: march})
	mustCreateTransaction(t, repo, core.Transaction{UserID: userID, CategoryID: categoryID, Type: core.Expense, Amount: core.Money{Cents: 7000}, Date: april})

	deleted := mustCreateTransaction(t, repo, core.Transaction{UserID: userID, CategoryID: categoryID, Type: core.Expense, Amount: core.Money{Cents: 99999}, Date: march})
	if err := repo.SoftDeleteTransaction(ctx, deleted.ID, userID); err != nil {
		t.Fatalf("SoftDeleteTransaction: %v", err)
	}

	marchWindow := core.Window{
		Start: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 3, 31, 23, 59, 59, 0, time.UTC),
	}
	sums, err := repo.SumByType(ctx, userID, marchWindow)
	if err != nil {
		t.Fatalf("SumByType: %v", err)
	}
	if sums[core.Income] != 50000 {
		t.Errorf("Income = %d, want 50000", sums[core.Income])
	}
	if sums[core.Expense] != 12000 {
		t.Errorf("Expense = %d, want 12000 (April row and tombstone excluded)", sums[core.Expense])
	}

	all, err := repo.SumByType(ctx, userID, core.AllTime())
	if err != nil {
		t.Fatalf("SumByType all time: %v", err)
	}
	if all[core.Expense] != 19000 {
		t.Errorf("all-time Expense = %d, want 19000", all[core.Expense])
	}
}

func TestExpenseTotalsByCategoryGroupsByIdentity(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	userID, foodID := seedUserAndCategory(t, repo)

	// Second category with the same display name; totals must stay separate.
	food2, err := repo.CreateCategory(ctx, core.Category{UserID: &userID, Name: "Food", Type: core.Expense})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}

	now := time.Now().UTC()
	mustCreateTransaction(t, repo, core.Transaction{UserID: userID, CategoryID: foodID, Type: core.Expense, Amount: core.Money{Cents: 6000}, Date: now})
	mustCreateTransaction(t, repo, core.Transaction{UserID: userID, CategoryID: foodID, Type: core.Expense, Amount: core.Money{Cents: 1000}, Date: now})
	mustCreateTransaction(t, repo, core.Transaction{UserID: userID, CategoryID: food2.ID, Type: core.Expense, Amount: core.Money{Cents: 4000}, Date: now})
	// Income never shows up in the expense breakdown.
	mustCreateTransaction(t, repo, core.Transaction{UserID: userID, CategoryID: foodID, Type: core.Income, Amount: core.Money{Cents: 88888}, Date: now})

	totals, err := repo.ExpenseTotalsByCategory(ctx, userID, core.AllTime())
	if err != nil {
		t.Fatalf("ExpenseTotalsByCategory: %v", err)
	}
	if len(totals) != 2 {
		t.Fatalf("got %d totals, want 2 distinct categories", len(totals))
	}
	if totals[0].CategoryID != foodID || totals[0].Amount.Cents != 7000 {
		t.Errorf("totals[0] = %+v, want category %d with 7000", totals[0], foodID)
	}
	if totals[1].CategoryID != food2.ID || totals[1].Amount.Cents != 4000 {
		t.Errorf("totals[1] = %+v, want category %d with 4000", totals[1], food2.ID)
	}
}

func TestMaterializeTaskClaim(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	userID, categoryID := seedUserAndCategory(t, repo)

	template := mustCreateTransaction(t, repo, core.Transaction{
		UserID:     userID,
		CategoryID: categoryID,
		Type:       core.Expense,
		Amount:     core.Money{Cents: 120000},
		Note:       "Rent",
		Date:       time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	})

	nextRun := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	task, err := repo.CreateRecurringTask(ctx, core.RecurringTask{
		UserID:                userID,
		Frequency:             core.Monthly,
		NextRun:               nextRun,
		TemplateTransactionID: template.ID,
	})
	if err != nil {
		t.Fatalf("CreateRecurringTask: %v", err)
	}

	now := time.Date(2025, 3, 2, 6, 0, 0, 0, time.UTC)
	newTx := core.Transaction{UserID: userID, CategoryID: categoryID, Type: core.Expense, Amount: core.Money{Cents: 120000}, Note: "Recurring: Rent", Date: now}

	created, err := repo.MaterializeTask(ctx, task, newTx, now.Add(30*24*time.Hour))
	if err != nil {
		t.Fatalf("MaterializeTask: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("materialized transaction has no ID")
	}

	// A second worker still holding the stale NextRun loses the claim and
	// commits nothing.
	_, err = repo.MaterializeTask(ctx, task, newTx, now.Add(30*24*time.Hour))
	if !errors.Is(err, core.ErrTaskClaimed) {
		t.Fatalf("second MaterializeTask = %v, want ErrTaskClaimed", err)
	}

	list, err := repo.ListTransactions(ctx, userID, core.AllTime())
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(list) != 2 { // template + one materialized row
		t.Errorf("ledger has %d rows, want 2", len(list))
	}

	due, err := repo.ListDueTasks(ctx, now)
	if err != nil {
		t.Fatalf("ListDueTasks: %v", err)
	}
	if len(due) != 0 {
		t.Errorf("task still due after materialization: %+v", due)
	}
}

func TestListDueTasksBoundary(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	userID, categoryID := seedUserAndCategory(t, repo)

	template := mustCreateTransaction(t, repo, core.Transaction{
		UserID: userID, CategoryID: categoryID, Type: core.Expense,
		Amount: core.Money{Cents: 100}, Date: time.Now(),
	})

	now := time.Date(2025, 3, 17, 6, 0, 0, 0, time.UTC)
	for _, rt := range []core.RecurringTask{
		{UserID: userID, Frequency: core.Daily, NextRun: now, TemplateTransactionID: template.ID},
		{UserID: userID, Frequency: core.Daily, NextRun: now.Add(-time.Hour), TemplateTransactionID: template.ID},
		{UserID: userID, Frequency: core.Daily, NextRun: now.Add(time.Second), TemplateTransactionID: template.ID},
	} {
		if _, err := repo.CreateRecurringTask(ctx, rt); err != nil {
			t.Fatalf("CreateRecurringTask: %v", err)
		}
	}

	due, err := repo.ListDueTasks(ctx, now)
	if err != nil {
		t.Fatalf("ListDueTasks: %v", err)
	}
	if len(due) != 2 {
		t.Errorf("got %d due tasks, want 2 (exactly-at-now included, future excluded)", len(due))
	}
}

func TestGetTemplateMissingOrDeleted(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	userID, categoryID := seedUserAndCategory(t, repo)

	template := mustCreateTransaction(t, repo, core.Transaction{
		UserID: userID, CategoryID: categoryID, Type: core.Expense,
		Amount: core.Money{Cents: 100}, Date: time.Now(),
	})
	task, err := repo.CreateRecurringTask(ctx, core.RecurringTask{
		UserID: userID, Frequency: core.Daily, NextRun: time.Now(), TemplateTransactionID: template.ID,
	})
	if err != nil {
		t.Fatalf("CreateRecurringTask: %v", err)
	}

	got, err := repo.GetTemplate(ctx, task.ID)
	if err != nil || got == nil {
		t.Fatalf("GetTemplate = (%v, %v), want template", got, err)
	}

	// Soft-deleting the template makes the task inert: (nil, nil).
	if err := repo.SoftDeleteTransaction(ctx, template.ID, userID); err != nil {
		t.Fatalf("SoftDeleteTransaction: %v", err)
	}
	got, err = repo.GetTemplate(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetTemplate after delete: %v", err)
	}
	if got != nil {
		t.Errorf("GetTemplate after delete = %+v, want nil", got)
	}

	got, err = repo.GetTemplate(ctx, task.ID+1000)
	if err != nil || got != nil {
		t.Errorf("GetTemplate for unknown task = (%v, %v), want (nil, nil)", got, err)
	}
}

func TestSyncStatusLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	userID, categoryID := seedUserAndCategory(t, repo)

	first := mustCreateTransaction(t, repo, core.Transaction{
		UserID: userID, CategoryID: categoryID, Type: core.Expense,
		Amount: core.Money{Cents: 100}, Date: time.Now(),
	})
	second := mustCreateTransaction(t, repo, core.Transaction{
		UserID: userID, CategoryID: categoryID, Type: core.Expense,
		Amount: core.Money{Cents: 200}, Date: time.Now(),
	})

	pending, err := repo.GetPendingSyncTransactions(ctx, 10)
	if err != nil {
		t.Fatalf("GetPendingSyncTransactions: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("got %d pending, want 2", len(pending))
	}
	if pending[0].ID != first.ID {
		t.Errorf("pending[0].ID = %d, want oldest first (%d)", pending[0].ID, first.ID)
	}

	if err := repo.MarkSynced(ctx, first.ID); err != nil {
		t.Fatalf("MarkSynced: %v", err)
	}
	if err := repo.MarkSyncError(ctx, second.ID); err != nil {
		t.Fatalf("MarkSyncError: %v", err)
	}

	pending, err = repo.GetPendingSyncTransactions(ctx, 10)
	if err != nil {
		t.Fatalf("GetPendingSyncTransactions: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("got %d pending after marking, want 0", len(pending))
	}
}

func TestCategoryOwnership(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	userID, _ := seedUserAndCategory(t, repo)

	categories, err := repo.ListCategories(ctx, userID)
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}

	// Seeded system categories plus the user's own.
	var ownCount, systemCount int
	for _, c := range categories {
		if c.UserID == nil {
			systemCount++
		} else if *c.UserID == userID {
			ownCount++
		}
	}
	if ownCount != 1 {
		t.Errorf("own categories = %d, want 1", ownCount)
	}
	if systemCount == 0 {
		t.Error("no system categories visible, want seeded defaults")
	}

	// Another user sees the system set but not this user's category.
	otherUser, err := repo.CreateUser(ctx, core.User{Email: "o@example.com", Name: "Other", Currency: "EUR", Timezone: "UTC"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	otherCategories, err := repo.ListCategories(ctx, otherUser.ID)
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	for _, c := range otherCategories {
		if c.UserID != nil && *c.UserID == userID {
			t.Errorf("stranger sees private category %+v", c)
		}
	}
}
