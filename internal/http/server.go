// Package http exposes the ledger as a JSON API.
package http

import (
	"context"
	"net/http"
	"time"

	"vaulto/internal/cache"
	"vaulto/internal/core"
)

// ReportProvider computes the aggregate reports.
type ReportProvider interface {
	Summary(ctx context.Context, userID int64, w core.Window) (core.Summary, error)
	CategoryBreakdown(ctx context.Context, userID int64, w core.Window) (core.CategoryBreakdown, error)
}

// TransactionManager creates, lists and soft-deletes ledger rows.
type TransactionManager interface {
	Create(ctx context.Context, t core.Transaction) (core.Transaction, error)
	Delete(ctx context.Context, id, userID int64) error
	List(ctx context.Context, userID int64, w core.Window) ([]core.Transaction, error)
}

// CatalogStore covers the mechanical persistence surfaces: users, categories,
// wallets, budgets and recurring task registration.
type CatalogStore interface {
	CreateUser(ctx context.Context, u core.User) (core.User, error)
	GetUser(ctx context.Context, id int64) (core.User, error)

	ListCategories(ctx context.Context, userID int64) ([]core.Category, error)
	CreateCategory(ctx context.Context, c core.Category) (core.Category, error)
	UpdateCategory(ctx context.Context, c core.Category, userID int64) error
	DeleteCategory(ctx context.Context, id, userID int64) error

	ListWallets(ctx context.Context, userID int64) ([]core.Wallet, error)
	CreateWallet(ctx context.Context, w core.Wallet) (core.Wallet, error)

	ListBudgets(ctx context.Context, userID int64) ([]core.Budget, error)
	CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error)

	ListRecurringTasks(ctx context.Context, userID int64) ([]core.RecurringTask, error)
	CreateRecurringTask(ctx context.Context, rt core.RecurringTask) (core.RecurringTask, error)
}

// Handlers bundles the API dependencies.
type Handlers struct {
	reports      ReportProvider
	transactions TransactionManager
	catalog      CatalogStore

	// Cached marshaled report responses; purged on every ledger write.
	reportCache *cache.LRUCache[[]byte]
}

func NewHandlers(reports ReportProvider, transactions TransactionManager, catalog CatalogStore, reportCache *cache.LRUCache[[]byte]) *Handlers {
	return &Handlers{
		reports:      reports,
		transactions: transactions,
		catalog:      catalog,
		reportCache:  reportCache,
	}
}

// Routes builds the API mux.
func (h *Handlers) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("POST /api/users", h.handleCreateUser)
	mux.HandleFunc("GET /api/users/me", h.handleGetUser)

	mux.HandleFunc("GET /api/reports/summary", h.handleSummary)
	mux.HandleFunc("GET /api/reports/category-breakdown", h.handleCategoryBreakdown)

	mux.HandleFunc("GET /api/transactions", h.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", h.handleCreateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", h.handleDeleteTransaction)

	mux.HandleFunc("GET /api/categories", h.handleListCategories)
	mux.HandleFunc("POST /api/categories", h.handleCreateCategory)
	mux.HandleFunc("PUT /api/categories/{id}", h.handleUpdateCategory)
	mux.HandleFunc("DELETE /api/categories/{id}", h.handleDeleteCategory)

	mux.HandleFunc("GET /api/wallets", h.handleListWallets)
	mux.HandleFunc("POST /api/wallets", h.handleCreateWallet)

	mux.HandleFunc("GET /api/budgets", h.handleListBudgets)
	mux.HandleFunc("POST /api/budgets", h.handleCreateBudget)

	mux.HandleFunc("GET /api/recurring", h.handleListRecurring)
	mux.HandleFunc("POST /api/recurring", h.handleCreateRecurring)

	return RequestLogger(mux)
}

// NewServer builds the HTTP server with sane timeouts.
func NewServer(addr string, h *Handlers) *http.Server {
	return &http.Server{
		Addr:           addr,
		Handler:        h.Routes(),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}
}
