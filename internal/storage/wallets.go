package storage

import (
	"context"
	"fmt"
	"time"

	"vaulto/internal/core"
)

func (r *SQLiteRepository) ListWallets(ctx context.Context, userID int64) ([]core.Wallet, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, type, balance_cents, created_at FROM wallets
		 WHERE user_id = ? ORDER BY id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	defer rows.Close()

	var out []core.Wallet
	for rows.Next() {
		var (
			w       core.Wallet
			typ     string
			created int64
		)
		if err := rows.Scan(&w.ID, &w.UserID, &w.Name, &typ, &w.Balance.Cents, &created); err != nil {
			return nil, fmt.Errorf("scan wallet: %w", err)
		}
		w.Type = core.WalletType(typ)
		w.CreatedAt = decodeTime(created)
		out = append(out, w)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CreateWallet(ctx context.Context, w core.Wallet) (core.Wallet, error) {
	now := time.Now()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO wallets (user_id, name, type, balance_cents, created_at) VALUES (?, ?, ?, ?, ?)`,
		w.UserID, w.Name, string(w.Type), w.Balance.Cents, encodeTime(now))
	if err != nil {
		return core.Wallet{}, fmt.Errorf("insert wallet: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Wallet{}, fmt.Errorf("wallet id: %w", err)
	}
	w.ID = id
	w.CreatedAt = now.UTC().Truncate(time.Second)
	return w, nil
}
