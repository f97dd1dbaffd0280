package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"vaulto/internal/core"
)

// ListCategories returns the user's own categories plus the shared system
// ones.
func (r *SQLiteRepository) ListCategories(ctx context.Context, userID int64) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, type, icon, color FROM categories
		 WHERE user_id = ? OR user_id IS NULL ORDER BY id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// LookupCategory fetches one category by identity regardless of owner.
func (r *SQLiteRepository) LookupCategory(ctx context.Context, id int64) (core.Category, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, type, icon, color FROM categories WHERE id = ?`, id)
	c, err := scanCategoryRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, fmt.Errorf("category %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("lookup category: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (user_id, name, type, icon, color) VALUES (?, ?, ?, ?, ?)`,
		c.UserID, c.Name, string(c.Type), c.Icon, c.Color)
	if err != nil {
		return core.Category{}, fmt.Errorf("insert category: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Category{}, fmt.Errorf("category id: %w", err)
	}
	c.ID = id
	return c, nil
}

// UpdateCategory edits one of the user's own categories. System categories
// are read-only.
func (r *SQLiteRepository) UpdateCategory(ctx context.Context, c core.Category, userID int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, type = ?, icon = ?, color = ?
		 WHERE id = ? AND user_id = ?`,
		c.Name, string(c.Type), c.Icon, c.Color, c.ID, userID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("category %d: %w", c.ID, core.ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) DeleteCategory(ctx context.Context, id, userID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM categories WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("category %d: %w", id, core.ErrNotFound)
	}
	return nil
}

func scanCategory(rows *sql.Rows) (core.Category, error) {
	return scanCategoryRow(rows)
}

func scanCategoryRow(row rowScanner) (core.Category, error) {
	var (
		c     core.Category
		owner sql.NullInt64
		typ   string
	)
	if err := row.Scan(&c.ID, &owner, &c.Name, &typ, &c.Icon, &c.Color); err != nil {
		return core.Category{}, err
	}
	if owner.Valid {
		c.UserID = &owner.Int64
	}
	c.Type = core.TransactionType(typ)
	return c, nil
}
