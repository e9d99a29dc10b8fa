package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/garderoba/internal/model"
)

const categoryColumns = `c.id, c.name, c.created_at,
	(SELECT COUNT(*) FROM clothing_items ci WHERE ci.category_id = c.id) AS item_count`

// CreateCategory creates a new category.
func CreateCategory(ctx context.Context, db *sql.DB, name string) (*model.Category, error) {
	id := newID()
	_, err := db.ExecContext(ctx,
		`INSERT INTO categories (id, name, created_at) VALUES (?, ?, ?)`,
		id, name, now(),
	)
	if err != nil {
		return nil, fmt.Errorf("creating category: %w", err)
	}

	return GetCategory(ctx, db, id)
}

// GetCategory returns a category by ID.
func GetCategory(ctx context.Context, db *sql.DB, id string) (*model.Category, error) {
	c := &model.Category{}
	err := db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories c WHERE c.id = ?`, id,
	).Scan(&c.ID, &c.Name, &c.CreatedAt, &c.ItemCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting category: %w", err)
	}
	return c, nil
}

// ListCategories returns all categories, sorted by name (default) or by
// creation time, newest first.
func ListCategories(ctx context.Context, db *sql.DB, sort string) ([]model.Category, error) {
	order := `c.name COLLATE NOCASE, c.id`
	if sort == model.SortByCreated {
		order = `c.created_at DESC, c.id`
	}

	rows, err := db.QueryContext(ctx,
		`SELECT `+categoryColumns+` FROM categories c ORDER BY `+order,
	)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.ItemCount); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// UpdateCategory renames a category.
func UpdateCategory(ctx context.Context, db *sql.DB, id, name string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE categories SET name = ? WHERE id = ?`,
		name, id,
	)
	if err != nil {
		return fmt.Errorf("updating category: %w", err)
	}
	return nil
}

// DeleteCategory deletes a category together with all of its clothing items.
// Outfit memberships of those items go with them.
func DeleteCategory(ctx context.Context, db *sql.DB, id string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// The foreign keys cascade as well; deleting explicitly keeps the
	// behaviour independent of the connection's pragma state.
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM outfit_items WHERE item_id IN (SELECT id FROM clothing_items WHERE category_id = ?)`, id,
	); err != nil {
		return fmt.Errorf("deleting outfit memberships: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM clothing_items WHERE category_id = ?`, id,
	); err != nil {
		return fmt.Errorf("deleting category items: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM categories WHERE id = ?`, id,
	); err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing category deletion: %w", err)
	}
	return nil
}

// categoryExists reports whether a category with the given ID exists.
func categoryExists(ctx context.Context, q queryRower, id string) (bool, error) {
	var n int
	err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories WHERE id = ?`, id).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking category: %w", err)
	}
	return n > 0, nil
}
