package db

import (
	"database/sql"
	"fmt"
)

// migrations is a list of SQL statements applied in order after schema creation.
// Each migration must be idempotent. Append new migrations at the end.
var migrations = []string{
	// Migration 1: index the foreign keys used by category listings and by
	// the cascade from clothing_items into outfit_items.
	`CREATE INDEX IF NOT EXISTS idx_clothing_items_category
	     ON clothing_items(category_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_outfit_items_item
	     ON outfit_items(item_id)`,
}

// Migrate ensures the schema exists and runs the database migrations.
func Migrate(db *sql.DB) error {
	if err := EnsureSchema(db); err != nil {
		return err
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
