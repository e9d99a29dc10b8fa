package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/garderoba/internal/model"
)

// ItemFilter narrows and orders ListClothingItems.
type ItemFilter struct {
	// CategoryID limits the result to one category when non-empty.
	CategoryID string
	// Sort is model.SortByCreated (default, newest first) or
	// model.SortByName, which orders by description.
	Sort string
}

const itemColumns = `id, category_id, description, image_mime, created_at, updated_at`

func scanItem(s interface{ Scan(...any) error }, item *model.ClothingItem) error {
	var imageMime sql.NullString
	if err := s.Scan(&item.ID, &item.CategoryID, &item.Description, &imageMime, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return err
	}
	item.ImageMime = imageMime.String
	return nil
}

// CreateClothingItem creates a new clothing item in the given category.
// Returns ErrUnknownCategory if the category does not exist. The check and
// the insert share a transaction, so a concurrent category delete cannot
// slip in between.
func CreateClothingItem(ctx context.Context, db *sql.DB, categoryID string, image []byte, mime, description string) (*model.ClothingItem, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	ok, err := categoryExists(ctx, tx, categoryID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUnknownCategory
	}

	id := newID()
	ts := now()
	var imageMime sql.NullString
	if image != nil {
		imageMime = sql.NullString{String: mime, Valid: true}
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO clothing_items (id, category_id, description, image, image_mime, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, categoryID, description, image, imageMime, ts, ts,
	)
	if err != nil {
		return nil, fmt.Errorf("creating clothing item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing clothing item: %w", err)
	}

	return GetClothingItem(ctx, db, id)
}

// GetClothingItem returns a clothing item's metadata by ID.
func GetClothingItem(ctx context.Context, db *sql.DB, id string) (*model.ClothingItem, error) {
	item := &model.ClothingItem{}
	err := scanItem(db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM clothing_items WHERE id = ?`, id,
	), item)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting clothing item: %w", err)
	}
	return item, nil
}

// ListClothingItems returns clothing items matching the filter.
func ListClothingItems(ctx context.Context, db *sql.DB, filter ItemFilter) ([]model.ClothingItem, error) {
	order := `created_at DESC, id`
	if filter.Sort == model.SortByName {
		order = `description COLLATE NOCASE, created_at DESC, id`
	}

	var rows *sql.Rows
	var err error
	if filter.CategoryID != "" {
		rows, err = db.QueryContext(ctx,
			`SELECT `+itemColumns+` FROM clothing_items WHERE category_id = ? ORDER BY `+order,
			filter.CategoryID,
		)
	} else {
		rows, err = db.QueryContext(ctx,
			`SELECT `+itemColumns+` FROM clothing_items ORDER BY `+order,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("listing clothing items: %w", err)
	}
	defer rows.Close()

	var items []model.ClothingItem
	for rows.Next() {
		var item model.ClothingItem
		if err := scanItem(rows, &item); err != nil {
			return nil, fmt.Errorf("scanning clothing item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpdateClothingItem rewrites an item's category and description.
// Returns ErrUnknownCategory if the new category does not exist.
func UpdateClothingItem(ctx context.Context, db *sql.DB, id, categoryID, description string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	ok, err := categoryExists(ctx, tx, categoryID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnknownCategory
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE clothing_items SET category_id = ?, description = ?, updated_at = ?
		 WHERE id = ?`,
		categoryID, description, now(), id,
	)
	if err != nil {
		return fmt.Errorf("updating clothing item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing clothing item update: %w", err)
	}
	return nil
}

// SetClothingItemImage replaces an item's image data.
func SetClothingItemImage(ctx context.Context, db *sql.DB, id string, image []byte, mime string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE clothing_items SET image = ?, image_mime = ?, updated_at = ?
		 WHERE id = ?`,
		image, mime, now(), id,
	)
	if err != nil {
		return fmt.Errorf("setting clothing item image: %w", err)
	}
	return nil
}

// GetClothingItemImage returns an item's image data and MIME type.
func GetClothingItemImage(ctx context.Context, db *sql.DB, id string) ([]byte, string, error) {
	var image []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT image, image_mime FROM clothing_items WHERE id = ?`, id,
	).Scan(&image, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting clothing item image: %w", err)
	}
	return image, mime.String, nil
}

// DeleteClothingItem deletes an item and removes it from every outfit.
func DeleteClothingItem(ctx context.Context, db *sql.DB, id string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM outfit_items WHERE item_id = ?`, id); err != nil {
		return fmt.Errorf("deleting outfit memberships: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM clothing_items WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting clothing item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing clothing item deletion: %w", err)
	}
	return nil
}
