package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/garderoba/internal/model"
)

// CreateOutfit creates an outfit holding exactly the given set of items.
// Duplicate IDs collapse; an unknown ID fails the whole write with ErrUnknownItem.
func CreateOutfit(ctx context.Context, db *sql.DB, name string, itemIDs []string) (*model.Outfit, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	id := newID()
	ts := now()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO outfits (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		id, name, ts, ts,
	); err != nil {
		return nil, fmt.Errorf("creating outfit: %w", err)
	}

	if err := replaceOutfitItems(ctx, tx, id, itemIDs); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing outfit: %w", err)
	}

	return GetOutfit(ctx, db, id)
}

// GetOutfit returns an outfit with its item IDs.
func GetOutfit(ctx context.Context, db *sql.DB, id string) (*model.Outfit, error) {
	o := &model.Outfit{}
	err := db.QueryRowContext(ctx,
		`SELECT id, name, created_at, updated_at FROM outfits WHERE id = ?`, id,
	).Scan(&o.ID, &o.Name, &o.CreatedAt, &o.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting outfit: %w", err)
	}

	members, err := outfitMembers(ctx, db, id)
	if err != nil {
		return nil, err
	}
	o.ItemIDs = members[id]
	if o.ItemIDs == nil {
		o.ItemIDs = []string{}
	}
	return o, nil
}

// ListOutfits returns all outfits, sorted by name (default) or by creation
// time, newest first.
func ListOutfits(ctx context.Context, db *sql.DB, sort string) ([]model.Outfit, error) {
	order := `name COLLATE NOCASE, created_at, id`
	if sort == model.SortByCreated {
		order = `created_at DESC, id`
	}

	rows, err := db.QueryContext(ctx,
		`SELECT id, name, created_at, updated_at FROM outfits ORDER BY `+order,
	)
	if err != nil {
		return nil, fmt.Errorf("listing outfits: %w", err)
	}

	var outfits []model.Outfit
	for rows.Next() {
		var o model.Outfit
		if err := rows.Scan(&o.ID, &o.Name, &o.CreatedAt, &o.UpdatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning outfit: %w", err)
		}
		outfits = append(outfits, o)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("listing outfits: %w", err)
	}
	rows.Close()

	members, err := outfitMembers(ctx, db, "")
	if err != nil {
		return nil, err
	}
	for i := range outfits {
		outfits[i].ItemIDs = members[outfits[i].ID]
		if outfits[i].ItemIDs == nil {
			outfits[i].ItemIDs = []string{}
		}
	}
	return outfits, nil
}

// UpdateOutfit rewrites an outfit's name and item set.
func UpdateOutfit(ctx context.Context, db *sql.DB, id, name string, itemIDs []string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE outfits SET name = ?, updated_at = ? WHERE id = ?`,
		name, now(), id,
	); err != nil {
		return fmt.Errorf("updating outfit: %w", err)
	}

	if err := replaceOutfitItems(ctx, tx, id, itemIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing outfit update: %w", err)
	}
	return nil
}

// DeleteOutfit deletes an outfit. Its items are left untouched.
func DeleteOutfit(ctx context.Context, db *sql.DB, id string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM outfit_items WHERE outfit_id = ?`, id); err != nil {
		return fmt.Errorf("deleting outfit memberships: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM outfits WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting outfit: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing outfit deletion: %w", err)
	}
	return nil
}

// ListOutfitItemImages returns the images of an outfit's items, oldest item first.
func ListOutfitItemImages(ctx context.Context, db *sql.DB, outfitID string) ([]model.ItemImage, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT ci.id, ci.image, ci.image_mime
		 FROM outfit_items oi
		 JOIN clothing_items ci ON ci.id = oi.item_id
		 WHERE oi.outfit_id = ?
		 ORDER BY ci.created_at, ci.id`, outfitID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing outfit item images: %w", err)
	}
	defer rows.Close()

	var images []model.ItemImage
	for rows.Next() {
		var img model.ItemImage
		var mime sql.NullString
		if err := rows.Scan(&img.ItemID, &img.Data, &mime); err != nil {
			return nil, fmt.Errorf("scanning outfit item image: %w", err)
		}
		img.MIME = mime.String
		images = append(images, img)
	}
	return images, rows.Err()
}

// replaceOutfitItems sets the outfit's membership to exactly itemIDs.
func replaceOutfitItems(ctx context.Context, tx *sql.Tx, outfitID string, itemIDs []string) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM outfit_items WHERE outfit_id = ?`, outfitID,
	); err != nil {
		return fmt.Errorf("clearing outfit items: %w", err)
	}

	seen := make(map[string]bool, len(itemIDs))
	for _, itemID := range itemIDs {
		if seen[itemID] {
			continue
		}
		seen[itemID] = true

		var n int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM clothing_items WHERE id = ?`, itemID,
		).Scan(&n); err != nil {
			return fmt.Errorf("checking clothing item: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("%w: %s", ErrUnknownItem, itemID)
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO outfit_items (outfit_id, item_id) VALUES (?, ?)`,
			outfitID, itemID,
		); err != nil {
			return fmt.Errorf("adding outfit item: %w", err)
		}
	}
	return nil
}

// outfitMembers maps outfit IDs to their item IDs, oldest item first.
// An empty outfitID loads every outfit.
func outfitMembers(ctx context.Context, db *sql.DB, outfitID string) (map[string][]string, error) {
	query := `SELECT oi.outfit_id, oi.item_id
		 FROM outfit_items oi
		 JOIN clothing_items ci ON ci.id = oi.item_id`
	var args []any
	if outfitID != "" {
		query += ` WHERE oi.outfit_id = ?`
		args = append(args, outfitID)
	}
	query += ` ORDER BY ci.created_at, ci.id`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing outfit items: %w", err)
	}
	defer rows.Close()

	members := make(map[string][]string)
	for rows.Next() {
		var oid, iid string
		if err := rows.Scan(&oid, &iid); err != nil {
			return nil, fmt.Errorf("scanning outfit item: %w", err)
		}
		members[oid] = append(members[oid], iid)
	}
	return members, rows.Err()
}
