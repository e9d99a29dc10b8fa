package model

import "time"

// ClothingItem is a single photographed garment. The image itself is
// fetched separately.
type ClothingItem struct {
	ID          string    `json:"id"`
	CategoryID  string    `json:"category_id"`
	Description string    `json:"description"`
	ImageMime   string    `json:"image_mime,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ItemImage is an item's raw image, as used by the outfit thumbnail renderer.
type ItemImage struct {
	ItemID string
	Data   []byte
	MIME   string
}

// DefaultDescription is used when label detection returns no labels.
const DefaultDescription = "A clothing item"
