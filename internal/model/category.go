package model

import "time"

// UnnamedCategory is shown in place of an empty category name.
const UnnamedCategory = "Unnamed"

// Category is a user-defined grouping of clothing items (e.g. "Shirts").
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`

	// Joined fields (not always populated).
	ItemCount int `json:"item_count"`
}

// DisplayName returns the category name, or UnnamedCategory when it is blank.
func (c Category) DisplayName() string {
	if c.Name == "" {
		return UnnamedCategory
	}
	return c.Name
}
