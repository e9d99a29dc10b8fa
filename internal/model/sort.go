package model

// Sort orders accepted by the list queries.
const (
	SortByName    = "name"
	SortByCreated = "created"
)

// ValidSort reports whether s is empty or a known sort order.
func ValidSort(s string) bool {
	return s == "" || s == SortByName || s == SortByCreated
}
