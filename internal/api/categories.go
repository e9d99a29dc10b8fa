package api

import (
	"database/sql"
	"net/http"

	"github.com/erazemk/garderoba/internal/model"
	"github.com/erazemk/garderoba/internal/store"
)

// CategoriesHandler handles category endpoints.
type CategoriesHandler struct {
	DB *sql.DB
}

type categoryRequest struct {
	Name string `json:"name"`
}

type categoryResponse struct {
	model.Category
	DisplayName string `json:"display_name"`
}

func newCategoryResponse(c model.Category) categoryResponse {
	return categoryResponse{Category: c, DisplayName: c.DisplayName()}
}

// List handles GET /api/categories.
func (h *CategoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	sort := r.URL.Query().Get("sort")
	if !model.ValidSort(sort) {
		jsonError(w, http.StatusBadRequest, "invalid sort")
		return
	}

	categories, err := store.ListCategories(r.Context(), h.DB, sort)
	if err != nil {
		internalError(w, r, "failed to list categories", err)
		return
	}

	resp := make([]categoryResponse, 0, len(categories))
	for _, c := range categories {
		resp = append(resp, newCategoryResponse(c))
	}
	jsonResponse(w, http.StatusOK, resp)
}

// Create handles POST /api/categories. An empty name is allowed and shown
// as "Unnamed".
func (h *CategoriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	category, err := store.CreateCategory(r.Context(), h.DB, req.Name)
	if err != nil {
		internalError(w, r, "failed to create category", err)
		return
	}

	jsonResponse(w, http.StatusCreated, newCategoryResponse(*category))
}

// Get handles GET /api/categories/{id}.
func (h *CategoriesHandler) Get(w http.ResponseWriter, r *http.Request) {
	category, ok := h.load(w, r)
	if !ok {
		return
	}
	jsonResponse(w, http.StatusOK, newCategoryResponse(*category))
}

// Update handles PUT /api/categories/{id}.
func (h *CategoriesHandler) Update(w http.ResponseWriter, r *http.Request) {
	category, ok := h.load(w, r)
	if !ok {
		return
	}

	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := store.UpdateCategory(r.Context(), h.DB, category.ID, req.Name); err != nil {
		internalError(w, r, "failed to update category", err)
		return
	}

	updated, err := store.GetCategory(r.Context(), h.DB, category.ID)
	if err != nil || updated == nil {
		internalError(w, r, "failed to get category", err)
		return
	}
	jsonResponse(w, http.StatusOK, newCategoryResponse(*updated))
}

// Delete handles DELETE /api/categories/{id}. All items in the category are
// deleted with it.
func (h *CategoriesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	category, ok := h.load(w, r)
	if !ok {
		return
	}

	if err := store.DeleteCategory(r.Context(), h.DB, category.ID); err != nil {
		internalError(w, r, "failed to delete category", err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]any{
		"message":       "category deleted",
		"deleted_items": category.ItemCount,
	})
}

// Items handles GET /api/categories/{id}/items.
func (h *CategoriesHandler) Items(w http.ResponseWriter, r *http.Request) {
	category, ok := h.load(w, r)
	if !ok {
		return
	}

	sort := r.URL.Query().Get("sort")
	if !model.ValidSort(sort) {
		jsonError(w, http.StatusBadRequest, "invalid sort")
		return
	}

	items, err := store.ListClothingItems(r.Context(), h.DB, store.ItemFilter{
		CategoryID: category.ID,
		Sort:       sort,
	})
	if err != nil {
		internalError(w, r, "failed to list items", err)
		return
	}
	if items == nil {
		items = []model.ClothingItem{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// load fetches the category named by the {id} path value, writing a 404
// when it does not exist.
func (h *CategoriesHandler) load(w http.ResponseWriter, r *http.Request) (*model.Category, bool) {
	category, err := store.GetCategory(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		internalError(w, r, "failed to get category", err)
		return nil, false
	}
	if category == nil {
		jsonError(w, http.StatusNotFound, "category not found")
		return nil, false
	}
	return category, true
}
