package api

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/erazemk/garderoba/internal/imaging"
	"github.com/erazemk/garderoba/internal/model"
	"github.com/erazemk/garderoba/internal/store"
)

// OutfitsHandler handles outfit endpoints.
type OutfitsHandler struct {
	DB *sql.DB
}

type outfitRequest struct {
	Name    string   `json:"name"`
	ItemIDs []string `json:"item_ids"`
}

// List handles GET /api/outfits.
func (h *OutfitsHandler) List(w http.ResponseWriter, r *http.Request) {
	sort := r.URL.Query().Get("sort")
	if !model.ValidSort(sort) {
		jsonError(w, http.StatusBadRequest, "invalid sort")
		return
	}

	outfits, err := store.ListOutfits(r.Context(), h.DB, sort)
	if err != nil {
		internalError(w, r, "failed to list outfits", err)
		return
	}
	if outfits == nil {
		outfits = []model.Outfit{}
	}
	jsonResponse(w, http.StatusOK, outfits)
}

// Create handles POST /api/outfits.
func (h *OutfitsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req outfitRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	outfit, err := store.CreateOutfit(r.Context(), h.DB, req.Name, req.ItemIDs)
	if errors.Is(err, store.ErrUnknownItem) {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		internalError(w, r, "failed to create outfit", err)
		return
	}

	jsonResponse(w, http.StatusCreated, outfit)
}

// Get handles GET /api/outfits/{id}.
func (h *OutfitsHandler) Get(w http.ResponseWriter, r *http.Request) {
	outfit, ok := h.load(w, r)
	if !ok {
		return
	}
	jsonResponse(w, http.StatusOK, outfit)
}

// Update handles PUT /api/outfits/{id}. Name and item set are both replaced.
func (h *OutfitsHandler) Update(w http.ResponseWriter, r *http.Request) {
	outfit, ok := h.load(w, r)
	if !ok {
		return
	}

	var req outfitRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := store.UpdateOutfit(r.Context(), h.DB, outfit.ID, req.Name, req.ItemIDs)
	if errors.Is(err, store.ErrUnknownItem) {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		internalError(w, r, "failed to update outfit", err)
		return
	}

	updated, err := store.GetOutfit(r.Context(), h.DB, outfit.ID)
	if err != nil || updated == nil {
		internalError(w, r, "failed to get outfit", err)
		return
	}
	jsonResponse(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/outfits/{id}.
func (h *OutfitsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	outfit, ok := h.load(w, r)
	if !ok {
		return
	}

	if err := store.DeleteOutfit(r.Context(), h.DB, outfit.ID); err != nil {
		internalError(w, r, "failed to delete outfit", err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "outfit deleted"})
}

// Thumbnail handles GET /api/outfits/{id}/thumbnail. The composite is
// rendered on every request.
func (h *OutfitsHandler) Thumbnail(w http.ResponseWriter, r *http.Request) {
	outfit, ok := h.load(w, r)
	if !ok {
		return
	}

	images, err := store.ListOutfitItemImages(r.Context(), h.DB, outfit.ID)
	if err != nil {
		internalError(w, r, "failed to get outfit images", err)
		return
	}

	data := make([][]byte, 0, len(images))
	for _, img := range images {
		data = append(data, img.Data)
	}

	png, err := imaging.Composite(data)
	if errors.Is(err, imaging.ErrNoImages) {
		jsonError(w, http.StatusNotFound, "outfit has no items")
		return
	}
	if err != nil {
		internalError(w, r, "failed to render thumbnail", err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(png)
}

func (h *OutfitsHandler) load(w http.ResponseWriter, r *http.Request) (*model.Outfit, bool) {
	outfit, err := store.GetOutfit(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		internalError(w, r, "failed to get outfit", err)
		return nil, false
	}
	if outfit == nil {
		jsonError(w, http.StatusNotFound, "outfit not found")
		return nil, false
	}
	return outfit, true
}
