package api

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/garderoba/internal/imaging"
	"github.com/erazemk/garderoba/internal/model"
	"github.com/erazemk/garderoba/internal/store"
)

// Notice prefixes shown to the user when an optional step fails but the
// request still succeeds.
const (
	noticeRemoveBackground = "Failed to remove background: "
	noticeDescribe         = "Failed to generate description: "
)

var (
	errNoRemover   = errors.New("background removal is not configured")
	errNoDescriber = errors.New("description service is not configured")
)

// ItemsHandler handles clothing item endpoints.
type ItemsHandler struct {
	DB             *sql.DB
	Remover        BackgroundRemover
	Describer      Describer
	MaxUploadBytes int64
}

type itemResponse struct {
	*model.ClothingItem
	Notices []string `json:"notices,omitempty"`
}

type updateItemRequest struct {
	CategoryID  string `json:"category_id"`
	Description string `json:"description"`
}

// List handles GET /api/items.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.ItemFilter{CategoryID: q.Get("category_id"), Sort: q.Get("sort")}
	if !model.ValidSort(filter.Sort) {
		jsonError(w, http.StatusBadRequest, "invalid sort")
		return
	}

	items, err := store.ListClothingItems(r.Context(), h.DB, filter)
	if err != nil {
		internalError(w, r, "failed to list items", err)
		return
	}
	if items == nil {
		items = []model.ClothingItem{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Create handles POST /api/items (multipart). The photo is normalized, then
// optionally cut out and described. Failures of those two steps do not fail
// the request: the item is saved and the response carries notices.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}

	categoryID := r.FormValue("category_id")
	if categoryID == "" {
		jsonError(w, http.StatusBadRequest, "category_id required")
		return
	}
	removeBG, err := formBool(r, "remove_background", true)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	describe, err := formBool(r, "describe", false)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	category, err := store.GetCategory(r.Context(), h.DB, categoryID)
	if err != nil {
		internalError(w, r, "failed to get category", err)
		return
	}
	if category == nil {
		jsonError(w, http.StatusBadRequest, "unknown category")
		return
	}

	img, ok := readImage(w, r)
	if !ok {
		return
	}

	img, notices := h.applyRemoval(r, img, removeBG)

	description := r.FormValue("description")
	if describe {
		generated, err := h.describe(r.Context(), img.Data)
		if err != nil {
			slog.Warn("description failed", "error", err)
			notices = append(notices, noticeDescribe+err.Error())
		} else {
			description = generated
		}
	}

	item, err := store.CreateClothingItem(r.Context(), h.DB, categoryID, img.Data, img.MIME, description)
	if errors.Is(err, store.ErrUnknownCategory) {
		jsonError(w, http.StatusBadRequest, "unknown category")
		return
	}
	if err != nil {
		internalError(w, r, "failed to create item", err)
		return
	}

	slog.Info("item created", "id", item.ID, "category", categoryID, "notices", len(notices))
	jsonResponse(w, http.StatusCreated, itemResponse{ClothingItem: item, Notices: notices})
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, ok := h.load(w, r)
	if !ok {
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Update handles PUT /api/items/{id}. The description is replaced as given;
// an empty category_id keeps the current category.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	item, ok := h.load(w, r)
	if !ok {
		return
	}

	var req updateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CategoryID == "" {
		req.CategoryID = item.CategoryID
	}

	err := store.UpdateClothingItem(r.Context(), h.DB, item.ID, req.CategoryID, req.Description)
	if errors.Is(err, store.ErrUnknownCategory) {
		jsonError(w, http.StatusBadRequest, "unknown category")
		return
	}
	if err != nil {
		internalError(w, r, "failed to update item", err)
		return
	}

	h.respondItem(w, r, http.StatusOK, item.ID, nil)
}

// Delete handles DELETE /api/items/{id}. The item is removed from every
// outfit that contains it.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	item, ok := h.load(w, r)
	if !ok {
		return
	}

	if err := store.DeleteClothingItem(r.Context(), h.DB, item.ID); err != nil {
		internalError(w, r, "failed to delete item", err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "item deleted"})
}

// GetImage handles GET /api/items/{id}/image.
func (h *ItemsHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	data, mime, err := store.GetClothingItemImage(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		internalError(w, r, "failed to get image", err)
		return
	}
	if data == nil {
		jsonError(w, http.StatusNotFound, "no image")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "private, no-cache")
	w.Write(data)
}

// ReplaceImage handles PUT /api/items/{id}/image (multipart: image,
// remove_background).
func (h *ItemsHandler) ReplaceImage(w http.ResponseWriter, r *http.Request) {
	item, ok := h.load(w, r)
	if !ok {
		return
	}
	if !h.parseForm(w, r) {
		return
	}
	removeBG, err := formBool(r, "remove_background", true)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	img, ok := readImage(w, r)
	if !ok {
		return
	}

	img, notices := h.applyRemoval(r, img, removeBG)

	if err := store.SetClothingItemImage(r.Context(), h.DB, item.ID, img.Data, img.MIME); err != nil {
		internalError(w, r, "failed to save image", err)
		return
	}

	h.respondItem(w, r, http.StatusOK, item.ID, notices)
}

// Describe handles POST /api/items/{id}/describe: runs label detection on the
// stored image and saves the result as the item's description.
func (h *ItemsHandler) Describe(w http.ResponseWriter, r *http.Request) {
	item, ok := h.load(w, r)
	if !ok {
		return
	}

	data, _, err := store.GetClothingItemImage(r.Context(), h.DB, item.ID)
	if err != nil {
		internalError(w, r, "failed to get image", err)
		return
	}
	if data == nil {
		jsonError(w, http.StatusNotFound, "no image")
		return
	}

	description, err := h.describe(r.Context(), data)
	if errors.Is(err, errNoDescriber) {
		jsonError(w, http.StatusServiceUnavailable, noticeDescribe+err.Error())
		return
	}
	if err != nil {
		slog.Warn("description failed", "item", item.ID, "error", err)
		jsonError(w, http.StatusBadGateway, noticeDescribe+err.Error())
		return
	}

	if err := store.UpdateClothingItem(r.Context(), h.DB, item.ID, item.CategoryID, description); err != nil {
		internalError(w, r, "failed to update item", err)
		return
	}

	h.respondItem(w, r, http.StatusOK, item.ID, nil)
}

// applyRemoval runs background removal when removeBG is set and turns a
// failure into a notice. Without a configured remover the default is skipped
// quietly; only an explicit remove_background=true reports it.
func (h *ItemsHandler) applyRemoval(r *http.Request, img *imaging.ProcessResult, removeBG bool) (*imaging.ProcessResult, []string) {
	if !removeBG {
		return img, nil
	}

	out, err := h.removeBackground(r.Context(), img)
	if err == nil {
		return out, nil
	}
	if errors.Is(err, errNoRemover) && r.FormValue("remove_background") == "" {
		return img, nil
	}

	slog.Warn("background removal failed", "path", r.URL.Path, "error", err)
	return img, []string{noticeRemoveBackground + err.Error()}
}

// removeBackground cuts out the photo and re-normalizes the result. On
// failure it returns img unchanged with the error.
func (h *ItemsHandler) removeBackground(ctx context.Context, img *imaging.ProcessResult) (*imaging.ProcessResult, error) {
	if h.Remover == nil {
		return img, errNoRemover
	}

	out, err := h.Remover.RemoveBackground(ctx, img.Data)
	if err != nil {
		return img, err
	}

	processed, err := imaging.Process(bytes.NewReader(out))
	if err != nil {
		return img, fmt.Errorf("processing cut-out: %w", err)
	}
	return processed, nil
}

func (h *ItemsHandler) describe(ctx context.Context, img []byte) (string, error) {
	if h.Describer == nil {
		return "", errNoDescriber
	}
	return h.Describer.Describe(ctx, img)
}

// parseForm reads a size-limited multipart body.
func (h *ItemsHandler) parseForm(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.MaxUploadBytes); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return false
	}
	return true
}

func (h *ItemsHandler) load(w http.ResponseWriter, r *http.Request) (*model.ClothingItem, bool) {
	item, err := store.GetClothingItem(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		internalError(w, r, "failed to get item", err)
		return nil, false
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return nil, false
	}
	return item, true
}

func (h *ItemsHandler) respondItem(w http.ResponseWriter, r *http.Request, status int, id string, notices []string) {
	item, err := store.GetClothingItem(r.Context(), h.DB, id)
	if err != nil || item == nil {
		internalError(w, r, "failed to get item", err)
		return
	}
	jsonResponse(w, status, itemResponse{ClothingItem: item, Notices: notices})
}

// readImage reads and normalizes the "image" form file.
func readImage(w http.ResponseWriter, r *http.Request) (*imaging.ProcessResult, bool) {
	file, _, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "image file required")
		return nil, false
	}
	defer file.Close()

	img, err := imaging.Process(file)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return img, true
}

// formBool parses an optional boolean form field.
func formBool(r *http.Request, key string, def bool) (bool, error) {
	v := r.FormValue(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %q", key, v)
	}
	return b, nil
}
