package api

import (
	"context"
	"database/sql"
	"net/http"
)

// BackgroundRemover strips the background from a photo. On failure it
// returns the original bytes together with the error.
type BackgroundRemover interface {
	RemoveBackground(ctx context.Context, img []byte) ([]byte, error)
}

// Describer produces a short text description of a photo.
type Describer interface {
	Describe(ctx context.Context, img []byte) (string, error)
}

// Options configures the outbound capabilities used by the handlers.
type Options struct {
	Remover        BackgroundRemover
	Describer      Describer
	MaxUploadBytes int64
}

// enabler is implemented by clients that can be switched off by configuration.
type enabler interface {
	Enabled() bool
}

// DefaultMaxUploadBytes bounds image uploads when Options leaves it unset.
const DefaultMaxUploadBytes = 10 << 20

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string, opts Options) http.Handler {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}
	// A client without credentials counts as not configured.
	if e, ok := opts.Remover.(enabler); ok && !e.Enabled() {
		opts.Remover = nil
	}
	if e, ok := opts.Describer.(enabler); ok && !e.Enabled() {
		opts.Describer = nil
	}

	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	categoriesHandler := &CategoriesHandler{DB: db}
	itemsHandler := &ItemsHandler{
		DB:             db,
		Remover:        opts.Remover,
		Describer:      opts.Describer,
		MaxUploadBytes: opts.MaxUploadBytes,
	}
	outfitsHandler := &OutfitsHandler{DB: db}

	authMW := AuthMiddleware(jwtSecret, db)
	protect := func(h http.HandlerFunc) http.Handler { return authMW(h) }

	// Public.
	mux.HandleFunc("GET /healthz", Health)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Account.
	mux.Handle("POST /api/auth/logout", protect(authHandler.Logout))
	mux.Handle("PUT /api/auth/password", protect(authHandler.ChangePassword))

	// Categories.
	mux.Handle("GET /api/categories", protect(categoriesHandler.List))
	mux.Handle("POST /api/categories", protect(categoriesHandler.Create))
	mux.Handle("GET /api/categories/{id}", protect(categoriesHandler.Get))
	mux.Handle("PUT /api/categories/{id}", protect(categoriesHandler.Update))
	mux.Handle("DELETE /api/categories/{id}", protect(categoriesHandler.Delete))
	mux.Handle("GET /api/categories/{id}/items", protect(categoriesHandler.Items))

	// Clothing items.
	mux.Handle("GET /api/items", protect(itemsHandler.List))
	mux.Handle("POST /api/items", protect(itemsHandler.Create))
	mux.Handle("GET /api/items/{id}", protect(itemsHandler.Get))
	mux.Handle("PUT /api/items/{id}", protect(itemsHandler.Update))
	mux.Handle("DELETE /api/items/{id}", protect(itemsHandler.Delete))
	mux.Handle("GET /api/items/{id}/image", protect(itemsHandler.GetImage))
	mux.Handle("PUT /api/items/{id}/image", protect(itemsHandler.ReplaceImage))
	mux.Handle("POST /api/items/{id}/describe", protect(itemsHandler.Describe))

	// Outfits.
	mux.Handle("GET /api/outfits", protect(outfitsHandler.List))
	mux.Handle("POST /api/outfits", protect(outfitsHandler.Create))
	mux.Handle("GET /api/outfits/{id}", protect(outfitsHandler.Get))
	mux.Handle("PUT /api/outfits/{id}", protect(outfitsHandler.Update))
	mux.Handle("DELETE /api/outfits/{id}", protect(outfitsHandler.Delete))
	mux.Handle("GET /api/outfits/{id}/thumbnail", protect(outfitsHandler.Thumbnail))

	return mux
}

// Health handles GET /healthz.
func Health(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}
