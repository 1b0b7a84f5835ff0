package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AarishAyaz/Wow-Pets-Palace-Marketplace/pkg/httputil"
	"github.com/AarishAyaz/Wow-Pets-Palace-Marketplace/services/storefront/internal/listing"
	"github.com/AarishAyaz/Wow-Pets-Palace-Marketplace/services/storefront/internal/service"
	"github.com/AarishAyaz/Wow-Pets-Palace-Marketplace/services/storefront/internal/view"
)

// CatalogHandler handles the JSON catalog endpoints.
type CatalogHandler struct {
	service *service.StorefrontService
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog JSON handler.
func NewCatalogHandler(svc *service.StorefrontService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: svc,
		logger:  logger,
	}
}

// detailResponse is the body of GET /api/v1/products/{id}.
type detailResponse struct {
	Status  string `json:"status"`
	Product any    `json:"product"`
}

// ListProducts handles GET /api/v1/products
// Query parameters: q, category, min_price, max_price, sort
// (price_asc, price_desc, name_asc), page, per_page (max 100).
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q, err := listing.ParseQuery(r.URL.Query())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	res, err := h.service.Shop(r.Context(), q)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteData(w, res)
}

// GetProduct handles GET /api/v1/products/{id}
// The img, qty and expanded query parameters carry the detail view state.
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	state := view.ParseDetailState(r.URL.Query())

	res, err := h.service.ProductDetail(r.Context(), id, state)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteData(w, detailResponse{Status: string(res.Status), Product: res.View})
}

// ListCategories handles GET /api/v1/categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.service.Categories(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteData(w, cats)
}

// writeError writes the JSON error envelope unless the client has gone away.
func (h *CatalogHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if r.Context().Err() != nil {
		return
	}
	httputil.WriteError(w, r, err, h.logger)
}

// ContentTypeJSON sets the JSON content type on every response of a route group.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}
