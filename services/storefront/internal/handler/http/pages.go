package http

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/AarishAyaz/Wow-Pets-Palace-Marketplace/pkg/httputil"
	"github.com/AarishAyaz/Wow-Pets-Palace-Marketplace/pkg/logger"
	"github.com/AarishAyaz/Wow-Pets-Palace-Marketplace/pkg/pagination"
	"github.com/AarishAyaz/Wow-Pets-Palace-Marketplace/services/storefront/internal/domain"
	"github.com/AarishAyaz/Wow-Pets-Palace-Marketplace/services/storefront/internal/listing"
	"github.com/AarishAyaz/Wow-Pets-Palace-Marketplace/services/storefront/internal/service"
	"github.com/AarishAyaz/Wow-Pets-Palace-Marketplace/services/storefront/internal/view"
)

// PageHandler serves the server-rendered storefront pages.
type PageHandler struct {
	service   *service.StorefrontService
	templates *Templates
	logger    *slog.Logger
}

// NewPageHandler creates a new page handler.
func NewPageHandler(svc *service.StorefrontService, templates *Templates, logger *slog.Logger) *PageHandler {
	return &PageHandler{
		service:   svc,
		templates: templates,
		logger:    logger,
	}
}

// --- Page models ---

type sortOption struct {
	Value  string
	Label  string
	Active bool
}

type categoryChip struct {
	Title  string
	Count  int
	Href   string
	Active bool
}

type shopCard struct {
	domain.ProductCard
	Href string
}

type shopPage struct {
	Query      listing.Query
	Sorts      []sortOption
	Categories []categoryChip
	Cards      []shopCard
	Total      int
	Page       int
	TotalPages int
	PrevURL    string
	NextURL    string
}

type thumbnail struct {
	Image    string
	Href     string
	Number   int
	Selected bool
}

type productPage struct {
	View         domain.ProductView
	Thumbnails   []thumbnail
	CategoryURL  string
	ToggleURL    string
	IncrementURL string
	DecrementURL string
}

type errorPage struct {
	Title     string
	Message   string
	RetryURL  string
	RequestID string
}

var sortLabels = []sortOption{
	{Value: listing.SortCatalog, Label: "Featured"},
	{Value: listing.SortPriceAsc, Label: "Price: low to high"},
	{Value: listing.SortPriceDesc, Label: "Price: high to low"},
	{Value: listing.SortNameAsc, Label: "Name"},
}

// --- Handlers ---

// Home handles GET / by redirecting to the shop.
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/shop", http.StatusFound)
}

// Shop handles GET /shop
func (h *PageHandler) Shop(w http.ResponseWriter, r *http.Request) {
	q, err := listing.ParseQuery(r.URL.Query())
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	res, err := h.service.Shop(r.Context(), q)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	if err := h.templates.Render(w, http.StatusOK, pageShop, newShopPage(res)); err != nil {
		renderFallback(w, h.logger, err)
	}
}

// ProductDetail handles GET /product/{id}
func (h *PageHandler) ProductDetail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	state := view.ParseDetailState(r.URL.Query())

	res, err := h.service.ProductDetail(r.Context(), id, state)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	page := newProductPage(*res.View, res.State)
	if err := h.templates.Render(w, http.StatusOK, pageProduct, page); err != nil {
		renderFallback(w, h.logger, err)
	}
}

// NotFound renders the 404 page for unknown paths.
func (h *PageHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	page := errorPage{
		Title:     "Page not found",
		Message:   "The page you are looking for does not exist.",
		RequestID: logger.CorrelationIDFromContext(r.Context()),
	}
	if err := h.templates.Render(w, http.StatusNotFound, pageError, page); err != nil {
		renderFallback(w, h.logger, err)
	}
}

// renderError renders the error page for err. Nothing is written when the
// visitor has already gone away.
func (h *PageHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	if r.Context().Err() != nil {
		return
	}

	status, _, message := httputil.ErrorDetails(err)
	httputil.LogError(r, err, status, h.logger)

	page := errorPage{
		Message:   message,
		RequestID: logger.CorrelationIDFromContext(r.Context()),
	}
	switch status {
	case http.StatusNotFound:
		page.Title = "Product not found"
	case http.StatusServiceUnavailable:
		page.Title = "Loading failed"
		page.Message = "We couldn't load the catalog right now. Please try again in a moment."
		page.RetryURL = r.URL.RequestURI()
	case http.StatusBadRequest:
		page.Title = "Invalid request"
	default:
		page.Title = "Something went wrong"
	}

	if err := h.templates.Render(w, status, pageError, page); err != nil {
		renderFallback(w, h.logger, err)
	}
}

// --- Page model builders ---

func newShopPage(res listing.Result) shopPage {
	q := res.Query
	page := shopPage{
		Query:      q,
		Total:      res.Products.TotalCount,
		Page:       res.Products.Page,
		TotalPages: max(res.Products.TotalPages, 1),
	}

	for _, opt := range sortLabels {
		opt.Active = opt.Value == q.Sort
		page.Sorts = append(page.Sorts, opt)
	}

	all := q
	all.Category = ""
	all.Page = pagination.Params{Page: 1, PerPage: q.Page.PerPage}
	page.Categories = append(page.Categories, categoryChip{
		Title:  "All",
		Href:   shopURL(all),
		Active: q.Category == "",
	})
	for _, c := range res.Categories {
		cq := all
		cq.Category = c.Slug
		page.Categories = append(page.Categories, categoryChip{
			Title:  c.Title,
			Count:  c.Count,
			Href:   shopURL(cq),
			Active: q.Category == c.Slug,
		})
	}

	for _, c := range res.Products.Data {
		page.Cards = append(page.Cards, shopCard{ProductCard: c, Href: productURL(c.ID, view.DefaultDetailState())})
	}

	if res.Products.HasPrev {
		page.PrevURL = shopURL(withPage(q, res.Products.Page-1))
	}
	if res.Products.HasNext {
		page.NextURL = shopURL(withPage(q, res.Products.Page+1))
	}
	return page
}

func newProductPage(v domain.ProductView, state view.DetailState) productPage {
	page := productPage{
		View:      v,
		ToggleURL: productURL(v.ID, state.ToggleExpanded()),
	}
	if v.CategorySlug != "" {
		page.CategoryURL = shopURL(listing.Query{Category: v.CategorySlug, Page: pagination.DefaultParams()})
	}
	if state.Quantity < view.MaxQuantity {
		page.IncrementURL = productURL(v.ID, state.Increment())
	}
	if state.Quantity > 1 {
		page.DecrementURL = productURL(v.ID, state.Decrement())
	}
	for i, img := range v.Images {
		page.Thumbnails = append(page.Thumbnails, thumbnail{
			Image:    img,
			Href:     productURL(v.ID, state.SelectImage(i, len(v.Images))),
			Number:   i + 1,
			Selected: i == v.SelectedImage,
		})
	}
	return page
}

func withPage(q listing.Query, n int) listing.Query {
	q.Page.Page = n
	return q
}

func shopURL(q listing.Query) string {
	return buildURL("/shop", q.Values())
}

func productURL(id domain.ProductID, state view.DetailState) string {
	return buildURL("/product/"+url.PathEscape(id.String()), state.Values())
}

func buildURL(path string, values url.Values) string {
	if len(values) == 0 {
		return path
	}
	return path + "?" + values.Encode()
}
