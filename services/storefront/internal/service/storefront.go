package service

import (
	"context"
	"log/slog"
	"strings"

	apperrors "github.com/AarishAyaz/Wow-Pets-Palace-Marketplace/pkg/errors"
	"github.com/AarishAyaz/Wow-Pets-Palace-Marketplace/services/storefront/internal/catalog"
	"github.com/AarishAyaz/Wow-Pets-Palace-Marketplace/services/storefront/internal/domain"
	"github.com/AarishAyaz/Wow-Pets-Palace-Marketplace/services/storefront/internal/listing"
	"github.com/AarishAyaz/Wow-Pets-Palace-Marketplace/services/storefront/internal/view"
)

// CodeCatalogUnavailable is the error code reported when the catalog fetch fails.
const CodeCatalogUnavailable = "CATALOG_UNAVAILABLE"

// StorefrontService serves page visits. Every call fetches the catalog
// afresh; nothing is cached between visits.
type StorefrontService struct {
	catalog      catalog.Fetcher
	imageBaseURL string
	logger       *slog.Logger
}

// NewStorefrontService creates a new storefront service.
func NewStorefrontService(fetcher catalog.Fetcher, imageBaseURL string, logger *slog.Logger) *StorefrontService {
	return &StorefrontService{
		catalog:      fetcher,
		imageBaseURL: imageBaseURL,
		logger:       logger,
	}
}

// DetailResult is the outcome of one detail page visit. View is set only when
// Status is domain.DetailFound.
type DetailResult struct {
	Status domain.DetailStatus
	View   *domain.ProductView
	State  view.DetailState
}

// ProductDetail resolves the product with the given id and derives its view
// for state. The returned status is always terminal. A missing product yields
// a NOT_FOUND error and a failed fetch a CATALOG_UNAVAILABLE error.
func (s *StorefrontService) ProductDetail(ctx context.Context, id string, state view.DetailState) (DetailResult, error) {
	result := DetailResult{Status: domain.DetailLoading, State: state}

	id = strings.TrimSpace(id)
	if id == "" {
		result.Status = domain.DetailNotFound
		return result, apperrors.NotFound("product", id)
	}

	products, err := s.fetch(ctx)
	if err != nil {
		result.Status = domain.DetailLoadFailed
		return result, err
	}

	product, ok := view.Lookup(products, id)
	if !ok {
		s.logger.DebugContext(ctx, "product not in catalog",
			slog.String("product_id", id),
			slog.Int("catalog_size", len(products)),
		)
		result.Status = domain.DetailNotFound
		return result, apperrors.NotFound("product", id)
	}

	v := view.Detail(product, state, s.imageBaseURL)
	result.View = &v
	result.State = state.Normalize(len(v.Images))
	result.Status = domain.DetailFound
	return result, nil
}

// Shop returns one page of the filtered, sorted catalog together with the
// category chips of the full catalog.
func (s *StorefrontService) Shop(ctx context.Context, q listing.Query) (listing.Result, error) {
	products, err := s.fetch(ctx)
	if err != nil {
		return listing.Result{}, err
	}
	return listing.Search(products, q, s.imageBaseURL), nil
}

// Categories returns the distinct categories of the catalog in first-seen order.
func (s *StorefrontService) Categories(ctx context.Context) ([]domain.Category, error) {
	products, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	return listing.Categories(products), nil
}

func (s *StorefrontService) fetch(ctx context.Context) ([]domain.Product, error) {
	products, err := s.catalog.FetchAll(ctx)
	if err != nil {
		return nil, apperrors.Unavailable(CodeCatalogUnavailable, "the product catalog could not be loaded", err)
	}
	return products, nil
}
