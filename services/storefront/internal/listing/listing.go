// Package listing filters, sorts and paginates the fetched catalog for the
// shop page. It works on the in-memory collection of a single page visit.
package listing

import (
	"errors"
	"net/url"
	"slices"
	"strconv"
	"strings"

	apperrors "github.com/AarishAyaz/Wow-Pets-Palace-Marketplace/pkg/errors"
	"github.com/AarishAyaz/Wow-Pets-Palace-Marketplace/pkg/pagination"
	"github.com/AarishAyaz/Wow-Pets-Palace-Marketplace/pkg/slug"
	"github.com/AarishAyaz/Wow-Pets-Palace-Marketplace/pkg/validator"
	"github.com/AarishAyaz/Wow-Pets-Palace-Marketplace/services/storefront/internal/domain"
	"github.com/AarishAyaz/Wow-Pets-Palace-Marketplace/services/storefront/internal/view"
)

// Sort options.
const (
	SortCatalog   = ""
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortNameAsc   = "name_asc"
)

// Query is a parsed shop listing request.
type Query struct {
	Text     string   `json:"q,omitempty"`
	Category string   `json:"category,omitempty"`
	MinPrice *float64 `json:"min_price,omitempty" validate:"omitempty,gte=0"`
	MaxPrice *float64 `json:"max_price,omitempty" validate:"omitempty,gte=0"`
	Sort     string   `json:"sort,omitempty" validate:"omitempty,oneof=price_asc price_desc name_asc"`

	Page pagination.Params `json:"-"`
}

// ParseQuery reads q, category, min_price, max_price, sort, page and
// per_page. Unknown sort values and malformed prices are rejected; paging
// values fall back to their defaults.
func ParseQuery(values url.Values) (Query, error) {
	q := Query{
		Text:     strings.TrimSpace(values.Get("q")),
		Category: slug.Generate(values.Get("category")),
		Sort:     strings.TrimSpace(values.Get("sort")),
		Page:     pagination.FromValues(values),
	}

	var err error
	if q.MinPrice, err = parsePrice(values, "min_price"); err != nil {
		return Query{}, err
	}
	if q.MaxPrice, err = parsePrice(values, "max_price"); err != nil {
		return Query{}, err
	}

	if err := validator.Validate(q); err != nil {
		var ve *validator.ValidationError
		if errors.As(err, &ve) && len(ve.Errors) > 0 {
			fe := ve.Errors[0]
			return Query{}, apperrors.InvalidParameter(fe.Field(), ve.Fields()[fe.Field()])
		}
		return Query{}, apperrors.InvalidInput(err.Error())
	}
	if q.MinPrice != nil && q.MaxPrice != nil && *q.MinPrice > *q.MaxPrice {
		return Query{}, apperrors.InvalidParameter("min_price", "must not exceed max_price")
	}
	return q, nil
}

func parsePrice(values url.Values, name string) (*float64, error) {
	raw := strings.TrimSpace(values.Get(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, apperrors.InvalidParameter(name, "must be a number")
	}
	return &v, nil
}

// Values encodes the query, including paging, as URL parameters.
func (q Query) Values() url.Values {
	v := q.Page.Values()
	if q.Text != "" {
		v.Set("q", q.Text)
	}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.MinPrice != nil {
		v.Set("min_price", view.FormatPrice(*q.MinPrice))
	}
	if q.MaxPrice != nil {
		v.Set("max_price", view.FormatPrice(*q.MaxPrice))
	}
	if q.Sort != "" {
		v.Set("sort", q.Sort)
	}
	return v
}

// Result is one page of the shop listing.
type Result struct {
	Products   pagination.Result[domain.ProductCard] `json:"products"`
	Categories []domain.Category                     `json:"categories"`
	Query      Query                                 `json:"query"`
}

// Search filters and sorts products according to q and returns the requested
// page as cards. Category chips always cover the whole catalog.
func Search(products []domain.Product, q Query, baseURL string) Result {
	textLower := strings.ToLower(q.Text)

	matched := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if matches(p, q, textLower) {
			matched = append(matched, p)
		}
	}
	sortProducts(matched, q.Sort)

	cards := make([]domain.ProductCard, 0, len(matched))
	for _, p := range matched {
		cards = append(cards, view.Card(p, baseURL))
	}

	return Result{
		Products:   pagination.Paginate(cards, q.Page),
		Categories: Categories(products),
		Query:      q,
	}
}

func matches(p domain.Product, q Query, textLower string) bool {
	if textLower != "" &&
		!strings.Contains(strings.ToLower(p.Name), textLower) &&
		!strings.Contains(strings.ToLower(p.Description), textLower) {
		return false
	}
	if q.Category != "" && slug.Generate(p.CategoryTitle) != q.Category {
		return false
	}

	price := view.EffectivePrice(p)
	if q.MinPrice != nil && price < *q.MinPrice {
		return false
	}
	if q.MaxPrice != nil && price > *q.MaxPrice {
		return false
	}
	return true
}

// sortProducts orders products in place. Ties, and the default, keep catalog
// order.
func sortProducts(products []domain.Product, sortBy string) {
	switch sortBy {
	case SortPriceAsc:
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return cmpFloat(view.EffectivePrice(a), view.EffectivePrice(b))
		})
	case SortPriceDesc:
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return cmpFloat(view.EffectivePrice(b), view.EffectivePrice(a))
		})
	case SortNameAsc:
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		})
	}
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Categories returns the distinct category titles of products in first-seen
// order. Titles that slug to the same value are merged under the first
// spelling.
func Categories(products []domain.Product) []domain.Category {
	cats := make([]domain.Category, 0)
	index := make(map[string]int)
	for _, p := range products {
		s := slug.Generate(p.CategoryTitle)
		if s == "" {
			continue
		}
		if i, ok := index[s]; ok {
			cats[i].Count++
			continue
		}
		index[s] = len(cats)
		cats = append(cats, domain.Category{Title: p.CategoryTitle, Slug: s, Count: 1})
	}
	return cats
}
