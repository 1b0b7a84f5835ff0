package listing

import (
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/AarishAyaz/Wow-Pets-Palace-Marketplace/pkg/errors"
	"github.com/AarishAyaz/Wow-Pets-Palace-Marketplace/services/storefront/internal/domain"
)

const base = "https://www.wowpetspalace.com/test/"

func catalog() []domain.Product {
	return []domain.Product{
		{ID: "1", Name: "Squeaky Bone", CategoryTitle: "Dog Toys", Description: "Rubber chew", OriginalPrice: 12},
		{ID: "2", Name: "Cat Tower", CategoryTitle: "Cat Furniture", Description: "Tall scratching post", OriginalPrice: 80, DiscountPercentage: 50},
		{ID: "3", Name: "aquarium filter", CategoryTitle: "Fish", Description: "Quiet pump", OriginalPrice: 30},
		{ID: "4", Name: "Rope Toy", CategoryTitle: "dog toys", Description: "Cotton rope for chewing", OriginalPrice: 9},
		{ID: "5", Name: "Bird Seed", CategoryTitle: "", Description: "Mixed seed", OriginalPrice: 30},
	}
}

func ids(r Result) []domain.ProductID {
	out := make([]domain.ProductID, 0, len(r.Products.Data))
	for _, c := range r.Products.Data {
		out = append(out, c.ID)
	}
	return out
}

func mustQuery(t *testing.T, raw string) Query {
	t.Helper()
	v, err := url.ParseQuery(raw)
	require.NoError(t, err)
	q, err := ParseQuery(v)
	require.NoError(t, err)
	return q
}

func TestSearch_Filters(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []domain.ProductID
	}{
		{"no filters keeps catalog order", "", []domain.ProductID{"1", "2", "3", "4", "5"}},
		{"text matches name case-insensitively", "q=TOWER", []domain.ProductID{"2"}},
		{"text matches description", "q=chew", []domain.ProductID{"1", "4"}},
		{"category slug merges spellings", "category=dog-toys", []domain.ProductID{"1", "4"}},
		{"category given as title", "category=Dog+Toys", []domain.ProductID{"1", "4"}},
		{"min price uses discounted price", "min_price=35", []domain.ProductID{"2"}},
		{"max price", "max_price=12", []domain.ProductID{"1", "4"}},
		{"no match", "q=hamster", []domain.ProductID{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Search(catalog(), mustQuery(t, tt.query), base)
			assert.Equal(t, tt.want, ids(r))
			assert.Equal(t, len(tt.want), r.Products.TotalCount)
		})
	}
}

func TestSearch_Sorting(t *testing.T) {
	tests := []struct {
		sort string
		want []domain.ProductID
	}{
		{SortPriceAsc, []domain.ProductID{"4", "1", "3", "5", "2"}},
		{SortPriceDesc, []domain.ProductID{"2", "3", "5", "1", "4"}},
		{SortNameAsc, []domain.ProductID{"3", "5", "2", "4", "1"}},
	}
	for _, tt := range tests {
		t.Run(tt.sort, func(t *testing.T) {
			r := Search(catalog(), mustQuery(t, "sort="+tt.sort), base)
			assert.Equal(t, tt.want, ids(r))
		})
	}
}

func TestSearch_Pagination(t *testing.T) {
	r := Search(catalog(), mustQuery(t, "page=2&per_page=2"), base)
	assert.Equal(t, []domain.ProductID{"3", "4"}, ids(r))
	assert.Equal(t, 5, r.Products.TotalCount)
	assert.Equal(t, 3, r.Products.TotalPages)
	assert.True(t, r.Products.HasNext)
	assert.True(t, r.Products.HasPrev)

	past := Search(catalog(), mustQuery(t, "page=9&per_page=2"), base)
	assert.Empty(t, past.Products.Data)
	assert.NotNil(t, past.Products.Data)
}

func TestSearch_CardsAreDerived(t *testing.T) {
	r := Search(catalog(), mustQuery(t, "q=tower"), base)
	require.Len(t, r.Products.Data, 1)
	assert.Equal(t, "40.00", r.Products.Data[0].Price)
	assert.Equal(t, "80", r.Products.Data[0].OriginalPrice)
	assert.True(t, r.Products.Data[0].Discounted)
}

func TestSearch_EmptyCatalog(t *testing.T) {
	r := Search(nil, mustQuery(t, ""), base)
	assert.Empty(t, r.Products.Data)
	assert.Equal(t, 0, r.Products.TotalCount)
	assert.Empty(t, r.Categories)
}

func TestCategories(t *testing.T) {
	cats := Categories(catalog())
	assert.Equal(t, []domain.Category{
		{Title: "Dog Toys", Slug: "dog-toys", Count: 2},
		{Title: "Cat Furniture", Slug: "cat-furniture", Count: 1},
		{Title: "Fish", Slug: "fish", Count: 1},
	}, cats)
}

func TestParseQuery_Invalid(t *testing.T) {
	tests := []struct {
		query string
		field string
	}{
		{"sort=random", "sort"},
		{"min_price=cheap", "min_price"},
		{"max_price=-1", "max_price"},
		{"min_price=50&max_price=10", "min_price"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			v, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			_, err = ParseQuery(v)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))

			var appErr *apperrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, "INVALID_PARAMETER", appErr.Code)
			assert.Contains(t, appErr.Message, tt.field)
		})
	}
}

func TestQuery_Values(t *testing.T) {
	q := mustQuery(t, "q=toy&category=Dog+Toys&sort=price_asc&min_price=5&page=2")
	assert.Equal(t, "category=dog-toys&min_price=5&page=2&q=toy&sort=price_asc", q.Values().Encode())
	assert.Empty(t, mustQuery(t, "").Values())
}
