package view

import (
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AarishAyaz/Wow-Pets-Palace-Marketplace/services/storefront/internal/domain"
)

const testBase = "https://www.wowpetspalace.com/test/"

func ptr[T any](v T) *T { return &v }

func TestLookup(t *testing.T) {
	products := []domain.Product{
		{ID: "1", Name: "first"},
		{ID: "5", Name: "five"},
		{ID: "5", Name: "duplicate five"},
		{ID: "sku-9", Name: "string id"},
	}

	tests := []struct {
		id       string
		wantName string
		found    bool
	}{
		{"5", "five", true},
		{"5.0", "", false},
		{" 1 ", "first", true},
		{"sku-9", "string id", true},
		{"6", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			p, ok := Lookup(products, tt.id)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.wantName, p.Name)
		})
	}

	_, ok := Lookup(nil, "5")
	assert.False(t, ok)
}

func TestLookup_DecodedIDs(t *testing.T) {
	var products []domain.Product
	require.NoError(t, json.Unmarshal([]byte(`[
		{"id":"007","name":"padded"},
		{"id":7,"name":"seven"},
		{"id":8.0,"name":"eight"}
	]`), &products))

	tests := []struct {
		id, wantName string
	}{
		{"7", "seven"},
		{"007", "padded"},
		{"8", "eight"},
	}
	for _, tt := range tests {
		p, ok := Lookup(products, tt.id)
		require.True(t, ok, tt.id)
		assert.Equal(t, tt.wantName, p.Name, tt.id)
	}
}

func TestResolveImage(t *testing.T) {
	tests := []struct {
		base, path, want string
	}{
		{testBase, "a.jpg", testBase + "a.jpg"},
		{testBase, "/uploads/a.jpg", testBase + "uploads/a.jpg"},
		{"https://cdn.example/test", "a.jpg", "https://cdn.example/test/a.jpg"},
		{testBase, "https://cdn.example/x.png", "https://cdn.example/x.png"},
		{testBase, "HTTP://cdn.example/x.png", "HTTP://cdn.example/x.png"},
		{testBase, "//cdn.example/x.png", "//cdn.example/x.png"},
		{testBase, "   ", ""},
		{"", "a.jpg", "a.jpg"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ResolveImage(tt.base, tt.path), "%s + %s", tt.base, tt.path)
	}
}

func TestBuildImages(t *testing.T) {
	t.Run("featured first and deduplicated", func(t *testing.T) {
		p := domain.Product{
			FeaturedImage: "a.jpg",
			Images: []domain.ImageRef{
				domain.NewPathRef("b.jpg"),
				domain.NewPathRef("a.jpg"),
				domain.NewObjectRef("url", "/b.jpg"),
				domain.NewObjectRef("src", "c.jpg"),
			},
		}
		assert.Equal(t, []string{testBase + "a.jpg", testBase + "b.jpg", testBase + "c.jpg"}, BuildImages(testBase, p))
	})

	t.Run("no featured image", func(t *testing.T) {
		p := domain.Product{Images: []domain.ImageRef{domain.NewPathRef("b.jpg")}}
		assert.Equal(t, []string{testBase + "b.jpg"}, BuildImages(testBase, p))
	})

	t.Run("no images at all", func(t *testing.T) {
		assert.Empty(t, BuildImages(testBase, domain.Product{}))
	})
}

func TestDerivePrice(t *testing.T) {
	tests := []struct {
		name           string
		original       float64
		discount       float64
		want           string
		wantDiscounted bool
	}{
		{"quarter off", 20, 25, "15.00", true},
		{"rounds to cents", 19.99, 15, "16.99", true},
		{"rounds half up", 10, 33.333, "6.67", true},
		{"no discount", 20, 0, "20", false},
		{"no discount keeps decimals", 12.5, 0, "12.5", false},
		{"negative discount ignored", 20, -5, "20", false},
		{"clamped at 100", 20, 150, "0.00", true},
		{"tiny discount leaves price unchanged", 0.01, 10, "0.01", false},
		{"free item", 0, 50, "0", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, discounted := DerivePrice(tt.original, tt.discount)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantDiscounted, discounted)
		})
	}
}

func TestTruncate(t *testing.T) {
	short := strings.Repeat("a", TruncateLimit)
	long := strings.Repeat("b", 250)
	multibyte := strings.Repeat("🐾", 201)

	got, truncatable := Truncate(short, false)
	assert.Equal(t, short, got)
	assert.False(t, truncatable)

	got, truncatable = Truncate(long, false)
	assert.True(t, truncatable)
	assert.Equal(t, TruncateLimit+len(Ellipsis), len(got))
	assert.True(t, strings.HasSuffix(got, Ellipsis))

	got, truncatable = Truncate(long, true)
	assert.True(t, truncatable)
	assert.Equal(t, long, got)

	got, _ = Truncate(multibyte, false)
	assert.Equal(t, TruncateLimit+len(Ellipsis), utf8.RuneCountInString(got))
	assert.True(t, utf8.ValidString(got))
}

func TestRatingAndReviewDefaults(t *testing.T) {
	assert.Equal(t, "4.8", RatingText(domain.Product{}))
	assert.Equal(t, 124, ReviewCount(domain.Product{}))
	assert.Equal(t, "4.0", RatingText(domain.Product{Rating: ptr(4.0)}))
	assert.Equal(t, 0, ReviewCount(domain.Product{ReviewCount: ptr(0)}))
}

// A record as the catalog sends it: id 5, price 20, 25% off, a 250 character
// description and a single featured image.
func TestDetail_CatalogScenario(t *testing.T) {
	raw := `{"id":5,"original_price":20,"discountPercentage":25,"description":"` +
		strings.Repeat("x", 250) + `","featured_image":"a.jpg"}`
	var p domain.Product
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	found, ok := Lookup([]domain.Product{p}, "5")
	require.True(t, ok)

	v := Detail(found, DefaultDetailState(), testBase)

	assert.Equal(t, "15.00", v.Price)
	assert.Equal(t, "20", v.OriginalPrice)
	assert.True(t, v.Discounted)
	assert.Equal(t, 25.0, v.DiscountPercentage)
	assert.Len(t, v.Description, 203)
	assert.True(t, v.Truncatable)
	assert.Equal(t, []string{testBase + "a.jpg"}, v.Images)
	assert.Equal(t, testBase+"a.jpg", v.MainImage)
	assert.Equal(t, "4.8", v.RatingText)
	assert.Equal(t, 124, v.ReviewCount)
	assert.True(t, v.InStock)
	assert.Equal(t, 1, v.Quantity)
	assert.Len(t, v.Features, 3)

	expanded := Detail(found, DefaultDetailState().ToggleExpanded(), testBase)
	assert.Len(t, expanded.Description, 250)
	assert.True(t, expanded.Expanded)
}

func TestDetail_StateIsClampedToProduct(t *testing.T) {
	p := domain.Product{
		ID:            "2",
		Name:          "Bird Cage",
		CategoryTitle: "Bird Supplies",
		FeaturedImage: "cage.jpg",
		Images:        []domain.ImageRef{domain.NewPathRef("cage-side.jpg")},
		OriginalPrice: 45,
	}

	v := Detail(p, DetailState{SelectedImage: 1, Quantity: 3}, testBase)
	assert.Equal(t, 1, v.SelectedImage)
	assert.Equal(t, testBase+"cage-side.jpg", v.MainImage)
	assert.Equal(t, 3, v.Quantity)
	assert.Equal(t, "45", v.Price)
	assert.False(t, v.Discounted)
	assert.Equal(t, "bird-supplies", v.CategorySlug)

	v = Detail(p, DetailState{SelectedImage: 7, Quantity: -2}, testBase)
	assert.Equal(t, 0, v.SelectedImage)
	assert.Equal(t, 1, v.Quantity)

	empty := Detail(domain.Product{ID: "3"}, DefaultDetailState(), testBase)
	assert.Empty(t, empty.MainImage)
	assert.Empty(t, empty.Images)
}

func TestCard(t *testing.T) {
	c := Card(domain.Product{
		ID:                 "8",
		Name:               "Catnip",
		CategoryTitle:      "Cat Treats",
		FeaturedImage:      "nip.jpg",
		OriginalPrice:      8,
		DiscountPercentage: 10,
		Rating:             ptr(4.66),
	}, testBase)

	assert.Equal(t, testBase+"nip.jpg", c.Image)
	assert.Equal(t, "7.20", c.Price)
	assert.Equal(t, "8", c.OriginalPrice)
	assert.True(t, c.Discounted)
	assert.Equal(t, "cat-treats", c.CategorySlug)
	assert.Equal(t, "4.7", c.RatingText)

	unchanged := Card(domain.Product{ID: "10", OriginalPrice: 0.01, DiscountPercentage: 10}, testBase)
	assert.False(t, unchanged.Discounted)
	assert.Zero(t, unchanged.DiscountPercentage)
	assert.Equal(t, "0.01", unchanged.Price)

	fallback := Card(domain.Product{ID: "9", Images: []domain.ImageRef{domain.NewPathRef("alt.jpg")}}, testBase)
	assert.Equal(t, testBase+"alt.jpg", fallback.Image)
}

func TestEffectivePrice(t *testing.T) {
	assert.Equal(t, 20.0, EffectivePrice(domain.Product{OriginalPrice: 20}))
	assert.Equal(t, 15.0, EffectivePrice(domain.Product{OriginalPrice: 20, DiscountPercentage: 25}))
	assert.Equal(t, 0.0, EffectivePrice(domain.Product{OriginalPrice: 20, DiscountPercentage: 200}))
}
