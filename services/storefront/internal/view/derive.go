// Package view derives display-ready product views from catalog records.
// Every function here is pure: the same record and state always yield the
// same view.
package view

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/AarishAyaz/Wow-Pets-Palace-Marketplace/pkg/slug"
	"github.com/AarishAyaz/Wow-Pets-Palace-Marketplace/services/storefront/internal/domain"
)

const (
	// TruncateLimit is the number of characters shown before "read more".
	TruncateLimit = 200
	Ellipsis      = "..."

	DefaultRatingText  = "4.8"
	DefaultReviewCount = 124
)

// Features are the selling-point callouts shown on every detail page.
var Features = []domain.Feature{
	{Title: "Free Shipping", Detail: "On orders over $50"},
	{Title: "Secure Payment", Detail: "100% protected checkout"},
	{Title: "Easy Returns", Detail: "30-day return policy"},
}

// Lookup returns the first product whose identifier equals id once both are
// normalized.
func Lookup(products []domain.Product, id string) (domain.Product, bool) {
	want := domain.NormalizeID(id)
	if want == "" {
		return domain.Product{}, false
	}
	for _, p := range products {
		if p.ID == want {
			return p, true
		}
	}
	return domain.Product{}, false
}

// ResolveImage turns an image path into a full URL. Relative paths are joined
// to baseURL; absolute http(s) and protocol-relative URLs are returned as is.
func ResolveImage(baseURL, path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	lower := strings.ToLower(path)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") || strings.HasPrefix(path, "//") {
		return path
	}
	if baseURL == "" {
		return path
	}
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

// BuildImages returns the product's image URLs: the featured image first,
// then its alternate images, with exact duplicates removed.
func BuildImages(baseURL string, p domain.Product) []string {
	images := make([]string, 0, 1+len(p.Images))
	seen := make(map[string]struct{}, 1+len(p.Images))

	add := func(path string) {
		u := ResolveImage(baseURL, path)
		if u == "" {
			return
		}
		if _, dup := seen[u]; dup {
			return
		}
		seen[u] = struct{}{}
		images = append(images, u)
	}

	add(p.FeaturedImage)
	for _, ref := range p.Images {
		add(ref.Path())
	}
	return images
}

// DerivePrice returns the price to display. With a positive discount the
// original is reduced, rounded to cents and formatted with two decimals;
// otherwise the original price is formatted unchanged. Discounts above 100
// are treated as 100. discounted is false whenever the rounded price is not
// strictly below the original, so no badge is shown for a price that did not
// change.
func DerivePrice(original, discount float64) (price string, discounted bool) {
	if discount <= 0 || math.IsNaN(discount) {
		return FormatPrice(original), false
	}
	reduced := round2(original * (1 - math.Min(discount, 100)/100))
	if reduced >= original {
		return FormatPrice(original), false
	}
	return fmt.Sprintf("%.2f", reduced), true
}

// FormatPrice formats a price the way the catalog sends it: no trailing zeros.
func FormatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Truncate shortens text to TruncateLimit characters plus Ellipsis unless
// expanded is set. truncatable reports whether the text is long enough for
// the expand toggle to matter.
func Truncate(text string, expanded bool) (display string, truncatable bool) {
	if utf8.RuneCountInString(text) <= TruncateLimit {
		return text, false
	}
	if expanded {
		return text, true
	}
	runes := []rune(text)
	return string(runes[:TruncateLimit]) + Ellipsis, true
}

// RatingText formats the product rating, or DefaultRatingText when absent.
func RatingText(p domain.Product) string {
	if p.Rating == nil {
		return DefaultRatingText
	}
	return strconv.FormatFloat(*p.Rating, 'f', 1, 64)
}

// ReviewCount returns the review count, or DefaultReviewCount when absent.
func ReviewCount(p domain.Product) int {
	if p.ReviewCount == nil {
		return DefaultReviewCount
	}
	return *p.ReviewCount
}

// Detail derives the detail page view of p for the given state.
func Detail(p domain.Product, state DetailState, baseURL string) domain.ProductView {
	images := BuildImages(baseURL, p)
	state = state.Normalize(len(images))

	price, discounted := DerivePrice(p.OriginalPrice, p.DiscountPercentage)
	description, truncatable := Truncate(p.Description, state.Expanded)

	v := domain.ProductView{
		ID:            p.ID,
		Name:          p.Name,
		Category:      p.CategoryTitle,
		CategorySlug:  slug.Generate(p.CategoryTitle),
		Images:        images,
		SelectedImage: state.SelectedImage,
		Price:         price,
		OriginalPrice: FormatPrice(p.OriginalPrice),
		Discounted:    discounted,
		Description:   description,
		Truncatable:   truncatable,
		Expanded:      state.Expanded,
		Quantity:      state.Quantity,
		RatingText:    RatingText(p),
		ReviewCount:   ReviewCount(p),
		InStock:       true,
		Features:      Features,
	}
	if discounted {
		v.DiscountPercentage = math.Min(p.DiscountPercentage, 100)
	}
	if len(images) > 0 {
		v.MainImage = images[state.SelectedImage]
	}
	return v
}

// Card derives the shop listing card of p.
func Card(p domain.Product, baseURL string) domain.ProductCard {
	price, discounted := DerivePrice(p.OriginalPrice, p.DiscountPercentage)

	c := domain.ProductCard{
		ID:            p.ID,
		Name:          p.Name,
		Category:      p.CategoryTitle,
		CategorySlug:  slug.Generate(p.CategoryTitle),
		Image:         ResolveImage(baseURL, p.FeaturedImage),
		Price:         price,
		OriginalPrice: FormatPrice(p.OriginalPrice),
		Discounted:    discounted,
		RatingText:    RatingText(p),
	}
	if discounted {
		c.DiscountPercentage = math.Min(p.DiscountPercentage, 100)
	}
	if c.Image == "" && len(p.Images) > 0 {
		c.Image = ResolveImage(baseURL, p.Images[0].Path())
	}
	return c
}

// EffectivePrice is the numeric price a shopper pays, used for sorting.
func EffectivePrice(p domain.Product) float64 {
	if p.DiscountPercentage <= 0 {
		return p.OriginalPrice
	}
	return round2(p.OriginalPrice * (1 - math.Min(p.DiscountPercentage, 100)/100))
}
