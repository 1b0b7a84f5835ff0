package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ProductID is a catalog identifier in canonical string form. JSON numbers
// are reformatted the way they print, so 5 and 5.0 are both ProductID("5")
// and match the string "5". JSON strings are kept as sent apart from
// surrounding whitespace: "007" and 7 are different products.
type ProductID string

// NormalizeID returns the identifier a path parameter or JSON string refers
// to. Only surrounding whitespace is removed.
func NormalizeID(raw string) ProductID {
	return ProductID(strings.TrimSpace(raw))
}

// numberID formats a JSON number literal as a ProductID.
func numberID(lit string) (ProductID, error) {
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return "", fmt.Errorf("product id: unusable number %s", lit)
	}
	return ProductID(strconv.FormatFloat(f, 'f', -1, 64)), nil
}

func (id ProductID) String() string { return string(id) }

// UnmarshalJSON accepts a JSON number, a JSON string or null.
func (id *ProductID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*id = ""
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("product id: %w", err)
		}
		*id = NormalizeID(s)
		return nil
	case looksNumeric(string(b)):
		v, err := numberID(string(b))
		if err != nil {
			return err
		}
		*id = v
		return nil
	default:
		return fmt.Errorf("product id: unsupported JSON value %s", b)
	}
}

// looksNumeric reports whether s is made only of characters that can appear
// in a decimal JSON number. It keeps ParseFloat from accepting "Inf", "NaN"
// or hex floats as identifiers.
func looksNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '.', r == '-', r == '+', r == 'e', r == 'E':
		default:
			return false
		}
	}
	return true
}

// Product is one catalog record after ingestion. Alternate images have
// already been normalized into ImageRefs and numeric fields hold plain,
// in-range numbers. Only the ID is required; every other field falls back to
// its zero value or display default.
type Product struct {
	ID                 ProductID  `json:"id" validate:"required"`
	Name               string     `json:"name"`
	Description        string     `json:"description"`
	CategoryTitle      string     `json:"categoryTitle"`
	FeaturedImage      string     `json:"featured_image"`
	Images             []ImageRef `json:"images,omitempty"`
	OriginalPrice      float64    `json:"original_price"`
	DiscountPercentage float64    `json:"discountPercentage"`
	Rating             *float64   `json:"rating,omitempty"`
	ReviewCount        *int       `json:"reviewCount,omitempty"`
}

// Bounds for optional numeric fields. A rating outside 0..MaxRating is
// treated as absent; discounts are clamped to 0..MaxDiscountPercentage.
const (
	MaxRating             = 5
	MaxDiscountPercentage = 100
)

// productWire is the upstream record shape. Several fields come in more than
// one spelling or type.
type productWire struct {
	ID                   ProductID       `json:"id"`
	Name                 Text            `json:"name"`
	Description          Text            `json:"description"`
	CategoryTitle        Text            `json:"categoryTitle"`
	CategoryTitleSnake   Text            `json:"category_title"`
	FeaturedImage        Text            `json:"featured_image"`
	Images               json.RawMessage `json:"images"`
	ProductImages        json.RawMessage `json:"product_images"`
	OriginalPrice        Number          `json:"original_price"`
	DiscountPercentage   Number          `json:"discountPercentage"`
	DiscountPercentSnake Number          `json:"discount_percentage"`
	Rating               Number          `json:"rating"`
	ReviewCount          Number          `json:"reviewCount"`
}

// AlternateImageFields lists the record fields that may carry additional
// images, in precedence order. The first one holding at least one usable
// entry wins.
var AlternateImageFields = []string{"images", "product_images"}

// UnmarshalJSON decodes an upstream record, normalizing ids, numbers and the
// alternate-image list. Optional fields of the wrong type or out of range are
// defaulted; only an unusable id fails the record.
func (p *Product) UnmarshalJSON(b []byte) error {
	var w productWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}

	*p = Product{
		ID:            w.ID,
		Name:          strings.TrimSpace(string(w.Name)),
		Description:   strings.TrimSpace(string(w.Description)),
		CategoryTitle: strings.TrimSpace(firstNonEmpty(string(w.CategoryTitle), string(w.CategoryTitleSnake))),
		FeaturedImage: strings.TrimSpace(string(w.FeaturedImage)),
		OriginalPrice: math.Max(w.OriginalPrice.Value, 0),
	}

	switch {
	case w.DiscountPercentage.Valid:
		p.DiscountPercentage = w.DiscountPercentage.Value
	case w.DiscountPercentSnake.Valid:
		p.DiscountPercentage = w.DiscountPercentSnake.Value
	}
	p.DiscountPercentage = math.Min(math.Max(p.DiscountPercentage, 0), MaxDiscountPercentage)

	if w.Rating.Valid && w.Rating.Value >= 0 && w.Rating.Value <= MaxRating {
		r := w.Rating.Value
		p.Rating = &r
	}
	if w.ReviewCount.Valid && w.ReviewCount.Value >= 0 && w.ReviewCount.Value <= math.MaxInt32 {
		n := int(math.Round(w.ReviewCount.Value))
		p.ReviewCount = &n
	}

	for _, raw := range []json.RawMessage{w.Images, w.ProductImages} {
		if refs := decodeImageList(raw); len(refs) > 0 {
			p.Images = refs
			break
		}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// Number is an optional numeric field that the upstream API sends either as a
// JSON number or as a numeric string. Null, empty or unparseable values leave
// Valid false instead of failing the whole record.
type Number struct {
	Value float64
	Valid bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(b []byte) error {
	*n = Number{}

	s := string(bytes.TrimSpace(b))
	if len(s) > 0 && s[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return nil
		}
		s = strings.TrimSpace(str)
	}
	if !looksNumeric(s) {
		return nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return nil
	}
	*n = Number{Value: f, Valid: true}
	return nil
}

// Text is an optional display string. Numbers keep their literal spelling;
// any other non-string value decodes as empty instead of failing the record.
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(b []byte) error {
	*t = ""

	b = bytes.TrimSpace(b)
	switch {
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err == nil {
			*t = Text(s)
		}
	case looksNumeric(string(b)):
		*t = Text(b)
	}
	return nil
}
