package domain

// DetailStatus is the state of the product detail view for one visit.
type DetailStatus string

const (
	DetailLoading    DetailStatus = "loading"
	DetailFound      DetailStatus = "found"
	DetailNotFound   DetailStatus = "not_found"
	DetailLoadFailed DetailStatus = "load_failed"
)

// Terminal reports whether no further transition can happen in this visit.
func (s DetailStatus) Terminal() bool {
	return s == DetailFound || s == DetailNotFound || s == DetailLoadFailed
}

// Feature is a static selling-point callout shown on the detail page.
type Feature struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// ProductView holds every display-ready field of the detail page. All values
// are derived from one Product and the visitor's DetailState.
type ProductView struct {
	ID                 ProductID `json:"id"`
	Name               string    `json:"name"`
	Category           string    `json:"category"`
	CategorySlug       string    `json:"category_slug,omitempty"`
	Images             []string  `json:"images"`
	SelectedImage      int       `json:"selected_image"`
	MainImage          string    `json:"main_image,omitempty"`
	Price              string    `json:"price"`
	OriginalPrice      string    `json:"original_price"`
	Discounted         bool      `json:"discounted"`
	DiscountPercentage float64   `json:"discount_percentage,omitempty"`
	Description        string    `json:"description"`
	Truncatable        bool      `json:"truncatable"`
	Expanded           bool      `json:"expanded"`
	Quantity           int       `json:"quantity"`
	RatingText         string    `json:"rating"`
	ReviewCount        int       `json:"review_count"`
	InStock            bool      `json:"in_stock"`
	Features           []Feature `json:"features"`
}

// ProductCard is a product summary for the shop listing.
type ProductCard struct {
	ID                 ProductID `json:"id"`
	Name               string    `json:"name"`
	Category           string    `json:"category"`
	CategorySlug       string    `json:"category_slug,omitempty"`
	Image              string    `json:"image,omitempty"`
	Price              string    `json:"price"`
	OriginalPrice      string    `json:"original_price"`
	Discounted         bool      `json:"discounted"`
	DiscountPercentage float64   `json:"discount_percentage,omitempty"`
	RatingText         string    `json:"rating"`
}

// Category is a distinct category title seen in the catalog.
type Category struct {
	Title string `json:"title"`
	Slug  string `json:"slug"`
	Count int    `json:"count"`
}
