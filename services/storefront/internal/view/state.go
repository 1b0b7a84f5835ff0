package view

import (
	"net/url"
	"strconv"
)

// Query parameter names carrying the detail page state.
const (
	ParamImage    = "img"
	ParamQuantity = "qty"
	ParamExpanded = "expanded"
)

// MaxQuantity bounds the quantity counter so that links stay sane.
const MaxQuantity = 999

// DetailState is the visitor's local state on the detail page. It has no
// effect outside the page: the cart buttons are inert.
type DetailState struct {
	SelectedImage int
	Quantity      int
	Expanded      bool
}

// DefaultDetailState is the state of a fresh visit.
func DefaultDetailState() DetailState {
	return DetailState{Quantity: 1}
}

// ParseDetailState reads the state from query parameters. Missing or
// malformed values fall back to the defaults.
func ParseDetailState(q url.Values) DetailState {
	s := DefaultDetailState()
	if v, err := strconv.Atoi(q.Get(ParamImage)); err == nil {
		s.SelectedImage = v
	}
	if v, err := strconv.Atoi(q.Get(ParamQuantity)); err == nil {
		s.Quantity = v
	}
	if v, err := strconv.ParseBool(q.Get(ParamExpanded)); err == nil {
		s.Expanded = v
	}
	return s.clampQuantity()
}

// Values encodes the state as query parameters, omitting defaults.
func (s DetailState) Values() url.Values {
	v := url.Values{}
	if s.SelectedImage > 0 {
		v.Set(ParamImage, strconv.Itoa(s.SelectedImage))
	}
	if s.Quantity > 1 {
		v.Set(ParamQuantity, strconv.Itoa(s.Quantity))
	}
	if s.Expanded {
		v.Set(ParamExpanded, "true")
	}
	return v
}

// Increment adds one to the quantity.
func (s DetailState) Increment() DetailState {
	s.Quantity++
	return s.clampQuantity()
}

// Decrement removes one from the quantity, never going below 1.
func (s DetailState) Decrement() DetailState {
	s.Quantity--
	return s.clampQuantity()
}

// ToggleExpanded flips the description expanded flag.
func (s DetailState) ToggleExpanded() DetailState {
	s.Expanded = !s.Expanded
	return s
}

// SelectImage selects image i of count. Out of range selections fall back to
// the first image.
func (s DetailState) SelectImage(i, count int) DetailState {
	s.SelectedImage = i
	return s.Normalize(count)
}

// Normalize clamps the state against a product with count images.
func (s DetailState) Normalize(count int) DetailState {
	if s.SelectedImage < 0 || s.SelectedImage >= count {
		s.SelectedImage = 0
	}
	return s.clampQuantity()
}

func (s DetailState) clampQuantity() DetailState {
	s.Quantity = max(1, min(s.Quantity, MaxQuantity))
	return s
}
