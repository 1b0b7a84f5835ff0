package http

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page template names.
const (
	pageShop    = "shop.html"
	pageProduct = "product.html"
	pageError   = "error.html"
)

// Templates holds one parsed template set per page, each combined with the
// shared layout.
type Templates struct {
	pages map[string]*template.Template
}

// ParseTemplates parses the embedded page templates.
func ParseTemplates() (*Templates, error) {
	t := &Templates{pages: make(map[string]*template.Template)}
	for _, name := range []string{pageShop, pageProduct, pageError} {
		tmpl, err := template.New(name).ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		t.pages[name] = tmpl
	}
	return t, nil
}

// Render executes page with data into w. The page is rendered into a buffer
// first so a template failure never leaves a half-written response; a
// non-nil error means nothing was written.
func (t *Templates) Render(w http.ResponseWriter, status int, page string, data any) error {
	tmpl, ok := t.pages[page]
	if !ok {
		return fmt.Errorf("unknown page template %q", page)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
	return nil
}

// Check renders the error page to verify the template set is usable. It is
// registered as a readiness check.
func (t *Templates) Check(_ context.Context) error {
	tmpl, ok := t.pages[pageError]
	if !ok {
		return fmt.Errorf("error page template missing")
	}
	return tmpl.ExecuteTemplate(io.Discard, "layout", errorPage{Title: "check", Message: "check"})
}

// renderFallback writes a plain-text error when even the error page fails.
func renderFallback(w http.ResponseWriter, logger *slog.Logger, err error) {
	logger.Error("template rendering failed", slog.String("error", err.Error()))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
