package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"designhub/internal/catalog"
	"designhub/internal/render"
)

// Catalog serves the read-only component catalog.
type Catalog struct {
	svc *catalog.Service
}

// NewCatalog creates the catalog handler group.
func NewCatalog(svc *catalog.Service) *Catalog {
	return &Catalog{svc: svc}
}

// Categories lists categories with component counts.
func (c *Catalog) Categories(w http.ResponseWriter, r *http.Request) {
	cats, err := c.svc.Categories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, cats)
}

// Components lists components, filtered by ?category=<slug> when given.
func (c *Catalog) Components(w http.ResponseWriter, r *http.Request) {
	comps, err := c.svc.Components(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, comps)
}

// Component returns one component with variants and rendered documentation.
func (c *Catalog) Component(w http.ResponseWriter, r *http.Request) {
	detail, err := c.svc.Component(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, detail)
}

// Tokens lists design tokens, filtered by ?category= when given.
func (c *Catalog) Tokens(w http.ResponseWriter, r *http.Request) {
	tokens, err := c.svc.Tokens(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, tokens)
}
