package httphandler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/niksmo/shopsphere/internal/core/domain"
	"github.com/niksmo/shopsphere/internal/core/port"
)

// GET v1/products (200 OK)
// GET v1/products/{id} (200 OK, 404 Not found)
// GET v1/categories (200 OK)
// PATCH v1/filters JSON FilterUpdate (200 OK, 400 Bad request)
// POST v1/filters/reset (200 OK)
// PUT v1/pagination JSON PaginationUpdate (200 OK, 400 Bad request)

type CatalogHandler struct {
	browser port.CatalogBrowser
	setter  port.FilterSetter
}

func RegisterCatalog(
	mux *http.ServeMux, browser port.CatalogBrowser, setter port.FilterSetter,
) {
	h := CatalogHandler{browser, setter}
	mux.HandleFunc("GET /v1/products", h.GetProducts)
	mux.HandleFunc("GET /v1/products/{id}", h.GetProduct)
	mux.HandleFunc("GET /v1/categories", h.GetCategories)
	mux.HandleFunc("PATCH /v1/filters", h.PatchFilters)
	mux.HandleFunc("POST /v1/filters/reset", h.ResetFilters)
	mux.HandleFunc("PUT /v1/pagination", h.PutPagination)
}

func (h CatalogHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetProducts"
	log := slog.With("op", op)

	v, err := h.browser.Browse(r.Context(), sessionID(r))
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, catalogPageFromDomain(v))
}

func (h CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetProduct"
	log := slog.With("op", op)

	id, ok := parseID(r.PathValue("id"))
	if !ok {
		writeProductNotFound(w)
		return
	}

	d, err := h.browser.ProductDetail(r.Context(), sessionID(r), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeProductNotFound(w)
			return
		}
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, productDetailFromDomain(d))
}

func writeProductNotFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, errorResponse{
		Error:   "Product not found",
		Actions: []action{backToProducts},
	})
}

func (h CatalogHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{
		"categories": h.browser.Categories(),
	})
}

func (h CatalogHandler) PatchFilters(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.PatchFilters"
	log := slog.With("op", op)

	var u FilterUpdate
	if !readJSON(w, r, &u) {
		return
	}

	f, err := h.setter.UpdateFilters(r.Context(), sessionID(r), u.toDomain())
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, filtersFromDomain(f))
}

func (h CatalogHandler) ResetFilters(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.ResetFilters"
	log := slog.With("op", op)

	f, err := h.setter.ResetFilters(r.Context(), sessionID(r))
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, filtersFromDomain(f))
}

func (h CatalogHandler) PutPagination(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.PutPagination"
	log := slog.With("op", op)

	var u PaginationUpdate
	if !readJSON(w, r, &u) {
		return
	}

	p, err := h.setter.UpdatePagination(r.Context(), sessionID(r), domain.PaginationUpdate{
		Page:     u.Page,
		PageSize: u.PageSize,
	})
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, paginationFromDomain(p))
}
