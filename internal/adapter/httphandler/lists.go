package httphandler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/niksmo/shopsphere/internal/core/domain"
	"github.com/niksmo/shopsphere/internal/core/port"
)

// GET v1/wishlist, v1/comparison (200 OK)
// POST v1/wishlist, v1/comparison JSON ListItem (200 OK, 404 Not found)
// DELETE v1/wishlist/{id}, v1/comparison/{id} (200 OK, 404 Not found)
// DELETE v1/wishlist, v1/comparison (200 OK)

type (
	listGetFn    func(ctx context.Context, sessionID string) (domain.ProductSet, error)
	listChangeFn func(ctx context.Context, sessionID string, productID int) (domain.ProductSet, error)
)

// A listHandler serves one product list. The wishlist and the
// comparison share the routes shape and differ in the capacity only.
type listHandler struct {
	opPrefix string
	capacity int
	get      listGetFn
	add      listChangeFn
	remove   listChangeFn
	clear    listGetFn
}

func RegisterLists(mux *http.ServeMux, lm port.ListManager) {
	wishlist := listHandler{
		opPrefix: "WishlistHandler",
		get:      lm.Wishlist,
		add:      lm.AddToWishlist,
		remove:   lm.RemoveFromWishlist,
		clear:    lm.ClearWishlist,
	}
	wishlist.register(mux, "/v1/wishlist")

	comparison := listHandler{
		opPrefix: "ComparisonHandler",
		capacity: lm.ComparisonCap(),
		get:      lm.Comparison,
		add:      lm.AddToComparison,
		remove:   lm.RemoveFromComparison,
		clear:    lm.ClearComparison,
	}
	comparison.register(mux, "/v1/comparison")
}

func (h listHandler) register(mux *http.ServeMux, path string) {
	mux.HandleFunc("GET "+path, h.List)
	mux.HandleFunc("POST "+path, h.Add)
	mux.HandleFunc("DELETE "+path+"/{id}", h.Remove)
	mux.HandleFunc("DELETE "+path, h.Clear)
}

func (h listHandler) respond(w http.ResponseWriter, s domain.ProductSet) {
	resp := productListFromDomain(s)
	if h.capacity > 0 {
		resp.Capacity = h.capacity
		resp.Full = s.Full(h.capacity)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h listHandler) List(w http.ResponseWriter, r *http.Request) {
	log := slog.With("op", makeOp(h.opPrefix, "List"))

	s, err := h.get(r.Context(), sessionID(r))
	if err != nil {
		writeError(w, log, err)
		return
	}
	h.respond(w, s)
}

func (h listHandler) Add(w http.ResponseWriter, r *http.Request) {
	log := slog.With("op", makeOp(h.opPrefix, "Add"))

	var item ListItem
	if !readJSON(w, r, &item) {
		return
	}

	s, err := h.add(r.Context(), sessionID(r), item.ProductID)
	if err != nil {
		writeError(w, log, err)
		return
	}
	h.respond(w, s)
}

func (h listHandler) Remove(w http.ResponseWriter, r *http.Request) {
	log := slog.With("op", makeOp(h.opPrefix, "Remove"))

	id, ok := parseID(r.PathValue("id"))
	if !ok {
		writeInvalidID(w)
		return
	}

	s, err := h.remove(r.Context(), sessionID(r), id)
	if err != nil {
		writeError(w, log, err)
		return
	}
	h.respond(w, s)
}

func (h listHandler) Clear(w http.ResponseWriter, r *http.Request) {
	log := slog.With("op", makeOp(h.opPrefix, "Clear"))

	s, err := h.clear(r.Context(), sessionID(r))
	if err != nil {
		writeError(w, log, err)
		return
	}
	h.respond(w, s)
}

func makeOp(prefix, name string) string {
	return prefix + "." + name
}
