package httphandler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/niksmo/shopsphere/internal/core/port"
)

// GET v1/cart (200 OK)
// POST v1/cart/items JSON CartItem (200 OK, 400 Bad request, 404 Not found)
// PATCH v1/cart/items/{id} JSON CartQuantity (200 OK, 400 Bad request, 404 Not found)
// DELETE v1/cart/items/{id} (200 OK, 404 Not found)
// DELETE v1/cart (200 OK)
// GET v1/checkout (200 OK)
// POST v1/checkout JSON CheckoutForm (201 Created, 400 Bad request, 409 Conflict)

type CartHandler struct {
	cart     port.CartManager
	checkout port.Checkouter
}

func RegisterCart(mux *http.ServeMux, cart port.CartManager, checkout port.Checkouter) {
	h := CartHandler{cart, checkout}
	mux.HandleFunc("GET /v1/cart", h.GetCart)
	mux.HandleFunc("POST /v1/cart/items", h.PostItem)
	mux.HandleFunc("PATCH /v1/cart/items/{id}", h.PatchItem)
	mux.HandleFunc("DELETE /v1/cart/items/{id}", h.DeleteItem)
	mux.HandleFunc("DELETE /v1/cart", h.DeleteCart)
	mux.HandleFunc("GET /v1/checkout", h.GetCheckout)
	mux.HandleFunc("POST /v1/checkout", h.PostCheckout)
}

func (h CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.GetCart"
	log := slog.With("op", op)

	c, err := h.cart.Cart(r.Context(), sessionID(r))
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, cartFromDomain(c))
}

// PostItem adds one unit when the quantity is omitted.
func (h CartHandler) PostItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.PostItem"
	log := slog.With("op", op)

	var item CartItem
	if !readJSON(w, r, &item) {
		return
	}
	qty := 1
	if item.Quantity != nil {
		qty = *item.Quantity
	}

	c, err := h.cart.AddToCart(r.Context(), sessionID(r), item.ProductID, qty)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, cartFromDomain(c))
}

func (h CartHandler) PatchItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.PatchItem"
	log := slog.With("op", op)

	id, ok := parseID(r.PathValue("id"))
	if !ok {
		writeInvalidID(w)
		return
	}

	var q CartQuantity
	if !readJSON(w, r, &q) {
		return
	}

	c, err := h.cart.UpdateCartQuantity(r.Context(), sessionID(r), id, q.Quantity)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, cartFromDomain(c))
}

func (h CartHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.DeleteItem"
	log := slog.With("op", op)

	id, ok := parseID(r.PathValue("id"))
	if !ok {
		writeInvalidID(w)
		return
	}

	c, err := h.cart.RemoveFromCart(r.Context(), sessionID(r), id)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, cartFromDomain(c))
}

func (h CartHandler) DeleteCart(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.DeleteCart"
	log := slog.With("op", op)

	c, err := h.cart.ClearCart(r.Context(), sessionID(r))
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, cartFromDomain(c))
}

func (h CartHandler) GetCheckout(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.GetCheckout"
	log := slog.With("op", op)

	v, err := h.checkout.CheckoutState(r.Context(), sessionID(r))
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, checkoutFromDomain(v, h.checkout.RedirectDelay()))
}

func (h CartHandler) PostCheckout(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.PostCheckout"
	log := slog.With("op", op)

	var form CheckoutForm
	if !readJSON(w, r, &form) {
		return
	}

	o, err := h.checkout.Checkout(r.Context(), sessionID(r), form.toDomain())
	if err != nil {
		writeError(w, log, err)
		return
	}

	delay := h.checkout.RedirectDelay()
	log.Info("order placed", "orderID", o.ID, "redirectAfter", delay.Round(time.Millisecond))
	writeJSON(w, http.StatusCreated, orderFromDomain(o, delay))
}
