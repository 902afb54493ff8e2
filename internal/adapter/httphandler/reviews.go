package httphandler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/niksmo/shopsphere/internal/core/port"
)

// GET v1/products/{id}/reviews?rating=N (200 OK, 400 Bad request, 404 Not found)
// POST v1/products/{id}/reviews JSON ReviewInput (201 Created, 400 Bad request, 404 Not found)
// PATCH v1/reviews/{id} JSON ReviewPatch (200 OK, 400 Bad request, 404 Not found)
// DELETE v1/reviews/{id} (204 No content, 404 Not found)

type ReviewsHandler struct {
	rm port.ReviewManager
}

func RegisterReviews(mux *http.ServeMux, rm port.ReviewManager) {
	h := ReviewsHandler{rm}
	mux.HandleFunc("GET /v1/products/{id}/reviews", h.GetReviews)
	mux.HandleFunc("POST /v1/products/{id}/reviews", h.PostReview)
	mux.HandleFunc("PATCH /v1/reviews/{id}", h.PatchReview)
	mux.HandleFunc("DELETE /v1/reviews/{id}", h.DeleteReview)
}

func (h ReviewsHandler) GetReviews(w http.ResponseWriter, r *http.Request) {
	const op = "ReviewsHandler.GetReviews"
	log := slog.With("op", op)

	productID, ok := parseID(r.PathValue("id"))
	if !ok {
		writeProductNotFound(w)
		return
	}

	var rating int
	if q := r.URL.Query().Get("rating"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{
				Error: "rating must be an integer",
			})
			return
		}
		rating = n
	}

	pr, err := h.rm.ProductReviews(r.Context(), productID, rating)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, productReviewsFromDomain(pr))
}

func (h ReviewsHandler) PostReview(w http.ResponseWriter, r *http.Request) {
	const op = "ReviewsHandler.PostReview"
	log := slog.With("op", op)

	productID, ok := parseID(r.PathValue("id"))
	if !ok {
		writeProductNotFound(w)
		return
	}

	var in ReviewInput
	if !readJSON(w, r, &in) {
		return
	}

	rv, err := h.rm.SubmitReview(r.Context(), sessionID(r), in.toDomain(productID))
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusCreated, reviewFromDomain(rv))
}

func (h ReviewsHandler) PatchReview(w http.ResponseWriter, r *http.Request) {
	const op = "ReviewsHandler.PatchReview"
	log := slog.With("op", op)

	id, ok := parseID(r.PathValue("id"))
	if !ok {
		writeInvalidID(w)
		return
	}

	var patch ReviewPatch
	if !readJSON(w, r, &patch) {
		return
	}

	rv, err := h.rm.UpdateReview(r.Context(), id, patch.toDomain())
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, reviewFromDomain(rv))
}

func (h ReviewsHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	const op = "ReviewsHandler.DeleteReview"
	log := slog.With("op", op)

	id, ok := parseID(r.PathValue("id"))
	if !ok {
		writeInvalidID(w)
		return
	}

	if err := h.rm.RemoveReview(r.Context(), id); err != nil {
		writeError(w, log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
