package httphandler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/niksmo/shopsphere/internal/core/port"
)

// GET v1/notifications (200 OK)
// POST v1/notifications JSON NotificationInput (201 Created, 400 Bad request)
// DELETE v1/notifications/{id} (204 No content, 404 Not found)
// DELETE v1/notifications (204 No content)

type NotificationsHandler struct {
	nm port.NotificationManager
}

func RegisterNotifications(mux *http.ServeMux, nm port.NotificationManager) {
	h := NotificationsHandler{nm}
	mux.HandleFunc("GET /v1/notifications", h.GetNotifications)
	mux.HandleFunc("POST /v1/notifications", h.PostNotification)
	mux.HandleFunc("DELETE /v1/notifications/{id}", h.DeleteNotification)
	mux.HandleFunc("DELETE /v1/notifications", h.DeleteNotifications)
}

func (h NotificationsHandler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	const op = "NotificationsHandler.GetNotifications"
	log := slog.With("op", op)

	ns, err := h.nm.Notifications(r.Context(), sessionID(r))
	if err != nil {
		writeError(w, log, err)
		return
	}

	resp := Notifications{Notifications: make([]Notification, 0, len(ns))}
	for _, n := range ns {
		resp.Notifications = append(resp.Notifications, notificationFromDomain(n))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h NotificationsHandler) PostNotification(w http.ResponseWriter, r *http.Request) {
	const op = "NotificationsHandler.PostNotification"
	log := slog.With("op", op)

	var in NotificationInput
	if !readJSON(w, r, &in) {
		return
	}

	n, err := h.nm.Notify(r.Context(), sessionID(r), in.toDomain())
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusCreated, notificationFromDomain(n))
}

func (h NotificationsHandler) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	const op = "NotificationsHandler.DeleteNotification"
	log := slog.With("op", op)

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeInvalidID(w)
		return
	}

	if err := h.nm.DismissNotification(r.Context(), sessionID(r), id); err != nil {
		writeError(w, log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h NotificationsHandler) DeleteNotifications(w http.ResponseWriter, r *http.Request) {
	const op = "NotificationsHandler.DeleteNotifications"
	log := slog.With("op", op)

	if err := h.nm.ClearNotifications(r.Context(), sessionID(r)); err != nil {
		writeError(w, log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
