package httphandler

import (
	"context"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/google/uuid"
	"github.com/niksmo/shopsphere/internal/core/port"
)

// SessionHeader carries the browsing session id in both directions.
const SessionHeader = "X-Session-ID"

const maxSessionIDLen = 128

const (
	failureMessage = "Oops! Something went wrong"
	failureNotice  = "Multiple errors detected. Please refresh the page or contact support."
	noticeFailures = 3
)

type sessionKey struct{}

func AllowJSON(next http.Handler) http.Handler {
	hf := func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength == 0 {
			next.ServeHTTP(w, r)
			return
		}

		if r.Header.Get("Content-Type") != "application/json" {
			writeJSON(w, http.StatusUnsupportedMediaType, errorResponse{
				Error: "invalid media type",
			})
			return
		}

		next.ServeHTTP(w, r)
	}
	return http.HandlerFunc(hf)
}

// Session resolves the session id from [SessionHeader], minting a new
// one when the header is absent, and echoes it in the response.
func Session(next http.Handler) http.Handler {
	hf := func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(SessionHeader)
		if len(id) > maxSessionIDLen {
			writeJSON(w, http.StatusBadRequest, errorResponse{
				Error: "session id is too long",
			})
			return
		}
		if id == "" {
			id = uuid.NewString()
		}

		w.Header().Set(SessionHeader, id)
		ctx := context.WithValue(r.Context(), sessionKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
	return http.HandlerFunc(hf)
}

func sessionID(r *http.Request) string {
	id, _ := r.Context().Value(sessionKey{}).(string)
	return id
}

// Recover turns a handler panic into the generic failure response and
// counts it against the session. Must run inside [Session].
func Recover(fr port.FailureRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hf := func(w http.ResponseWriter, r *http.Request) {
			const op = "Recover"

			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if v == http.ErrAbortHandler {
					panic(v)
				}

				id := sessionID(r)
				n := fr.RecordFailure(r.Context(), id)
				slog.Error(
					"handler panicked",
					"op", op,
					"err", v,
					"session", id,
					"failures", n,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)

				resp := errorResponse{
					Error:   failureMessage,
					Actions: []action{tryAgain, goToHome},
				}
				if n >= noticeFailures {
					resp.Notice = failureNotice
				}
				writeJSON(w, http.StatusInternalServerError, resp)
			}()

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hf)
	}
}
