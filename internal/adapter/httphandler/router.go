package httphandler

import (
	"net/http"

	"github.com/niksmo/shopsphere/internal/core/port"
)

// A Storefront serves every route of the API.
type Storefront interface {
	port.CatalogBrowser
	port.FilterSetter
	port.CartManager
	port.Checkouter
	port.ListManager
	port.ReviewManager
	port.NotificationManager
	port.FailureRecorder
	port.AnalyticsReader
}

// NewRouter registers the routes and wraps them, outermost first, into
// session resolution, panic recovery and the JSON media type check.
func NewRouter(s Storefront) http.Handler {
	mux := http.NewServeMux()
	RegisterCatalog(mux, s, s)
	RegisterCart(mux, s, s)
	RegisterLists(mux, s)
	RegisterReviews(mux, s)
	RegisterNotifications(mux, s)
	RegisterAnalytics(mux, s)

	return Session(Recover(s)(AllowJSON(mux)))
}
