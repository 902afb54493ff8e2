package domain

import "time"

type EventName string

const (
	EventPageView           EventName = "page_view"
	EventProductView        EventName = "product_view"
	EventAddToCart          EventName = "add_to_cart"
	EventRemoveFromCart     EventName = "remove_from_cart"
	EventAddToWishlist      EventName = "add_to_wishlist"
	EventRemoveFromWishlist EventName = "remove_from_wishlist"
	EventCheckoutStart      EventName = "checkout_start"
	EventCheckoutComplete   EventName = "checkout_complete"
	EventSearch             EventName = "search"
	EventFilterApplied      EventName = "filter_applied"
	EventReviewSubmitted    EventName = "review_submitted"
	EventComparisonAdded    EventName = "comparison_added"
)

// An Event is an analytics record. Payload must be JSON-serializable.
type Event struct {
	Name      EventName
	SessionID string
	Timestamp time.Time
	Payload   map[string]any
}

type EventsSummary struct {
	Total  int
	ByType map[EventName]int
	Start  time.Time
	End    time.Time
}
