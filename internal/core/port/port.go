package port

import (
	"context"
	"sync"
	"time"

	"github.com/niksmo/shopsphere/internal/core/domain"
)

type (
	runnerContextWg interface {
		Run(context.Context, context.CancelFunc, *sync.WaitGroup)
	}

	closer interface {
		Close()
	}
)

// Inbound ports, driven by the http adapter.

type CatalogBrowser interface {
	Browse(ctx context.Context, sessionID string) (domain.CatalogView, error)
	ProductDetail(ctx context.Context, sessionID string, productID int) (domain.ProductDetail, error)
	Categories() []string
}

type FilterSetter interface {
	UpdateFilters(ctx context.Context, sessionID string, u domain.FilterUpdate) (domain.FilterState, error)
	ResetFilters(ctx context.Context, sessionID string) (domain.FilterState, error)
	UpdatePagination(ctx context.Context, sessionID string, u domain.PaginationUpdate) (domain.PaginationState, error)
}

type CartManager interface {
	Cart(ctx context.Context, sessionID string) (domain.Cart, error)
	AddToCart(ctx context.Context, sessionID string, productID, qty int) (domain.Cart, error)
	RemoveFromCart(ctx context.Context, sessionID string, productID int) (domain.Cart, error)
	UpdateCartQuantity(ctx context.Context, sessionID string, productID, qty int) (domain.Cart, error)
	ClearCart(ctx context.Context, sessionID string) (domain.Cart, error)
}

type Checkouter interface {
	CheckoutState(ctx context.Context, sessionID string) (domain.CheckoutView, error)
	Checkout(ctx context.Context, sessionID string, form domain.CheckoutForm) (domain.Order, error)
	RedirectDelay() time.Duration
}

type ListManager interface {
	Wishlist(ctx context.Context, sessionID string) (domain.ProductSet, error)
	AddToWishlist(ctx context.Context, sessionID string, productID int) (domain.ProductSet, error)
	RemoveFromWishlist(ctx context.Context, sessionID string, productID int) (domain.ProductSet, error)
	ClearWishlist(ctx context.Context, sessionID string) (domain.ProductSet, error)

	Comparison(ctx context.Context, sessionID string) (domain.ProductSet, error)
	AddToComparison(ctx context.Context, sessionID string, productID int) (domain.ProductSet, error)
	RemoveFromComparison(ctx context.Context, sessionID string, productID int) (domain.ProductSet, error)
	ClearComparison(ctx context.Context, sessionID string) (domain.ProductSet, error)
	ComparisonCap() int
}

type ReviewManager interface {
	ProductReviews(ctx context.Context, productID, rating int) (domain.ProductReviews, error)
	SubmitReview(ctx context.Context, sessionID string, in domain.ReviewInput) (domain.Review, error)
	UpdateReview(ctx context.Context, id int, patch domain.ReviewPatch) (domain.Review, error)
	RemoveReview(ctx context.Context, id int) error
}

type NotificationManager interface {
	Notify(ctx context.Context, sessionID string, in domain.NotificationInput) (domain.Notification, error)
	Notifications(ctx context.Context, sessionID string) ([]domain.Notification, error)
	DismissNotification(ctx context.Context, sessionID string, id int64) error
	ClearNotifications(ctx context.Context, sessionID string) error
}

type FailureRecorder interface {
	RecordFailure(ctx context.Context, sessionID string) int
}

type AnalyticsReader interface {
	EventsSummary(ctx context.Context) (domain.EventsSummary, error)
	EventCount(ctx context.Context, name domain.EventName) (int64, error)
}

// Outbound ports, implemented by storage, analytics and kafka adapters.

// KVStorage returns domain.ErrNotFound from Get for a missing key.
type KVStorage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

type EventSink interface {
	Track(context.Context, domain.Event) error
}

type EventsLog interface {
	Summary() domain.EventsSummary
}

type EventCounter interface {
	Count(name domain.EventName) (int64, error)
}

type EventCounterProcessor interface {
	runnerContextWg
	closer
}

type EventCountsView interface {
	EventCounter
	runnerContextWg
}

type Stopper interface {
	Stop() bool
}

// A Scheduler runs f once after d unless stopped first.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Stopper
}
