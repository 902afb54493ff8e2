package httphandler

import (
	"strconv"
	"time"

	"github.com/niksmo/shopsphere/internal/core/domain"
	"github.com/shopspring/decimal"
)

const emptyCatalogMessage = "No products found matching your criteria."

func formatPrice(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

type action struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

var (
	backToProducts = action{Label: "Back to Products", Href: "/"}
	tryAgain       = action{Label: "Try Again", Href: ""}
	goToHome       = action{Label: "Go to Home", Href: "/"}
)

type errorResponse struct {
	Error   string             `json:"error"`
	Fields  domain.FieldErrors `json:"fields,omitempty"`
	Actions []action           `json:"actions,omitempty"`
	Notice  string             `json:"notice,omitempty"`
}

type (
	Product struct {
		ID             int             `json:"id"`
		Name           string          `json:"name"`
		Price          decimal.Decimal `json:"price"`
		PriceFormatted string          `json:"priceFormatted"`
		Category       string          `json:"category"`
		Image          string          `json:"image"`
		Description    string          `json:"description"`
		Rating         float64         `json:"rating"`
	}

	Filters struct {
		SearchTerm   string          `json:"searchTerm"`
		Category     string          `json:"category"`
		PriceCeiling decimal.Decimal `json:"priceCeiling"`
		Sort         string          `json:"sort"`
		MinRating    float64         `json:"minRating"`
	}

	FilterUpdate struct {
		SearchTerm   *string          `json:"searchTerm"`
		Category     *string          `json:"category"`
		PriceCeiling *decimal.Decimal `json:"priceCeiling"`
		Sort         *string          `json:"sort"`
		MinRating    *float64         `json:"minRating"`
	}

	Pagination struct {
		CurrentPage int `json:"currentPage"`
		PageSize    int `json:"pageSize"`
	}

	PaginationUpdate struct {
		Page     *int `json:"page"`
		PageSize *int `json:"pageSize"`
	}

	PriceBounds struct {
		Min decimal.Decimal `json:"min"`
		Max decimal.Decimal `json:"max"`
	}

	CatalogPage struct {
		Products      []Product   `json:"products"`
		TotalItems    int         `json:"totalItems"`
		TotalPages    int         `json:"totalPages"`
		CurrentPage   int         `json:"currentPage"`
		PageSize      int         `json:"pageSize"`
		PageWindow    []int       `json:"pageWindow"`
		HasPrev       bool        `json:"hasPrev"`
		HasNext       bool        `json:"hasNext"`
		PageSizes     []int       `json:"pageSizes"`
		Categories    []string    `json:"categories"`
		Filters       Filters     `json:"filters"`
		ActiveFilters int         `json:"activeFilters"`
		PriceBounds   PriceBounds `json:"priceBounds"`
		EmptyMessage  string      `json:"emptyMessage,omitempty"`
	}

	ReviewSummary struct {
		Count        int                         `json:"count"`
		Average      float64                     `json:"average"`
		Distribution [domain.MaxReviewRating]int `json:"distribution"`
	}

	ProductDetail struct {
		Product      Product       `json:"product"`
		Reviews      ReviewSummary `json:"reviews"`
		InCart       bool          `json:"inCart"`
		InWishlist   bool          `json:"inWishlist"`
		InComparison bool          `json:"inComparison"`
	}
)

func productFromDomain(p domain.Product) Product {
	return Product{
		ID:             p.ID,
		Name:           p.Name,
		Price:          p.Price,
		PriceFormatted: formatPrice(p.Price),
		Category:       p.Category,
		Image:          p.Image,
		Description:    p.Description,
		Rating:         p.Rating,
	}
}

func snapshotFromDomain(p domain.ProductSnapshot) Product {
	return productFromDomain(domain.Product{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Category:    p.Category,
		Image:       p.Image,
		Description: p.Description,
		Rating:      p.Rating,
	})
}

func filtersFromDomain(f domain.FilterState) Filters {
	return Filters{
		SearchTerm:   f.SearchTerm,
		Category:     f.Category,
		PriceCeiling: f.PriceCeiling,
		Sort:         string(f.Sort),
		MinRating:    f.MinRating,
	}
}

func (u FilterUpdate) toDomain() domain.FilterUpdate {
	du := domain.FilterUpdate{
		SearchTerm:   u.SearchTerm,
		Category:     u.Category,
		PriceCeiling: u.PriceCeiling,
		MinRating:    u.MinRating,
	}
	if u.Sort != nil {
		sort := domain.SortOrder(*u.Sort)
		du.Sort = &sort
	}
	return du
}

func paginationFromDomain(p domain.PaginationState) Pagination {
	return Pagination{CurrentPage: p.CurrentPage, PageSize: p.PageSize}
}

func catalogPageFromDomain(v domain.CatalogView) CatalogPage {
	products := make([]Product, 0, len(v.Page.Items))
	for _, p := range v.Page.Items {
		products = append(products, productFromDomain(p))
	}

	resp := CatalogPage{
		Products:      products,
		TotalItems:    v.Page.TotalItems,
		TotalPages:    v.Page.TotalPages,
		CurrentPage:   v.Page.CurrentPage,
		PageSize:      v.Page.PageSize,
		PageWindow:    v.PageWindow,
		HasPrev:       v.Page.HasPrev(),
		HasNext:       v.Page.HasNext(),
		PageSizes:     v.PageSizes,
		Categories:    v.Categories,
		Filters:       filtersFromDomain(v.Filters),
		ActiveFilters: v.ActiveCount,
		PriceBounds:   PriceBounds{Min: v.PriceBounds.Min, Max: v.PriceBounds.Max},
	}
	if v.Page.Empty() {
		resp.EmptyMessage = emptyCatalogMessage
	}
	return resp
}

func reviewSummaryFromDomain(s domain.ReviewSummary) ReviewSummary {
	return ReviewSummary{
		Count:        s.Count,
		Average:      s.Average,
		Distribution: s.Distribution,
	}
}

func productDetailFromDomain(d domain.ProductDetail) ProductDetail {
	return ProductDetail{
		Product:      productFromDomain(d.Product),
		Reviews:      reviewSummaryFromDomain(d.Reviews),
		InCart:       d.InCart,
		InWishlist:   d.InWishlist,
		InComparison: d.InComparison,
	}
}

type (
	CartLine struct {
		Product           Product         `json:"product"`
		Quantity          int             `json:"quantity"`
		Subtotal          decimal.Decimal `json:"subtotal"`
		SubtotalFormatted string          `json:"subtotalFormatted"`
	}

	Cart struct {
		Lines          []CartLine      `json:"lines"`
		ItemCount      int             `json:"itemCount"`
		Total          decimal.Decimal `json:"total"`
		TotalFormatted string          `json:"totalFormatted"`
	}

	CartItem struct {
		ProductID int  `json:"productId"`
		Quantity  *int `json:"quantity"`
	}

	CartQuantity struct {
		Quantity int `json:"quantity"`
	}
)

func cartLinesFromDomain(lines []domain.CartLine) []CartLine {
	out := make([]CartLine, 0, len(lines))
	for _, l := range lines {
		sub := l.Subtotal()
		out = append(out, CartLine{
			Product:           snapshotFromDomain(l.Product),
			Quantity:          l.Quantity,
			Subtotal:          sub,
			SubtotalFormatted: formatPrice(sub),
		})
	}
	return out
}

func cartFromDomain(c domain.Cart) Cart {
	total := c.Total()
	return Cart{
		Lines:          cartLinesFromDomain(c.Lines),
		ItemCount:      c.ItemCount(),
		Total:          total,
		TotalFormatted: formatPrice(total),
	}
}

type (
	CheckoutForm struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email"`
		Address   string `json:"address"`
		City      string `json:"city"`
		ZipCode   string `json:"zipCode"`
	}

	Order struct {
		ID             string          `json:"id"`
		Lines          []CartLine      `json:"lines"`
		ItemCount      int             `json:"itemCount"`
		Total          decimal.Decimal `json:"total"`
		TotalFormatted string          `json:"totalFormatted"`
		Email          string          `json:"email"`
		PlacedAt       time.Time       `json:"placedAt"`
		RedirectTo     string          `json:"redirectTo"`
		RedirectAfter  int64           `json:"redirectAfterMs"`
	}

	Checkout struct {
		Status         string          `json:"status"`
		Cart           Cart            `json:"cart"`
		Order          *Order          `json:"order,omitempty"`
		Total          decimal.Decimal `json:"total"`
		TotalFormatted string          `json:"totalFormatted"`
	}
)

func (f CheckoutForm) toDomain() domain.CheckoutForm {
	return domain.CheckoutForm{
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Email:     f.Email,
		Address:   f.Address,
		City:      f.City,
		ZipCode:   f.ZipCode,
	}
}

func orderFromDomain(o domain.Order, redirectDelay time.Duration) Order {
	return Order{
		ID:             o.ID,
		Lines:          cartLinesFromDomain(o.Lines),
		ItemCount:      o.ItemCount(),
		Total:          o.Total,
		TotalFormatted: formatPrice(o.Total),
		Email:          o.Customer.Email,
		PlacedAt:       o.PlacedAt,
		RedirectTo:     "/",
		RedirectAfter:  redirectDelay.Milliseconds(),
	}
}

func checkoutFromDomain(v domain.CheckoutView, redirectDelay time.Duration) Checkout {
	total := v.Total()
	resp := Checkout{
		Status:         string(v.Status),
		Cart:           cartFromDomain(v.Cart),
		Total:          total,
		TotalFormatted: formatPrice(total),
	}
	if v.Order != nil {
		o := orderFromDomain(*v.Order, redirectDelay)
		resp.Order = &o
	}
	return resp
}

type (
	ProductList struct {
		Items    []Product `json:"items"`
		Count    int       `json:"count"`
		Capacity int       `json:"capacity,omitempty"`
		Full     bool      `json:"full,omitempty"`
	}

	ListItem struct {
		ProductID int `json:"productId"`
	}
)

func productListFromDomain(s domain.ProductSet) ProductList {
	items := make([]Product, 0, s.Len())
	for _, p := range s.Items {
		items = append(items, snapshotFromDomain(p))
	}
	return ProductList{Items: items, Count: s.Len()}
}

type (
	Review struct {
		ID        int    `json:"id"`
		ProductID int    `json:"productId"`
		Rating    int    `json:"rating"`
		Text      string `json:"text"`
		Author    string `json:"author"`
		Date      string `json:"date"`
	}

	ReviewInput struct {
		Rating int    `json:"rating"`
		Text   string `json:"text"`
		Author string `json:"author"`
	}

	ReviewPatch struct {
		Rating *int    `json:"rating"`
		Text   *string `json:"text"`
		Author *string `json:"author"`
	}

	ProductReviews struct {
		Reviews []Review      `json:"reviews"`
		Summary ReviewSummary `json:"summary"`
	}
)

func reviewFromDomain(r domain.Review) Review {
	return Review{
		ID:        r.ID,
		ProductID: r.ProductID,
		Rating:    r.Rating,
		Text:      r.Text,
		Author:    r.Author,
		Date:      r.Date,
	}
}

func productReviewsFromDomain(pr domain.ProductReviews) ProductReviews {
	reviews := make([]Review, 0, len(pr.Reviews))
	for _, r := range pr.Reviews {
		reviews = append(reviews, reviewFromDomain(r))
	}
	return ProductReviews{
		Reviews: reviews,
		Summary: reviewSummaryFromDomain(pr.Summary),
	}
}

func (in ReviewInput) toDomain(productID int) domain.ReviewInput {
	return domain.ReviewInput{
		ProductID: productID,
		Rating:    in.Rating,
		Text:      in.Text,
		Author:    in.Author,
	}
}

func (p ReviewPatch) toDomain() domain.ReviewPatch {
	return domain.ReviewPatch{Rating: p.Rating, Text: p.Text, Author: p.Author}
}

type (
	Notification struct {
		ID         int64     `json:"id"`
		Type       string    `json:"type"`
		Title      string    `json:"title"`
		Message    string    `json:"message"`
		DurationMs int64     `json:"durationMs"`
		Sticky     bool      `json:"sticky"`
		CreatedAt  time.Time `json:"createdAt"`
	}

	NotificationInput struct {
		Type       string `json:"type"`
		Title      string `json:"title"`
		Message    string `json:"message"`
		DurationMs *int64 `json:"durationMs"`
	}

	Notifications struct {
		Notifications []Notification `json:"notifications"`
	}
)

func notificationFromDomain(n domain.Notification) Notification {
	return Notification{
		ID:         n.ID,
		Type:       string(n.Type),
		Title:      n.Title,
		Message:    n.Message,
		DurationMs: n.Duration.Milliseconds(),
		Sticky:     n.Sticky(),
		CreatedAt:  n.CreatedAt,
	}
}

func (in NotificationInput) toDomain() domain.NotificationInput {
	dn := domain.NotificationInput{
		Type:    domain.NotificationType(in.Type),
		Title:   in.Title,
		Message: in.Message,
	}
	if in.DurationMs != nil {
		d := time.Duration(*in.DurationMs) * time.Millisecond
		dn.Duration = &d
	}
	return dn
}

type (
	EventsSummary struct {
		Total  int            `json:"total"`
		ByType map[string]int `json:"byType"`
		Start  *time.Time     `json:"start,omitempty"`
		End    *time.Time     `json:"end,omitempty"`
	}

	EventCount struct {
		Name  string `json:"name"`
		Count int64  `json:"count"`
	}
)

func eventsSummaryFromDomain(s domain.EventsSummary) EventsSummary {
	resp := EventsSummary{Total: s.Total, ByType: make(map[string]int, len(s.ByType))}
	for name, n := range s.ByType {
		resp.ByType[string(name)] = n
	}
	if !s.Start.IsZero() {
		resp.Start = &s.Start
	}
	if !s.End.IsZero() {
		resp.End = &s.End
	}
	return resp
}

func parseID(s string) (int, bool) {
	id, err := strconv.Atoi(s)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}
