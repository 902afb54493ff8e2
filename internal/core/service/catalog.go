package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/niksmo/shopsphere/internal/core/domain"
)

// Browse derives the visible catalog page for the session.
func (s *Service) Browse(ctx context.Context, sessionID string) (domain.CatalogView, error) {
	const op = "Service.Browse"

	sess, err := s.acquire(ctx, sessionID)
	if err != nil {
		return domain.CatalogView{}, fmt.Errorf("%s: %w", op, err)
	}
	defer sess.mu.Unlock()

	items := domain.Derive(s.catalog.Products(), sess.filters)
	s.clampPage(ctx, sess, len(items))
	page := domain.Paginate(items, sess.pagination)

	s.track(ctx, sessionID, domain.EventPageView, map[string]any{
		"page":        "catalog",
		"currentPage": page.CurrentPage,
		"results":     page.TotalItems,
	})

	return domain.CatalogView{
		Page:        page,
		PageWindow:  domain.PageWindow(page.CurrentPage, page.TotalPages),
		PageSizes:   slices.Clone(s.cfg.PageSizes),
		Categories:  s.catalog.Categories(),
		Filters:     sess.filters,
		ActiveCount: sess.filters.ActiveCount(s.cfg.PriceBounds),
		PriceBounds: s.cfg.PriceBounds,
	}, nil
}

func (s *Service) ProductDetail(
	ctx context.Context, sessionID string, productID int,
) (domain.ProductDetail, error) {
	const op = "Service.ProductDetail"

	p, err := s.product(productID)
	if err != nil {
		return domain.ProductDetail{}, fmt.Errorf("%s: %w", op, err)
	}

	summary := s.reviewSummary(productID)

	sess, err := s.acquire(ctx, sessionID)
	if err != nil {
		return domain.ProductDetail{}, fmt.Errorf("%s: %w", op, err)
	}
	defer sess.mu.Unlock()

	s.track(ctx, sessionID, domain.EventProductView, map[string]any{
		"productId":   p.ID,
		"productName": p.Name,
		"category":    p.Category,
	})

	return domain.ProductDetail{
		Product:      p,
		Reviews:      summary,
		InCart:       sess.cart.Contains(p.ID),
		InWishlist:   sess.wishlist.Contains(p.ID),
		InComparison: sess.comparison.Contains(p.ID),
	}, nil
}

// UpdateFilters applies u and returns to the first page.
func (s *Service) UpdateFilters(
	ctx context.Context, sessionID string, u domain.FilterUpdate,
) (domain.FilterState, error) {
	const op = "Service.UpdateFilters"

	if err := u.Validate(s.catalog); err != nil {
		return domain.FilterState{}, fmt.Errorf("%s: %w", op, err)
	}

	sess, err := s.acquire(ctx, sessionID)
	if err != nil {
		return domain.FilterState{}, fmt.Errorf("%s: %w", op, err)
	}
	defer sess.mu.Unlock()

	if u.Empty() {
		return sess.filters, nil
	}

	prev := sess.filters
	sess.filters = sess.filters.Apply(u, s.cfg.PriceBounds)
	sess.pagination = sess.pagination.FirstPage()
	s.persist(ctx, sessionID, keyFilters, sess.filters)
	s.persist(ctx, sessionID, keyPagination, sess.pagination)

	results := len(domain.Derive(s.catalog.Products(), sess.filters))
	if sess.filters.SearchTerm != prev.SearchTerm && sess.filters.SearchTerm != "" {
		s.track(ctx, sessionID, domain.EventSearch, map[string]any{
			"searchTerm":   sess.filters.SearchTerm,
			"resultsCount": results,
		})
	}
	s.track(ctx, sessionID, domain.EventFilterApplied, map[string]any{
		"category":     sess.filters.Category,
		"priceCeiling": sess.filters.PriceCeiling.InexactFloat64(),
		"sort":         string(sess.filters.Sort),
		"minRating":    sess.filters.MinRating,
		"resultsCount": results,
	})

	return sess.filters, nil
}

// ResetFilters restores the default filters and the first page.
func (s *Service) ResetFilters(ctx context.Context, sessionID string) (domain.FilterState, error) {
	const op = "Service.ResetFilters"

	sess, err := s.acquire(ctx, sessionID)
	if err != nil {
		return domain.FilterState{}, fmt.Errorf("%s: %w", op, err)
	}
	defer sess.mu.Unlock()

	sess.filters = domain.DefaultFilters(s.cfg.PriceBounds)
	sess.pagination = sess.pagination.FirstPage()
	s.persist(ctx, sessionID, keyFilters, sess.filters)
	s.persist(ctx, sessionID, keyPagination, sess.pagination)

	s.notify(sess, domain.NotificationInfo, "Filters reset", "All filters have been reset.")
	return sess.filters, nil
}

func (s *Service) UpdatePagination(
	ctx context.Context, sessionID string, u domain.PaginationUpdate,
) (domain.PaginationState, error) {
	const op = "Service.UpdatePagination"

	if u.PageSize != nil && !slices.Contains(s.cfg.PageSizes, *u.PageSize) {
		err := domain.NewValidationError(domain.FieldErrors{
			"pageSize": fmt.Sprintf("Page size must be one of %v", s.cfg.PageSizes),
		})
		return domain.PaginationState{}, fmt.Errorf("%s: %w", op, err)
	}

	sess, err := s.acquire(ctx, sessionID)
	if err != nil {
		return domain.PaginationState{}, fmt.Errorf("%s: %w", op, err)
	}
	defer sess.mu.Unlock()

	if u.PageSize != nil {
		sess.pagination = sess.pagination.WithPageSize(*u.PageSize)
	}
	if u.Page != nil {
		sess.pagination = sess.pagination.WithPage(*u.Page)
	}

	count := len(domain.Derive(s.catalog.Products(), sess.filters))
	sess.pagination = sess.pagination.Clamp(count)
	s.persist(ctx, sessionID, keyPagination, sess.pagination)

	return sess.pagination, nil
}

// clampPage keeps the stored page within the current result count.
// Must be called under sess.mu.
func (s *Service) clampPage(ctx context.Context, sess *session, count int) {
	clamped := sess.pagination.Clamp(count)
	if clamped == sess.pagination {
		return
	}
	sess.pagination = clamped
	s.persist(ctx, sess.id, keyPagination, sess.pagination)
}
