package service

import (
	"context"
	"fmt"

	"github.com/niksmo/shopsphere/internal/core/domain"
)

func (s *Service) Wishlist(ctx context.Context, sessionID string) (domain.ProductSet, error) {
	const op = "Service.Wishlist"

	sess, err := s.acquire(ctx, sessionID)
	if err != nil {
		return domain.ProductSet{}, fmt.Errorf("%s: %w", op, err)
	}
	defer sess.mu.Unlock()

	return sess.wishlist, nil
}

// AddToWishlist adds the product unless it is already wishlisted.
func (s *Service) AddToWishlist(
	ctx context.Context, sessionID string, productID int,
) (domain.ProductSet, error) {
	const op = "Service.AddToWishlist"

	p, err := s.product(productID)
	if err != nil {
		return domain.ProductSet{}, fmt.Errorf("%s: %w", op, err)
	}

	sess, err := s.acquire(ctx, sessionID)
	if err != nil {
		return domain.ProductSet{}, fmt.Errorf("%s: %w", op, err)
	}
	defer sess.mu.Unlock()

	set, added := sess.wishlist.Add(p.Snapshot(), 0)
	if !added {
		return sess.wishlist, nil
	}
	sess.wishlist = set
	s.persist(ctx, sessionID, keyWishlist, sess.wishlist)

	s.notify(sess, domain.NotificationSuccess, "Added to wishlist",
		fmt.Sprintf("%s has been added to your wishlist.", p.Name))
	s.track(ctx, sessionID, domain.EventAddToWishlist, map[string]any{
		"productId":   p.ID,
		"productName": p.Name,
	})
	return sess.wishlist, nil
}

func (s *Service) RemoveFromWishlist(
	ctx context.Context, sessionID string, productID int,
) (domain.ProductSet, error) {
	const op = "Service.RemoveFromWishlist"

	sess, err := s.acquire(ctx, sessionID)
	if err != nil {
		return domain.ProductSet{}, fmt.Errorf("%s: %w", op, err)
	}
	defer sess.mu.Unlock()

	set, removed := sess.wishlist.Remove(productID)
	if !removed {
		err := fmt.Errorf("wishlist item %d: %w", productID, domain.ErrNotFound)
		return sess.wishlist, fmt.Errorf("%s: %w", op, err)
	}
	sess.wishlist = set
	s.persist(ctx, sessionID, keyWishlist, sess.wishlist)

	s.notify(sess, domain.NotificationInfo, "Removed from wishlist",
		"The item has been removed from your wishlist.")
	s.track(ctx, sessionID, domain.EventRemoveFromWishlist, map[string]any{
		"productId": productID,
	})
	return sess.wishlist, nil
}

func (s *Service) ClearWishlist(ctx context.Context, sessionID string) (domain.ProductSet, error) {
	const op = "Service.ClearWishlist"

	sess, err := s.acquire(ctx, sessionID)
	if err != nil {
		return domain.ProductSet{}, fmt.Errorf("%s: %w", op, err)
	}
	defer sess.mu.Unlock()

	sess.wishlist = sess.wishlist.Clear()
	s.forget(ctx, sessionID, keyWishlist)
	return sess.wishlist, nil
}

func (s *Service) Comparison(ctx context.Context, sessionID string) (domain.ProductSet, error) {
	const op = "Service.Comparison"

	sess, err := s.acquire(ctx, sessionID)
	if err != nil {
		return domain.ProductSet{}, fmt.Errorf("%s: %w", op, err)
	}
	defer sess.mu.Unlock()

	return sess.comparison, nil
}

// AddToComparison adds the product while the comparison holds fewer
// than ComparisonCap items. Adding to a full comparison changes nothing
// and raises a warning notification.
func (s *Service) AddToComparison(
	ctx context.Context, sessionID string, productID int,
) (domain.ProductSet, error) {
	const op = "Service.AddToComparison"

	p, err := s.product(productID)
	if err != nil {
		return domain.ProductSet{}, fmt.Errorf("%s: %w", op, err)
	}

	sess, err := s.acquire(ctx, sessionID)
	if err != nil {
		return domain.ProductSet{}, fmt.Errorf("%s: %w", op, err)
	}
	defer sess.mu.Unlock()

	if sess.comparison.Contains(p.ID) {
		return sess.comparison, nil
	}
	if sess.comparison.Full(s.cfg.ComparisonCap) {
		s.notify(sess, domain.NotificationWarning, "Comparison is full",
			fmt.Sprintf("You can compare up to %d products.", s.cfg.ComparisonCap))
		return sess.comparison, nil
	}

	sess.comparison, _ = sess.comparison.Add(p.Snapshot(), s.cfg.ComparisonCap)
	s.persist(ctx, sessionID, keyComparison, sess.comparison)

	s.track(ctx, sessionID, domain.EventComparisonAdded, map[string]any{
		"productId":      p.ID,
		"productName":    p.Name,
		"comparisonSize": sess.comparison.Len(),
	})
	return sess.comparison, nil
}

func (s *Service) RemoveFromComparison(
	ctx context.Context, sessionID string, productID int,
) (domain.ProductSet, error) {
	const op = "Service.RemoveFromComparison"

	sess, err := s.acquire(ctx, sessionID)
	if err != nil {
		return domain.ProductSet{}, fmt.Errorf("%s: %w", op, err)
	}
	defer sess.mu.Unlock()

	set, removed := sess.comparison.Remove(productID)
	if !removed {
		err := fmt.Errorf("comparison item %d: %w", productID, domain.ErrNotFound)
		return sess.comparison, fmt.Errorf("%s: %w", op, err)
	}
	sess.comparison = set
	s.persist(ctx, sessionID, keyComparison, sess.comparison)
	return sess.comparison, nil
}

func (s *Service) ClearComparison(ctx context.Context, sessionID string) (domain.ProductSet, error) {
	const op = "Service.ClearComparison"

	sess, err := s.acquire(ctx, sessionID)
	if err != nil {
		return domain.ProductSet{}, fmt.Errorf("%s: %w", op, err)
	}
	defer sess.mu.Unlock()

	sess.comparison = sess.comparison.Clear()
	s.forget(ctx, sessionID, keyComparison)
	return sess.comparison, nil
}
