package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/niksmo/shopsphere/internal/core/domain"
)

// ProductReviews returns the product reviews with the given rating,
// zero meaning all. The summary always covers every review.
func (s *Service) ProductReviews(
	ctx context.Context, productID, rating int,
) (domain.ProductReviews, error) {
	const op = "Service.ProductReviews"

	if _, err := s.product(productID); err != nil {
		return domain.ProductReviews{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := domain.ValidateRatingFilter(rating); err != nil {
		return domain.ProductReviews{}, fmt.Errorf("%s: %w", op, err)
	}

	s.reviewsMu.Lock()
	all := s.reviews.ForProduct(productID)
	s.reviewsMu.Unlock()

	return domain.ProductReviews{
		Reviews: domain.FilterByRating(all, rating),
		Summary: domain.Summarize(all),
	}, nil
}

func (s *Service) reviewSummary(productID int) domain.ReviewSummary {
	s.reviewsMu.Lock()
	defer s.reviewsMu.Unlock()
	return domain.Summarize(s.reviews.ForProduct(productID))
}

func (s *Service) SubmitReview(
	ctx context.Context, sessionID string, in domain.ReviewInput,
) (domain.Review, error) {
	const op = "Service.SubmitReview"

	if _, err := s.product(in.ProductID); err != nil {
		return domain.Review{}, fmt.Errorf("%s: %w", op, err)
	}

	s.reviewsMu.Lock()
	reviews, rv, err := s.reviews.Add(in, s.clock())
	if err == nil {
		s.reviews = reviews
	}
	s.reviewsMu.Unlock()
	if err != nil {
		return domain.Review{}, fmt.Errorf("%s: %w", op, err)
	}

	sess, err := s.acquire(ctx, sessionID)
	if err != nil {
		slog.With("op", op).Warn("review stored without session", "err", err)
		return rv, nil
	}
	defer sess.mu.Unlock()

	s.notify(sess, domain.NotificationSuccess, "Review submitted",
		"Thank you for your review!")
	s.track(ctx, sessionID, domain.EventReviewSubmitted, map[string]any{
		"productId": rv.ProductID,
		"reviewId":  rv.ID,
		"rating":    rv.Rating,
	})
	return rv, nil
}

func (s *Service) UpdateReview(
	ctx context.Context, id int, patch domain.ReviewPatch,
) (domain.Review, error) {
	const op = "Service.UpdateReview"

	s.reviewsMu.Lock()
	defer s.reviewsMu.Unlock()

	reviews, rv, err := s.reviews.Update(id, patch)
	if err != nil {
		return domain.Review{}, fmt.Errorf("%s: review %d: %w", op, id, err)
	}
	s.reviews = reviews
	return rv, nil
}

func (s *Service) RemoveReview(ctx context.Context, id int) error {
	const op = "Service.RemoveReview"

	s.reviewsMu.Lock()
	defer s.reviewsMu.Unlock()

	reviews, err := s.reviews.Remove(id)
	if err != nil {
		return fmt.Errorf("%s: review %d: %w", op, id, err)
	}
	s.reviews = reviews
	return nil
}
