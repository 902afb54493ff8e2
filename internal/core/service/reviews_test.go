package service_test

import (
	"testing"

	"github.com/niksmo/shopsphere/internal/core/domain"
	"github.com/niksmo/shopsphere/internal/core/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedReviews() []domain.Review {
	return []domain.Review{
		{ID: 1, ProductID: 1, Rating: 5, Text: "Excellent product!", Author: "John Doe", Date: "2024-01-15"},
		{ID: 2, ProductID: 1, Rating: 4, Text: "Good quality", Author: "Jane Smith", Date: "2024-01-10"},
		{ID: 3, ProductID: 2, Rating: 5, Text: "Amazing!", Author: "Bob Johnson", Date: "2024-01-12"},
	}
}

func TestServiceReviews(t *testing.T) {
	t.Run("ListAndFilter", func(t *testing.T) {
		env := newTestEnv(t, service.ReviewsOpt(seedReviews()))

		pr, err := env.svc.ProductReviews(t.Context(), 1, 0)
		require.NoError(t, err)
		assert.Len(t, pr.Reviews, 2)
		assert.Equal(t, 4.5, pr.Summary.Average)

		pr, err = env.svc.ProductReviews(t.Context(), 1, 4)
		require.NoError(t, err)
		require.Len(t, pr.Reviews, 1)
		assert.Equal(t, "Jane Smith", pr.Reviews[0].Author)
		assert.Equal(t, 2, pr.Summary.Count)

		_, err = env.svc.ProductReviews(t.Context(), 1, 6)
		require.ErrorIs(t, err, domain.ErrValidation)

		_, err = env.svc.ProductReviews(t.Context(), 99, 0)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Submit", func(t *testing.T) {
		env := newTestEnv(t, service.ReviewsOpt(seedReviews()))

		rv, err := env.svc.SubmitReview(t.Context(), sid, domain.ReviewInput{
			ProductID: 3, Rating: 4, Text: "Comfortable", Author: "Ann",
		})
		require.NoError(t, err)
		assert.Equal(t, 4, rv.ID)
		assert.Equal(t, "2024-01-20", rv.Date)

		d, err := env.svc.ProductDetail(t.Context(), sid, 3)
		require.NoError(t, err)
		assert.Equal(t, 1, d.Reviews.Count)

		_, err = env.svc.SubmitReview(t.Context(), sid, domain.ReviewInput{
			ProductID: 3, Rating: 0, Text: " ", Author: "Ann",
		})
		require.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("UpdateAndRemove", func(t *testing.T) {
		env := newTestEnv(t, service.ReviewsOpt(seedReviews()))

		rating := 3
		rv, err := env.svc.UpdateReview(t.Context(), 2, domain.ReviewPatch{Rating: &rating})
		require.NoError(t, err)
		assert.Equal(t, 3, rv.Rating)
		assert.Equal(t, "Good quality", rv.Text)

		require.NoError(t, env.svc.RemoveReview(t.Context(), 2))
		require.ErrorIs(t, env.svc.RemoveReview(t.Context(), 2), domain.ErrNotFound)

		_, err = env.svc.UpdateReview(t.Context(), 2, domain.ReviewPatch{Rating: &rating})
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}
