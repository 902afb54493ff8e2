package domain_test

import (
	"testing"
	"time"

	"github.com/niksmo/shopsphere/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedReviews() domain.Reviews {
	return domain.Reviews{Items: []domain.Review{
		{ID: 1, ProductID: 1, Rating: 5, Text: "Excellent product!", Author: "John Doe", Date: "2024-01-15"},
		{ID: 2, ProductID: 1, Rating: 4, Text: "Good quality", Author: "Jane Smith", Date: "2024-01-10"},
		{ID: 3, ProductID: 2, Rating: 5, Text: "Amazing!", Author: "Bob Johnson", Date: "2024-01-12"},
	}}
}

func TestReviews(t *testing.T) {
	now := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)

	t.Run("AddUsesGlobalCounter", func(t *testing.T) {
		rs, rv, err := seedReviews().Add(domain.ReviewInput{
			ProductID: 3, Rating: 4, Text: "Comfy", Author: "Ann",
		}, now)
		require.NoError(t, err)
		assert.Equal(t, 4, rv.ID)
		assert.Equal(t, "2024-02-01", rv.Date)
		assert.Len(t, rs.Items, 4)
	})

	t.Run("FirstIDIsOne", func(t *testing.T) {
		_, rv, err := domain.Reviews{}.Add(domain.ReviewInput{
			ProductID: 1, Rating: 3, Text: "Ok", Author: "Ann",
		}, now)
		require.NoError(t, err)
		assert.Equal(t, 1, rv.ID)
	})

	t.Run("RejectsBlankAuthorAndText", func(t *testing.T) {
		rs := seedReviews()
		got, _, err := rs.Add(domain.ReviewInput{ProductID: 1, Rating: 5, Text: "  ", Author: ""}, now)
		require.ErrorIs(t, err, domain.ErrValidation)

		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "author")
		assert.Contains(t, verr.Fields, "text")
		assert.Len(t, got.Items, 3)
	})

	t.Run("RejectsRatingOutOfRange", func(t *testing.T) {
		_, _, err := seedReviews().Add(domain.ReviewInput{ProductID: 1, Rating: 6, Text: "x", Author: "y"}, now)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("RejectsInvalidPatch", func(t *testing.T) {
		rating, blank := 0, " "
		_, _, err := seedReviews().Update(1, domain.ReviewPatch{Rating: &rating, Text: &blank})

		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, domain.FieldErrors{
			"rating": "Rating must be between 1 and 5",
			"text":   "Review text is required",
		}, verr.Fields)
	})

	t.Run("Update", func(t *testing.T) {
		rating := 2
		rs, rv, err := seedReviews().Update(2, domain.ReviewPatch{Rating: &rating})
		require.NoError(t, err)
		assert.Equal(t, 2, rv.Rating)
		assert.Equal(t, "Good quality", rv.Text)
		got, err := rs.Get(2)
		require.NoError(t, err)
		assert.Equal(t, 2, got.Rating)

		_, _, err = seedReviews().Update(42, domain.ReviewPatch{Rating: &rating})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Remove", func(t *testing.T) {
		rs, err := seedReviews().Remove(1)
		require.NoError(t, err)
		assert.Len(t, rs.Items, 2)

		_, err = rs.Remove(1)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestValidateRatingFilter(t *testing.T) {
	for _, rating := range []int{0, 1, 5} {
		assert.NoError(t, domain.ValidateRatingFilter(rating), rating)
	}
	for _, rating := range []int{-1, 6} {
		err := domain.ValidateRatingFilter(rating)
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr, rating)
		assert.Equal(t, "Rating filter must be between 0 and 5", verr.Fields["rating"])
	}
}

func TestSummarize(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		s := domain.Summarize(nil)
		assert.Equal(t, 0, s.Count)
		assert.Equal(t, 0.0, s.Average)
		assert.Equal(t, 0.0, s.Proportion(5))
	})

	t.Run("AverageAndDistribution", func(t *testing.T) {
		s := domain.Summarize(seedReviews().ForProduct(1))
		assert.Equal(t, 2, s.Count)
		assert.Equal(t, 4.5, s.Average)
		assert.Equal(t, 1, s.CountOf(5))
		assert.Equal(t, 1, s.CountOf(4))
		assert.Equal(t, 0, s.CountOf(1))
		assert.Equal(t, 0.5, s.Proportion(5))
	})

	t.Run("RoundsToOneDecimal", func(t *testing.T) {
		rs := []domain.Review{{Rating: 5}, {Rating: 4}, {Rating: 4}}
		assert.Equal(t, 4.3, domain.Summarize(rs).Average)
	})

	t.Run("FilterByRating", func(t *testing.T) {
		rs := seedReviews().Items
		assert.Len(t, domain.FilterByRating(rs, 5), 2)
		assert.Len(t, domain.FilterByRating(rs, 0), 3)
		assert.Empty(t, domain.FilterByRating(rs, 1))
	})
}
