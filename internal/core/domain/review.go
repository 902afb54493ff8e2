package domain

import (
	"math"
	"slices"
	"time"
)

const (
	MinReviewRating = 1
	MaxReviewRating = 5

	reviewDateLayout = time.DateOnly
)

type Review struct {
	ID        int
	ProductID int
	Rating    int
	Text      string
	Author    string
	Date      string
}

type ReviewInput struct {
	ProductID int    `json:"productId"`
	Rating    int    `json:"rating" validate:"gte=1,lte=5"`
	Text      string `json:"text" validate:"notblank"`
	Author    string `json:"author" validate:"notblank"`
}

var reviewMessages = messages{
	"author": "Author is required",
	"text":   "Review text is required",
	"rating": "Rating must be between 1 and 5",
}

func (in ReviewInput) Validate() error {
	return validationError(reviewMessages.fieldErrors(validate.Struct(in)))
}

// A ReviewPatch holds the review fields to change. Nil fields are kept.
type ReviewPatch struct {
	Rating *int
	Text   *string
	Author *string
}

func (p ReviewPatch) Validate() error {
	fields := make(FieldErrors)
	if p.Rating != nil {
		reviewMessages.check(fields, "rating", *p.Rating, "gte=1,lte=5")
	}
	if p.Text != nil {
		reviewMessages.check(fields, "text", *p.Text, "notblank")
	}
	if p.Author != nil {
		reviewMessages.check(fields, "author", *p.Author, "notblank")
	}
	return validationError(fields)
}

var ratingFilterMessages = messages{
	"rating": "Rating filter must be between 0 and 5",
}

// ValidateRatingFilter accepts a star rating or zero for all ratings.
func ValidateRatingFilter(rating int) error {
	fields := make(FieldErrors)
	ratingFilterMessages.check(fields, "rating", rating, "gte=0,lte=5")
	return validationError(fields)
}

func validRating(r int) bool {
	return r >= MinReviewRating && r <= MaxReviewRating
}

// Reviews is the append-only review list shared by every product.
type Reviews struct {
	Items []Review
}

// NextID is the highest existing id plus one. The counter is global
// across products.
func (r Reviews) NextID() int {
	var maxID int
	for _, rv := range r.Items {
		maxID = max(maxID, rv.ID)
	}
	return maxID + 1
}

func (r Reviews) Add(in ReviewInput, now time.Time) (Reviews, Review, error) {
	if err := in.Validate(); err != nil {
		return r, Review{}, err
	}
	rv := Review{
		ID:        r.NextID(),
		ProductID: in.ProductID,
		Rating:    in.Rating,
		Text:      in.Text,
		Author:    in.Author,
		Date:      now.Format(reviewDateLayout),
	}
	items := append(slices.Clone(r.Items), rv)
	return Reviews{Items: items}, rv, nil
}

func (r Reviews) Update(id int, patch ReviewPatch) (Reviews, Review, error) {
	i := slices.IndexFunc(r.Items, func(rv Review) bool { return rv.ID == id })
	if i < 0 {
		return r, Review{}, ErrNotFound
	}
	if err := patch.Validate(); err != nil {
		return r, Review{}, err
	}

	items := slices.Clone(r.Items)
	rv := items[i]
	if patch.Rating != nil {
		rv.Rating = *patch.Rating
	}
	if patch.Text != nil {
		rv.Text = *patch.Text
	}
	if patch.Author != nil {
		rv.Author = *patch.Author
	}
	items[i] = rv
	return Reviews{Items: items}, rv, nil
}

func (r Reviews) Remove(id int) (Reviews, error) {
	if !slices.ContainsFunc(r.Items, func(rv Review) bool { return rv.ID == id }) {
		return r, ErrNotFound
	}
	items := slices.DeleteFunc(slices.Clone(r.Items), func(rv Review) bool {
		return rv.ID == id
	})
	return Reviews{Items: items}, nil
}

func (r Reviews) Get(id int) (Review, error) {
	for _, rv := range r.Items {
		if rv.ID == id {
			return rv, nil
		}
	}
	return Review{}, ErrNotFound
}

func (r Reviews) ForProduct(productID int) []Review {
	var out []Review
	for _, rv := range r.Items {
		if rv.ProductID == productID {
			out = append(out, rv)
		}
	}
	return out
}

// FilterByRating keeps reviews with exactly the given rating.
// A rating of zero keeps all.
func FilterByRating(reviews []Review, rating int) []Review {
	if rating == 0 {
		return slices.Clone(reviews)
	}
	var out []Review
	for _, rv := range reviews {
		if rv.Rating == rating {
			out = append(out, rv)
		}
	}
	return out
}

type ReviewSummary struct {
	Count int
	// Average is the mean rating rounded to one decimal, 0 without reviews.
	Average float64
	// Distribution holds the count for rating i at index i-1.
	Distribution [MaxReviewRating]int
}

func Summarize(reviews []Review) ReviewSummary {
	var s ReviewSummary
	var sum int
	for _, rv := range reviews {
		if !validRating(rv.Rating) {
			continue
		}
		s.Count++
		sum += rv.Rating
		s.Distribution[rv.Rating-1]++
	}
	if s.Count != 0 {
		avg := float64(sum) / float64(s.Count)
		s.Average = math.Round(avg*10) / 10
	}
	return s
}

func (s ReviewSummary) CountOf(rating int) int {
	if !validRating(rating) {
		return 0
	}
	return s.Distribution[rating-1]
}

// Proportion is CountOf(rating)/Count, 0 without reviews.
func (s ReviewSummary) Proportion(rating int) float64 {
	if s.Count == 0 {
		return 0
	}
	return float64(s.CountOf(rating)) / float64(s.Count)
}
