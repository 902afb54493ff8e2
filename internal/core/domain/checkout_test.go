package domain_test

import (
	"testing"

	"github.com/niksmo/shopsphere/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func validForm() domain.CheckoutForm {
	return domain.CheckoutForm{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Address:   "1 Analytical St",
		City:      "London",
		ZipCode:   "12345",
	}
}

func TestCheckoutFormValidate(t *testing.T) {
	t.Run("AllEmpty", func(t *testing.T) {
		errs := domain.CheckoutForm{}.Validate()
		assert.Len(t, errs, 6)
		assert.Equal(t, "Email is required", errs["email"])
		assert.Equal(t, "Zip code is required", errs["zipCode"])
	})

	t.Run("WhitespaceOnlyIsEmpty", func(t *testing.T) {
		f := validForm()
		f.City = "   "
		errs := f.Validate()
		assert.Equal(t, domain.FieldErrors{"city": "City is required"}, errs)
	})

	t.Run("Valid", func(t *testing.T) {
		assert.Nil(t, validForm().Validate())

		f := validForm()
		f.ZipCode = "12345-6789"
		assert.Nil(t, f.Validate())
	})

	t.Run("InvalidEmail", func(t *testing.T) {
		for _, email := range []string{"ada", "ada@", "ada@example", "a da@example.com"} {
			f := validForm()
			f.Email = email
			errs := f.Validate()
			assert.Len(t, errs, 1, email)
			assert.Contains(t, errs, "email")
		}
	})

	t.Run("InvalidZip", func(t *testing.T) {
		for _, zip := range []string{"1234", "123456", "12345-67", "abcde"} {
			f := validForm()
			f.ZipCode = zip
			errs := f.Validate()
			assert.Equal(t, domain.FieldErrors{"zipCode": "Please enter a valid zip code."}, errs, zip)
		}
	})
}
