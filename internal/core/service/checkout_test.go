package service_test

import (
	"testing"
	"time"

	"github.com/niksmo/shopsphere/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validForm() domain.CheckoutForm {
	return domain.CheckoutForm{
		FirstName: "Jane",
		LastName:  "Smith",
		Email:     "jane@example.com",
		Address:   "1 Main St",
		City:      "Springfield",
		ZipCode:   "12345",
	}
}

func TestServiceCheckout(t *testing.T) {
	t.Run("EmptyCart", func(t *testing.T) {
		env := newTestEnv(t)
		v, err := env.svc.CheckoutState(t.Context(), sid)
		require.NoError(t, err)
		assert.Equal(t, domain.CheckoutStatusEmpty, v.Status)

		_, err = env.svc.Checkout(t.Context(), sid, validForm())
		require.ErrorIs(t, err, domain.ErrEmptyCart)
	})

	t.Run("InvalidForm", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.svc.AddToCart(t.Context(), sid, 1, 1)
		require.NoError(t, err)

		form := validForm()
		form.Email = "jane@"
		form.ZipCode = "1234"
		_, err = env.svc.Checkout(t.Context(), sid, form)
		require.ErrorIs(t, err, domain.ErrValidation)

		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, domain.FieldErrors{
			"email":   "Please enter a valid email address.",
			"zipCode": "Please enter a valid zip code.",
		}, verr.Fields)

		cart, err := env.svc.Cart(t.Context(), sid)
		require.NoError(t, err)
		assert.False(t, cart.IsEmpty())
	})

	t.Run("PlaceOrder", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.svc.AddToCart(t.Context(), sid, 1, 2)
		require.NoError(t, err)
		_, err = env.svc.AddToCart(t.Context(), sid, 4, 1)
		require.NoError(t, err)

		v, err := env.svc.CheckoutState(t.Context(), sid)
		require.NoError(t, err)
		require.Equal(t, domain.CheckoutStatusForm, v.Status)
		require.True(t, price("189.97").Equal(v.Total()))

		order, err := env.svc.Checkout(t.Context(), sid, validForm())
		require.NoError(t, err)
		assert.Equal(t, "order-1", order.ID)
		assert.Equal(t, 3, order.ItemCount())
		assert.True(t, price("189.97").Equal(order.Total))

		cart, err := env.svc.Cart(t.Context(), sid)
		require.NoError(t, err)
		assert.True(t, cart.IsEmpty())

		v, err = env.svc.CheckoutState(t.Context(), sid)
		require.NoError(t, err)
		assert.Equal(t, domain.CheckoutStatusConfirmed, v.Status)
		require.NotNil(t, v.Order)
		assert.True(t, price("189.97").Equal(v.Total()))

		_, err = env.svc.Checkout(t.Context(), sid, validForm())
		require.ErrorIs(t, err, domain.ErrOrderPlaced)

		env.sched.fire(3 * time.Second)

		v, err = env.svc.CheckoutState(t.Context(), sid)
		require.NoError(t, err)
		assert.Equal(t, domain.CheckoutStatusEmpty, v.Status)

		_, err = env.svc.Checkout(t.Context(), sid, validForm())
		require.ErrorIs(t, err, domain.ErrEmptyCart)
	})
}
