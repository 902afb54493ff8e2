package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/niksmo/shopsphere/internal/core/domain"
)

// CheckoutState reports the session's checkout status. The confirmed
// status lasts until the redirect delay elapses.
func (s *Service) CheckoutState(ctx context.Context, sessionID string) (domain.CheckoutView, error) {
	const op = "Service.CheckoutState"

	sess, err := s.acquire(ctx, sessionID)
	if err != nil {
		return domain.CheckoutView{}, fmt.Errorf("%s: %w", op, err)
	}
	defer sess.mu.Unlock()

	v := domain.CheckoutView{Cart: sess.cart}
	switch {
	case sess.order != nil:
		order := *sess.order
		v.Status = domain.CheckoutStatusConfirmed
		v.Order = &order
	case sess.cart.IsEmpty():
		v.Status = domain.CheckoutStatusEmpty
	default:
		v.Status = domain.CheckoutStatusForm
		s.track(ctx, sessionID, domain.EventCheckoutStart, map[string]any{
			"cartSize":   sess.cart.ItemCount(),
			"totalValue": sess.cart.Total().InexactFloat64(),
		})
	}
	return v, nil
}

// Checkout places an order for the session cart and empties it.
func (s *Service) Checkout(
	ctx context.Context, sessionID string, form domain.CheckoutForm,
) (domain.Order, error) {
	const op = "Service.Checkout"

	sess, err := s.acquire(ctx, sessionID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}
	defer sess.mu.Unlock()

	if sess.order != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, domain.ErrOrderPlaced)
	}
	if sess.cart.IsEmpty() {
		s.notify(sess, domain.NotificationError, "Checkout failed",
			"Your cart is empty. Add items before checking out.")
		return domain.Order{}, fmt.Errorf("%s: %w", op, domain.ErrEmptyCart)
	}
	if fields := form.Validate(); fields != nil {
		err := domain.NewValidationError(fields)
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	order := domain.Order{
		ID:       s.newID(),
		Lines:    slices.Clone(sess.cart.Lines),
		Total:    sess.cart.Total(),
		Customer: form,
		PlacedAt: s.clock(),
	}

	sess.cart = sess.cart.Clear()
	s.forget(ctx, sessionID, keyCart)

	sess.order = &order
	if !sess.closed {
		sess.redirect = s.schedule(s.cfg.RedirectDelay, func() {
			s.completeRedirect(sess, order.ID)
		})
	}

	s.notify(sess, domain.NotificationSuccess, "Order confirmed",
		"Order placed successfully!")
	s.track(ctx, sessionID, domain.EventCheckoutComplete, map[string]any{
		"orderId":    order.ID,
		"itemCount":  order.ItemCount(),
		"totalValue": order.Total.InexactFloat64(),
	})

	return order, nil
}

// completeRedirect leaves the confirmed state of the given order.
func (s *Service) completeRedirect(sess *session, orderID string) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.order == nil || sess.order.ID != orderID {
		return
	}
	sess.order = nil
	sess.redirect = nil
}
