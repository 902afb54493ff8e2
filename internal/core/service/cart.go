package service

import (
	"context"
	"fmt"

	"github.com/niksmo/shopsphere/internal/core/domain"
)

func (s *Service) Cart(ctx context.Context, sessionID string) (domain.Cart, error) {
	const op = "Service.Cart"

	sess, err := s.acquire(ctx, sessionID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("%s: %w", op, err)
	}
	defer sess.mu.Unlock()

	return sess.cart, nil
}

// AddToCart adds qty units of the product. A quantity below one adds one
// and a quantity above domain.MaxQuantity is rejected.
func (s *Service) AddToCart(
	ctx context.Context, sessionID string, productID, qty int,
) (domain.Cart, error) {
	const op = "Service.AddToCart"

	if err := domain.ValidateQuantity(qty); err != nil {
		return domain.Cart{}, fmt.Errorf("%s: %w", op, err)
	}
	p, err := s.product(productID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("%s: %w", op, err)
	}
	qty = max(qty, 1)

	sess, err := s.acquire(ctx, sessionID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("%s: %w", op, err)
	}
	defer sess.mu.Unlock()

	sess.cart = sess.cart.Add(p.Snapshot(), qty)
	s.persist(ctx, sessionID, keyCart, sess.cart)

	s.notify(sess, domain.NotificationSuccess, "Added to cart",
		fmt.Sprintf("%s has been added to your cart.", p.Name))
	s.track(ctx, sessionID, domain.EventAddToCart, map[string]any{
		"productId":    p.ID,
		"productName":  p.Name,
		"productPrice": p.Price.InexactFloat64(),
		"quantity":     qty,
		"cartSize":     sess.cart.ItemCount(),
	})

	return sess.cart, nil
}

func (s *Service) RemoveFromCart(
	ctx context.Context, sessionID string, productID int,
) (domain.Cart, error) {
	const op = "Service.RemoveFromCart"

	sess, err := s.acquire(ctx, sessionID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("%s: %w", op, err)
	}
	defer sess.mu.Unlock()

	line, ok := sess.cart.Line(productID)
	if !ok {
		err := fmt.Errorf("cart line %d: %w", productID, domain.ErrNotFound)
		return sess.cart, fmt.Errorf("%s: %w", op, err)
	}

	sess.cart = sess.cart.Remove(productID)
	s.persist(ctx, sessionID, keyCart, sess.cart)

	s.notify(sess, domain.NotificationInfo, "Removed from cart",
		fmt.Sprintf("%s has been removed from your cart.", line.Product.Name))
	s.track(ctx, sessionID, domain.EventRemoveFromCart, map[string]any{
		"productId":   line.Product.ID,
		"productName": line.Product.Name,
		"quantity":    line.Quantity,
	})

	return sess.cart, nil
}

// UpdateCartQuantity sets the line quantity. A quantity below one
// keeps the line with quantity one.
func (s *Service) UpdateCartQuantity(
	ctx context.Context, sessionID string, productID, qty int,
) (domain.Cart, error) {
	const op = "Service.UpdateCartQuantity"

	if err := domain.ValidateQuantity(qty); err != nil {
		return domain.Cart{}, fmt.Errorf("%s: %w", op, err)
	}

	sess, err := s.acquire(ctx, sessionID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("%s: %w", op, err)
	}
	defer sess.mu.Unlock()

	cart, err := sess.cart.UpdateQuantity(productID, qty)
	if err != nil {
		err = fmt.Errorf("cart line %d: %w", productID, err)
		return sess.cart, fmt.Errorf("%s: %w", op, err)
	}
	sess.cart = cart
	s.persist(ctx, sessionID, keyCart, sess.cart)

	return sess.cart, nil
}

func (s *Service) ClearCart(ctx context.Context, sessionID string) (domain.Cart, error) {
	const op = "Service.ClearCart"

	sess, err := s.acquire(ctx, sessionID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("%s: %w", op, err)
	}
	defer sess.mu.Unlock()

	sess.cart = sess.cart.Clear()
	s.forget(ctx, sessionID, keyCart)

	return sess.cart, nil
}
