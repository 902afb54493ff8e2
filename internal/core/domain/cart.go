package domain

import (
	"slices"

	"github.com/shopspring/decimal"
)

// MaxQuantity caps the quantity of a single cart line.
const MaxQuantity = 999

var cartMessages = messages{
	"quantity": "Quantity must be between 1 and 999",
}

// ValidateQuantity rejects quantities above MaxQuantity. Quantities
// below one are floored by the cart transitions instead.
func ValidateQuantity(qty int) error {
	fields := make(FieldErrors)
	cartMessages.check(fields, "quantity", qty, "lte=999")
	return validationError(fields)
}

func clampQuantity(qty int) int {
	return min(max(qty, 1), MaxQuantity)
}

type CartLine struct {
	Product  ProductSnapshot `json:"product"`
	Quantity int             `json:"quantity"`
}

func (l CartLine) Subtotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// A Cart holds one line per product id in insertion order.
//
// Every transition returns a new Cart; the receiver is never modified.
type Cart struct {
	Lines []CartLine `json:"lines"`
}

func (c Cart) index(productID int) int {
	return slices.IndexFunc(c.Lines, func(l CartLine) bool {
		return l.Product.ID == productID
	})
}

// Add sums qty onto an existing line or appends a new one.
// Quantities below one are treated as one and the line quantity
// saturates at MaxQuantity.
func (c Cart) Add(p ProductSnapshot, qty int) Cart {
	qty = clampQuantity(qty)
	lines := slices.Clone(c.Lines)
	if i := c.index(p.ID); i >= 0 {
		lines[i].Quantity = clampQuantity(lines[i].Quantity + qty)
		return Cart{Lines: lines}
	}
	return Cart{Lines: append(lines, CartLine{Product: p, Quantity: qty})}
}

func (c Cart) Remove(productID int) Cart {
	lines := slices.DeleteFunc(slices.Clone(c.Lines), func(l CartLine) bool {
		return l.Product.ID == productID
	})
	return Cart{Lines: lines}
}

// UpdateQuantity sets the line quantity, keeping it within
// [1, MaxQuantity].
// The line is never removed by this transition.
func (c Cart) UpdateQuantity(productID, qty int) (Cart, error) {
	i := c.index(productID)
	if i < 0 {
		return c, ErrNotFound
	}
	lines := slices.Clone(c.Lines)
	lines[i].Quantity = clampQuantity(qty)
	return Cart{Lines: lines}, nil
}

func (c Cart) Clear() Cart {
	return Cart{}
}

// Normalize repairs a cart read from outside, e.g. persisted storage:
// duplicate lines are merged and quantities kept within [1, MaxQuantity].
func (c Cart) Normalize() Cart {
	var out Cart
	for _, l := range c.Lines {
		out = out.Add(l.Product, l.Quantity)
	}
	return out
}

func (c Cart) Line(productID int) (CartLine, bool) {
	if i := c.index(productID); i >= 0 {
		return c.Lines[i], true
	}
	return CartLine{}, false
}

func (c Cart) Contains(productID int) bool {
	return c.index(productID) >= 0
}

func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Total is computed from the lines on every call.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// ItemCount is the sum of line quantities.
func (c Cart) ItemCount() int {
	var n int
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}
