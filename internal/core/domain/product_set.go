package domain

import "slices"

// ComparisonCap bounds the comparison set.
const ComparisonCap = 4

// A ProductSet is an ordered set of snapshots keyed by product id.
// It backs the wishlist (unbounded) and the comparison (bounded).
type ProductSet struct {
	Items []ProductSnapshot `json:"items"`
}

// Add appends p when it is absent and the set holds fewer than limit
// items. A limit below one means unbounded. The flag reports a change.
func (s ProductSet) Add(p ProductSnapshot, limit int) (ProductSet, bool) {
	if s.Contains(p.ID) {
		return s, false
	}
	if limit > 0 && len(s.Items) >= limit {
		return s, false
	}
	items := append(slices.Clone(s.Items), p)
	return ProductSet{Items: items}, true
}

func (s ProductSet) Remove(productID int) (ProductSet, bool) {
	if !s.Contains(productID) {
		return s, false
	}
	items := slices.DeleteFunc(slices.Clone(s.Items), func(p ProductSnapshot) bool {
		return p.ID == productID
	})
	return ProductSet{Items: items}, true
}

func (s ProductSet) Clear() ProductSet {
	return ProductSet{}
}

func (s ProductSet) Contains(productID int) bool {
	return slices.ContainsFunc(s.Items, func(p ProductSnapshot) bool {
		return p.ID == productID
	})
}

func (s ProductSet) Len() int {
	return len(s.Items)
}

func (s ProductSet) Full(limit int) bool {
	return limit > 0 && len(s.Items) >= limit
}

// Normalize drops duplicates and everything past limit.
func (s ProductSet) Normalize(limit int) ProductSet {
	var out ProductSet
	for _, p := range s.Items {
		out, _ = out.Add(p, limit)
	}
	return out
}
