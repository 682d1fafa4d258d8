package tiers

import (
	"github.com/shopspring/decimal"
)

// PercentUnit marks a tier amount as a percentage rather than a currency amount.
const PercentUnit = "%"

// QuantityTier is one row of a quantity discount: buying at least Quantity items
// takes Amount off, either as a percentage or in the given currency.
type QuantityTier struct {
	ID                int64           `json:"id"`
	Quantity          int             `json:"quantity"`
	Amount            decimal.Decimal `json:"amount"`
	PercentOrCurrency string          `json:"percentOrCurrency"`
}

// Equal compares tiers by value; amounts are compared numerically.
func (t QuantityTier) Equal(o QuantityTier) bool {
	return t.ID == o.ID &&
		t.Quantity == o.Quantity &&
		t.Amount.Equal(o.Amount) &&
		t.PercentOrCurrency == o.PercentOrCurrency
}

// QuantityTiers is an ascending list of quantity tiers.
type QuantityTiers []QuantityTier

// DefaultQuantityTiers returns the single row a new discount starts with.
func DefaultQuantityTiers() QuantityTiers {
	return QuantityTiers{newQuantityTier(1)}
}

func newQuantityTier(quantity int) QuantityTier {
	return QuantityTier{
		ID:                NextID(),
		Quantity:          quantity,
		Amount:            decimal.Zero,
		PercentOrCurrency: PercentUnit,
	}
}

func (t QuantityTiers) Clone() QuantityTiers {
	if t == nil {
		return nil
	}
	out := make(QuantityTiers, len(t))
	copy(out, t)
	return out
}

func (t QuantityTiers) Equal(o QuantityTiers) bool {
	if len(t) != len(o) {
		return false
	}
	for i := range t {
		if !t[i].Equal(o[i]) {
			return false
		}
	}
	return true
}

func (t QuantityTiers) Quantities() []int {
	qs := make([]int, len(t))
	for i, tier := range t {
		qs[i] = tier.Quantity
	}
	return qs
}

// Check verifies the ordering invariant: quantities start at 1 or above and
// strictly increase.
func (t QuantityTiers) Check() error {
	return checkAscending(t.Quantities())
}

// Add appends a row one quantity above the last row (or 1 for an empty list)
// with a zero percentage amount. When the last quantity is already
// math.MaxInt there is no room above it and t is returned with an
// *OutOfOrderError.
func (t QuantityTiers) Add() (QuantityTiers, error) {
	quantity, err := nextQuantity(t.Quantities())
	if err != nil {
		return t, err
	}
	out := make(QuantityTiers, len(t), len(t)+1)
	copy(out, t)
	return append(out, newQuantityTier(quantity)), nil
}

// Remove drops the row at i. Removing the only row is allowed.
func (t QuantityTiers) Remove(i int) (QuantityTiers, error) {
	if err := checkIndex(i, len(t)); err != nil {
		return t, err
	}
	out := make(QuantityTiers, 0, len(t)-1)
	out = append(out, t[:i]...)
	return append(out, t[i+1:]...), nil
}

// SetQuantity accepts q only when it lies strictly between the neighbouring
// quantities. Otherwise it returns t unchanged with an *OutOfOrderError.
// The first row is bounded below by 0 rather than left open, so quantities
// never drop under 1.
func (t QuantityTiers) SetQuantity(i, q int) (QuantityTiers, error) {
	if err := checkIndex(i, len(t)); err != nil {
		return t, err
	}
	if err := checkOrder(t.Quantities(), i, q); err != nil {
		return t, err
	}
	return t.update(i, func(tier *QuantityTier) { tier.Quantity = q }), nil
}

func (t QuantityTiers) SetAmount(i int, amount decimal.Decimal) (QuantityTiers, error) {
	if err := checkIndex(i, len(t)); err != nil {
		return t, err
	}
	return t.update(i, func(tier *QuantityTier) { tier.Amount = amount }), nil
}

func (t QuantityTiers) SetPercentOrCurrency(i int, unit string) (QuantityTiers, error) {
	if err := checkIndex(i, len(t)); err != nil {
		return t, err
	}
	return t.update(i, func(tier *QuantityTier) { tier.PercentOrCurrency = unit }), nil
}

func (t QuantityTiers) update(i int, fn func(*QuantityTier)) QuantityTiers {
	out := t.Clone()
	fn(&out[i])
	return out
}
