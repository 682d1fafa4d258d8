package tiers

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrIndexOutOfRange  = errors.New("tier index out of range")
	ErrOutOfOrder       = errors.New("quantity breaks ascending order")
	ErrNoVariants       = errors.New("price matrix needs at least one variant")
	ErrDuplicateVariant = errors.New("variant already in price matrix")
	ErrMisaligned       = errors.New("price matrix rows are not column aligned")
	ErrPriceMismatch    = errors.New("same-price column holds differing prices")
)

// OutOfOrderError reports a rejected quantity together with the open interval it
// had to fall into. Unbounded sides are math.MaxInt.
type OutOfOrderError struct {
	Index    int
	Quantity int
	Lower    int
	Upper    int
}

func (e *OutOfOrderError) Error() string {
	if e.Upper == math.MaxInt {
		return fmt.Sprintf("quantity %d at index %d must be greater than %d", e.Quantity, e.Index, e.Lower)
	}
	return fmt.Sprintf("quantity %d at index %d must be greater than %d and less than %d",
		e.Quantity, e.Index, e.Lower, e.Upper)
}

func (e *OutOfOrderError) Is(target error) bool { return target == ErrOutOfOrder }

// checkOrder validates q as the new value at index i of the ascending sequence qs.
// The first position is bounded below by 0 because quantities start at 1.
func checkOrder(qs []int, i, q int) error {
	lower, upper := 0, math.MaxInt
	if i > 0 {
		lower = qs[i-1]
	}
	if i < len(qs)-1 {
		upper = qs[i+1]
	}
	if q <= lower || q >= upper {
		return &OutOfOrderError{Index: i, Quantity: q, Lower: lower, Upper: upper}
	}
	return nil
}

// checkAscending reports the first position that breaks strict ascending order.
func checkAscending(qs []int) error {
	for i, q := range qs {
		lower := 0
		if i > 0 {
			lower = qs[i-1]
		}
		if q <= lower {
			return &OutOfOrderError{Index: i, Quantity: q, Lower: lower, Upper: math.MaxInt}
		}
	}
	return nil
}

// nextQuantity returns the quantity one above the last of qs, or 1 for an
// empty sequence.
func nextQuantity(qs []int) (int, error) {
	if len(qs) == 0 {
		return 1, nil
	}
	last := qs[len(qs)-1]
	if last == math.MaxInt {
		return 0, &OutOfOrderError{Index: len(qs), Quantity: last, Lower: last, Upper: math.MaxInt}
	}
	return last + 1, nil
}

func checkIndex(i, n int) error {
	if i < 0 || i >= n {
		return fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, i, n)
	}
	return nil
}
