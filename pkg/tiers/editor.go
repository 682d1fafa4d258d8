package tiers

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Option configures an editor.
type Option[T any] func(*editor[T])

// WithOnChange registers the callback that receives the full replacement value
// after every accepted mutation.
func WithOnChange[T any](fn func(T)) Option[T] {
	return func(e *editor[T]) { e.onChange = fn }
}

// WithStrictOrdering makes editors return ErrOutOfOrder instead of ignoring
// rejected quantity edits.
func WithStrictOrdering[T any]() Option[T] {
	return func(e *editor[T]) { e.strict = true }
}

type editor[T any] struct {
	state    T
	clone    func(T) T
	equal    func(a, b T) bool
	onChange func(T)
	strict   bool
}

func newEditor[T any](initial T, clone func(T) T, equal func(a, b T) bool, opts []Option[T]) editor[T] {
	e := editor[T]{clone: clone, equal: equal}
	for _, opt := range opts {
		opt(&e)
	}
	e.state = clone(initial)
	return e
}

// apply commits next unless err is set. Rejected quantity edits are dropped
// without an error unless the editor is strict.
func (e *editor[T]) apply(next T, err error) error {
	if err != nil {
		if errors.Is(err, ErrOutOfOrder) && !e.strict {
			return nil
		}
		return err
	}
	e.state = next
	if e.onChange != nil {
		e.onChange(e.clone(next))
	}
	return nil
}

func (e *editor[T]) sync(ranges T) bool {
	if e.equal(e.state, ranges) {
		return false
	}
	e.state = e.clone(ranges)
	return true
}

// QuantityEditor owns the quantity tiers of one form. It is not safe for
// concurrent use.
type QuantityEditor struct {
	e editor[QuantityTiers]
}

// NewQuantityEditor starts from initial, or from DefaultQuantityTiers when
// initial is empty.
func NewQuantityEditor(initial QuantityTiers, opts ...Option[QuantityTiers]) *QuantityEditor {
	if len(initial) == 0 {
		initial = DefaultQuantityTiers()
	}
	return &QuantityEditor{e: newEditor(initial, QuantityTiers.Clone, QuantityTiers.Equal, opts)}
}

// Ranges returns a copy of the current tiers.
func (q *QuantityEditor) Ranges() QuantityTiers { return q.e.state.Clone() }

// Sync replaces the local tiers when ranges differ from them, which is how a
// discard or reload in the owning form overrides in-progress edits. OnChange is
// not called. It reports whether the state was replaced.
func (q *QuantityEditor) Sync(ranges QuantityTiers) bool { return q.e.sync(ranges) }

func (q *QuantityEditor) Add() error {
	return q.e.apply(q.e.state.Add())
}

func (q *QuantityEditor) Remove(i int) error {
	return q.e.apply(q.e.state.Remove(i))
}

func (q *QuantityEditor) SetQuantity(i, quantity int) error {
	return q.e.apply(q.e.state.SetQuantity(i, quantity))
}

func (q *QuantityEditor) SetAmount(i int, amount decimal.Decimal) error {
	return q.e.apply(q.e.state.SetAmount(i, amount))
}

func (q *QuantityEditor) SetPercentOrCurrency(i int, unit string) error {
	return q.e.apply(q.e.state.SetPercentOrCurrency(i, unit))
}

// MatrixEditor owns the price matrix of one form. It is not safe for
// concurrent use.
type MatrixEditor struct {
	e editor[PriceMatrix]
}

func NewMatrixEditor(initial PriceMatrix, opts ...Option[PriceMatrix]) *MatrixEditor {
	return &MatrixEditor{e: newEditor(initial, PriceMatrix.Clone, PriceMatrix.Equal, opts)}
}

// Ranges returns a copy of the current matrix.
func (m *MatrixEditor) Ranges() PriceMatrix { return m.e.state.Clone() }

// Sync replaces the local matrix when ranges differ from it. OnChange is not called.
func (m *MatrixEditor) Sync(ranges PriceMatrix) bool { return m.e.sync(ranges) }

func (m *MatrixEditor) AddColumn() error {
	return m.e.apply(m.e.state.AddColumn())
}

func (m *MatrixEditor) RemoveColumn(c int) error {
	return m.e.apply(m.e.state.RemoveColumn(c))
}

func (m *MatrixEditor) SetColumnQuantity(c, quantity int) error {
	return m.e.apply(m.e.state.SetColumnQuantity(c, quantity))
}

func (m *MatrixEditor) SetSamePrice(c int, enabled bool) error {
	return m.e.apply(m.e.state.SetSamePrice(c, enabled))
}

func (m *MatrixEditor) SetPrice(r, c int, price decimal.Decimal) error {
	return m.e.apply(m.e.state.SetPrice(r, c, price))
}

func (m *MatrixEditor) AddVariant(v Variant) error {
	return m.e.apply(m.e.state.AddVariant(v))
}

func (m *MatrixEditor) RemoveVariant(r int) error {
	return m.e.apply(m.e.state.RemoveVariant(r))
}
