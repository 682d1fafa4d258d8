// Package tiers implements the ordered range lists behind quantity and price
// discounts.
//
// Two structures are supported:
//
//   - QuantityTiers: rows of {quantity, amount, percentOrCurrency} sorted by a
//     strictly increasing quantity.
//   - PriceMatrix: one row per product variant, each row holding one price cell
//     per breakpoint column. Every row shares the same strictly increasing column
//     quantities, and a per-column "same price" flag keeps all rows of that column
//     at row 0's price.
//
// All operations are copy-on-write: they return a new value and never modify the
// receiver. Quantity edits that would break the ordering return an error matching
// ErrOutOfOrder together with the unchanged input.
//
// QuantityEditor and MatrixEditor hold the state for one form. They notify the
// owner through an OnChange callback with the full replacement value after every
// accepted mutation, silently ignore out-of-order quantity edits unless strict
// ordering is enabled, and resynchronise with Sync when the owner pushes new
// ranges.
package tiers
