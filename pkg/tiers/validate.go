package tiers

import (
	"fmt"
	"strings"

	"golang.org/x/text/currency"

	"github.com/dmitrymomot/discountkit/pkg/validator"
)

// Tier level error kinds reported next to the validator's rule kinds.
const (
	KindCurrency  validator.ErrorKind = "field_must_be_a_currency"
	KindAscending validator.ErrorKind = "field_must_be_greater_than_field2"
)

// IsValidUnit reports whether unit is PercentUnit or an ISO 4217 currency code.
func IsValidUnit(unit string) bool {
	if unit == PercentUnit {
		return true
	}
	if len(unit) != 3 || strings.ToUpper(unit) != unit {
		return false
	}
	_, err := currency.ParseISO(unit)
	return err == nil
}

// Validate checks every tier before the list is saved. Field keys have the form
// "tiers.<index>.<field>".
func (t QuantityTiers) Validate() validator.Result {
	values := validator.Values{}
	rules := validator.Rules{}
	for i, tier := range t {
		qk, ak := tierKey(i, "quantity"), tierKey(i, "amount")
		values[qk] = tier.Quantity
		rules[qk] = "required|number|minValue:1"
		values[ak] = tier.Amount
		rules[ak] = "required|number|minValue:0.01"
		if tier.PercentOrCurrency == PercentUnit {
			rules[ak] += "|maxValue:100"
		}
	}
	res := validator.Validate(values, rules)

	extra := map[string]validator.ErrorDescriptor{}
	for i, tier := range t {
		if !IsValidUnit(tier.PercentOrCurrency) {
			uk := tierKey(i, "percentOrCurrency")
			extra[uk] = validator.ErrorDescriptor{
				Kind:       KindCurrency,
				Properties: validator.Properties{Field: uk, Parameter: tier.PercentOrCurrency},
			}
		}
		if i > 0 && tier.Quantity <= t[i-1].Quantity {
			qk := tierKey(i, "quantity")
			extra[qk] = validator.ErrorDescriptor{
				Kind: KindAscending,
				Properties: validator.Properties{
					Field:     qk,
					Parameter: t[i-1].Quantity,
					Field2:    tierKey(i-1, "quantity"),
				},
			}
		}
	}
	return res.Merge(validator.Result{Failed: len(extra) > 0, Errors: extra})
}

// Validate checks column quantities and every price cell. Field keys have the
// form "columns.<c>.quantity" and "rows.<r>.cells.<c>.price".
func (m PriceMatrix) Validate() validator.Result {
	values := validator.Values{}
	rules := validator.Rules{}

	cols := m.Columns()
	for c, q := range cols {
		k := columnKey(c)
		values[k] = q
		rules[k] = "required|number|minValue:1"
	}
	for r, row := range m.Rows {
		for c, cell := range row.Cells {
			k := fmt.Sprintf("rows.%d.cells.%d.price", r, c)
			values[k] = cell.Price
			rules[k] = "required|number|minValue:0.01"
		}
	}
	res := validator.Validate(values, rules)

	extra := map[string]validator.ErrorDescriptor{}
	for c := 1; c < len(cols); c++ {
		if cols[c] <= cols[c-1] {
			k := columnKey(c)
			extra[k] = validator.ErrorDescriptor{
				Kind: KindAscending,
				Properties: validator.Properties{
					Field:     k,
					Parameter: cols[c-1],
					Field2:    columnKey(c - 1),
				},
			}
		}
	}
	if len(m.Rows) == 0 {
		extra["rows"] = validator.ErrorDescriptor{
			Kind:       validator.KindRequired,
			Properties: validator.Properties{Field: "rows"},
		}
	}
	return res.Merge(validator.Result{Failed: len(extra) > 0, Errors: extra})
}

func tierKey(i int, field string) string {
	return fmt.Sprintf("tiers.%d.%s", i, field)
}

func columnKey(c int) string {
	return fmt.Sprintf("columns.%d.quantity", c)
}
