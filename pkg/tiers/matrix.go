package tiers

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Variant is a product variant selected for a price discount.
type Variant struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	OldPrice decimal.Decimal `json:"oldPrice"`
}

// PriceCell is the price of one variant at one breakpoint.
type PriceCell struct {
	ID       int64           `json:"id"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// VariantRow holds the breakpoint prices of one variant.
type VariantRow struct {
	VariantID string          `json:"variantId,omitempty"`
	Title     string          `json:"title"`
	OldPrice  decimal.Decimal `json:"oldPrice"`
	Cells     []PriceCell     `json:"cells"`
}

// PriceMatrix is a column aligned table of variant prices per quantity breakpoint.
// SamePrice has one flag per column.
type PriceMatrix struct {
	Rows      []VariantRow `json:"rows"`
	SamePrice []bool       `json:"samePrice"`
}

// NewPriceMatrix creates a matrix with one row per variant and a single
// breakpoint at quantity 1.
func NewPriceMatrix(variants ...Variant) (PriceMatrix, error) {
	if len(variants) == 0 {
		return PriceMatrix{}, ErrNoVariants
	}
	m := PriceMatrix{SamePrice: []bool{}}
	for _, v := range variants {
		next, err := m.AddVariant(v)
		if err != nil {
			return PriceMatrix{}, err
		}
		m = next
	}
	return m.AddColumn()
}

func (m PriceMatrix) Clone() PriceMatrix {
	out := PriceMatrix{
		Rows:      make([]VariantRow, len(m.Rows)),
		SamePrice: append([]bool{}, m.SamePrice...),
	}
	for i, row := range m.Rows {
		row.Cells = append([]PriceCell{}, row.Cells...)
		out.Rows[i] = row
	}
	return out
}

func (m PriceMatrix) Equal(o PriceMatrix) bool {
	if len(m.Rows) != len(o.Rows) || len(m.SamePrice) != len(o.SamePrice) {
		return false
	}
	for i := range m.SamePrice {
		if m.SamePrice[i] != o.SamePrice[i] {
			return false
		}
	}
	for i, row := range m.Rows {
		other := o.Rows[i]
		if row.VariantID != other.VariantID || row.Title != other.Title ||
			!row.OldPrice.Equal(other.OldPrice) || len(row.Cells) != len(other.Cells) {
			return false
		}
		for j, cell := range row.Cells {
			oc := other.Cells[j]
			if cell.ID != oc.ID || cell.Quantity != oc.Quantity || !cell.Price.Equal(oc.Price) {
				return false
			}
		}
	}
	return true
}

// Columns returns the shared breakpoint quantities, read from row 0.
func (m PriceMatrix) Columns() []int {
	if len(m.Rows) == 0 {
		return nil
	}
	qs := make([]int, len(m.Rows[0].Cells))
	for i, cell := range m.Rows[0].Cells {
		qs[i] = cell.Quantity
	}
	return qs
}

// Check verifies that every row has one cell per column, that all rows share
// the same quantities, that those quantities strictly increase and that every
// same-price column holds row 0's price in all rows.
func (m PriceMatrix) Check() error {
	cols := m.Columns()
	for r, row := range m.Rows {
		if len(row.Cells) != len(m.SamePrice) {
			return fmt.Errorf("%w: row %d has %d cells, want %d", ErrMisaligned, r, len(row.Cells), len(m.SamePrice))
		}
		for c, cell := range row.Cells {
			if cell.Quantity != cols[c] {
				return fmt.Errorf("%w: row %d column %d has quantity %d, want %d", ErrMisaligned, r, c, cell.Quantity, cols[c])
			}
			if m.SamePrice[c] && !cell.Price.Equal(m.Rows[0].Cells[c].Price) {
				return fmt.Errorf("%w: row %d column %d has price %s, want %s", ErrPriceMismatch,
					r, c, cell.Price, m.Rows[0].Cells[c].Price)
			}
		}
	}
	return checkAscending(cols)
}

// AddColumn appends a breakpoint one above the last one (or 1) to every row with
// a zero price, and a cleared same-price flag. A last breakpoint of math.MaxInt
// leaves no room and m is returned with an *OutOfOrderError.
func (m PriceMatrix) AddColumn() (PriceMatrix, error) {
	quantity, err := nextQuantity(m.Columns())
	if err != nil {
		return m, err
	}
	id := NextID()
	out := m.Clone()
	for r := range out.Rows {
		out.Rows[r].Cells = append(out.Rows[r].Cells, PriceCell{ID: id, Quantity: quantity, Price: decimal.Zero})
	}
	out.SamePrice = append(out.SamePrice, false)
	return out, nil
}

// RemoveColumn drops breakpoint c from every row together with its flag.
func (m PriceMatrix) RemoveColumn(c int) (PriceMatrix, error) {
	if err := m.checkColumn(c); err != nil {
		return m, err
	}
	out := m.Clone()
	for r := range out.Rows {
		cells := out.Rows[r].Cells
		out.Rows[r].Cells = append(cells[:c:c], cells[c+1:]...)
	}
	out.SamePrice = append(out.SamePrice[:c:c], out.SamePrice[c+1:]...)
	return out, nil
}

// SetColumnQuantity moves breakpoint c to q on every row. q must lie strictly
// between the neighbouring breakpoints.
func (m PriceMatrix) SetColumnQuantity(c, q int) (PriceMatrix, error) {
	if err := m.checkColumn(c); err != nil {
		return m, err
	}
	if err := checkOrder(m.Columns(), c, q); err != nil {
		return m, err
	}
	return m.applyColumn(c, func(_ int, cell *PriceCell) { cell.Quantity = q }), nil
}

// SetSamePrice toggles the same-price flag of column c. Enabling copies row 0's
// price into every row; disabling leaves prices as they are.
func (m PriceMatrix) SetSamePrice(c int, enabled bool) (PriceMatrix, error) {
	if err := m.checkColumn(c); err != nil {
		return m, err
	}
	var out PriceMatrix
	if enabled && len(m.Rows) > 0 {
		price := m.Rows[0].Cells[c].Price
		out = m.applyColumn(c, func(_ int, cell *PriceCell) { cell.Price = price })
	} else {
		out = m.Clone()
	}
	out.SamePrice[c] = enabled
	return out, nil
}

// SetPrice writes the price of row r at column c. On a same-price column the
// write goes to every row.
func (m PriceMatrix) SetPrice(r, c int, price decimal.Decimal) (PriceMatrix, error) {
	if err := checkIndex(r, len(m.Rows)); err != nil {
		return m, err
	}
	if err := m.checkColumn(c); err != nil {
		return m, err
	}
	if m.SamePrice[c] {
		return m.applyColumn(c, func(_ int, cell *PriceCell) { cell.Price = price }), nil
	}
	out := m.Clone()
	out.Rows[r].Cells[c].Price = price
	return out, nil
}

// AddVariant appends a row aligned with the existing columns. Its prices are zero
// except on same-price columns, where row 0's price is used.
func (m PriceMatrix) AddVariant(v Variant) (PriceMatrix, error) {
	if v.ID != "" {
		for _, row := range m.Rows {
			if row.VariantID == v.ID {
				return m, fmt.Errorf("%w: %s", ErrDuplicateVariant, v.ID)
			}
		}
	}

	row := VariantRow{
		VariantID: v.ID,
		Title:     v.Title,
		OldPrice:  v.OldPrice,
		Cells:     make([]PriceCell, len(m.SamePrice)),
	}
	for c := range m.SamePrice {
		cell := PriceCell{ID: NextID(), Quantity: c + 1, Price: decimal.Zero}
		if len(m.Rows) > 0 && c < len(m.Rows[0].Cells) {
			ref := m.Rows[0].Cells[c]
			cell.ID, cell.Quantity = ref.ID, ref.Quantity
			if m.SamePrice[c] {
				cell.Price = ref.Price
			}
		}
		row.Cells[c] = cell
	}

	out := m.Clone()
	out.Rows = append(out.Rows, row)
	return out, nil
}

// RemoveVariant drops row r. The last remaining row cannot be removed because
// the column quantities are read from it.
func (m PriceMatrix) RemoveVariant(r int) (PriceMatrix, error) {
	if err := checkIndex(r, len(m.Rows)); err != nil {
		return m, err
	}
	if len(m.Rows) == 1 {
		return m, ErrNoVariants
	}
	out := m.Clone()
	out.Rows = append(out.Rows[:r:r], out.Rows[r+1:]...)
	return out, nil
}

// applyColumn runs fn on column c of every row of a copy of m.
func (m PriceMatrix) applyColumn(c int, fn func(row int, cell *PriceCell)) PriceMatrix {
	out := m.Clone()
	for r := range out.Rows {
		fn(r, &out.Rows[r].Cells[c])
	}
	return out
}

func (m PriceMatrix) checkColumn(c int) error {
	if err := checkIndex(c, len(m.SamePrice)); err != nil {
		return err
	}
	for r, row := range m.Rows {
		if c >= len(row.Cells) {
			return fmt.Errorf("%w: row %d has no column %d", ErrMisaligned, r, c)
		}
	}
	return nil
}
