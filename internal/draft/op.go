package draft

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dmitrymomot/discountkit/pkg/tiers"
)

// Operation names accepted by Service.Apply.
const (
	OpAdd               = "add"
	OpRemove            = "remove"
	OpSetQuantity       = "set_quantity"
	OpSetAmount         = "set_amount"
	OpSetUnit           = "set_percent_or_currency"
	OpAddColumn         = "add_column"
	OpRemoveColumn      = "remove_column"
	OpSetColumnQuantity = "set_column_quantity"
	OpSetSamePrice      = "set_same_price"
	OpSetPrice          = "set_price"
	OpAddVariant        = "add_variant"
	OpRemoveVariant     = "remove_variant"
)

var opKinds = map[string]Kind{
	OpAdd:               KindQuantity,
	OpRemove:            KindQuantity,
	OpSetQuantity:       KindQuantity,
	OpSetAmount:         KindQuantity,
	OpSetUnit:           KindQuantity,
	OpAddColumn:         KindPrice,
	OpRemoveColumn:      KindPrice,
	OpSetColumnQuantity: KindPrice,
	OpSetSamePrice:      KindPrice,
	OpSetPrice:          KindPrice,
	OpAddVariant:        KindPrice,
	OpRemoveVariant:     KindPrice,
}

// Op is one user edit. Index is the tier row for quantity drafts and the
// breakpoint column for price drafts; Row selects the variant row.
type Op struct {
	Name              string          `json:"op"`
	Index             int             `json:"index"`
	Row               int             `json:"row"`
	Quantity          int             `json:"quantity"`
	Amount            decimal.Decimal `json:"amount"`
	PercentOrCurrency string          `json:"percentOrCurrency"`
	Price             decimal.Decimal `json:"price"`
	Enabled           bool            `json:"enabled"`
	Variant           *tiers.Variant  `json:"variant,omitempty"`
}

// kind reports which draft kind the operation belongs to.
func (o Op) kind() (Kind, error) {
	k, ok := opKinds[o.Name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownOp, o.Name)
	}
	return k, nil
}

func (o Op) applyQuantity(ed *tiers.QuantityEditor) error {
	switch o.Name {
	case OpAdd:
		return ed.Add()
	case OpRemove:
		return ed.Remove(o.Index)
	case OpSetQuantity:
		return ed.SetQuantity(o.Index, o.Quantity)
	case OpSetAmount:
		return ed.SetAmount(o.Index, o.Amount)
	case OpSetUnit:
		return ed.SetPercentOrCurrency(o.Index, o.PercentOrCurrency)
	}
	return fmt.Errorf("%w: %q", ErrUnknownOp, o.Name)
}

func (o Op) applyMatrix(ed *tiers.MatrixEditor) error {
	switch o.Name {
	case OpAddColumn:
		return ed.AddColumn()
	case OpRemoveColumn:
		return ed.RemoveColumn(o.Index)
	case OpSetColumnQuantity:
		return ed.SetColumnQuantity(o.Index, o.Quantity)
	case OpSetSamePrice:
		return ed.SetSamePrice(o.Index, o.Enabled)
	case OpSetPrice:
		return ed.SetPrice(o.Row, o.Index, o.Price)
	case OpAddVariant:
		if o.Variant == nil {
			return fmt.Errorf("%w: add_variant needs a variant", ErrInvalidPayload)
		}
		return ed.AddVariant(*o.Variant)
	case OpRemoveVariant:
		return ed.RemoveVariant(o.Row)
	}
	return fmt.Errorf("%w: %q", ErrUnknownOp, o.Name)
}
