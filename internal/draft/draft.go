// Package draft keeps in-progress tier lists on the server, one per form
// instance, so that the admin front-end can edit ranges through the API and
// save the whole collection at once.
package draft

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/discountkit/pkg/tiers"
	"github.com/dmitrymomot/discountkit/pkg/validator"
)

// Kind selects the range editor of a draft.
type Kind string

const (
	KindQuantity Kind = "quantity"
	KindPrice    Kind = "price"
)

func (k Kind) Valid() bool {
	return k == KindQuantity || k == KindPrice
}

// Draft is the server-held state of one form's ranges. Exactly one of
// Quantity and Matrix is set, according to Kind.
type Draft struct {
	ID        uuid.UUID           `json:"id"`
	Kind      Kind                `json:"kind"`
	Quantity  tiers.QuantityTiers `json:"quantity,omitempty"`
	Matrix    *tiers.PriceMatrix  `json:"matrix,omitempty"`
	Version   int64               `json:"version"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

// Validate runs the tier validation of the draft's ranges.
func (d Draft) Validate() validator.Result {
	if d.Kind == KindPrice && d.Matrix != nil {
		return d.Matrix.Validate()
	}
	return d.Quantity.Validate()
}

func (d Draft) clone() Draft {
	out := d
	out.Quantity = d.Quantity.Clone()
	if d.Matrix != nil {
		m := d.Matrix.Clone()
		out.Matrix = &m
	}
	return out
}
