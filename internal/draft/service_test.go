package draft_test

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/discountkit/internal/draft"
	"github.com/dmitrymomot/discountkit/pkg/tiers"
	"github.com/dmitrymomot/discountkit/pkg/validator"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newService(opts ...draft.Option) *draft.Service {
	opts = append([]draft.Option{draft.WithNow(func() time.Time { return fixedNow })}, opts...)
	return draft.NewService(draft.NewMemoryStore(16, 0), opts...)
}

func variants() []tiers.Variant {
	return []tiers.Variant{
		{ID: "v-s", Title: "Small", OldPrice: decimal.NewFromInt(20)},
		{ID: "v-l", Title: "Large", OldPrice: decimal.NewFromInt(30)},
	}
}

func TestServiceCreate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newService()

	q, err := svc.Create(ctx, draft.KindQuantity, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, q.Quantity.Quantities())
	assert.Nil(t, q.Matrix)
	assert.Equal(t, int64(1), q.Version)
	assert.Equal(t, fixedNow, q.UpdatedAt)

	p, err := svc.Create(ctx, draft.KindPrice, variants())
	require.NoError(t, err)
	require.NotNil(t, p.Matrix)
	assert.Len(t, p.Matrix.Rows, 2)

	stored, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, p.Matrix.Equal(*stored.Matrix))

	_, err = svc.Create(ctx, draft.KindPrice, nil)
	assert.ErrorIs(t, err, draft.ErrInvalidPayload)
	assert.ErrorIs(t, err, tiers.ErrNoVariants)

	_, err = svc.Create(ctx, draft.Kind("bundle"), nil)
	assert.ErrorIs(t, err, draft.ErrUnknownKind)
}

func TestServiceApplyQuantity(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("ops persist", func(t *testing.T) {
		t.Parallel()
		svc := newService()
		d, err := svc.Create(ctx, draft.KindQuantity, nil)
		require.NoError(t, err)

		for _, op := range []draft.Op{
			{Name: draft.OpAdd},
			{Name: draft.OpAdd},
			{Name: draft.OpSetQuantity, Index: 2, Quantity: 10},
			{Name: draft.OpSetAmount, Index: 2, Amount: decimal.NewFromInt(15)},
			{Name: draft.OpSetUnit, Index: 2, PercentOrCurrency: "USD"},
		} {
			d, err = svc.Apply(ctx, d.ID, op)
			require.NoError(t, err, op.Name)
		}
		assert.Equal(t, int64(6), d.Version)

		stored, err := svc.Get(ctx, d.ID)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 10}, stored.Quantity.Quantities())
		assert.Equal(t, "USD", stored.Quantity[2].PercentOrCurrency)
		assert.Equal(t, "15", stored.Quantity[2].Amount.String())
	})

	t.Run("out of order edit is dropped", func(t *testing.T) {
		t.Parallel()
		svc := newService()
		d, _ := svc.Create(ctx, draft.KindQuantity, nil)
		d, _ = svc.Apply(ctx, d.ID, draft.Op{Name: draft.OpAdd})

		got, err := svc.Apply(ctx, d.ID, draft.Op{Name: draft.OpSetQuantity, Index: 0, Quantity: 2})
		require.NoError(t, err)
		assert.Equal(t, d.Version, got.Version)
		assert.Equal(t, []int{1, 2}, got.Quantity.Quantities())
	})

	t.Run("strict ordering rejects", func(t *testing.T) {
		t.Parallel()
		svc := newService(draft.WithStrictOrdering())
		d, _ := svc.Create(ctx, draft.KindQuantity, nil)
		d, _ = svc.Apply(ctx, d.ID, draft.Op{Name: draft.OpAdd})

		_, err := svc.Apply(ctx, d.ID, draft.Op{Name: draft.OpSetQuantity, Index: 0, Quantity: 2})
		assert.ErrorIs(t, err, tiers.ErrOutOfOrder)
	})

	t.Run("removing every row keeps the draft empty", func(t *testing.T) {
		t.Parallel()
		svc := newService()
		d, _ := svc.Create(ctx, draft.KindQuantity, nil)

		d, err := svc.Apply(ctx, d.ID, draft.Op{Name: draft.OpRemove, Index: 0})
		require.NoError(t, err)
		assert.Empty(t, d.Quantity)

		d, err = svc.Apply(ctx, d.ID, draft.Op{Name: draft.OpAdd})
		require.NoError(t, err)
		assert.Equal(t, []int{1}, d.Quantity.Quantities())
	})

	t.Run("errors", func(t *testing.T) {
		t.Parallel()
		svc := newService()
		d, _ := svc.Create(ctx, draft.KindQuantity, nil)

		_, err := svc.Apply(ctx, d.ID, draft.Op{Name: "explode"})
		assert.ErrorIs(t, err, draft.ErrUnknownOp)
		_, err = svc.Apply(ctx, d.ID, draft.Op{Name: draft.OpAddColumn})
		assert.ErrorIs(t, err, draft.ErrKindMismatch)
		_, err = svc.Apply(ctx, d.ID, draft.Op{Name: draft.OpRemove, Index: 3})
		assert.ErrorIs(t, err, tiers.ErrIndexOutOfRange)
		_, err = svc.Apply(ctx, uuid.New(), draft.Op{Name: draft.OpAdd})
		assert.ErrorIs(t, err, draft.ErrNotFound)
	})
}

func TestServiceApplyMatrix(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newService()

	d, err := svc.Create(ctx, draft.KindPrice, variants())
	require.NoError(t, err)

	for _, op := range []draft.Op{
		{Name: draft.OpAddColumn},
		{Name: draft.OpSetColumnQuantity, Index: 1, Quantity: 5},
		{Name: draft.OpSetSamePrice, Index: 1, Enabled: true},
		{Name: draft.OpSetPrice, Row: 1, Index: 1, Price: decimal.RequireFromString("19.99")},
		{Name: draft.OpAddVariant, Variant: &tiers.Variant{ID: "v-xl", Title: "XL"}},
	} {
		d, err = svc.Apply(ctx, d.ID, op)
		require.NoError(t, err, op.Name)
	}

	m := d.Matrix
	require.NotNil(t, m)
	assert.Equal(t, []int{1, 5}, m.Columns())
	require.Len(t, m.Rows, 3)
	for _, row := range m.Rows {
		assert.Equal(t, "19.99", row.Cells[1].Price.String())
	}

	_, err = svc.Apply(ctx, d.ID, draft.Op{Name: draft.OpAddVariant})
	assert.ErrorIs(t, err, draft.ErrInvalidPayload)
	_, err = svc.Apply(ctx, d.ID, draft.Op{Name: draft.OpSetAmount})
	assert.ErrorIs(t, err, draft.ErrKindMismatch)

	d, err = svc.Apply(ctx, d.ID, draft.Op{Name: draft.OpRemoveVariant, Row: 0})
	require.NoError(t, err)
	assert.Len(t, d.Matrix.Rows, 2)
}

func TestServiceReset(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("quantity", func(t *testing.T) {
		t.Parallel()
		svc := newService()
		d, _ := svc.Create(ctx, draft.KindQuantity, nil)
		persisted, err := d.Quantity.Add()
		require.NoError(t, err)
		persisted, err = persisted.Add()
		require.NoError(t, err)

		got, err := svc.Reset(ctx, d.ID, draft.Payload{Quantity: persisted})
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3}, got.Quantity.Quantities())
		assert.Equal(t, int64(2), got.Version)

		same, err := svc.Reset(ctx, d.ID, draft.Payload{Quantity: persisted.Clone()})
		require.NoError(t, err)
		assert.Equal(t, int64(2), same.Version, "equal ranges are not rewritten")

		bad := persisted.Clone()
		bad[2].Quantity = 1
		_, err = svc.Reset(ctx, d.ID, draft.Payload{Quantity: bad})
		assert.ErrorIs(t, err, draft.ErrInvalidPayload)
		assert.ErrorIs(t, err, tiers.ErrOutOfOrder)

		_, err = svc.Reset(ctx, d.ID, draft.Payload{})
		assert.ErrorIs(t, err, draft.ErrInvalidPayload)
		_, err = svc.Reset(ctx, d.ID, draft.Payload{Quantity: persisted, Matrix: &tiers.PriceMatrix{}})
		assert.ErrorIs(t, err, draft.ErrKindMismatch)
	})

	t.Run("price", func(t *testing.T) {
		t.Parallel()
		svc := newService()
		d, _ := svc.Create(ctx, draft.KindPrice, variants())
		m, err := d.Matrix.AddColumn()
		require.NoError(t, err)

		got, err := svc.Reset(ctx, d.ID, draft.Payload{Matrix: &m})
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2}, got.Matrix.Columns())

		misaligned := m.Clone()
		misaligned.Rows[1].Cells = misaligned.Rows[1].Cells[:1]
		_, err = svc.Reset(ctx, d.ID, draft.Payload{Matrix: &misaligned})
		assert.ErrorIs(t, err, tiers.ErrMisaligned)

		mixed, err := m.SetSamePrice(1, true)
		require.NoError(t, err)
		mixed.Rows[1].Cells[1].Price = decimal.NewFromInt(7)
		_, err = svc.Reset(ctx, d.ID, draft.Payload{Matrix: &mixed})
		assert.ErrorIs(t, err, draft.ErrInvalidPayload)
		assert.ErrorIs(t, err, tiers.ErrPriceMismatch)

		_, err = svc.Reset(ctx, d.ID, draft.Payload{})
		assert.ErrorIs(t, err, draft.ErrInvalidPayload)
	})
}

func TestServiceAddAtMaxQuantity(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("ignored by default", func(t *testing.T) {
		t.Parallel()
		svc := newService()
		d, _ := svc.Create(ctx, draft.KindQuantity, nil)

		ops := []draft.Op{
			{Name: draft.OpSetQuantity, Index: 0, Quantity: math.MaxInt - 1},
			{Name: draft.OpAdd},
			{Name: draft.OpAdd},
		}
		var err error
		for _, op := range ops {
			d, err = svc.Apply(ctx, d.ID, op)
			require.NoError(t, err)
		}
		assert.Equal(t, []int{math.MaxInt - 1, math.MaxInt}, d.Quantity.Quantities())

		stored, err := svc.Get(ctx, d.ID)
		require.NoError(t, err)
		assert.NoError(t, stored.Quantity.Check())
	})

	t.Run("rejected when strict", func(t *testing.T) {
		t.Parallel()
		svc := newService(draft.WithStrictOrdering())
		d, _ := svc.Create(ctx, draft.KindPrice, variants())

		d, err := svc.Apply(ctx, d.ID, draft.Op{Name: draft.OpSetColumnQuantity, Index: 0, Quantity: math.MaxInt - 1})
		require.NoError(t, err)
		d, err = svc.Apply(ctx, d.ID, draft.Op{Name: draft.OpAddColumn})
		require.NoError(t, err)
		_, err = svc.Apply(ctx, d.ID, draft.Op{Name: draft.OpAddColumn})
		assert.ErrorIs(t, err, tiers.ErrOutOfOrder)

		stored, err := svc.Get(ctx, d.ID)
		require.NoError(t, err)
		assert.Equal(t, []int{math.MaxInt - 1, math.MaxInt}, stored.Matrix.Columns())
		assert.Equal(t, d.Version, stored.Version)
	})
}

func TestServiceValidateAndDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newService()

	d, _ := svc.Create(ctx, draft.KindQuantity, nil)
	res, err := svc.Validate(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, validator.KindRequired, res.Errors["tiers.0.amount"].Kind)

	d, err = svc.Apply(ctx, d.ID, draft.Op{Name: draft.OpSetAmount, Index: 0, Amount: decimal.NewFromInt(10)})
	require.NoError(t, err)
	res, err = svc.Validate(ctx, d.ID)
	require.NoError(t, err)
	assert.False(t, res.Failed)

	require.NoError(t, svc.Delete(ctx, d.ID))
	_, err = svc.Validate(ctx, d.ID)
	assert.ErrorIs(t, err, draft.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, d.ID), draft.ErrNotFound)
}

func TestServiceConcurrentApply(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newService()
	d, err := svc.Create(ctx, draft.KindQuantity, nil)
	require.NoError(t, err)

	const n = 20
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Apply(ctx, d.ID, draft.Op{Name: draft.OpAdd})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := svc.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Len(t, got.Quantity, n+1)
	assert.NoError(t, got.Quantity.Check())
	assert.Equal(t, int64(n+1), got.Version)
}
