package draft_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/discountkit/internal/draft"
	"github.com/dmitrymomot/discountkit/pkg/tiers"
)

func quantityDraft() draft.Draft {
	return draft.Draft{
		ID:       uuid.New(),
		Kind:     draft.KindQuantity,
		Quantity: tiers.DefaultQuantityTiers(),
		Version:  1,
	}
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("save get delete", func(t *testing.T) {
		t.Parallel()
		s := draft.NewMemoryStore(4, 0)
		d := quantityDraft()
		require.NoError(t, s.Save(ctx, d))

		got, err := s.Get(ctx, d.ID)
		require.NoError(t, err)
		assert.Equal(t, d.ID, got.ID)
		assert.True(t, d.Quantity.Equal(got.Quantity))

		require.NoError(t, s.Delete(ctx, d.ID))
		_, err = s.Get(ctx, d.ID)
		assert.ErrorIs(t, err, draft.ErrNotFound)
		assert.ErrorIs(t, s.Delete(ctx, d.ID), draft.ErrNotFound)
	})

	t.Run("returned drafts are copies", func(t *testing.T) {
		t.Parallel()
		s := draft.NewMemoryStore(4, 0)
		d := quantityDraft()
		require.NoError(t, s.Save(ctx, d))
		d.Quantity[0].Quantity = 50

		got, err := s.Get(ctx, d.ID)
		require.NoError(t, err)
		got.Quantity[0].Quantity = 60

		again, err := s.Get(ctx, d.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, again.Quantity[0].Quantity)
	})

	t.Run("evicts least recently used", func(t *testing.T) {
		t.Parallel()
		s := draft.NewMemoryStore(2, 0)
		a, b, c := quantityDraft(), quantityDraft(), quantityDraft()
		require.NoError(t, s.Save(ctx, a))
		require.NoError(t, s.Save(ctx, b))
		_, err := s.Get(ctx, a.ID)
		require.NoError(t, err)

		require.NoError(t, s.Save(ctx, c))
		assert.Equal(t, 2, s.Len())
		_, err = s.Get(ctx, b.ID)
		assert.ErrorIs(t, err, draft.ErrNotFound)
		_, err = s.Get(ctx, a.ID)
		assert.NoError(t, err)
	})

	t.Run("expires after ttl", func(t *testing.T) {
		t.Parallel()
		now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		s := draft.NewMemoryStore(2, time.Minute, draft.WithClock(func() time.Time { return now }))
		d := quantityDraft()
		require.NoError(t, s.Save(ctx, d))

		now = now.Add(59 * time.Second)
		_, err := s.Get(ctx, d.ID)
		require.NoError(t, err)

		now = now.Add(time.Second)
		_, err = s.Get(ctx, d.ID)
		assert.ErrorIs(t, err, draft.ErrNotFound)
		assert.Zero(t, s.Len())
	})

	t.Run("zero capacity panics", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() { draft.NewMemoryStore(0, 0) })
	})
}
