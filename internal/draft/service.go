package draft

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/discountkit/pkg/logger"
	"github.com/dmitrymomot/discountkit/pkg/tiers"
	"github.com/dmitrymomot/discountkit/pkg/validator"
)

// Option configures a Service.
type Option func(*Service)

// WithStrictOrdering makes Apply return tiers.ErrOutOfOrder for quantity edits
// that break the ascending order. By default such edits are dropped and the
// unchanged draft is returned.
func WithStrictOrdering() Option {
	return func(s *Service) { s.strict = true }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithNow replaces time.Now for UpdatedAt stamps.
func WithNow(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// Payload replaces the ranges of a draft wholesale. It carries the list for
// quantity drafts or the matrix for price drafts.
type Payload struct {
	Quantity tiers.QuantityTiers `json:"quantity,omitempty"`
	Matrix   *tiers.PriceMatrix  `json:"matrix,omitempty"`
}

// Service runs range edits against stored drafts. Edits on the same draft are
// serialised within the process.
type Service struct {
	store  Store
	strict bool
	now    func() time.Time
	log    *slog.Logger
	locks  *keyedMutex
}

func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store: store,
		now:   time.Now,
		log:   slog.New(slog.DiscardHandler),
		locks: newKeyedMutex(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create stores a new draft with the default ranges of kind. Price drafts need
// at least one variant.
func (s *Service) Create(ctx context.Context, kind Kind, variants []tiers.Variant) (Draft, error) {
	d := Draft{ID: uuid.New(), Kind: kind, Version: 1, UpdatedAt: s.now()}
	switch kind {
	case KindQuantity:
		d.Quantity = tiers.DefaultQuantityTiers()
	case KindPrice:
		m, err := tiers.NewPriceMatrix(variants...)
		if err != nil {
			return Draft{}, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
		}
		d.Matrix = &m
	default:
		return Draft{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	if err := s.store.Save(ctx, d); err != nil {
		return Draft{}, err
	}
	s.log.InfoContext(ctx, "draft created", logger.DraftID(d.ID), logger.DraftKind(string(kind)))
	return d, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (Draft, error) {
	return s.store.Get(ctx, id)
}

// Apply runs op through the draft's editor and persists the replacement
// ranges. A dropped edit returns the stored draft unchanged.
func (s *Service) Apply(ctx context.Context, id uuid.UUID, op Op) (Draft, error) {
	kind, err := op.kind()
	if err != nil {
		return Draft{}, err
	}

	unlock := s.locks.lock(id)
	defer unlock()

	d, err := s.store.Get(ctx, id)
	if err != nil {
		return Draft{}, err
	}
	if d.Kind != kind {
		return Draft{}, fmt.Errorf("%w: %s on %s draft", ErrKindMismatch, op.Name, d.Kind)
	}

	changed := false
	switch d.Kind {
	case KindQuantity:
		ed := s.quantityEditor(d.Quantity, func(list tiers.QuantityTiers) {
			d.Quantity, changed = list, true
		})
		err = op.applyQuantity(ed)
	case KindPrice:
		ed := s.matrixEditor(d.Matrix, func(m tiers.PriceMatrix) {
			d.Matrix, changed = &m, true
		})
		err = op.applyMatrix(ed)
	}
	if err != nil {
		return Draft{}, err
	}
	if !changed {
		s.log.DebugContext(ctx, "draft edit dropped", logger.DraftID(id), logger.Op(op.Name))
		return d, nil
	}

	if err := s.commit(ctx, &d); err != nil {
		return Draft{}, err
	}
	s.log.DebugContext(ctx, "draft updated", logger.DraftID(id), logger.Op(op.Name), slog.Int64("version", d.Version))
	return d, nil
}

// Reset replaces the draft's ranges when they differ from p, which is how a
// discard or reload in the form overrides in-progress edits. The payload must
// be ordered and aligned.
func (s *Service) Reset(ctx context.Context, id uuid.UUID, p Payload) (Draft, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	d, err := s.store.Get(ctx, id)
	if err != nil {
		return Draft{}, err
	}

	var replaced bool
	switch d.Kind {
	case KindQuantity:
		if p.Matrix != nil {
			return Draft{}, fmt.Errorf("%w: matrix sent for quantity draft", ErrKindMismatch)
		}
		if p.Quantity == nil {
			return Draft{}, fmt.Errorf("%w: quantity is required for quantity draft", ErrInvalidPayload)
		}
		if err := p.Quantity.Check(); err != nil {
			return Draft{}, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
		}
		ed := s.quantityEditor(d.Quantity, nil)
		if replaced = ed.Sync(p.Quantity); replaced {
			d.Quantity = ed.Ranges()
		}
	case KindPrice:
		if p.Quantity != nil {
			return Draft{}, fmt.Errorf("%w: quantity sent for price draft", ErrKindMismatch)
		}
		if p.Matrix == nil {
			return Draft{}, fmt.Errorf("%w: matrix is required for price draft", ErrInvalidPayload)
		}
		if err := p.Matrix.Check(); err != nil {
			return Draft{}, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
		}
		ed := s.matrixEditor(d.Matrix, nil)
		if replaced = ed.Sync(*p.Matrix); replaced {
			m := ed.Ranges()
			d.Matrix = &m
		}
	}
	if !replaced {
		return d, nil
	}

	if err := s.commit(ctx, &d); err != nil {
		return Draft{}, err
	}
	s.log.InfoContext(ctx, "draft reset", logger.DraftID(id), slog.Int64("version", d.Version))
	return d, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	unlock := s.locks.lock(id)
	defer unlock()

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "draft deleted", logger.DraftID(id))
	return nil
}

// Validate checks the draft's ranges with the tier validation rules.
func (s *Service) Validate(ctx context.Context, id uuid.UUID) (validator.Result, error) {
	d, err := s.store.Get(ctx, id)
	if err != nil {
		return validator.Result{}, err
	}
	res := d.Validate()
	if res.Failed {
		s.log.DebugContext(ctx, "draft validation failed", logger.DraftID(id), logger.Failed(len(res.Errors)))
	}
	return res, nil
}

func (s *Service) commit(ctx context.Context, d *Draft) error {
	d.Version++
	d.UpdatedAt = s.now()
	return s.store.Save(ctx, *d)
}

// quantityEditor starts an editor on list. NewQuantityEditor seeds an empty
// list with the default tier; the Sync keeps a draft whose rows were all
// removed empty.
func (s *Service) quantityEditor(list tiers.QuantityTiers, onChange func(tiers.QuantityTiers)) *tiers.QuantityEditor {
	var opts []tiers.Option[tiers.QuantityTiers]
	if onChange != nil {
		opts = append(opts, tiers.WithOnChange(onChange))
	}
	if s.strict {
		opts = append(opts, tiers.WithStrictOrdering[tiers.QuantityTiers]())
	}
	ed := tiers.NewQuantityEditor(list, opts...)
	ed.Sync(list)
	return ed
}

func (s *Service) matrixEditor(m *tiers.PriceMatrix, onChange func(tiers.PriceMatrix)) *tiers.MatrixEditor {
	var opts []tiers.Option[tiers.PriceMatrix]
	if onChange != nil {
		opts = append(opts, tiers.WithOnChange(onChange))
	}
	if s.strict {
		opts = append(opts, tiers.WithStrictOrdering[tiers.PriceMatrix]())
	}
	var initial tiers.PriceMatrix
	if m != nil {
		initial = *m
	}
	return tiers.NewMatrixEditor(initial, opts...)
}
