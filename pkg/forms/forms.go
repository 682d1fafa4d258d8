package forms

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"maps"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/discountkit/pkg/file"
	"github.com/dmitrymomot/discountkit/pkg/validator"
)

//go:embed forms.yaml
var defaultDocument []byte

type document struct {
	Forms map[string]struct {
		Fields validator.Rules `yaml:"fields"`
	} `yaml:"forms"`
}

// Registry holds compiled form schemas by name. It is read-only after load and
// safe for concurrent use.
type Registry struct {
	schemas map[string]*validator.Schema
	rules   map[string]validator.Rules
}

// Load parses a forms document and compiles every form in it.
func Load(ctx context.Context, r io.Reader) (*Registry, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Join(ErrLoadingCancelled, err)
	}

	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoForms
		}
		return nil, errors.Join(ErrFailedToParseYAML, err)
	}
	if len(doc.Forms) == 0 {
		return nil, ErrNoForms
	}

	reg := &Registry{
		schemas: make(map[string]*validator.Schema, len(doc.Forms)),
		rules:   make(map[string]validator.Rules, len(doc.Forms)),
	}
	for name, form := range doc.Forms {
		if len(form.Fields) == 0 {
			return nil, fmt.Errorf("%w: form %q has no fields", ErrInvalidForm, name)
		}
		schema, err := validator.Compile(form.Fields)
		if err != nil {
			return nil, fmt.Errorf("%w: form %q: %w", ErrInvalidForm, name, err)
		}
		reg.schemas[name] = schema
		reg.rules[name] = form.Fields
	}
	return reg, nil
}

// LoadFile loads the forms document at a local path. An empty path yields
// Default().
func LoadFile(ctx context.Context, path string) (*Registry, error) {
	if path == "" {
		return Default()
	}
	src, err := file.NewLocalSource("")
	if err != nil {
		return nil, err
	}
	return LoadFrom(ctx, src, path)
}

// LoadFrom loads the named forms document from src, e.g. an S3 bucket.
func LoadFrom(ctx context.Context, src file.Source, name string) (*Registry, error) {
	b, err := file.ReadAll(ctx, src, name, 0)
	if err != nil {
		return nil, fmt.Errorf("read forms document: %w", err)
	}
	return Load(ctx, bytes.NewReader(b))
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
	defaultErr  error
)

// Default returns the registry built from the embedded forms document.
func Default() (*Registry, error) {
	defaultOnce.Do(func() {
		defaultReg, defaultErr = Load(context.Background(), bytes.NewReader(defaultDocument))
	})
	return defaultReg, defaultErr
}

// Get returns the compiled schema of the named form.
func (r *Registry) Get(name string) (*validator.Schema, error) {
	schema, ok := r.schemas[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFormNotFound, name)
	}
	return schema, nil
}

// Rules returns a copy of the raw rule strings of the named form.
func (r *Registry) Rules(name string) (validator.Rules, error) {
	rules, ok := r.rules[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFormNotFound, name)
	}
	return maps.Clone(rules), nil
}

// Names returns the form names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.schemas))
	for name := range r.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
