package viewform

import (
	"fmt"
	"io/fs"

	"github.com/goliatone/go-viewform/pkg/config"
	"github.com/goliatone/go-viewform/pkg/enhancer"
)

// Enhancer aliases the engine type so callers can hold one without importing
// pkg/enhancer directly.
type Enhancer = enhancer.Enhancer

// Option aliases enhancer.Option.
type Option = enhancer.Option

// Document aliases the configuration document type.
type Document = config.Document

// New exposes the enhancer constructor from the top-level module.
func New(options ...Option) *Enhancer {
	return enhancer.New(options...)
}

// LoadConfig reads and merges the given YAML or JSON documents. Later paths
// override earlier ones.
func LoadConfig(paths ...string) (*Document, error) {
	return config.LoadFiles(paths...)
}

// LoadConfigFS merges every configuration document found in fsys in lexical
// path order.
func LoadConfigFS(fsys fs.FS) (*Document, error) {
	return config.LoadFS(fsys)
}

// NewFromFiles loads the configuration documents at paths and returns an
// enhancer using them. options are applied after the loaded configuration,
// so an explicit WithConfig wins.
func NewFromFiles(paths []string, options ...Option) (*Enhancer, error) {
	doc, err := LoadConfig(paths...)
	if err != nil {
		return nil, fmt.Errorf("viewform: load configuration: %w", err)
	}
	opts := make([]Option, 0, len(options)+1)
	opts = append(opts, enhancer.WithConfig(doc))
	opts = append(opts, options...)
	return enhancer.New(opts...), nil
}

// WithConfig sets the configuration document used by New.
func WithConfig(doc *Document) Option {
	return enhancer.WithConfig(doc)
}
