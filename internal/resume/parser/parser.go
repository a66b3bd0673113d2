package parser

import (
	"errors"
	"fmt"
	"sort"

	"github.com/resumekit/resumekit-backend/internal/resume/domain"
)

// ErrParserNotSupported is returned when a requested parser is not registered
var ErrParserNotSupported = errors.New("parser not supported")

// Parser turns extracted resume text into labeled sections.
// Implementations must be safe for concurrent use.
type Parser interface {
	// Name is the identifier the parser is registered under
	Name() string

	// Parse never fails; text without content yields no sections
	Parse(text string) *domain.ParsedDocument
}

// Registry maps parser identifiers to parsers.
// It is built once at startup and read-only afterwards.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry registers the given parsers under their names.
// A later parser with the same name replaces an earlier one.
func NewRegistry(parsers ...Parser) *Registry {
	r := &Registry{parsers: make(map[string]Parser, len(parsers))}
	for _, p := range parsers {
		r.parsers[p.Name()] = p
	}
	return r
}

// DefaultRegistry holds every parser that ships with ResumeKit
func DefaultRegistry() *Registry {
	return NewRegistry(NewBasic())
}

// Get returns the parser registered under name
func (r *Registry) Get(name string) (Parser, error) {
	p, ok := r.parsers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrParserNotSupported, name)
	}
	return p, nil
}

// Names lists the registered identifiers in sorted order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.parsers))
	for name := range r.parsers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
