package translit

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/az-ai-labs/az-translit/casing"
	"github.com/az-ai-labs/az-translit/rules"
)

type defKind int

const (
	defSource defKind = iota
	defGenerated
	defCasing
	defNormalization
	defChain
	defInverse
)

// Definition describes how a registry entry is built. Use Source,
// Generated, Casing, Normalization, Chain or InverseOf to make one.
type Definition struct {
	kind   defKind
	source string
	gen    func() (*rules.RuleSet, error)
	target casing.Case
	tag    language.Tag
	form   norm.Form
	ids    []string
}

// Source defines a transform by rule source text (see rules.Parse).
func Source(text string) Definition {
	return Definition{kind: defSource, source: text}
}

// Generated defines a transform whose rule set is built by fn, for tables
// derived from Unicode data rather than written by hand.
func Generated(fn func() (*rules.RuleSet, error)) Definition {
	return Definition{kind: defGenerated, gen: fn}
}

// Casing defines a locale casing transform.
func Casing(target casing.Case, tag language.Tag) Definition {
	return Definition{kind: defCasing, target: target, tag: tag}
}

// Normalization defines a transform to a Unicode normalization form.
func Normalization(form norm.Form) Definition {
	return Definition{kind: defNormalization, form: form}
}

// Chain defines a transform that applies the registered transforms ids in
// order.
func Chain(ids ...string) Definition {
	return Definition{kind: defChain, ids: slices.Clone(ids)}
}

// InverseOf defines a transform as the inverse of the registered transform id.
func InverseOf(id string) Definition {
	return Definition{kind: defInverse, ids: []string{id}}
}

// deps lists the registry ids d refers to.
func (d Definition) deps() []string {
	var out []string
	for _, id := range d.ids {
		for _, part := range strings.Split(id, ";") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

type entry struct {
	def  Definition
	once sync.Once
	t    *Transliterator
	err  error
}

// Registry maps transform identifiers to definitions and caches the
// compiled transforms. The zero value is not usable; call NewRegistry.
//
// A definition is compiled on the first Lookup of its id and the result,
// or the compile error, is kept for the life of the registry. Concurrent
// first lookups compile once and all receive the same transform.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

// Register inserts or replaces the definition for id; the last write wins.
// Transforms already compiled from an earlier definition are not affected.
func (r *Registry) Register(id string, def Definition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[id] = &entry{def: def}
}

// IDs returns the registered identifiers in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Lookup returns the transform registered under id, compiling it on first
// use. An id of the form "A;B" chains the registered transforms A and B.
// There is no pivoting: an id with no definition fails with
// *UnknownTransformError, which matches ErrUnknownTransform.
func (r *Registry) Lookup(id string) (*Transliterator, error) {
	id = strings.TrimSpace(id)
	if strings.Contains(id, ";") {
		return r.compound(id)
	}
	r.mu.RLock()
	e, ok := r.entries[id]
	r.mu.RUnlock()
	if !ok {
		emitLookupUnknown(context.Background(), id)
		return nil, &UnknownTransformError{ID: id}
	}
	e.once.Do(func() {
		if err := r.checkCycle(id); err != nil {
			e.err = err
			return
		}
		start := time.Now()
		e.t, e.err = r.compile(id, e.def)
		emitCompileComplete(context.Background(), id, e.t, time.Since(start), e.err)
	})
	return e.t, e.err
}

func (r *Registry) compound(id string) (*Transliterator, error) {
	var parts []*Transliterator
	for _, sub := range strings.Split(id, ";") {
		if sub = strings.TrimSpace(sub); sub == "" {
			continue
		}
		t, err := r.Lookup(sub)
		if err != nil {
			return nil, err
		}
		parts = append(parts, t)
	}
	if len(parts) == 0 {
		return nil, &UnknownTransformError{ID: id}
	}
	return NewChain(id, parts...), nil
}

// checkCycle walks the definitions reachable from id and fails if one of
// them refers back to an id on the current path.
func (r *Registry) checkCycle(id string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var visit func(cur string, path []string) error
	visit = func(cur string, path []string) error {
		if slices.Contains(path, cur) {
			return fmt.Errorf("translit: %s: %w", strings.Join(append(path, cur), " -> "), ErrCycle)
		}
		e, ok := r.entries[cur]
		if !ok {
			return nil
		}
		path = append(path, cur)
		for _, dep := range e.def.deps() {
			if err := visit(dep, path); err != nil {
				return err
			}
		}
		return nil
	}
	return visit(id, nil)
}

func (r *Registry) compile(id string, def Definition) (*Transliterator, error) {
	switch def.kind {
	case defSource:
		rs, err := rules.Parse(def.source)
		if err != nil {
			return nil, fmt.Errorf("translit: compile %s: %w", id, err)
		}
		return NewRules(id, rs), nil
	case defGenerated:
		rs, err := def.gen()
		if err != nil {
			return nil, fmt.Errorf("translit: compile %s: %w", id, err)
		}
		return NewRules(id, rs), nil
	case defCasing:
		return NewCasing(id, casing.New(def.target, def.tag)), nil
	case defNormalization:
		return NewNormalization(id, def.form), nil
	case defChain:
		parts := make([]*Transliterator, 0, len(def.ids))
		for _, sub := range def.ids {
			t, err := r.Lookup(sub)
			if err != nil {
				return nil, fmt.Errorf("translit: compile %s: %w", id, err)
			}
			parts = append(parts, t)
		}
		return NewChain(id, parts...), nil
	case defInverse:
		base, err := r.Lookup(def.ids[0])
		if err != nil {
			return nil, fmt.Errorf("translit: compile %s: %w", id, err)
		}
		inv, err := base.Inverse()
		if err != nil {
			return nil, fmt.Errorf("translit: compile %s: %w", id, err)
		}
		named := *inv
		named.id = id
		return &named, nil
	}
	return nil, fmt.Errorf("translit: compile %s: unknown definition kind %d", id, def.kind)
}
