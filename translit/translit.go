// Package translit runs compiled transforms: rule-based transliteration,
// locale casing, Unicode normalization, and chains of those.
//
// Transforms are obtained from a Registry by identifier, such as
// "uz_Cyrl-uz_Latn" or "tr-Upper". Every registry entry is compiled once,
// on first lookup, and shared afterwards. A rule-based transform can
// synthesize its inverse on demand; the inverse is cached too.
//
//	reg := builtin.Registry()
//	t, err := reg.Lookup("uz_Cyrl-uz_Latn")
//	if err != nil {
//		return err
//	}
//	latin := t.Apply("Бельгия") // "Belgiya"
//	back, err := t.Inverse()
//
// All functions and methods are safe for concurrent use by multiple
// goroutines.
//
// Known lossy conversions:
//   - A synthesized inverse restores the first-defined source for text that
//     several rules produce (Warnings lists every such choice).
//   - Deleted characters, such as soft signs, do not come back.
//   - Casing transforms have no inverse.
package translit

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/az-ai-labs/az-translit/casing"
	"github.com/az-ai-labs/az-translit/rules"
)

// Kind tells which variant a Transliterator is.
type Kind int

const (
	KindRules         Kind = iota // rule-based rewriting
	KindCasing                    // locale casing
	KindNormalization             // Unicode normalization form
	KindChain                     // several transforms applied in order
)

var kindNames = [...]string{
	KindRules:         "rules",
	KindCasing:        "casing",
	KindNormalization: "normalization",
	KindChain:         "chain",
}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Transliterator is a compiled, immutable transform.
type Transliterator struct {
	id    string
	kind  Kind
	rules *rules.RuleSet
	caser *casing.Caser
	form  norm.Form
	chain []*Transliterator

	warns []rules.AmbiguousInversionWarning
	inv   *inverse
}

// inverse caches the result of Inverse.
type inverse struct {
	once sync.Once
	t    *Transliterator
	err  error
}

func newInverse(t *Transliterator) *inverse {
	inv := &inverse{t: t}
	inv.once.Do(func() {})
	return inv
}

// NewRules returns a rule-based transform.
func NewRules(id string, rs *rules.RuleSet) *Transliterator {
	return &Transliterator{id: id, kind: KindRules, rules: rs, inv: &inverse{}}
}

// NewCasing returns a casing transform.
func NewCasing(id string, c *casing.Caser) *Transliterator {
	return &Transliterator{id: id, kind: KindCasing, caser: c, inv: &inverse{}}
}

// NewNormalization returns a transform that normalizes to form.
func NewNormalization(id string, form norm.Form) *Transliterator {
	return &Transliterator{id: id, kind: KindNormalization, form: form, inv: &inverse{}}
}

// NewChain returns a transform that applies ts in order.
func NewChain(id string, ts ...*Transliterator) *Transliterator {
	return &Transliterator{id: id, kind: KindChain, chain: slices.Clone(ts), inv: &inverse{}}
}

// ID returns the identifier the transform was compiled under.
func (t *Transliterator) ID() string { return t.id }

// Kind returns the transform variant.
func (t *Transliterator) Kind() Kind { return t.kind }

// RuleSet returns the rules of a KindRules transform, or nil.
func (t *Transliterator) RuleSet() *rules.RuleSet { return t.rules }

// Elements returns the parts of a KindChain transform, or nil.
func (t *Transliterator) Elements() []*Transliterator { return slices.Clone(t.chain) }

// Apply transforms s. It never fails: text no rule applies to passes
// through unchanged.
func (t *Transliterator) Apply(s string) string {
	switch t.kind {
	case KindRules:
		return Rewrite(t.rules, s)
	case KindCasing:
		return t.caser.Apply(s)
	case KindNormalization:
		return t.form.String(s)
	case KindChain:
		for _, c := range t.chain {
			s = c.Apply(s)
		}
		return s
	}
	return s
}

// Warnings returns what was lost when this transform was synthesized as
// an inverse. It is empty for authored transforms.
func (t *Transliterator) Warnings() []rules.AmbiguousInversionWarning {
	return slices.Clone(t.warns)
}

// Inverse returns the inverse transform, synthesizing it on first call.
// The inverse of the inverse is t itself. Casing transforms return
// ErrNotInvertible.
func (t *Transliterator) Inverse() (*Transliterator, error) {
	t.inv.once.Do(func() {
		t.inv.t, t.inv.err = t.buildInverse()
	})
	return t.inv.t, t.inv.err
}

func (t *Transliterator) buildInverse() (*Transliterator, error) {
	switch t.kind {
	case KindRules:
		start := time.Now()
		rs, warns := rules.Invert(t.rules)
		inv := NewRules(inverseID(t.id), rs)
		inv.warns = warns
		inv.inv = newInverse(t)
		emitInverseComplete(context.Background(), inv.id, rs.Len(), warns, time.Since(start))
		return inv, nil
	case KindNormalization:
		inv := NewNormalization(inverseID(t.id), inverseForm(t.form))
		inv.inv = newInverse(t)
		return inv, nil
	case KindChain:
		parts := make([]*Transliterator, len(t.chain))
		ids := make([]string, len(t.chain))
		for i, c := range t.chain {
			ic, err := c.Inverse()
			if err != nil {
				return nil, err
			}
			j := len(t.chain) - 1 - i
			parts[j] = ic
			ids[j] = ic.id
		}
		inv := NewChain(strings.Join(ids, ";"), parts...)
		inv.inv = newInverse(t)
		return inv, nil
	}
	return nil, fmt.Errorf("translit: %s: %w", t.id, ErrNotInvertible)
}

// inverseID swaps the source and target of "Source-Target" identifiers.
func inverseID(id string) string {
	src, dst, ok := strings.Cut(id, "-")
	if !ok {
		return id + "-Inverse"
	}
	return dst + "-" + src
}

func inverseForm(f norm.Form) norm.Form {
	switch f {
	case norm.NFC:
		return norm.NFD
	case norm.NFD:
		return norm.NFC
	case norm.NFKC:
		return norm.NFKD
	}
	return norm.NFKC
}
