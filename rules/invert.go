package rules

import (
	"cmp"
	"fmt"
	"slices"
	"unicode/utf8"

	"golang.org/x/text/language"

	"github.com/az-ai-labs/az-translit/internal/uprops"
)

// InversionKind classifies an AmbiguousInversionWarning.
type InversionKind int

const (
	ManyToOne  InversionKind = iota // several sources produce one target; the first was kept
	Deletion                        // the rule deletes its match, nothing maps back
	NonLiteral                      // the rule matches a category or uses captures
)

var inversionKindNames = [...]string{
	ManyToOne:  "many-to-one",
	Deletion:   "deletion",
	NonLiteral: "non-literal",
}

func (k InversionKind) String() string {
	if int(k) >= 0 && int(k) < len(inversionKindNames) {
		return inversionKindNames[k]
	}
	return fmt.Sprintf("InversionKind(%d)", int(k))
}

// AmbiguousInversionWarning records a place where Invert lost information.
// Warnings never stop the inversion.
type AmbiguousInversionWarning struct {
	Kind    InversionKind
	Target  string // forward output that the inverse maps back from
	Kept    string // source text the inverse restores for Target (ManyToOne)
	Dropped string // source text, or the whole rule, that was not inverted
	Line    int    // source line of the dropped rule
}

func (w AmbiguousInversionWarning) String() string {
	switch w.Kind {
	case ManyToOne:
		return fmt.Sprintf("line %d: %q maps back to %q, not %q", w.Line, w.Target, w.Kept, w.Dropped)
	case Deletion:
		return fmt.Sprintf("line %d: deletion of %q cannot be inverted", w.Line, w.Dropped)
	}
	return fmt.Sprintf("line %d: %s rule %s cannot be inverted", w.Line, w.Kind, w.Dropped)
}

// Invert derives the inverse of rs.
//
// Reverse-only and bidirectional rules come first, in authored order and
// with their contexts. Every remaining forward rule whose match and
// replacement are literal text is swapped, contexts dropped. When several
// rules produce the same text the first-defined one wins. An all-caps
// replacement of two or more runes also yields its title-case variant, so
// text produced by case propagation maps back. Synthesized rules are
// ordered by descending match length, stable within a length, so a longer
// target is never masked by its prefix.
//
// The inverse is an approximate right inverse: it round-trips text the
// forward rules produce from canonical input, not arbitrary text.
func Invert(rs *RuleSet) (*RuleSet, []AmbiguousInversionWarning) {
	var warns []AmbiguousInversionWarning
	explicit := rs.ReverseRules()
	covered := make(map[string]bool)
	for i := range explicit {
		r := &explicit[i]
		if len(r.Before) > 0 || len(r.After) > 0 || r.AnchorStart || r.AnchorEnd {
			continue
		}
		if lit, ok := r.Match.Literal(); ok {
			covered[lit] = true
		}
	}

	kept := make(map[string]string)
	var synth []Rule
	for i := range rs.forward {
		r := &rs.forward[i]
		if r.Dir == Both {
			continue
		}
		src, sok := r.Match.Literal()
		tgt, tok := r.Replacement.Literal()
		if !sok || !tok || len(r.Groups) > 0 {
			warns = append(warns, AmbiguousInversionWarning{Kind: NonLiteral, Dropped: r.String(), Line: r.Line})
			continue
		}
		if tgt == "" {
			warns = append(warns, AmbiguousInversionWarning{Kind: Deletion, Dropped: src, Line: r.Line})
			continue
		}
		add := func(target string) {
			if covered[target] {
				return
			}
			if prev, dup := kept[target]; dup {
				if prev != src {
					warns = append(warns, AmbiguousInversionWarning{
						Kind: ManyToOne, Target: target, Kept: prev, Dropped: src, Line: r.Line,
					})
				}
				return
			}
			kept[target] = src
			synth = append(synth, Rule{
				Match:       LiteralPattern(target),
				Replacement: LiteralTemplate(src),
				Dir:         Reverse,
				Line:        r.Line,
			})
		}
		add(tgt)
		if title, ok := titleVariant(tgt); ok {
			add(title)
		}
	}
	slices.SortStableFunc(synth, func(a, b Rule) int {
		return cmp.Compare(len(b.Match), len(a.Match))
	})

	inv := &RuleSet{
		forward: append(explicit, synth...),
		vars:    rs.vars,
	}
	inv.buildIndex()
	return inv, warns
}

// titleVariant returns the title-case form of an all-caps string of two or
// more runes, the form Rewrite emits for it before lowercase text.
func titleVariant(s string) (string, bool) {
	first, _ := utf8.DecodeRuneInString(s)
	if utf8.RuneCountInString(s) < 2 || !uprops.IsUppercase(first) {
		return "", false
	}
	for _, r := range s {
		if uprops.IsLowercase(r) {
			return "", false
		}
	}
	t := uprops.ToTitleCase(s, language.Und)
	if t == s {
		return "", false
	}
	return t, true
}
