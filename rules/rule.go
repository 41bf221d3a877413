// Package rules parses and represents ordered, context-sensitive rewrite
// rules for script transliteration.
//
// A rule set is a list of rules tried in definition order, plus named
// variables (categories). Each rule has an optional left context, a match
// pattern, an optional right context and a replacement:
//
//	$vowel = [aeiouAEIOU] ;
//	$vowel { е > ye ;        # е after a vowel in the output
//	г } [әеиөү] > g ;        # г before a front vowel in the input
//	ь > ;                    # deletion
//
// Left contexts are matched against text already emitted by the rewriter,
// right contexts against the input that follows the match. Parsing and
// validation happen once, when the rule set is built; a RuleSet is
// immutable afterwards and safe for concurrent use.
//
// Invert derives a reverse rule set from a forward one and reports every
// place where the inversion had to drop information.
//
// Known limitations:
//
//   - No quantifiers, alternation or cursor positioning; patterns are
//     fixed sequences of literals and categories.
//   - A category that holds strings matches its longest member at a
//     position, without backtracking into shorter members.
//   - Filters and nested transform calls (::) are not part of the grammar.
package rules

import (
	"fmt"
	"strings"
)

// Direction tells which way a rule applies.
type Direction int

const (
	Forward Direction = iota // left side rewrites to right side
	Reverse                  // applies only in the inverse rule set
	Both                     // forward, and swapped in the inverse
)

// directionNames maps Direction values to their operator spellings.
var directionNames = [...]string{
	Forward: ">",
	Reverse: "<",
	Both:    "<>",
}

// String returns the operator that introduces rules of this direction.
func (d Direction) String() string {
	if int(d) >= 0 && int(d) < len(directionNames) {
		return directionNames[d]
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// ElementKind classifies a pattern element.
type ElementKind int

const (
	Literal  ElementKind = iota // a single rune
	Category                    // one member of a CodepointSet
)

// Element is one position of a pattern.
type Element struct {
	Kind ElementKind
	Rune rune          // for Literal
	Set  *CodepointSet // for Category
	Name string        // source spelling of a category, e.g. "$vowel"
}

func (e Element) matchForward(text []rune, i int) int {
	if e.Kind == Category {
		return e.Set.matchForward(text, i)
	}
	if i < len(text) && text[i] == e.Rune {
		return 1
	}
	return 0
}

func (e Element) matchBackward(text []rune, j int) int {
	if e.Kind == Category {
		return e.Set.matchBackward(text, j)
	}
	if j > 0 && text[j-1] == e.Rune {
		return 1
	}
	return 0
}

// Pattern is a fixed sequence of elements.
type Pattern []Element

// LiteralPattern returns the pattern that matches exactly s.
func LiteralPattern(s string) Pattern {
	p := make(Pattern, 0, len(s))
	for _, r := range s {
		p = append(p, Element{Kind: Literal, Rune: r})
	}
	return p
}

// Literal returns the text p matches when it consists of literals only.
func (p Pattern) Literal() (string, bool) {
	var b strings.Builder
	for _, e := range p {
		if e.Kind != Literal {
			return "", false
		}
		b.WriteRune(e.Rune)
	}
	return b.String(), true
}

// matchForward matches p at text[i:]. When pos is non-nil it receives the
// start offset of every element and, at pos[len(p)], the end offset.
func (p Pattern) matchForward(text []rune, i int, pos []int) (int, bool) {
	for k, e := range p {
		if pos != nil {
			pos[k] = i
		}
		n := e.matchForward(text, i)
		if n == 0 {
			return 0, false
		}
		i += n
	}
	if pos != nil {
		pos[len(p)] = i
	}
	return i, true
}

// matchBackward matches p against the text ending just before j and
// returns the offset where the match starts.
func (p Pattern) matchBackward(text []rune, j int) (int, bool) {
	for k := len(p) - 1; k >= 0; k-- {
		n := p[k].matchBackward(text, j)
		if n == 0 {
			return 0, false
		}
		j -= n
	}
	return j, true
}

// Group is a capture group over match elements [Start, End).
type Group struct {
	Start, End int
}

// Piece is one segment of a replacement: literal text, or the text
// captured by group Group (1-based) when Group > 0.
type Piece struct {
	Text  string
	Group int
}

// Template is a replacement: a sequence of literal text and group references.
type Template []Piece

// LiteralTemplate returns a template that always produces s.
func LiteralTemplate(s string) Template {
	if s == "" {
		return nil
	}
	return Template{{Text: s}}
}

// Literal returns the replacement text when the template has no group
// references.
func (t Template) Literal() (string, bool) {
	var b strings.Builder
	for _, p := range t {
		if p.Group > 0 {
			return "", false
		}
		b.WriteString(p.Text)
	}
	return b.String(), true
}

// Rule is a single rewrite rule.
type Rule struct {
	Before      Pattern // left context, matched against output
	Match       Pattern // consumed input
	After       Pattern // right context, matched against input
	Groups      []Group
	Replacement Template
	Dir         Direction

	// AnchorStart requires Before to reach the start of the output;
	// AnchorEnd requires After to reach the end of the input.
	AnchorStart bool
	AnchorEnd   bool

	Line int // 1-based source line, 0 for generated rules
}

// MatchAt reports whether the rule applies with the cursor at in[i], given
// the output emitted so far. On success it returns the offset just past the
// consumed input; pos, when non-nil, must have room for len(r.Match)+1
// offsets and receives the element boundaries used for group capture.
func (r *Rule) MatchAt(in []rune, i int, out []rune, pos []int) (int, bool) {
	start, ok := r.Before.matchBackward(out, len(out))
	if !ok || (r.AnchorStart && start != 0) {
		return 0, false
	}
	end, ok := r.Match.matchForward(in, i, pos)
	if !ok {
		return 0, false
	}
	after, ok := r.After.matchForward(in, end, nil)
	if !ok || (r.AnchorEnd && after != len(in)) {
		return 0, false
	}
	return end, true
}

// Expand builds the replacement text for a match of r. pos holds the
// element offsets recorded by MatchAt.
func (r *Rule) Expand(in []rune, pos []int) string {
	if len(r.Replacement) == 1 && r.Replacement[0].Group == 0 {
		return r.Replacement[0].Text
	}
	var b strings.Builder
	for _, p := range r.Replacement {
		if p.Group == 0 {
			b.WriteString(p.Text)
			continue
		}
		g := r.Groups[p.Group-1]
		b.WriteString(string(in[pos[g.Start]:pos[g.End]]))
	}
	return b.String()
}

// String renders the rule in source syntax.
func (r *Rule) String() string {
	var b strings.Builder
	if r.AnchorStart {
		b.WriteString("^ ")
	}
	if len(r.Before) > 0 {
		writePattern(&b, r.Before, nil)
		b.WriteString(" ")
	}
	if len(r.Before) > 0 || r.AnchorStart {
		b.WriteString("{ ")
	}
	writePattern(&b, r.Match, r.Groups)
	if len(r.After) > 0 || r.AnchorEnd {
		b.WriteString(" }")
		if len(r.After) > 0 {
			b.WriteString(" ")
			writePattern(&b, r.After, nil)
		}
		if r.AnchorEnd {
			b.WriteString(" $")
		}
	}
	b.WriteString(" ")
	b.WriteString(r.Dir.String())
	for _, p := range r.Replacement {
		b.WriteString(" ")
		if p.Group > 0 {
			fmt.Fprintf(&b, "$%d", p.Group)
		} else {
			b.WriteString(quoteText(p.Text))
		}
	}
	b.WriteString(" ;")
	return b.String()
}

func writePattern(b *strings.Builder, p Pattern, groups []Group) {
	for k, e := range p {
		if k > 0 {
			b.WriteString(" ")
		}
		for _, g := range groups {
			if g.Start == k {
				b.WriteString("( ")
			}
		}
		if e.Kind == Category {
			b.WriteString(e.Name)
		} else {
			b.WriteString(quoteText(string(e.Rune)))
		}
		for _, g := range groups {
			if g.End == k+1 {
				b.WriteString(" )")
			}
		}
	}
}

// special lists the runes that must be quoted in rule source.
const special = "{}[]()$^;=<>#'\\|&-: \t\n\r→←↔"

func quoteText(s string) string {
	if !strings.ContainsAny(s, special) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
