package rules

import (
	"fmt"
	"maps"
	"slices"
)

// RuleSet is an immutable, ordered list of rules with its named variables.
type RuleSet struct {
	forward []Rule
	reverse []Rule // Reverse and Both rules, in source order
	vars    map[string]*Variable

	index   map[rune][]int32 // rules whose match can start with the rune
	wild    []int32          // rules whose first element cannot be indexed
	maxElem int              // longest match pattern, in elements
}

// Variable is a named category or string macro from a rule source.
type Variable struct {
	Name    string
	Set     *CodepointSet // non-nil for categories
	Pattern Pattern       // the expansion for string variables
	Line    int
}

// NewRuleSet validates rules and builds a rule set from them. forward
// holds the rules applied by the rewriter (Dir Forward or Both); reverse
// holds the Reverse and Both rules in inverse orientation, used only by
// Invert. vars may be nil.
func NewRuleSet(forward, reverse []Rule, vars map[string]*Variable) (*RuleSet, error) {
	for i := range forward {
		if err := validate(&forward[i]); err != nil {
			return nil, err
		}
	}
	for i := range reverse {
		if err := validate(&reverse[i]); err != nil {
			return nil, err
		}
	}
	rs := &RuleSet{
		forward: slices.Clone(forward),
		reverse: slices.Clone(reverse),
		vars:    maps.Clone(vars),
	}
	rs.buildIndex()
	return rs, nil
}

func validate(r *Rule) error {
	if len(r.Match) == 0 {
		return &MalformedRuleError{Err: ErrZeroWidthMatch, Line: r.Line, Detail: "rule consumes no input"}
	}
	for _, g := range r.Groups {
		if g.Start < 0 || g.End > len(r.Match) || g.Start >= g.End {
			return &MalformedRuleError{Err: ErrGroupOutOfRange, Line: r.Line,
				Detail: fmt.Sprintf("group spans elements %d..%d of %d", g.Start, g.End, len(r.Match))}
		}
	}
	for _, p := range r.Replacement {
		if p.Group < 0 || p.Group > len(r.Groups) {
			return &MalformedRuleError{Err: ErrGroupOutOfRange, Line: r.Line,
				Detail: fmt.Sprintf("$%d with %d capture groups", p.Group, len(r.Groups))}
		}
	}
	for _, pat := range []Pattern{r.Before, r.Match, r.After} {
		for _, e := range pat {
			if e.Kind == Category && e.Set == nil {
				return &MalformedRuleError{Err: ErrUndefinedVariable, Line: r.Line, Detail: e.Name}
			}
		}
	}
	return nil
}

func (rs *RuleSet) buildIndex() {
	rs.index = make(map[rune][]int32)
	for i := range rs.forward {
		r := &rs.forward[i]
		rs.maxElem = max(rs.maxElem, len(r.Match))
		first := r.Match[0]
		if first.Kind == Literal {
			rs.index[first.Rune] = append(rs.index[first.Rune], int32(i))
			continue
		}
		runes, ok := first.Set.firstRunes()
		if !ok {
			rs.wild = append(rs.wild, int32(i))
			continue
		}
		for _, c := range runes {
			rs.index[c] = append(rs.index[c], int32(i))
		}
	}
}

// Len returns the number of forward rules.
func (rs *RuleSet) Len() int {
	return len(rs.forward)
}

// Rule returns forward rule i. The returned pointer must not be modified.
func (rs *RuleSet) Rule(i int) *Rule {
	return &rs.forward[i]
}

// Rules returns a copy of the forward rules in definition order.
func (rs *RuleSet) Rules() []Rule {
	return slices.Clone(rs.forward)
}

// ReverseRules returns a copy of the reverse-only and bidirectional rules,
// in inverse orientation.
func (rs *RuleSet) ReverseRules() []Rule {
	return slices.Clone(rs.reverse)
}

// Variable returns the variable defined under name (without the '$').
func (rs *RuleSet) Variable(name string) (*Variable, bool) {
	v, ok := rs.vars[name]
	return v, ok
}

// Category returns the set bound to a category variable.
func (rs *RuleSet) Category(name string) (*CodepointSet, bool) {
	v, ok := rs.vars[name]
	if !ok || v.Set == nil {
		return nil, false
	}
	return v.Set, true
}

// MaxMatchLen returns the number of elements of the longest match pattern.
func (rs *RuleSet) MaxMatchLen() int {
	return rs.maxElem
}

// Candidates returns, in ascending order, the indexes of rules whose match
// can start with r: rules indexed under r and rules that could not be
// indexed. Callers try both lists merged by index.
func (rs *RuleSet) Candidates(r rune) (indexed, wild []int32) {
	return rs.index[r], rs.wild
}
