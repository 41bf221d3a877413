package rules

import (
	"slices"
	"sort"
	"unicode"
	"unicode/utf8"
)

// maxIndexRunes bounds how many runes a set may enumerate before it is
// treated as a predicate-only set by the rule index.
const maxIndexRunes = 1 << 16

type runeRange struct {
	lo, hi rune
}

// CodepointSet is an immutable set of Unicode scalar values and short
// strings, used as a named category inside rule patterns.
//
// Membership of single runes is the union of explicit ranges, property
// tables and nested sets, minus any subtracted sets, optionally
// complemented. Strings are kept separately and never take part in a
// complement.
type CodepointSet struct {
	ranges []runeRange
	tables []*unicode.RangeTable
	union  []*CodepointSet
	minus  []*CodepointSet
	strs   []string // multi-rune members, longest first
	neg    bool
}

// Contains reports whether r is a member of the set.
func (s *CodepointSet) Contains(r rune) bool {
	if s == nil {
		return false
	}
	return s.positive(r) != s.neg
}

func (s *CodepointSet) positive(r rune) bool {
	in := false
	i := sort.Search(len(s.ranges), func(i int) bool { return s.ranges[i].hi >= r })
	if i < len(s.ranges) && s.ranges[i].lo <= r {
		in = true
	}
	if !in {
		for _, t := range s.tables {
			if unicode.Is(t, r) {
				in = true
				break
			}
		}
	}
	if !in {
		for _, u := range s.union {
			if u.Contains(r) {
				in = true
				break
			}
		}
	}
	if !in {
		return false
	}
	for _, m := range s.minus {
		if m.Contains(r) {
			return false
		}
	}
	return true
}

// ContainsString reports whether str is a member: either a single rune in
// the set or one of its multi-rune strings.
func (s *CodepointSet) ContainsString(str string) bool {
	if s == nil {
		return false
	}
	if r, size := utf8.DecodeRuneInString(str); size == len(str) && size > 0 {
		return s.Contains(r)
	}
	return slices.Contains(s.strs, str)
}

// Strings returns the multi-rune members, longest first.
func (s *CodepointSet) Strings() []string {
	return slices.Clone(s.strs)
}

// IsEmpty reports whether the set has no members at all.
func (s *CodepointSet) IsEmpty() bool {
	if len(s.strs) > 0 || s.neg {
		return false
	}
	if len(s.tables) > 0 {
		return false
	}
	empty := true
	s.eachRune(func(rune) bool {
		empty = false
		return false
	})
	return empty
}

// enumerable reports whether the rune members can be listed, which
// requires no complement and no property tables anywhere in the union.
func (s *CodepointSet) enumerable() bool {
	if s.neg || len(s.tables) > 0 {
		return false
	}
	for _, u := range s.union {
		if !u.enumerable() {
			return false
		}
	}
	return s.size() <= maxIndexRunes
}

func (s *CodepointSet) size() int {
	n := 0
	for _, r := range s.ranges {
		n += int(r.hi-r.lo) + 1
	}
	for _, u := range s.union {
		n += u.size()
	}
	return n
}

// eachRune calls fn for every rune member of an enumerable set until fn
// returns false. Runes reachable through several nested sets may be
// reported more than once.
func (s *CodepointSet) eachRune(fn func(rune) bool) {
	var walk func(c *CodepointSet) bool
	walk = func(c *CodepointSet) bool {
		for _, rg := range c.ranges {
			for r := rg.lo; r <= rg.hi; r++ {
				if s.Contains(r) && !fn(r) {
					return false
				}
			}
		}
		for _, u := range c.union {
			if !walk(u) {
				return false
			}
		}
		return true
	}
	walk(s)
}

// firstRunes returns the runes a match against s can start with, and false
// when the set is too large or predicate-based to enumerate.
func (s *CodepointSet) firstRunes() ([]rune, bool) {
	if !s.enumerable() {
		return nil, false
	}
	seen := make(map[rune]bool)
	var out []rune
	add := func(r rune) bool {
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
		return true
	}
	s.eachRune(add)
	for _, str := range s.strs {
		r, _ := utf8.DecodeRuneInString(str)
		add(r)
	}
	return out, true
}

// matchForward returns the number of runes of text starting at i that
// match the set: the longest string member, else one rune. It returns 0
// on no match.
func (s *CodepointSet) matchForward(text []rune, i int) int {
	for _, str := range s.strs {
		if hasRunePrefix(text[i:], str) {
			return utf8.RuneCountInString(str)
		}
	}
	if i < len(text) && s.Contains(text[i]) {
		return 1
	}
	return 0
}

// matchBackward is matchForward mirrored: it matches text ending just
// before j.
func (s *CodepointSet) matchBackward(text []rune, j int) int {
	for _, str := range s.strs {
		if hasRuneSuffix(text[:j], str) {
			return utf8.RuneCountInString(str)
		}
	}
	if j > 0 && s.Contains(text[j-1]) {
		return 1
	}
	return 0
}

func hasRunePrefix(text []rune, str string) bool {
	k := 0
	for _, r := range str {
		if k >= len(text) || text[k] != r {
			return false
		}
		k++
	}
	return true
}

func hasRuneSuffix(text []rune, str string) bool {
	rs := []rune(str)
	if len(rs) > len(text) {
		return false
	}
	return slices.Equal(text[len(text)-len(rs):], rs)
}

// setBuilder accumulates members while a set expression is parsed.
type setBuilder struct {
	ranges []runeRange
	tables []*unicode.RangeTable
	union  []*CodepointSet
	minus  []*CodepointSet
	strs   map[string]bool
	neg    bool
}

func (b *setBuilder) addRange(lo, hi rune) {
	b.ranges = append(b.ranges, runeRange{lo, hi})
}

func (b *setBuilder) addString(str string) {
	if utf8.RuneCountInString(str) == 1 {
		r, _ := utf8.DecodeRuneInString(str)
		b.addRange(r, r)
		return
	}
	if b.strs == nil {
		b.strs = make(map[string]bool)
	}
	b.strs[str] = true
}

// addSet merges a nested set. Plain positive sets are flattened; anything
// else is kept as a union member.
func (b *setBuilder) addSet(c *CodepointSet) {
	for _, str := range c.strs {
		b.addString(str)
	}
	if !c.neg && len(c.minus) == 0 {
		b.ranges = append(b.ranges, c.ranges...)
		b.tables = append(b.tables, c.tables...)
		b.union = append(b.union, c.union...)
		return
	}
	stripped := *c
	stripped.strs = nil
	b.union = append(b.union, &stripped)
}

func (b *setBuilder) subtract(c *CodepointSet) {
	b.minus = append(b.minus, c)
	for _, str := range c.strs {
		delete(b.strs, str)
	}
}

func (b *setBuilder) build() *CodepointSet {
	s := &CodepointSet{
		ranges: mergeRanges(b.ranges),
		tables: b.tables,
		union:  b.union,
		minus:  b.minus,
		neg:    b.neg,
	}
	if !b.neg {
		for str := range b.strs {
			s.strs = append(s.strs, str)
		}
		sort.Slice(s.strs, func(i, j int) bool {
			li, lj := utf8.RuneCountInString(s.strs[i]), utf8.RuneCountInString(s.strs[j])
			if li != lj {
				return li > lj
			}
			return s.strs[i] < s.strs[j]
		})
	}
	return s
}

func mergeRanges(in []runeRange) []runeRange {
	if len(in) == 0 {
		return nil
	}
	rs := slices.Clone(in)
	sort.Slice(rs, func(i, j int) bool { return rs[i].lo < rs[j].lo })
	out := rs[:1]
	for _, r := range rs[1:] {
		last := &out[len(out)-1]
		if r.lo <= last.hi+1 {
			if r.hi > last.hi {
				last.hi = r.hi
			}
			continue
		}
		out = append(out, r)
	}
	return out
}

// NewSet returns a set holding the given members. Single-rune members
// become rune members, longer ones string members; empty strings are
// ignored.
func NewSet(members ...string) *CodepointSet {
	var b setBuilder
	for _, m := range members {
		if m != "" {
			b.addString(m)
		}
	}
	return b.build()
}

// NewRangeSet returns the set of runes lo through hi inclusive.
func NewRangeSet(lo, hi rune) *CodepointSet {
	var b setBuilder
	if lo <= hi {
		b.addRange(lo, hi)
	}
	return b.build()
}
