package builtin

import (
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"

	"github.com/az-ai-labs/az-translit/rules"
)

// widthRanges are the blocks scanned for fullwidth forms: general
// punctuation through CJK symbols and kana, Hangul compatibility jamo,
// and the halfwidth and fullwidth forms block.
var widthRanges = [][2]rune{
	{0x2000, 0x30FF},
	{0x3130, 0x318F},
	{0xFF00, 0xFFEF},
}

// FullwidthHalfwidth builds the rules that replace fullwidth and wide
// characters by their halfwidth counterparts: "＼" becomes "\", "ガ"
// becomes "ｶﾞ".
func FullwidthHalfwidth() (*rules.RuleSet, error) {
	var fwd []rules.Rule
	for _, lim := range widthRanges {
		for r := lim[0]; r <= lim[1]; r++ {
			if n := narrowForm(r); n != "" {
				fwd = append(fwd, literalRule(string(r), n))
			}
		}
	}
	return rules.NewRuleSet(fwd, nil, nil)
}

// narrowForm returns the halfwidth spelling of r, or "" when r has none.
// Voiced kana decompose into a halfwidth base and a halfwidth sound mark.
func narrowForm(r rune) string {
	if n := width.LookupRune(r).Narrow(); n != 0 && n != r {
		return string(n)
	}
	d := []rune(norm.NFD.String(string(r)))
	if len(d) != 2 {
		return ""
	}
	base := width.LookupRune(d[0]).Narrow()
	if base == 0 {
		return ""
	}
	switch d[1] {
	case dakuten:
		return string(base) + string(halfDakuten)
	case handakuten:
		return string(base) + string(halfHandakuten)
	}
	return ""
}

// literalRule returns the context-free rule from > to.
func literalRule(from, to string) rules.Rule {
	return rules.Rule{
		Match:       rules.LiteralPattern(from),
		Replacement: rules.LiteralTemplate(to),
		Dir:         rules.Forward,
	}
}
