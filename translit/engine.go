package translit

import (
	"unicode/utf8"

	"golang.org/x/text/language"

	"github.com/az-ai-labs/az-translit/internal/uprops"
	"github.com/az-ai-labs/az-translit/rules"
)

// Rewrite applies rs to s in one left-to-right pass.
//
// At each position the rules are tried in definition order and the first
// one that matches wins: its left context is checked against the output
// emitted so far, its match and right context against the input. The
// replacement is emitted and the cursor moves past the match. Where no rule
// matches, one rune is copied unchanged. Rewrite never backtracks.
//
// A replacement of two or more runes that starts with an uppercase letter
// is title-cased when the next input rune is lowercase, so "Ё" before
// lowercase text gives "Yo" rather than "YO". Only a lowercase letter
// triggers it: before a caseless letter, digit, space or punctuation the
// replacement is kept as written ("Ш." gives "SH.").
//
// Rewrite is total: it accepts any string, and invalid UTF-8 bytes come
// out as U+FFFD.
func Rewrite(rs *rules.RuleSet, s string) string {
	if s == "" {
		return s
	}
	in := []rune(s)
	out := make([]rune, 0, len(in)+len(in)/4)
	pos := make([]int, rs.MaxMatchLen()+1)
	for i := 0; i < len(in); {
		r, end, ok := firstMatch(rs, in, i, out, pos)
		if !ok {
			out = append(out, in[i])
			i++
			continue
		}
		repl := r.Expand(in, pos)
		if propagatesCase(repl, in, end) {
			repl = uprops.ToTitleCase(repl, language.Und)
		}
		for _, c := range repl {
			out = append(out, c)
		}
		i = end
	}
	return string(out)
}

// firstMatch returns the lowest-numbered rule matching at in[i]. Indexed
// and unindexed candidates are merged by rule number.
func firstMatch(rs *rules.RuleSet, in []rune, i int, out []rune, pos []int) (*rules.Rule, int, bool) {
	indexed, wild := rs.Candidates(in[i])
	a, b := 0, 0
	for a < len(indexed) || b < len(wild) {
		var k int32
		if b >= len(wild) || (a < len(indexed) && indexed[a] < wild[b]) {
			k = indexed[a]
			a++
		} else {
			k = wild[b]
			b++
		}
		r := rs.Rule(int(k))
		if end, ok := r.MatchAt(in, i, out, pos); ok {
			return r, end, true
		}
	}
	return nil, 0, false
}

func propagatesCase(repl string, in []rune, end int) bool {
	if end >= len(in) || utf8.RuneCountInString(repl) < 2 {
		return false
	}
	first, _ := utf8.DecodeRuneInString(repl)
	return uprops.IsUppercase(first) && uprops.IsLowercase(in[end])
}
