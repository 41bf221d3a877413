package rules

import (
	"errors"
	"testing"
)

func FuzzParse(f *testing.F) {
	f.Add("a > b ;")
	f.Add("$v = [aeiou] ; $v { e > ye ;")
	f.Add("г } [әеиөү] > g ;")
	f.Add("( a ) b > $1 ;")
	f.Add("^ a } b $ > c ;")
	f.Add("[[:L:]-[aeiou]] > x ;")
	f.Add("[a {sh} \\p{Lu}] <> y ;")
	f.Add("'>' > '' ;")
	f.Add("\\u0430 \\x{44} > z ;")
	f.Add("[[[[")
	f.Add("{ } > ;")
	f.Add("$")
	f.Add("")
	f.Add("\xff\xfe")

	f.Fuzz(func(t *testing.T, src string) {
		rs, err := Parse(src)
		if err != nil {
			if !errors.Is(err, ErrMalformedRule) {
				t.Errorf("Parse(%q) error %v does not match ErrMalformedRule", src, err)
			}
			return
		}
		for _, r := range rs.Rules() {
			if len(r.Match) == 0 {
				t.Errorf("Parse(%q) produced a zero-width rule %s", src, r.String())
			}
		}
		Invert(rs)
	})
}

func FuzzParseSet(f *testing.F) {
	f.Add("[abc]")
	f.Add("[^a-z]")
	f.Add("[:Lu:]")
	f.Add("[[:L:]-[aeiou]]")
	f.Add("[{ab} c]")
	f.Add("\\p{Cyrillic}")
	f.Add("[")

	f.Fuzz(func(t *testing.T, expr string) {
		set, err := ParseSet(expr)
		if err != nil {
			return
		}
		set.Contains('a')
		set.IsEmpty()
	})
}
