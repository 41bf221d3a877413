package builtin

import (
	"github.com/az-ai-labs/az-translit/rules"
)

const (
	hangulBase  = 0xAC00
	hangulCount = 11172
	jongN       = 28
	jungN       = 21
)

// Revised Romanization of Korean, per jamo position.
var (
	choseong = []string{
		"g", "kk", "n", "d", "tt", "r", "m", "b", "pp",
		"s", "ss", "", "j", "jj", "ch", "k", "t", "p", "h",
	}
	jungseong = []string{
		"a", "ae", "ya", "yae", "eo", "e", "yeo", "ye", "o",
		"wa", "wae", "oe", "yo", "u", "wo", "we", "wi", "yu",
		"eu", "ui", "i",
	}
	jongseong = []string{
		"", "g", "kk", "gs", "n", "nj", "nh", "d", "l", "lg",
		"lm", "lb", "ls", "lt", "lp", "lh", "m", "b", "bs",
		"s", "ss", "ng", "j", "ch", "k", "t", "p", "h",
	}
)

// romanizeSyllable spells the precomposed syllable hangulBase+code.
func romanizeSyllable(code int) string {
	jong := code % jongN
	jung := (code / jongN) % jungN
	cho := code / (jongN * jungN)
	return choseong[cho] + jungseong[jung] + jongseong[jong]
}

// HangulLatin builds one rule per precomposed Hangul syllable: "갗" ->
// "gach", "느" -> "neu". Syllables are romanized one at a time, without
// the sound changes across syllable boundaries.
func HangulLatin() (*rules.RuleSet, error) {
	fwd := make([]rules.Rule, 0, hangulCount)
	for code := range hangulCount {
		fwd = append(fwd, literalRule(string(rune(hangulBase+code)), romanizeSyllable(code)))
	}
	return rules.NewRuleSet(fwd, nil, nil)
}
