package builtin

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"

	"github.com/az-ai-labs/az-translit/rules"
)

// Sound marks and length marks as they occur in katakana text.
const (
	dakuten           = '\u3099' // combining voiced sound mark
	handakuten        = '\u309A' // combining semi-voiced sound mark
	spacingDakuten    = '\u309B'
	spacingHandakuten = '\u309C'
	halfDakuten       = '\uFF9E'
	halfHandakuten    = '\uFF9F'
	longMark          = '\u30FC'
	halfLongMark      = '\uFF70'
	sokuon            = '\u30C3' // small tsu
	halfSokuon        = '\uFF6F'
)

type kanaRoman struct {
	kana  string
	roman string
}

// hepburn is the modified Hepburn table for single katakana.
var hepburn = []kanaRoman{
	{"ア", "a"}, {"イ", "i"}, {"ウ", "u"}, {"エ", "e"}, {"オ", "o"},
	{"カ", "ka"}, {"キ", "ki"}, {"ク", "ku"}, {"ケ", "ke"}, {"コ", "ko"},
	{"サ", "sa"}, {"シ", "shi"}, {"ス", "su"}, {"セ", "se"}, {"ソ", "so"},
	{"タ", "ta"}, {"チ", "chi"}, {"ツ", "tsu"}, {"テ", "te"}, {"ト", "to"},
	{"ナ", "na"}, {"ニ", "ni"}, {"ヌ", "nu"}, {"ネ", "ne"}, {"ノ", "no"},
	{"ハ", "ha"}, {"ヒ", "hi"}, {"フ", "fu"}, {"ヘ", "he"}, {"ホ", "ho"},
	{"マ", "ma"}, {"ミ", "mi"}, {"ム", "mu"}, {"メ", "me"}, {"モ", "mo"},
	{"ヤ", "ya"}, {"ユ", "yu"}, {"ヨ", "yo"},
	{"ラ", "ra"}, {"リ", "ri"}, {"ル", "ru"}, {"レ", "re"}, {"ロ", "ro"},
	{"ワ", "wa"}, {"ヰ", "wi"}, {"ヱ", "we"}, {"ヲ", "o"}, {"ン", "n"},
	{"ガ", "ga"}, {"ギ", "gi"}, {"グ", "gu"}, {"ゲ", "ge"}, {"ゴ", "go"},
	{"ザ", "za"}, {"ジ", "ji"}, {"ズ", "zu"}, {"ゼ", "ze"}, {"ゾ", "zo"},
	{"ダ", "da"}, {"ヂ", "ji"}, {"ヅ", "zu"}, {"デ", "de"}, {"ド", "do"},
	{"バ", "ba"}, {"ビ", "bi"}, {"ブ", "bu"}, {"ベ", "be"}, {"ボ", "bo"},
	{"パ", "pa"}, {"ピ", "pi"}, {"プ", "pu"}, {"ペ", "pe"}, {"ポ", "po"},
	{"ヴ", "vu"},
	{"ァ", "a"}, {"ィ", "i"}, {"ゥ", "u"}, {"ェ", "e"}, {"ォ", "o"},
	{"ャ", "ya"}, {"ュ", "yu"}, {"ョ", "yo"}, {"ヮ", "wa"},
}

// yoonBases are the i-row kana that combine with small ya, yu and yo.
var yoonBases = "キギシジチヂニヒビピミリ"

var yoonSmall = []kanaRoman{{"ャ", "a"}, {"ュ", "u"}, {"ョ", "o"}}

// syllables returns the single kana and the yōon combinations (キャ kya,
// シュ shu, ...).
func syllables() []kanaRoman {
	out := slices.Clone(hepburn)
	roman := make(map[string]string, len(hepburn))
	for _, kr := range hepburn {
		roman[kr.kana] = kr.roman
	}
	for _, b := range yoonBases {
		r := roman[string(b)]
		stem := strings.TrimSuffix(r, "i")
		for _, s := range yoonSmall {
			if strings.HasSuffix(stem, "sh") || strings.HasSuffix(stem, "ch") || stem == "j" {
				out = append(out, kanaRoman{string(b) + s.kana, stem + s.roman})
			} else {
				out = append(out, kanaRoman{string(b) + s.kana, stem + "y" + s.roman})
			}
		}
	}
	return out
}

// spellings lists every way kana can be written: precomposed or with a
// combining, spacing or halfwidth sound mark, in fullwidth or halfwidth
// letters.
func spellings(kana string) []string {
	runes := []rune(norm.NFD.String(kana))
	alts := make([][]rune, len(runes))
	for i, r := range runes {
		switch r {
		case dakuten:
			alts[i] = []rune{dakuten, spacingDakuten, halfDakuten}
		case handakuten:
			alts[i] = []rune{handakuten, spacingHandakuten, halfHandakuten}
		default:
			alts[i] = []rune{r}
			if n := width.LookupRune(r).Narrow(); n != 0 && n != r {
				alts[i] = append(alts[i], n)
			}
		}
	}
	seen := make(map[string]bool)
	var out []string
	var walk func(i int, prefix []rune)
	walk = func(i int, prefix []rune) {
		if i == len(alts) {
			s := string(prefix)
			for _, v := range []string{norm.NFC.String(s), s} {
				if !seen[v] {
					seen[v] = true
					out = append(out, v)
				}
			}
			return
		}
		for _, r := range alts[i] {
			walk(i+1, append(prefix[:i:i], r))
		}
	}
	walk(0, nil)
	return out
}

var macron = map[byte]string{'a': "ā", 'i': "ī", 'u': "ū", 'e': "ē", 'o': "ō"}

// lengthen puts a macron on the final vowel of roman.
func lengthen(roman string) string {
	if m, ok := macron[roman[len(roman)-1]]; ok {
		return roman[:len(roman)-1] + m
	}
	return roman
}

// geminate returns what a small tsu before roman turns into: the first
// consonant doubled, "t" before ch, nothing before vowels and n.
func geminate(roman string) string {
	switch {
	case roman == "n" || strings.ContainsRune("aiueo", rune(roman[0])):
		return ""
	case strings.HasPrefix(roman, "ch"):
		return "t"
	}
	return roman[:1]
}

// KatakanaLatin builds the Katakana to Latin rules: modified Hepburn with
// yōon, long vowels written with a macron ("ハー" -> "hā"), small tsu
// doubling the next consonant, and halfwidth katakana and sound marks
// ("ハﾞ" -> "ba").
func KatakanaLatin() (*rules.RuleSet, error) {
	syl := syllables()
	var fwd []rules.Rule
	for _, s := range syl {
		long := lengthen(s.roman)
		for _, sp := range spellings(s.kana) {
			if long != s.roman {
				fwd = append(fwd,
					literalRule(sp+string(longMark), long),
					literalRule(sp+string(halfLongMark), long))
			}
			fwd = append(fwd, literalRule(sp, s.roman))
		}
	}
	for _, s := range syl {
		c := geminate(s.roman)
		if c == "" {
			continue
		}
		for _, sp := range spellings(s.kana) {
			for _, tsu := range []rune{sokuon, halfSokuon} {
				fwd = append(fwd, rules.Rule{
					Match:       rules.LiteralPattern(string(tsu)),
					After:       rules.LiteralPattern(sp),
					Replacement: rules.LiteralTemplate(c),
					Dir:         rules.Forward,
				})
			}
		}
	}
	// Longest match first; a prefix must not shadow a longer spelling.
	slices.SortStableFunc(fwd, func(a, b rules.Rule) int {
		return cmp.Compare(len(b.Match), len(a.Match))
	})
	return rules.NewRuleSet(fwd, nil, nil)
}
