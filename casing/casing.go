// Package casing provides locale-aware Lower, Upper and Title transforms.
//
// Default mappings follow the Unicode full case mappings (ß uppercases to
// SS, Σ lowercases to ς at the end of a word). Locale exception tables are
// consulted first:
//
//   - tr, az: dotted and dotless I are separate letters (i ↔ İ, ı ↔ I).
//   - lt: a combining dot above is kept on lowercase i and j when another
//     accent above follows, and removed again when uppercasing.
//   - el: uppercasing drops accents and breathings; the diaeresis stays.
//
// Title case capitalizes the first cased letter of every word and
// lowercases the rest. Case-ignorable runes (apostrophes, combining marks)
// do not end a word; other non-letters do.
//
// A Caser holds no mutable state and is safe for concurrent use.
//
// Known limitations:
//
//   - Word boundaries are approximated from letter classes; there is no
//     full UAX #29 segmentation.
//   - Dutch IJ, Armenian ligatures and other language-specific title rules
//     are not implemented.
//   - Greek uppercase output and Lithuanian uppercase output with a
//     removed dot are NFC-normalized as a whole.
package casing

import (
	"fmt"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/az-ai-labs/az-translit/internal/uprops"
)

// Case selects the target case form.
type Case int

const (
	Lower Case = iota
	Upper
	Title
)

var caseNames = [...]string{
	Lower: "Lower",
	Upper: "Upper",
	Title: "Title",
}

func (c Case) String() string {
	if int(c) >= 0 && int(c) < len(caseNames) {
		return caseNames[c]
	}
	return fmt.Sprintf("Case(%d)", int(c))
}

// ParseCase returns the Case named by s ("Lower", "Upper" or "Title").
func ParseCase(s string) (Case, error) {
	for c, name := range caseNames {
		if name == s {
			return Case(c), nil
		}
	}
	return 0, fmt.Errorf("casing: unknown case %q", s)
}

type locale int

const (
	localeRoot locale = iota
	localeTurkic
	localeLithuanian
	localeGreek
)

func localeOf(tag language.Tag) locale {
	base, conf := tag.Base()
	if conf == language.No {
		return localeRoot
	}
	switch base.String() {
	case "tr", "az":
		return localeTurkic
	case "lt":
		return localeLithuanian
	case "el":
		return localeGreek
	}
	return localeRoot
}

// Caser converts text to one case form under the rules of one locale.
type Caser struct {
	target Case
	tag    language.Tag
	loc    locale
	tables []table // locale table first, then the default table
}

// New returns a Caser for target under the casing rules of tag. Use
// language.Und for the root locale.
func New(target Case, tag language.Tag) *Caser {
	c := &Caser{target: target, tag: tag, loc: localeOf(tag)}
	switch c.loc {
	case localeTurkic:
		c.tables = append(c.tables, turkic)
	case localeLithuanian:
		c.tables = append(c.tables, lithuanian)
	}
	c.tables = append(c.tables, root)
	return c
}

// Apply converts s to target case under the rules of tag.
func Apply(s string, target Case, tag language.Tag) string {
	return New(target, tag).Apply(s)
}

// Target returns the case form c produces.
func (c *Caser) Target() Case { return c.target }

// Tag returns the locale c was built for.
func (c *Caser) Tag() language.Tag { return c.tag }

type wordState int

const (
	atWordStart wordState = iota
	inWord
)

// keepsWord reports whether r leaves the title-case state unchanged.
func keepsWord(r rune) bool {
	return uprops.IsCaseIgnorable(r) || unicode.IsMark(r)
}

// Apply converts s.
func (c *Caser) Apply(s string) string {
	if s == "" {
		return s
	}
	greek := c.loc == localeGreek && c.target == Upper
	if greek {
		s = norm.NFD.String(s)
	}
	in := []rune(s)
	out := make([]rune, 0, len(in)+len(in)/8)
	st := cursor{in: in, titled: -1}
	state := atWordStart
	lastGreek := false
	removed := false

	for i, r := range in {
		st.i = i
		mode := c.target
		if c.target == Title {
			switch {
			case state == atWordStart && uprops.IsCased(r):
				state = inWord
				st.titled = i
			case state == inWord && (uprops.IsCased(r) || keepsWord(r)):
				mode = Lower
			case keepsWord(r) || unicode.IsLetter(r):
				out = append(out, r)
				continue
			default:
				state = atWordStart
				out = append(out, r)
				continue
			}
		}

		if greek {
			if uprops.CombiningClass(r) == 0 {
				lastGreek = unicode.Is(unicode.Greek, r)
			} else if lastGreek && greekStripped[r] {
				continue
			}
		}

		if to, ok := c.exception(mode, &st); ok {
			if to == "" {
				removed = true
			}
			out = append(out, []rune(to)...)
			continue
		}
		out = append(out, simple(mode, r))
	}

	if greek || (removed && c.loc == localeLithuanian && c.target == Upper) {
		return norm.NFC.String(string(out))
	}
	return string(out)
}

func (c *Caser) exception(mode Case, st *cursor) (string, bool) {
	r := st.in[st.i]
	for _, t := range c.tables {
		for _, e := range t[mode][r] {
			if e.When.holds(st) {
				return e.To, true
			}
		}
	}
	return "", false
}

func simple(mode Case, r rune) rune {
	switch mode {
	case Upper:
		return unicode.ToUpper(r)
	case Title:
		return unicode.ToTitle(r)
	}
	return unicode.ToLower(r)
}

// greekStripped lists the accents and breathings removed when uppercasing
// Greek.
var greekStripped = map[rune]bool{
	'\u0300': true, // varia
	'\u0301': true, // oxia, tonos
	'\u0313': true, // psili
	'\u0314': true, // dasia
	'\u0342': true, // perispomeni
	'\u0343': true, // koronis
}
