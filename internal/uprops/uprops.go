// Package uprops answers the Unicode character-property queries needed by
// the rule engine and the casing transforms.
//
// Property data comes from the standard unicode package and from
// golang.org/x/text (combining classes, decompositions, title casing).
// Nothing here keeps mutable state; all functions are safe for concurrent use.
package uprops

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// categoryOrder lists the two-letter general categories in the order they
// are checked. Every assigned rune belongs to exactly one of them.
var categoryOrder = [...]string{
	"Lu", "Ll", "Lt", "Lm", "Lo",
	"Mn", "Mc", "Me",
	"Nd", "Nl", "No",
	"Pc", "Pd", "Ps", "Pe", "Pi", "Pf", "Po",
	"Sm", "Sc", "Sk", "So",
	"Zs", "Zl", "Zp",
	"Cc", "Cf", "Co", "Cs",
}

// GeneralCategory returns the two-letter general category of r
// ("Lu", "Mn", ...). Unassigned runes report "Cn".
func GeneralCategory(r rune) string {
	for _, name := range categoryOrder {
		if t, ok := unicode.Categories[name]; ok && unicode.Is(t, r) {
			return name
		}
	}
	return "Cn"
}

// IsUppercase reports whether r has general category Lu.
func IsUppercase(r rune) bool {
	return unicode.Is(unicode.Lu, r)
}

// IsLowercase reports whether r has general category Ll.
func IsLowercase(r rune) bool {
	return unicode.Is(unicode.Ll, r)
}

// IsCased reports whether r is a cased letter in the sense of Unicode
// section 3.13: Lu, Ll, Lt, or carrying Other_Uppercase/Other_Lowercase.
func IsCased(r rune) bool {
	return unicode.In(r, unicode.Lu, unicode.Ll, unicode.Lt,
		unicode.Other_Uppercase, unicode.Other_Lowercase)
}

// midLetter holds the Word_Break MidLetter, MidNumLet and Single_Quote
// runes, which count as case-ignorable.
var midLetter = map[rune]bool{
	'\u0027': true, '\u002E': true, '\u003A': true, '\u00B7': true,
	'\u0387': true, '\u05F4': true, '\u2018': true, '\u2019': true,
	'\u2024': true, '\u2027': true, '\uFE13': true, '\uFE52': true,
	'\uFE55': true, '\uFF07': true, '\uFF0E': true, '\uFF1A': true,
}

// IsCaseIgnorable reports whether r is case-ignorable (Mn, Me, Cf, Lm, Sk,
// or a mid-word punctuation rune).
func IsCaseIgnorable(r rune) bool {
	if midLetter[r] {
		return true
	}
	return unicode.In(r, unicode.Mn, unicode.Me, unicode.Cf, unicode.Lm, unicode.Sk)
}

// IsSoftDotted reports whether r carries the Soft_Dotted property (i, j, į, ...).
func IsSoftDotted(r rune) bool {
	return unicode.Is(unicode.Soft_Dotted, r)
}

// CombiningClass returns the canonical combining class of r.
func CombiningClass(r rune) uint8 {
	return norm.NFD.PropertiesString(string(r)).CCC()
}

// IsAboveMark reports whether r is a combining mark of class 230 (above).
func IsAboveMark(r rune) bool {
	return CombiningClass(r) == 230
}

// Decompose returns the canonical (NFD) decomposition of r. Runes without a
// decomposition come back as a one-rune slice.
func Decompose(r rune) []rune {
	return []rune(norm.NFD.String(string(r)))
}

// ToTitleCase title-cases s under the casing rules of tag.
// Use language.Und for the root locale.
func ToTitleCase(s string, tag language.Tag) string {
	if s == "" {
		return s
	}
	return cases.Title(tag).String(s)
}

// Table resolves a property name used in set syntax to its range table.
// General categories ("Lu", "L"), scripts ("Cyrillic") and binary
// properties ("Soft_Dotted") are recognized; matching is case-sensitive
// first, then case-insensitive.
func Table(name string) (*unicode.RangeTable, bool) {
	for _, m := range []map[string]*unicode.RangeTable{unicode.Categories, unicode.Scripts, unicode.Properties} {
		if t, ok := m[name]; ok {
			return t, true
		}
	}
	for _, m := range []map[string]*unicode.RangeTable{unicode.Categories, unicode.Scripts, unicode.Properties} {
		for k, t := range m {
			if strings.EqualFold(k, name) {
				return t, true
			}
		}
	}
	return nil, false
}
