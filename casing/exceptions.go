package casing

import (
	"fmt"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/az-ai-labs/az-translit/internal/uprops"
)

// Condition restricts when an Exception applies. The context conditions
// are those of the Unicode SpecialCasing data.
type Condition int

const (
	Always                Condition = iota
	FinalSigma                      // after a cased letter, not before one
	MoreAbove                       // before an accent above
	BeforeDot                       // before U+0307
	NotBeforeDot                    // not before U+0307
	AfterI                          // after a lowercased I
	AfterSoftDotted                 // after i, j or another soft-dotted letter
	AfterTitledSoftDotted           // after a soft-dotted letter that was title-cased
)

var conditionNames = [...]string{
	Always:                "Always",
	FinalSigma:            "Final_Sigma",
	MoreAbove:             "More_Above",
	BeforeDot:             "Before_Dot",
	NotBeforeDot:          "Not_Before_Dot",
	AfterI:                "After_I",
	AfterSoftDotted:       "After_Soft_Dotted",
	AfterTitledSoftDotted: "After_Titled_Soft_Dotted",
}

func (c Condition) String() string {
	if int(c) >= 0 && int(c) < len(conditionNames) {
		return conditionNames[c]
	}
	return fmt.Sprintf("Condition(%d)", int(c))
}

// Exception replaces the default mapping of a rune with To when its
// condition holds.
type Exception struct {
	When Condition
	To   string
}

// table holds per-case exceptions, indexed by Case.
type table [3]map[rune][]Exception

// cursor is the position being mapped, with the index of the rune the
// title transform capitalized last (-1 when none).
type cursor struct {
	in     []rune
	i      int
	titled int
}

// baseBefore returns the index of the nearest rune before the cursor with
// combining class 0 or 230, skipping other marks, or -1.
func (st *cursor) baseBefore() int {
	for k := st.i - 1; k >= 0; k-- {
		if ccc := uprops.CombiningClass(st.in[k]); ccc == 0 || ccc == 230 {
			return k
		}
	}
	return -1
}

func (c Condition) holds(st *cursor) bool {
	switch c {
	case Always:
		return true
	case FinalSigma:
		return finalSigma(st)
	case MoreAbove:
		for _, r := range st.in[st.i+1:] {
			switch uprops.CombiningClass(r) {
			case 230:
				return true
			case 0:
				return false
			}
		}
		return false
	case BeforeDot:
		return beforeDot(st)
	case NotBeforeDot:
		return !beforeDot(st)
	case AfterI:
		k := st.baseBefore()
		return k >= 0 && k != st.titled && st.in[k] == 'I'
	case AfterSoftDotted:
		k := st.baseBefore()
		return k >= 0 && uprops.IsSoftDotted(st.in[k])
	case AfterTitledSoftDotted:
		k := st.baseBefore()
		return k >= 0 && k == st.titled && uprops.IsSoftDotted(st.in[k])
	}
	return false
}

func beforeDot(st *cursor) bool {
	for _, r := range st.in[st.i+1:] {
		if r == '\u0307' {
			return true
		}
		if ccc := uprops.CombiningClass(r); ccc == 0 || ccc == 230 {
			return false
		}
	}
	return false
}

func finalSigma(st *cursor) bool {
	before := false
	for k := st.i - 1; k >= 0; k-- {
		r := st.in[k]
		if uprops.IsCaseIgnorable(r) {
			continue
		}
		before = uprops.IsCased(r)
		break
	}
	if !before {
		return false
	}
	for _, r := range st.in[st.i+1:] {
		if uprops.IsCaseIgnorable(r) {
			continue
		}
		return !uprops.IsCased(r)
	}
	return true
}

// root holds Final_Sigma, the dotted capital I and the full mappings of
// the root locale. Entries written here win over the generated ones.
var root = table{
	Lower: {
		'\u03A3': {{FinalSigma, "\u03C2"}}, // Σ -> ς
		'\u0130': {{Always, "i\u0307"}},    // İ -> i̇
	},
	Upper: {
		'\u00DF': {{Always, "SS"}},
		'\u0149': {{Always, "\u02BCN"}},
		'\uFB00': {{Always, "FF"}},
		'\uFB01': {{Always, "FI"}},
		'\uFB02': {{Always, "FL"}},
		'\uFB03': {{Always, "FFI"}},
		'\uFB04': {{Always, "FFL"}},
		'\uFB05': {{Always, "ST"}},
		'\uFB06': {{Always, "ST"}},
	},
	Title: {
		'\u00DF': {{Always, "Ss"}},
		'\u0149': {{Always, "\u02BCN"}},
		'\uFB00': {{Always, "Ff"}},
		'\uFB01': {{Always, "Fi"}},
		'\uFB02': {{Always, "Fl"}},
		'\uFB03': {{Always, "Ffi"}},
		'\uFB04': {{Always, "Ffl"}},
		'\uFB05': {{Always, "St"}},
		'\uFB06': {{Always, "St"}},
	},
}

func init() {
	addFullMappings(&root)
}

// addFullMappings adds an Always exception for every cased letter whose
// root-locale full mapping in x/text/cases differs from its simple
// mapping ("ǰ" uppercases to "J̌", "ᾳ" to "ΑΙ").
func addFullMappings(t *table) {
	full := [...]cases.Caser{
		Lower: cases.Lower(language.Und),
		Upper: cases.Upper(language.Und),
		Title: cases.Title(language.Und),
	}
	for _, rng := range unicode.L.R16 {
		for r := rune(rng.Lo); r <= rune(rng.Hi); r += rune(rng.Stride) {
			addFullMapping(t, &full, r)
		}
	}
	for _, rng := range unicode.L.R32 {
		for r := rune(rng.Lo); r <= rune(rng.Hi); r += rune(rng.Stride) {
			addFullMapping(t, &full, r)
		}
	}
}

func addFullMapping(t *table, full *[3]cases.Caser, r rune) {
	if !uprops.IsCased(r) {
		return
	}
	for mode := range full {
		to := full[mode].String(string(r))
		if to == string(simple(Case(mode), r)) {
			continue
		}
		if _, ok := t[mode][r]; ok {
			continue
		}
		t[mode][r] = []Exception{{Always, to}}
	}
}
