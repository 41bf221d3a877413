package casing

import (
	"golang.org/x/text/unicode/norm"

	"github.com/az-ai-labs/az-translit/internal/uprops"
)

// lithuanian keeps the dot of i and j visible under other accents above:
// lowercasing inserts U+0307, uppercasing and title-casing remove it again.
var lithuanian = table{
	Lower: {
		'I':      {{MoreAbove, "i\u0307"}},
		'J':      {{MoreAbove, "j\u0307"}},
		'\u012E': {{MoreAbove, "\u012F\u0307"}}, // Į
		'\u0307': {{AfterTitledSoftDotted, ""}},
	},
	Upper: {
		'\u0307': {{AfterSoftDotted, ""}},
	},
}

func init() {
	addPrecomposedDots(lithuanian[Lower])
}

// addPrecomposedDots adds lowercase mappings for precomposed capitals
// whose base is I or J and which carry an accent above (Ì, Í, Ĩ, Ï, ...).
// The dot goes after the marks that sit below and before those above.
func addPrecomposedDots(lower map[rune][]Exception) {
	for _, lim := range [][2]rune{{0x00C0, 0x024F}, {0x1E00, 0x1EFF}} {
		for r := lim[0]; r <= lim[1]; r++ {
			d := []rune(norm.NFD.String(string(r)))
			if len(d) < 2 || (d[0] != 'I' && d[0] != 'J') {
				continue
			}
			var below, above []rune
			for _, m := range d[1:] {
				if uprops.IsAboveMark(m) {
					above = append(above, m)
				} else {
					below = append(below, m)
				}
			}
			if len(above) == 0 || above[0] == '\u0307' {
				continue
			}
			to := []rune{d[0] + ('a' - 'A')}
			to = append(to, below...)
			to = append(to, '\u0307')
			to = append(to, above...)
			lower[r] = []Exception{{Always, string(to)}}
		}
	}
}
