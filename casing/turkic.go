package casing

// turkic holds the Turkish and Azerbaijani exceptions. Both languages use
// dotted and dotless I as separate letters:
//   - I (U+0049) lowercases to ı (U+0131, dotless small i)
//   - İ (U+0130, dotted capital I) lowercases to i (U+0069)
//   - i (U+0069) uppercases to İ (U+0130, dotted capital I)
//   - ı (U+0131, dotless small i) uppercases to I (U+0049)
//
// I followed by a combining dot above lowercases to plain i.
var turkic = table{
	Lower: {
		'\u0130': {{Always, "i"}},
		'\u0307': {{AfterI, ""}},
		'I':      {{NotBeforeDot, "\u0131"}},
	},
	Upper: {
		'i': {{Always, "\u0130"}},
	},
	Title: {
		'i': {{Always, "\u0130"}},
	},
}
