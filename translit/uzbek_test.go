package translit_test

import (
	"slices"
	"strings"
	"testing"
	"unicode"

	"golang.org/x/text/language"

	"github.com/az-ai-labs/az-translit/builtin"
	"github.com/az-ai-labs/az-translit/internal/uprops"
	"github.com/az-ai-labs/az-translit/translit"
)

const (
	uzCyrillic = "аА бБ вВ гГ ғҒ дД ЕеЕ ЁёЁ жЖ зЗ иИ йЙ кК қҚ лЛ мМ нН оО пП рР сС тТ уУ ўЎ фФ хХ ҳҲ ЦцЦ ЧчЧ ШшШ бъ Ъ эЭ ЮюЮ ЯяЯ"
	uzLatin    = "aA bB vV gG gʻGʻ dD YeyeYE YoyoYO jJ zZ iI yY kK qQ lL mM nN oO pP rR sS tT uU oʻOʻ fF xX hH TstsTS ChchCH ShshSH bʼ ʼ eE YuyuYU YayaYA"

	uzVowelsAndSigns = "аАеЕёЁиИоОуУўЎэЭюЮяЯьЬъЪ"
)

func uzbek(t *testing.T) (toLatin, toCyrillic *translit.Transliterator) {
	t.Helper()
	toLatin, err := builtin.Registry().Lookup("uz_Cyrl-uz_Latn")
	if err != nil {
		t.Fatal(err)
	}
	toCyrillic, err = toLatin.Inverse()
	if err != nil {
		t.Fatal(err)
	}
	return toLatin, toCyrillic
}

func TestUzbekTokens(t *testing.T) {
	t.Parallel()

	toLatin, toCyrillic := uzbek(t)
	cyr := strings.Fields(uzCyrillic)
	lat := strings.Fields(uzLatin)
	if len(cyr) != len(lat) {
		t.Fatalf("token lists differ in length: %d vs %d", len(cyr), len(lat))
	}
	for i := range cyr {
		if got := toLatin.Apply(cyr[i]); got != lat[i] {
			t.Errorf("to Latin %q = %q, want %q", cyr[i], got, lat[i])
		}
		if got := toCyrillic.Apply(lat[i]); got != cyr[i] {
			t.Errorf("to Cyrillic %q = %q, want %q", lat[i], got, cyr[i])
		}
	}
}

func TestUzbekBelgiya(t *testing.T) {
	t.Parallel()

	toLatin, _ := uzbek(t)
	if got := toLatin.Apply("Бельгия"); got != "Belgiya" {
		t.Errorf("Apply(Бельгия) = %q, want Belgiya", got)
	}
}

// expectedPrefix is the transliteration of prefix followed by suffix,
// with an all-caps prefix title-cased before a lowercase suffix.
func expectedPrefix(toLatin *translit.Transliterator, prefix, suffix string) string {
	result := toLatin.Apply(prefix)
	first, _ := firstRune(suffix)
	lead, ok := firstRune(result)
	if ok && !unicode.IsUpper(first) && unicode.IsUpper(lead) {
		result = uprops.ToTitleCase(result, language.Und)
	}
	return result + suffix
}

func firstRune(s string) (rune, bool) {
	for _, r := range s {
		return r, true
	}
	return 0, false
}

// TestUzbekYe checks that е is "ye" after vowels, signs, spaces and at
// the start of text, and "e" after consonants. A soft sign between a
// consonant and е is dropped and still gives "ye".
func TestUzbekYe(t *testing.T) {
	t.Parallel()

	toLatin, _ := uzbek(t)
	var consonants []string
	for _, r := range strings.ReplaceAll(uzCyrillic, " ", "") {
		if !strings.ContainsRune(uzVowelsAndSigns, r) && !slices.Contains(consonants, string(r)) {
			consonants = append(consonants, string(r))
		}
	}

	for _, e := range []string{"е", "Е"} {
		ysuffix, suffix := "ye", "e"
		if e == "Е" {
			ysuffix, suffix = "YE", "E"
		}
		for _, s := range uzVowelsAndSigns {
			want := expectedPrefix(toLatin, string(s), ysuffix)
			if got := toLatin.Apply(string(s) + e); got != want {
				t.Errorf("Apply(%q) = %q, want %q", string(s)+e, got, want)
			}
		}
		for _, s := range consonants {
			want := expectedPrefix(toLatin, s, suffix)
			if got := toLatin.Apply(s + e); got != want {
				t.Errorf("Apply(%q) = %q, want %q", s+e, got, want)
			}
		}
		for _, s := range []string{" ", ""} {
			want := expectedPrefix(toLatin, s, ysuffix)
			if got := toLatin.Apply(s + e); got != want {
				t.Errorf("Apply(%q) = %q, want %q", s+e, got, want)
			}
		}
		sign := "ь"
		if e == "Е" {
			sign = "Ь"
		}
		for _, s := range consonants {
			want := expectedPrefix(toLatin, s, ysuffix)
			if got := toLatin.Apply(s + sign + e); got != want {
				t.Errorf("Apply(%q) = %q, want %q", s+sign+e, got, want)
			}
		}
	}
}

func TestUzbekSoftSign(t *testing.T) {
	t.Parallel()

	toLatin, toCyrillic := uzbek(t)
	tests := []struct {
		cyrillic, latin string
		inverts         bool
	}{
		{"пьеса", "pyesa", true},
		{"Пьеса", "Pyesa", true},
		{"премьер", "premyer", true},
		{"ПРЕМЬЕР", "PREMYER", true},
		{"съезд", "sʼyezd", true},
		{"Ильич", "Ilich", false},
		{"Бельгия", "Belgiya", false},
	}
	for _, tt := range tests {
		if got := toLatin.Apply(tt.cyrillic); got != tt.latin {
			t.Errorf("to Latin %q = %q, want %q", tt.cyrillic, got, tt.latin)
		}
		if !tt.inverts {
			continue
		}
		if got := toCyrillic.Apply(tt.latin); got != tt.cyrillic {
			t.Errorf("to Cyrillic %q = %q, want %q", tt.latin, got, tt.cyrillic)
		}
	}
}

func TestUzbekRoundTrip(t *testing.T) {
	t.Parallel()

	toLatin, toCyrillic := uzbek(t)
	words := []string{
		"Тошкент", "Ўзбекистон", "поезд", "шеър", "Юлдуз", "мактаб",
		"ғалаба", "шаҳар", "ЧОРСУ", "эл", "пьеса", "премьер",
	}
	for _, w := range words {
		latin := toLatin.Apply(w)
		if back := toCyrillic.Apply(latin); back != w {
			t.Errorf("%q -> %q -> %q", w, latin, back)
		}
	}
}

func FuzzUzbekTotal(f *testing.F) {
	reg := builtin.Registry()
	toLatin, err := reg.Lookup("uz_Cyrl-uz_Latn")
	if err != nil {
		f.Fatal(err)
	}
	toCyrillic, err := toLatin.Inverse()
	if err != nil {
		f.Fatal(err)
	}
	f.Add("Бельгия")
	f.Add("OʻZBEKISTON")
	f.Add("\xff")
	f.Add("")
	f.Fuzz(func(t *testing.T, s string) {
		// Both directions accept any input.
		_ = toCyrillic.Apply(toLatin.Apply(s))
	})
}

func BenchmarkUzbekToLatin(b *testing.B) {
	tr, err := builtin.Registry().Lookup("uz_Cyrl-uz_Latn")
	if err != nil {
		b.Fatal(err)
	}
	input := strings.Repeat("Ўзбекистон Республикасининг пойтахти Тошкент шаҳри. ", 1000)
	b.SetBytes(int64(len(input)))
	b.ResetTimer()
	for b.Loop() {
		tr.Apply(input)
	}
}
