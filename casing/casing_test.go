package casing

import (
	"strings"
	"testing"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/az-ai-labs/az-translit/data"
	"github.com/az-ai-labs/az-translit/internal/fixture"
)

// TestFixtures runs data/fixtures/<locale>-<Case>.txt for every locale
// with a casing fixture.
func TestFixtures(t *testing.T) {
	t.Parallel()

	locales := map[string]language.Tag{
		"Any": language.Und,
		"el":  language.Greek,
		"tr":  language.Turkish,
		"az":  language.Azerbaijani,
		"lt":  language.Lithuanian,
	}
	for name, tag := range locales {
		for _, target := range []Case{Lower, Upper, Title} {
			id := name + "-" + target.String()
			fixtures, err := fixture.Load(data.Fixtures, id)
			if err != nil {
				t.Fatalf("loading %s: %v", id, err)
			}
			if len(fixtures) == 0 {
				continue
			}
			c := New(target, tag)
			t.Run(id, func(t *testing.T) {
				t.Parallel()
				for _, tc := range fixtures {
					if got := c.Apply(tc.Source); got != tc.Expected {
						t.Errorf("line %d: %s(%+q) = %+q, want %+q", tc.Line, id, tc.Source, got, tc.Expected)
					}
				}
			})
		}
	}
}

func TestApply(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		in     string
		target Case
		tag    language.Tag
		want   string
	}{
		{"empty", "", Upper, language.Und, ""},
		{"root upper i", "istanbul", Upper, language.Und, "ISTANBUL"},
		{"turkish upper i", "istanbul", Upper, language.Turkish, "\u0130STANBUL"},
		{"azerbaijani lower I", "KITAB", Lower, language.Azerbaijani, "k\u0131tab"},
		{"azerbaijani dotted capital", "\u0130stanbul", Lower, language.Azerbaijani, "istanbul"},
		{"turkish I with dot above", "I\u0307", Lower, language.Turkish, "i"},
		{"root dotted capital", "\u0130", Lower, language.Und, "i\u0307"},
		{"regional tag", "i", Upper, language.MustParse("az-Latn-AZ"), "\u0130"},
		{"sharp s", "stra\u00DFe", Upper, language.Und, "STRASSE"},
		{"sharp s title", "\u00DFen", Title, language.Und, "Ssen"},
		{"final sigma", "\u039F\u03A3", Lower, language.Und, "\u03BF\u03C2"},
		{"sigma before letter", "\u03A3\u039F", Lower, language.Und, "\u03C3\u03BF"},
		{"sigma after apostrophe", "\u039F'\u03A3", Lower, language.Und, "\u03BF'\u03C2"},
		{"lone sigma", "\u03A3", Lower, language.Und, "\u03C3"},
		{"greek tonos dropped", "\u03AC\u03B5\u03C1\u03B1\u03C2", Upper, language.Greek, "\u0391\u0395\u03A1\u0391\u03A3"},
		{"greek diaeresis kept", "\u03CA", Upper, language.Greek, "\u03AA"},
		{"greek tonos kept in root", "\u03AC", Upper, language.Und, "\u0386"},
		{"j caron", "\u01F0", Upper, language.Und, "J\u030C"},
		{"ypogegrammeni", "\u1FB3", Upper, language.Und, "\u0391\u0399"},
		{"ypogegrammeni title", "\u1FB3\u03B2", Title, language.Und, "\u1FBC\u03B2"},
		{"armenian ech yiwn", "\u0587", Upper, language.Und, "\u0535\u0552"},
		{"armenian ech yiwn title", "\u0587", Title, language.Und, "\u0535\u0582"},
		{"upsilon psili", "\u1F50", Upper, language.Und, "\u03A5\u0313"},
		{"title words", "bakı şəhəri", Title, language.Azerbaijani, "Bakı Şəhəri"},
		{"title apostrophe", "o'neil", Title, language.Und, "O'neil"},
		{"title hyphen", "ab-cd", Title, language.Und, "Ab-Cd"},
		{"title after punctuation", "(bakı)", Title, language.Azerbaijani, "(Bakı)"},
		{"title turkish i", "izmir", Title, language.Turkish, "\u0130zmir"},
		{"title ligature", "\uFB01sh", Title, language.Und, "Fish"},
		{"lithuanian title removes dot", "i\u0307\u0300", Title, language.Lithuanian, "I\u0300"},
		{"lithuanian lower Ì", "\u00CC", Lower, language.Lithuanian, "i\u0307\u0300"},
		{"lithuanian upper dot", "i\u0307\u0301", Upper, language.Lithuanian, "\u00CD"},
		{"invalid utf8", "a\xffb", Upper, language.Und, "A\uFFFDB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Apply(tt.in, tt.target, tt.tag); got != tt.want {
				t.Errorf("Apply(%+q, %v, %v) = %+q, want %+q", tt.in, tt.target, tt.tag, got, tt.want)
			}
		})
	}
}

// TestTurkicMatchesXText compares the Turkic tables with the x/text
// implementation on text where the two must agree.
func TestTurkicMatchesXText(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"istanbul", "IĞDIR", "ılık", "Kitab", "şəhər", "İSTANBUL",
		"Azərbaycan Respublikası", "QIŞ", "iI ıİ", "I\u0307",
	}
	for _, tag := range []language.Tag{language.Turkish, language.Azerbaijani} {
		for _, in := range inputs {
			if got, want := Apply(in, Upper, tag), cases.Upper(tag).String(in); got != want {
				t.Errorf("Upper(%q, %v) = %q, x/text gives %q", in, tag, got, want)
			}
			if got, want := Apply(in, Lower, tag), cases.Lower(tag).String(in); got != want {
				t.Errorf("Lower(%q, %v) = %q, x/text gives %q", in, tag, got, want)
			}
		}
	}
}

// TestRootMatchesXText compares the root locale with x/text/cases on
// every letter.
func TestRootMatchesXText(t *testing.T) {
	t.Parallel()

	casers := []struct {
		target Case
		want   cases.Caser
	}{
		{Lower, cases.Lower(language.Und)},
		{Upper, cases.Upper(language.Und)},
		{Title, cases.Title(language.Und)},
	}
	for _, cs := range casers {
		c := New(cs.target, language.Und)
		mismatches := 0
		for r := rune(0); r <= unicode.MaxRune; r++ {
			if !unicode.IsLetter(r) {
				continue
			}
			s := string(r)
			got, want := c.Apply(s), cs.want.String(s)
			if got == want {
				continue
			}
			if mismatches++; mismatches <= 10 {
				t.Errorf("%v U+%04X %q: got %+q, want %+q", cs.target, r, s, got, want)
			}
		}
		if mismatches > 10 {
			t.Errorf("%v: %d mismatches in total", cs.target, mismatches)
		}
	}

	sentences := []string{
		"ǰ ẖ ẗ ẘ ẙ ẚ",
		"\u0390\u03B0 \u1F50\u1F52 \u1FB3\u1FC3\u1FF3 \u1FB6\u1FC6",
		"\u0587 \uFB13\uFB14",
		"stra\u00DFe \uFB01sh",
	}
	upper := cases.Upper(language.Und)
	for _, s := range sentences {
		if got, want := Apply(s, Upper, language.Und), upper.String(s); got != want {
			t.Errorf("Upper(%+q) = %+q, want %+q", s, got, want)
		}
	}
}

func TestParseCase(t *testing.T) {
	t.Parallel()

	for _, c := range []Case{Lower, Upper, Title} {
		got, err := ParseCase(c.String())
		if err != nil || got != c {
			t.Errorf("ParseCase(%q) = %v, %v", c.String(), got, err)
		}
	}
	if _, err := ParseCase("lower"); err == nil {
		t.Error(`ParseCase("lower") succeeded`)
	}
	if got := Case(7).String(); got != "Case(7)" {
		t.Errorf("Case(7).String() = %q", got)
	}
}

func TestCaserAccessors(t *testing.T) {
	t.Parallel()

	c := New(Title, language.Lithuanian)
	if c.Target() != Title {
		t.Errorf("Target() = %v, want Title", c.Target())
	}
	if c.Tag() != language.Lithuanian {
		t.Errorf("Tag() = %v, want lt", c.Tag())
	}
	if len(c.tables) != 2 {
		t.Errorf("lt caser has %d tables, want 2", len(c.tables))
	}
	if n := len(New(Upper, language.Und).tables); n != 1 {
		t.Errorf("root caser has %d tables, want 1", n)
	}
}

func TestConditionString(t *testing.T) {
	t.Parallel()

	if got := FinalSigma.String(); !strings.Contains(got, "Final") {
		t.Errorf("FinalSigma.String() = %q", got)
	}
}

func FuzzUpperIdempotent(f *testing.F) {
	f.Add("istanbul")
	f.Add("stra\u00DFe")
	f.Add("\u1F15\u03BE \u039F\u03B4\u03CC\u03C2")
	f.Add("xi\u0307\u0308")
	f.Add("\uFB03")
	f.Add("")
	f.Add("\xff")

	tags := []language.Tag{language.Und, language.Turkish, language.Lithuanian, language.Greek}
	f.Fuzz(func(t *testing.T, s string) {
		for _, tag := range tags {
			c := New(Upper, tag)
			once := c.Apply(s)
			if twice := c.Apply(once); twice != once {
				t.Errorf("Upper not idempotent under %v:\ninput:  %+q\nfirst:  %+q\nsecond: %+q", tag, s, once, twice)
			}
		}
	})
}

func BenchmarkUpperTurkish(b *testing.B) {
	input := strings.Repeat("Azərbaycan Respublikasının paytaxtı Bakı şəhəridir. ", 1000)
	c := New(Upper, language.Turkish)
	b.SetBytes(int64(len(input)))
	b.ResetTimer()
	for b.Loop() {
		c.Apply(input)
	}
}

func BenchmarkTitleGreek(b *testing.B) {
	input := strings.Repeat("\u03BF\u03B4\u03CC\u03C2 \u1F15\u03BE ", 1000)
	c := New(Title, language.Greek)
	b.SetBytes(int64(len(input)))
	b.ResetTimer()
	for b.Loop() {
		c.Apply(input)
	}
}
