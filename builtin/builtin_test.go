package builtin

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/az-ai-labs/az-translit/data"
	"github.com/az-ai-labs/az-translit/internal/fixture"
	"github.com/az-ai-labs/az-translit/translit"
)

func TestEveryTransformCompiles(t *testing.T) {
	t.Parallel()

	reg := Registry()
	ids := reg.IDs()
	if len(ids) < 20 {
		t.Fatalf("only %d transforms registered", len(ids))
	}
	for _, id := range ids {
		if _, err := reg.Lookup(id); err != nil {
			t.Errorf("Lookup(%q): %v", id, err)
		}
	}
}

func TestFixtures(t *testing.T) {
	t.Parallel()

	reg := Registry()
	ran := 0
	for _, id := range reg.IDs() {
		cases, err := fixture.Load(data.Fixtures, id)
		if err != nil {
			t.Fatalf("%s: %v", id, err)
		}
		if len(cases) == 0 {
			continue
		}
		ran++
		tr, err := reg.Lookup(id)
		if err != nil {
			t.Fatalf("Lookup(%q): %v", id, err)
		}
		t.Run(id, func(t *testing.T) {
			t.Parallel()
			for _, c := range cases {
				if got := tr.Apply(c.Source); got != c.Expected {
					t.Errorf("line %d: Apply(%+q) = %+q, want %+q", c.Line, c.Source, got, c.Expected)
				}
			}
		})
	}
	if ran < 10 {
		t.Errorf("only %d transforms have fixtures", ran)
	}
}

func TestReverseIDs(t *testing.T) {
	t.Parallel()

	reg := Registry()
	tests := []struct {
		id, reverse string
	}{
		{"uz_Cyrl-uz_Latn", "uz_Latn-uz_Cyrl"},
		{"az_Cyrl-az_Latn", "az_Latn-az_Cyrl"},
		{"Fullwidth-Halfwidth", "Halfwidth-Fullwidth"},
		{"Hangul-Latin", "Latin-Hangul"},
	}
	for _, tt := range tests {
		rev, err := reg.Lookup(tt.reverse)
		if err != nil {
			t.Fatalf("Lookup(%q): %v", tt.reverse, err)
		}
		if rev.ID() != tt.reverse {
			t.Errorf("ID() = %q, want %q", rev.ID(), tt.reverse)
		}
		inv, err := rev.Inverse()
		if err != nil {
			t.Fatalf("%s: Inverse: %v", tt.reverse, err)
		}
		if inv.ID() != tt.id {
			t.Errorf("%s: Inverse().ID() = %q, want %q", tt.reverse, inv.ID(), tt.id)
		}
	}
}

func TestCasingIDs(t *testing.T) {
	t.Parallel()

	reg := Registry()
	for _, id := range []string{"Any-Upper", "tr-Lower", "az-Title", "el-Upper", "lt-Lower"} {
		tr, err := reg.Lookup(id)
		if err != nil {
			t.Fatalf("Lookup(%q): %v", id, err)
		}
		if tr.Kind() != translit.KindCasing {
			t.Errorf("%s: Kind() = %v, want casing", id, tr.Kind())
		}
		if _, err := tr.Inverse(); !errors.Is(err, translit.ErrNotInvertible) {
			t.Errorf("%s: Inverse error = %v, want ErrNotInvertible", id, err)
		}
	}
}

func TestFullwidthRoundTrip(t *testing.T) {
	t.Parallel()

	reg := Registry()
	toHalf, err := reg.Lookup("Fullwidth-Halfwidth")
	if err != nil {
		t.Fatal(err)
	}
	toFull, err := reg.Lookup("Halfwidth-Fullwidth")
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range []string{"ＡＢＣ１２３", "＼", "カタカナ", "ガギグ", "パ"} {
		half := toHalf.Apply(s)
		if half == s {
			t.Errorf("Fullwidth-Halfwidth left %q unchanged", s)
		}
		if back := toFull.Apply(half); back != s {
			t.Errorf("%q -> %q -> %q", s, half, back)
		}
	}
}

func TestHangulLatin(t *testing.T) {
	t.Parallel()

	rs, err := HangulLatin()
	if err != nil {
		t.Fatal(err)
	}
	if rs.Len() != hangulCount {
		t.Errorf("HangulLatin has %d rules, want %d", rs.Len(), hangulCount)
	}
	tests := []struct {
		code int
		want string
	}{
		{0, "ga"},
		{hangulCount - 1, "hih"},
		{'갗' - hangulBase, "gach"},
		{'느' - hangulBase, "neu"},
	}
	for _, tt := range tests {
		if got := romanizeSyllable(tt.code); got != tt.want {
			t.Errorf("romanizeSyllable(%d) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestKatakana(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"カ", "ka"},
		{"ガ", "ga"},
		{"カ\u3099", "ga"},
		{"カ゛", "ga"},
		{"ｶﾞ", "ga"},
		{"キャ", "kya"},
		{"シュ", "shu"},
		{"チョ", "cho"},
		{"ジャ", "ja"},
		{"ラーメン", "rāmen"},
		{"ｶｰ", "kā"},
		{"ッ", "ッ"},
		{"ホッケー", "hokkē"},
		{"ン", "n"},
	}
	reg := Registry()
	tr, err := reg.Lookup("Katakana-Latin")
	if err != nil {
		t.Fatal(err)
	}
	for _, tt := range tests {
		if got := tr.Apply(tt.in); got != tt.want {
			t.Errorf("Apply(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGeminateAndLengthen(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct{ in, gem, long string }{
		{"ka", "k", "kā"},
		{"chi", "t", "chī"},
		{"a", "", "ā"},
		{"n", "", "n"},
		{"shi", "s", "shī"},
	} {
		if got := geminate(tt.in); got != tt.gem {
			t.Errorf("geminate(%q) = %q, want %q", tt.in, got, tt.gem)
		}
		if got := lengthen(tt.in); got != tt.long {
			t.Errorf("lengthen(%q) = %q, want %q", tt.in, got, tt.long)
		}
	}
}

func TestNarrowForm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   rune
		want string
	}{
		{'Ａ', "A"},
		{'＼', "\\"},
		{'ガ', "ｶﾞ"},
		{'パ', "ﾊﾟ"},
		{'ヲ', "ｦ"},
		{'a', ""},
		{'漢', ""},
	}
	for _, tt := range tests {
		if got := narrowForm(tt.in); got != tt.want {
			t.Errorf("narrowForm(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestManifestErrors(t *testing.T) {
	t.Parallel()

	files := fstest.MapFS{"rules/x.txt": {Data: []byte("a > b ;")}}
	tests := []struct {
		name     string
		manifest string
		want     string
	}{
		{"bad yaml", "transforms: [", "manifest"},
		{"missing id", "transforms:\n  - rules: x.txt\n", "without id"},
		{"no source", "transforms:\n  - id: X\n", "exactly one"},
		{"two sources", "transforms:\n  - id: X\n    rules: x.txt\n    normalize: NFC\n", "exactly one"},
		{"unknown generator", "transforms:\n  - id: X\n    generated: klingon\n", "unknown generator"},
		{"unknown form", "transforms:\n  - id: X\n    normalize: NFX\n", "unknown normalization form"},
		{"missing file", "transforms:\n  - id: X\n    rules: y.txt\n", "y.txt"},
		{"bad case", "casing:\n  locales: [tr]\n  cases: [Shout]\n", "Shout"},
		{"bad locale", "casing:\n  locales: [\"!!\"]\n  cases: [Upper]\n", "locale"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m, err := parseManifest([]byte(tt.manifest))
			if err == nil {
				err = m.register(translit.NewRegistry(), files)
			}
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestManifestRegister(t *testing.T) {
	t.Parallel()

	files := fstest.MapFS{"rules/x.txt": {Data: []byte("a > b ;")}}
	m, err := parseManifest([]byte(`
transforms:
  - id: A-B
    rules: x.txt
    reverse: B-A
  - id: A-B/NFD
    chain: [A-B, Any-NFD]
  - id: Any-NFD
    normalize: nfd
casing:
  locales: [Any, tr]
  cases: [Upper]
`))
	if err != nil {
		t.Fatal(err)
	}
	reg := translit.NewRegistry()
	if err := m.register(reg, files); err != nil {
		t.Fatal(err)
	}
	want := "A-B A-B/NFD Any-NFD Any-Upper B-A tr-Upper"
	if got := strings.Join(reg.IDs(), " "); got != want {
		t.Errorf("IDs() = %q, want %q", got, want)
	}
	tr, err := reg.Lookup("B-A")
	if err != nil {
		t.Fatal(err)
	}
	if got := tr.Apply("b"); got != "a" {
		t.Errorf("B-A Apply(b) = %q, want a", got)
	}
}

func BenchmarkKatakanaLatinBuild(b *testing.B) {
	for b.Loop() {
		if _, err := KatakanaLatin(); err != nil {
			b.Fatal(err)
		}
	}
}
