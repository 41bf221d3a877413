// Package builtin registers the transforms shipped with the module.
//
// The list lives in an embedded YAML manifest (data/transforms.yaml). It
// names rule files under data/rules, generated tables, normalization forms,
// chains, the reverse identifiers served by synthesized inverses, and the
// locales that get Lower, Upper and Title transforms.
//
// Registry returns one process-wide registry, populated on first use.
// Register adds the same transforms to a registry owned by the caller.
package builtin

import (
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"github.com/az-ai-labs/az-translit/casing"
	"github.com/az-ai-labs/az-translit/data"
	"github.com/az-ai-labs/az-translit/rules"
	"github.com/az-ai-labs/az-translit/translit"
)

// manifest is the decoded form of data/transforms.yaml.
type manifest struct {
	Transforms []transformEntry `yaml:"transforms"`
	Casing     casingEntry      `yaml:"casing"`
}

type transformEntry struct {
	ID        string   `yaml:"id"`
	Rules     string   `yaml:"rules"`
	Generated string   `yaml:"generated"`
	Normalize string   `yaml:"normalize"`
	Chain     []string `yaml:"chain"`
	Reverse   string   `yaml:"reverse"`
}

type casingEntry struct {
	Locales []string `yaml:"locales"`
	Cases   []string `yaml:"cases"`
}

// generators maps manifest names to rule set builders.
var generators = map[string]func() (*rules.RuleSet, error){
	"fullwidth-halfwidth": FullwidthHalfwidth,
	"katakana-latin":      KatakanaLatin,
	"hangul-latin":        HangulLatin,
}

var forms = map[string]norm.Form{
	"NFC":  norm.NFC,
	"NFD":  norm.NFD,
	"NFKC": norm.NFKC,
	"NFKD": norm.NFKD,
}

var (
	sharedOnce sync.Once
	shared     *translit.Registry
)

// Registry returns the process-wide registry of built-in transforms. It
// panics if the embedded manifest is invalid.
func Registry() *translit.Registry {
	sharedOnce.Do(func() {
		reg := translit.NewRegistry()
		if err := Register(reg); err != nil {
			panic(err)
		}
		shared = reg
	})
	return shared
}

// Register adds every built-in transform to reg. Rule sources are read
// here; they are compiled on first lookup.
func Register(reg *translit.Registry) error {
	m, err := parseManifest(data.Manifest)
	if err != nil {
		return err
	}
	return m.register(reg, data.Rules)
}

func parseManifest(b []byte) (*manifest, error) {
	var m manifest
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("builtin: manifest: %w", err)
	}
	return &m, nil
}

func (m *manifest) register(reg *translit.Registry, files fs.FS) error {
	for _, e := range m.Transforms {
		def, err := e.definition(files)
		if err != nil {
			return err
		}
		reg.Register(e.ID, def)
		if e.Reverse != "" {
			reg.Register(e.Reverse, translit.InverseOf(e.ID))
		}
	}
	cases := make([]casing.Case, 0, len(m.Casing.Cases))
	for _, name := range m.Casing.Cases {
		c, err := casing.ParseCase(name)
		if err != nil {
			return fmt.Errorf("builtin: manifest: %w", err)
		}
		cases = append(cases, c)
	}
	for _, loc := range m.Casing.Locales {
		tag := language.Und
		if loc != "Any" {
			t, err := language.Parse(loc)
			if err != nil {
				return fmt.Errorf("builtin: manifest: locale %q: %w", loc, err)
			}
			tag = t
		}
		for _, c := range cases {
			reg.Register(loc+"-"+c.String(), translit.Casing(c, tag))
		}
	}
	return nil
}

func (e transformEntry) definition(files fs.FS) (translit.Definition, error) {
	if e.ID == "" {
		return translit.Definition{}, fmt.Errorf("builtin: manifest: transform without id")
	}
	set := 0
	for _, present := range []bool{e.Rules != "", e.Generated != "", e.Normalize != "", len(e.Chain) > 0} {
		if present {
			set++
		}
	}
	if set != 1 {
		return translit.Definition{}, fmt.Errorf("builtin: manifest: %s: need exactly one of rules, generated, normalize, chain", e.ID)
	}
	switch {
	case e.Rules != "":
		src, err := fs.ReadFile(files, path.Join("rules", e.Rules))
		if err != nil {
			return translit.Definition{}, fmt.Errorf("builtin: %s: %w", e.ID, err)
		}
		return translit.Source(string(src)), nil
	case e.Generated != "":
		gen, ok := generators[e.Generated]
		if !ok {
			return translit.Definition{}, fmt.Errorf("builtin: manifest: %s: unknown generator %q", e.ID, e.Generated)
		}
		return translit.Generated(gen), nil
	case e.Normalize != "":
		f, ok := forms[strings.ToUpper(e.Normalize)]
		if !ok {
			return translit.Definition{}, fmt.Errorf("builtin: manifest: %s: unknown normalization form %q", e.ID, e.Normalize)
		}
		return translit.Normalization(f), nil
	}
	return translit.Chain(e.Chain...), nil
}
