// Package fixture reads transform test cases: one "source<TAB>expected"
// pair per line, with blank lines and lines starting with '#' ignored.
package fixture

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
)

// Case is one source/expected pair.
type Case struct {
	Source   string
	Expected string
	Line     int
}

// Parse reads cases from r.
func Parse(r io.Reader) ([]Case, error) {
	var cases []Case
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimRight(sc.Text(), "\r")
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		src, want, ok := strings.Cut(text, "\t")
		if !ok {
			return nil, fmt.Errorf("fixture: line %d: missing tab", line)
		}
		cases = append(cases, Case{Source: src, Expected: want, Line: line})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("fixture: %w", err)
	}
	return cases, nil
}

// FileName returns the fixture file for a transform id. A '/' in the id
// becomes '_'.
func FileName(id string) string {
	return "fixtures/" + strings.ReplaceAll(id, "/", "_") + ".txt"
}

// Load reads the fixture for id from fsys. A missing file yields no cases.
func Load(fsys fs.FS, id string) ([]Case, error) {
	f, err := fsys.Open(FileName(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("fixture: %w", err)
	}
	defer f.Close()
	return Parse(f)
}
