// Command translitcheck runs the embedded fixtures against the built-in
// transforms and, with -dir, round-trips a corpus of .txt files through a
// transform and its inverse.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/az-ai-labs/az-translit/builtin"
	"github.com/az-ai-labs/az-translit/data"
	"github.com/az-ai-labs/az-translit/internal/fixture"
	"github.com/az-ai-labs/az-translit/translit"
)

const (
	chunkSize      = 4 << 20 // 4 MB per read chunk
	maxWorkers     = 4
	bytesToMBShift = 20
)

type Stats struct {
	mu             sync.Mutex
	transforms     int
	compileFail    int
	fixtureOK      int
	fixtureFail    int
	filesScanned   int
	totalBytes     int64
	roundTripOK    int
	roundTripFail  int
	inverseWarning int
}

func main() {
	dir := flag.String("dir", "", "directory of .txt files to round-trip")
	id := flag.String("id", "uz_Cyrl-uz_Latn", "transform used with -dir")
	flag.Parse()

	reg := builtin.Registry()
	stats := &Stats{}
	start := time.Now()

	if *dir == "" {
		runFixtures(reg, stats)
	} else if err := runCorpus(reg, *id, *dir, stats); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "\nCompleted in %s\n\n", time.Since(start).Round(time.Millisecond))
	printStats(stats)
	if stats.compileFail > 0 || stats.fixtureFail > 0 || stats.roundTripFail > 0 {
		os.Exit(1)
	}
}

// runFixtures checks every registered id that has a fixture file.
func runFixtures(reg *translit.Registry, stats *Stats) {
	ids := reg.IDs()
	fmt.Fprintf(os.Stderr, "Found %d transforms\n", len(ids))

	semaphore := make(chan struct{}, maxWorkers)
	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		semaphore <- struct{}{}
		go func(id string) {
			defer wg.Done()
			defer func() { <-semaphore }()
			checkFixture(reg, id, stats)
		}(id)
	}
	wg.Wait()
}

func checkFixture(reg *translit.Registry, id string, stats *Stats) {
	t, err := reg.Lookup(id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "COMPILE_FAIL: %s: %v\n", id, err)
		stats.mu.Lock()
		stats.transforms++
		stats.compileFail++
		stats.mu.Unlock()
		return
	}
	cases, err := fixture.Load(data.Fixtures, id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading fixture %s: %v\n", id, err)
	}
	ok, fail := 0, 0
	for _, c := range cases {
		got := t.Apply(c.Source)
		if got == c.Expected {
			ok++
			continue
		}
		fail++
		pos, g, w := firstDivergence(c.Expected, got)
		fmt.Fprintf(os.Stderr, "FIXTURE_FAIL: %s:%d: %q -> %q, want %q (first divergence at byte %d, got 0x%02x, want 0x%02x)\n",
			id, c.Line, c.Source, got, c.Expected, pos, g, w)
	}

	stats.mu.Lock()
	defer stats.mu.Unlock()
	stats.transforms++
	stats.fixtureOK += ok
	stats.fixtureFail += fail
	stats.inverseWarning += len(t.Warnings())
}

// runCorpus applies id to every .txt file under dir and checks that the
// inverse restores the text.
func runCorpus(reg *translit.Registry, id, dir string, stats *Stats) error {
	t, err := reg.Lookup(id)
	if err != nil {
		return err
	}
	inv, err := t.Inverse()
	if err != nil {
		return err
	}

	var filePaths []string
	err = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".txt") {
			return nil
		}
		filePaths = append(filePaths, path)
		return nil
	})
	if err != nil {
		return fmt.Errorf("walking directory: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Found %d files to process\n", len(filePaths))

	semaphore := make(chan struct{}, maxWorkers)
	var wg sync.WaitGroup
	for _, path := range filePaths {
		wg.Add(1)
		semaphore <- struct{}{}
		go func(p string) {
			defer wg.Done()
			defer func() { <-semaphore }()
			processFile(p, t, inv, stats)
		}(path)
	}
	wg.Wait()
	stats.mu.Lock()
	stats.transforms = 1
	stats.inverseWarning = len(inv.Warnings())
	stats.mu.Unlock()
	return nil
}

func processFile(path string, t, inv *translit.Transliterator, stats *Stats) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening %s: %v\n", path, err)
		return
	}
	defer func() { _ = f.Close() }()

	fileStart := time.Now()
	var total int64
	failed := false

	check := func(chunk []byte) {
		total += int64(len(chunk))
		if failed {
			return
		}
		text := string(chunk)
		back := inv.Apply(t.Apply(text))
		if back != text {
			failed = true
			pos, got, want := firstDivergence(text, back)
			fmt.Fprintf(os.Stderr, "ROUNDTRIP_FAIL: %s: first divergence at byte %d (got 0x%02x, want 0x%02x)\n",
				path, pos, got, want)
		}
	}

	buf := make([]byte, chunkSize)
	var leftover []byte
	for {
		n, err := f.Read(buf)
		if n > 0 {
			leftover = append(leftover, buf[:n]...)
			chunk := leftover
			if err == nil {
				idx := bytes.LastIndexByte(chunk, '\n')
				if idx <= 0 {
					continue
				}
				leftover = make([]byte, len(chunk)-idx-1)
				copy(leftover, chunk[idx+1:])
				chunk = chunk[:idx+1]
			} else {
				leftover = nil
			}
			check(chunk)
		}
		if err != nil {
			break
		}
	}
	if len(leftover) > 0 {
		check(leftover)
	}

	fmt.Fprintf(os.Stderr, "DONE  %s in %s (%d MB processed)\n",
		filepath.Base(path), time.Since(fileStart).Round(time.Millisecond), total>>bytesToMBShift)

	stats.mu.Lock()
	defer stats.mu.Unlock()
	stats.filesScanned++
	stats.totalBytes += total
	if failed {
		stats.roundTripFail++
	} else {
		stats.roundTripOK++
	}
}

// firstDivergence finds the byte position where two strings first differ.
// Returns the position and the differing bytes from each string.
func firstDivergence(original, reconstructed string) (pos int, got, want byte) {
	n := min(len(original), len(reconstructed))
	for i := range n {
		if original[i] != reconstructed[i] {
			return i, reconstructed[i], original[i]
		}
	}
	pos = n
	if pos < len(reconstructed) {
		got = reconstructed[pos]
	}
	if pos < len(original) {
		want = original[pos]
	}
	return pos, got, want
}

func printStats(stats *Stats) {
	fmt.Printf("Transforms:              %d\n", stats.transforms)
	fmt.Printf("Compile FAIL:            %d\n", stats.compileFail)
	fmt.Printf("Fixture cases OK:        %d\n", stats.fixtureOK)
	fmt.Printf("Fixture cases FAIL:      %d\n", stats.fixtureFail)
	fmt.Printf("Inverse warnings:        %d\n", stats.inverseWarning)
	if stats.filesScanned > 0 {
		fmt.Printf("Files scanned:           %d\n", stats.filesScanned)
		fmt.Printf("Total bytes:             %d\n", stats.totalBytes)
		fmt.Printf("Round trip OK:           %d\n", stats.roundTripOK)
		fmt.Printf("Round trip FAIL:         %d\n", stats.roundTripFail)
	}
}
