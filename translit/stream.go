package translit

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/transform"
)

// maxPendingLine is how much of an unterminated line the stream adapter
// buffers before transforming a piece of it on its own.
const maxPendingLine = 1 << 10

// Transformer returns a transform.Transformer that applies t to its input
// one line at a time, so it can wrap an io.Reader or io.Writer with
// transform.NewReader and transform.NewWriter. Rule contexts do not cross
// line breaks. A line longer than 1 KiB is cut at its last space, or at a
// rune boundary when it has none.
func (t *Transliterator) Transformer() transform.Transformer {
	return &lineTransformer{t: t}
}

type lineTransformer struct {
	t       *Transliterator
	pending []byte // transformed text not yet copied to dst
}

func (lt *lineTransformer) Reset() {
	lt.pending = lt.pending[:0]
}

func (lt *lineTransformer) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for {
		if len(lt.pending) > 0 {
			n := copy(dst[nDst:], lt.pending)
			nDst += n
			lt.pending = lt.pending[n:]
			if len(lt.pending) > 0 {
				return nDst, nSrc, transform.ErrShortDst
			}
		}
		rest := src[nSrc:]
		if len(rest) == 0 {
			return nDst, nSrc, nil
		}
		var line []byte
		switch i := bytes.IndexByte(rest, '\n'); {
		case i >= 0:
			line = rest[:i+1]
		case atEOF:
			line = rest
		case len(rest) >= maxPendingLine:
			line = rest[:cutPoint(rest[:maxPendingLine])]
		default:
			return nDst, nSrc, transform.ErrShortSrc
		}
		nSrc += len(line)
		lt.pending = append(lt.pending[:0], lt.t.Apply(string(line))...)
	}
}

// cutPoint returns where to split an overlong line: after its last space,
// else at the last rune boundary.
func cutPoint(b []byte) int {
	if i := bytes.LastIndexByte(b, ' '); i >= 0 {
		return i + 1
	}
	j := len(b)
	for j > 0 && !utf8.RuneStart(b[j-1]) {
		j--
	}
	if j > 0 {
		j-- // start of the last, possibly incomplete, rune
	}
	if j == 0 {
		return len(b)
	}
	return j
}
