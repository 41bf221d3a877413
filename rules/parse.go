package rules

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/az-ai-labs/az-translit/internal/uprops"
)

// MaxSourceBytes is the largest rule source Parse accepts.
const MaxSourceBytes = 4 << 20

// MaxSetDepth bounds the nesting of set expressions.
const MaxSetDepth = 32

type tokenKind int

const (
	tokLiteral tokenKind = iota
	tokSet
	tokVar
	tokRef
	tokOpenCtx
	tokCloseCtx
	tokOpenGroup
	tokCloseGroup
	tokAnchorStart
	tokAnchorEnd
	tokOp
	tokEquals
)

var tokenNames = [...]string{
	tokLiteral:     "literal",
	tokSet:         "set",
	tokVar:         "variable",
	tokRef:         "group reference",
	tokOpenCtx:     "'{'",
	tokCloseCtx:    "'}'",
	tokOpenGroup:   "'('",
	tokCloseGroup:  "')'",
	tokAnchorStart: "'^'",
	tokAnchorEnd:   "'$'",
	tokOp:          "operator",
	tokEquals:      "'='",
}

type token struct {
	kind tokenKind
	r    rune
	set  *CodepointSet
	name string // variable name, or source text of a set
	n    int    // group number
	dir  Direction
}

type statement struct {
	toks []token
	text string
	line int
}

type parser struct {
	src  []rune
	pos  int
	line int
	vars map[string]*Variable
}

func malformed(cause error, line int, format string, args ...any) error {
	return &MalformedRuleError{Err: cause, Line: line, Detail: fmt.Sprintf(format, args...)}
}

// Parse compiles rule source text into a RuleSet.
//
// Statements end with ';' and '#' starts a comment that runs to the end of
// the line. A statement is a variable definition or a rule:
//
//	$name = [set] ;
//	before { match } after > replacement ;
//	replacement < before { match } after ;
//	match <> replacement ;
//
// Variables must be defined before use. Errors are *MalformedRuleError and
// match ErrMalformedRule.
func Parse(source string) (*RuleSet, error) {
	if len(source) > MaxSourceBytes {
		return nil, &MalformedRuleError{Err: ErrSourceTooLarge,
			Detail: fmt.Sprintf("%d bytes, limit %d", len(source), MaxSourceBytes)}
	}
	p := &parser{src: []rune(source), line: 1, vars: make(map[string]*Variable)}
	var forward, reverse []Rule
	for {
		p.skipSpace()
		if p.pos >= len(p.src) {
			break
		}
		st, err := p.scanStatement()
		if err != nil {
			return nil, err
		}
		if len(st.toks) == 0 {
			continue
		}
		if err := p.compile(st, &forward, &reverse); err != nil {
			var me *MalformedRuleError
			if errors.As(err, &me) && me.Statement == "" {
				me.Statement = st.text
			}
			return nil, err
		}
	}
	return NewRuleSet(forward, reverse, p.vars)
}

// ParseSet parses a single set expression such as "[a-z]", "[:Lu:]" or
// "[[:L:]-[aeiou]]".
func ParseSet(expr string) (*CodepointSet, error) {
	p := &parser{src: []rune(expr), line: 1}
	p.skipSetSpace()
	var set *CodepointSet
	var err error
	switch {
	case p.peek() == '[':
		set, err = p.parseSet(0)
	case p.atProperty():
		set, err = p.parseProperty()
	default:
		return nil, malformed(ErrSyntax, 1, "set expression must start with '['")
	}
	if err != nil {
		return nil, err
	}
	p.skipSetSpace()
	if p.pos != len(p.src) {
		return nil, malformed(ErrSyntax, p.line, "trailing text %q after set", string(p.src[p.pos:]))
	}
	return set, nil
}

func (p *parser) peek() rune {
	if p.pos < len(p.src) {
		return p.src[p.pos]
	}
	return -1
}

func (p *parser) peekAt(k int) rune {
	if p.pos+k < len(p.src) {
		return p.src[p.pos+k]
	}
	return -1
}

func isSpace(r rune) bool {
	return unicode.Is(unicode.Pattern_White_Space, r)
}

// skipSpace skips white space and comments between statements.
func (p *parser) skipSpace() {
	for p.pos < len(p.src) {
		switch r := p.src[p.pos]; {
		case r == '\n':
			p.line++
			p.pos++
		case r == '#':
			p.skipComment()
		case isSpace(r):
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) skipComment() {
	for p.pos < len(p.src) && p.src[p.pos] != '\n' {
		p.pos++
	}
}

func (p *parser) skipSetSpace() {
	for p.pos < len(p.src) && isSpace(p.src[p.pos]) {
		if p.src[p.pos] == '\n' {
			p.line++
		}
		p.pos++
	}
}

// scanStatement reads tokens up to and including the next ';'. A final
// statement may omit the terminator.
func (p *parser) scanStatement() (statement, error) {
	st := statement{line: p.line}
	start := p.pos
	for p.pos < len(p.src) {
		r := p.src[p.pos]
		switch {
		case r == ';':
			st.text = strings.TrimSpace(string(p.src[start:p.pos]))
			p.pos++
			return st, nil
		case r == '\n':
			p.line++
			p.pos++
		case r == '#':
			p.skipComment()
		case isSpace(r):
			p.pos++
		default:
			if err := p.token(&st.toks); err != nil {
				return st, err
			}
		}
	}
	st.text = strings.TrimSpace(string(p.src[start:]))
	return st, nil
}

func (p *parser) token(out *[]token) error {
	emit := func(t token) { *out = append(*out, t) }
	r := p.src[p.pos]
	switch r {
	case '{':
		p.pos++
		emit(token{kind: tokOpenCtx})
	case '}':
		p.pos++
		emit(token{kind: tokCloseCtx})
	case '(':
		p.pos++
		emit(token{kind: tokOpenGroup})
	case ')':
		p.pos++
		emit(token{kind: tokCloseGroup})
	case '^':
		p.pos++
		emit(token{kind: tokAnchorStart})
	case '=':
		p.pos++
		emit(token{kind: tokEquals})
	case '>', '→':
		p.pos++
		emit(token{kind: tokOp, dir: Forward})
	case '←':
		p.pos++
		emit(token{kind: tokOp, dir: Reverse})
	case '↔':
		p.pos++
		emit(token{kind: tokOp, dir: Both})
	case '<':
		p.pos++
		if p.peek() == '>' {
			p.pos++
			emit(token{kind: tokOp, dir: Both})
		} else {
			emit(token{kind: tokOp, dir: Reverse})
		}
	case '[':
		start := p.pos
		set, err := p.parseSet(0)
		if err != nil {
			return err
		}
		emit(token{kind: tokSet, set: set, name: string(p.src[start:p.pos])})
	case ']':
		return malformed(ErrUnbalancedContext, p.line, "unexpected ']'")
	case '$':
		t, err := p.dollar()
		if err != nil {
			return err
		}
		emit(t)
	case '\'':
		text, err := p.quoted()
		if err != nil {
			return err
		}
		for _, c := range text {
			emit(token{kind: tokLiteral, r: c})
		}
	case '\\':
		if p.atProperty() {
			start := p.pos
			set, err := p.parseProperty()
			if err != nil {
				return err
			}
			emit(token{kind: tokSet, set: set, name: string(p.src[start:p.pos])})
			return nil
		}
		c, err := p.escape()
		if err != nil {
			return err
		}
		emit(token{kind: tokLiteral, r: c})
	case ':':
		if p.peekAt(1) == ':' {
			return malformed(ErrSyntax, p.line, "'::' directives are not supported")
		}
		p.pos++
		emit(token{kind: tokLiteral, r: r})
	case '|':
		return malformed(ErrSyntax, p.line, "cursor '|' is not supported")
	default:
		p.pos++
		emit(token{kind: tokLiteral, r: r})
	}
	return nil
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// dollar reads a group reference ($1), a variable reference ($name) or a
// bare '$' end anchor.
func (p *parser) dollar() (token, error) {
	p.pos++
	c := p.peek()
	switch {
	case c >= '0' && c <= '9':
		p.pos++
		if c == '0' {
			return token{}, malformed(ErrGroupOutOfRange, p.line, "$0 does not name a group")
		}
		return token{kind: tokRef, n: int(c - '0')}, nil
	case c >= 0 && isIdentStart(c):
		return token{kind: tokVar, name: p.ident()}, nil
	}
	return token{kind: tokAnchorEnd}, nil
}

func (p *parser) ident() string {
	start := p.pos
	for p.pos < len(p.src) && isIdentPart(p.src[p.pos]) {
		p.pos++
	}
	return string(p.src[start:p.pos])
}

// quoted reads '...' text. '' stands for an apostrophe, both inside quotes
// and on its own.
func (p *parser) quoted() ([]rune, error) {
	line := p.line
	p.pos++
	if p.peek() == '\'' {
		p.pos++
		return []rune{'\''}, nil
	}
	var out []rune
	for p.pos < len(p.src) {
		r := p.src[p.pos]
		p.pos++
		if r == '\'' {
			if p.peek() == '\'' {
				out = append(out, '\'')
				p.pos++
				continue
			}
			return out, nil
		}
		if r == '\n' {
			p.line++
		}
		out = append(out, r)
	}
	return nil, malformed(ErrSyntax, line, "unterminated quote")
}

// escape reads a backslash escape: \uXXXX, \UXXXXXXXX, \xHH, \x{H...},
// \t, \n, \r, or a backslash followed by any rune standing for itself.
func (p *parser) escape() (rune, error) {
	p.pos++
	if p.pos >= len(p.src) {
		return 0, malformed(ErrSyntax, p.line, "trailing backslash")
	}
	c := p.src[p.pos]
	p.pos++
	switch c {
	case 'u':
		return p.hex(4, 4)
	case 'U':
		return p.hex(8, 8)
	case 'x':
		if p.peek() != '{' {
			return p.hex(2, 2)
		}
		p.pos++
		r, err := p.hex(1, 6)
		if err != nil {
			return 0, err
		}
		if p.peek() != '}' {
			return 0, malformed(ErrSyntax, p.line, "unterminated \\x{...} escape")
		}
		p.pos++
		return r, nil
	case 't':
		return '\t', nil
	case 'n':
		return '\n', nil
	case 'r':
		return '\r', nil
	}
	return c, nil
}

func (p *parser) hex(minDigits, maxDigits int) (rune, error) {
	var v rune
	n := 0
	for n < maxDigits && p.pos < len(p.src) {
		d, ok := hexValue(p.src[p.pos])
		if !ok {
			break
		}
		v = v<<4 | d
		n++
		p.pos++
	}
	if n < minDigits {
		return 0, malformed(ErrSyntax, p.line, "escape needs %d hex digits", minDigits)
	}
	if !utf8.ValidRune(v) {
		return 0, malformed(ErrSyntax, p.line, "escape U+%04X is not a scalar value", v)
	}
	return v, nil
}

func hexValue(r rune) (rune, bool) {
	switch {
	case r >= '0' && r <= '9':
		return r - '0', true
	case r >= 'a' && r <= 'f':
		return r - 'a' + 10, true
	case r >= 'A' && r <= 'F':
		return r - 'A' + 10, true
	}
	return 0, false
}

func (p *parser) atProperty() bool {
	return p.peek() == '\\' && (p.peekAt(1) == 'p' || p.peekAt(1) == 'P')
}

// parseSet parses a bracketed set expression starting at '['.
func (p *parser) parseSet(depth int) (*CodepointSet, error) {
	if depth >= MaxSetDepth {
		return nil, malformed(ErrSyntax, p.line, "sets nested deeper than %d", MaxSetDepth)
	}
	if p.peekAt(1) == ':' {
		return p.parsePOSIX()
	}
	line := p.line
	p.pos++
	var b setBuilder
	if p.peek() == '^' {
		b.neg = true
		p.pos++
	}
	prev := rune(-1) // last single rune, a possible range start
	first := true
	for {
		p.skipSetSpace()
		if p.pos >= len(p.src) {
			return nil, malformed(ErrUnbalancedContext, line, "unterminated set")
		}
		switch r := p.src[p.pos]; {
		case r == ']':
			p.pos++
			return b.build(), nil
		case r == '[' || p.atProperty():
			c, err := p.setOperand(depth)
			if err != nil {
				return nil, err
			}
			b.addSet(c)
			prev = -1
		case r == '$':
			if err := p.setVariable(&b); err != nil {
				return nil, err
			}
			prev = -1
		case r == '{':
			str, err := p.setString()
			if err != nil {
				return nil, err
			}
			if str != "" {
				b.addString(str)
			}
			prev = -1
		case r == '-':
			p.pos++
			p.skipSetSpace()
			next := p.peek()
			switch {
			case !first && (next == '[' || next == '$' || p.atProperty()):
				c, err := p.setOperand(depth)
				if err != nil {
					return nil, err
				}
				b.subtract(c)
			case prev >= 0 && next >= 0 && next != ']':
				hi, err := p.setRune()
				if err != nil {
					return nil, err
				}
				if hi < prev {
					return nil, malformed(ErrSyntax, p.line, "inverted range %q-%q", prev, hi)
				}
				b.addRange(prev, hi)
			default:
				b.addRange('-', '-')
			}
			prev = -1
		case r == '\'':
			text, err := p.quoted()
			if err != nil {
				return nil, err
			}
			for _, c := range text {
				b.addRange(c, c)
			}
			prev = -1
			if len(text) == 1 {
				prev = text[0]
			}
		default:
			c, err := p.setRune()
			if err != nil {
				return nil, err
			}
			b.addRange(c, c)
			prev = c
		}
		first = false
	}
}

// setOperand parses a nested set, a property or a category variable.
func (p *parser) setOperand(depth int) (*CodepointSet, error) {
	switch {
	case p.peek() == '[':
		return p.parseSet(depth + 1)
	case p.atProperty():
		return p.parseProperty()
	}
	var b setBuilder
	if err := p.setVariable(&b); err != nil {
		return nil, err
	}
	return b.build(), nil
}

func (p *parser) setRune() (rune, error) {
	if p.peek() == '\\' {
		return p.escape()
	}
	r := p.src[p.pos]
	p.pos++
	return r, nil
}

// setVariable adds the members of $name to b. A '$' that does not start a
// name stands for itself.
func (p *parser) setVariable(b *setBuilder) error {
	p.pos++
	if c := p.peek(); c < 0 || !isIdentStart(c) {
		b.addRange('$', '$')
		return nil
	}
	name := p.ident()
	v, ok := p.vars[name]
	if !ok {
		return malformed(ErrUndefinedVariable, p.line, "$%s", name)
	}
	if v.Set != nil {
		b.addSet(v.Set)
		return nil
	}
	text, ok := v.Pattern.Literal()
	if !ok {
		return malformed(ErrSyntax, p.line, "$%s mixes categories and text and cannot be a set member", name)
	}
	b.addString(text)
	return nil
}

// setString reads a {string} member.
func (p *parser) setString() (string, error) {
	line := p.line
	p.pos++
	var out []rune
	for {
		if p.pos >= len(p.src) {
			return "", malformed(ErrUnbalancedContext, line, "unterminated {string} in set")
		}
		switch c := p.src[p.pos]; {
		case c == '}':
			p.pos++
			return string(out), nil
		case c == '\\':
			r, err := p.escape()
			if err != nil {
				return "", err
			}
			out = append(out, r)
		case c == '\'':
			text, err := p.quoted()
			if err != nil {
				return "", err
			}
			out = append(out, text...)
		case isSpace(c):
			if c == '\n' {
				p.line++
			}
			p.pos++
		default:
			out = append(out, c)
			p.pos++
		}
	}
}

// parsePOSIX parses [:Name:] and [:^Name:].
func (p *parser) parsePOSIX() (*CodepointSet, error) {
	p.pos += 2
	neg := false
	if p.peek() == '^' {
		neg = true
		p.pos++
	}
	start := p.pos
	for p.pos+1 < len(p.src) && !(p.src[p.pos] == ':' && p.src[p.pos+1] == ']') {
		if p.src[p.pos] == '\n' {
			return nil, malformed(ErrSyntax, p.line, "unterminated [:property:]")
		}
		p.pos++
	}
	if p.pos+1 >= len(p.src) {
		return nil, malformed(ErrSyntax, p.line, "unterminated [:property:]")
	}
	name := string(p.src[start:p.pos])
	p.pos += 2
	return p.propertySet(name, neg)
}

// parseProperty parses \p{Name} and \P{Name}.
func (p *parser) parseProperty() (*CodepointSet, error) {
	neg := p.peekAt(1) == 'P'
	p.pos += 2
	if p.peek() != '{' {
		return nil, malformed(ErrSyntax, p.line, "expected '{' after \\p")
	}
	p.pos++
	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] != '}' && p.src[p.pos] != '\n' {
		p.pos++
	}
	if p.peek() != '}' {
		return nil, malformed(ErrSyntax, p.line, "unterminated \\p{...}")
	}
	name := string(p.src[start:p.pos])
	p.pos++
	return p.propertySet(name, neg)
}

func (p *parser) propertySet(name string, neg bool) (*CodepointSet, error) {
	if i := strings.IndexByte(name, '='); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSpace(name)
	b := setBuilder{neg: neg}
	switch {
	case strings.EqualFold(name, "Any"):
		b.addRange(0, unicode.MaxRune)
	case strings.EqualFold(name, "ASCII"):
		b.addRange(0, unicode.MaxASCII)
	default:
		t, ok := uprops.Table(name)
		if !ok {
			return nil, malformed(ErrSyntax, p.line, "unknown property %q", name)
		}
		b.tables = append(b.tables, t)
	}
	return b.build(), nil
}

// compile turns one statement into a variable or rules.
func (p *parser) compile(st statement, forward, reverse *[]Rule) error {
	toks := st.toks
	if len(toks) >= 2 && toks[0].kind == tokVar && toks[1].kind == tokEquals {
		return p.define(toks[0].name, toks[2:], st.line)
	}
	op := -1
	for i, t := range toks {
		switch t.kind {
		case tokOp:
			if op >= 0 {
				return malformed(ErrSyntax, st.line, "more than one operator")
			}
			op = i
		case tokEquals:
			return malformed(ErrSyntax, st.line, "unexpected '='")
		}
	}
	if op < 0 {
		return malformed(ErrMissingOperator, st.line, "expected >, < or <>")
	}
	left, right := toks[:op], toks[op+1:]
	switch toks[op].dir {
	case Forward:
		s, err := p.patternSide(left, st.line)
		if err != nil {
			return err
		}
		repl, err := p.outputSide(right, st.line)
		if err != nil {
			return err
		}
		r := s.rule(repl, Forward, st.line)
		if err := validate(&r); err != nil {
			return err
		}
		*forward = append(*forward, r)
	case Reverse:
		repl, err := p.outputSide(left, st.line)
		if err != nil {
			return err
		}
		s, err := p.patternSide(right, st.line)
		if err != nil {
			return err
		}
		r := s.rule(repl, Reverse, st.line)
		if err := validate(&r); err != nil {
			return err
		}
		*reverse = append(*reverse, r)
	case Both:
		ls, err := p.patternSide(left, st.line)
		if err != nil {
			return err
		}
		rs, err := p.patternSide(right, st.line)
		if err != nil {
			return err
		}
		lt, lok := ls.match.Literal()
		rt, rok := rs.match.Literal()
		if !lok || !rok || len(ls.groups) > 0 || len(rs.groups) > 0 {
			return malformed(ErrSyntax, st.line, "'<>' needs literal text on both sides")
		}
		fr := ls.rule(LiteralTemplate(rt), Both, st.line)
		br := rs.rule(LiteralTemplate(lt), Both, st.line)
		if err := validate(&fr); err != nil {
			return err
		}
		if err := validate(&br); err != nil {
			return err
		}
		*forward = append(*forward, fr)
		*reverse = append(*reverse, br)
	}
	return nil
}

func (p *parser) define(name string, rest []token, line int) error {
	if len(rest) == 0 {
		return malformed(ErrSyntax, line, "empty definition of $%s", name)
	}
	if _, dup := p.vars[name]; dup {
		return malformed(ErrSyntax, line, "$%s redefined", name)
	}
	var pat Pattern
	for _, t := range rest {
		els, err := p.elements(t, line)
		if err != nil {
			return err
		}
		if els == nil {
			return malformed(ErrSyntax, line, "unexpected %s in definition of $%s", tokenNames[t.kind], name)
		}
		pat = append(pat, els...)
	}
	v := &Variable{Name: name, Pattern: pat, Line: line}
	if len(pat) == 1 && pat[0].Kind == Category {
		v.Set = pat[0].Set
		v.Pattern = nil
	}
	p.vars[name] = v
	return nil
}

// elements converts a literal, set or variable token into pattern elements.
// It returns nil for other token kinds.
func (p *parser) elements(t token, line int) (Pattern, error) {
	switch t.kind {
	case tokLiteral:
		return Pattern{{Kind: Literal, Rune: t.r}}, nil
	case tokSet:
		return Pattern{{Kind: Category, Set: t.set, Name: t.name}}, nil
	case tokVar:
		v, ok := p.vars[t.name]
		if !ok {
			return nil, malformed(ErrUndefinedVariable, line, "$%s", t.name)
		}
		if v.Set != nil {
			return Pattern{{Kind: Category, Set: v.Set, Name: "$" + t.name}}, nil
		}
		return v.Pattern, nil
	}
	return nil, nil
}

// side is the pattern half of a rule: contexts, match, groups and anchors.
type side struct {
	before, match, after   Pattern
	groups                 []Group
	anchorStart, anchorEnd bool
}

func (s *side) rule(repl Template, dir Direction, line int) Rule {
	return Rule{
		Before:      s.before,
		Match:       s.match,
		After:       s.after,
		Groups:      s.groups,
		Replacement: repl,
		Dir:         dir,
		AnchorStart: s.anchorStart,
		AnchorEnd:   s.anchorEnd,
		Line:        line,
	}
}

func (p *parser) patternSide(toks []token, line int) (side, error) {
	var (
		s         side
		segs      [3]Pattern
		seg       int
		sawOpen   bool
		sawClose  bool
		groupSegs []int
		stack     []int
	)
	for i, t := range toks {
		switch t.kind {
		case tokAnchorStart:
			if i != 0 {
				return s, malformed(ErrSyntax, line, "'^' may only start a rule")
			}
			s.anchorStart = true
		case tokAnchorEnd:
			if i != len(toks)-1 {
				return s, malformed(ErrSyntax, line, "'$' anchor may only end a pattern")
			}
			s.anchorEnd = true
		case tokOpenCtx:
			if sawOpen || sawClose || len(stack) > 0 {
				return s, malformed(ErrUnbalancedContext, line, "misplaced '{'")
			}
			sawOpen = true
			seg = 1
		case tokCloseCtx:
			if sawClose || len(stack) > 0 {
				return s, malformed(ErrUnbalancedContext, line, "misplaced '}'")
			}
			if !sawOpen {
				segs[1], segs[0] = segs[0], nil
				for k := range groupSegs {
					groupSegs[k] = 1
				}
			}
			sawClose = true
			seg = 2
		case tokOpenGroup:
			stack = append(stack, len(s.groups))
			s.groups = append(s.groups, Group{Start: len(segs[seg]), End: -1})
			groupSegs = append(groupSegs, seg)
		case tokCloseGroup:
			if len(stack) == 0 {
				return s, malformed(ErrUnbalancedContext, line, "unmatched ')'")
			}
			g := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			s.groups[g].End = len(segs[seg])
		case tokRef:
			return s, malformed(ErrSyntax, line, "$%d outside a replacement", t.n)
		default:
			els, err := p.elements(t, line)
			if err != nil {
				return s, err
			}
			if els == nil {
				return s, malformed(ErrSyntax, line, "unexpected %s in pattern", tokenNames[t.kind])
			}
			segs[seg] = append(segs[seg], els...)
		}
	}
	if len(stack) > 0 {
		return s, malformed(ErrUnbalancedContext, line, "unclosed '('")
	}
	if !sawOpen && !sawClose {
		segs[1], segs[0] = segs[0], nil
		for k := range groupSegs {
			groupSegs[k] = 1
		}
	}
	for k, gs := range groupSegs {
		if gs != 1 {
			return s, malformed(ErrSyntax, line, "capture group %d lies in a context", k+1)
		}
	}
	s.before, s.match, s.after = segs[0], segs[1], segs[2]
	return s, nil
}

// outputSide parses replacement text: literals, $n references and string
// variables.
func (p *parser) outputSide(toks []token, line int) (Template, error) {
	var t Template
	text := func(s string) {
		if n := len(t); n > 0 && t[n-1].Group == 0 {
			t[n-1].Text += s
			return
		}
		t = append(t, Piece{Text: s})
	}
	for _, tk := range toks {
		switch tk.kind {
		case tokLiteral:
			text(string(tk.r))
		case tokRef:
			t = append(t, Piece{Group: tk.n})
		case tokVar:
			v, ok := p.vars[tk.name]
			if !ok {
				return nil, malformed(ErrUndefinedVariable, line, "$%s", tk.name)
			}
			lit, ok := v.Pattern.Literal()
			if v.Set != nil || !ok {
				return nil, malformed(ErrSyntax, line, "category $%s in replacement", tk.name)
			}
			text(lit)
		default:
			return nil, malformed(ErrSyntax, line, "unexpected %s in replacement", tokenNames[tk.kind])
		}
	}
	return t, nil
}
