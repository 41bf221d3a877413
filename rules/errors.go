package rules

import (
	"errors"
	"fmt"
)

// ErrMalformedRule matches every error returned while parsing or building a
// rule set. Use errors.Is to test for it or for one of the specific causes.
var ErrMalformedRule = errors.New("malformed rule")

// Specific causes of a MalformedRuleError.
var (
	// ErrUndefinedVariable indicates a reference to a variable that has not
	// been defined earlier in the source.
	ErrUndefinedVariable = errors.New("undefined variable")

	// ErrUnbalancedContext indicates misplaced or repeated '{' / '}'
	// context delimiters, or unbalanced '(' ')' and '[' ']'.
	ErrUnbalancedContext = errors.New("unbalanced context")

	// ErrGroupOutOfRange indicates a $n reference to a capture group that
	// the match pattern does not have.
	ErrGroupOutOfRange = errors.New("capture group out of range")

	// ErrZeroWidthMatch indicates a rule whose match pattern is empty.
	ErrZeroWidthMatch = errors.New("zero-width match")

	// ErrMissingOperator indicates a statement that is neither a variable
	// definition nor a rule with >, < or <>.
	ErrMissingOperator = errors.New("missing rule operator")

	// ErrSyntax indicates any other lexical or structural problem.
	ErrSyntax = errors.New("syntax error")

	// ErrSourceTooLarge indicates a source over the accepted size.
	ErrSourceTooLarge = errors.New("rule source too large")
)

// MalformedRuleError reports a rule source problem found at compile time.
// It wraps one of the specific cause sentinels.
type MalformedRuleError struct {
	Err       error  // specific cause (ErrUndefinedVariable, ...)
	Line      int    // 1-based source line, 0 when unknown
	Statement string // offending statement text, trimmed
	Detail    string
}

func (e *MalformedRuleError) Error() string {
	msg := "rules: " + e.Err.Error()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Line > 0 {
		msg = fmt.Sprintf("%s (line %d)", msg, e.Line)
	}
	if e.Statement != "" {
		msg = fmt.Sprintf("%s in %q", msg, e.Statement)
	}
	return msg
}

func (e *MalformedRuleError) Unwrap() error {
	return e.Err
}

// Is makes every MalformedRuleError match ErrMalformedRule.
func (e *MalformedRuleError) Is(target error) bool {
	return target == ErrMalformedRule
}
