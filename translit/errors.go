package translit

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownTransform matches every *UnknownTransformError.
	ErrUnknownTransform = errors.New("unknown transform")

	// ErrNotInvertible is returned by Inverse for transforms that have no
	// inverse, such as casing.
	ErrNotInvertible = errors.New("transform has no inverse")

	// ErrCycle indicates chain or inverse definitions that refer back to
	// themselves.
	ErrCycle = errors.New("transform definition cycle")
)

// UnknownTransformError is returned by Lookup for an identifier with no
// registered definition.
type UnknownTransformError struct {
	ID string
}

func (e *UnknownTransformError) Error() string {
	return fmt.Sprintf("translit: unknown transform %q", e.ID)
}

// Is makes every UnknownTransformError match ErrUnknownTransform.
func (e *UnknownTransformError) Is(target error) bool {
	return target == ErrUnknownTransform
}
