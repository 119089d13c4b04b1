package mfbench

import (
	"errors"
	"fmt"

	"github.com/spboyer/mfbench/space"
)

// ErrNotFound reports a lookup that matched nothing: an unregistered
// benchmark name, an unknown task, or a table miss.
var ErrNotFound = errors.New("not found")

// ErrKeyNotFound reports a frame deletion for a fidelity the frame
// holds no results at.
var ErrKeyNotFound = errors.New("key not found")

// ValidationError reports a configuration that does not fit a
// benchmark's search space. It originates in the space package; the
// alias keeps errors.As usable with either import.
type ValidationError = space.ValidationError

// OutOfRangeError reports a fidelity outside a benchmark's range.
type OutOfRangeError struct {
	Fidelity Fidelity
	Range    FidelityRange
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("fidelity %s is outside [%s, %s]",
		e.Fidelity, e.Range.Start, e.Range.Stop)
}
