package mfbench

import (
	"fmt"
	"iter"
	"math"
	"strconv"
)

// Fidelity is one point on a benchmark's fidelity axis, such as an
// epoch count or a dataset fraction.
type Fidelity float64

// String renders whole-number fidelities without a decimal point.
func (f Fidelity) String() string {
	v := float64(f)
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// FidelityRange describes a benchmark's fidelity axis: inclusive Start
// and Stop plus the Step between adjacent fidelities. Stop is the
// highest queryable fidelity and the default for Query.
type FidelityRange struct {
	Start Fidelity
	Stop  Fidelity
	Step  Fidelity

	// Int marks an axis of whole-number fidelities (epochs, layers).
	Int bool
}

// Validate checks the range's structural invariants.
func (r FidelityRange) Validate() error {
	if r.Step <= 0 {
		return fmt.Errorf("fidelity step must be positive, got %s", r.Step)
	}
	if r.Stop < r.Start {
		return fmt.Errorf("fidelity stop %s is below start %s", r.Stop, r.Start)
	}
	if r.Int {
		for _, f := range []Fidelity{r.Start, r.Stop, r.Step} {
			if float64(f) != math.Trunc(float64(f)) {
				return fmt.Errorf("integer fidelity range has non-integer bound %v", float64(f))
			}
		}
	}
	return nil
}

// Contains reports whether f lies inside [Start, Stop]. Values between
// steps are in range; table-backed benchmarks reject those later with
// a lookup miss rather than here.
func (r FidelityRange) Contains(f Fidelity) bool {
	return f >= r.Start && f <= r.Stop
}

// Count returns how many fidelities the range yields: Start, then
// every Step until Stop, inclusive when Stop lands on a step boundary.
func (r FidelityRange) Count() int {
	if r.Stop < r.Start || r.Step <= 0 {
		return 0
	}
	span := float64(r.Stop-r.Start) / float64(r.Step)
	// Guard against 2.9999999 when the stop boundary is exact.
	return int(math.Floor(span+1e-9)) + 1
}

// at computes the i-th fidelity directly from Start so that float
// error does not accumulate across a sweep.
func (r FidelityRange) at(i int) Fidelity {
	f := float64(r.Start) + float64(i)*float64(r.Step)
	if r.Int {
		return Fidelity(math.Round(f))
	}
	return Fidelity(f)
}

// Seq returns the fidelities in ascending order as a lazy, restartable
// sequence. Iteration never overshoots Stop: a range of (1, 10, 3)
// yields 1, 4, 7, 10 and a range of (1, 10, 4) yields 1, 5, 9.
func (r FidelityRange) Seq() iter.Seq[Fidelity] {
	return func(yield func(Fidelity) bool) {
		n := r.Count()
		for i := 0; i < n; i++ {
			if !yield(r.at(i)) {
				return
			}
		}
	}
}

// Slice returns the fidelities of Seq eagerly.
func (r FidelityRange) Slice() []Fidelity {
	out := make([]Fidelity, 0, r.Count())
	for f := range r.Seq() {
		out = append(out, f)
	}
	return out
}

// Sub derives the sweep range for a trajectory: any of frm, to, and
// step may be nil to take the receiver's value. Bounds outside the
// receiver return an *OutOfRangeError.
func (r FidelityRange) Sub(frm, to, step *Fidelity) (FidelityRange, error) {
	sub := r
	if frm != nil {
		sub.Start = *frm
	}
	if to != nil {
		sub.Stop = *to
	}
	if step != nil {
		sub.Step = *step
	}
	if !r.Contains(sub.Start) {
		return FidelityRange{}, &OutOfRangeError{Fidelity: sub.Start, Range: r}
	}
	if !r.Contains(sub.Stop) {
		return FidelityRange{}, &OutOfRangeError{Fidelity: sub.Stop, Range: r}
	}
	if err := sub.Validate(); err != nil {
		return FidelityRange{}, err
	}
	return sub, nil
}

// String renders the range as "[start, stop] by step".
func (r FidelityRange) String() string {
	return fmt.Sprintf("[%s, %s] by %s", r.Start, r.Stop, r.Step)
}
