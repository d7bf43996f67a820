package ptw

import "fmt"

// Interval is an inclusive pair of UTC millisecond timestamps, start <=
// end. It is the sole output shape of every Block's Evaluate.
type Interval struct {
	Start int64
	End   int64
}

// cloneIntervals returns a defensive copy, matching the ownership rule
// in spec.md section 3 ("The cache owns copies of result interval
// lists").
func cloneIntervals(in []Interval) []Interval {
	if in == nil {
		return nil
	}
	out := make([]Interval, len(in))
	copy(out, in)
	return out
}

// ConstraintKind discriminates the three NumericConstraint variants
// described in spec.md section 3.
type ConstraintKind uint8

const (
	ConstraintSingle ConstraintKind = iota
	ConstraintRange
	ConstraintAlgebraic
)

// AlgebraicOp is the sign in an `a n +/- b` algebraic constraint.
type AlgebraicOp uint8

const (
	AlgebraicPlus AlgebraicOp = iota
	AlgebraicMinus
)

// NumericConstraint is the sum type from spec.md section 3: Single(v),
// Range(s,e), or Algebraic(a,op,b). Exactly one set of fields is
// meaningful depending on Kind.
type NumericConstraint struct {
	Kind ConstraintKind

	// Single, Range
	Value int // Single
	Start int // Range
	End   int // Range

	// Algebraic: matches a*n+b (op=+) or a*n-b (op=-) for integer n>=1.
	A  int
	Op AlgebraicOp
	B  int
}

// Single builds a NumericConstraint matching exactly v.
func Single(v int) NumericConstraint {
	return NumericConstraint{Kind: ConstraintSingle, Value: v}
}

// Range builds a NumericConstraint matching v in [s, e].
func Range(s, e int) NumericConstraint {
	return NumericConstraint{Kind: ConstraintRange, Start: s, End: e}
}

// Algebraic builds a NumericConstraint matching a*n+b (op=+) or a*n-b
// (op=-) for integer n >= 1, per spec.md section 3: a in [1, 9998], b
// in [0, 9998].
func Algebraic(a int, op AlgebraicOp, b int) NumericConstraint {
	return NumericConstraint{Kind: ConstraintAlgebraic, A: a, Op: op, B: b}
}

// validate checks a constraint against a field's inclusive [min, max]
// bounds, returning a *ValidationError on failure. fieldName is used
// only for the error message.
func (c NumericConstraint) validate(fieldName string, min, max int) error {
	switch c.Kind {
	case ConstraintSingle:
		if c.Value < min || c.Value > max {
			return &ValidationError{Field: fieldName, Value: c.Value, Min: min, Max: max}
		}
	case ConstraintRange:
		if c.Start > c.End {
			return &ValidationError{Field: fieldName, Msg: fmt.Sprintf("range start %d exceeds end %d", c.Start, c.End)}
		}
		if c.Start < min || c.End > max {
			return &ValidationError{Field: fieldName, Value: c.Start, Min: min, Max: max}
		}
	case ConstraintAlgebraic:
		if c.A < 1 || c.A > 9998 {
			return &ValidationError{Field: fieldName, Msg: fmt.Sprintf("algebraic coefficient %d out of [1, 9998]", c.A)}
		}
		if c.B < 0 || c.B > 9998 {
			return &ValidationError{Field: fieldName, Msg: fmt.Sprintf("algebraic offset %d out of [0, 9998]", c.B)}
		}
	default:
		return &ValidationError{Field: fieldName, Msg: "unknown constraint kind"}
	}
	return nil
}

// each reports every value in [min, max] matched by c, via yield. Used
// to compile and extend field bitmaps (section 4.2).
func (c NumericConstraint) each(min, max int, yield func(int)) {
	switch c.Kind {
	case ConstraintSingle:
		if c.Value >= min && c.Value <= max {
			yield(c.Value)
		}
	case ConstraintRange:
		s, e := c.Start, c.End
		if s < min {
			s = min
		}
		if e > max {
			e = max
		}
		for v := s; v <= e; v++ {
			yield(v)
		}
	case ConstraintAlgebraic:
		// a*n + b (op=+) or a*n - b (op=-), n >= 1, result in [min, max].
		for n := 1; ; n++ {
			var v int
			if c.Op == AlgebraicPlus {
				v = c.A*n + c.B
			} else {
				v = c.A*n - c.B
			}
			if v > max {
				break
			}
			if v >= min {
				yield(v)
			}
		}
	}
}

func (c NumericConstraint) String() string {
	switch c.Kind {
	case ConstraintSingle:
		return fmt.Sprintf("%d", c.Value)
	case ConstraintRange:
		return fmt.Sprintf("%d..%d", c.Start, c.End)
	case ConstraintAlgebraic:
		sign := "+"
		if c.Op == AlgebraicMinus {
			sign = "-"
		}
		return fmt.Sprintf("%dn%s%d", c.A, sign, c.B)
	default:
		return "?"
	}
}
