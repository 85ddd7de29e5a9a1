package spreadsheet

import (
	"strings"
	"time"
)

// resolveRef parses a label and resolves it to a cell within e's grid.
// Unlike ParseLabel's own MaxRows/MaxCols ceiling, this also rejects
// labels that are in-format but outside this particular sheet's R×C.
func (e *Engine) resolveRef(label string) (*Cell, bool) {
	row, col, err := ParseLabel(label)
	if err != nil || !e.Grid.InBounds(row, col) {
		return nil, false
	}
	return e.Grid.CellAt(row, col), true
}

// evaluate implements C5: parse one of the five grammar shapes against expr,
// compute its i32 result, and report the outcome. In Bind mode it also
// rewrites writer's forward dependency set to match the formula just
// parsed; in RecomputeOnly mode the dependency index is left untouched.
func (e *Engine) evaluate(expr string, writer *Cell, mode Mode) (int32, Outcome) {
	trimmed := strings.TrimSpace(expr)
	if trimmed == "" {
		return 0, OutcomeParse
	}

	// Shape 1: bare integer literal.
	if v, ok := parseInteger(trimmed); ok {
		if mode == Bind {
			clearForward(writer)
		}
		return v, OutcomeOk
	}

	// Shapes 2/3: NAME(...) call forms.
	if name, inner, ok := stripCall(trimmed); ok {
		if name == "SLEEP" {
			return e.evalSleep(inner, writer, mode)
		}
		if f, ok := lookupFn(name); ok {
			return e.evalAggregate(f, inner, writer, mode)
		}
		return 0, OutcomeParse
	}

	// Shape 4: Operand Op Operand — first '+-*/' splits.
	if left, right, op, ok := splitOperator(trimmed); ok {
		return e.evalBinary(left, right, op, writer, mode)
	}

	// Shape 5: direct reference.
	return e.evalRef(trimmed, writer, mode)
}

// evalSleep implements shapes 2a/2b.
func (e *Engine) evalSleep(inner string, writer *Cell, mode Mode) (int32, Outcome) {
	if v, ok := parseInteger(inner); ok {
		if mode == Bind {
			clearForward(writer)
		}
		sleepSeconds(v)
		return v, OutcomeOk
	}

	ref, ok := e.resolveRef(inner)
	if !ok {
		return 0, OutcomeParse
	}
	if writer == ref || (mode != RecomputeOnly && e.cd.Reaches(writer, ref)) {
		return 0, OutcomeCycle
	}
	if mode == Bind {
		clearForward(writer)
		addForward(writer, ref)
	}
	v := ref.Value
	sleepSeconds(v)
	if ref.Status == StatusErr {
		return v, OutcomeReadsTaintedCell
	}
	return v, OutcomeOk
}

// evalAggregate implements shape 3: Fn(Ref:Ref).
func (e *Engine) evalAggregate(f fn, inner string, writer *Cell, mode Mode) (int32, Outcome) {
	leftLabel, rightLabel, ok := splitRange(inner)
	if !ok {
		return 0, OutcomeParse
	}
	r1, c1, err1 := ParseLabel(leftLabel)
	r2, c2, err2 := ParseLabel(rightLabel)
	if err1 != nil || err2 != nil || !e.Grid.InBounds(r1, c1) || !e.Grid.InBounds(r2, c2) {
		return 0, OutcomeParse
	}
	if r1 > r2 || c1 > c2 {
		return 0, OutcomeParse
	}

	inRect := writer.row >= r1 && writer.row <= r2 && writer.col >= c1 && writer.col <= c2
	if inRect || (mode != RecomputeOnly && e.cd.ReachesRange(writer, r1, c1, r2, c2)) {
		return 0, OutcomeCycle
	}

	var sum int64
	var count int64
	hi := int32(0)
	lo := int32(0)
	tainted := false
	values := make([]int32, 0, (r2-r1+1)*(c2-c1+1))

	for r := r1; r <= r2; r++ {
		for c := c1; c <= c2; c++ {
			cell := e.Grid.CellAt(r, c)
			if cell.Status == StatusErr {
				tainted = true
			}
			v := cell.Value
			values = append(values, v)
			sum += int64(v)
			if count == 0 || v > hi {
				hi = v
			}
			if count == 0 || v < lo {
				lo = v
			}
			count++
		}
	}

	var result int32
	switch f {
	case fnSum:
		result = int32(sum)
	case fnAvg:
		result = int32(sum / count)
	case fnMax:
		result = hi
	case fnMin:
		result = lo
	case fnStdev:
		result = populationStdev(values, sum, count)
	}

	if mode == Bind {
		clearForward(writer)
		for r := r1; r <= r2; r++ {
			for c := c1; c <= c2; c++ {
				addForward(writer, e.Grid.CellAt(r, c))
			}
		}
	}

	if tainted {
		return result, OutcomeReadsTaintedCell
	}
	return result, OutcomeOk
}

// populationStdev computes the population standard deviation as a truncating
// integer mean followed by a truncating integer square root (isqrt, no
// floating point involved — i.e. truncating, not rounded).
// The rounding convention is otherwise unconstrained; callers should
// tolerate ±1 either way.
func populationStdev(values []int32, sum int64, count int64) int32 {
	mean := sum / count
	var sqDiffSum int64
	for _, v := range values {
		d := int64(v) - mean
		sqDiffSum += d * d
	}
	variance := sqDiffSum / count
	return int32(isqrt(variance))
}

// isqrt returns the truncating integer square root of a non-negative n.
func isqrt(n int64) int64 {
	if n <= 0 {
		return 0
	}
	x := n
	y := (x + 1) / 2
	for y < x {
		x = y
		y = (x + n/x) / 2
	}
	return x
}

// evalBinary implements shape 4.
func (e *Engine) evalBinary(leftExpr, rightExpr string, op byte, writer *Cell, mode Mode) (int32, Outcome) {
	v1, ref1, outcome := e.evalOperand(leftExpr, writer, mode)
	if outcome == OutcomeParse || outcome == OutcomeCycle {
		return 0, outcome
	}
	tainted1 := outcome == OutcomeReadsTaintedCell

	v2, ref2, outcome2 := e.evalOperand(rightExpr, writer, mode)
	if outcome2 == OutcomeParse || outcome2 == OutcomeCycle {
		return 0, outcome2
	}
	tainted2 := outcome2 == OutcomeReadsTaintedCell

	if mode == Bind {
		clearForward(writer)
		if ref1 != nil {
			addForward(writer, ref1)
		}
		if ref2 != nil && ref2 != ref1 {
			addForward(writer, ref2)
		}
	}

	// Operand status is checked before numeric evaluation: a tainted operand
	// must report ReadsTaintedCell even when the divisor is also zero.
	if tainted1 || tainted2 {
		if op == '/' && v2 == 0 {
			return 0, OutcomeReadsTaintedCell
		}
		var result int32
		switch op {
		case '+':
			result = v1 + v2
		case '-':
			result = v1 - v2
		case '*':
			result = v1 * v2
		case '/':
			result = v1 / v2
		}
		return result, OutcomeReadsTaintedCell
	}

	var result int32
	switch op {
	case '+':
		result = v1 + v2
	case '-':
		result = v1 - v2
	case '*':
		result = v1 * v2
	case '/':
		if v2 == 0 {
			return 0, OutcomeDivByZero
		}
		result = v1 / v2
	}

	return result, OutcomeOk
}

// evalOperand resolves one side of a binary expression (Integer | Ref),
// running the single-target cycle check on ref operands. It returns the
// referenced cell (nil for a literal) so the caller can install forward
// edges once, after both operands are known to be well-formed.
func (e *Engine) evalOperand(expr string, writer *Cell, mode Mode) (int32, *Cell, Outcome) {
	if v, ok := parseInteger(expr); ok {
		return v, nil, OutcomeOk
	}
	ref, ok := e.resolveRef(expr)
	if !ok {
		return 0, nil, OutcomeParse
	}
	if writer == ref || (mode != RecomputeOnly && e.cd.Reaches(writer, ref)) {
		return 0, nil, OutcomeCycle
	}
	if ref.Status == StatusErr {
		return ref.Value, ref, OutcomeReadsTaintedCell
	}
	return ref.Value, ref, OutcomeOk
}

// evalRef implements shape 5: a bare reference.
func (e *Engine) evalRef(expr string, writer *Cell, mode Mode) (int32, Outcome) {
	ref, ok := e.resolveRef(expr)
	if !ok {
		return 0, OutcomeParse
	}
	if writer == ref || (mode != RecomputeOnly && e.cd.Reaches(writer, ref)) {
		return 0, OutcomeCycle
	}
	if mode == Bind {
		clearForward(writer)
		addForward(writer, ref)
	}
	if ref.Status == StatusErr {
		return ref.Value, OutcomeReadsTaintedCell
	}
	return ref.Value, OutcomeOk
}

// sleepSeconds blocks the calling goroutine for n seconds when n is
// non-negative. A negative n never blocks.
func sleepSeconds(n int32) {
	if n < 0 {
		return
	}
	time.Sleep(time.Duration(n) * time.Second)
}
