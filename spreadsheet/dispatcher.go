package spreadsheet

import (
	"strings"
	"time"
)

// DispatchStatus is the control-flow result of Dispatch, distinct from the
// evaluation Outcome: it additionally carries the Quit signal assigned to
// the bare "q" command.
type DispatchStatus int

const (
	DispatchOk DispatchStatus = iota
	DispatchParse
	DispatchCycle
	DispatchDivByZero
	DispatchQuit
)

// Result is what Dispatch reports back to a caller (the CLI loop, the
// live server, or the remote control plane) for one input line. Output
// carries extra text for diagnostic commands (history, deps) that don't
// fit the viewport+prompt protocol; callers print it, if non-empty, before
// the regular protocol output.
type Result struct {
	Status  DispatchStatus
	Elapsed time.Duration
	Output  string
}

// Dispatch parses and executes one trimmed input line: a viewport command,
// a diagnostic command, or a LABEL=EXPR assignment. It is the sole entry
// point command surfaces call into; none of them mutate Engine's fields
// directly.
func (e *Engine) Dispatch(line string) Result {
	start := time.Now()
	line = strings.TrimSpace(line)

	status, output := e.dispatchLine(line)
	return Result{Status: status, Elapsed: time.Since(start), Output: output}
}

func (e *Engine) dispatchLine(line string) (DispatchStatus, string) {
	switch line {
	case "q":
		return DispatchQuit, ""
	case "w", "a", "s", "d":
		e.Scroll(line)
		return DispatchOk, ""
	case "disable_output":
		e.OutputEnabled = false
		return DispatchOk, ""
	case "enable_output":
		e.OutputEnabled = true
		return DispatchOk, ""
	case "history":
		return DispatchOk, strings.Join(e.History(), "\n")
	case "deps":
		if e.Diag == nil {
			return DispatchParse, ""
		}
		return DispatchOk, e.Diag.Report(e)
	}

	if rest, ok := cutPrefix(line, "scroll_to "); ok {
		if e.ScrollTo(strings.TrimSpace(rest)) {
			return DispatchOk, ""
		}
		return DispatchParse, ""
	}
	if rest, ok := cutPrefix(line, "lock "); ok {
		return dispatchLockCommand(e, rest, true), ""
	}
	if rest, ok := cutPrefix(line, "unlock "); ok {
		return dispatchLockCommand(e, rest, false), ""
	}

	return e.dispatchAssignment(line), ""
}

func cutPrefix(s, prefix string) (string, bool) {
	if !strings.HasPrefix(s, prefix) {
		return "", false
	}
	return s[len(prefix):], true
}

// dispatchLockCommand implements C14: lock/unlock bookkeeping on a single
// cell, rejecting bad labels with Parse.
func dispatchLockCommand(e *Engine, label string, lock bool) DispatchStatus {
	label = strings.TrimSpace(label)
	row, col, err := ParseLabel(label)
	if err != nil || !e.Grid.InBounds(row, col) {
		return DispatchParse
	}
	e.Grid.CellAt(row, col).locked = lock
	return DispatchOk
}

// dispatchAssignment implements a LABEL=EXPR command: Bind mode evaluation,
// installing the formula, then recomputing dependents.
func (e *Engine) dispatchAssignment(line string) DispatchStatus {
	eq := strings.IndexByte(line, '=')
	if eq < 0 {
		return DispatchParse
	}
	label := strings.TrimSpace(line[:eq])
	exprSrc := strings.TrimSpace(line[eq+1:])

	row, col, err := ParseLabel(label)
	if err != nil || !e.Grid.InBounds(row, col) {
		return DispatchParse
	}
	writer := e.Grid.CellAt(row, col)
	if writer.locked {
		return DispatchParse
	}

	evalStart := time.Now()
	value, outcome := e.evaluate(exprSrc, writer, Bind)

	e.auditCommand(label, exprSrc, outcome, time.Since(evalStart))

	switch outcome {
	case OutcomeParse:
		return DispatchParse
	case OutcomeCycle:
		return DispatchCycle
	}

	// Ok, DivByZero, and ReadsTaintedCell all install the formula: runtime
	// failures are recorded on the cell, not recovered from.
	writer.Expression = exprSrc
	writer.Value = value
	if outcome.IsErr() {
		writer.Status = StatusErr
	} else {
		writer.Status = StatusOk
	}

	e.recompute(writer)
	e.recordHistory(line)

	if outcome == OutcomeDivByZero {
		return DispatchDivByZero
	}
	return DispatchOk
}

func (e *Engine) auditCommand(label, expr string, outcome Outcome, elapsed time.Duration) {
	if e.Audit == nil {
		return
	}
	e.Audit.LogCommand(label, expr, outcome, elapsed)
}
