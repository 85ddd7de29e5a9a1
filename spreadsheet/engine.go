package spreadsheet

import "time"

// historyLimit bounds the C15 command-history ring buffer.
const historyLimit = 200

// AuditSink receives one record per dispatched assignment command, win or
// lose. It is the hook C12's pgx-backed sink implements; a nil sink is a
// no-op, so the core never depends on it being present.
type AuditSink interface {
	LogCommand(label string, expr string, outcome Outcome, elapsed time.Duration)
}

// DiagSink renders a diagnostic report over the live dependency graph for
// the `deps` command (C13). A nil sink makes `deps` a Parse error rather
// than a silent no-op, since the command doesn't exist without it.
type DiagSink interface {
	Report(e *Engine) string
}

// Engine is the process-wide aggregate (C8's "global state", made
// explicit rather than left as package-level mutables):
// the grid, the reusable cycle-detector scratch space, and the
// presentational viewport/output state all live here and are passed
// around by reference instead of through mutable package globals.
type Engine struct {
	Grid *Grid
	cd   *cycleDetector

	StartRow, StartCol int
	OutputEnabled      bool

	history []string

	Audit AuditSink
	Diag  DiagSink
}

// NewEngine allocates an Engine over a fresh rows×cols grid.
func NewEngine(rows, cols int) (*Engine, error) {
	g, err := NewGrid(rows, cols)
	if err != nil {
		return nil, err
	}
	return &Engine{
		Grid:          g,
		cd:            newCycleDetector(g),
		OutputEnabled: true,
	}, nil
}

// recordHistory appends an accepted assignment line to the ring buffer
// backing the `history` command (C15). Only commands that actually
// install a formula are recorded; Parse/Cycle rejections never mutated
// anything and are not worth replaying.
func (e *Engine) recordHistory(line string) {
	e.history = append(e.history, line)
	if len(e.history) > historyLimit {
		e.history = e.history[len(e.history)-historyLimit:]
	}
}

// History returns the accepted-assignment ring buffer, oldest first.
func (e *Engine) History() []string {
	out := make([]string, len(e.history))
	copy(out, e.history)
	return out
}
