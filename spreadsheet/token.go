package spreadsheet

// Outcome is the result classification returned by evaluate (C5) and
// recorded on a cell after Bind/RecomputeOnly evaluation. Ok and
// DivByZero share the same prompt text ("ok"); Cycle and Parse each
// get distinct prompt text, so those three print states are carried
// alongside the five Go values here rather than collapsed to match the
// prompt vocabulary.
type Outcome int

const (
	OutcomeOk Outcome = iota
	OutcomeDivByZero
	OutcomeReadsTaintedCell
	OutcomeCycle
	OutcomeParse
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOk:
		return "Ok"
	case OutcomeDivByZero:
		return "DivByZero"
	case OutcomeReadsTaintedCell:
		return "ReadsTaintedCell"
	case OutcomeCycle:
		return "Cycle"
	case OutcomeParse:
		return "Parse"
	default:
		return "Unknown"
	}
}

// IsErr reports whether the outcome leaves the writing cell tainted
// (status=Err) once installed — true for DivByZero and ReadsTaintedCell,
// false for Ok. Cycle and Parse never install, so IsErr is meaningless for
// them (the caller never reaches the point of asking).
func (o Outcome) IsErr() bool {
	return o == OutcomeDivByZero || o == OutcomeReadsTaintedCell
}

// Mode selects how evaluate treats the dependency index
type Mode int

const (
	// Bind is used on a user edit: clears the writer's forward edges, then
	// installs the new set as the expression is evaluated.
	Bind Mode = iota
	// RecomputeOnly is used during topological recomputation: the
	// dependency index already reflects this formula and must not be
	// touched.
	RecomputeOnly
)

// fn is one of the five supported aggregate function names (shape 3).
type fn int

const (
	fnSum fn = iota
	fnAvg
	fnMax
	fnMin
	fnStdev
)

func lookupFn(name string) (fn, bool) {
	switch name {
	case "SUM":
		return fnSum, true
	case "AVG":
		return fnAvg, true
	case "MAX":
		return fnMax, true
	case "MIN":
		return fnMin, true
	case "STDEV":
		return fnStdev, true
	default:
		return 0, false
	}
}
