package spreadsheet

import "testing"

func mustDispatch(t *testing.T, e *Engine, line string) Result {
	t.Helper()
	return e.Dispatch(line)
}

func cellValue(t *testing.T, e *Engine, label string) (int32, Status) {
	t.Helper()
	row, col, err := ParseLabel(label)
	if err != nil {
		t.Fatalf("bad label %q: %v", label, err)
	}
	c := e.Grid.CellAt(row, col)
	return c.Value, c.Status
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(10, 10)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

func TestSimpleEvaluation(t *testing.T) {
	e := newTestEngine(t)
	mustDispatch(t, e, "A1=10")

	v, status := cellValue(t, e, "A1")
	if v != 10 || status != StatusOk {
		t.Errorf("A1 = (%d, %v), want (10, Ok)", v, status)
	}
}

func TestDependencyPropagation(t *testing.T) {
	e := newTestEngine(t)
	mustDispatch(t, e, "A1=10")
	if r := mustDispatch(t, e, "B1=A1*2"); r.Status != DispatchOk {
		t.Fatalf("B1=A1*2: status=%v", r.Status)
	}

	if v, _ := cellValue(t, e, "B1"); v != 20 {
		t.Errorf("B1 = %d, want 20", v)
	}

	mustDispatch(t, e, "A1=5")
	if v, _ := cellValue(t, e, "B1"); v != 10 {
		t.Errorf("B1 after A1=5 = %d, want 10", v)
	}
}

func TestChainedDependencies(t *testing.T) {
	e := newTestEngine(t)
	mustDispatch(t, e, "A1=1")
	mustDispatch(t, e, "B1=A1+1")
	mustDispatch(t, e, "C1=B1*2")

	if v, _ := cellValue(t, e, "C1"); v != 4 {
		t.Errorf("C1 = %d, want 4", v)
	}

	mustDispatch(t, e, "A1=2")
	if v, _ := cellValue(t, e, "C1"); v != 6 {
		t.Errorf("C1 after A1=2 = %d, want 6", v)
	}
}

func TestSelfReferenceIsCycle(t *testing.T) {
	e := newTestEngine(t)
	if r := mustDispatch(t, e, "A1=A1"); r.Status != DispatchCycle {
		t.Errorf("A1=A1: status=%v, want DispatchCycle", r.Status)
	}
}

func TestDirectCycle(t *testing.T) {
	e := newTestEngine(t)
	mustDispatch(t, e, "A1=1")
	mustDispatch(t, e, "B1=A1")
	if r := mustDispatch(t, e, "A1=B1"); r.Status != DispatchCycle {
		t.Errorf("A1=B1: status=%v, want DispatchCycle", r.Status)
	}
	// Grid must be unchanged from after the second command.
	if v, _ := cellValue(t, e, "A1"); v != 1 {
		t.Errorf("A1 = %d after rejected cycle, want 1", v)
	}
	if v, _ := cellValue(t, e, "B1"); v != 1 {
		t.Errorf("B1 = %d after rejected cycle, want 1", v)
	}
}

func TestIndirectCycle(t *testing.T) {
	e := newTestEngine(t)
	mustDispatch(t, e, "A1=1")
	mustDispatch(t, e, "B1=A1")
	mustDispatch(t, e, "C1=B1")
	if r := mustDispatch(t, e, "A1=C1"); r.Status != DispatchCycle {
		t.Errorf("A1=C1: status=%v, want DispatchCycle", r.Status)
	}
}

func TestRangeAggregateContainingWriterIsCycle(t *testing.T) {
	e := newTestEngine(t)
	mustDispatch(t, e, "A1=1")
	mustDispatch(t, e, "A2=2")
	if r := mustDispatch(t, e, "A1=SUM(A1:A2)"); r.Status != DispatchCycle {
		t.Errorf("A1=SUM(A1:A2): status=%v, want DispatchCycle", r.Status)
	}
}

func TestRangeAggregateReachingWriterIsCycle(t *testing.T) {
	e := newTestEngine(t)
	mustDispatch(t, e, "A1=1")
	mustDispatch(t, e, "A2=2")
	mustDispatch(t, e, "B1=SUM(A1:A2)")
	if r := mustDispatch(t, e, "A1=B1"); r.Status != DispatchCycle {
		t.Errorf("A1=B1 after B1=SUM(A1:A2): status=%v, want DispatchCycle", r.Status)
	}
}

func TestAggregates(t *testing.T) {
	e := newTestEngine(t)
	mustDispatch(t, e, "A1=5")
	mustDispatch(t, e, "A2=10")
	mustDispatch(t, e, "A3=15")
	mustDispatch(t, e, "B1=SUM(A1:A3)")
	mustDispatch(t, e, "B2=AVG(A1:A3)")
	mustDispatch(t, e, "B3=MAX(A1:A3)")
	mustDispatch(t, e, "B4=MIN(A1:A3)")

	cases := []struct {
		label string
		want  int32
	}{
		{"B1", 30},
		{"B2", 10},
		{"B3", 15},
		{"B4", 5},
	}
	for _, c := range cases {
		if v, status := cellValue(t, e, c.label); v != c.want || status != StatusOk {
			t.Errorf("%s = (%d, %v), want (%d, Ok)", c.label, v, status, c.want)
		}
	}
}

func TestStdevToleratesRoundingConvention(t *testing.T) {
	e := newTestEngine(t)
	mustDispatch(t, e, "A1=2")
	mustDispatch(t, e, "A2=4")
	mustDispatch(t, e, "A3=4")
	mustDispatch(t, e, "A4=4")
	mustDispatch(t, e, "A5=5")
	mustDispatch(t, e, "A6=5")
	mustDispatch(t, e, "A7=7")
	mustDispatch(t, e, "A8=9")
	mustDispatch(t, e, "B1=STDEV(A1:A8)")

	// Population stdev of this set is exactly 2. leaves the
	// rounding tie-break open, so tests tolerate ±1.
	if v, status := cellValue(t, e, "B1"); status != StatusOk || v < 1 || v > 3 {
		t.Errorf("STDEV = (%d, %v), want Ok and within [1,3]", v, status)
	}
}

func TestDivByZeroTaintAndRepair(t *testing.T) {
	e := newTestEngine(t)
	mustDispatch(t, e, "A1=10")
	mustDispatch(t, e, "B1=0")
	if r := mustDispatch(t, e, "C1=A1/B1"); r.Status != DispatchDivByZero {
		t.Fatalf("C1=A1/B1: status=%v, want DispatchDivByZero", r.Status)
	}
	mustDispatch(t, e, "D1=C1+1")

	if _, status := cellValue(t, e, "C1"); status != StatusErr {
		t.Errorf("C1 status = %v, want Err", status)
	}
	if _, status := cellValue(t, e, "D1"); status != StatusErr {
		t.Errorf("D1 status = %v, want Err", status)
	}

	mustDispatch(t, e, "B1=2")

	if v, status := cellValue(t, e, "C1"); v != 5 || status != StatusOk {
		t.Errorf("C1 after repair = (%d, %v), want (5, Ok)", v, status)
	}
	if v, status := cellValue(t, e, "D1"); v != 6 || status != StatusOk {
		t.Errorf("D1 after repair = (%d, %v), want (6, Ok)", v, status)
	}
}

func TestParseRejections(t *testing.T) {
	e := newTestEngine(t)
	cases := []string{
		"ZZZ1000=1", // out of range
		"A01=1",     // leading zero row
		"a1=1",      // lowercase column
		"A1=FOO(A1:A2)",
		"A1=",
		"not a command",
	}
	for _, line := range cases {
		if r := mustDispatch(t, e, line); r.Status != DispatchParse {
			t.Errorf("%q: status=%v, want DispatchParse", line, r.Status)
		}
	}
}

func TestIdempotence(t *testing.T) {
	e := newTestEngine(t)
	mustDispatch(t, e, "A1=5")
	mustDispatch(t, e, "B1=A1+1")
	v1, s1 := cellValue(t, e, "B1")

	mustDispatch(t, e, "B1=A1+1")
	v2, s2 := cellValue(t, e, "B1")

	if v1 != v2 || s1 != s2 {
		t.Errorf("applying B1=A1+1 twice: (%d,%v) != (%d,%v)", v1, s1, v2, s2)
	}
}

func TestLabelRoundTrip(t *testing.T) {
	for row := 0; row < 50; row++ {
		for col := 0; col < 800; col += 37 {
			label := FormatLabel(row, col)
			gotRow, gotCol, err := ParseLabel(label)
			if err != nil {
				t.Fatalf("ParseLabel(%q): %v", label, err)
			}
			if gotRow != row || gotCol != col {
				t.Errorf("round trip (%d,%d) -> %q -> (%d,%d)", row, col, label, gotRow, gotCol)
			}
		}
	}
}

func TestLockRejectsAssignment(t *testing.T) {
	e := newTestEngine(t)
	mustDispatch(t, e, "A1=1")
	mustDispatch(t, e, "lock A1")
	if r := mustDispatch(t, e, "A1=2"); r.Status != DispatchParse {
		t.Errorf("assignment to locked cell: status=%v, want DispatchParse", r.Status)
	}
	mustDispatch(t, e, "unlock A1")
	if r := mustDispatch(t, e, "A1=2"); r.Status != DispatchOk {
		t.Errorf("assignment after unlock: status=%v, want DispatchOk", r.Status)
	}
}

func TestScrollSaturatesAtEdges(t *testing.T) {
	e := newTestEngine(t)
	e.Scroll("w")
	if e.StartRow != 0 {
		t.Errorf("StartRow after w from origin = %d, want 0", e.StartRow)
	}
	e.Scroll("s")
	if e.StartRow != 0 {
		t.Errorf("StartRow after s on 10-row grid = %d, want 0", e.StartRow)
	}
}
