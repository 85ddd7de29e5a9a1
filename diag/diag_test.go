package diag

import (
	"strings"
	"testing"

	"gridsheet/spreadsheet"
)

func newTestEngine(t *testing.T) *spreadsheet.Engine {
	t.Helper()
	e, err := spreadsheet.NewEngine(5, 5)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	e.Diag = New()
	return e
}

func TestReportOrdersChain(t *testing.T) {
	e := newTestEngine(t)
	e.Dispatch("A1=1")
	e.Dispatch("B1=A1+1")
	e.Dispatch("C1=B1*2")

	report := e.Diag.Report(e)
	idxA := strings.Index(report, "A1")
	idxB := strings.Index(report, "B1")
	idxC := strings.Index(report, "C1")
	if idxA == -1 || idxB == -1 || idxC == -1 {
		t.Fatalf("report missing a cell label: %q", report)
	}
	if !(idxA < idxB && idxB < idxC) {
		t.Errorf("report %q does not order A1 before B1 before C1", report)
	}
}

func TestReportEmptySheet(t *testing.T) {
	e := newTestEngine(t)
	report := e.Diag.Report(e)
	if !strings.Contains(report, "no cells") {
		t.Errorf("report for empty sheet = %q, want a no-cells message", report)
	}
}
