package cli

import (
	"bytes"
	"strings"
	"testing"

	"gridsheet/spreadsheet"
	"gridsheet/transport"
)

func newTestHub(t *testing.T) *transport.Hub {
	t.Helper()
	e, err := spreadsheet.NewEngine(5, 5)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return transport.New(e)
}

func TestRunDispatchesUntilQuit(t *testing.T) {
	hub := newTestHub(t)
	in := strings.NewReader("A1=5\nB1=A1+1\nq\n")
	var out bytes.Buffer

	n := Run(hub, in, &out)
	if n != 2 {
		t.Errorf("dispatched %d commands, want 2 (q does not count)", n)
	}

	output := out.String()
	if !strings.Contains(output, "(ok) >") {
		t.Errorf("output missing ok prompt: %q", output)
	}
}

func TestRunReportsParseAndCycle(t *testing.T) {
	hub := newTestHub(t)
	in := strings.NewReader("A1=A1\nnot a command\nq\n")
	var out bytes.Buffer

	Run(hub, in, &out)
	output := out.String()
	if !strings.Contains(output, "Loop Detected!") {
		t.Errorf("output missing cycle prompt: %q", output)
	}
	if !strings.Contains(output, "Invalid Input") {
		t.Errorf("output missing parse prompt: %q", output)
	}
}

func TestStatusText(t *testing.T) {
	cases := []struct {
		status spreadsheet.DispatchStatus
		want   string
	}{
		{spreadsheet.DispatchOk, "ok"},
		{spreadsheet.DispatchDivByZero, "ok"},
		{spreadsheet.DispatchCycle, "Loop Detected!"},
		{spreadsheet.DispatchParse, "Invalid Input"},
	}
	for _, c := range cases {
		if got := statusText(c.status); got != c.want {
			t.Errorf("statusText(%v) = %q, want %q", c.status, got, c.want)
		}
	}
}
