package remote

import (
	"testing"

	"github.com/go-zeromq/zmq4"

	"gridsheet/spreadsheet"
)

func TestRequestLine(t *testing.T) {
	msg := zmq4.NewMsgFrom([]byte("A1=5"))
	if got := requestLine(msg); got != "A1=5" {
		t.Errorf("requestLine = %q, want %q", got, "A1=5")
	}
}

func TestRequestLineEmptyFrames(t *testing.T) {
	if got := requestLine(zmq4.Msg{}); got != "" {
		t.Errorf("requestLine of empty msg = %q, want empty", got)
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
		{spreadsheet.DispatchQuit, "quit"},
	}
	for _, c := range cases {
		if got := statusText(c.status); got != c.want {
			t.Errorf("statusText(%v) = %q, want %q", c.status, got, c.want)
		}
	}
}
