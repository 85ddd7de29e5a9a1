// Package cli implements C9: the interactive command surface. It reads one
// trimmed line at a time — via the raw-mode TTY editor in input_tty.go when
// stdin/stdout are a terminal, or a plain bufio.Scanner otherwise — and
// after every line prints the 10x10 viewport and the "[TIME] (STATUS) > "
// prompt.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gridsheet/spreadsheet"
	"gridsheet/transport"
)

// Run drives one interactive session against hub, reading from in and
// writing to out, until the "q" command is received or input is
// exhausted. It returns the number of commands dispatched, not counting
// the final "q".
func Run(hub *transport.Hub, in io.Reader, out io.Writer) int {
	var (
		tty    *ttyInput
		scanCh chan lineEvent
	)
	if ti, ok := newTTYInput(in, out); ok {
		tty = ti
		defer tty.Close()
	} else {
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		scanCh = make(chan lineEvent)
		go scanLines(scanner, scanCh)
	}

	sessionOut := out
	if tty != nil {
		sessionOut = newTTYLineWriter(out)
	}

	dispatched := 0
	for {
		line, ok := readLine(tty, scanCh, sessionOut)
		if !ok {
			return dispatched
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		start := time.Now()
		result := hub.Dispatch(line)
		elapsed := time.Since(start)

		if result.Status == spreadsheet.DispatchQuit {
			return dispatched
		}
		dispatched++

		printResult(hub, sessionOut, result, elapsed)
	}
}

type lineEvent struct {
	line string
	ok   bool
}

func scanLines(scanner *bufio.Scanner, out chan<- lineEvent) {
	defer close(out)
	for scanner.Scan() {
		out <- lineEvent{line: scanner.Text(), ok: true}
	}
}

func readLine(tty *ttyInput, scanCh <-chan lineEvent, out io.Writer) (string, bool) {
	if tty != nil {
		return tty.readLine("> ")
	}
	ev, ok := <-scanCh
	if !ok {
		return "", false
	}
	return ev.line, ev.ok
}

// printResult renders the stdout protocol: an optional diagnostic payload
// for commands like "history"/"deps" that don't fit the viewport table, then
// the 10x10 viewport (unless output is disabled), then the
// "[TIME] (STATUS) > " prompt.
func printResult(hub *transport.Hub, out io.Writer, result spreadsheet.Result, elapsed time.Duration) {
	var outputEnabled bool
	var viewport string
	hub.View(func(e *spreadsheet.Engine) {
		outputEnabled = e.OutputEnabled
		if outputEnabled {
			var b strings.Builder
			e.RenderViewport(&b)
			viewport = b.String()
		}
	})

	if result.Output != "" {
		fmt.Fprintln(out, result.Output)
	}
	if outputEnabled {
		fmt.Fprint(out, viewport)
	}
	fmt.Fprintf(out, "[%.2f] (%s) > \n", elapsed.Seconds(), statusText(result.Status))
}

func statusText(s spreadsheet.DispatchStatus) string {
	switch s {
	case spreadsheet.DispatchCycle:
		return "Loop Detected!"
	case spreadsheet.DispatchParse:
		return "Invalid Input"
	default: // DispatchOk, DispatchDivByZero
		return "ok"
	}
}

// RunStdio is the main entry point's convenience wrapper: run an
// interactive session over os.Stdin/os.Stdout.
func RunStdio(hub *transport.Hub) int {
	return Run(hub, os.Stdin, os.Stdout)
}
