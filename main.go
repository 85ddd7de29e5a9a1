package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gridsheet/audit"
	"gridsheet/cli"
	"gridsheet/diag"
	"gridsheet/liveserver"
	"gridsheet/remote"
	"gridsheet/spreadsheet"
	"gridsheet/transport"
)

// options holds the ambient flags layered onto "program ROWS
// COLS" entry point: a live viewport feed (C10), a remote control plane
// (C11), and an optional audit sink (C12). None of these change the core's
// observable behavior over stdin; they just give it other callers.
type options struct {
	serveAddr  string
	remoteAddr string
	auditDSN   string
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) < 2 {
		usage()
		return 255
	}

	rows, err := strconv.Atoi(args[0])
	if err != nil || rows < 1 || rows > spreadsheet.MaxRows {
		fmt.Fprintf(os.Stderr, "invalid ROWS: %q (must be 1..=%d)\n", args[0], spreadsheet.MaxRows)
		usage()
		return 255
	}
	cols, err := strconv.Atoi(args[1])
	if err != nil || cols < 1 || cols > spreadsheet.MaxCols {
		fmt.Fprintf(os.Stderr, "invalid COLS: %q (must be 1..=%d)\n", args[1], spreadsheet.MaxCols)
		usage()
		return 255
	}

	opts, help, err := parseFlags(args[2:])
	if help {
		usage()
		return 0
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		usage()
		return 255
	}

	engine, err := spreadsheet.NewEngine(rows, cols)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 255
	}
	engine.Diag = diag.New()

	if opts.auditDSN != "" {
		sink, err := audit.Open(opts.auditDSN)
		if err != nil {
			fmt.Fprintf(os.Stderr, "audit: %v\n", err)
			return 255
		}
		defer sink.Close()
		engine.Audit = sink
	}

	hub := transport.New(engine)

	if opts.serveAddr != "" {
		srv := liveserver.New(hub)
		go func() {
			if err := srv.Start(opts.serveAddr); err != nil {
				fmt.Fprintf(os.Stderr, "liveserver: %v\n", err)
			}
		}()
	}

	if opts.remoteAddr != "" {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		ep, err := remote.Listen(ctx, hub, opts.remoteAddr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "remote: %v\n", err)
			return 255
		}
		defer ep.Close()
		go func() {
			if err := ep.Serve(); err != nil {
				fmt.Fprintf(os.Stderr, "remote: serve: %v\n", err)
			}
		}()
	}

	cli.RunStdio(hub)
	return 0
}

// parseFlags hand-rolls the optional ambient flags after ROWS COLS, in the
// teacher's own style (the teacher's parseRunArgs/parseParseArgs): a manual
// index loop over os.Args, --flag=value and --flag value both accepted, no
// flag package.
func parseFlags(args []string) (options, bool, error) {
	var opts options
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-h" || arg == "--help":
			return opts, true, nil
		case strings.HasPrefix(arg, "--serve="):
			opts.serveAddr = strings.TrimPrefix(arg, "--serve=")
		case arg == "--serve":
			v, ok := nextArg(args, &i)
			if !ok {
				return opts, false, fmt.Errorf("--serve requires an address")
			}
			opts.serveAddr = v
		case strings.HasPrefix(arg, "--remote="):
			opts.remoteAddr = strings.TrimPrefix(arg, "--remote=")
		case arg == "--remote":
			v, ok := nextArg(args, &i)
			if !ok {
				return opts, false, fmt.Errorf("--remote requires a zeromq address")
			}
			opts.remoteAddr = v
		case strings.HasPrefix(arg, "--audit-dsn="):
			opts.auditDSN = strings.TrimPrefix(arg, "--audit-dsn=")
		case arg == "--audit-dsn":
			v, ok := nextArg(args, &i)
			if !ok {
				return opts, false, fmt.Errorf("--audit-dsn requires a DSN")
			}
			opts.auditDSN = v
		default:
			return opts, false, fmt.Errorf("unknown argument: %s", arg)
		}
	}
	return opts, false, nil
}

func nextArg(args []string, i *int) (string, bool) {
	if *i+1 >= len(args) {
		return "", false
	}
	*i++
	return args[*i], true
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage:\n")
	fmt.Fprintf(os.Stderr, "  gridsheet ROWS COLS [flags]\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  ROWS  number of rows,    1..=%d\n", spreadsheet.MaxRows)
	fmt.Fprintf(os.Stderr, "  COLS  number of columns, 1..=%d\n", spreadsheet.MaxCols)
	fmt.Fprintf(os.Stderr, "\nFlags:\n")
	fmt.Fprintf(os.Stderr, "  --serve ADDR       serve a live viewport feed over HTTP+WebSocket at ADDR\n")
	fmt.Fprintf(os.Stderr, "  --remote ADDR      accept dispatcher commands over a ZeroMQ REP socket at ADDR (e.g. tcp://127.0.0.1:5555)\n")
	fmt.Fprintf(os.Stderr, "  --audit-dsn DSN    log every dispatched command to a Postgres command_log table\n")
	fmt.Fprintf(os.Stderr, "\nStdin commands, one per line: see \n")
}
