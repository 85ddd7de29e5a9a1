// Package remote implements C11: a REQ/REP ZeroMQ endpoint that accepts the
// same command-line grammar as stdin for headless or automated drivers that
// can't open a TTY. One request is exactly one command line; one reply is
// its outcome and elapsed time.
//
// Uses the same zmq4.NewRep/Listen/Recv/Send socket lifecycle as any
// single-endpoint REQ/REP server: there is no multi-client identity routing
// to do over a single REQ/REP pair, so the message body is just the
// command line in and the reply line out.
package remote

import (
	"context"
	"fmt"
	"log"

	"github.com/go-zeromq/zmq4"

	"gridsheet/spreadsheet"
	"gridsheet/transport"
)

// Endpoint serves dispatcher commands over a ZeroMQ REP socket.
type Endpoint struct {
	hub  *transport.Hub
	sock zmq4.Socket
}

// Listen binds a REP socket at addr (e.g. "tcp://127.0.0.1:5555") and
// returns an Endpoint ready to Serve.
func Listen(ctx context.Context, hub *transport.Hub, addr string) (*Endpoint, error) {
	sock := zmq4.NewRep(ctx)
	if err := sock.Listen(addr); err != nil {
		return nil, fmt.Errorf("remote: listen %s: %w", addr, err)
	}
	return &Endpoint{hub: hub, sock: sock}, nil
}

// Close releases the underlying socket.
func (ep *Endpoint) Close() error {
	return ep.sock.Close()
}

// Serve processes one request at a time until Recv fails (typically because
// Close was called), matching single-threaded, synchronous
// command model: one command runs to completion before the endpoint reads
// the next request.
func (ep *Endpoint) Serve() error {
	for {
		msg, err := ep.sock.Recv()
		if err != nil {
			return err
		}

		line := requestLine(msg)
		reply := ep.handle(line)

		if err := ep.sock.Send(zmq4.NewMsgFrom([]byte(reply))); err != nil {
			log.Printf("remote: send failed: %v", err)
			return err
		}
	}
}

func requestLine(msg zmq4.Msg) string {
	if len(msg.Frames) == 0 {
		return ""
	}
	return string(msg.Frames[0])
}

// handle runs one command line through the hub and formats the reply as
// "<status> <elapsed-seconds>", the same two fields the stdio prompt shows,
// without the viewport table a remote caller has no use for.
func (ep *Endpoint) handle(line string) string {
	result := ep.hub.Dispatch(line)
	return fmt.Sprintf("%s %.2f", statusText(result.Status), result.Elapsed.Seconds())
}

func statusText(s spreadsheet.DispatchStatus) string {
	switch s {
	case spreadsheet.DispatchCycle:
		return "Loop Detected!"
	case spreadsheet.DispatchParse:
		return "Invalid Input"
	case spreadsheet.DispatchQuit:
		return "quit"
	default: // DispatchOk, DispatchDivByZero
		return "ok"
	}
}
