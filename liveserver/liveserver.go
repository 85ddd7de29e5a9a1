// Package liveserver implements C10: a read-only HTTP+WebSocket server that
// broadcasts the sheet's 10x10 viewport (and, on request, a full grid
// snapshot) to connected browser clients whenever a command mutates the
// sheet. It never accepts writes itself — the only writer surface is the
// command dispatcher (C7), reached through stdin (C9) or the remote control
// plane (C11); this server only observes.
//
// An upgrade-then-push-on-change shape: each connection gets an initial
// full-grid snapshot, then a viewport snapshot every time the hub reports
// a change, encoded as (value int32, status string) pairs per cell.
package liveserver

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"gridsheet/spreadsheet"
	"gridsheet/transport"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true }, // local dev/demo tool, no origin restriction
}

// Server holds the set of connected viewport observers for one Hub.
type Server struct {
	hub *transport.Hub

	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

// New wraps hub with a Server ready to Start serving.
func New(hub *transport.Hub) *Server {
	return &Server{hub: hub, clients: make(map[*websocket.Conn]bool)}
}

// CellSnapshot is one cell's broadcastable state.
type CellSnapshot struct {
	Label  string `json:"label"`
	Value  int32  `json:"value"`
	Status string `json:"status"`
}

// GridSnapshot is the full-grid payload sent on connect and on "snapshot"
// requests; ViewportSnapshot is the smaller, more frequent payload pushed
// after every dispatched command.
type GridSnapshot struct {
	Type  string         `json:"type"`
	Rows  int            `json:"rows"`
	Cols  int            `json:"cols"`
	Cells []CellSnapshot `json:"cells"`
}

type ViewportSnapshot struct {
	Type     string         `json:"type"`
	StartRow int            `json:"start_row"`
	StartCol int            `json:"start_col"`
	Cells    []CellSnapshot `json:"cells"`
}

const viewportSpan = 10

// HandleWebSocket upgrades the connection, sends an initial full snapshot,
// then pushes a viewport snapshot every time the hub reports a change.
// It never reads application commands from the client; the only inbound
// messages it honors are "snapshot" (resend the full grid) and connection
// close.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("liveserver: upgrade error:", err)
		return
	}

	s.mu.Lock()
	s.clients[conn] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		s.mu.Unlock()
		conn.Close()
	}()

	s.sendSnapshot(conn)

	changes, unsubscribe := s.hub.Subscribe()
	defer unsubscribe()

	requests := make(chan struct{}, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if string(msg) == "snapshot" {
				select {
				case requests <- struct{}{}:
				default:
				}
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case <-requests:
			s.sendSnapshot(conn)
		case <-changes:
			s.sendViewport(conn)
		}
	}
}

func (s *Server) sendSnapshot(conn *websocket.Conn) {
	var snap GridSnapshot
	s.hub.View(func(e *spreadsheet.Engine) {
		snap = buildGridSnapshot(e)
	})
	if err := conn.WriteJSON(snap); err != nil {
		log.Printf("liveserver: initial snapshot write failed: %v", err)
	}
}

func (s *Server) sendViewport(conn *websocket.Conn) {
	var snap ViewportSnapshot
	s.hub.View(func(e *spreadsheet.Engine) {
		snap = buildViewportSnapshot(e)
	})
	if err := conn.WriteJSON(snap); err != nil {
		log.Printf("liveserver: viewport write failed: %v", err)
	}
}

// Broadcast pushes the current viewport to every connected client; callers
// that want push-on-mutation semantics without per-connection goroutines
// (e.g. a periodic heartbeat) can call this directly.
func (s *Server) Broadcast() {
	var snap ViewportSnapshot
	s.hub.View(func(e *spreadsheet.Engine) {
		snap = buildViewportSnapshot(e)
	})
	payload, err := json.Marshal(snap)
	if err != nil {
		log.Printf("liveserver: marshal failed: %v", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for client := range s.clients {
		if err := client.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Printf("liveserver: broadcast write failed: %v", err)
			_ = client.Close()
			delete(s.clients, client)
		}
	}
}

func buildGridSnapshot(e *spreadsheet.Engine) GridSnapshot {
	rows, cols := e.Grid.Rows(), e.Grid.Cols()
	cells := make([]CellSnapshot, 0, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			cell := e.Grid.CellAt(r, c)
			cells = append(cells, snapshotOf(r, c, cell))
		}
	}
	return GridSnapshot{Type: "grid", Rows: rows, Cols: cols, Cells: cells}
}

func buildViewportSnapshot(e *spreadsheet.Engine) ViewportSnapshot {
	rows, cols := e.Grid.Rows(), e.Grid.Cols()
	cells := make([]CellSnapshot, 0, viewportSpan*viewportSpan)
	for r := e.StartRow; r < e.StartRow+viewportSpan && r < rows; r++ {
		for c := e.StartCol; c < e.StartCol+viewportSpan && c < cols; c++ {
			cell := e.Grid.CellAt(r, c)
			cells = append(cells, snapshotOf(r, c, cell))
		}
	}
	return ViewportSnapshot{Type: "viewport", StartRow: e.StartRow, StartCol: e.StartCol, Cells: cells}
}

func snapshotOf(row, col int, cell *spreadsheet.Cell) CellSnapshot {
	return CellSnapshot{
		Label:  spreadsheet.FormatLabel(row, col),
		Value:  cell.Value,
		Status: cell.Status.String(),
	}
}

// Start serves the WebSocket endpoint at /ws on addr, blocking until the
// listener fails. One mux, one ListenAndServe call — this server has no
// bundled UI to serve, just the /ws upgrade handler.
func (s *Server) Start(addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.HandleWebSocket)
	log.Printf("liveserver: viewport feed listening at ws://%s/ws", addr)
	return http.ListenAndServe(addr, mux)
}
