// Package diag implements C13: a read-only dependency-graph diagnostic for
// the "deps" dispatcher command. It snapshots the live handle-based
// dependency index (spreadsheet's *Cell forward edges) into an
// github.com/katalvlaran/lvlath/core.Graph — one vertex per occupied cell,
// one edge per forward dependency — and runs dfs.TopologicalSort /
// dfs.DetectCycles over that snapshot to print a human-readable
// recomputation order or cycle report.
//
// This is strictly off the hot path: the mandated cycle check and
// recomputation keep their own handle-arithmetic/bitmap design (see
// DESIGN.md for why lvlath doesn't back the live index itself). diag only
// ever reads the graph that spreadsheet/depgraph.go already maintains,
// after the fact.
package diag

import (
	"fmt"
	"strings"

	"github.com/katalvlaran/lvlath/core"
	"github.com/katalvlaran/lvlath/dfs"

	"gridsheet/spreadsheet"
)

// Reporter is a spreadsheet.DiagSink that renders the live dependency graph
// via lvlath.
type Reporter struct{}

// New returns a Reporter ready to wire onto Engine.Diag.
func New() *Reporter { return &Reporter{} }

// Report implements spreadsheet.DiagSink.
func (Reporter) Report(e *spreadsheet.Engine) string {
	g, err := snapshot(e)
	if err != nil {
		return fmt.Sprintf("deps: %v", err)
	}

	if hasCycle, cycles, err := dfs.DetectCycles(g); err != nil {
		return fmt.Sprintf("deps: cycle check failed: %v", err)
	} else if hasCycle {
		var b strings.Builder
		fmt.Fprintln(&b, "cycle detected in dependency graph (should be unreachable under I1):")
		for _, c := range cycles {
			fmt.Fprintf(&b, "  %s\n", strings.Join(c, " -> "))
		}
		return b.String()
	}

	order, err := dfs.TopologicalSort(g)
	if err != nil {
		return fmt.Sprintf("deps: topological sort failed: %v", err)
	}
	if len(order) == 0 {
		return "deps: no cells have any formula yet"
	}
	return "recomputation order: " + strings.Join(order, " -> ")
}

// snapshot builds an lvlath core.Graph mirroring the live dependency index:
// one vertex per cell that has a non-empty expression or at least one
// forward or reverse edge (so cells that are only read still appear as edge
// endpoints), one directed edge per forward
// dependency X->Y meaning "Y reads X" — the same direction // defines for Cell.dependencies.
func snapshot(e *spreadsheet.Engine) (*core.Graph, error) {
	g := core.NewGraph(core.WithDirected(true))

	rows, cols := e.Grid.Rows(), e.Grid.Cols()
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			cell := e.Grid.CellAt(r, c)
			if cell.Expression == "" && len(cell.ForwardEdges()) == 0 && len(cell.Dependents()) == 0 {
				continue
			}
			id := spreadsheet.FormatLabel(r, c)
			if err := g.AddVertex(id); err != nil {
				return nil, fmt.Errorf("add vertex %s: %w", id, err)
			}
		}
	}

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			writer := e.Grid.CellAt(r, c)
			deps := writer.ForwardEdges()
			if len(deps) == 0 {
				continue
			}
			writerID := spreadsheet.FormatLabel(r, c)
			for _, dep := range deps {
				depID := spreadsheet.FormatLabel(dep.Row(), dep.Col())
				if _, err := g.AddEdge(depID, writerID, 1); err != nil {
					return nil, fmt.Errorf("add edge %s->%s: %w", depID, writerID, err)
				}
			}
		}
	}

	return g, nil
}
