package spreadsheet

// recompute implements C6: after writer's value/expression/status have
// just been installed, walk the reverse graph (writer.dependents,
// transitively) to find every cell that must be re-evaluated, then
// re-evaluate them in post-order so each cell is recomputed only after
// everything it reads has already settled.
func (e *Engine) recompute(writer *Cell) {
	visited := make([]bool, e.Grid.size())
	order := make([]*Cell, 0, 16)
	order = postOrder(writer, visited, e.Grid, order)

	// order[len-1] is writer itself; it was already updated by the caller.
	for i := len(order) - 2; i >= 0; i-- {
		x := order[i]
		v, outcome := e.evaluate(x.Expression, x, RecomputeOnly)
		if outcome.IsErr() {
			x.Status = StatusErr
			continue
		}
		x.Value = v
		x.Status = StatusOk
	}
}

// postOrder performs a recursive depth-first post-order walk of the
// reverse graph starting at cur, appending to dst in the order cells are
// finished (so dst's last element is cur itself).
func postOrder(cur *Cell, visited []bool, g *Grid, dst []*Cell) []*Cell {
	idx := g.bitmapIndex(cur)
	if visited[idx] {
		return dst
	}
	visited[idx] = true
	for _, dependent := range cur.dependents {
		dst = postOrder(dependent, visited, g, dst)
	}
	return append(dst, cur)
}
