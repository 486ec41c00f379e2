package plasm

import (
	"fmt"
	"strings"

	"github.com/calyptra/synapse/pkg/cell"
)

// TopologicalOrder returns the cells sorted so every producer precedes its
// consumers. Cells with equal rank keep their insertion order. Connections
// forming a cycle fail with ErrCyclic naming the cells left unordered.
func (p *Plasm) TopologicalOrder() ([]*cell.Cell, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	indegree := make(map[string]int, p.cells.Len())
	succ := make(map[string][]string)
	for pair := p.cells.Oldest(); pair != nil; pair = pair.Next() {
		indegree[pair.Key] = 0
	}
	seen := make(map[string]bool)
	for _, conn := range p.conns {
		// Parallel edges between the same pair count once.
		pk := conn.From + ">" + conn.To
		if seen[pk] {
			continue
		}
		seen[pk] = true
		succ[conn.From] = append(succ[conn.From], conn.To)
		indegree[conn.To]++
	}

	// Queue in insertion order; Kahn's algorithm then keeps that order as
	// the tie break among ready cells.
	var queue []string
	for pair := p.cells.Oldest(); pair != nil; pair = pair.Next() {
		if indegree[pair.Key] == 0 {
			queue = append(queue, pair.Key)
		}
	}

	ordered := make([]*cell.Cell, 0, p.cells.Len())
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		c, _ := p.cells.Get(name)
		ordered = append(ordered, c)
		for _, next := range succ[name] {
			indegree[next]--
			if indegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	if len(ordered) != p.cells.Len() {
		var stuck []string
		for pair := p.cells.Oldest(); pair != nil; pair = pair.Next() {
			if indegree[pair.Key] > 0 {
				stuck = append(stuck, pair.Key)
			}
		}
		return nil, fmt.Errorf("%w: involving %s", ErrCyclic, strings.Join(stuck, ", "))
	}
	return ordered, nil
}
