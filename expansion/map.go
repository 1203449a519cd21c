// Package expansion reads the solver expansion map recording how every 2D
// shell element was internally converted into a 3D solid element during the
// analysis, and derives the correspondence between original and generated
// node numbers.
package expansion

import (
	"fmt"
	"os"
	"sort"

	"go.uber.org/zap"
)

// Supported expansion shape: 6-node shell triangle into 15-node solid wedge.
const (
	numShellNodes = 6
	numSolidNodes = 15
)

// Role tells which offset surface of the expanded solid a generated node
// belongs to.
type Role int

const (
	RoleTop Role = iota
	RoleBottom
)

func (r Role) String() string {
	switch r {
	case RoleTop:
		return "top"
	case RoleBottom:
		return "bottom"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// Copy is a single solver-generated node produced from an original 2D node.
type Copy struct {
	Node int
	Role Role
}

// Element is one expansion map record tying an original 2D element to the
// node sequence of the 3D element which replaced it.
type Element struct {
	ID       int
	Label    string
	Original []int
	Expanded []int
}

// Map is the parsed content of an expansion map file. The first k positions
// of every expanded node sequence are the original mid-surface nodes
// themselves, position p of the remainder derives from original position
// p mod k.
type Map struct {
	path     string
	elements []Element
	copies   map[int][]Copy
	sources  map[int]int
	skipped  int
}

// Path returns the name of the file the map was read from.
func (m *Map) Path() string {
	return m.path
}

// Elements returns per-element expansion records in file order.
func (m *Map) Elements() []Element {
	return m.elements
}

// Skipped returns the number of records dropped during parsing.
func (m *Map) Skipped() int {
	return m.skipped
}

// Copies returns generated offset nodes keyed by the original node id, each
// list ascending by node id.
func (m *Map) Copies() map[int][]Copy {
	return m.copies
}

// Sources maps every node id referenced by the expansion to the original
// node it derives its displacement from. Original nodes map to themselves.
func (m *Map) Sources() map[int]int {
	return m.sources
}

// Originals returns all original node ids that generate copies, ascending.
func (m *Map) Originals() []int {
	nodes := make([]int, 0, len(m.copies))
	for n := range m.copies {
		nodes = append(nodes, n)
	}
	sort.Ints(nodes)
	return nodes
}

func (m *Map) add(e Element, log *zap.Logger) {
	m.elements = append(m.elements, e)

	k := len(e.Original)
	for p, id := range e.Expanded {
		src := e.Original[p%k]
		if prev, seen := m.sources[id]; seen {
			if prev != src {
				// adjacent elements normally agree on shared nodes, keep the
				// first definition when they do not
				log.Debug("Expanded node claimed with different originals, keeping first",
					zap.Int("node", id), zap.Int("kept", prev), zap.Int("ignored", src), zap.Int("element", e.ID))
			}
			continue
		}
		m.sources[id] = src
		if p < k {
			if id != src {
				log.Debug("Mid-surface node does not repeat its original",
					zap.Int("node", id), zap.Int("original", src), zap.Int("element", e.ID))
			}
			continue
		}
		role := RoleTop
		if p >= 2*k {
			role = RoleBottom
		}
		m.copies[src] = append(m.copies[src], Copy{Node: id, Role: role})
	}
}

// Parse reads the expansion map from the file at the given path.
func Parse(path string, log *zap.Logger) (*Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open expansion map: %w", err)
	}
	defer f.Close()
	return Read(f, path, log)
}
