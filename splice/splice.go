// Package splice carries displacement results over from the solver's
// printed table onto the generated offset nodes of a result model. Blocks
// are mutated in place, untouched lines keep their original bytes.
package splice

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"ccxpost/common"
	"ccxpost/dat"
	"ccxpost/expansion"
	"ccxpost/frd"
)

// Strategy derives the values written for one generated node from the
// displacement record of its original.
type Strategy interface {
	Resolve(original int, role expansion.Role, src dat.Record) []float64
}

// DirectCopy assigns every generated node the unchanged displacement of its
// original. Top and bottom surface nodes of a shell expansion move with the
// mid-surface, which is exactly what the solver assumes when it expands.
type DirectCopy struct{}

func (DirectCopy) Resolve(_ int, _ expansion.Role, src dat.Record) []float64 {
	return src.Values
}

// Splicer applies one expansion map and one displacement table to result
// models.
type Splicer struct {
	exp      *expansion.Map
	table    dat.Table
	strategy Strategy
	log      *zap.Logger

	// Step selects a single displacement block to work on, counted from one
	// in file order. Zero splices every block.
	Step int

	// Source names the displacement table in resolution errors.
	Source string
}

// New creates a splicer over the given inputs.
func New(m *expansion.Map, t dat.Table, s Strategy, log *zap.Logger) *Splicer {
	return &Splicer{exp: m, table: t, strategy: s, log: log}
}

// Written is one record the splicer wrote into a block.
type Written struct {
	Node   int
	Values []float64
}

// Report sums up a splice run.
type Report struct {
	Blocks   int
	Inserted int
	Replaced int
	Written  []Written
}

// Apply splices all selected displacement blocks of the model. Every
// original node of the expansion map must resolve against the table before
// anything is touched, resolution misses abort with the model unchanged.
func (s *Splicer) Apply(model *frd.Model) (*Report, error) {
	blocks := model.DisplacementBlocks()
	if len(blocks) == 0 {
		s.log.Warn("Result file has no displacement blocks, output will be unchanged",
			zap.String("file", model.Path))
		return &Report{}, nil
	}
	if s.Step > 0 {
		if s.Step > len(blocks) {
			return nil, fmt.Errorf("result file has %d displacement blocks, cannot select block %d", len(blocks), s.Step)
		}
		blocks = blocks[s.Step-1 : s.Step]
	}

	originals := s.exp.Originals()
	resolved := make(map[int]dat.Record, len(originals))
	for _, o := range originals {
		rec, ok := s.table.Lookup(o)
		if !ok {
			return nil, &common.MissingDataError{Path: s.Source, Node: o}
		}
		resolved[o] = rec
	}

	rpt := &Report{Blocks: len(blocks)}
	for i, b := range blocks {
		ins, rep := s.spliceBlock(b, originals, resolved, rpt)
		s.log.Debug("Displacement block spliced",
			zap.Int("block", i+1), zap.String("name", b.Name),
			zap.Int("inserted", ins), zap.Int("replaced", rep))
		rpt.Inserted += ins
		rpt.Replaced += rep
	}
	return rpt, nil
}

// spliceBlock rewrites one displacement block: values of generated nodes
// already present are replaced in place, missing ones are inserted right
// after the line of their original, and originals absent from the block are
// inserted together with their copies keeping ascending node order. A block
// without any records is filled from scratch.
func (s *Splicer) spliceBlock(b *frd.Block, originals []int, resolved map[int]dat.Record, rpt *Report) (inserted, replaced int) {
	if len(b.Records()) == 0 {
		return s.fillBlock(b, originals, resolved, rpt), 0
	}

	comps := b.Signature().Components
	copies := s.exp.Copies()

	values := func(o int, c expansion.Copy) []float64 {
		return trim(s.strategy.Resolve(o, c.Role, resolved[o]), comps)
	}

	for _, o := range originals {
		for _, c := range copies[o] {
			if _, ok := b.Lookup(c.Node); !ok {
				continue
			}
			v := values(o, c)
			b.Replace(c.Node, v)
			rpt.Written = append(rpt.Written, Written{Node: c.Node, Values: v})
			replaced++
		}
	}

	var merged []*frd.RecordLine
	emitted := make(map[int]bool, len(originals))

	addCopies := func(o int) {
		if emitted[o] {
			return
		}
		emitted[o] = true
		for _, c := range copies[o] {
			if _, ok := b.Lookup(c.Node); ok {
				continue
			}
			v := values(o, c)
			merged = append(merged, frd.NewRecordLine(c.Node, v))
			rpt.Written = append(rpt.Written, Written{Node: c.Node, Values: v})
			inserted++
		}
	}

	// addGroup restores an original the solver never printed, its own line
	// first with the copies right behind
	addGroup := func(o int) {
		ov := trim(resolved[o].Values, comps)
		merged = append(merged, frd.NewRecordLine(o, ov))
		rpt.Written = append(rpt.Written, Written{Node: o, Values: ov})
		inserted++
		addCopies(o)
	}

	// weave the groups of absent originals in ahead of the first existing
	// line with a larger node id, so ascending order holds against what the
	// solver wrote
	next := 0
	for _, r := range b.Records() {
		for next < len(originals) && originals[next] < r.Node {
			o := originals[next]
			next++
			if _, ok := b.Lookup(o); ok {
				continue
			}
			addGroup(o)
		}
		merged = append(merged, r)
		if _, isOriginal := copies[r.Node]; isOriginal {
			addCopies(r.Node)
		}
	}
	for ; next < len(originals); next++ {
		o := originals[next]
		if _, ok := b.Lookup(o); ok {
			continue
		}
		addGroup(o)
	}

	b.SetRecords(merged)
	return inserted, replaced
}

// fillBlock populates a block the solver left empty, every original and
// generated record sorted by node id the way the solver prints its own
// output.
func (s *Splicer) fillBlock(b *frd.Block, originals []int, resolved map[int]dat.Record, rpt *Report) int {
	comps := b.Signature().Components
	copies := s.exp.Copies()

	vals := make(map[int][]float64, 2*len(originals))
	for _, o := range originals {
		if _, ok := vals[o]; !ok {
			vals[o] = trim(resolved[o].Values, comps)
		}
		for _, c := range copies[o] {
			if _, ok := vals[c.Node]; !ok {
				vals[c.Node] = trim(s.strategy.Resolve(o, c.Role, resolved[o]), comps)
			}
		}
	}

	nodes := make([]int, 0, len(vals))
	for n := range vals {
		nodes = append(nodes, n)
	}
	sort.Ints(nodes)

	recs := make([]*frd.RecordLine, 0, len(nodes))
	for _, n := range nodes {
		recs = append(recs, frd.NewRecordLine(n, vals[n]))
		rpt.Written = append(rpt.Written, Written{Node: n, Values: vals[n]})
	}
	b.SetRecords(recs)
	return len(recs)
}

func trim(v []float64, n int) []float64 {
	if n > 0 && len(v) > n {
		return v[:n]
	}
	return v
}

// Nodes returns the distinct node ids written during the run, ascending.
func (r *Report) Nodes() []int {
	seen := make(map[int]bool, len(r.Written))
	var nodes []int
	for _, w := range r.Written {
		if !seen[w.Node] {
			seen[w.Node] = true
			nodes = append(nodes, w.Node)
		}
	}
	sort.Ints(nodes)
	return nodes
}
