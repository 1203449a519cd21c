// Package frd holds a lossless in-memory model of solver result files. The
// file is a sequence of blocks: structured result blocks carrying per-node
// records, and everything else (geometry, parameter and trailer sections)
// kept as opaque verbatim text. A model that was not mutated writes back
// byte-identical to its source.
package frd

import (
	"strings"
)

// RecordLine is one node data row of a result block. Untouched lines keep
// their original text and are re-emitted exactly, modified and new ones are
// formatted with the block signature on write. Values must not be mutated
// directly, use Block.Replace.
type RecordLine struct {
	Node   int
	Values []float64

	raw      string   // original text including line ending, empty for new lines
	extra    []string // continuation lines kept verbatim
	modified bool
}

// NewRecordLine creates a line to be inserted into a block.
func NewRecordLine(node int, values []float64) *RecordLine {
	return &RecordLine{Node: node, Values: values, modified: true}
}

// Modified reports whether the line needs formatting on write.
func (r *RecordLine) Modified() bool {
	return r.modified
}

// Block is one region of the result file: either an opaque run of verbatim
// lines, or a structured result block opened by a block marker line.
type Block struct {
	// Lines holds opaque content, verbatim. Empty for result blocks.
	Lines []string

	// result block content, header and terminator lines verbatim
	Marker     string
	Header     []string
	Name       string
	Terminator string

	records []*RecordLine
	index   map[int]int
	sig     Signature
	hasSig  bool
}

// IsResult reports whether the block is a structured result block.
func (b *Block) IsResult() bool {
	return len(b.Marker) > 0
}

// Records returns the ordered data lines of a result block.
func (b *Block) Records() []*RecordLine {
	return b.records
}

// Lookup returns the position of the record for the given node.
func (b *Block) Lookup(node int) (int, bool) {
	i, ok := b.index[node]
	return i, ok
}

// Replace sets new values on the existing record for the given node keeping
// its position, and reports whether the node was present.
func (b *Block) Replace(node int, values []float64) bool {
	i, ok := b.index[node]
	if !ok {
		return false
	}
	b.records[i].Values = values
	b.records[i].modified = true
	return true
}

// SetRecords installs a new ordered record list, usually a spliced version
// of the old one.
func (b *Block) SetRecords(records []*RecordLine) {
	b.records = records
	b.reindex()
}

func (b *Block) reindex() {
	b.index = make(map[int]int, len(b.records))
	for i, r := range b.records {
		if _, taken := b.index[r.Node]; !taken {
			b.index[r.Node] = i
		}
	}
}

func (b *Block) append(r *RecordLine) {
	if b.index == nil {
		b.index = make(map[int]int)
	}
	if _, taken := b.index[r.Node]; !taken {
		b.index[r.Node] = len(b.records)
	}
	b.records = append(b.records, r)
}

// Signature returns the record line layout of the block. Blocks parsed
// without a single record line report the default long form layout.
func (b *Block) Signature() Signature {
	if b.hasSig {
		return b.sig
	}
	sig := DefaultSignature()
	if eol := lineEnding(b.Marker); len(eol) > 0 {
		sig.EOL = eol
	}
	return sig
}

// Model is the parsed result file.
type Model struct {
	Path   string
	Blocks []*Block
}

// DisplacementBlocks returns all result blocks holding node displacements,
// in file order.
func (m *Model) DisplacementBlocks() []*Block {
	var out []*Block
	for _, b := range m.Blocks {
		if b.IsResult() && isDisplacementName(b.Name) {
			out = append(out, b)
		}
	}
	return out
}

// displacement result names written by supported solver versions
func isDisplacementName(name string) bool {
	switch strings.ToUpper(name) {
	case "DISP", "U":
		return true
	}
	return false
}

func lineEnding(line string) string {
	if strings.HasSuffix(line, "\r\n") {
		return "\r\n"
	}
	if strings.HasSuffix(line, "\n") {
		return "\n"
	}
	return ""
}
