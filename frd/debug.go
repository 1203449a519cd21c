package frd

import (
	"fmt"

	"ccxpost/utils/debug"
)

// previewRecords is how many data lines of every block make it into the dump.
const previewRecords = 3

type treeWriter struct {
	*debug.TreeWriter
}

// String returns a readable tree of the parsed result file. Only the first few
// data lines of every block are quoted to keep the output compact.
// It exists solely for manual inspection during debugging.
func (m *Model) String() string {
	if m == nil {
		return "<nil Model>"
	}
	tw := treeWriter{debug.NewTreeWriter()}
	tw.Line(0, "ResultFile %q blocks=%d", m.Path, len(m.Blocks))
	for i, b := range m.Blocks {
		if b.IsResult() {
			tw.result(1, b, i)
			continue
		}
		tw.opaque(1, b, i)
	}
	return tw.String()
}

func (tw treeWriter) opaque(depth int, b *Block, index int) {
	tw.Line(depth, "Opaque[%d] lines=%d", index, len(b.Lines))
	if len(b.Lines) > 0 {
		tw.Raw(depth+1, "First", b.Lines[0])
	}
	if len(b.Lines) > 1 {
		tw.Raw(depth+1, "Last", b.Lines[len(b.Lines)-1])
	}
}

func (tw treeWriter) result(depth int, b *Block, index int) {
	tw.Line(depth, "Result[%d] name=%q displacement=%t", index, b.Name, isDisplacementName(b.Name))
	tw.Raw(depth+1, "Marker", b.Marker)
	for i, h := range b.Header {
		tw.Raw(depth+1, fmt.Sprintf("Header[%d]", i), h)
	}
	sig := b.Signature()
	tw.Line(depth+1, "Signature nodeWidth=%d valueWidth=%d precision=%d components=%d eol=%q",
		sig.NodeWidth, sig.ValueWidth, sig.Precision, sig.Components, sig.EOL)
	tw.records(depth+1, b.Records(), sig)
	if len(b.Terminator) > 0 {
		tw.Raw(depth+1, "Terminator", b.Terminator)
	}
}

func (tw treeWriter) records(depth int, records []*RecordLine, sig Signature) {
	tw.Line(depth, "Records: %d", len(records))
	if len(records) == 0 {
		return
	}
	lo, hi := records[0].Node, records[0].Node
	for _, r := range records[1:] {
		if r.Node < lo {
			lo = r.Node
		}
		if r.Node > hi {
			hi = r.Node
		}
	}
	tw.Line(depth+1, "Nodes %d..%d", lo, hi)
	for i, r := range records {
		if i == previewRecords {
			tw.Line(depth+1, "... %d more", len(records)-previewRecords)
			break
		}
		if r.Modified() {
			tw.Raw(depth+1, fmt.Sprintf("Record[%d] modified", i), sig.Format(r.Node, r.Values))
		} else {
			tw.Raw(depth+1, fmt.Sprintf("Record[%d]", i), r.raw)
		}
		if len(r.extra) > 0 {
			tw.Line(depth+2, "Continuation lines: %d", len(r.extra))
		}
	}
}
