package frd

import (
	"fmt"
	"strconv"
	"strings"
)

// Signature captures the fixed width layout of record lines in one result
// block so that inserted lines come out indistinguishable from solver
// output. Solvers write either a long form with a ten digit node field or a
// short one with five digits, the value fields are scientific notation with
// one digit before the decimal point.
type Signature struct {
	NodeWidth  int    // characters of the node id field
	ValueWidth int    // characters of one value field, leading sign included
	Precision  int    // digits after the decimal point
	Components int    // value fields per full line
	EOL        string // line ending used by the block
}

// DefaultSignature is the long form layout used when a block has no record
// lines to measure.
func DefaultSignature() Signature {
	return Signature{NodeWidth: 10, ValueWidth: 12, Precision: 5, Components: 3, EOL: "\n"}
}

// dataStart returns the offset of the first value field.
func (s Signature) dataStart() int {
	return len(recordKey) + s.NodeWidth
}

// Format renders a record line in the block layout, without line ending.
func (s Signature) Format(node int, values []float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s%*d", recordKey, s.NodeWidth, node)
	for _, v := range values {
		fmt.Fprintf(&b, "%*.*E", s.ValueWidth, s.Precision, v)
	}
	return b.String()
}

// measureSignature derives the layout from the first record line of a
// block. The node field ends two characters before the first decimal point,
// the value width is the distance between consecutive decimal points and
// the precision is the digit count between point and exponent marker.
func measureSignature(text string) (Signature, error) {
	dot := strings.IndexByte(text, '.')
	if dot < 0 {
		return Signature{}, fmt.Errorf("no value field")
	}
	nodeWidth := dot - 2 - len(recordKey)
	if nodeWidth < 1 {
		return Signature{}, fmt.Errorf("node field too narrow")
	}

	exp := strings.IndexAny(text[dot:], "EeDd")
	if exp < 1 {
		return Signature{}, fmt.Errorf("value field has no exponent")
	}
	precision := exp - 1

	start := dot - 2
	valueWidth := len(text) - start
	if next := strings.IndexByte(text[dot+1:], '.'); next >= 0 {
		valueWidth = next + 1
	}
	if valueWidth < precision+5 {
		return Signature{}, fmt.Errorf("value field too narrow")
	}

	components := (len(text) - start) / valueWidth
	if components < 1 {
		components = 1
	}
	return Signature{
		NodeWidth:  nodeWidth,
		ValueWidth: valueWidth,
		Precision:  precision,
		Components: components,
	}, nil
}

// parseRecordLine slices a record line by the block layout. Fixed width
// slicing is required here, negative values fill the sign column and make
// adjacent fields run together with no separating blank.
func parseRecordLine(text string, sig Signature) (*RecordLine, error) {
	start := sig.dataStart()
	if len(text) <= start {
		return nil, fmt.Errorf("line shorter than node field")
	}
	node, err := strconv.Atoi(strings.TrimSpace(text[len(recordKey):start]))
	if err != nil {
		return nil, fmt.Errorf("bad node id %q", strings.TrimSpace(text[len(recordKey):start]))
	}

	var values []float64
	for pos := start; pos < len(text); pos += sig.ValueWidth {
		end := pos + sig.ValueWidth
		if end > len(text) {
			end = len(text)
		}
		field := strings.TrimSpace(text[pos:end])
		if len(field) == 0 {
			break
		}
		v, err := strconv.ParseFloat(normalizeExponent(field), 64)
		if err != nil {
			return nil, fmt.Errorf("bad value %q", field)
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("no values after node id")
	}
	return &RecordLine{Node: node, Values: values}, nil
}

// normalizeExponent maps Fortran D exponents to the E form ParseFloat
// accepts.
func normalizeExponent(field string) string {
	if i := strings.IndexAny(field, "Dd"); i >= 0 {
		return field[:i] + "E" + field[i+1:]
	}
	return field
}
