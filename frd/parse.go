package frd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"ccxpost/common"
)

// line keys of structured result blocks
const (
	recordKey = " -1"
	contKey   = " -2"
	endKey    = " -3"
	nameKey   = " -4"
	attrKey   = " -5"
)

// blockMarker opens a result block. Solvers append a format letter and the
// step description after it, so only the prefix is checked.
const blockMarker = "  100C"

// Parse reads a result file from disk.
func Parse(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open result file: %w", err)
	}
	defer f.Close()
	return Read(f, path)
}

type parser struct {
	name   string
	model  *Model
	opaque *Block
	result *Block
	line   int
}

// Read parses a result file. Line endings and untouched content are
// preserved exactly, a malformed record line inside a result block fails
// the whole parse.
func Read(r io.Reader, name string) (*Model, error) {
	p := &parser{name: name, model: &Model{Path: name}}
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			p.line++
			if perr := p.process(line); perr != nil {
				return nil, perr
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("unable to read result file: %w", err)
		}
	}
	p.closeResult()
	p.closeOpaque()
	return p.model, nil
}

func (p *parser) process(line string) error {
	text := strings.TrimRight(line, "\r\n")

	if p.result != nil {
		done, err := p.inResult(line, text)
		if err != nil || done {
			return err
		}
		// not block content, current block ends here
		p.closeResult()
	}

	if strings.HasPrefix(text, blockMarker) {
		p.closeOpaque()
		p.result = &Block{Marker: line}
		return nil
	}
	if p.opaque == nil {
		p.opaque = &Block{}
	}
	p.opaque.Lines = append(p.opaque.Lines, line)
	return nil
}

// inResult consumes one line of an open result block. It reports false when
// the line does not belong to the block.
func (p *parser) inResult(line, text string) (bool, error) {
	b := p.result
	var key string
	if len(text) >= len(recordKey) {
		key = text[:len(recordKey)]
	}

	switch key {
	case nameKey, attrKey:
		if len(b.records) > 0 {
			// header after data, not this block's line
			return false, nil
		}
		b.Header = append(b.Header, line)
		if key == nameKey && len(b.Name) == 0 {
			if fields := strings.Fields(text); len(fields) > 1 {
				b.Name = fields[1]
			}
		}
		return true, nil

	case recordKey:
		if !b.hasSig {
			sig, err := measureSignature(text)
			if err != nil {
				return false, p.recordError(err)
			}
			sig.EOL = lineEnding(line)
			if len(sig.EOL) == 0 {
				sig.EOL = "\n"
			}
			b.sig, b.hasSig = sig, true
		}
		rec, err := parseRecordLine(text, b.sig)
		if err != nil {
			return false, p.recordError(err)
		}
		rec.raw = line
		b.append(rec)
		return true, nil

	case contKey:
		if len(b.records) == 0 {
			return false, p.recordError(fmt.Errorf("continuation line without record"))
		}
		last := b.records[len(b.records)-1]
		last.extra = append(last.extra, line)
		return true, nil

	case endKey:
		b.Terminator = line
		p.result = nil
		p.model.Blocks = append(p.model.Blocks, b)
		return true, nil
	}
	return false, nil
}

func (p *parser) recordError(err error) error {
	return &common.FormatError{Path: p.name, Line: p.line, Reason: err.Error()}
}

func (p *parser) closeResult() {
	if p.result != nil {
		p.model.Blocks = append(p.model.Blocks, p.result)
		p.result = nil
	}
}

func (p *parser) closeOpaque() {
	if p.opaque != nil {
		p.model.Blocks = append(p.model.Blocks, p.opaque)
		p.opaque = nil
	}
}
