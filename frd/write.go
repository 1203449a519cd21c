package frd

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// WriteTo serializes the model. Untouched lines go out with their original
// bytes, modified and inserted records are formatted with their block
// signature.
func (m *Model) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64

	emit := func(s string) error {
		c, err := bw.WriteString(s)
		n += int64(c)
		return err
	}

	for _, b := range m.Blocks {
		if !b.IsResult() {
			for _, line := range b.Lines {
				if err := emit(line); err != nil {
					return n, err
				}
			}
			continue
		}

		if err := emit(b.Marker); err != nil {
			return n, err
		}
		for _, h := range b.Header {
			if err := emit(h); err != nil {
				return n, err
			}
		}
		sig := b.Signature()
		for _, r := range b.records {
			line := r.raw
			if r.modified {
				line = sig.Format(r.Node, r.Values) + sig.EOL
			}
			if err := emit(line); err != nil {
				return n, err
			}
			for _, x := range r.extra {
				if err := emit(x); err != nil {
					return n, err
				}
			}
		}
		if len(b.Terminator) > 0 {
			if err := emit(b.Terminator); err != nil {
				return n, err
			}
		}
	}
	return n, bw.Flush()
}

// Write stores the model at the given path.
func Write(m *Model, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create result file: %w", err)
	}
	if _, err := m.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("unable to write result file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("unable to write result file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("unable to write result file: %w", err)
	}
	return nil
}
