package debug

import (
	"strings"
	"testing"
)

func TestNewTreeWriter(t *testing.T) {
	tw := NewTreeWriter()
	if tw == nil {
		t.Fatal("NewTreeWriter() returned nil")
	}
	if tw.w == nil {
		t.Error("TreeWriter builder is nil")
	}
}

func TestTreeWriter_String(t *testing.T) {
	tw := NewTreeWriter()
	if tw.String() != "" {
		t.Error("Expected empty string from new TreeWriter")
	}

	tw.w.WriteString("test content")
	if tw.String() != "test content" {
		t.Errorf("String() = %q, want %q", tw.String(), "test content")
	}
}

func TestTreeWriter_Line(t *testing.T) {
	tests := []struct {
		name   string
		depth  int
		format string
		args   []any
		want   string
	}{
		{
			name:   "no depth",
			depth:  0,
			format: "test",
			args:   nil,
			want:   "test\n",
		},
		{
			name:   "depth 1",
			depth:  1,
			format: "indented",
			args:   nil,
			want:   "  indented\n",
		},
		{
			name:   "depth 2",
			depth:  2,
			format: "double indent",
			args:   nil,
			want:   "    double indent\n",
		},
		{
			name:   "with formatting",
			depth:  1,
			format: "value: %d",
			args:   []any{42},
			want:   "  value: 42\n",
		},
		{
			name:   "multiple args",
			depth:  0,
			format: "%s = %d",
			args:   []any{"count", 5},
			want:   "count = 5\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := NewTreeWriter()
			tw.Line(tt.depth, tt.format, tt.args...)
			got := tw.String()
			if got != tt.want {
				t.Errorf("Line() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTreeWriter_Raw(t *testing.T) {
	tests := []struct {
		name  string
		depth int
		label string
		value string
		want  string
	}{
		{
			name:  "no depth empty value",
			depth: 0,
			label: "field",
			value: "",
			want:  "field: \n",
		},
		{
			name:  "no depth with value",
			depth: 0,
			label: "line",
			value: "hello world",
			want:  "line: \"hello world\"\n",
		},
		{
			name:  "depth 1 with value",
			depth: 1,
			label: "marker",
			value: "test",
			want:  "  marker: \"test\"\n",
		},
		{
			name:  "depth 2 with value",
			depth: 2,
			label: "nested",
			value: "data",
			want:  "    nested: \"data\"\n",
		},
		{
			name:  "line ending stays visible",
			depth: 0,
			label: "record",
			value: " -1         3 1.00000E-01\r\n",
			want:  "record: \" -1         3 1.00000E-01\\r\\n\"\n",
		},
		{
			name:  "trailing blanks stay visible",
			depth: 0,
			label: "header",
			value: " -4  DISP  ",
			want:  "header: \" -4  DISP  \"\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := NewTreeWriter()
			tw.Raw(tt.depth, tt.label, tt.value)
			got := tw.String()
			if got != tt.want {
				t.Errorf("Raw() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEncodeRaw(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "simple text",
			input: "hello",
			want:  `"hello"`,
		},
		{
			name:  "with spaces",
			input: "hello world",
			want:  `"hello world"`,
		},
		{
			name:  "with quotes",
			input: `say "hi"`,
			want:  `"say \"hi\""`,
		},
		{
			name:  "with newline",
			input: "line1\nline2",
			want:  `"line1\nline2"`,
		},
		{
			name:  "with tab",
			input: "col1\tcol2",
			want:  `"col1\tcol2"`,
		},
		{
			name:  "with backslash",
			input: `path\to\file`,
			want:  `"path\\to\\file"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := encodeRaw(tt.input)
			if got != tt.want {
				t.Errorf("encodeRaw() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEncodeRaw_LongLinesTruncated(t *testing.T) {
	long := strings.Repeat("x", rawLimit+50)

	got := encodeRaw(long)
	if !strings.HasPrefix(got, `"`+strings.Repeat("x", rawLimit)+`"`) {
		t.Errorf("encodeRaw() does not start with the quoted prefix: %q", got)
	}
	if !strings.HasSuffix(got, "... (146 bytes)") {
		t.Errorf("encodeRaw() missing byte count suffix: %q", got)
	}

	// exactly at the limit nothing is cut
	exact := strings.Repeat("y", rawLimit)
	if got := encodeRaw(exact); got != `"`+exact+`"` {
		t.Errorf("encodeRaw() truncated a line of exactly %d bytes: %q", rawLimit, got)
	}
}

func TestTreeWriter_MultipleOperations(t *testing.T) {
	tw := NewTreeWriter()
	tw.Line(0, "Root")
	tw.Line(1, "Child 1")
	tw.Raw(2, "field", "value")
	tw.Line(1, "Child 2")
	tw.Raw(1, "data", "test")

	got := tw.String()
	want := "Root\n  Child 1\n    field: \"value\"\n  Child 2\n  data: \"test\"\n"

	if got != want {
		t.Errorf("Multiple operations:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestTreeWriter_ComplexTree(t *testing.T) {
	tw := NewTreeWriter()
	tw.Line(0, "result file")
	tw.Raw(1, "first", "    1C")
	tw.Line(1, "blocks")
	tw.Line(2, "block id=%d", 1)
	tw.Raw(3, "marker", "  100CL  101")
	tw.Raw(3, "terminator", " -3")
	tw.Line(2, "block id=%d", 2)
	tw.Raw(3, "marker", "  100CL  102")

	result := tw.String()
	if !strings.Contains(result, "result file\n") {
		t.Error("Missing root line")
	}
	if !strings.Contains(result, "  first: \"    1C\"\n") {
		t.Error("Missing quoted first line")
	}
	if !strings.Contains(result, "    block id=1\n") {
		t.Error("Missing block 1 line")
	}
	if !strings.Contains(result, "      marker: \"  100CL  101\"\n") {
		t.Error("Missing marker line")
	}
}
