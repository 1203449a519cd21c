package common

import (
	"fmt"
	"strings"
)

// ListFmt selects the presentation of the block inventory produced by the
// inspect command.
type ListFmt int

const (
	ListFmtText ListFmt = iota
	ListFmtYaml
)

var listFmtNames = []string{"text", "yaml"}

// ListFmtNames returns a list of possible string values of ListFmt.
func ListFmtNames() []string {
	return append([]string{}, listFmtNames...)
}

func (f ListFmt) IsValid() bool {
	return f >= ListFmtText && f <= ListFmtYaml
}

func (f ListFmt) String() string {
	if !f.IsValid() {
		return fmt.Sprintf("ListFmt(%d)", int(f))
	}
	return listFmtNames[f]
}

// ParseListFmt attempts to convert a string to a ListFmt.
func ParseListFmt(name string) (ListFmt, error) {
	for i, n := range listFmtNames {
		if strings.EqualFold(name, n) {
			return ListFmt(i), nil
		}
	}
	return ListFmt(0), fmt.Errorf("%s is not a valid ListFmt, try [%s]", name, strings.Join(listFmtNames, ", "))
}

// MustParseListFmt converts a string to a ListFmt, panicking on error.
func MustParseListFmt(name string) ListFmt {
	f, err := ParseListFmt(name)
	if err != nil {
		panic(err)
	}
	return f
}

// MarshalText implements the text marshaller method.
func (f ListFmt) MarshalText() ([]byte, error) {
	if !f.IsValid() {
		return nil, fmt.Errorf("%d is not a valid ListFmt", int(f))
	}
	return []byte(f.String()), nil
}

// UnmarshalText implements the text unmarshaller method.
func (f *ListFmt) UnmarshalText(text []byte) error {
	v, err := ParseListFmt(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}
