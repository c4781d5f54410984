// Package format renders a parsed coverage document in the textual forms
// the command line offers: JSON, YAML, tab-separated lines and a summary
// table.
package format

import (
	"encoding"
	"fmt"
	"io"

	"github.com/dhamidi/cobertura/coverage"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(doc *coverage.Document) error
}

// Names lists the formats accepted by NewEncoder.
var Names = []string{"json", "yaml", "line", "summary"}

func NewEncoder(name string, w io.Writer) (Encoder, error) {
	switch name {
	case "json":
		return NewJSONEncoder(w), nil
	case "yaml":
		return NewYAMLEncoder(w), nil
	case "line":
		return NewLineEncoder(w), nil
	case "summary":
		return NewSummaryEncoder(w), nil
	default:
		return nil, fmt.Errorf("unknown format: %s (expected json, yaml, line, or summary)", name)
	}
}

func write(w io.Writer, m encoding.TextMarshaler) error {
	text, err := m.MarshalText()
	if err != nil {
		return err
	}
	_, err = w.Write(text)
	return err
}
