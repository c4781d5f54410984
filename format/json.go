package format

import (
	"io"

	"github.com/dhamidi/cobertura/coverage"
	"github.com/goccy/go-json"
)

type JSONEncoder struct {
	w   io.Writer
	doc *coverage.Document
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(doc *coverage.Document) error {
	e.doc = doc
	return write(e.w, e)
}

// MarshalText renders the document with the attribute names of the XML
// report as keys, followed by a newline.
func (e *JSONEncoder) MarshalText() ([]byte, error) {
	data, err := json.MarshalIndent(e.doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
