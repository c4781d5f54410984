package format

import (
	"bytes"
	"io"

	"github.com/dhamidi/cobertura/coverage"
	"gopkg.in/yaml.v3"
)

type YAMLEncoder struct {
	w   io.Writer
	doc *coverage.Document
}

func NewYAMLEncoder(w io.Writer) *YAMLEncoder {
	return &YAMLEncoder{w: w}
}

func (e *YAMLEncoder) Encode(doc *coverage.Document) error {
	e.doc = doc
	return write(e.w, e)
}

func (e *YAMLEncoder) MarshalText() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(e.doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
