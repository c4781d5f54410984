package parser

import (
	"bufio"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dhamidi/cobertura/coverage"
)

// Decoder reads events from an XML document using encoding/xml. It is an
// EventSource for Parser.ParseEvents.
type Decoder struct {
	src     *tailReader
	xml     *xml.Decoder
	skipEnd bool
	line    int
	column  int
}

func NewDecoder(r io.Reader) *Decoder {
	src := &tailReader{r: bufio.NewReader(r)}
	return &Decoder{
		src:  src,
		xml:  xml.NewDecoder(src),
		line: 1,
	}
}

// Next returns the next event that is not ignored by Classify.
func (d *Decoder) Next() (Event, error) {
	for {
		tok, err := d.xml.Token()
		if err != nil {
			return Event{}, tokenError(err)
		}
		d.line, d.column = d.xml.InputPos()

		switch tok.(type) {
		case xml.EndElement:
			if d.skipEnd {
				d.skipEnd = false
				continue
			}
		case xml.StartElement:
			d.skipEnd = d.src.selfClosed()
		}

		if ev, ok := Classify(tok, d.skipEnd); ok {
			return ev, nil
		}
	}
}

// Pos returns the line and column just past the last returned event.
func (d *Decoder) Pos() (line, column int) {
	return d.line, d.column
}

func tokenError(err error) error {
	if errors.Is(err, io.EOF) {
		return io.EOF
	}
	var syntax *xml.SyntaxError
	if errors.As(err, &syntax) && syntax.Msg == "unexpected EOF" {
		return ErrUnexpectedEOF
	}
	return fmt.Errorf("tokenize: %w", err)
}

// tailReader remembers the last two bytes handed to encoding/xml. The
// decoder reads byte by byte from an io.ByteReader and returns a start
// element right after consuming its '>', so a trailing "/>" identifies a
// self-closing tag.
type tailReader struct {
	r    *bufio.Reader
	prev byte
	last byte
}

func (t *tailReader) ReadByte() (byte, error) {
	b, err := t.r.ReadByte()
	if err == nil {
		t.prev, t.last = t.last, b
	}
	return b, err
}

func (t *tailReader) Read(p []byte) (int, error) {
	for i := range p {
		b, err := t.ReadByte()
		if err != nil {
			if i > 0 {
				return i, nil
			}
			return 0, err
		}
		p[i] = b
	}
	return len(p), nil
}

func (t *tailReader) selfClosed() bool {
	return t.prev == '/' && t.last == '>'
}

// Parse reads a whole Cobertura document from r.
func Parse(r io.Reader) (*coverage.Document, error) {
	return New().ParseEvents(NewDecoder(r))
}

func ParseFile(path string) (*coverage.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open coverage report: %w", err)
	}
	defer f.Close()
	return Parse(f)
}
