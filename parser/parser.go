// Package parser turns a stream of XML events into a coverage.Document,
// validating the Cobertura element layout and attribute types as it goes.
//
// The Parser itself performs no I/O. It is fed one Event at a time through
// Consume and may be suspended between any two events, so callers are free
// to schedule reading however they like. Decoder adapts encoding/xml to the
// event stream for the common case of parsing a file or reader.
package parser

import (
	"errors"
	"io"

	"github.com/dhamidi/cobertura/coverage"
	"github.com/tliron/commonlog"
)

// logger is looked up on use: the backend is installed by the binary after
// package initialization.
func logger() commonlog.Logger {
	return commonlog.GetLogger("cobertura.parser")
}

// EventSource produces classified events. Next returns io.EOF when the input
// is exhausted.
type EventSource interface {
	Next() (Event, error)
}

// Parser assembles one document at a time. The zero value is ready to use.
// A Parser must not be used from several goroutines at once; parse in
// parallel with separate Parsers.
type Parser struct {
	m *machine
}

func New() *Parser {
	return &Parser{}
}

// Reset drops any partially parsed document.
func (p *Parser) Reset() {
	p.m = nil
}

// Started reports whether a document is in progress.
func (p *Parser) Started() bool {
	return p.m != nil
}

// Consume feeds a single event. It returns done == false and a nil error
// while more input is needed, and the finished document with done == true
// once </coverage> has been consumed. Any error discards the partial
// document; the Parser is then back at the start and expects a new
// <coverage> element.
func (p *Parser) Consume(ev Event) (doc *coverage.Document, done bool, err error) {
	if p.m == nil {
		m, err := begin(ev)
		if err != nil {
			return nil, false, err
		}
		logger().Debugf("coverage document started (version %q)", m.doc.Version)
		p.m = m
		return nil, false, nil
	}

	if err := p.m.consume(ev); err != nil {
		logger().Debugf("discarding coverage document in %s: %v", p.m.state, err)
		p.m = nil
		return nil, false, err
	}
	if !p.m.done() {
		return nil, false, nil
	}

	result := p.m.doc
	p.m = nil
	logger().Debugf("coverage document finished with %d packages", len(result.Packages))
	return &result, true, nil
}

// ParseEvents drives src until a whole document has been consumed. The
// source running dry first yields ErrUnexpectedEOF. When src reports
// positions, errors are wrapped in a *PositionError.
func (p *Parser) ParseEvents(src EventSource) (*coverage.Document, error) {
	for {
		ev, err := src.Next()
		if err != nil {
			p.Reset()
			if errors.Is(err, io.EOF) {
				err = ErrUnexpectedEOF
			}
			return nil, withPosition(src, err)
		}
		doc, done, err := p.Consume(ev)
		if err != nil {
			return nil, withPosition(src, err)
		}
		if done {
			return doc, nil
		}
	}
}

type positioner interface {
	Pos() (line, column int)
}

func withPosition(src EventSource, err error) error {
	ps, ok := src.(positioner)
	if !ok {
		return err
	}
	var pe *PositionError
	if errors.As(err, &pe) {
		return err
	}
	line, col := ps.Pos()
	return &PositionError{Line: line, Column: col, Err: err}
}
