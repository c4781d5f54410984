package parser

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnexpectedEOF is returned when the input ends before </coverage>.
var ErrUnexpectedEOF = errors.New("unexpected end of input before </coverage>")

// ExpectedStartError is returned when the current position only accepts
// one of the listed child elements.
type ExpectedStartError struct {
	Got      EventDesc
	Expected []string
}

func (e *ExpectedStartError) Error() string {
	return fmt.Sprintf("expected %s, got %s", oneOf(e.Expected, "<", ">"), e.Got)
}

// ExpectedEndError is returned when the current position only accepts
// closing one of the listed elements.
type ExpectedEndError struct {
	Got      EventDesc
	Expected []string
}

func (e *ExpectedEndError) Error() string {
	return fmt.Sprintf("expected %s, got %s", oneOf(e.Expected, "</", ">"), e.Got)
}

type ExpectedStartOrEndError struct {
	Got            EventDesc
	ExpectedStarts []string
	ExpectedEnds   []string
}

func (e *ExpectedStartOrEndError) Error() string {
	return fmt.Sprintf("expected %s or %s, got %s",
		oneOf(e.ExpectedStarts, "<", ">"), oneOf(e.ExpectedEnds, "</", ">"), e.Got)
}

// UnexpectedValueError is returned for content that is well-formed XML but
// not an acceptable value, such as source text that is not valid UTF-8.
type UnexpectedValueError struct {
	Value string
}

func (e *UnexpectedValueError) Error() string {
	return fmt.Sprintf("unexpected value %q", e.Value)
}

// FailedToParseAttributeError is returned when the attribute list itself
// cannot be read, e.g. an attribute appears twice.
type FailedToParseAttributeError struct {
	Name string
}

func (e *FailedToParseAttributeError) Error() string {
	return fmt.Sprintf("failed to parse attribute %q", e.Name)
}

type InvalidValueError struct {
	Attribute string
	Value     string
	Err       error
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid value %q for attribute %q", e.Value, e.Attribute)
}

func (e *InvalidValueError) Unwrap() error {
	return e.Err
}

type MissingAttributeError struct {
	Attribute string
}

func (e *MissingAttributeError) Error() string {
	return fmt.Sprintf("missing required attribute %q", e.Attribute)
}

// PositionError attaches the input position of the offending token.
type PositionError struct {
	Line   int
	Column int
	Err    error
}

func (e *PositionError) Error() string {
	return fmt.Sprintf("%d:%d: %v", e.Line, e.Column, e.Err)
}

func (e *PositionError) Unwrap() error {
	return e.Err
}

func oneOf(names []string, open, close string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = open + n + close
	}
	switch len(quoted) {
	case 0:
		return "nothing"
	case 1:
		return quoted[0]
	default:
		return "one of " + strings.Join(quoted, ", ")
	}
}
