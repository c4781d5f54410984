package parser

import (
	"bytes"
	"encoding/xml"
)

type EventKind int

const (
	StartEvent EventKind = iota + 1
	EndEvent
	EmptyEvent
	TextEvent
)

func (k EventKind) String() string {
	switch k {
	case StartEvent:
		return "start"
	case EndEvent:
		return "end"
	case EmptyEvent:
		return "empty"
	case TextEvent:
		return "text"
	default:
		return "invalid"
	}
}

// Attr is a single attribute of a start or self-closing tag, with entities
// already resolved by the tokenizer.
type Attr struct {
	Name  string
	Value string
}

// Event is one classified XML event. Name is set for Start, End and Empty;
// Attrs for Start and Empty; Text only for TextEvent.
type Event struct {
	Kind  EventKind
	Name  string
	Attrs []Attr
	Text  []byte
}

func Start(name string, attrs ...Attr) Event {
	return Event{Kind: StartEvent, Name: name, Attrs: attrs}
}

func End(name string) Event {
	return Event{Kind: EndEvent, Name: name}
}

// Empty is a self-closing tag such as <line number="1" hits="0"/>.
func Empty(name string, attrs ...Attr) Event {
	return Event{Kind: EmptyEvent, Name: name, Attrs: attrs}
}

func Text(payload []byte) Event {
	return Event{Kind: TextEvent, Text: payload}
}

// Desc reduces the event to what error messages need.
func (e Event) Desc() EventDesc {
	return EventDesc{Kind: e.Kind, Name: e.Name}
}

// EventDesc identifies an event without its payload.
type EventDesc struct {
	Kind EventKind
	Name string
}

func (d EventDesc) String() string {
	switch d.Kind {
	case StartEvent:
		return "<" + d.Name + ">"
	case EndEvent:
		return "</" + d.Name + ">"
	case EmptyEvent:
		return "<" + d.Name + "/>"
	case TextEvent:
		return "text"
	default:
		return "nothing"
	}
}

// Classify narrows a token from encoding/xml to an Event. selfClosing tells
// whether a StartElement was written as <name/>; the matching EndElement
// that encoding/xml synthesizes for it must be dropped by the caller.
// Declarations, processing instructions, comments, directives and
// whitespace-only character data are ignored (ok is false).
func Classify(tok xml.Token, selfClosing bool) (ev Event, ok bool) {
	switch t := tok.(type) {
	case xml.StartElement:
		attrs := make([]Attr, 0, len(t.Attr))
		for _, a := range t.Attr {
			if a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns") {
				continue
			}
			attrs = append(attrs, Attr{Name: a.Name.Local, Value: a.Value})
		}
		if selfClosing {
			return Empty(t.Name.Local, attrs...), true
		}
		return Start(t.Name.Local, attrs...), true
	case xml.EndElement:
		return End(t.Name.Local), true
	case xml.CharData:
		if len(bytes.TrimSpace(t)) == 0 {
			return Event{}, false
		}
		return Text(bytes.Clone(t)), true
	default:
		return Event{}, false
	}
}
