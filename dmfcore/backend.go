package dmfcore

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"

	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
)

// Handler receives the events of one parse. Begin and Finish bracket the
// whole operation; Finish gets the parse result and returns the final one.
type Handler interface {
	Begin() error
	StartElement(name string, attrs Attrs) error
	CharData(data []byte) error
	EndElement(name string) error
	Finish(result error) error
}

// Attr is one attribute of an element, in document order.
type Attr struct {
	Name  string
	Value string
}

type Attrs []Attr

// Get returns the value of the first attribute called name.
func (a Attrs) Get(name string) (string, bool) {
	for _, attr := range a {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return "", false
}

// Value is Get without the presence flag.
func (a Attrs) Value(name string) string {
	v, _ := a.Get(name)
	return v
}

// Backend is an XML engine that may need loading before use.
type Backend interface {
	Load() error
	Unload()
	NewEngine(h Handler) Engine
}

// Engine is fed a document chunk by chunk. A zero-length chunk marks the
// end of input and returns the outcome of the whole document.
type Engine interface {
	Feed(chunk []byte) error
	Close()
}

// XMLBackend is the built-in backend on top of encoding/xml.
type XMLBackend struct {
	logger *zap.Logger
}

func NewXMLBackend(logger *zap.Logger) *XMLBackend {
	return &XMLBackend{logger: logger}
}

func (b *XMLBackend) Load() error {
	b.logger.Debug("xml backend is linked in, nothing to load")
	return nil
}

func (b *XMLBackend) Unload() {
	b.logger.Debug("xml backend unload is a no-op")
}

func (b *XMLBackend) NewEngine(h Handler) Engine {
	return newXMLEngine(h)
}

var errEngineClosed = errors.New("xml engine closed before end of input")

// xmlEngine turns the pull-based encoding/xml decoder into a push parser:
// chunks are written into a pipe drained by the decoding goroutine, and
// handler callbacks run on that goroutine while Feed is blocked.
type xmlEngine struct {
	pw       *io.PipeWriter
	done     chan error
	err      error
	finished bool
}

func newXMLEngine(h Handler) *xmlEngine {
	pr, pw := io.Pipe()
	e := &xmlEngine{
		pw:   pw,
		done: make(chan error, 1),
	}
	go func() {
		err := decode(pr, h)
		if err != nil {
			pr.CloseWithError(err)
		} else {
			pr.Close()
		}
		e.done <- err
	}()
	return e
}

func (e *xmlEngine) Feed(chunk []byte) error {
	if e.finished {
		return e.err
	}
	if len(chunk) == 0 {
		e.pw.Close()
		return e.wait()
	}
	if _, err := e.pw.Write(chunk); err != nil {
		return e.wait()
	}
	return nil
}

func (e *xmlEngine) Close() {
	if e.finished {
		return
	}
	e.pw.CloseWithError(errEngineClosed)
	e.wait()
}

func (e *xmlEngine) wait() error {
	if !e.finished {
		e.err = <-e.done
		e.finished = true
	}
	return e.err
}

// decode checks the document shape as well as its tokens: exactly one root
// element, with nothing but whitespace, comments, processing instructions and
// directives around it.
func decode(r io.Reader, h Handler) error {
	d := xml.NewDecoder(r)
	d.Strict = true
	d.CharsetReader = charset.NewReaderLabel

	depth := 0
	rootSeen := false
	syntaxError := func(msg string) error {
		line, _ := d.InputPos()
		return &xml.SyntaxError{Msg: msg, Line: line}
	}

	for {
		tok, err := d.Token()
		if err == io.EOF {
			if !rootSeen {
				return syntaxError("no root element")
			}
			return nil
		}
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if depth == 0 {
				if rootSeen {
					return syntaxError("element <" + t.Name.Local + "> after the root element")
				}
				rootSeen = true
			}
			depth++
			attrs := make(Attrs, 0, len(t.Attr))
			for _, a := range t.Attr {
				attrs = append(attrs, Attr{Name: a.Name.Local, Value: a.Value})
			}
			if err := h.StartElement(t.Name.Local, attrs); err != nil {
				return err
			}
		case xml.CharData:
			if depth == 0 {
				if len(bytes.TrimSpace(t)) != 0 {
					return syntaxError("text outside the root element")
				}
				continue
			}
			if err := h.CharData(t); err != nil {
				return err
			}
		case xml.EndElement:
			depth--
			if err := h.EndElement(t.Name.Local); err != nil {
				return err
			}
		}
	}
}
