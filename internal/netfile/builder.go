// Package netfile builds the network file brokers read at start-up: the
// reliability of the listening socket and of every outbound channel.
//
// The document layout is fixed:
//
//	<network>
//	  <incoming>
//	    <reliability>0.95</reliability>
//	  </incoming>
//	  <outgoing>
//	    <channel uuid="..."><reliability>0.8</reliability></channel>
//	  </outgoing>
//	</network>
//
// Channel ids and values are escaped. A Builder holds only formatting
// options, so one Builder may be shared between goroutines.
package netfile

import (
	"bytes"
	"encoding/xml"
	"io"
)

const declaration = `<?xml version="1.0"?>`

type Builder struct {
	prefix string
	indent string
	header bool
}

type Option func(*Builder)

// WithIndent pretty-prints the document, see xml.Encoder.Indent.
func WithIndent(prefix, indent string) Option {
	return func(b *Builder) {
		b.prefix = prefix
		b.indent = indent
	}
}

// WithHeader controls the leading XML declaration. It is on by default.
func WithHeader(header bool) Option {
	return func(b *Builder) {
		b.header = header
	}
}

func NewBuilder(opts ...Option) *Builder {
	b := &Builder{header: true}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

var defaultBuilder = NewBuilder()

// Build renders the network file with the default options.
func Build(in Reliability, out *ChannelMap) (string, error) {
	return defaultBuilder.Build(in, out)
}

func (b *Builder) Build(in Reliability, out *ChannelMap) (string, error) {
	doc, err := b.marshal(in, out)
	if err != nil {
		return "", err
	}
	return string(doc), nil
}

// Encode writes the document to w. Nothing is written when a value fails to
// serialize.
func (b *Builder) Encode(w io.Writer, in Reliability, out *ChannelMap) error {
	doc, err := b.marshal(in, out)
	if err != nil {
		return err
	}
	_, err = w.Write(doc)
	return err
}

func (b *Builder) marshal(in Reliability, out *ChannelMap) ([]byte, error) {
	inText, err := reliabilityText(in)
	if err != nil {
		return nil, &SerializationError{Op: "incoming", Err: err}
	}

	var buf bytes.Buffer
	if b.header {
		buf.WriteString(declaration)
		if b.prefix != "" || b.indent != "" {
			buf.WriteByte('\n')
		}
	}

	enc := xml.NewEncoder(&buf)
	enc.Indent(b.prefix, b.indent)
	tw := &tokenWriter{enc: enc}

	tw.start("network")
	tw.start("incoming")
	tw.element("reliability", inText)
	tw.end("incoming")
	tw.start("outgoing")
	for id, r := range out.All() {
		if err := checkChars(id); err != nil {
			return nil, &SerializationError{Op: "outgoing", Channel: id, Err: err}
		}
		text, err := reliabilityText(r)
		if err != nil {
			return nil, &SerializationError{Op: "outgoing", Channel: id, Err: err}
		}
		tw.start("channel", xml.Attr{Name: xml.Name{Local: "uuid"}, Value: id})
		tw.element("reliability", text)
		tw.end("channel")
	}
	tw.end("outgoing")
	tw.end("network")

	if tw.err == nil {
		tw.err = enc.Close()
	}
	if tw.err != nil {
		return nil, &SerializationError{Op: "encode", Err: tw.err}
	}
	return buf.Bytes(), nil
}

// tokenWriter keeps the first encoder error and ignores later calls.
type tokenWriter struct {
	enc *xml.Encoder
	err error
}

func (tw *tokenWriter) token(t xml.Token) {
	if tw.err != nil {
		return
	}
	tw.err = tw.enc.EncodeToken(t)
}

func (tw *tokenWriter) start(name string, attrs ...xml.Attr) {
	tw.token(xml.StartElement{Name: xml.Name{Local: name}, Attr: attrs})
}

func (tw *tokenWriter) end(name string) {
	tw.token(xml.EndElement{Name: xml.Name{Local: name}})
}

func (tw *tokenWriter) element(name, text string) {
	tw.start(name)
	tw.token(xml.CharData(text))
	tw.end(name)
}
