// Package codec frames netconf messages on a session transport, and negotiates the framing from the
// capabilities exchanged in hello messages.
package codec

import (
	"encoding/xml"
	"io"

	"github.com/damianoneill/ncdevice/netconf/common"
	"github.com/damianoneill/net/netconf/rfc6242"
	"github.com/pkg/errors"
)

// Framing identifies the message framing used on a session.
type Framing int

const (
	// EndOfMessage delimits each message with ]]>]]> (base:1.0).
	EndOfMessage Framing = iota
	// Chunked frames each message as a sequence of length-prefixed chunks (base:1.1).
	Chunked
)

func (f Framing) String() string {
	if f == Chunked {
		return "chunked"
	}
	return "end-of-message"
}

// Decoder reads xml tokens from the framed input stream.
type Decoder struct {
	*xml.Decoder
	framer *rfc6242.Decoder
}

// Encoder writes each message as a separate frame, preceded by an xml declaration.
type Encoder struct {
	xml    *xml.Encoder
	framer *rfc6242.Encoder
}

// NewDecoder delivers a decoder reading end-of-message framed input from r.
func NewDecoder(r io.Reader) *Decoder {
	framer := rfc6242.NewDecoder(r)
	return &Decoder{Decoder: xml.NewDecoder(framer), framer: framer}
}

// NewEncoder delivers an encoder writing end-of-message framed output to w.
func NewEncoder(w io.Writer) *Encoder {
	framer := rfc6242.NewEncoder(w)
	return &Encoder{xml: xml.NewEncoder(framer), framer: framer}
}

// Encode writes msg as a single framed message.
func (e *Encoder) Encode(msg interface{}) error {
	if _, err := e.framer.Write([]byte(xml.Header)); err != nil {
		return errors.Wrap(err, "failed to write xml declaration")
	}
	if err := e.xml.Encode(msg); err != nil {
		return err
	}
	return errors.Wrap(e.framer.EndOfMessage(), "failed to complete message frame")
}

// Framing returns the framing the encoder is currently writing.
func (e *Encoder) Framing() Framing {
	if e.framer.ChunkedFraming {
		return Chunked
	}
	return EndOfMessage
}

// Negotiate selects the framing for a session once the hello messages have been exchanged, switching d and
// e over to chunked framing when both the local and peer capabilities include base:1.1.
// The framing in use afterwards is returned.
func Negotiate(d *Decoder, e *Encoder, local, peer []string) Framing {
	if !common.PeerSupportsChunkedFraming(local) || !common.PeerSupportsChunkedFraming(peer) {
		return e.Framing()
	}
	rfc6242.SetChunkedFraming(d.framer, e.framer)
	return Chunked
}
