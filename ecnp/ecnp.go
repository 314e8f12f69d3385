// Package ecnp implements the ECNP v1.1 binary framing codec: a fixed
// 6-byte header (version, type, big-endian length) followed by a
// length-prefixed payload.
package ecnp

import (
	"encoding/binary"

	"github.com/edgeclaw/core/errs"
	"github.com/edgeclaw/core/internal/metrics"
)

// Version is the only ECNP wire version this codec understands.
const Version byte = 0x01

// HeaderSize is the fixed size, in bytes, of an ECNP frame header.
const HeaderSize = 6

// MaxPayloadSize is the largest payload ECNP will encode or accept on decode.
const MaxPayloadSize = 1024 * 1024

// MessageType identifies the kind of payload an ECNP frame carries.
type MessageType byte

const (
	Handshake MessageType = 0x01
	Data      MessageType = 0x02
	Control   MessageType = 0x03
	Heartbeat MessageType = 0x04
	Ack       MessageType = 0x05
	Error     MessageType = 0x06
)

// String returns the human-readable name of the message type.
func (t MessageType) String() string {
	switch t {
	case Handshake:
		return "Handshake"
	case Data:
		return "Data"
	case Control:
		return "Control"
	case Heartbeat:
		return "Heartbeat"
	case Ack:
		return "Ack"
	case Error:
		return "Error"
	default:
		return "Unknown"
	}
}

// valid reports whether t is one of the six known message types.
func (t MessageType) valid() bool {
	switch t {
	case Handshake, Data, Control, Heartbeat, Ack, Error:
		return true
	default:
		return false
	}
}

// Message is a decoded ECNP frame.
type Message struct {
	Version byte
	Type    MessageType
	Payload []byte
}

// Encode builds a complete ECNP frame: version || type || length(be32) || payload.
func Encode(msgType MessageType, payload []byte) ([]byte, error) {
	if !msgType.valid() {
		return nil, errs.New(errs.InvalidParameter, "unknown ECNP message type").WithDetails("type", byte(msgType))
	}
	if len(payload) > MaxPayloadSize {
		return nil, errs.New(errs.InvalidParameter, "payload exceeds maximum ECNP frame size").
			WithDetails("size", len(payload)).WithDetails("max", MaxPayloadSize)
	}

	frame := make([]byte, HeaderSize+len(payload))
	frame[0] = Version
	frame[1] = byte(msgType)
	binary.BigEndian.PutUint32(frame[2:6], uint32(len(payload)))
	copy(frame[HeaderSize:], payload)

	metrics.EcnpFramesEncoded.WithLabelValues(msgType.String()).Inc()
	return frame, nil
}

// EncodeString is a convenience wrapper around Encode for UTF-8 text payloads.
func EncodeString(msgType MessageType, text string) ([]byte, error) {
	return Encode(msgType, []byte(text))
}

// Decode parses a complete ECNP frame from data, validating the header and
// confirming the payload is fully present.
func Decode(data []byte) (*Message, error) {
	if len(data) < HeaderSize {
		metrics.EcnpDecodeErrors.Inc()
		return nil, errs.New(errs.SerializationError, "ECNP frame shorter than header").
			WithDetails("len", len(data))
	}

	version := data[0]
	if version != Version {
		metrics.EcnpDecodeErrors.Inc()
		return nil, errs.New(errs.SerializationError, "unsupported ECNP version").
			WithDetails("version", version)
	}

	msgType := MessageType(data[1])
	if !msgType.valid() {
		metrics.EcnpDecodeErrors.Inc()
		return nil, errs.New(errs.SerializationError, "unknown ECNP message type").
			WithDetails("type", data[1])
	}

	length := binary.BigEndian.Uint32(data[2:6])
	if length > MaxPayloadSize {
		metrics.EcnpDecodeErrors.Inc()
		return nil, errs.New(errs.SerializationError, "declared ECNP payload exceeds maximum size").
			WithDetails("length", length).WithDetails("max", MaxPayloadSize)
	}
	if uint32(len(data)) < HeaderSize+length {
		metrics.EcnpDecodeErrors.Inc()
		return nil, errs.New(errs.SerializationError, "ECNP frame shorter than declared payload length").
			WithDetails("have", len(data)).WithDetails("want", HeaderSize+int(length))
	}

	payload := make([]byte, length)
	copy(payload, data[HeaderSize:HeaderSize+length])

	metrics.EcnpFramesDecoded.WithLabelValues(msgType.String()).Inc()
	return &Message{Version: version, Type: msgType, Payload: payload}, nil
}

// DecodeString decodes data and returns its payload as a UTF-8 string.
func DecodeString(data []byte) (MessageType, string, error) {
	msg, err := Decode(data)
	if err != nil {
		return 0, "", err
	}
	return msg.Type, string(msg.Payload), nil
}
