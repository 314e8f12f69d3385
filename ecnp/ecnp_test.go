package ecnp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Run("DataFrame", func(t *testing.T) {
		payload := []byte(`{"hello":"world"}`)
		frame, err := Encode(Data, payload)
		require.NoError(t, err)
		assert.Equal(t, HeaderSize+len(payload), len(frame))
		assert.Equal(t, Version, frame[0])
		assert.Equal(t, byte(Data), frame[1])

		msg, err := Decode(frame)
		require.NoError(t, err)
		assert.Equal(t, Version, msg.Version)
		assert.Equal(t, Data, msg.Type)
		assert.Equal(t, payload, msg.Payload)
	})

	t.Run("EmptyPayload", func(t *testing.T) {
		frame, err := Encode(Heartbeat, nil)
		require.NoError(t, err)
		assert.Equal(t, HeaderSize, len(frame))

		msg, err := Decode(frame)
		require.NoError(t, err)
		assert.Equal(t, Heartbeat, msg.Type)
		assert.Empty(t, msg.Payload)
	})

	t.Run("StringConvenience", func(t *testing.T) {
		frame, err := EncodeString(Control, "pause")
		require.NoError(t, err)

		msgType, text, err := DecodeString(frame)
		require.NoError(t, err)
		assert.Equal(t, Control, msgType)
		assert.Equal(t, "pause", text)
	})
}

func TestEncodeRejectsInvalidInput(t *testing.T) {
	t.Run("UnknownType", func(t *testing.T) {
		_, err := Encode(MessageType(0xFF), []byte("x"))
		assert.Error(t, err)
	})

	t.Run("OversizedPayload", func(t *testing.T) {
		_, err := Encode(Data, make([]byte, MaxPayloadSize+1))
		assert.Error(t, err)
	})
}

func TestDecodeRejectsMalformedFrames(t *testing.T) {
	t.Run("TooShort", func(t *testing.T) {
		_, err := Decode([]byte{0x01, 0x02})
		assert.Error(t, err)
	})

	t.Run("BadVersion", func(t *testing.T) {
		frame, err := Encode(Data, []byte("x"))
		require.NoError(t, err)
		frame[0] = 0x09
		_, err = Decode(frame)
		assert.Error(t, err)
	})

	t.Run("UnknownType", func(t *testing.T) {
		frame, err := Encode(Data, []byte("x"))
		require.NoError(t, err)
		frame[1] = 0xFF
		_, err = Decode(frame)
		assert.Error(t, err)
	})

	t.Run("TruncatedPayload", func(t *testing.T) {
		frame, err := Encode(Data, []byte("hello"))
		require.NoError(t, err)
		_, err = Decode(frame[:len(frame)-2])
		assert.Error(t, err)
	})
}
