package frontend

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestEncodeDecodeFrameRoundTrip(t *testing.T) {
	cases := []struct {
		code    Code
		payload []byte
	}{
		{CodePing, nil},
		{CodeList, []byte("query string")},
		{CodeData, bytes.Repeat([]byte{0xAB}, 257)},
	}
	for _, c := range cases {
		frame := encodeFrame(c.code, c.payload)
		gotCode, gotLen := decodeHeader(frame[:headerSize])
		if gotCode != c.code {
			t.Fatalf("code = %v, want %v", gotCode, c.code)
		}
		if int(gotLen) != len(c.payload) {
			t.Fatalf("length = %d, want %d", gotLen, len(c.payload))
		}
		gotPayload := frame[headerSize:]
		if !bytes.Equal(gotPayload, c.payload) {
			t.Fatalf("payload = %v, want %v", gotPayload, c.payload)
		}
	}
}

func TestEncodeSubtypePayload(t *testing.T) {
	body := []byte(`["h1"]`)
	out := encodeSubtypePayload(SubtypeHost, body)
	sub := Subtype(binary.BigEndian.Uint32(out[0:4]))
	if sub != SubtypeHost {
		t.Fatalf("subtype = %v, want SubtypeHost", sub)
	}
	if !bytes.Equal(out[4:], body) {
		t.Fatalf("body = %s, want %s", out[4:], body)
	}
}
