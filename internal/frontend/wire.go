// Package frontend implements the daemon's client-facing wire protocol
// (§4.5): length-prefixed framing over a local stream socket, a
// non-blocking-style read loop per connection, and the PING/STARTUP/LIST
// command handlers.
package frontend

import "encoding/binary"

// Code identifies a frame's purpose. Request and reply codes share one
// space, same as the original protocol.
type Code uint32

// Request codes.
const (
	CodeIdle Code = iota
	CodePing
	CodeStartup
	CodeList
)

// Reply codes occupy a disjoint range so a reply can never be mistaken
// for a request by a handler that forgot to check direction.
const (
	CodeOK Code = iota + 100
	CodeError
	CodeLog
	CodeData
)

// Subtype tags the payload of a DATA reply (§4.5.1).
type Subtype uint32

const (
	SubtypeHost Subtype = iota
	SubtypeService
	SubtypeMetric
)

// headerSize is the length of the fixed code+length preamble of every frame.
const headerSize = 8

// encodeFrame writes a complete frame — 4-byte BE code, 4-byte BE length,
// payload — to the returned byte slice.
func encodeFrame(code Code, payload []byte) []byte {
	buf := make([]byte, headerSize+len(payload))
	binary.BigEndian.PutUint32(buf[0:4], uint32(code))
	binary.BigEndian.PutUint32(buf[4:8], uint32(len(payload)))
	copy(buf[headerSize:], payload)
	return buf
}

// decodeHeader parses the 8-byte code+length preamble.
func decodeHeader(b []byte) (code Code, length uint32) {
	code = Code(binary.BigEndian.Uint32(b[0:4]))
	length = binary.BigEndian.Uint32(b[4:8])
	return
}

// encodeSubtypePayload prepends a DATA reply's 4-byte BE subtype to body.
func encodeSubtypePayload(sub Subtype, body []byte) []byte {
	buf := make([]byte, 4+len(body))
	binary.BigEndian.PutUint32(buf[0:4], uint32(sub))
	copy(buf[4:], body)
	return buf
}
