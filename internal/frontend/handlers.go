package frontend

import (
	"bytes"

	"github.com/gavioto/sysdb/internal/store"
)

// NewStoreHandler builds the command Handler for a daemon backed by s
// (§4.5.3): PING replies OK with an empty payload, STARTUP is a no-op
// session stub that also replies OK, and LIST scans the store at host
// granularity and streams it back as a DATA/HOST frame.
func NewStoreHandler(s *store.Store) Handler {
	return func(code Code, payload []byte) (Code, []byte, error) {
		switch code {
		case CodePing:
			return CodeOK, nil, nil
		case CodeStartup:
			return CodeOK, nil, nil
		case CodeList:
			var buf bytes.Buffer
			st := s.FormatJSON(&buf, store.KindHost, nil, nil, true)
			if st.IsError() {
				return CodeError, errorPayload("list: " + st.String()), nil
			}
			return CodeData, encodeSubtypePayload(SubtypeHost, buf.Bytes()), nil
		default:
			return CodeError, errorPayload("unsupported command"), nil
		}
	}
}
