package hydrate

import (
	"bytes"
	"encoding/base64"

	"github.com/vmihailenco/msgpack/v5"
)

// EncodeCompact serializes initial state with msgpack and base64 for
// transports where the JSON script tag is too heavy (data attributes,
// prefetch headers). Map keys are sorted so identical state encodes to
// identical bytes.
func EncodeCompact(state map[string]any) (string, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(state); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// DecodeCompact reverses EncodeCompact.
func DecodeCompact(encoded string) (map[string]any, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, err
	}
	var state map[string]any
	if err := msgpack.Unmarshal(raw, &state); err != nil {
		return nil, err
	}
	return state, nil
}
