// Copyright (C) 2025, MaidSafe.net Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package wire

import (
	"encoding/json"
	"fmt"
)

// CodecVersion tags the wire format a marshaled payload was produced
// with, so a future format change can be rejected cleanly instead of
// silently misparsed.
type CodecVersion uint16

const CurrentVersion CodecVersion = 0

// Codec is the shared marshaler every payload in §6 goes through before
// being placed in an Envelope's Payload field. Grounded on codec.go's
// JSONCodec: one exported package-level instance wrapping encoding/json.
var Codec = &JSONCodec{}

// JSONCodec implements versioned JSON encoding/decoding.
type JSONCodec struct{}

// Marshal encodes v under CurrentVersion.
func (c *JSONCodec) Marshal(version CodecVersion, v interface{}) ([]byte, error) {
	if version != CurrentVersion {
		return nil, fmt.Errorf("wire: unsupported codec version %d", version)
	}
	return json.Marshal(v)
}

// Unmarshal decodes data into v, reporting the version it was written
// under (always CurrentVersion for this codec).
func (c *JSONCodec) Unmarshal(data []byte, v interface{}) (CodecVersion, error) {
	if err := json.Unmarshal(data, v); err != nil {
		return 0, err
	}
	return CurrentVersion, nil
}
