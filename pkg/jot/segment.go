package jot

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

// encodeSegment emits base64url without padding, per RFC 7515.
func encodeSegment(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

// decodeSegment accepts unpadded segments as produced by encodeSegment, and
// tolerates correctly padded input from stricter emitters.
func decodeSegment(segment string) ([]byte, error) {
	if m := len(segment) % 4; m != 0 {
		segment += strings.Repeat("=", 4-m)
	}
	return base64.URLEncoding.DecodeString(segment)
}

// decodeObjectSegment decodes a base64url segment holding a JSON object.
// Numbers are kept as json.Number so the payload preserves the exact
// representation found in the token.
func decodeObjectSegment(segment, name string) (Claims, error) {
	raw, err := decodeSegment(segment)
	if err != nil {
		return nil, fmt.Errorf("Invalid base64 in %s segment: %w", name, ErrMalformed)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, fmt.Errorf("Invalid JSON in %s segment: %w", name, ErrMalformed)
	}
	if obj == nil || dec.More() {
		return nil, fmt.Errorf("%s segment is not a JSON object: %w", name, ErrMalformed)
	}

	return Claims(obj), nil
}
