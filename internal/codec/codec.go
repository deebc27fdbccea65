// Package codec provides the gob-based message serialization shared by the
// persistent buffer implementations.
package codec

import (
	"bytes"
	"encoding/gob"
)

// Encode gob-encodes v. Interface-typed values require their concrete
// types to have been registered with gob.Register beforehand.
func Encode[T any](v T) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode gob-decodes data into a T.
func Decode[T any](data []byte) (T, error) {
	var v T
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&v); err != nil {
		return v, err
	}
	return v, nil
}
