// Package jsoncodec lets connect handlers exchange plain Go structs as JSON.
package jsoncodec

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// Name replaces connect's protobuf-backed JSON codec.
const Name = "json"

// Codec marshals request and response messages with encoding/json.
type Codec struct{}

var _ connect.Codec = Codec{}

func (Codec) Name() string { return Name }

func (Codec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

// Unmarshal treats an empty body as an empty message.
func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}

// HandlerOption installs Codec on a handler.
func HandlerOption() connect.HandlerOption {
	return connect.WithCodec(Codec{})
}

// ClientOption installs Codec on a client.
func ClientOption() connect.ClientOption {
	return connect.WithCodec(Codec{})
}
