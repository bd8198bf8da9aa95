// Package codec is the single CBOR configuration shared by the gRPC wire
// format and the backup archive header.
package codec

import (
	"reflect"

	"github.com/fxamacker/cbor/v2"
	"google.golang.org/grpc/encoding"
)

// Name is the gRPC content-subtype under which the codec is registered.
const Name = "cbor"

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	encOptions := cbor.CoreDetEncOptions()
	encOptions.TextMarshaler = cbor.TextMarshalerTextString
	encOptions.Time = cbor.TimeRFC3339Nano
	encMode, err = encOptions.EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		DefaultMapType:  reflect.TypeOf(map[string]any(nil)),
		TextUnmarshaler: cbor.TextUnmarshalerTextString,
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}

	encoding.RegisterCodec(GRPC{})
}

// Marshal encodes v with Core Deterministic Encoding.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes CBOR data into v.
func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}

// UnmarshalFirst decodes the first item of a CBOR sequence and returns the
// remaining bytes.
func UnmarshalFirst(data []byte, v any) ([]byte, error) {
	return decMode.UnmarshalFirst(data, v)
}

// GRPC adapts the codec to google.golang.org/grpc/encoding.
type GRPC struct{}

func (GRPC) Marshal(v any) ([]byte, error) {
	return Marshal(v)
}

func (GRPC) Unmarshal(data []byte, v any) error {
	return Unmarshal(data, v)
}

func (GRPC) Name() string {
	return Name
}
