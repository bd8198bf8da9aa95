// Package archive seals exported instance state into self-verifying
// envelopes stored in the backup bucket.
//
// An envelope is a CBOR sequence of two items: a Header and a byte string
// holding the zstd-compressed state. The header carries a BLAKE3 keyed
// checksum of the uncompressed state so that Open can reject truncated or
// tampered archives before anything is restored.
package archive

import (
	"bytes"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/zeebo/blake3"

	"github.com/dtroode/userindex/internal/codec"
	"github.com/dtroode/userindex/internal/model"
)

// FormatVersion is the envelope layout written by Seal.
const FormatVersion = 1

// Extension is the object suffix of sealed archives.
const Extension = ".ubk"

// MaxStateSize bounds the state accepted by Seal and Open.
const MaxStateSize = 512 << 20

var (
	ErrUnsupportedVersion = errors.New("unsupported archive version")
	ErrCorrupt            = errors.New("archive is corrupt")
	ErrStateTooLarge      = errors.New("state exceeds archive size limit")
)

// checksumKey separates archive checksums from any other BLAKE3 use.
var checksumKey = [32]byte{
	'u', 's', 'e', 'r', 'i', 'n', 'd', 'e', 'x', '.', 'b', 'a', 'c', 'k', 'u', 'p',
	'.', 's', 't', 'a', 't', 'e', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

var (
	encoder *zstd.Encoder
	decoder *zstd.Decoder
)

func init() {
	var err error
	encoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("archive: zstd encoder initialization failed: " + err.Error())
	}
	decoder, err = zstd.NewReader(nil, zstd.WithDecoderMaxMemory(MaxStateSize))
	if err != nil {
		panic("archive: zstd decoder initialization failed: " + err.Error())
	}
}

// Header describes the sealed state.
type Header struct {
	Version  int                  `cbor:"v"`
	RunID    string               `cbor:"run"`
	Owner    model.Principal      `cbor:"owner"`
	Handle   model.InstanceHandle `cbor:"handle"`
	TakenAt  time.Time            `cbor:"taken_at"`
	Size     int                  `cbor:"size"`
	Checksum []byte               `cbor:"blake3"`
}

// Key returns the object key of owner's archive in a backup run.
func Key(runID string, owner model.Principal) string {
	return path.Join("backups", runID, string(owner)+Extension)
}

// Seal compresses state and prefixes it with a header. Version, Size and
// Checksum are filled in by Seal.
func Seal(header Header, state []byte) ([]byte, error) {
	if len(state) > MaxStateSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrStateTooLarge, len(state))
	}

	header.Version = FormatVersion
	header.Size = len(state)
	header.Checksum = checksum(state)

	head, err := codec.Marshal(header)
	if err != nil {
		return nil, fmt.Errorf("failed to encode archive header: %w", err)
	}
	body, err := codec.Marshal(encoder.EncodeAll(state, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to encode archive body: %w", err)
	}

	return append(head, body...), nil
}

// Open verifies a sealed archive and returns its header and state.
func Open(data []byte) (Header, []byte, error) {
	var header Header
	rest, err := codec.UnmarshalFirst(data, &header)
	if err != nil {
		return Header{}, nil, fmt.Errorf("%w: header: %v", ErrCorrupt, err)
	}
	if header.Version != FormatVersion {
		return Header{}, nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, header.Version)
	}
	if header.Size < 0 || header.Size > MaxStateSize {
		return Header{}, nil, fmt.Errorf("%w: declared size %d", ErrCorrupt, header.Size)
	}

	var compressed []byte
	rest, err = codec.UnmarshalFirst(rest, &compressed)
	if err != nil {
		return Header{}, nil, fmt.Errorf("%w: body: %v", ErrCorrupt, err)
	}
	if len(rest) != 0 {
		return Header{}, nil, fmt.Errorf("%w: %d trailing bytes", ErrCorrupt, len(rest))
	}

	state, err := decoder.DecodeAll(compressed, make([]byte, 0, header.Size))
	if err != nil {
		return Header{}, nil, fmt.Errorf("%w: decompress: %v", ErrCorrupt, err)
	}
	if len(state) != header.Size {
		return Header{}, nil, fmt.Errorf("%w: got %d bytes, expected %d", ErrCorrupt, len(state), header.Size)
	}
	if !bytes.Equal(checksum(state), header.Checksum) {
		return Header{}, nil, fmt.Errorf("%w: checksum mismatch", ErrCorrupt)
	}

	return header, state, nil
}

func checksum(state []byte) []byte {
	hasher, err := blake3.NewKeyed(checksumKey[:])
	if err != nil {
		// only fails for keys that are not 32 bytes
		panic("archive: blake3 keyed hasher: " + err.Error())
	}
	_, _ = hasher.Write(state)
	return hasher.Sum(nil)
}
