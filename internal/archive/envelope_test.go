package archive

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/userindex/internal/codec"
)

func TestSealOpen(t *testing.T) {
	state := bytes.Repeat([]byte("profile:hot-or-not;"), 512)
	takenAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	sealed, err := Seal(Header{RunID: "run-1", Owner: "alice", Handle: "inst-1", TakenAt: takenAt}, state)
	require.NoError(t, err)
	assert.Less(t, len(sealed), len(state))

	header, got, err := Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, state, got)
	assert.Equal(t, FormatVersion, header.Version)
	assert.Equal(t, "run-1", header.RunID)
	assert.Equal(t, len(state), header.Size)
	assert.True(t, header.TakenAt.Equal(takenAt))
}

func TestSealOpen_EmptyState(t *testing.T) {
	sealed, err := Seal(Header{Owner: "alice"}, nil)
	require.NoError(t, err)

	_, got, err := Open(sealed)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestOpen_Corrupt(t *testing.T) {
	sealed, err := Seal(Header{Owner: "alice", Handle: "inst-1"}, []byte("state"))
	require.NoError(t, err)

	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "truncated", data: sealed[:len(sealed)-3]},
		{name: "garbage", data: []byte{0xff, 0x00, 0x13}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Open(tt.data)
			assert.ErrorIs(t, err, ErrCorrupt)
		})
	}
}

func TestOpen_ChecksumMismatch(t *testing.T) {
	sealed, err := Seal(Header{Owner: "alice"}, []byte("original state"))
	require.NoError(t, err)

	header, _, err := Open(sealed)
	require.NoError(t, err)

	forged, err := Seal(header, []byte("forged!! state"))
	require.NoError(t, err)
	// splice the original header onto the forged body
	origHeaderLen := len(sealed) - bodyLen(t, sealed)
	forgedHeaderLen := len(forged) - bodyLen(t, forged)
	spliced := append(append([]byte{}, sealed[:origHeaderLen]...), forged[forgedHeaderLen:]...)

	_, _, err = Open(spliced)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestSeal_StateTooLarge(t *testing.T) {
	_, err := Seal(Header{Owner: "alice"}, make([]byte, MaxStateSize+1))
	assert.ErrorIs(t, err, ErrStateTooLarge)
}

func TestOpen_TrailingBytes(t *testing.T) {
	sealed, err := Seal(Header{Owner: "alice"}, []byte("state"))
	require.NoError(t, err)

	extra, err := codec.Marshal([]byte("smuggled"))
	require.NoError(t, err)

	_, _, err = Open(append(sealed, extra...))
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "backups/run-1/alice.ubk", Key("run-1", "alice"))
}

func bodyLen(t *testing.T, sealed []byte) int {
	t.Helper()
	var header Header
	rest, err := codec.UnmarshalFirst(sealed, &header)
	require.NoError(t, err)
	return len(rest)
}
