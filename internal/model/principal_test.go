package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrincipal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "simple", input: "alice"},
		{name: "dashes and digits", input: "rrkah-fqaaa-aaaaa-aaaaq-cai"},
		{name: "max length", input: strings.Repeat("a", 63)},
		{name: "empty", input: "", wantErr: true},
		{name: "too long", input: strings.Repeat("a", 64), wantErr: true},
		{name: "leading dash", input: "-alice", wantErr: true},
		{name: "trailing dash", input: "alice-", wantErr: true},
		{name: "upper case", input: "Alice", wantErr: true},
		{name: "space", input: "al ice", wantErr: true},
		{name: "path", input: "../etc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParsePrincipal(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPrincipal)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input, p.String())
		})
	}
}

func TestParseOptionalPrincipal(t *testing.T) {
	p, err := ParseOptionalPrincipal("")
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = ParseOptionalPrincipal("ref-1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, Principal("ref-1"), *p)

	_, err = ParseOptionalPrincipal("REF")
	assert.ErrorIs(t, err, ErrInvalidPrincipal)
}

func TestPrincipal_UnmarshalText(t *testing.T) {
	var p Principal
	require.NoError(t, p.UnmarshalText([]byte("bob")))
	assert.Equal(t, Principal("bob"), p)

	require.NoError(t, p.UnmarshalText(nil))
	assert.True(t, p.IsZero())

	assert.ErrorIs(t, p.UnmarshalText([]byte("B O B")), ErrInvalidPrincipal)
}
