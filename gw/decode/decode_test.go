package decode

import (
	"bytes"
	"io"
	"testing"

	"github.com/dhamidi/geneweb/gw/diag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBytesUTF8(t *testing.T) {
	out, choice, derr := Bytes([]byte("fam DUPONT Jean + MARTIN Hélène\n"))
	require.Nil(t, derr)
	assert.Equal(t, UTF8, choice.Name)
	assert.False(t, choice.Declared)
	assert.Equal(t, "fam DUPONT Jean + MARTIN Hélène\n", string(out))
}

func TestBytesStripsBOM(t *testing.T) {
	out, _, derr := Bytes(append([]byte{0xEF, 0xBB, 0xBF}, "fam A B + C D\n"...))
	require.Nil(t, derr)
	assert.Equal(t, "fam A B + C D\n", string(out))
}

func TestBytesLatin1Fallback(t *testing.T) {
	in := []byte("fam MARTIN H\xe9l\xe8ne + DUPONT Jean\n")
	out, choice, derr := Bytes(in)
	require.Nil(t, derr)
	assert.NotEqual(t, UTF8, choice.Name)
	assert.Equal(t, "fam MARTIN Hélène + DUPONT Jean\n", string(out))
}

func TestBytesDeclaredEncoding(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"bare", "encoding: iso-8859-1\nfam A Ren\xe9 + B C\n"},
		{"bracketed", "[encoding: iso-8859-1]\nfam A Ren\xe9 + B C\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, choice, derr := Bytes([]byte(tt.input))
			require.Nil(t, derr)
			assert.True(t, choice.Declared)
			assert.Contains(t, string(out), "René")
		})
	}
}

func TestBytesDeclaredUTF8RejectsBadBytes(t *testing.T) {
	_, _, derr := Bytes([]byte("encoding: utf-8\nfam A B\xff + C D\n"))
	require.NotNil(t, derr)
	assert.Equal(t, diag.KindEncoding, derr.Kind)
	assert.Equal(t, diag.SeverityCritical, derr.Severity)
	assert.Equal(t, 23, derr.Offset)
}

func TestBytesUnknownDeclaredEncoding(t *testing.T) {
	_, _, derr := Bytes([]byte("encoding: klingon-9\nfam A B + C D\n"))
	require.NotNil(t, derr)
	assert.Equal(t, diag.SeverityCritical, derr.Severity)
}

func TestReaderTranscodes(t *testing.T) {
	r, choice, derr := Reader(bytes.NewReader([]byte("fam A Ren\xe9 + B C\n")))
	require.Nil(t, derr)
	assert.NotEqual(t, UTF8, choice.Name)
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "fam A René + B C\n", string(out))
}

func TestCheck(t *testing.T) {
	assert.Nil(t, Check([]byte("ok"), 0))
	derr := Check([]byte("ab\xffc"), 100)
	require.NotNil(t, derr)
	assert.Equal(t, 102, derr.Offset)
}
