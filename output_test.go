package uringcat

import (
	"bytes"
	"testing"

	. "github.com/stretchr/testify/require"
)

func TestWriteText(t *testing.T) {
	var out bytes.Buffer

	NoError(t, writeText(&out, "a.txt", []byte("A")))
	NoError(t, writeText(&out, "empty.txt", nil))
	NoError(t, writeText(&out, "nul.txt", []byte{'B', 0, 0}))
	Equal(t, "A\n\nB\x00\x00\n", out.String())
}

func TestWriteTextRejectsInvalidUTF8(t *testing.T) {
	var out bytes.Buffer

	err := writeText(&out, "bad.bin", []byte("ok\xc3"))
	ErrorIs(t, err, ErrInvalidText)
	Contains(t, err.Error(), "bad.bin")
	Contains(t, err.Error(), "offset: 2")
	Empty(t, out.String())
}

func TestInvalidOffset(t *testing.T) {
	Equal(t, -1, invalidOffset(nil))
	Equal(t, -1, invalidOffset([]byte("zażółć �")))
	Equal(t, 0, invalidOffset([]byte{0xff}))
	Equal(t, 3, invalidOffset([]byte("abc\xe2\x82")))
}
