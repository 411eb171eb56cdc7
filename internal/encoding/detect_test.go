package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/MrJamesThe3rd/shoplite/internal/encoding"
)

const greekHeader = "Κωδικός;Περιγραφή;Τιμή αγοράς\n520;Φέτα 400γρ;3,20\n"

func readAll(t *testing.T, input []byte, hint string) string {
	t.Helper()

	r, err := encoding.NewUTF8Reader(bytes.NewReader(input), hint)
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)

	return string(got)
}

func TestNewUTF8Reader_UTF8Passthrough(t *testing.T) {
	assert.Equal(t, greekHeader, readAll(t, []byte(greekHeader), ""))
}

func TestNewUTF8Reader_UTF8BOM(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, greekHeader...)

	assert.Equal(t, greekHeader, readAll(t, input, ""))
}

func TestNewUTF8Reader_UTF16LE(t *testing.T) {
	encoded, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String(greekHeader)
	require.NoError(t, err)

	assert.Equal(t, greekHeader, readAll(t, []byte(encoded), ""))
}

func TestNewUTF8Reader_Windows1253Hint(t *testing.T) {
	encoded, err := charmap.Windows1253.NewEncoder().String(greekHeader)
	require.NoError(t, err)

	assert.Equal(t, greekHeader, readAll(t, []byte(encoded), "Windows-1253"))
}

func TestNewUTF8Reader_HintIgnoredWithBOM(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, greekHeader...)

	assert.Equal(t, greekHeader, readAll(t, input, "iso-8859-7"))
}

func TestNewUTF8Reader_UnknownHint(t *testing.T) {
	_, err := encoding.NewUTF8Reader(bytes.NewReader([]byte("a;b\n")), "ebcdic")
	assert.Error(t, err)
}
