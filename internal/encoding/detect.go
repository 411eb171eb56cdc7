package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	xencoding "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Fallback is used when nothing else identifies the input. Supplier price
// lists without a BOM are most often exported by Greek Windows installs.
var Fallback xencoding.Encoding = charmap.Windows1253

// charsets maps charset names, as chardet reports them or as a client may
// pass them, to decoders.
var charsets = map[string]xencoding.Encoding{
	"windows-1252": charmap.Windows1252,
	"iso-8859-1":   charmap.Windows1252,
	"iso-8859-9":   charmap.ISO8859_9,
	"windows-1253": charmap.Windows1253,
	"cp1253":       charmap.Windows1253,
	"iso-8859-7":   charmap.ISO8859_7,
	"greek":        charmap.ISO8859_7,
	"utf-16le":     unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
	"utf-16be":     unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
}

// NewUTF8Reader detects the encoding of the input and returns a reader
// that decodes the content to UTF-8. A non-empty hint names the charset to
// use when the input carries no BOM.
//
// Detection order:
//  1. Check for BOM (UTF-8 BOM is stripped; UTF-16 LE/BE is decoded)
//  2. Use the hint, if any
//  3. Validate if the content is valid UTF-8 and return as-is
//  4. Heuristic detection via chardet
//  5. Fallback
func NewUTF8Reader(r io.Reader, hint string) (io.Reader, error) {
	br := bufio.NewReader(r)

	// Peek enough bytes for BOM detection and charset heuristics.
	buf, err := br.Peek(4096)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("peek: %w", err)
	}

	// 1. Check for BOM.
	if bytes.HasPrefix(buf, bomUTF8) {
		_, _ = br.Discard(len(bomUTF8))
		return br, nil
	}

	if bytes.HasPrefix(buf, bomUTF16LE) {
		decoder := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
		return transform.NewReader(br, decoder), nil
	}

	if bytes.HasPrefix(buf, bomUTF16BE) {
		decoder := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()
		return transform.NewReader(br, decoder), nil
	}

	// 2. Caller knows better than any heuristic.
	if hint = strings.ToLower(strings.TrimSpace(hint)); hint != "" {
		if hint == "utf-8" || hint == "utf8" {
			return br, nil
		}

		enc, ok := charsets[hint]
		if !ok {
			return nil, fmt.Errorf("unsupported charset %q", hint)
		}

		return transform.NewReader(br, enc.NewDecoder()), nil
	}

	// 3. If the content is valid UTF-8, return as-is.
	if utf8.Valid(buf) {
		return br, nil
	}

	// 4. Heuristic detection via chardet.
	detector := chardet.NewTextDetector()

	result, detectErr := detector.DetectBest(buf)
	if detectErr == nil {
		if result.Charset == "UTF-8" {
			return br, nil
		}

		if enc, ok := charsets[strings.ToLower(result.Charset)]; ok {
			return transform.NewReader(br, enc.NewDecoder()), nil
		}
	}

	// 5. Fallback.
	return transform.NewReader(br, Fallback.NewDecoder()), nil
}
