// Package encoding normalizes uploaded price lists to UTF-8.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const sniffLen = 4096

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Euro sign in the two single-byte charsets storefront exports use.
const (
	euroWindows1252 = 0x80
	euroLatin9      = 0xA4
)

// NewUTF8Reader sniffs the first bytes of r and returns a reader yielding
// UTF-8.
//
// Detection order:
//  1. BOM (UTF-8 BOM is dropped, UTF-16 LE/BE is decoded)
//  2. already valid UTF-8
//  3. chardet (UTF-8 or Turkish)
//  4. Windows-1252, or Latin-9 when the text carries 0xA4 but no
//     Windows-1252 euro
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReaderSize(r, sniffLen)

	buf, err := br.Peek(sniffLen)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("peek: %w", err)
	}

	switch {
	case bytes.HasPrefix(buf, bomUTF8):
		_, _ = br.Discard(len(bomUTF8))
		return br, nil
	case bytes.HasPrefix(buf, bomUTF16LE):
		return decode(br, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)), nil
	case bytes.HasPrefix(buf, bomUTF16BE):
		return decode(br, unicode.UTF16(unicode.BigEndian, unicode.UseBOM)), nil
	case utf8.Valid(buf):
		return br, nil
	}

	if enc := detect(buf); enc != nil {
		return decode(br, enc), nil
	}

	return br, nil
}

// detect picks a decoder for non-UTF-8 content. A nil result means the
// bytes should pass through untouched.
func detect(buf []byte) encoding.Encoding {
	result, err := chardet.NewTextDetector().DetectBest(buf)
	if err == nil {
		switch result.Charset {
		case "UTF-8":
			return nil
		case "ISO-8859-9":
			if !hasEuro(buf) {
				return charmap.ISO8859_9
			}
		}
	}

	return latin(buf)
}

// latin chooses between Windows-1252 and Latin-9 by where the euro sign sits.
func latin(buf []byte) encoding.Encoding {
	if bytes.IndexByte(buf, euroLatin9) >= 0 && bytes.IndexByte(buf, euroWindows1252) < 0 {
		return charmap.ISO8859_15
	}

	return charmap.Windows1252
}

func hasEuro(buf []byte) bool {
	return bytes.IndexByte(buf, euroLatin9) >= 0 || bytes.IndexByte(buf, euroWindows1252) >= 0
}

func decode(r io.Reader, enc encoding.Encoding) io.Reader {
	return transform.NewReader(r, enc.NewDecoder())
}
