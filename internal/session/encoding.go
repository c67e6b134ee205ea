package session

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// normalizeSessionBytes decodes a session document to UTF-8. Session
// files written by this tool are plain UTF-8, but files touched by
// Windows editors or older exports show up with BOMs or in CP-1252,
// and a stray charset must not count as corruption.
//
// Order: BOM (UTF-8 stripped, UTF-16 decoded), then valid UTF-8 as-is,
// then chardet heuristics, then a Windows-1252 fallback.
func normalizeSessionBytes(raw []byte) ([]byte, error) {
	if bytes.HasPrefix(raw, bomUTF8) {
		return raw[len(bomUTF8):], nil
	}

	if bytes.HasPrefix(raw, bomUTF16LE) {
		decoded, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder().Bytes(raw)
		if err != nil {
			return nil, fmt.Errorf("decoding UTF-16LE session data: %w", err)
		}
		return decoded, nil
	}

	if bytes.HasPrefix(raw, bomUTF16BE) {
		decoded, err := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder().Bytes(raw)
		if err != nil {
			return nil, fmt.Errorf("decoding UTF-16BE session data: %w", err)
		}
		return decoded, nil
	}

	if utf8.Valid(raw) {
		return raw, nil
	}

	if result, err := chardet.NewTextDetector().DetectBest(raw); err == nil {
		switch result.Charset {
		case "UTF-8":
			return raw, nil
		case "ISO-8859-1", "windows-1252":
			return charmap.Windows1252.NewDecoder().Bytes(raw)
		case "ISO-8859-9":
			return charmap.ISO8859_9.NewDecoder().Bytes(raw)
		}
	}

	return charmap.Windows1252.NewDecoder().Bytes(raw)
}
