package pdfsed

import (
	"bytes"
	"encoding/hex"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// unescapePDFString resolves the backslash escapes of a PDF literal string
func unescapePDFString(s []byte) []byte {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			out = append(out, c)
			continue
		}
		i++
		switch c = s[i]; c {
		case 'n':
			out = append(out, '\n')
		case 'r':
			out = append(out, '\r')
		case 't':
			out = append(out, '\t')
		case 'b':
			out = append(out, '\b')
		case 'f':
			out = append(out, '\f')
		case '\r', '\n':
			// line continuation
			if c == '\r' && i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
		case '0', '1', '2', '3', '4', '5', '6', '7':
			v := 0
			for n := 0; n < 3 && i < len(s) && s[i] >= '0' && s[i] <= '7'; n++ {
				v = v*8 + int(s[i]-'0')
				i++
			}
			i--
			out = append(out, byte(v))
		default:
			out = append(out, c)
		}
	}
	return out
}

// decodeHexString decodes a PDF hex string, a missing last digit is zero
func decodeHexString(s []byte) []byte {
	digits := bytes.Join(bytes.Fields(s), nil)
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	out := make([]byte, hex.DecodedLen(len(digits)))
	n, _ := hex.Decode(out, digits)
	return out[:n]
}

// decodeTextString decodes a PDF text string: UTF-16BE when it starts
// with a byte order mark, otherwise UTF-8 or PDFDocEncoding, which is
// close enough to Latin-1 for layer names
func decodeTextString(b []byte) string {
	if bytes.HasPrefix(b, []byte{0xfe, 0xff}) {
		dec := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder()
		if s, err := dec.Bytes(b); err == nil {
			return string(s)
		}
	}
	if utf8.Valid(b) {
		return string(b)
	}
	s, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(s)
}

// ocgContext returns the bytes around the first optional content group
// of a PDF for debug output
func ocgContext(pdfData []byte) string {
	i := bytes.Index(pdfData, []byte("/OCG"))
	if i < 0 {
		return ""
	}
	start := max(i-20, 0)
	end := min(i+100, len(pdfData))
	return string(pdfData[start:end])
}
