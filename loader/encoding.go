package loader

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var errNotASCII = errors.New("character outside the ASCII range")

// codecs holds the names whose meaning differs between the WHATWG and IANA
// registries. Keys are lower case with '_' replaced by '-'.
var codecs = map[string]encoding.Encoding{
	"ascii":      asciiCodec{},
	"us-ascii":   asciiCodec{},
	"646":        asciiCodec{},
	"latin-1":    charmap.ISO8859_1,
	"latin1":     charmap.ISO8859_1,
	"l1":         charmap.ISO8859_1,
	"iso-8859-1": charmap.ISO8859_1,
	"iso8859-1":  charmap.ISO8859_1,
	"utf-8":      xunicode.UTF8,
	"utf8":       xunicode.UTF8,
	"utf-16":     xunicode.UTF16(xunicode.LittleEndian, xunicode.UseBOM),
	"utf16":      xunicode.UTF16(xunicode.LittleEndian, xunicode.UseBOM),
	"utf-16-le":  xunicode.UTF16(xunicode.LittleEndian, xunicode.IgnoreBOM),
	"utf-16le":   xunicode.UTF16(xunicode.LittleEndian, xunicode.IgnoreBOM),
	"utf-16-be":  xunicode.UTF16(xunicode.BigEndian, xunicode.IgnoreBOM),
	"utf-16be":   xunicode.UTF16(xunicode.BigEndian, xunicode.IgnoreBOM),
}

// decodePayload turns the text payload of a file element into raw bytes
// according to the element's encoding attribute.
func decodePayload(text, enc string) ([]byte, error) {
	if strings.EqualFold(enc, base64Encoding) {
		data, err := base64.StdEncoding.DecodeString(base64Alphabet(text))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadBase64, err)
		}
		return data, nil
	}

	codec, err := lookupCodec(enc)
	if err != nil {
		return nil, err
	}
	data, err := codec.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrBadEncoding, enc, err)
	}
	return data, nil
}

// lookupCodec resolves a codec name: the fixed table first, then IANA names,
// then WHATWG labels. An empty name selects UTF-8.
func lookupCodec(name string) (encoding.Encoding, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return xunicode.UTF8, nil
	}
	key := strings.ReplaceAll(strings.ToLower(name), "_", "-")
	if codec, ok := codecs[key]; ok {
		return codec, nil
	}
	if codec, err := ianaindex.IANA.Encoding(name); err == nil && codec != nil {
		return codec, nil
	}
	if codec, err := htmlindex.Get(name); err == nil {
		return codec, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrBadEncoding, name)
}

// base64Alphabet drops everything outside the standard alphabet and padding.
func base64Alphabet(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == '+', r == '/', r == '=':
			return r
		}
		return -1
	}, s)
}

// asciiCodec is a 7-bit codec that rejects anything above 0x7F both ways.
type asciiCodec struct{}

func (asciiCodec) NewDecoder() *encoding.Decoder {
	return &encoding.Decoder{Transformer: asciiTransformer{}}
}

func (asciiCodec) NewEncoder() *encoding.Encoder {
	return &encoding.Encoder{Transformer: asciiTransformer{}}
}

type asciiTransformer struct{ transform.NopResetter }

func (asciiTransformer) Transform(dst, src []byte, _ bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		if src[nSrc] >= utf8.RuneSelf {
			return nDst, nSrc, errNotASCII
		}
		if nDst >= len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		dst[nDst] = src[nSrc]
		nDst++
		nSrc++
	}
	return nDst, nSrc, nil
}
