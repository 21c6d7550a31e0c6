// Package inspect decides how file content is rendered to a terminal.
package inspect

import (
	"encoding/base64"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
)

// Threshold is the minimum share of printable runes for content to count as text.
const Threshold = 0.6

// Kind is the outcome of [Classify].
type Kind int

const (
	KindEmpty Kind = iota
	KindText
	KindBinary
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindText:
		return "text"
	case KindBinary:
		return "binary"
	default:
		return "unknown"
	}
}

const (
	EmptyMarker  = "(empty file)"
	BinaryPrefix = "(binary data, base64): "
)

// Content is classified file content.
type Content struct {
	Kind Kind
	data []byte
}

// Classify inspects data. It only looks at the bytes, so equal input always
// yields an equal classification.
func Classify(data []byte) Content {
	c := Content{data: data}
	switch {
	case len(data) == 0:
		c.Kind = KindEmpty
	case !utf8.Valid(data):
		c.Kind = KindBinary
	case isBlank(data):
		c.Kind = KindBinary
	case PrintableRatio(data) >= Threshold:
		c.Kind = KindText
	default:
		c.Kind = KindBinary
	}
	return c
}

// Lines renders c for display. Text yields its lines, binary content a single
// base64 line and empty content the empty marker.
func (c Content) Lines() []string {
	switch c.Kind {
	case KindEmpty:
		return []string{EmptyMarker}
	case KindText:
		return SplitLines(string(c.data))
	default:
		return []string{BinaryPrefix + base64.StdEncoding.EncodeToString(c.data)}
	}
}

// PrintableRatio returns the share of runes in data that are printable or one
// of '\n', '\r' and '\t'. data is expected to be valid UTF-8.
func PrintableRatio(data []byte) float64 {
	var total, printable int
	for _, r := range string(data) {
		total++
		if unicode.IsPrint(r) || r == '\n' || r == '\r' || r == '\t' {
			printable++
		}
	}
	return float64(printable) / float64(max(total, 1))
}

// isBlank reports whether data holds nothing but whitespace. The information
// separators 0x1C-0x1F count as whitespace.
func isBlank(data []byte) bool {
	return strings.TrimFunc(string(data), isSpace) == ""
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

// MIME returns the detected media type of data, e.g. "text/plain; charset=utf-8".
func MIME(data []byte) string {
	return mimetype.Detect(data).String()
}
