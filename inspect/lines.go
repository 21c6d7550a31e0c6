package inspect

import "unicode/utf8"

// SplitLines splits s at line boundaries. Besides "\n", "\r" and "\r\n" the
// vertical tab, form feed, file/group/record separators, NEL and the Unicode
// line and paragraph separators end a line. A trailing boundary does not
// produce an empty last line.
func SplitLines(s string) []string {
	var (
		lines []string
		start int
	)
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !isLineBreak(r) {
			i += size
			continue
		}
		lines = append(lines, s[start:i])
		i += size
		if r == '\r' && i < len(s) && s[i] == '\n' {
			i++
		}
		start = i
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}
