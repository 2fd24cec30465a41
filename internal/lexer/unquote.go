package lexer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

var errBadEscape = errors.New("invalid escape sequence")

// Unquote decodes the text of a string or character literal, quotes
// included.
func Unquote(lit string) (string, error) {
	if len(lit) < 2 || lit[0] != lit[len(lit)-1] || (lit[0] != '"' && lit[0] != '\'') {
		return "", fmt.Errorf("malformed literal %q", lit)
	}
	body := lit[1 : len(lit)-1]
	if !strings.ContainsRune(body, '\\') {
		return body, nil
	}
	var b strings.Builder
	for i := 0; i < len(body); {
		if body[i] != '\\' {
			b.WriteByte(body[i])
			i++
			continue
		}
		if i+1 >= len(body) {
			return "", errBadEscape
		}
		switch c := body[i+1]; c {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '0':
			b.WriteByte(0)
		case '\\', '\'', '"':
			b.WriteByte(c)
		case 'x':
			if i+4 > len(body) {
				return "", errBadEscape
			}
			v, err := strconv.ParseUint(body[i+2:i+4], 16, 8)
			if err != nil {
				return "", errBadEscape
			}
			b.WriteByte(byte(v))
			i += 4
			continue
		case 'u':
			end := strings.IndexByte(body[i:], '}')
			if end < 0 || i+3 > i+end || body[i+2] != '{' {
				return "", errBadEscape
			}
			v, err := strconv.ParseUint(body[i+3:i+end], 16, 32)
			if err != nil || !utf8.ValidRune(rune(v)) {
				return "", errBadEscape
			}
			b.WriteRune(rune(v))
			i += end + 1
			continue
		default:
			return "", errBadEscape
		}
		i += 2
	}
	return b.String(), nil
}

// UnquoteChar decodes a character literal to its code point.
func UnquoteChar(lit string) (rune, error) {
	s, err := Unquote(lit)
	if err != nil {
		return 0, err
	}
	if len(s) == 1 {
		return rune(s[0]), nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || size != len(s) {
		return 0, errors.New("character literal must hold exactly one character")
	}
	return r, nil
}
