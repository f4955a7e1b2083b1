package lexer

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
	"unicode/utf8"
)

var ErrUnterminated = errors.New("unterminated literal")

// Unquote decodes the text of a STRING or CHAR token, quotes included.
func Unquote(text string) (string, error) {
	if len(text) == 0 {
		return "", ErrUnterminated
	}
	quote := text[0]
	if quote != '"' && quote != '\'' {
		return "", fmt.Errorf("invalid literal %q", text)
	}
	if len(text) < 2 || text[len(text)-1] != quote {
		return "", ErrUnterminated
	}
	body := text[1 : len(text)-1]
	if !evenBackslashes(body) {
		return "", ErrUnterminated
	}

	var sb strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			sb.WriteByte(c)
			continue
		}
		i++
		if i >= len(body) {
			return "", ErrUnterminated
		}
		switch body[i] {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case '0':
			sb.WriteByte(0)
		case '\\', '"', '\'':
			sb.WriteByte(body[i])
		case 'u':
			if i+4 >= len(body) {
				return "", fmt.Errorf("invalid unicode escape in %s", text)
			}
			var r rune
			for _, h := range body[i+1 : i+5] {
				d, ok := hexValue(byte(h))
				if !ok {
					return "", fmt.Errorf("invalid unicode escape in %s", text)
				}
				r = r<<4 | rune(d)
			}
			sb.WriteRune(r)
			i += 4
		default:
			return "", fmt.Errorf("unknown escape sequence \\%c", body[i])
		}
	}
	return sb.String(), nil
}

// UnquoteChar decodes a CHAR token, which must hold exactly one rune.
func UnquoteChar(text string) (string, error) {
	s, err := Unquote(text)
	if err != nil {
		return "", err
	}
	if utf8.RuneCountInString(s) != 1 {
		return "", fmt.Errorf("character literal %s must hold exactly one character", text)
	}
	return s, nil
}

// ParseInteger decodes the text of an INTEGER token.
func ParseInteger(text string) (*big.Int, error) {
	base := 10
	if len(text) > 1 && text[0] == '0' {
		switch text[1] {
		case 'b', 'B', 'o', 'O', 'x', 'X':
			base = 0
		}
	}
	n, ok := new(big.Int).SetString(text, base)
	if !ok {
		return nil, fmt.Errorf("invalid integer literal %q", text)
	}
	return n, nil
}

// RealPrec is the mantissa precision of real values.
const RealPrec = 256

// ParseReal decodes the text of a REAL token.
func ParseReal(text string) (*big.Float, error) {
	f, _, err := big.ParseFloat(text, 10, RealPrec, big.ToNearestEven)
	if err != nil {
		return nil, fmt.Errorf("invalid real literal %q: %w", text, err)
	}
	if f.IsInf() {
		return nil, fmt.Errorf("real literal %q out of range", text)
	}
	return f, nil
}

func evenBackslashes(s string) bool {
	n := 0
	for i := len(s) - 1; i >= 0 && s[i] == '\\'; i-- {
		n++
	}
	return n%2 == 0
}

func hexValue(c byte) (int, bool) {
	switch {
	case '0' <= c && c <= '9':
		return int(c - '0'), true
	case 'a' <= c && c <= 'f':
		return int(c-'a') + 10, true
	case 'A' <= c && c <= 'F':
		return int(c-'A') + 10, true
	}
	return 0, false
}
