package ocr

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// TokenKind classifies what a text region turned out to hold.
type TokenKind int

const (
	TokenAmount TokenKind = iota
	TokenAllIn
	TokenFold
)

// Token is a normalized region reading: a chip amount or a status literal.
type Token struct {
	Kind   TokenKind
	Amount float64
}

// NormalizeToken maps raw OCR text to a token. The status literals are
// checked before any numeric repair, so "FOLD" never turns into a number via
// the O→0 rule.
func NormalizeToken(raw string) (Token, error) {
	letters := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) {
			return unicode.ToUpper(r)
		}
		return -1
	}, raw)

	switch letters {
	case "ALLIN":
		return Token{Kind: TokenAllIn}, nil
	case "FOLD":
		return Token{Kind: TokenFold}, nil
	}

	v, err := NormalizeAmount(raw)
	if err != nil {
		return Token{}, err
	}
	return Token{Kind: TokenAmount, Amount: v}, nil
}

// NormalizeAmount parses an OCR'd chip amount. Repairs are a small fixed set
// of deterministic substitutions for glyphs the engine reliably confuses;
// anything that still fails to parse is rejected, never guessed.
func NormalizeAmount(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("empty text")
	}

	// Currency and unit markers carry no numeric information.
	for _, sym := range []string{"€", "$", "£"} {
		s = strings.ReplaceAll(s, sym, "")
	}
	s = strings.TrimSpace(s)
	if up := strings.ToUpper(s); strings.HasSuffix(up, "BB") {
		s = strings.TrimSpace(s[:len(s)-2])
	}

	// Spaces inside the number are thousands separators.
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', ' ', ' ':
			return -1
		}
		return r
	}, s)

	var b strings.Builder
	for _, r := range s {
		switch r {
		case 'l', 'I', '|':
			b.WriteRune('1')
		case 'O', 'o':
			b.WriteRune('0')
		case ',':
			b.WriteRune('.')
		default:
			b.WriteRune(r)
		}
	}
	s = b.String()

	// A stray B among digits is a misread 8.
	if strings.ContainsRune(s, 'B') {
		candidate := strings.ReplaceAll(s, "B", "8")
		if isNumeric(candidate) {
			s = candidate
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", raw)
	}
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("implausible amount: %q", raw)
	}
	return v, nil
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' {
			return false
		}
	}
	return true
}
