package contract

import (
	"encoding/hex"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// UntitledContract is the title used for an empty work description.
const UntitledContract = "Untitled Contract"

// DecodeText turns a hex-encoded description into display text.
//
// Input that is not even-length hexadecimal is returned unchanged, since the
// backend may already have supplied plain text. Decoded bytes keep TAB, LF
// and CR, printable ASCII, and bytes above 0x7E (read as Latin-1 code
// points). Any other control byte means the input was not really encoded
// text, and the original string is returned.
func DecodeText(s string) string {
	clean := strings.TrimSpace(s)
	if clean == "" || len(clean)%2 != 0 || !isHex(clean) {
		return s
	}

	raw, err := hex.DecodeString(clean)
	if err != nil {
		return s
	}
	for _, b := range raw {
		if b < 0x20 && b != '\t' && b != '\n' && b != '\r' {
			return s
		}
	}

	text, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return s
	}
	return string(text)
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// Title extracts a short title from a work description: the first non-empty
// line among the first two, truncated to max runes.
func Title(description string, max int) string {
	if strings.TrimSpace(description) == "" {
		return UntitledContract
	}

	text := DecodeText(description)
	lines := strings.Split(text, "\n")
	first := strings.TrimSpace(lines[0])
	if first != "" {
		return Truncate(first, max)
	}

	if len(lines) > 1 {
		if second := strings.TrimSpace(lines[1]); second != "" {
			return Truncate(second, max)
		}
	}
	return Truncate(text, max)
}

// Summary returns the description without its title line, truncated to max
// runes. A single-line description has no summary.
func Summary(description string, max int) string {
	if strings.TrimSpace(description) == "" {
		return ""
	}

	lines := strings.Split(DecodeText(description), "\n")
	if len(lines) <= 1 {
		return ""
	}
	rest := strings.TrimSpace(strings.Join(lines[1:], "\n"))
	return Truncate(rest, max)
}

// Truncate shortens s to max runes, marking the cut with "...".
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}

// Abbreviate keeps the first start and last end characters of a key or txid.
func Abbreviate(s string, start, end int) string {
	if s == "" || len(s) <= start+end {
		return s
	}
	return s[:start] + "..." + s[len(s)-end:]
}
