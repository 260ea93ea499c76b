package contract

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"ascii hex", "48656c6c6f", "Hello"},
		{"uppercase hex", "48454C4C4F", "HELLO"},
		{"plain text passes through", "Build a website", "Build a website"},
		{"empty", "", ""},
		{"odd length", "48656c6c6", "48656c6c6"},
		{"tab newline carriage return kept", "41090a0d42", "A\t\n\rB"},
		{"control byte rejects whole input", "410142", "410142"},
		{"nul byte rejects whole input", "00", "00"},
		{"latin-1 byte above 0x7e", "e9", "é"},
		{"del byte kept", "7f", "\u007f"},
		{"surrounding whitespace trimmed", "  4869  ", "Hi"},
		{"whitespace only", "   ", "   "},
		{"hex-looking word decodes", "cafe", "Êþ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecodeText(tt.input))
		})
	}
}

func TestDecodeText_RoundTripsPrintableASCII(t *testing.T) {
	text := "Design a logo.\nDeliver SVG and PNG.\r\n\tThanks!"
	assert.Equal(t, text, DecodeText(hex.EncodeToString([]byte(text))))
}

func TestTitle(t *testing.T) {
	enc := func(s string) string { return hex.EncodeToString([]byte(s)) }

	assert.Equal(t, UntitledContract, Title("", 60))
	assert.Equal(t, UntitledContract, Title("   ", 60))
	assert.Equal(t, "Logo design", Title(enc("Logo design\nNeed a new logo"), 60))
	assert.Equal(t, "Second line", Title(enc("\nSecond line\nmore"), 60))
	assert.Equal(t, "Logo...", Title("Logo design", 4))
}

func TestSummary(t *testing.T) {
	enc := func(s string) string { return hex.EncodeToString([]byte(s)) }

	assert.Equal(t, "", Summary("", 150))
	assert.Equal(t, "", Summary(enc("Only a title"), 150))
	assert.Equal(t, "Body line one\nBody line two", Summary(enc("Title\nBody line one\nBody line two\n"), 150))
	assert.Equal(t, "Body...", Summary(enc("Title\nBody line"), 4))
}

func TestTruncate_CountsRunes(t *testing.T) {
	assert.Equal(t, "héllo", Truncate("héllo", 5))
	assert.Equal(t, "hé...", Truncate("héllo", 2))
}

func TestAbbreviate(t *testing.T) {
	assert.Equal(t, "short", Abbreviate("short", 6, 4))
	assert.Equal(t, "02a1b2...e5f6", Abbreviate("02a1b2c3d4e5f6", 6, 4))
}
