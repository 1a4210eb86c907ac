package deob

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeLiteral(t *testing.T) {
	tests := []struct {
		literal string
		want    string
	}{
		{`'plain'`, "plain"},
		{`""`, ""},
		{`"\x48ello"`, "Hello"},
		{`'A\u{1F600}'`, "A\U0001F600"},
		{`'😀'`, "\U0001F600"},
		{`'a\nb\tc\r\b\f\v\0'`, "a\nb\tc\r\b\f\v\x00"},
		{`'it\'s'`, "it's"},
		{`"say \"hi\""`, `say "hi"`},
		{`'back\\slash'`, `back\slash`},
		{`'\q\é'`, "qé"},
		{`'\xZZ'`, "xZZ"},
		{`'trunc\x4'`, "trunc"},
		{`'trunc\u00'`, "trunc"},
		{`'dangling\'`, "dangling"},
		{"`tpl`", "tpl"},
		{`'héllo'`, "héllo"},
		{`'\ud83d'`, "�"},
	}

	for _, tt := range tests {
		t.Run(tt.literal, func(t *testing.T) {
			got, err := DecodeLiteral(tt.literal)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeLiteralRejectsNonLiterals(t *testing.T) {
	for _, text := range []string{``, `'`, `abc`, `'mismatch"`, `0x10`, `"` + strings.Repeat("a", 80)} {
		_, err := DecodeLiteral(text)
		assert.ErrorIs(t, err, ErrNotAStringLiteral, text)
	}
}

func TestEncodeLiteralRoundTrip(t *testing.T) {
	samples := []string{
		"",
		"Hello",
		`"quoted" and 'single'`,
		`back\slash`,
		"line\nbreak\r\ttab",
		"\x00\x01\x1f\x7f",
		"héllo wörld",
		"日本語",
		"\U0001F600 emoji",
		"  ",
		"<script>&</script>",
		"`template ${x}`",
	}

	for _, s := range samples {
		lit := EncodeLiteral(s)

		require.True(t, len(lit) >= 2, lit)
		assert.Equal(t, byte('"'), lit[0])
		assert.Equal(t, byte('"'), lit[len(lit)-1])
		assert.NotContains(t, lit, "\n")

		got, err := DecodeLiteral(lit)
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
}

func TestEncodeLiteralKeepsNonASCII(t *testing.T) {
	assert.Equal(t, `"Helloé world"`, EncodeLiteral("Helloé world"))
	assert.Equal(t, `"<a>"`, EncodeLiteral("<a>"))
}
