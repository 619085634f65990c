package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
	"pgregory.net/rapid"
)

func TestTruncateText(t *testing.T) {
	tp := NewTextProcessor(zaptest.NewLogger(t))

	assert.Equal(t, "short", tp.TruncateText("short", 10))
	assert.Equal(t, "anything", tp.TruncateText("anything", 0))
	assert.Equal(t, "abc"+TruncationMarker, tp.TruncateText("abcdef", 3))

	// "é" is two bytes; cutting through it must not leave half a rune
	got := tp.TruncateText("aé", 2)
	assert.Equal(t, "a"+TruncationMarker, got)
}

func TestSanitizeUTF8(t *testing.T) {
	tp := NewTextProcessor(zaptest.NewLogger(t))

	assert.Equal(t, "héllo", tp.SanitizeUTF8("héllo"))
	assert.Equal(t, "ab", tp.SanitizeUTF8("a\xffb"))
}

func TestProcessText(t *testing.T) {
	tp := NewTextProcessor(zaptest.NewLogger(t))
	assert.Equal(t, "ab"+TruncationMarker, tp.ProcessText("a\xffbcd", 2))
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "", TruncateRunes("abc", 0))
	assert.Equal(t, "abc", TruncateRunes("abc", 5))
	assert.Equal(t, "日本", TruncateRunes("日本語", 2))
}

func TestTruncateRunesProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := rapid.String().Draw(t, "s")
		n := rapid.IntRange(0, 50).Draw(t, "n")

		got := TruncateRunes(s, n)
		if utf8.RuneCountInString(got) > n {
			t.Fatalf("got %d runes, limit %d", utf8.RuneCountInString(got), n)
		}
		if !strings.HasPrefix(s, got) {
			t.Fatalf("%q is not a prefix of %q", got, s)
		}
	})
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{name: "bare", in: `{"a":1}`, want: `{"a":1}`, ok: true},
		{name: "fenced", in: "```json\n{\"label\": \"email\"}\n```", want: `{"label": "email"}`, ok: true},
		{name: "prose", in: `Sure! {"x": {"y": 2}} hope that helps`, want: `{"x": {"y": 2}}`, ok: true},
		{name: "none", in: "no json here", ok: false},
		{name: "reversed", in: "} then {", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSONObject(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
