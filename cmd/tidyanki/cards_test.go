package main

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestOneLine(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "short text unchanged", in: "bonjour", want: "bonjour"},
		{name: "newlines flattened", in: "front\nback", want: "front back"},
		{name: "long text truncated", in: strings.Repeat("a", 130), want: strings.Repeat("a", 117) + "..."},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, oneLine(tt.in))
		})
	}
}

func TestOneLine_TruncatesOnRuneBoundary(t *testing.T) {
	got := oneLine(strings.Repeat("é", 130))

	assert.Equal(t, strings.Repeat("é", 117)+"...", got)
	assert.True(t, utf8.ValidString(got))
	assert.NotContains(t, got, string(utf8.RuneError))
}
