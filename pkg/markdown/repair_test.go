package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRepairBalancesDelimiters(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"already balanced", "This is **bold** text", "This is **bold** text"},
		{"unterminated bold", "This is **bold", "This is **bold**"},
		{"unterminated code", "some `code", "some `code`"},
		{"unterminated strikethrough", "~~gone", "~~gone~~"},
		{"unterminated underscore bold", "__strong", "__strong__"},
		{"empty", "", ""},
		{"plain text untouched", "no delimiters here", "no delimiters here"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Repair(tt.in))
		})
	}
}

func TestRepairEvenCounts(t *testing.T) {
	out := Repair("This is **bold")
	assert.Zero(t, strings.Count(out, "**")%2)
}

func TestRepairClassesIndependent(t *testing.T) {
	// An odd ** count must not be balanced against an odd ` count.
	out := Repair("**a and `b")
	assert.Zero(t, strings.Count(out, "**")%2)
	assert.Zero(t, strings.Count(out, "`")%2)
	assert.True(t, strings.HasPrefix(out, "**a and `b"))
}

func TestRepairIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"plain",
		"**bold",
		"`code",
		"~~strike and **bold",
		"balanced **bold** and `code`",
		"**a `b ~~c __d",
	}
	for _, in := range inputs {
		once := Repair(in)
		assert.Equal(t, once, Repair(once), "repair not idempotent for %q", in)
	}
}
