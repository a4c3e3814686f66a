package ident

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAlphanumeric_LengthAndCharset(t *testing.T) {
	pattern := regexp.MustCompile(`^[A-Za-z0-9]+$`)

	for _, n := range []int{ShortIDLength, NoteIDLength, 16} {
		s, err := Alphanumeric(n)
		assert.NoError(t, err)
		assert.Len(t, s, n)
		assert.Regexp(t, pattern, s)
	}
}

func TestAlphanumeric_NoObviousRepeats(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		s, err := Alphanumeric(NoteIDLength)
		assert.NoError(t, err)
		assert.False(t, seen[s], "generated duplicate identifier %s", s)
		seen[s] = true
	}
}

func TestEditCode(t *testing.T) {
	code, err := EditCode()
	assert.NoError(t, err)
	assert.Len(t, code, 32)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{32}$`), code)

	other, err := EditCode()
	assert.NoError(t, err)
	assert.NotEqual(t, code, other)
}
