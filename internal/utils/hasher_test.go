package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHash(t *testing.T) {
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", Hash(""))
	assert.Equal(t, Hash("a|b"), Hash("a", "b"))
	assert.NotEqual(t, Hash("ab"), Hash("a", "b"))
}

func TestShortHash(t *testing.T) {
	assert.Len(t, ShortHash(12, "padma.jpg", "1"), 12)
	assert.Equal(t, Hash("x")[:8], ShortHash(8, "x"))
	assert.Equal(t, Hash("x"), ShortHash(0, "x"))
	assert.Equal(t, Hash("x"), ShortHash(100, "x"))
}
