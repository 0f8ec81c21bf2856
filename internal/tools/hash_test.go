package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentHashOf_DeterministicAndHexEncoded(t *testing.T) {
	a := contentHashOf("hello world")
	b := contentHashOf("hello world")
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)

	c := contentHashOf("hello World")
	assert.NotEqual(t, a, c)
}
