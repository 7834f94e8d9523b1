package rut

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	assert.Equal(t, "123456785", Clean("12.345.678-5"))
	assert.Equal(t, "6265838K", Clean("6.265.838-k"))
	assert.Equal(t, "", Clean("---"))
	assert.Equal(t, "", Clean(""))
}

func TestCheckDigit(t *testing.T) {
	assert.Equal(t, "5", CheckDigit("12345678"))
	assert.Equal(t, "1", CheckDigit("11111111"))
	assert.Equal(t, "K", CheckDigit("6265838"))
	assert.Equal(t, "", CheckDigit(""))
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("12.345.678-5"))
	assert.True(t, Valid("123456785"))
	assert.True(t, Valid("11111111-1"))
	assert.True(t, Valid("6.265.838-K"))
	assert.True(t, Valid("6265838k"))

	assert.False(t, Valid("12.345.678-9"))
	assert.False(t, Valid("1234567"))
	assert.False(t, Valid("1234567890"))
	assert.False(t, Valid(""))
	assert.False(t, Valid("K2345678K"))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "12.345.678-5", Format("123456785"))
	assert.Equal(t, "6.265.838-K", Format("6265838k"))
	assert.Equal(t, "1", Format("1"))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "123456785", Normalize("12.345.678-5"))
	assert.Equal(t, "6265838K", Normalize("6.265.838-k"))
}
