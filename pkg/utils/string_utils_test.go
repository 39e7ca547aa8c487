package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPadNumber(t *testing.T) {
	assert.Equal(t, "0001", PadNumber(1, 4))
	assert.Equal(t, "0042", PadNumber(42, 4))
	assert.Equal(t, "12345", PadNumber(12345, 4))
}

func TestNullIfEmpty(t *testing.T) {
	blank := "   "
	value := "Rua A"

	assert.Nil(t, NullIfEmpty(nil))
	assert.Nil(t, NullIfEmpty(&blank))
	if assert.NotNil(t, NullIfEmpty(&value)) {
		assert.Equal(t, "Rua A", *NullIfEmpty(&value))
	}
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("contato@bairroverde.org"))
	assert.True(t, IsValidEmail(" Contato@BairroVerde.org "))
	assert.False(t, IsValidEmail("contato@"))
	assert.False(t, IsValidEmail("sem-arroba.org"))
}

func TestGetenvInt(t *testing.T) {
	t.Setenv("ASSOCIA_TEST_INT", "")
	n, err := GetenvInt("ASSOCIA_TEST_INT", 5)
	assert.NoError(t, err)
	assert.Equal(t, 5, n)

	t.Setenv("ASSOCIA_TEST_INT", "12")
	n, err = GetenvInt("ASSOCIA_TEST_INT", 5)
	assert.NoError(t, err)
	assert.Equal(t, 12, n)

	t.Setenv("ASSOCIA_TEST_INT", "doze")
	_, err = GetenvInt("ASSOCIA_TEST_INT", 5)
	assert.Error(t, err)
}
