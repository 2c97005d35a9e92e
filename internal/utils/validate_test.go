package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	assert.True(t, ValidateUsername("jane_doe42"))
	assert.True(t, ValidateUsername("abc"))

	assert.False(t, ValidateUsername("ab"), "too short")
	assert.False(t, ValidateUsername("jane doe"), "spaces not allowed")
	assert.False(t, ValidateUsername("jane-doe"), "dashes not allowed")
	assert.False(t, ValidateUsername(""))
}

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("jane@example.com"))
	assert.False(t, ValidateEmail("jane@example"))
	assert.False(t, ValidateEmail("janeexample.com"))
	assert.False(t, ValidateEmail("jane @example.com"))
	assert.False(t, ValidateEmail(""))
}

func TestValidateFullName(t *testing.T) {
	assert.True(t, ValidateFullName("Jane Doe"))
	assert.True(t, ValidateFullName("Jo"))

	assert.False(t, ValidateFullName("J"))
	assert.False(t, ValidateFullName("Jane42"))
	assert.False(t, ValidateFullName(""))
}

func TestValidatePassword(t *testing.T) {
	assert.True(t, ValidatePassword("secret!"))
	assert.True(t, ValidatePassword("a1b2c#"))

	assert.False(t, ValidatePassword("s!"), "too short")
	assert.False(t, ValidatePassword("secret1"), "needs a special symbol")
	assert.False(t, ValidatePassword(""))
}
