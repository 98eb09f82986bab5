package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perplexuser/chatroom/internal/errors"
)

func requireInvalidInput(t *testing.T, err error, fragment string) {
	t.Helper()
	require.Error(t, err)
	e, ok := err.(*errors.ErrorWithStatusCode)
	require.True(t, ok, "error should be ErrorWithStatusCode")
	assert.Equal(t, 400, e.StatusCode)
	assert.Contains(t, e.Message, fragment, "error should name the field and bound")
}

func TestPostValidatorName(t *testing.T) {
	v := &PostValidator{}

	assert.NoError(t, v.Name("alice"))
	assert.NoError(t, v.Name(strings.Repeat("a", 50)))
	// 50 runes of multi-byte text is within bounds even though it is >50 bytes
	assert.NoError(t, v.Name(strings.Repeat("я", 50)))

	requireInvalidInput(t, v.Name(""), "name")
	requireInvalidInput(t, v.Name(strings.Repeat("a", 51)), "50")
	requireInvalidInput(t, v.Name(strings.Repeat("я", 51)), "50")
}

func TestPostValidatorEmail(t *testing.T) {
	v := &PostValidator{}

	assert.NoError(t, v.Email("alice@example.com"))
	// 252 runes but over 255 bytes; the bound counts characters
	assert.NoError(t, v.Email(strings.Repeat("я", 240)+"@example.com"))

	requireInvalidInput(t, v.Email(""), "email")
	requireInvalidInput(t, v.Email("not-an-address"), "email")
	longLocal := strings.Repeat("a", 250) + "@example.com"
	requireInvalidInput(t, v.Email(longLocal), "255")
	requireInvalidInput(t, v.Email(strings.Repeat("я", 250)+"@example.com"), "255")
}

func TestPostValidatorText(t *testing.T) {
	v := &PostValidator{}

	assert.NoError(t, v.Text("hi"))
	assert.NoError(t, v.Text(strings.Repeat("a", 1000)), "exactly 1000 characters is accepted")

	requireInvalidInput(t, v.Text(""), "text")
	requireInvalidInput(t, v.Text(strings.Repeat("a", 1001)), "1000")
}
