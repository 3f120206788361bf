package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizedEmail(t *testing.T) {
	assert.Equal(t, "j***@*******.com", SanitizedEmail("jane@example.com"))
	assert.Equal(t, "a@*******.com", SanitizedEmail("a@example.com"))
	assert.Equal(t, "[invalid-email]", SanitizedEmail("not-an-email"))
}

func TestSanitizeQueryString(t *testing.T) {
	assert.True(t, SanitizeQueryString("email=jane%40example.com"))
	assert.True(t, SanitizeQueryString("OTP=123456"))
	assert.True(t, SanitizeQueryString("reset_token=abc"))
	assert.False(t, SanitizeQueryString("limit=50&offset=0"))
	assert.False(t, SanitizeQueryString(""))
}

func TestRedactedAttr(t *testing.T) {
	attr := RedactedAttr("email", "jane@example.com", "production")
	assert.Equal(t, "[REDACTED]", attr.Value.String())

	attr = RedactedAttr("email", "jane@example.com", "development")
	assert.Equal(t, "jane@example.com", attr.Value.String())
}
