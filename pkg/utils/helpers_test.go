package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoinURL(t *testing.T) {
	assert.Equal(t, "host/path/x", JoinURL("host", "path", "x"))
	assert.Equal(t, "host/x", JoinURL("host", "", "x"))
	assert.Equal(t, "http://host:8080/api/vX", JoinURL("http://host:8080/", "/api/vX/"))
	assert.Equal(t, "", JoinURL("", ""))
}

func TestFormatID(t *testing.T) {
	// JSON decoding yields float64 for numeric ids
	assert.Equal(t, "1", FormatID(float64(1)))
	assert.Equal(t, "1000000", FormatID(float64(1000000)))
	assert.Equal(t, "42", FormatID(42))
	assert.Equal(t, "abc", FormatID("abc"))
	assert.Equal(t, "", FormatID(nil))
}
