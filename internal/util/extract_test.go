package util

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateUTF8KeepsWholeRunes(t *testing.T) {
	s := "a" + strings.Repeat("é", maxResumeText)

	got := truncateUTF8(s, maxResumeText)
	assert.True(t, utf8.ValidString(got))
	assert.Len(t, got, maxResumeText-1)
	assert.True(t, strings.HasPrefix(s, got))
}

func TestTruncateUTF8(t *testing.T) {
	assert.Equal(t, "short", truncateUTF8("short", 10))
	assert.Equal(t, "ab", truncateUTF8("abcd", 2))
	assert.Equal(t, "", truncateUTF8("日本", 2))
	assert.Equal(t, "日", truncateUTF8("日本", 4))
}
