package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "", TruncateRunes("abc", 0))
	assert.Equal(t, "", TruncateRunes("abc", -1))
	assert.Equal(t, "abc", TruncateRunes("abc", 3))
	assert.Equal(t, "abc", TruncateRunes("abc", 10))
	assert.Equal(t, "ab", TruncateRunes("abc", 2))

	// 多字节字符按字符数截断，不能截出半个字符
	assert.Equal(t, "指针", TruncateRunes("指针入门", 2))
	got := TruncateRunes(strings.Repeat("课程内容", 100), 7)
	assert.Equal(t, 7, len([]rune(got)))
}
