package set

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet(t *testing.T) {
	S := MakeFromSlice([]string{"key", "iv", "key"})
	assert.True(t, S.Contains("key"))
	assert.False(t, S.Contains("data"))
	assert.Len(t, S, 2)
	got := S.ToSlice()
	sort.Strings(got)
	assert.Equal(t, []string{"iv", "key"}, got)
	assert.Equal(t, "{iv, key}", S.String())
	assert.True(t, Set[int]{}.IsEmpty())
}
