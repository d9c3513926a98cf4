package internal

import (
	"maps"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIterSeq2Concat(t *testing.T) {
	assert := assert.New(t)

	first := map[string]string{"A": "1", "B": "2"}
	second := map[string]string{"B": "3", "C": "4"}

	merged := maps.Collect(IterSeq2Concat(maps.All(first), maps.All(second)))
	assert.Equal(map[string]string{"A": "1", "B": "3", "C": "4"}, merged)

	var keys []int
	for key := range IterSeq2Concat(slices.All([]string{"a", "b"}), slices.All([]string{"c"})) {
		keys = append(keys, key)
		if len(keys) == 2 {
			break
		}
	}
	assert.Equal([]int{0, 1}, keys)

	empty := maps.Collect(IterSeq2Concat[string, string]())
	assert.Empty(empty)
}
