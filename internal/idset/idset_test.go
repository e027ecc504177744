package idset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testContainer(t *testing.T, c Container[string]) {
	t.Helper()

	assert.True(t, c.Add("a"))
	assert.False(t, c.Add("a"), "duplicate add should be a no-op")
	assert.True(t, c.Add("b"))
	assert.Equal(t, 2, c.Len())
	assert.True(t, c.Contains("a"))
	assert.False(t, c.Contains("z"))

	seen := map[string]bool{}
	c.Each(func(id string) { seen[id] = true })
	assert.Equal(t, map[string]bool{"a": true, "b": true}, seen)

	assert.True(t, c.Remove("a"))
	assert.False(t, c.Remove("a"))
	assert.Equal(t, 1, c.Len())
	assert.False(t, c.Contains("a"))
}

func TestHashSet(t *testing.T) {
	testContainer(t, NewHashSet[string]())
}

func TestVec(t *testing.T) {
	testContainer(t, NewVec[string]())
}

func TestSmallVec(t *testing.T) {
	testContainer(t, NewSmallVec[string](2))
}

func TestSmallVecOverflowsPastInlineCap(t *testing.T) {
	v := NewSmallVec[int](2)
	for i := 0; i < 10; i++ {
		assert.True(t, v.Add(i))
	}
	assert.Equal(t, 10, v.Len())
	for i := 0; i < 10; i++ {
		assert.True(t, v.Contains(i))
	}
}

func TestNewByPolicy(t *testing.T) {
	assert.IsType(t, &HashSet[string]{}, New[string](PolicyHashSet, 0))
	assert.IsType(t, &Vec[string]{}, New[string](PolicyVec, 0))
	assert.IsType(t, &SmallVec[string]{}, New[string](PolicySmallVec, 4))
}
