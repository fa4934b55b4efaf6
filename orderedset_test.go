package cachingcollections

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderedSetAddReportsNewness(t *testing.T) {
	s := newOrderedSet[int]()

	assert.True(t, s.Add(1))
	assert.False(t, s.Add(1))
	assert.True(t, s.Add(2))
	assert.Equal(t, 2, s.Len())
}

func TestOrderedSetPreservesInsertionOrder(t *testing.T) {
	s := newOrderedSet[string]()
	s.Add("c")
	s.Add("a")
	s.Add("b")

	assert.Equal(t, []string{"c", "a", "b"}, s.Snapshot())
}

func TestOrderedSetClearDropsEverything(t *testing.T) {
	s := newOrderedSet[int]()
	s.Add(1)
	s.Add(2)

	s.Clear()

	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Contains(1))
}

func TestOrderedSetRangeStopsEarly(t *testing.T) {
	s := newOrderedSet[int]()
	for i := 0; i < 5; i++ {
		s.Add(i)
	}

	var seen []int
	s.Range(func(x int) bool {
		seen = append(seen, x)
		return x < 2
	})

	assert.Equal(t, []int{0, 1, 2}, seen)
}
