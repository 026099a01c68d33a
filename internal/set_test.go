package internal

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringSet(t *testing.T) {
	s := NewStringSet()

	// Test Add and Contains
	s.Add("a.bin")
	s.Add("b.bin")
	s.Add("a.bin") // Add duplicate

	assert.True(t, s.Contains("a.bin"))
	assert.True(t, s.Contains("b.bin"))
	assert.False(t, s.Contains("c.bin"))

	// Test Len
	assert.Equal(t, 2, s.Len())

	// Test Remove
	s.Remove("a.bin")
	assert.False(t, s.Contains("a.bin"))
	assert.Equal(t, 1, s.Len())

	// Test Elements
	s.Add("c.bin")
	elements := s.Elements()
	sort.Strings(elements)
	assert.Equal(t, []string{"b.bin", "c.bin"}, elements)
}

func TestStringSetAddIfAbsent(t *testing.T) {
	s := NewStringSet("x")

	assert.False(t, s.AddIfAbsent("x"))
	assert.True(t, s.AddIfAbsent("y"))
	assert.False(t, s.AddIfAbsent("y"))
	assert.Equal(t, 2, s.Len())
}
