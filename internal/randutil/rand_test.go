package randutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIsDeterministic(t *testing.T) {
	a := New(42)
	b := New(42)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Int64(), b.Int64())
	}
}

func TestNewDiffersBySeed(t *testing.T) {
	a := New(1)
	b := New(2)

	same := 0
	for i := 0; i < 32; i++ {
		if a.Int64() == b.Int64() {
			same++
		}
	}
	assert.Less(t, same, 32)
}

func TestNextSeedFollowsMaster(t *testing.T) {
	assert.Equal(t, NextSeed(New(7)), NextSeed(New(7)))
}
