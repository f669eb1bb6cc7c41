package random

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestCryptoSource_Range(t *testing.T) {
	src := NewCryptoSource()
	for i := 0; i < 1000; i++ {
		v := src.Intn(6)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 6)
	}
}

func TestCryptoSource_PanicsOnZero(t *testing.T) {
	assert.Panics(t, func() { NewCryptoSource().Intn(0) })
}

func TestSeededSource_PanicsOnNegative(t *testing.T) {
	assert.Panics(t, func() { NewSeededSource(1).Intn(-1) })
}

func TestSeededSource_SameSeedSameSequence(t *testing.T) {
	a := NewSeededSource(42)
	b := NewSeededSource(42)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Intn(1000), b.Intn(1000))
	}
}

func TestShuffle_EmptyAndSingle(t *testing.T) {
	src := NewSeededSource(7)
	var empty []int
	Shuffle(src, empty)
	assert.Empty(t, empty)

	one := []string{"only"}
	Shuffle(src, one)
	assert.Equal(t, []string{"only"}, one)
}

func TestPropertyShuffleIsPermutation(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		seed := rapid.Uint64().Draw(t, "seed")
		list := rapid.SliceOf(rapid.IntRange(0, 50)).Draw(t, "list")

		counts := make(map[int]int)
		for _, v := range list {
			counts[v]++
		}
		shuffled := append([]int(nil), list...)
		Shuffle(NewSeededSource(seed), shuffled)

		assert.Len(t, shuffled, len(list))
		for _, v := range shuffled {
			counts[v]--
		}
		for v, c := range counts {
			assert.Zero(t, c, "value %d count changed", v)
		}
	})
}

func TestPropertySeededSourceInRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		seed := rapid.Uint64().Draw(t, "seed")
		n := rapid.IntRange(1, 1_000_000).Draw(t, "n")
		v := NewSeededSource(seed).Intn(n)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, n)
	})
}
