package utils

import (
	"math/rand"

	"github.com/pkg/errors"
)

// SampleRandomIntRange samples a random integer within a range given by [min, max]
// using the given rand.Rand.
func SampleRandomIntRange(min, max int, r *rand.Rand) int {
	return r.Intn(max-min+1) + min
}

// SampleWithoutReplacement draws k distinct indices uniformly from [0, n) using a partial
// Fisher-Yates shuffle. The result is in draw order. All randomness comes from r so a seeded
// generator reproduces the same sequence of draws.
func SampleWithoutReplacement(n, k int, r *rand.Rand) ([]int, error) {
	if k < 0 || k > n {
		return nil, errors.Errorf("cannot sample %d distinct indices from %d", k, n)
	}
	pool := make([]int, n)
	for i := range pool {
		pool[i] = i
	}
	for i := 0; i < k; i++ {
		j := SampleRandomIntRange(i, n-1, r)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k], nil
}
