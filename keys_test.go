package mtree

import (
	"math"
	"math/bits"
)

// hammingKey and euclideanKey are test-only fixtures implementing the Key
// contract. The package itself never ships a concrete key type; the choice
// of key type and distance function is left to callers.

// hammingKey is a 64-bit key under the Hamming metric (popcount of XOR).
type hammingKey uint64

func (h hammingKey) Distance(other hammingKey) float64 {
	return float64(bits.OnesCount64(uint64(h ^ other)))
}

// euclideanKey is a fixed-dimension key under the L2 metric.
type euclideanKey []float64

func (e euclideanKey) Distance(other euclideanKey) float64 {
	var sum float64
	for i := range e {
		d := e[i] - other[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

func newEuclideanKey(dims int, fill func(i int) float64) euclideanKey {
	k := make(euclideanKey, dims)
	for i := range k {
		k[i] = fill(i)
	}
	return k
}
