package minhash

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSolveBandParamsMeetsRecallBound(t *testing.T) {
	b, r := SolveBandParams(0.8, 128, 0.99)
	assert.LessOrEqual(t, b*r, 128)
	recall := 1 - math.Pow(1-math.Pow(0.8, float64(r)), float64(b))
	assert.GreaterOrEqual(t, recall, 0.99-1e-9)
}

func TestSolveBandParamsDefaultsProbability(t *testing.T) {
	b1, r1 := SolveBandParams(0.7, 100, 0)
	b2, r2 := SolveBandParams(0.7, 100, 0.99)
	assert.Equal(t, b1, b2)
	assert.Equal(t, r1, r2)
}

func TestSolveBandParamsDegenerateThreshold(t *testing.T) {
	b, r := SolveBandParams(0, 64, 0.99)
	assert.Equal(t, 64, b)
	assert.Equal(t, 1, r)
}
