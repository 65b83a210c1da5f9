package main

import (
	"hash/fnv"
	"math"
	"math/rand"
)

func deterministicSeedValue(rootSeed, label string) int64 {
	hasher := fnv.New64a()
	hasher.Write([]byte(rootSeed))
	hasher.Write([]byte{0})
	hasher.Write([]byte(label))
	sum := hasher.Sum64()
	if sum == 0 {
		sum = 1
	}
	return int64(sum)
}

// newDeterministicRNG derives a stable RNG from a root seed and a stream
// label so match replays in tests do not depend on wall-clock entropy.
func newDeterministicRNG(rootSeed, label string) *rand.Rand {
	return rand.New(rand.NewSource(deterministicSeedValue(rootSeed, label)))
}

// launchVelocity picks a serve: angle uniform within the launch cone either
// side of horizontal, magnitude from the tier, horizontal direction split
// 50/50.
func launchVelocity(rng *rand.Rand, speed float64) (float64, float64) {
	angle := (rng.Float64()*2 - 1) * launchMaxDeg * math.Pi / 180
	direction := 1.0
	if rng.Intn(2) == 0 {
		direction = -1.0
	}
	vx := math.Cos(angle) * speed * direction
	vy := math.Sin(angle) * speed
	return vx, vy
}

func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
