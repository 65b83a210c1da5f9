package main

import "strings"

const defaultMatchSeed = "arcade"

// Tier names one of the three difficulty presets.
type Tier string

const (
	TierEasy   Tier = "easy"
	TierMedium Tier = "medium"
	TierHard   Tier = "hard"
)

// tierParams holds the speed constants a tier maps to.
type tierParams struct {
	OpponentSpeed float64
	BallSpeed     float64
}

var tierTable = map[Tier]tierParams{
	TierEasy:   {OpponentSpeed: 3, BallSpeed: 4},
	TierMedium: {OpponentSpeed: 4.5, BallSpeed: 5},
	TierHard:   {OpponentSpeed: 6, BallSpeed: 6},
}

func parseTier(raw string) (Tier, bool) {
	switch Tier(strings.ToLower(strings.TrimSpace(raw))) {
	case TierEasy:
		return TierEasy, true
	case TierMedium:
		return TierMedium, true
	case TierHard:
		return TierHard, true
	}
	return "", false
}

func (t Tier) params() tierParams {
	if params, ok := tierTable[t]; ok {
		return params
	}
	return tierTable[TierMedium]
}

// matchConfig captures the knobs used when constructing a match session.
type matchConfig struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Tier   Tier    `json:"tier"`
	Seed   string  `json:"seed"`
}

// normalized returns a config with defaults applied.
func (cfg matchConfig) normalized() matchConfig {
	normalized := cfg
	if normalized.Width <= 0 {
		normalized.Width = defaultSurfaceWidth
	}
	if normalized.Height <= 0 {
		normalized.Height = defaultSurfaceHeight
	}
	if _, ok := tierTable[normalized.Tier]; !ok {
		normalized.Tier = TierMedium
	}
	normalized.Seed = strings.TrimSpace(normalized.Seed)
	if normalized.Seed == "" {
		normalized.Seed = defaultMatchSeed
	}
	return normalized
}

// defaultMatchConfig uses the full-size surface, medium tier, and default seed.
func defaultMatchConfig() matchConfig {
	return matchConfig{
		Width:  defaultSurfaceWidth,
		Height: defaultSurfaceHeight,
		Tier:   TierMedium,
		Seed:   defaultMatchSeed,
	}
}

// computeSurfaceSize maps a viewport to the drawing surface dimensions: capped
// at the full size on wide layouts, width-driven with a fixed aspect on narrow
// ones.
func computeSurfaceSize(viewportWidth, viewportHeight float64) (float64, float64) {
	if viewportWidth <= 0 || viewportHeight <= 0 {
		return defaultSurfaceWidth, defaultSurfaceHeight
	}
	if viewportWidth >= maxSurfaceWidth {
		return maxSurfaceWidth, maxSurfaceHeight
	}
	width := viewportWidth
	height := width * surfaceAspect
	return width, height
}
