package main

import "testing"

func TestParseTier(t *testing.T) {
	cases := []struct {
		raw  string
		want Tier
		ok   bool
	}{
		{"easy", TierEasy, true},
		{"MEDIUM", TierMedium, true},
		{"  hard  ", TierHard, true},
		{"impossible", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := parseTier(tc.raw)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("parseTier(%q) = (%q, %v), want (%q, %v)", tc.raw, got, ok, tc.want, tc.ok)
		}
	}
}

func TestTierParamsFallBackToMedium(t *testing.T) {
	if got := Tier("bogus").params(); got != tierTable[TierMedium] {
		t.Fatalf("expected medium fallback for unknown tier, got %+v", got)
	}
	if got := TierEasy.params(); got.OpponentSpeed != 3 || got.BallSpeed != 4 {
		t.Fatalf("unexpected easy tier params: %+v", got)
	}
	if got := TierHard.params(); got.OpponentSpeed != 6 || got.BallSpeed != 6 {
		t.Fatalf("unexpected hard tier params: %+v", got)
	}
}

func TestMatchConfigNormalized(t *testing.T) {
	cfg := matchConfig{Width: -1, Height: 0, Tier: "nope", Seed: "   "}.normalized()
	if cfg.Width != defaultSurfaceWidth || cfg.Height != defaultSurfaceHeight {
		t.Fatalf("expected default surface dimensions, got %.0fx%.0f", cfg.Width, cfg.Height)
	}
	if cfg.Tier != TierMedium {
		t.Fatalf("expected medium tier fallback, got %q", cfg.Tier)
	}
	if cfg.Seed != defaultMatchSeed {
		t.Fatalf("expected default seed, got %q", cfg.Seed)
	}

	custom := matchConfig{Width: 640, Height: 400, Tier: TierHard, Seed: "abc"}.normalized()
	if custom != (matchConfig{Width: 640, Height: 400, Tier: TierHard, Seed: "abc"}) {
		t.Fatalf("expected explicit config preserved, got %+v", custom)
	}
}

func TestComputeSurfaceSize(t *testing.T) {
	cases := []struct {
		name   string
		vw, vh float64
		wantW  float64
		wantH  float64
	}{
		{"wide viewport capped", 1920, 1080, maxSurfaceWidth, maxSurfaceHeight},
		{"exact cap", 800, 600, maxSurfaceWidth, maxSurfaceHeight},
		{"narrow width driven", 400, 700, 400, 400 * surfaceAspect},
		{"degenerate falls back", 0, 0, defaultSurfaceWidth, defaultSurfaceHeight},
	}
	for _, tc := range cases {
		w, h := computeSurfaceSize(tc.vw, tc.vh)
		if w != tc.wantW || h != tc.wantH {
			t.Fatalf("%s: computeSurfaceSize(%.0f, %.0f) = (%.2f, %.2f), want (%.2f, %.2f)",
				tc.name, tc.vw, tc.vh, w, h, tc.wantW, tc.wantH)
		}
	}
}
