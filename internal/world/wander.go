package world

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

// WanderField steers agents around town with smooth simplex noise, so each
// agent drifts in runs rather than jittering from tick to tick.
type WanderField struct {
	noise  opensimplex.Noise
	radius int
}

// NewWanderField creates a field over a town of the given hex radius.
func NewWanderField(seed int64, radius int) *WanderField {
	return &WanderField{
		noise:  opensimplex.NewNormalized(seed + 500),
		radius: radius,
	}
}

// Radius returns the town radius agents are kept within.
func (w *WanderField) Radius() int {
	return w.radius
}

// Step returns where an agent at pos moves on this tick: one of its six
// neighbours, or pos itself. Moves that would leave the town are refused.
func (w *WanderField) Step(agentKey uint64, pos HexCoord, tick uint64) HexCoord {
	// Agents sample separate rows of the field; time scrolls slowly.
	x := float64(agentKey%4096) * 7.31
	y := float64(tick) * 0.05
	n := octaveNoise(w.noise, x, y, 2, 1.0, 0.5)

	// Map [0,1) onto 6 directions plus "stay" (the middle band).
	slot := int(n * 7)
	if slot >= 7 {
		slot = 6
	}
	if slot == 3 {
		return pos
	}
	if slot > 3 {
		slot--
	}
	next := pos.Neighbors()[slot]
	if Distance(next, HexCoord{}) > w.radius {
		return pos
	}
	return next
}

// octaveNoise generates fractal noise by layering multiple frequencies.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}
