package relations

import (
	"math"

	"github.com/talgya/cozy-town/internal/agents"
)

// Trait chemistry coefficients. Traits are on a 0–10 scale centred at
// agents.TraitMidpoint.
const (
	kindnessBonus      = 0.06
	warmthMatchPoint   = 5.0
	warmthBonus        = 0.04
	witTolerance       = 3.0
	witPenalty         = 0.03
	driveScale         = 0.1
	loyaltyScale       = 0.08
	attractionDecay    = 0.5
	trustDecay         = 0.3
	frictionLow        = 50.0
	frictionHigh       = 100.0
	frictionFloorRatio = -0.6
)

// Model holds the pure per-contact arithmetic. It never touches milestones.
type Model struct {
	cfg Config
}

// NewModel creates a model over cfg.
func NewModel(cfg Config) Model {
	return Model{cfg: cfg}
}

// AffinityDelta returns the affinity change for dt seconds of contact.
// Either traits pointer may be nil, in which case chemistry is skipped and
// only the base gain (bent by irritation) applies.
func (m Model) AffinityDelta(a, b *agents.Traits, st *State, dt float64) float64 {
	base := m.cfg.AffinityPerSecond * dt

	// High irritation turns contact sour.
	friction := inverseLerp(frictionLow, frictionHigh, st.Irritation)
	net := lerp(base, base*frictionFloorRatio, friction)

	if a != nil && b != nil {
		kindAvg := (a.Kindness + b.Kindness) * 0.5
		net += base * (kindAvg - agents.TraitMidpoint) * kindnessBonus

		warmthDiff := abs(a.Warmth - b.Warmth)
		net += base * (warmthMatchPoint - warmthDiff) * warmthBonus

		witDiff := abs(a.Wit - b.Wit)
		net -= base * max(0, witDiff-witTolerance) * witPenalty
	}
	return net
}

// ApplyAffinity adds delta to the state's affinity.
func (m Model) ApplyAffinity(st *State, delta float64) {
	st.Affinity = clamp(st.Affinity+delta, -100, 100)
}

// ApplyTrend folds delta into the trend EMA and reclassifies the charge.
func (m Model) ApplyTrend(st *State, delta float64) {
	st.Trend = clamp(lerp(st.Trend, clamp(delta, -1, 1), m.cfg.TrendSmoothing), -1, 1)
	st.Charge = m.ChargeOf(st.Trend)
}

// ChargeOf classifies a trend value.
func (m Model) ChargeOf(trend float64) Charge {
	switch {
	case trend >= m.cfg.AlphaThreshold:
		return ChargeAlpha
	case trend <= m.cfg.ZetaThreshold:
		return ChargeZeta
	default:
		return ChargeNeutral
	}
}

// ApplyIrritation grows irritation while the trend is negative and lets it
// ebb at half rate otherwise.
func (m Model) ApplyIrritation(st *State, dt float64) {
	rate := m.cfg.IrritationPerSecond * dt
	if st.Trend < 0 {
		st.Irritation = clamp(st.Irritation+rate, 0, 100)
	} else {
		st.Irritation = clamp(st.Irritation-rate*0.5, 0, 100)
	}
}

// ApplyAttraction grows attraction by the pair's charm and flirtiness, or
// decays it while the trend is negative. Callers only invoke this for
// romance-eligible pairs.
func (m Model) ApplyAttraction(a, b *agents.Traits, st *State, dt float64) {
	var growth float64
	if st.Trend < 0 {
		growth = -m.cfg.AttractionGrowthRate * attractionDecay * dt
	} else {
		drive := 0.0
		if a != nil && b != nil {
			charmAvg := (a.Charm + b.Charm) * 0.5
			flirtAvg := (a.Flirtiness + b.Flirtiness) * 0.5
			drive = (charmAvg + flirtAvg - 2*agents.TraitMidpoint) * driveScale
		}
		growth = m.cfg.AttractionGrowthRate * dt * (1 + drive)
	}
	st.Attraction = clamp(st.Attraction+growth, 0, 100)
}

// ApplyTrust grows trust by the pair's loyalty once they have spent
// TrustSkinTimeGate seconds in contact, and erodes it slowly while the trend
// is negative.
func (m Model) ApplyTrust(a, b *agents.Traits, st *State, dt float64) {
	if st.SkinTime < m.cfg.TrustSkinTimeGate {
		return
	}
	var growth float64
	if st.Trend >= 0 {
		boost := 1.0
		if a != nil && b != nil {
			loyaltyAvg := (a.Loyalty + b.Loyalty) * 0.5
			boost = 1 + (loyaltyAvg-agents.TraitMidpoint)*loyaltyScale
		}
		growth = m.cfg.TrustGrowthRate * dt * boost
	} else {
		growth = -m.cfg.TrustGrowthRate * trustDecay * dt
	}
	st.Trust = clamp(st.Trust+growth, -100, 100)
}

// clamp bounds v to [lo, hi]. NaN is treated as zero.
func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		v = 0
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*clamp(t, 0, 1)
}

// inverseLerp maps v from [lo, hi] onto [0, 1], clamped.
func inverseLerp(lo, hi, v float64) float64 {
	if hi == lo {
		return 0
	}
	return clamp((v-lo)/(hi-lo), 0, 1)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
