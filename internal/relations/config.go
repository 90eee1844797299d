package relations

import (
	"errors"
	"fmt"
)

// Gate is the set of minimums a romance stage requires.
type Gate struct {
	Affinity   float64 `json:"affinity"`
	Attraction float64 `json:"attraction"`
	Trust      float64 `json:"trust"`
}

// Config holds every rate and threshold of the relationship model.
type Config struct {
	// Growth rates, per second of contact.
	AffinityPerSecond   float64 `json:"affinity_per_second"`
	IrritationPerSecond float64 `json:"irritation_per_second"`

	// Momentum. TrendSmoothing is the EMA weight of the newest delta.
	TrendSmoothing float64 `json:"trend_smoothing"`
	AlphaThreshold float64 `json:"alpha_threshold"`
	ZetaThreshold  float64 `json:"zeta_threshold"`

	// Social milestones (one-way).
	AcquaintanceAffinity float64 `json:"acquaintance_affinity"`
	FriendAffinity       float64 `json:"friend_affinity"`
	SoulmateAffinity     float64 `json:"soulmate_affinity"`
	NemesisIrritation    float64 `json:"nemesis_irritation"`

	// Romance gates. Crush ignores Trust.
	Crush  Gate `json:"crush"`
	Dating Gate `json:"dating"`
	Lovers Gate `json:"lovers"`

	AttractionGrowthRate float64 `json:"attraction_growth_rate"`
	TrustGrowthRate      float64 `json:"trust_growth_rate"`
	// TrustSkinTimeGate is how many seconds of contact a pair needs before
	// trust moves at all.
	TrustSkinTimeGate float64 `json:"trust_skin_time_gate"`
	// HeartbreakHysteresis is subtracted from each gate before a held romance
	// stage is considered broken.
	HeartbreakHysteresis float64 `json:"heartbreak_hysteresis"`

	// JealousyIrritation is added to a prior partner's irritation when their
	// partner starts dating someone else.
	JealousyIrritation float64 `json:"jealousy_irritation"`

	HighlightCapacity int `json:"highlight_capacity"`
}

// DefaultConfig returns the tuning the town ships with: a slow sim where
// friendships take in-game days of contact.
func DefaultConfig() Config {
	return Config{
		AffinityPerSecond:   0.12,
		IrritationPerSecond: 0.08,

		TrendSmoothing: 0.04,
		AlphaThreshold: 0.22,
		ZetaThreshold:  -0.22,

		AcquaintanceAffinity: 10,
		FriendAffinity:       30,
		SoulmateAffinity:     85,
		NemesisIrritation:    80,

		Crush:  Gate{Affinity: 40, Attraction: 25},
		Dating: Gate{Affinity: 55, Attraction: 40, Trust: 15},
		Lovers: Gate{Affinity: 70, Attraction: 55, Trust: 30},

		AttractionGrowthRate: 0.06,
		TrustGrowthRate:      0.04,
		TrustSkinTimeGate:    30,
		HeartbreakHysteresis: 10,

		JealousyIrritation: 15,

		HighlightCapacity: 120,
	}
}

// Validate reports the first inconsistency in the configuration.
func (c Config) Validate() error {
	if c.AffinityPerSecond <= 0 || c.IrritationPerSecond <= 0 {
		return errors.New("affinity and irritation rates must be positive")
	}
	if c.AttractionGrowthRate <= 0 || c.TrustGrowthRate <= 0 {
		return errors.New("attraction and trust growth rates must be positive")
	}
	if c.TrendSmoothing <= 0 || c.TrendSmoothing > 1 {
		return fmt.Errorf("trend smoothing %v outside (0, 1]", c.TrendSmoothing)
	}
	if c.ZetaThreshold >= c.AlphaThreshold {
		return fmt.Errorf("zeta threshold %v must be below alpha threshold %v", c.ZetaThreshold, c.AlphaThreshold)
	}
	if !(c.AcquaintanceAffinity <= c.FriendAffinity && c.FriendAffinity <= c.SoulmateAffinity) {
		return errors.New("social thresholds must rise acquaintance <= friend <= soulmate")
	}
	if c.Crush.Affinity > c.Dating.Affinity || c.Dating.Affinity > c.Lovers.Affinity ||
		c.Crush.Attraction > c.Dating.Attraction || c.Dating.Attraction > c.Lovers.Attraction ||
		c.Dating.Trust > c.Lovers.Trust {
		return errors.New("romance gates must rise crush <= dating <= lovers")
	}
	if c.HeartbreakHysteresis < 0 || c.TrustSkinTimeGate < 0 || c.JealousyIrritation < 0 {
		return errors.New("hysteresis, trust gate and jealousy must be non-negative")
	}
	if c.HighlightCapacity <= 0 {
		return fmt.Errorf("highlight capacity %d must be positive", c.HighlightCapacity)
	}
	return nil
}
