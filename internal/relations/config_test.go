package relations

import "testing"

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestConfigValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"zero affinity rate":   func(c *Config) { c.AffinityPerSecond = 0 },
		"zero trust rate":      func(c *Config) { c.TrustGrowthRate = 0 },
		"smoothing above one":  func(c *Config) { c.TrendSmoothing = 1.5 },
		"thresholds crossed":   func(c *Config) { c.ZetaThreshold = c.AlphaThreshold },
		"friend over soulmate": func(c *Config) { c.FriendAffinity = 90 },
		"dating over lovers":   func(c *Config) { c.Dating.Attraction = 60 },
		"negative hysteresis":  func(c *Config) { c.HeartbreakHysteresis = -1 },
		"no highlights":        func(c *Config) { c.HighlightCapacity = 0 },
	}
	for name, mutate := range cases {
		cfg := DefaultConfig()
		mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}
