package relations

import "fmt"

// Stage names a milestone transition.
type Stage uint8

const (
	StageAcquaintance Stage = iota + 1
	StageFriend
	StageSoulmate
	StageNemesis
	StageCrush
	StageDating
	StageLovers
	StageHeartbreak
	StageCrushFaded
	StageJealousy
	StageMourning
)

var stageNames = map[Stage]string{
	StageAcquaintance: "Acquaintance",
	StageFriend:       "Friend",
	StageSoulmate:     "Soulmate",
	StageNemesis:      "Nemesis",
	StageCrush:        "Crush",
	StageDating:       "Dating",
	StageLovers:       "Lovers",
	StageHeartbreak:   "Heartbreak",
	StageCrushFaded:   "CrushFaded",
	StageJealousy:     "Jealousy",
	StageMourning:     "Mourning",
}

func (s Stage) String() string {
	if n, ok := stageNames[s]; ok {
		return n
	}
	return fmt.Sprintf("Stage(%d)", s)
}

// MarshalText encodes the stage by name.
func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Romantic reports whether the stage belongs to the romance track.
func (s Stage) Romantic() bool {
	return s >= StageCrush
}

// Transition is one milestone fired by an evaluation pass. For Heartbreak
// and CrushFaded, From is the highest stage that was lost.
type Transition struct {
	Stage Stage
	From  Stage
}

// socialRule latches a flag the first time enter holds.
type socialRule struct {
	stage Stage
	flag  func(*State) *bool
	enter func(c *Config, s *State) bool
}

// romanceRule is one rung of the reversible romance ladder. A rung may only
// be entered while the rung below it is held; it is exited (with every rung
// below it) when its gate, lowered by the hysteresis margin, no longer holds.
type romanceRule struct {
	stage      Stage
	flag       func(*State) *bool
	gate       func(c *Config) Gate
	trustGated bool
	exit       Stage
}

var socialLadder = []socialRule{
	{
		stage: StageAcquaintance,
		flag:  func(s *State) *bool { return &s.IsAcquaintances },
		enter: func(c *Config, s *State) bool { return s.Affinity >= c.AcquaintanceAffinity },
	},
	{
		stage: StageFriend,
		flag:  func(s *State) *bool { return &s.IsFriends },
		enter: func(c *Config, s *State) bool { return s.Affinity >= c.FriendAffinity },
	},
	{
		stage: StageSoulmate,
		flag:  func(s *State) *bool { return &s.IsSoulmates },
		enter: func(c *Config, s *State) bool {
			return s.Affinity >= c.SoulmateAffinity && s.Charge != ChargeZeta
		},
	},
	{
		stage: StageNemesis,
		flag:  func(s *State) *bool { return &s.IsNemesis },
		enter: func(c *Config, s *State) bool { return s.Irritation >= c.NemesisIrritation },
	},
}

var romanceLadder = []romanceRule{
	{
		stage: StageCrush,
		flag:  func(s *State) *bool { return &s.IsCrushing },
		gate:  func(c *Config) Gate { return c.Crush },
		exit:  StageCrushFaded,
	},
	{
		stage:      StageDating,
		flag:       func(s *State) *bool { return &s.IsDating },
		gate:       func(c *Config) Gate { return c.Dating },
		trustGated: true,
		exit:       StageHeartbreak,
	},
	{
		stage:      StageLovers,
		flag:       func(s *State) *bool { return &s.IsLovers },
		gate:       func(c *Config) Gate { return c.Lovers },
		trustGated: true,
		exit:       StageHeartbreak,
	},
}

// meets reports whether every metric is at or above its gate lowered by margin.
func (g Gate) meets(s *State, withTrust bool, margin float64) bool {
	if s.Affinity < g.Affinity-margin || s.Attraction < g.Attraction-margin {
		return false
	}
	return !withTrust || s.Trust >= g.Trust-margin
}

// Evaluator runs the milestone state machine over one relationship.
type Evaluator struct {
	cfg Config
}

// NewEvaluator creates an evaluator over cfg.
func NewEvaluator(cfg Config) *Evaluator {
	return &Evaluator{cfg: cfg}
}

// Evaluate updates the stage flags of s and returns the transitions that
// fired, in order: social latches, forward romance steps, then at most one
// heartbreak. Romance rules only run when romance is true.
func (e *Evaluator) Evaluate(s *State, romance bool) []Transition {
	var out []Transition

	for _, r := range socialLadder {
		if f := r.flag(s); !*f && r.enter(&e.cfg, s) {
			*f = true
			out = append(out, Transition{Stage: r.stage})
		}
	}

	if !romance {
		return out
	}

	// Forward: climb while each next rung's gate holds.
	for i, r := range romanceLadder {
		f := r.flag(s)
		if *f {
			continue
		}
		if i > 0 && !*romanceLadder[i-1].flag(s) {
			break
		}
		if !r.gate(&e.cfg).meets(s, r.trustGated, 0) {
			break
		}
		*f = true
		out = append(out, Transition{Stage: r.stage})
	}

	// Reverse: only the highest held rung is tested; breaking it drops
	// everything beneath.
	for i := len(romanceLadder) - 1; i >= 0; i-- {
		r := romanceLadder[i]
		if !*r.flag(s) {
			continue
		}
		if !r.gate(&e.cfg).meets(s, r.trustGated, e.cfg.HeartbreakHysteresis) {
			for j := 0; j <= i; j++ {
				*romanceLadder[j].flag(s) = false
			}
			out = append(out, Transition{Stage: r.exit, From: r.stage})
		}
		break
	}

	return out
}
