package relations

import "testing"

func stages(trs []Transition) []Stage {
	out := make([]Stage, len(trs))
	for i, tr := range trs {
		out[i] = tr.Stage
	}
	return out
}

func TestSocialLadderLatches(t *testing.T) {
	e := NewEvaluator(DefaultConfig())
	st := &State{Affinity: 35}

	got := stages(e.Evaluate(st, false))
	if len(got) != 2 || got[0] != StageAcquaintance || got[1] != StageFriend {
		t.Fatalf("got %v", got)
	}

	// Falling affinity never reverts a social stage.
	st.Affinity = -100
	if trs := e.Evaluate(st, false); len(trs) != 0 {
		t.Errorf("unexpected transitions %v", trs)
	}
	if !st.IsAcquaintances || !st.IsFriends {
		t.Error("social stage reverted")
	}
}

func TestSoulmateBlockedByZeta(t *testing.T) {
	e := NewEvaluator(DefaultConfig())
	st := &State{Affinity: 90, Charge: ChargeZeta}
	e.Evaluate(st, false)
	if st.IsSoulmates {
		t.Fatal("soulmate bond formed while souring")
	}
	st.Charge = ChargeNeutral
	e.Evaluate(st, false)
	if !st.IsSoulmates {
		t.Error("soulmate bond did not form once charge recovered")
	}
}

func TestNemesisFromIrritation(t *testing.T) {
	e := NewEvaluator(DefaultConfig())
	st := &State{Irritation: 80}
	got := stages(e.Evaluate(st, false))
	if len(got) != 1 || got[0] != StageNemesis || !st.IsNemesis {
		t.Errorf("got %v", got)
	}
}

func TestRomanceSkippedWhenIneligible(t *testing.T) {
	e := NewEvaluator(DefaultConfig())
	st := &State{Affinity: 100, Attraction: 100, Trust: 100}
	e.Evaluate(st, false)
	if st.InRomance() {
		t.Error("romance evaluated for an ineligible pair")
	}
}

func TestRomanceClimbsInOnePass(t *testing.T) {
	e := NewEvaluator(DefaultConfig())
	st := &State{Affinity: 80, Attraction: 60, Trust: 35, IsAcquaintances: true, IsFriends: true}
	got := stages(e.Evaluate(st, true))
	want := []Stage{StageCrush, StageDating, StageLovers}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("step %d: %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDatingRequiresTrust(t *testing.T) {
	e := NewEvaluator(DefaultConfig())
	st := &State{Affinity: 60, Attraction: 45, Trust: 14, IsAcquaintances: true, IsFriends: true}
	got := stages(e.Evaluate(st, true))
	if len(got) != 1 || got[0] != StageCrush {
		t.Fatalf("got %v", got)
	}
	if st.IsDating {
		t.Error("dating without trust")
	}
}

func TestHeartbreakHysteresis(t *testing.T) {
	cfg := DefaultConfig()
	e := NewEvaluator(cfg)
	st := &State{
		Affinity: cfg.Lovers.Affinity, Attraction: cfg.Lovers.Attraction, Trust: cfg.Lovers.Trust,
		IsAcquaintances: true, IsFriends: true,
		IsCrushing: true, IsDating: true, IsLovers: true,
	}

	// Just under the gate, inside the margin: nothing happens.
	st.Affinity = cfg.Lovers.Affinity - 1
	if trs := e.Evaluate(st, true); len(trs) != 0 {
		t.Fatalf("transition inside hysteresis band: %v", trs)
	}
	if !st.IsLovers {
		t.Fatal("lovers dropped inside hysteresis band")
	}

	// Exactly at T-M still holds.
	st.Affinity = cfg.Lovers.Affinity - cfg.HeartbreakHysteresis
	if trs := e.Evaluate(st, true); len(trs) != 0 {
		t.Fatalf("transition at T-M: %v", trs)
	}

	st.Affinity = cfg.Lovers.Affinity - cfg.HeartbreakHysteresis - 0.01
	trs := e.Evaluate(st, true)
	if len(trs) != 1 || trs[0].Stage != StageHeartbreak || trs[0].From != StageLovers {
		t.Fatalf("got %v", trs)
	}
	if st.InRomance() {
		t.Error("heartbreak left romance flags set")
	}
}

func TestDatingHeartbreakOnTrust(t *testing.T) {
	cfg := DefaultConfig()
	e := NewEvaluator(cfg)
	st := &State{
		Affinity: 60, Attraction: 45, Trust: cfg.Dating.Trust - cfg.HeartbreakHysteresis - 1,
		IsAcquaintances: true, IsFriends: true, IsCrushing: true, IsDating: true,
	}
	trs := e.Evaluate(st, true)
	if len(trs) != 1 || trs[0].Stage != StageHeartbreak || trs[0].From != StageDating {
		t.Fatalf("got %v", trs)
	}
	if st.IsDating || st.IsCrushing {
		t.Error("dating heartbreak left flags set")
	}
}

func TestCrushFadesWithoutTrustCheck(t *testing.T) {
	cfg := DefaultConfig()
	e := NewEvaluator(cfg)

	// Trust far below zero does not matter to a crush.
	st := &State{Affinity: 45, Attraction: 26, Trust: -50, IsAcquaintances: true, IsFriends: true, IsCrushing: true}
	if trs := e.Evaluate(st, true); len(trs) != 0 {
		t.Fatalf("crush broke on trust: %v", trs)
	}

	st.Attraction = cfg.Crush.Attraction - cfg.HeartbreakHysteresis - 1
	trs := e.Evaluate(st, true)
	if len(trs) != 1 || trs[0].Stage != StageCrushFaded {
		t.Fatalf("got %v", trs)
	}
	if st.IsCrushing {
		t.Error("crush still set")
	}
}

func TestLadderTableShape(t *testing.T) {
	if len(romanceLadder) != 3 || romanceLadder[0].trustGated {
		t.Fatal("romance ladder must be crush (no trust), dating, lovers")
	}
	for _, r := range socialLadder {
		if r.stage.Romantic() {
			t.Errorf("%v is on the social ladder", r.stage)
		}
	}
	for _, r := range romanceLadder {
		if !r.stage.Romantic() || !r.exit.Romantic() {
			t.Errorf("%v is on the romance ladder", r.stage)
		}
	}
}
