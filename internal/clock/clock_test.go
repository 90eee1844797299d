package clock

import "testing"

func TestPhaseOf(t *testing.T) {
	cases := []struct {
		tick uint64
		want DayPhase
	}{
		{0, EarlyMorning},
		{TicksPerSimDay/9 - 1, EarlyMorning},
		{TicksPerSimDay / 9, Morning},
		{TicksPerSimDay / 2, Afternoon},
		{TicksPerSimDay - 1, LateNight},
		{TicksPerSimDay, EarlyMorning},
	}
	for _, c := range cases {
		if got := PhaseOf(c.tick); got != c.want {
			t.Errorf("PhaseOf(%d) = %v, want %v", c.tick, got, c.want)
		}
	}
}

func TestDayAndYear(t *testing.T) {
	if Day(0) != 1 || Year(0) != 1 {
		t.Fatalf("tick 0: day %d year %d", Day(0), Year(0))
	}
	tick := uint64(TicksPerSimDay * DaysPerYear)
	if Day(tick) != 1 || Year(tick) != 2 {
		t.Errorf("first tick of year 2: day %d year %d", Day(tick), Year(tick))
	}
}

func TestUpdateKindFor(t *testing.T) {
	day := func(d int) uint64 { return uint64(d-1) * TicksPerSimDay }

	if _, ok := UpdateKindFor(day(1)); ok {
		t.Error("first day of the first year is not a new-year report")
	}
	if k, ok := UpdateKindFor(day(DaysPerYear / 2)); !ok || k != UpdateFestivalMidyear {
		t.Errorf("midyear: got %v %v", k, ok)
	}
	if k, ok := UpdateKindFor(day(DaysPerYear)); !ok || k != UpdateFestivalYearEnd {
		t.Errorf("year end: got %v %v", k, ok)
	}
	if k, ok := UpdateKindFor(day(DaysPerYear + 1)); !ok || k != UpdateNewYear {
		t.Errorf("new year: got %v %v", k, ok)
	}
	if _, ok := UpdateKindFor(day(7)); ok {
		t.Error("ordinary day reported as festival")
	}
}

func TestParseUpdateKind(t *testing.T) {
	for _, k := range []UpdateKind{UpdateRegular, UpdateFestivalMidyear, UpdateFestivalYearEnd, UpdateNewYear} {
		if got := ParseUpdateKind(k.String()); got != k {
			t.Errorf("ParseUpdateKind(%q) = %v", k.String(), got)
		}
	}
	if ParseUpdateKind("bogus") != UpdateRegular {
		t.Error("unknown kind should be regular")
	}
}
