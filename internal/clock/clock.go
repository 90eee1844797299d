// Package clock converts the monotonic tick counter into the town calendar.
// One tick is one sim-minute.
package clock

import "fmt"

// TickSchedule defines when each system runs relative to the tick counter.
const (
	TicksPerSimHour = 60   // 60 ticks = 1 sim-hour
	TicksPerSimDay  = 1440 // 24 hours × 60
	DaysPerYear     = 120
)

// SecondsPerTick is the contact duration one tick represents.
const SecondsPerTick = 60.0

// DayPhase splits the day into nine equal segments.
type DayPhase uint8

const (
	EarlyMorning DayPhase = iota
	Morning
	Noon
	EarlyAfternoon
	Afternoon
	LateAfternoon
	Night
	Midnight
	LateNight
)

var phaseNames = [9]string{
	"Early Morning", "Morning", "Noon", "Early Afternoon", "Afternoon",
	"Late Afternoon", "Night", "Midnight", "Late Night",
}

func (p DayPhase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return fmt.Sprintf("DayPhase(%d)", p)
}

// PhaseOf returns the day phase a tick falls in.
func PhaseOf(tick uint64) DayPhase {
	minute := tick % TicksPerSimDay
	seg := minute * 9 / TicksPerSimDay
	if seg > 8 {
		seg = 8
	}
	return DayPhase(seg)
}

// Day returns the 1-based day of the year for a tick.
func Day(tick uint64) int {
	return int((tick/TicksPerSimDay)%DaysPerYear) + 1
}

// Year returns the 1-based year for a tick.
func Year(tick uint64) int {
	return int(tick/TicksPerSimDay/DaysPerYear) + 1
}

// SimTime returns a human-readable simulation time string from a tick number.
func SimTime(tick uint64) string {
	minutes := tick % 60
	hours := (tick / 60) % 24
	return fmt.Sprintf("Year %d Day %d, %d:%02d (%s)",
		Year(tick), Day(tick), hours, minutes, PhaseOf(tick))
}

// UpdateKind selects which world update report a day produces.
type UpdateKind uint8

const (
	UpdateRegular UpdateKind = iota
	UpdateFestivalMidyear
	UpdateFestivalYearEnd
	UpdateNewYear
)

func (k UpdateKind) String() string {
	switch k {
	case UpdateFestivalMidyear:
		return "festival-midyear"
	case UpdateFestivalYearEnd:
		return "festival-yearend"
	case UpdateNewYear:
		return "new-year"
	default:
		return "regular"
	}
}

// ParseUpdateKind is the inverse of UpdateKind.String. Unknown names map to
// UpdateRegular.
func ParseUpdateKind(s string) UpdateKind {
	for _, k := range []UpdateKind{UpdateFestivalMidyear, UpdateFestivalYearEnd, UpdateNewYear} {
		if k.String() == s {
			return k
		}
	}
	return UpdateRegular
}

// UpdateKindFor returns the report kind for the day containing tick, and
// whether that day is a festival or new-year day at all.
func UpdateKindFor(tick uint64) (UpdateKind, bool) {
	switch Day(tick) {
	case 1:
		if Year(tick) > 1 {
			return UpdateNewYear, true
		}
	case DaysPerYear / 2:
		return UpdateFestivalMidyear, true
	case DaysPerYear:
		return UpdateFestivalYearEnd, true
	}
	return UpdateRegular, false
}
