package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/talgya/cozy-town/internal/agents"
	"github.com/talgya/cozy-town/internal/clock"
	"github.com/talgya/cozy-town/internal/relations"
)

// TopRelationships is how many trending relationships a report lists.
const TopRelationships = 5

// RelationSource is the slice of the relationship system a report reads.
type RelationSource interface {
	TopByAbsTrend(n int) []relations.State
	AppendRecentHighlights(sink io.Writer, maxCount int) error
}

// Input is everything Build needs for one report.
type Input struct {
	Tick      uint64
	Counters  Snapshot
	Relations RelationSource
	// Name resolves agent ids for the trending list. Optional.
	Name func(agents.AgentID) string
}

// HighlightCount returns how many highlights a report of kind includes.
// The mid-year festival report is the short one.
func HighlightCount(kind clock.UpdateKind) int {
	if kind == clock.UpdateFestivalMidyear {
		return 6
	}
	return 10
}

// Title returns the report heading for kind.
func Title(kind clock.UpdateKind) string {
	switch kind {
	case clock.UpdateFestivalMidyear:
		return "World Update: Midsummer Festival"
	case clock.UpdateFestivalYearEnd:
		return "World Update: Year's End Festival"
	case clock.UpdateNewYear:
		return "World Update: New Year"
	default:
		return "World Update"
	}
}

func flavor(kind clock.UpdateKind) string {
	switch kind {
	case clock.UpdateFestivalMidyear:
		return "The city celebrates. Bonds shift in the crowd."
	case clock.UpdateFestivalYearEnd:
		return "A year closes. Some hearts harden. Some open."
	case clock.UpdateNewYear:
		return "A new year begins. Old debts remain. New chances appear."
	default:
		return ""
	}
}

// Build renders a world update report as plain text.
func Build(kind clock.UpdateKind, in Input) string {
	var b strings.Builder

	b.WriteString(Title(kind) + "\n")
	fmt.Fprintf(&b, "Year %d, Day %d (the %s day of the year)\n\n",
		clock.Year(in.Tick), clock.Day(in.Tick), humanize.Ordinal(clock.Day(in.Tick)))

	c := in.Counters
	p := c.Population
	b.WriteString("Town\n")
	fmt.Fprintf(&b, "Population: %s souls (Peasants %s | Heroes %s | Monsters %s | Tax collectors %s)\n",
		comma(p.Total()), comma(p.Peasants), comma(p.Heroes), comma(p.Monsters), comma(p.TaxCollectors))
	fmt.Fprintf(&b, "Deaths: %s, of which %s monsters slain\n", comma(c.Deaths), comma(c.MonstersSlain))
	fmt.Fprintf(&b, "Milestones: %s social, %s romance\n\n", comma(c.SocialMilestones), comma(c.RomanceMilestones))

	if in.Relations != nil {
		if top := in.Relations.TopByAbsTrend(TopRelationships); len(top) > 0 {
			b.WriteString("Shifting Bonds\n")
			for _, rel := range top {
				fmt.Fprintf(&b, "- %s and %s: trend %+.2f (%s), affinity %.0f\n",
					in.name(rel.IDLow), in.name(rel.IDHigh), rel.Trend, rel.Charge, rel.Affinity)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("Recent Highlights\n")
	if in.Relations != nil {
		_ = in.Relations.AppendRecentHighlights(&b, HighlightCount(kind)) // a partial list still renders
	} else {
		b.WriteString("(no highlights yet)\n")
	}

	if f := flavor(kind); f != "" {
		b.WriteString("\n" + f + "\n")
	}
	return b.String()
}

func (in Input) name(id agents.AgentID) string {
	if in.Name != nil {
		if n := in.Name(id); n != "" {
			return n
		}
	}
	return fmt.Sprintf("Agent#%d", id)
}

func comma(n int) string {
	return humanize.Comma(int64(n))
}
