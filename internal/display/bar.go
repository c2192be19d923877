// Package display renders a boss health reading as the two-part message
// players see: a header naming the boss and a bar with the numeric reading.
package display

import (
	"fmt"
	"math"
	"strings"

	"github.com/gabe/bossbar/internal/tracker"
)

// Reading is everything needed to draw one health display.
type Reading struct {
	Team   string
	Boss   string
	Health tracker.Health
}

// Meter is the computed shape of a health bar.
type Meter struct {
	Filled  int
	Empty   int
	Current int
	Max     int
}

// maxOverheal bounds how far past size an overhealed bar may grow.
const maxOverheal = 10

// Bar sizes a health bar of width size. Negative health clamps to an empty
// bar. Overheal is not capped below maxOverheal times size, so Filled may
// exceed size; Empty never goes below zero. A zero or non-finite reading
// draws an empty bar.
func Bar(h tracker.Health, size int) Meter {
	current := math.Max(0, h.Current)

	filled := 0
	if ratio := current / h.Max; h.Max > 0 && !math.IsNaN(ratio) && !math.IsInf(ratio, 0) {
		filled = int(math.Round(math.Min(ratio, maxOverheal) * float64(size)))
	}
	if filled < 0 {
		filled = 0
	}
	empty := size - filled
	if empty < 0 {
		empty = 0
	}
	return Meter{
		Filled:  filled,
		Empty:   empty,
		Current: ceil(current),
		Max:     ceil(h.Max),
	}
}

// ceil rounds v up to an int, reading non-finite values as 0 and saturating
// at the int32 range.
func ceil(v float64) int {
	switch {
	case math.IsNaN(v), math.IsInf(v, 0):
		return 0
	case v > math.MaxInt32:
		return math.MaxInt32
	case v < math.MinInt32:
		return math.MinInt32
	}
	return int(math.Ceil(v))
}

const barChar = "="

// Markup renders r as Brickadia rich text. The bar is separated from its
// numeric reading by a line break in middle-print mode and a space otherwise.
func Markup(r Reading, size int, middlePrint bool) (info, bar string) {
	m := Bar(r.Health, size)

	info = fmt.Sprintf(`<color="c00"><b>%s Health</></> <color="900">(%s)</>`, r.Team, r.Boss)

	sep := " "
	if middlePrint {
		sep = "<br>"
	}
	bar = fmt.Sprintf(`<color="aaa">[<color="0a0">%s</><color="a00">%s</>]</>%s<b>%d</><color="aaa">/</>%d`,
		strings.Repeat(barChar, m.Filled),
		strings.Repeat(barChar, m.Empty),
		sep,
		m.Current,
		m.Max,
	)
	return info, bar
}

// MiddlePrint joins info and bar into the single centered message used in
// middle-print mode. The leading breaks push it below the crosshair.
func MiddlePrint(info, bar string) string {
	return strings.Repeat("<br>", 4) + info + "<br>" + bar
}
