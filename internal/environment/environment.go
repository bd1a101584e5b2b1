// Package environment models the seasonal pond conditions organisms react
// to: a cyclic month, water quality and temperature drawn per month, and
// the condition predicates driving encystment, excystment, and division.
package environment

import (
	"math/rand"
)

// Season groups months by the condition ranges they draw from.
type Season uint8

const (
	SeasonWinter    Season = iota // Dec, Jan, Feb
	SeasonSummer                  // Jun, Jul, Aug
	SeasonTemperate               // Mar–May, Sep–Nov
)

// String returns a human-readable season name.
func (s Season) String() string {
	switch s {
	case SeasonWinter:
		return "winter"
	case SeasonSummer:
		return "summer"
	case SeasonTemperate:
		return "temperate"
	default:
		return "unknown"
	}
}

// SeasonOf returns the season a month belongs to.
func SeasonOf(month int) Season {
	switch month {
	case 12, 1, 2:
		return SeasonWinter
	case 6, 7, 8:
		return SeasonSummer
	default:
		return SeasonTemperate
	}
}

// TempCategory classifies a month's season. It is a function of the month,
// never of the drawn temperature value.
type TempCategory uint8

const (
	TempNormal TempCategory = iota
	TempSubZero
	TempExtremeHot
)

// String returns the category name used in API payloads.
func (t TempCategory) String() string {
	switch t {
	case TempNormal:
		return "normal"
	case TempSubZero:
		return "sub-zero"
	case TempExtremeHot:
		return "extreme hot"
	default:
		return "unknown"
	}
}

// Environment holds the current month and the condition values drawn for
// it. One instance lives for a whole simulation; Advance mutates it every
// tick.
type Environment struct {
	Month        int
	WaterQuality int // 0–100
	Temperature  int
	Category     TempCategory
}

// New creates an environment for a starting month and draws its initial
// conditions. Callers validate the month; values outside 1–12 are the
// caller's bug, not checked here.
func New(month int, rng *rand.Rand) *Environment {
	e := &Environment{Month: month}
	e.redraw(rng)
	return e
}

// Advance moves to the next month (December wraps to January) and redraws
// water quality and temperature from the new month's ranges.
func (e *Environment) Advance(rng *rand.Rand) {
	if e.Month == 12 {
		e.Month = 1
	} else {
		e.Month++
	}
	e.redraw(rng)
}

// redraw samples conditions for the current month. Water quality is always
// drawn before temperature so a fixed seed replays identically.
func (e *Environment) redraw(rng *rand.Rand) {
	switch SeasonOf(e.Month) {
	case SeasonWinter:
		e.WaterQuality = rng.Intn(50)
		e.Temperature = -20 + rng.Intn(30)
		e.Category = TempSubZero
	case SeasonSummer:
		e.WaterQuality = 50 + rng.Intn(50)
		e.Temperature = 30 + rng.Intn(30)
		e.Category = TempExtremeHot
	default:
		e.WaterQuality = 75 + rng.Intn(25)
		e.Temperature = 15 + rng.Intn(10)
		e.Category = TempNormal
	}
}

// EncystmentCondition reports hostile water: poor quality or a seasonal
// temperature extreme.
func (e *Environment) EncystmentCondition() bool {
	return e.WaterQuality < 50 || e.Category == TempSubZero || e.Category == TempExtremeHot
}

// ExcystmentCondition reports water healthy enough to leave dormancy.
func (e *Environment) ExcystmentCondition() bool {
	return e.WaterQuality >= 50 && e.Category == TempNormal
}

// DivisionCondition is the same gate as excystment: both dormancy exit and
// division require a normal, healthy month.
func (e *Environment) DivisionCondition() bool {
	return e.ExcystmentCondition()
}
