package mealprep

import (
	"github.com/alchemorsel/mealprep/internal/domain/mealplan"
)

const (
	defaultWeekdayMaxMinutes = 30
	defaultWeekendMaxMinutes = 60
)

// ScheduledSlot is the Slot Scheduler's per-slot output (spec.md §4.1): a
// Slot plus the derived scheduling metadata the rest of the pipeline
// consumes. TargetDayIndex and MinShelfLifeRequired are only meaningful
// for kit requests; IsKit distinguishes the two so a zero TargetDayIndex
// (a legitimate Monday-first-day value) is never mistaken for "not a kit".
type ScheduledSlot struct {
	Slot                 mealplan.Slot
	Index                int
	IsWeekend            bool
	TimeCap              int
	ComplexityBand       mealplan.ComplexityBand
	IsKit                bool
	TargetDayIndex       int
	MinShelfLifeRequired int
}

// ScheduleSlots computes per-slot metadata for a plan (kitDays == nil) or a
// kit (kitDays is the kit's day list, used to derive TargetDayIndex and
// MinShelfLifeRequired). Complexity band is derived deterministically
// (spec.md §4.1) so identical inputs always produce the same band mix.
func ScheduleSlots(slots []mealplan.Slot, prefs mealplan.Preferences, kitDays []mealplan.Weekday) []ScheduledSlot {
	weekdayMax := defaultWeekdayMaxMinutes
	if prefs.WeekdayMaxMinutes != nil {
		weekdayMax = *prefs.WeekdayMaxMinutes
	}
	weekendMax := defaultWeekendMaxMinutes
	if prefs.WeekendMaxMinutes != nil {
		weekendMax = *prefs.WeekendMaxMinutes
	}

	dayIndex := make(map[mealplan.Weekday]int, len(kitDays))
	for i, d := range kitDays {
		dayIndex[d] = i
	}

	out := make([]ScheduledSlot, len(slots))
	for i, slot := range slots {
		isWeekend := slot.Weekday.IsWeekend()

		timeCap := weekdayMax
		if isWeekend {
			timeCap = weekendMax
		}

		band := complexityBand(isWeekend, timeCap, i)

		ss := ScheduledSlot{
			Slot:           slot,
			Index:          i,
			IsWeekend:      isWeekend,
			TimeCap:        timeCap,
			ComplexityBand: band,
		}

		if kitDays != nil {
			ss.IsKit = true
			if idx, ok := dayIndex[slot.Weekday]; ok {
				ss.TargetDayIndex = idx
				ss.MinShelfLifeRequired = idx + 1
			}
		}

		out[i] = ss
	}

	return out
}

// complexityBand implements spec.md §4.1's deterministic rule:
// complex iff weekend AND time_cap >= 60 AND slot-index is even;
// medium iff weekend OR time_cap > 30; simple otherwise.
func complexityBand(isWeekend bool, timeCap, slotIndex int) mealplan.ComplexityBand {
	if isWeekend && timeCap >= 60 && slotIndex%2 == 0 {
		return mealplan.ComplexityComplex
	}
	if isWeekend || timeCap > 30 {
		return mealplan.ComplexityMedium
	}
	return mealplan.ComplexitySimple
}
