package mealprep

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alchemorsel/mealprep/internal/domain/mealplan"
)

func TestScheduleSlots_WeekendComplexBand(t *testing.T) {
	slots := []mealplan.Slot{{Weekday: mealplan.Saturday, MealType: mealplan.Dinner}}
	out := ScheduleSlots(slots, mealplan.Preferences{}, nil)

	assert.Len(t, out, 1)
	assert.True(t, out[0].IsWeekend)
	assert.Equal(t, 60, out[0].TimeCap)
	assert.Equal(t, mealplan.ComplexityComplex, out[0].ComplexityBand)
	assert.False(t, out[0].IsKit)
}

func TestScheduleSlots_WeekdaySimpleBand(t *testing.T) {
	slots := []mealplan.Slot{{Weekday: mealplan.Monday, MealType: mealplan.Lunch}}
	out := ScheduleSlots(slots, mealplan.Preferences{}, nil)

	assert.Equal(t, 30, out[0].TimeCap)
	assert.Equal(t, mealplan.ComplexitySimple, out[0].ComplexityBand)
}

func TestScheduleSlots_CustomMaxMinutes(t *testing.T) {
	weekday := 15
	weekend := 90
	prefs := mealplan.Preferences{WeekdayMaxMinutes: &weekday, WeekendMaxMinutes: &weekend}
	slots := []mealplan.Slot{
		{Weekday: mealplan.Monday, MealType: mealplan.Dinner},
		{Weekday: mealplan.Sunday, MealType: mealplan.Dinner},
	}
	out := ScheduleSlots(slots, prefs, nil)

	assert.Equal(t, 15, out[0].TimeCap)
	assert.Equal(t, 90, out[1].TimeCap)
}

func TestScheduleSlots_KitMode_DerivesTargetDayAndShelfLife(t *testing.T) {
	kitDays := []mealplan.Weekday{mealplan.Monday, mealplan.Tuesday, mealplan.Wednesday}
	slots := []mealplan.Slot{
		{Weekday: mealplan.Tuesday, MealType: mealplan.Dinner},
	}
	out := ScheduleSlots(slots, mealplan.Preferences{}, kitDays)

	assert.True(t, out[0].IsKit)
	assert.Equal(t, 1, out[0].TargetDayIndex)
	assert.Equal(t, 2, out[0].MinShelfLifeRequired)
}

func TestScheduleSlots_PlanMode_NeverMarksKit(t *testing.T) {
	slots := []mealplan.Slot{{Weekday: mealplan.Monday, MealType: mealplan.Dinner}}
	out := ScheduleSlots(slots, mealplan.Preferences{}, nil)

	assert.False(t, out[0].IsKit)
	assert.Equal(t, 0, out[0].TargetDayIndex)
}
