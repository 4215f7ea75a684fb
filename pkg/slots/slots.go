package slots

import (
	"ScheduleSync/internal/entity"
	"time"
)

const Step = 30 * time.Minute

type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Busy is an existing booking interval, half-open [Start, End).
type Busy struct {
	Start time.Time
	End   time.Time
}

func (s Slot) Overlaps(b Busy) bool {
	return s.Start.Before(b.End) && s.End.After(b.Start)
}

// AvailableSlotsForDate walks the day's working window in 30 minute steps, starting no earlier
// than now rounded up to the next half hour, and keeps every slot that no busy interval overlaps.
// The date's location decides the wall clock of the working hours.
func AvailableSlotsForDate(hours entity.WorkingHours, busy []Busy, date, now time.Time) []Slot {
	day := hours.ForDay(date.Weekday())
	if !day.Enabled {
		return []Slot{}
	}

	startMin, err := entity.ParseClock(day.Start)
	if err != nil {
		return []Slot{}
	}
	endMin, err := entity.ParseClock(day.End)
	if err != nil || endMin <= startMin {
		return []Slot{}
	}

	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayStart := midnight.Add(time.Duration(startMin) * time.Minute)
	dayEnd := midnight.Add(time.Duration(endMin) * time.Minute)

	cursor := dayStart
	if earliest := CeilToStep(now.In(date.Location())); earliest.After(cursor) {
		cursor = earliest
	}

	slots := []Slot{}
	for ; !cursor.Add(Step).After(dayEnd); cursor = cursor.Add(Step) {
		slot := Slot{Start: cursor, End: cursor.Add(Step)}
		if !overlapsAny(slot, busy) {
			slots = append(slots, slot)
		}
	}
	return slots
}

// CeilToStep rounds t up to the next half hour of its own wall clock; exact half hours are kept.
func CeilToStep(t time.Time) time.Time {
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	elapsed := t.Sub(midnight)
	rounded := (elapsed + Step - 1) / Step * Step
	return midnight.Add(rounded)
}

func overlapsAny(slot Slot, busy []Busy) bool {
	for _, b := range busy {
		if slot.Overlaps(b) {
			return true
		}
	}
	return false
}
