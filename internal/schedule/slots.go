package schedule

// Slots generates the ordered bookable slot labels between start and end at
// the given step. The end boundary is exclusive: slots are produced while the
// current label is strictly before end, so end itself is never a slot. An
// inverted window (start >= end) or non-positive step yields no slots rather
// than an error.
func Slots(start, end TimeOfDay, stepMinutes int) []TimeOfDay {
	if stepMinutes <= 0 {
		return nil
	}
	from := start.Minutes()
	to := end.Minutes()
	if from >= to {
		return nil
	}
	slots := make([]TimeOfDay, 0, (to-from+stepMinutes-1)/stepMinutes)
	for m := from; m < to; m += stepMinutes {
		slots = append(slots, timeOfDayFromMinutes(m))
	}
	return slots
}
