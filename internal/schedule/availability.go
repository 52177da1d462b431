package schedule

// OverrideKey identifies one manually toggled cell.
type OverrideKey struct {
	Staff string
	Slot  TimeOfDay
	Day   Date
}

// OverrideSet records manual availability flips. An entry encodes "flip the
// nominal result", not a fixed available/unavailable value, so toggling twice
// restores the computed state. Overrides are session-local and never reach
// the shared store.
type OverrideSet map[OverrideKey]bool

// Toggle flips the override for a cell, removing the entry when it returns to
// its nominal state.
func (o OverrideSet) Toggle(staff string, slot TimeOfDay, day Date) {
	key := OverrideKey{Staff: staff, Slot: slot, Day: day}
	if o[key] {
		delete(o, key)
		return
	}
	o[key] = true
}

// Overridden reports whether a cell has an active flip.
func (o OverrideSet) Overridden(staff string, slot TimeOfDay, day Date) bool {
	return o[OverrideKey{Staff: staff, Slot: slot, Day: day}]
}

// Resolution is the state of one (staff, slot, date) cell. When Occupied is
// set the cell shows the appointment and Available is not meaningful.
type Resolution struct {
	Occupied  *Appointment
	Available bool
}

// Resolve determines the state of a single grid cell. An existing appointment
// always wins; otherwise nominal availability (member present and slot inside
// working hours, start inclusive, end exclusive) is computed and any manual
// override flips it. Resolve is a pure read: it reports an unavailable or
// overridden slot but never blocks a booking against one, since confirming
// intent belongs to the caller.
func Resolve(staff StaffMember, slot TimeOfDay, day Date, appointments []Appointment, overrides OverrideSet) Resolution {
	for i := range appointments {
		a := appointments[i]
		if a.SalesPerson == staff.Name && a.Time == slot && a.Date == day {
			occupied := a
			return Resolution{Occupied: &occupied}
		}
	}
	available := staff.IsPresent && slot >= staff.StartTime && slot < staff.EndTime
	if overrides.Overridden(staff.Name, slot, day) {
		available = !available
	}
	return Resolution{Available: available}
}
