package schedule

// StaffMember is one salesperson column on the board. Name is the unique key;
// the JSON field names match the persisted roster document.
type StaffMember struct {
	Name      string    `json:"name"`
	StartTime TimeOfDay `json:"startTime"`
	EndTime   TimeOfDay `json:"endTime"`
	IsPresent bool      `json:"isPresent"`
}

// DefaultRoster returns the built-in sales team used when no roster is
// configured or persisted.
func DefaultRoster() []StaffMember {
	return []StaffMember{
		{Name: "Harsha", StartTime: "11:00", EndTime: "20:00", IsPresent: true},
		{Name: "Mani", StartTime: "11:00", EndTime: "19:00", IsPresent: true},
		{Name: "Monish", StartTime: "16:30", EndTime: "20:30", IsPresent: true},
		{Name: "Pranav", StartTime: "09:00", EndTime: "13:00", IsPresent: true},
		{Name: "Tamil", StartTime: "11:00", EndTime: "20:00", IsPresent: true},
	}
}

// Roster is the ordered staff collection. It is not safe for concurrent use;
// the owning session serializes access.
type Roster struct {
	members []StaffMember
}

// NewRoster copies members into a roster, preserving order.
func NewRoster(members []StaffMember) *Roster {
	r := &Roster{}
	r.Replace(members)
	return r
}

// Members returns a copy of the roster in column order.
func (r *Roster) Members() []StaffMember {
	out := make([]StaffMember, len(r.members))
	copy(out, r.members)
	return out
}

// Lookup finds a member by name.
func (r *Roster) Lookup(name string) (StaffMember, bool) {
	for _, m := range r.members {
		if m.Name == name {
			return m, true
		}
	}
	return StaffMember{}, false
}

// ToggleAttendance flips the presence flag for the named member and reports
// whether the member exists.
func (r *Roster) ToggleAttendance(name string) bool {
	for i := range r.members {
		if r.members[i].Name == name {
			r.members[i].IsPresent = !r.members[i].IsPresent
			return true
		}
	}
	return false
}

// Replace swaps the whole roster for a new one, copying the input.
func (r *Roster) Replace(members []StaffMember) {
	r.members = make([]StaffMember, len(members))
	copy(r.members, members)
}
