package schedule

// Status is the outcome code carried by every appointment. The set is closed;
// codes outside it are tolerated by display and aggregation (they fall back to
// neutral rendering and stay out of per-status buckets) but are never fatal.
type Status string

const (
	StatusBooked           Status = "booked"
	StatusPicked           Status = "picked"
	StatusDidntPick        Status = "didntPick"
	StatusCallLater        Status = "callLater"
	StatusPaid             Status = "paid"
	StatusWillJoinLater    Status = "willJoinLater"
	StatusGhosted          Status = "ghosted"
	StatusPitched5K        Status = "pitched5k"
	StatusPitched20K       Status = "pitched20k"
	StatusWronglyQualified Status = "wronglyQualified"
	StatusWrongNumber      Status = "wrongNumber"
)

// Category is the visual bucket a status renders into.
type Category string

const (
	CategoryAvailable Category = "available"
	CategorySuccess   Category = "success"
	CategoryWarning   Category = "warning"
	CategoryDanger    Category = "danger"
	CategoryInfo      Category = "info"
	CategoryNeutral   Category = "neutral"
)

type statusInfo struct {
	label    string
	category Category
}

var statusTable = map[Status]statusInfo{
	StatusBooked:           {"Booked", CategoryWarning},
	StatusPicked:           {"Picked", CategoryInfo},
	StatusDidntPick:        {"Didn't Pick", CategoryDanger},
	StatusCallLater:        {"Call Later", CategoryInfo},
	StatusPaid:             {"Paid", CategorySuccess},
	StatusWillJoinLater:    {"Will Join Later", CategoryInfo},
	StatusGhosted:          {"Ghosted", CategoryDanger},
	StatusPitched5K:        {"5K Pitched", CategoryInfo},
	StatusPitched20K:       {"20K Pitched", CategoryInfo},
	StatusWronglyQualified: {"Wrongly Qualified", CategoryDanger},
	StatusWrongNumber:      {"Wrong Number", CategoryNeutral},
}

// statusOrder fixes the iteration order used when priming counters.
var statusOrder = []Status{
	StatusBooked,
	StatusPicked,
	StatusDidntPick,
	StatusCallLater,
	StatusPaid,
	StatusWillJoinLater,
	StatusGhosted,
	StatusPitched5K,
	StatusPitched20K,
	StatusWronglyQualified,
	StatusWrongNumber,
}

// Statuses returns the closed status set in display order.
func Statuses() []Status {
	out := make([]Status, len(statusOrder))
	copy(out, statusOrder)
	return out
}

// Known reports whether s belongs to the closed status set.
func (s Status) Known() bool {
	_, ok := statusTable[s]
	return ok
}

// Display returns the human label for s, falling back to the raw code for
// unknown statuses.
func (s Status) Display() string {
	if info, ok := statusTable[s]; ok {
		return info.label
	}
	return string(s)
}

// Category returns the visual bucket for s, neutral for unknown statuses.
func (s Status) Category() Category {
	if info, ok := statusTable[s]; ok {
		return info.category
	}
	return CategoryNeutral
}
