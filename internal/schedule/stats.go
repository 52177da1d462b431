package schedule

// SalesPersonStat mirrors the global status counters for one salesperson.
type SalesPersonStat struct {
	Bookings int            `json:"bookings"`
	Statuses map[Status]int `json:"statuses"`
	Revenue  int            `json:"revenue"`
}

// SetterStat tracks performance of one appointment setter. Initial pitch
// tiers come from the booking form; final tiers come from the pitched5k /
// pitched20k statuses. The two are independent because the tier can change
// between first contact and final outcome.
type SetterStat struct {
	Total            int     `json:"total"`
	InitialPitch5K   int     `json:"initialPitch5k"`
	InitialPitch20K  int     `json:"initialPitch20k"`
	Pitch5K          int     `json:"pitch5k"`
	Pitch20K         int     `json:"pitch20k"`
	Converted        int     `json:"converted"`
	DidntPick        int     `json:"didntPick"`
	WronglyQualified int     `json:"wronglyQualified"`
	ConversionRate   float64 `json:"conversionRate"`
}

// Snapshot is the full rollup for one board date. It is a pure function of
// the appointment collection, roster, slot grid and overrides; recomputing it
// on the same inputs yields identical values.
type Snapshot struct {
	Date              Date                       `json:"date"`
	Available         int                        `json:"available"`
	Statuses          map[Status]int             `json:"statuses"`
	Other             int                        `json:"other"`
	Payments          map[PaymentType]int        `json:"payments"`
	TotalRevenue      int                        `json:"totalRevenue"`
	TotalAppointments int                        `json:"totalAppointments"`
	SalesPersonStats  map[string]SalesPersonStat `json:"salesPersonStats"`
	SetterStats       map[string]SetterStat      `json:"setterStats"`
}

func newSalesPersonStat() SalesPersonStat {
	s := SalesPersonStat{Statuses: make(map[Status]int, len(statusOrder))}
	for _, st := range statusOrder {
		s.Statuses[st] = 0
	}
	return s
}

// Aggregate computes the statistics snapshot for a single date. Only
// appointments whose Date equals day participate. All counters are
// commutative sums, so traversal order never affects the result, and no
// state survives between calls.
//
// Appointments with a status outside the closed set stay out of the
// per-status buckets but still count toward totals and bookings. Unknown
// payment codes likewise contribute zero revenue and no typed bucket.
func Aggregate(appointments []Appointment, roster []StaffMember, day Date, slots []TimeOfDay, overrides OverrideSet) Snapshot {
	snap := Snapshot{
		Date:             day,
		Statuses:         make(map[Status]int, len(statusOrder)),
		Payments:         make(map[PaymentType]int, len(paymentOrder)),
		SalesPersonStats: make(map[string]SalesPersonStat, len(roster)),
		SetterStats:      make(map[string]SetterStat),
	}
	for _, st := range statusOrder {
		snap.Statuses[st] = 0
	}
	for _, p := range paymentOrder {
		snap.Payments[p] = 0
	}
	for _, m := range roster {
		snap.SalesPersonStats[m.Name] = newSalesPersonStat()
	}

	// Unoccupied available cells require walking the full grid, not just the
	// appointment list.
	for _, m := range roster {
		for _, slot := range slots {
			res := Resolve(m, slot, day, appointments, overrides)
			if res.Occupied == nil && res.Available {
				snap.Available++
			}
		}
	}

	for i := range appointments {
		a := appointments[i]
		if a.Date != day {
			continue
		}
		snap.TotalAppointments++

		if a.Status.Known() {
			snap.Statuses[a.Status]++
		} else {
			snap.Other++
		}

		if a.Payment != "" && a.Payment.Known() {
			snap.Payments[a.Payment]++
		}
		snap.TotalRevenue += a.Revenue()

		person, ok := snap.SalesPersonStats[a.SalesPerson]
		if !ok {
			person = newSalesPersonStat()
		}
		person.Bookings++
		if a.Status.Known() {
			person.Statuses[a.Status]++
		}
		person.Revenue += a.Revenue()
		snap.SalesPersonStats[a.SalesPerson] = person

		if a.Setter != "" {
			setter := snap.SetterStats[a.Setter]
			setter.Total++
			switch a.InitialPitch {
			case PitchTier5K:
				setter.InitialPitch5K++
			case PitchTier20K:
				setter.InitialPitch20K++
			}
			switch a.Status {
			case StatusPitched5K:
				setter.Pitch5K++
			case StatusPitched20K:
				setter.Pitch20K++
			case StatusPaid:
				setter.Converted++
			case StatusDidntPick:
				setter.DidntPick++
			case StatusWronglyQualified:
				setter.WronglyQualified++
			}
			snap.SetterStats[a.Setter] = setter
		}
	}

	for name, setter := range snap.SetterStats {
		if setter.Total > 0 {
			setter.ConversionRate = float64(setter.Converted) / float64(setter.Total)
		}
		snap.SetterStats[name] = setter
	}

	return snap
}
