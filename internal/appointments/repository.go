package appointments

import (
	"context"
	"errors"

	"github.com/closerops/salesboard/internal/schedule"
)

// ErrNotFound marks updates or deletes against an id the store no longer has.
var ErrNotFound = errors.New("appointments: not found")

// Snapshot is a full, point-in-time copy of the appointment collection. Seq
// increases monotonically with every write; consumers use it to discard
// snapshots that arrive out of order.
type Snapshot struct {
	Seq          uint64
	Appointments []schedule.Appointment
}

// Update carries partial appointment fields. Nil pointers leave the stored
// value untouched.
type Update struct {
	SalesPerson  *string
	Setter       *string
	ClientName   *string
	Phone        *string
	Notes        *string
	Time         *schedule.TimeOfDay
	Date         *schedule.Date
	Status       *schedule.Status
	Payment      *schedule.PaymentType
	InitialPitch *schedule.PitchTier
}

// Apply merges the update into an appointment.
func (u Update) Apply(a *schedule.Appointment) {
	if u.SalesPerson != nil {
		a.SalesPerson = *u.SalesPerson
	}
	if u.Setter != nil {
		a.Setter = *u.Setter
	}
	if u.ClientName != nil {
		a.ClientName = *u.ClientName
	}
	if u.Phone != nil {
		a.Phone = *u.Phone
	}
	if u.Notes != nil {
		a.Notes = *u.Notes
	}
	if u.Time != nil {
		a.Time = *u.Time
	}
	if u.Date != nil {
		a.Date = *u.Date
	}
	if u.Status != nil {
		a.Status = *u.Status
	}
	if u.Payment != nil {
		a.Payment = *u.Payment
	}
	if u.InitialPitch != nil {
		a.InitialPitch = *u.InitialPitch
	}
}

// Repository is the contract the board uses to read and write appointment
// records. The board never touches the underlying store directly: it issues
// intents through Create/Update/Delete and receives full-collection snapshots
// through Subscribe. No call retries internally; failures surface to the
// caller.
type Repository interface {
	Create(ctx context.Context, appt schedule.Appointment) (string, error)
	Update(ctx context.Context, id string, upd Update) error
	Delete(ctx context.Context, id string) error
	Snapshot(ctx context.Context) (Snapshot, error)
	// Subscribe delivers a fresh snapshot after every store change until stop
	// is called or ctx ends. stop is safe to call more than once.
	Subscribe(ctx context.Context, fn func(Snapshot)) (stop func(), err error)
}

// RosterStore persists the staff roster with attendance flags. Persistence is
// optional: the board runs with a purely local roster when no store is wired.
type RosterStore interface {
	SaveRoster(ctx context.Context, members []schedule.StaffMember) error
	LoadRoster(ctx context.Context) ([]schedule.StaffMember, error)
	SubscribeRoster(ctx context.Context, fn func([]schedule.StaffMember)) (stop func(), err error)
}
