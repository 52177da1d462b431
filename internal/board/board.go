package board

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/closerops/salesboard/internal/appointments"
	"github.com/closerops/salesboard/internal/observability/metrics"
	"github.com/closerops/salesboard/internal/schedule"
	"github.com/closerops/salesboard/pkg/logging"
)

// ErrUnknownStaff marks operations against a name missing from the roster.
var ErrUnknownStaff = errors.New("board: unknown staff member")

// Config wires a board session.
type Config struct {
	Repository appointments.Repository
	// RosterStore optionally persists attendance across sessions. The board
	// runs with purely local roster state when nil.
	RosterStore appointments.RosterStore
	Roster      []schedule.StaffMember
	DayStart    schedule.TimeOfDay
	DayEnd      schedule.TimeOfDay
	SlotMinutes int
	Logger      *logging.Logger
	Metrics     *metrics.BoardMetrics
	// OnRefresh fires after every applied snapshot or local roster/override
	// change, outside the board lock.
	OnRefresh func()
}

// Board is one live scheduling session. It owns the latest appointment
// snapshot delivered by the repository subscription, the staff roster, and
// the session-local override set, and recomputes availability and statistics
// from that state on demand. Derived values are never cached across
// refreshes.
type Board struct {
	repo        appointments.Repository
	rosterStore appointments.RosterStore
	logger      *logging.Logger
	metrics     *metrics.BoardMetrics
	onRefresh   func()
	slots       []schedule.TimeOfDay

	mu        sync.RWMutex
	roster    *schedule.Roster
	overrides schedule.OverrideSet
	appts     []schedule.Appointment
	seq       uint64
	haveSnap  bool

	stopOnce    sync.Once
	stopAppts   func()
	stopRoster  func()
}

// New creates a board session. The repository is required; everything else
// falls back to sane defaults.
func New(cfg Config) *Board {
	if cfg.Repository == nil {
		panic("board: repository required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	roster := cfg.Roster
	if len(roster) == 0 {
		roster = schedule.DefaultRoster()
	}
	dayStart := cfg.DayStart
	dayEnd := cfg.DayEnd
	if dayStart == "" {
		dayStart = "09:00"
	}
	if dayEnd == "" {
		dayEnd = "20:30"
	}
	step := cfg.SlotMinutes
	if step <= 0 {
		step = 30
	}
	return &Board{
		repo:        cfg.Repository,
		rosterStore: cfg.RosterStore,
		logger:      logger,
		metrics:     cfg.Metrics,
		onRefresh:   cfg.OnRefresh,
		slots:       schedule.Slots(dayStart, dayEnd, step),
		roster:      schedule.NewRoster(roster),
		overrides:   make(schedule.OverrideSet),
	}
}

// Start loads the initial snapshot and subscribes to store changes. When a
// roster store is wired, a persisted roster replaces the configured one and
// roster changes from other sessions are followed too.
func (b *Board) Start(ctx context.Context) error {
	if b.rosterStore != nil {
		members, err := b.rosterStore.LoadRoster(ctx)
		if err != nil {
			b.logger.Warn("persisted roster unavailable, using local roster", "error", err)
		} else if members != nil {
			b.mu.Lock()
			b.roster.Replace(members)
			b.mu.Unlock()
		}
		stop, err := b.rosterStore.SubscribeRoster(ctx, b.applyRoster)
		if err != nil {
			return fmt.Errorf("board: subscribe roster: %w", err)
		}
		b.stopRoster = stop
	}

	snap, err := b.repo.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("board: initial snapshot: %w", err)
	}
	b.applySnapshot(snap)

	stop, err := b.repo.Subscribe(ctx, b.applySnapshot)
	if err != nil {
		return fmt.Errorf("board: subscribe appointments: %w", err)
	}
	b.stopAppts = stop
	return nil
}

// Stop ends snapshot delivery. Safe to call more than once.
func (b *Board) Stop() {
	b.stopOnce.Do(func() {
		if b.stopAppts != nil {
			b.stopAppts()
		}
		if b.stopRoster != nil {
			b.stopRoster()
		}
	})
}

// applySnapshot replaces the in-memory collection. A snapshot older than the
// one already applied is discarded; the subscription may deliver reloads out
// of order.
func (b *Board) applySnapshot(snap appointments.Snapshot) {
	b.mu.Lock()
	if b.haveSnap && snap.Seq <= b.seq {
		b.mu.Unlock()
		b.metrics.ObserveSnapshotDropped("stale")
		b.logger.Debug("discarding stale snapshot", "seq", snap.Seq, "applied", b.seq)
		return
	}
	b.appts = snap.Appointments
	b.seq = snap.Seq
	b.haveSnap = true
	b.mu.Unlock()

	b.metrics.ObserveSnapshotApplied()
	b.refresh()
}

func (b *Board) applyRoster(members []schedule.StaffMember) {
	b.mu.Lock()
	b.roster.Replace(members)
	b.mu.Unlock()
	b.refresh()
}

func (b *Board) refresh() {
	if b.onRefresh != nil {
		b.onRefresh()
	}
}

// SlotGrid returns the ordered slot labels shared by every board date.
func (b *Board) SlotGrid() []schedule.TimeOfDay {
	out := make([]schedule.TimeOfDay, len(b.slots))
	copy(out, b.slots)
	return out
}

// Roster returns a copy of the current staff roster.
func (b *Board) Roster() []schedule.StaffMember {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.roster.Members()
}

// ResolveCell reports the state of one grid cell.
func (b *Board) ResolveCell(staffName string, slot schedule.TimeOfDay, day schedule.Date) (schedule.Resolution, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	staff, ok := b.roster.Lookup(staffName)
	if !ok {
		return schedule.Resolution{}, ErrUnknownStaff
	}
	return schedule.Resolve(staff, slot, day, b.appts, b.overrides), nil
}

// Cell is one resolved grid cell, ready for rendering.
type Cell struct {
	Staff     string                `json:"staff"`
	Slot      schedule.TimeOfDay    `json:"slot"`
	Occupied  *schedule.Appointment `json:"occupied,omitempty"`
	Available bool                  `json:"available"`
	Category  schedule.Category     `json:"category"`
	Label     string                `json:"label"`
}

// Cells resolves the whole grid for a date against a single consistent
// snapshot, slot-major to match the rendered table rows.
func (b *Board) Cells(day schedule.Date) []Cell {
	b.mu.RLock()
	defer b.mu.RUnlock()
	members := b.roster.Members()
	cells := make([]Cell, 0, len(b.slots)*len(members))
	for _, slot := range b.slots {
		for _, m := range members {
			res := schedule.Resolve(m, slot, day, b.appts, b.overrides)
			cell := Cell{Staff: m.Name, Slot: slot, Occupied: res.Occupied, Available: res.Available}
			switch {
			case res.Occupied != nil:
				cell.Category = res.Occupied.Status.Category()
				cell.Label = res.Occupied.Status.Display()
			case res.Available:
				cell.Category = schedule.CategoryAvailable
				cell.Label = "Available"
			default:
				cell.Category = schedule.CategoryNeutral
				cell.Label = "Unavailable"
			}
			cells = append(cells, cell)
		}
	}
	return cells
}

// Stats recomputes the full statistics snapshot for a date.
func (b *Board) Stats(day schedule.Date) schedule.Snapshot {
	start := time.Now()
	b.mu.RLock()
	snap := schedule.Aggregate(b.appts, b.roster.Members(), day, b.slots, b.overrides)
	b.mu.RUnlock()
	b.metrics.ObserveAggregateDuration(time.Since(start).Seconds())
	return snap
}

// ToggleOverride flips the manual availability of a cell. Overrides stay
// local to this session; other sessions never see them.
func (b *Board) ToggleOverride(staffName string, slot schedule.TimeOfDay, day schedule.Date) error {
	b.mu.Lock()
	if _, ok := b.roster.Lookup(staffName); !ok {
		b.mu.Unlock()
		return ErrUnknownStaff
	}
	b.overrides.Toggle(staffName, slot, day)
	b.mu.Unlock()
	b.refresh()
	return nil
}

// ToggleAttendance flips a staff member's presence flag and, when a roster
// store is wired, persists the whole roster so other sessions follow.
// Persistence failures are logged, not fatal; the local flip stands and the
// next successful save wins.
func (b *Board) ToggleAttendance(ctx context.Context, staffName string) error {
	b.mu.Lock()
	if !b.roster.ToggleAttendance(staffName) {
		b.mu.Unlock()
		return ErrUnknownStaff
	}
	members := b.roster.Members()
	b.mu.Unlock()

	if b.rosterStore != nil {
		if err := b.rosterStore.SaveRoster(ctx, members); err != nil {
			b.logger.Warn("roster save failed", "staff", staffName, "error", err)
		}
	}
	b.refresh()
	return nil
}

// Book submits a new appointment. The write goes straight to the repository;
// nothing is committed locally until the store echoes the change back through
// the subscription. A nominally unavailable or overridden slot is still
// bookable: confirming intent is the caller's concern.
func (b *Board) Book(ctx context.Context, appt schedule.Appointment) (string, error) {
	b.mu.RLock()
	_, known := b.roster.Lookup(appt.SalesPerson)
	b.mu.RUnlock()
	if !known {
		return "", ErrUnknownStaff
	}
	id, err := b.repo.Create(ctx, appt)
	b.metrics.ObserveWrite("create", err)
	return id, err
}

// Update merges partial fields into a stored appointment. Status updates and
// reschedules (date/time/salesperson changes) share this path.
func (b *Board) Update(ctx context.Context, id string, upd appointments.Update) error {
	err := b.repo.Update(ctx, id, upd)
	b.metrics.ObserveWrite("update", err)
	return err
}

// Remove deletes an appointment.
func (b *Board) Remove(ctx context.Context, id string) error {
	err := b.repo.Delete(ctx, id)
	b.metrics.ObserveWrite("delete", err)
	return err
}

// Seq returns the sequence of the applied snapshot, for diagnostics.
func (b *Board) Seq() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.seq
}
