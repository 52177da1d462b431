package appointments

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/closerops/salesboard/internal/schedule"
)

// InMemoryRepository implements Repository and RosterStore with in-process
// storage. It backs development runs without a Redis and the handler tests;
// change notification is synchronous.
type InMemoryRepository struct {
	mu         sync.RWMutex
	appts      map[string]schedule.Appointment
	roster     []schedule.StaffMember
	seq        uint64
	nextSub    int
	subs       map[int]func(Snapshot)
	rosterSubs map[int]func([]schedule.StaffMember)
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		appts:      make(map[string]schedule.Appointment),
		subs:       make(map[int]func(Snapshot)),
		rosterSubs: make(map[int]func([]schedule.StaffMember)),
	}
}

// Create stores a new appointment and returns its assigned id.
func (r *InMemoryRepository) Create(ctx context.Context, appt schedule.Appointment) (string, error) {
	if appt.ID == "" {
		appt.ID = uuid.NewString()
	}
	if appt.Status == "" {
		appt.Status = schedule.StatusBooked
	}
	r.mu.Lock()
	r.appts[appt.ID] = appt
	r.seq++
	snap, subs := r.snapshotLocked()
	r.mu.Unlock()
	notify(snap, subs)
	return appt.ID, nil
}

// Update merges partial fields into a stored appointment.
func (r *InMemoryRepository) Update(ctx context.Context, id string, upd Update) error {
	r.mu.Lock()
	appt, ok := r.appts[id]
	if !ok {
		r.mu.Unlock()
		return ErrNotFound
	}
	upd.Apply(&appt)
	appt.ID = id
	r.appts[id] = appt
	r.seq++
	snap, subs := r.snapshotLocked()
	r.mu.Unlock()
	notify(snap, subs)
	return nil
}

// Delete removes an appointment.
func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	if _, ok := r.appts[id]; !ok {
		r.mu.Unlock()
		return ErrNotFound
	}
	delete(r.appts, id)
	r.seq++
	snap, subs := r.snapshotLocked()
	r.mu.Unlock()
	notify(snap, subs)
	return nil
}

// Snapshot returns the current collection.
func (r *InMemoryRepository) Snapshot(ctx context.Context) (Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	snap, _ := r.snapshotLocked()
	return snap, nil
}

// Subscribe registers a change listener. Delivery is synchronous with the
// triggering write.
func (r *InMemoryRepository) Subscribe(ctx context.Context, fn func(Snapshot)) (func(), error) {
	r.mu.Lock()
	id := r.nextSub
	r.nextSub++
	r.subs[id] = fn
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.subs, id)
			r.mu.Unlock()
		})
	}, nil
}

// SaveRoster stores the roster and notifies roster listeners.
func (r *InMemoryRepository) SaveRoster(ctx context.Context, members []schedule.StaffMember) error {
	copied := make([]schedule.StaffMember, len(members))
	copy(copied, members)

	r.mu.Lock()
	r.roster = copied
	subs := make([]func([]schedule.StaffMember), 0, len(r.rosterSubs))
	for _, fn := range r.rosterSubs {
		subs = append(subs, fn)
	}
	r.mu.Unlock()

	for _, fn := range subs {
		out := make([]schedule.StaffMember, len(copied))
		copy(out, copied)
		fn(out)
	}
	return nil
}

// LoadRoster returns the stored roster, nil when none was saved.
func (r *InMemoryRepository) LoadRoster(ctx context.Context) ([]schedule.StaffMember, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.roster == nil {
		return nil, nil
	}
	out := make([]schedule.StaffMember, len(r.roster))
	copy(out, r.roster)
	return out, nil
}

// SubscribeRoster registers a roster listener.
func (r *InMemoryRepository) SubscribeRoster(ctx context.Context, fn func([]schedule.StaffMember)) (func(), error) {
	r.mu.Lock()
	id := r.nextSub
	r.nextSub++
	r.rosterSubs[id] = fn
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.rosterSubs, id)
			r.mu.Unlock()
		})
	}, nil
}

// snapshotLocked builds a sorted snapshot and copies the listener set.
// Callers hold at least a read lock.
func (r *InMemoryRepository) snapshotLocked() (Snapshot, []func(Snapshot)) {
	appts := make([]schedule.Appointment, 0, len(r.appts))
	for _, a := range r.appts {
		appts = append(appts, a)
	}
	sort.Slice(appts, func(i, j int) bool {
		if appts[i].Date != appts[j].Date {
			return appts[i].Date < appts[j].Date
		}
		if appts[i].Time != appts[j].Time {
			return appts[i].Time < appts[j].Time
		}
		if appts[i].SalesPerson != appts[j].SalesPerson {
			return appts[i].SalesPerson < appts[j].SalesPerson
		}
		return appts[i].ID < appts[j].ID
	})
	subs := make([]func(Snapshot), 0, len(r.subs))
	for _, fn := range r.subs {
		subs = append(subs, fn)
	}
	return Snapshot{Seq: r.seq, Appointments: appts}, subs
}

func notify(snap Snapshot, subs []func(Snapshot)) {
	for _, fn := range subs {
		fn(snap)
	}
}
