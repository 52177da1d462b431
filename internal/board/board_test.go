package board

import (
	"context"
	"errors"
	"testing"

	"github.com/closerops/salesboard/internal/appointments"
	"github.com/closerops/salesboard/internal/schedule"
)

const testDay = schedule.Date("2026-08-30")

func testRoster() []schedule.StaffMember {
	return []schedule.StaffMember{
		{Name: "Harsha", StartTime: "11:00", EndTime: "20:00", IsPresent: true},
		{Name: "Mani", StartTime: "11:00", EndTime: "19:00", IsPresent: true},
	}
}

// newTestBoard wires a started board over an in-memory repository. The
// repository notifies synchronously, so writes are visible on the board as
// soon as the call returns.
func newTestBoard(t *testing.T, cfg Config) (*Board, *appointments.InMemoryRepository) {
	t.Helper()
	repo := appointments.NewInMemoryRepository()
	cfg.Repository = repo
	if cfg.Roster == nil {
		cfg.Roster = testRoster()
	}
	if cfg.DayStart == "" {
		cfg.DayStart = "11:00"
		cfg.DayEnd = "14:00"
		cfg.SlotMinutes = 30
	}
	b := New(cfg)
	if err := b.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(b.Stop)
	return b, repo
}

func TestBoardStartLoadsExistingAppointments(t *testing.T) {
	repo := appointments.NewInMemoryRepository()
	id, err := repo.Create(context.Background(), schedule.Appointment{
		SalesPerson: "Harsha", Time: "13:00", Date: testDay,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	b := New(Config{Repository: repo, Roster: testRoster(), DayStart: "11:00", DayEnd: "14:00", SlotMinutes: 30})
	if err := b.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer b.Stop()

	res, err := b.ResolveCell("Harsha", "13:00", testDay)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Occupied == nil || res.Occupied.ID != id {
		t.Errorf("expected seeded appointment in cell, got %+v", res)
	}
	if b.Seq() != 1 {
		t.Errorf("seq = %d, want 1", b.Seq())
	}
}

func TestBoardBookPropagatesThroughStore(t *testing.T) {
	b, _ := newTestBoard(t, Config{})

	id, err := b.Book(context.Background(), schedule.Appointment{
		SalesPerson: "Mani", Setter: "Ravi", ClientName: "Client A",
		Time: "11:30", Date: testDay,
	})
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	res, err := b.ResolveCell("Mani", "11:30", testDay)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Occupied == nil || res.Occupied.ID != id {
		t.Fatal("booked appointment not visible on the board")
	}
	if res.Occupied.Status != schedule.StatusBooked {
		t.Errorf("status = %q, want booked", res.Occupied.Status)
	}
}

func TestBoardBookUnknownStaff(t *testing.T) {
	b, repo := newTestBoard(t, Config{})

	_, err := b.Book(context.Background(), schedule.Appointment{
		SalesPerson: "Nobody", Time: "11:30", Date: testDay,
	})
	if !errors.Is(err, ErrUnknownStaff) {
		t.Fatalf("err = %v, want ErrUnknownStaff", err)
	}
	snap, _ := repo.Snapshot(context.Background())
	if len(snap.Appointments) != 0 {
		t.Error("rejected booking must not reach the store")
	}
}

func TestBoardUpdateAndRemove(t *testing.T) {
	b, _ := newTestBoard(t, Config{})
	ctx := context.Background()

	id, err := b.Book(ctx, schedule.Appointment{SalesPerson: "Harsha", Time: "12:00", Date: testDay})
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	status := schedule.StatusPaid
	payment := schedule.Payment5K
	if err := b.Update(ctx, id, appointments.Update{Status: &status, Payment: &payment}); err != nil {
		t.Fatalf("update: %v", err)
	}
	res, _ := b.ResolveCell("Harsha", "12:00", testDay)
	if res.Occupied == nil || res.Occupied.Status != schedule.StatusPaid {
		t.Fatalf("update not visible: %+v", res)
	}

	// Reschedule moves the appointment to another cell.
	newSlot := schedule.TimeOfDay("13:30")
	if err := b.Update(ctx, id, appointments.Update{Time: &newSlot}); err != nil {
		t.Fatalf("reschedule: %v", err)
	}
	res, _ = b.ResolveCell("Harsha", "12:00", testDay)
	if res.Occupied != nil {
		t.Error("old cell still occupied after reschedule")
	}
	res, _ = b.ResolveCell("Harsha", "13:30", testDay)
	if res.Occupied == nil {
		t.Error("new cell empty after reschedule")
	}

	if err := b.Remove(ctx, id); err != nil {
		t.Fatalf("remove: %v", err)
	}
	res, _ = b.ResolveCell("Harsha", "13:30", testDay)
	if res.Occupied != nil {
		t.Error("removed appointment still on the board")
	}
}

func TestBoardDiscardsStaleSnapshot(t *testing.T) {
	b, _ := newTestBoard(t, Config{})
	ctx := context.Background()

	if _, err := b.Book(ctx, schedule.Appointment{SalesPerson: "Harsha", Time: "12:00", Date: testDay}); err != nil {
		t.Fatalf("book: %v", err)
	}
	applied := b.Seq()

	// A reload that raced an earlier write arrives late and must not clobber
	// the newer collection.
	b.applySnapshot(appointments.Snapshot{Seq: applied - 1, Appointments: nil})
	if b.Seq() != applied {
		t.Errorf("stale snapshot advanced seq to %d", b.Seq())
	}
	res, _ := b.ResolveCell("Harsha", "12:00", testDay)
	if res.Occupied == nil {
		t.Error("stale snapshot emptied the board")
	}

	// Equal sequence is stale too.
	b.applySnapshot(appointments.Snapshot{Seq: applied, Appointments: nil})
	if res, _ := b.ResolveCell("Harsha", "12:00", testDay); res.Occupied == nil {
		t.Error("equal-seq snapshot emptied the board")
	}
}

func TestBoardToggleOverride(t *testing.T) {
	b, _ := newTestBoard(t, Config{})

	if err := b.ToggleOverride("Mani", "12:00", testDay); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	res, _ := b.ResolveCell("Mani", "12:00", testDay)
	if res.Available {
		t.Error("overridden in-shift cell still available")
	}
	if err := b.ToggleOverride("Mani", "12:00", testDay); err != nil {
		t.Fatalf("toggle back: %v", err)
	}
	res, _ = b.ResolveCell("Mani", "12:00", testDay)
	if !res.Available {
		t.Error("double toggle did not restore availability")
	}

	if err := b.ToggleOverride("Nobody", "12:00", testDay); !errors.Is(err, ErrUnknownStaff) {
		t.Errorf("err = %v, want ErrUnknownStaff", err)
	}
}

func TestBoardToggleAttendancePersists(t *testing.T) {
	repo := appointments.NewInMemoryRepository()
	b := New(Config{
		Repository:  repo,
		RosterStore: repo,
		Roster:      testRoster(),
		DayStart:    "11:00",
		DayEnd:      "14:00",
		SlotMinutes: 30,
	})
	if err := b.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer b.Stop()

	if err := b.ToggleAttendance(context.Background(), "Mani"); err != nil {
		t.Fatalf("toggle attendance: %v", err)
	}
	res, _ := b.ResolveCell("Mani", "12:00", testDay)
	if res.Available {
		t.Error("absent member's cell still available")
	}

	saved, err := repo.LoadRoster(context.Background())
	if err != nil {
		t.Fatalf("load roster: %v", err)
	}
	for _, m := range saved {
		if m.Name == "Mani" && m.IsPresent {
			t.Error("attendance flip not persisted")
		}
	}

	if err := b.ToggleAttendance(context.Background(), "Nobody"); !errors.Is(err, ErrUnknownStaff) {
		t.Errorf("err = %v, want ErrUnknownStaff", err)
	}
}

func TestBoardFollowsPersistedRoster(t *testing.T) {
	repo := appointments.NewInMemoryRepository()
	persisted := testRoster()
	persisted[0].IsPresent = false
	if err := repo.SaveRoster(context.Background(), persisted); err != nil {
		t.Fatalf("seed roster: %v", err)
	}

	b := New(Config{Repository: repo, RosterStore: repo, Roster: testRoster(), DayStart: "11:00", DayEnd: "14:00", SlotMinutes: 30})
	if err := b.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer b.Stop()

	res, _ := b.ResolveCell("Harsha", "12:00", testDay)
	if res.Available {
		t.Error("persisted attendance not applied at start")
	}
}

func TestBoardCellsClassification(t *testing.T) {
	b, _ := newTestBoard(t, Config{})
	ctx := context.Background()

	if _, err := b.Book(ctx, schedule.Appointment{SalesPerson: "Harsha", Time: "11:00", Date: testDay}); err != nil {
		t.Fatalf("book: %v", err)
	}

	cells := b.Cells(testDay)
	// 6 slots x 2 members, slot-major.
	if len(cells) != 12 {
		t.Fatalf("expected 12 cells, got %d", len(cells))
	}
	if cells[0].Slot != "11:00" || cells[0].Staff != "Harsha" {
		t.Fatalf("unexpected first cell %+v", cells[0])
	}
	if cells[0].Occupied == nil || cells[0].Category != schedule.CategoryWarning || cells[0].Label != "Booked" {
		t.Errorf("occupied cell misclassified: %+v", cells[0])
	}
	// Mani at 11:00 is free and in shift.
	if cells[1].Category != schedule.CategoryAvailable || cells[1].Label != "Available" {
		t.Errorf("free cell misclassified: %+v", cells[1])
	}
}

func TestBoardCellsUnavailable(t *testing.T) {
	roster := []schedule.StaffMember{{Name: "Late", StartTime: "13:00", EndTime: "14:00", IsPresent: true}}
	b, _ := newTestBoard(t, Config{Roster: roster})

	cells := b.Cells(testDay)
	if cells[0].Slot != "11:00" {
		t.Fatalf("unexpected first slot %q", cells[0].Slot)
	}
	if cells[0].Available || cells[0].Category != schedule.CategoryNeutral || cells[0].Label != "Unavailable" {
		t.Errorf("out-of-shift cell misclassified: %+v", cells[0])
	}
}

func TestBoardStats(t *testing.T) {
	b, _ := newTestBoard(t, Config{})
	ctx := context.Background()

	id, err := b.Book(ctx, schedule.Appointment{SalesPerson: "Harsha", Setter: "Ravi", Time: "11:00", Date: testDay})
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	status := schedule.StatusPaid
	payment := schedule.Payment10K
	if err := b.Update(ctx, id, appointments.Update{Status: &status, Payment: &payment}); err != nil {
		t.Fatalf("update: %v", err)
	}

	snap := b.Stats(testDay)
	if snap.TotalAppointments != 1 || snap.TotalRevenue != 10000 {
		t.Errorf("totals = %d appointments, %d revenue", snap.TotalAppointments, snap.TotalRevenue)
	}
	if snap.SetterStats["Ravi"].ConversionRate != 1.0 {
		t.Errorf("conversion rate = %v, want 1.0", snap.SetterStats["Ravi"].ConversionRate)
	}
	// 12 cells, one occupied.
	if snap.Available != 11 {
		t.Errorf("available = %d, want 11", snap.Available)
	}
}

func TestBoardRefreshCallback(t *testing.T) {
	refreshes := 0
	b, _ := newTestBoard(t, Config{OnRefresh: func() { refreshes++ }})
	ctx := context.Background()

	after := refreshes
	if _, err := b.Book(ctx, schedule.Appointment{SalesPerson: "Harsha", Time: "11:00", Date: testDay}); err != nil {
		t.Fatalf("book: %v", err)
	}
	if refreshes <= after {
		t.Error("applied snapshot did not fire refresh")
	}

	after = refreshes
	if err := b.ToggleOverride("Harsha", "12:00", testDay); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if refreshes <= after {
		t.Error("override toggle did not fire refresh")
	}

	after = refreshes
	if err := b.ToggleAttendance(ctx, "Mani"); err != nil {
		t.Fatalf("attendance: %v", err)
	}
	if refreshes <= after {
		t.Error("attendance toggle did not fire refresh")
	}
}
