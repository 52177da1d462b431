package schedule

import (
	"reflect"
	"testing"
)

func TestSlots(t *testing.T) {
	tests := []struct {
		name  string
		start TimeOfDay
		end   TimeOfDay
		step  int
		want  []TimeOfDay
	}{
		{
			name:  "standard board day",
			start: "09:00",
			end:   "11:00",
			step:  30,
			want:  []TimeOfDay{"09:00", "09:30", "10:00", "10:30"},
		},
		{
			name:  "end boundary excluded",
			start: "19:30",
			end:   "20:30",
			step:  30,
			want:  []TimeOfDay{"19:30", "20:00"},
		},
		{
			name:  "step overshoots end",
			start: "09:00",
			end:   "10:15",
			step:  30,
			want:  []TimeOfDay{"09:00", "09:30", "10:00"},
		},
		{
			name:  "hour step",
			start: "11:00",
			end:   "14:00",
			step:  60,
			want:  []TimeOfDay{"11:00", "12:00", "13:00"},
		},
		{
			name:  "inverted window",
			start: "20:00",
			end:   "09:00",
			step:  30,
			want:  nil,
		},
		{
			name:  "empty window",
			start: "09:00",
			end:   "09:00",
			step:  30,
			want:  nil,
		},
		{
			name:  "zero step",
			start: "09:00",
			end:   "20:00",
			step:  0,
			want:  nil,
		},
		{
			name:  "negative step",
			start: "09:00",
			end:   "20:00",
			step:  -15,
			want:  nil,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Slots(tc.start, tc.end, tc.step)
			if len(got) == 0 && len(tc.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Slots(%q, %q, %d) = %v, want %v", tc.start, tc.end, tc.step, got, tc.want)
			}
		})
	}
}

func TestSlotsFullDay(t *testing.T) {
	got := Slots("09:00", "20:30", 30)
	if len(got) != 23 {
		t.Fatalf("expected 23 slots, got %d", len(got))
	}
	if got[0] != "09:00" {
		t.Errorf("first slot = %q, want 09:00", got[0])
	}
	if got[len(got)-1] != "20:00" {
		t.Errorf("last slot = %q, want 20:00", got[len(got)-1])
	}
	for i := 1; i < len(got); i++ {
		if got[i-1] >= got[i] {
			t.Errorf("slots out of order: %q before %q", got[i-1], got[i])
		}
	}
}
