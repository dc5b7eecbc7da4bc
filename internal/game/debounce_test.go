package game

import (
	"testing"
	"time"
)

func TestDebouncerCoalesces(t *testing.T) {
	d := NewDebouncer[int](200 * time.Millisecond)
	now := time.Unix(0, 0)

	for i := 1; i <= 10; i++ {
		d.Trigger(now, i)
		now = now.Add(15 * time.Millisecond)
		if _, ok := d.Poll(now); ok {
			t.Fatalf("trigger %d: delivered inside the quiet period", i)
		}
	}

	// Last trigger was 15ms ago
	now = now.Add(184 * time.Millisecond)
	if _, ok := d.Poll(now); ok {
		t.Fatal("delivered 1ms early")
	}

	now = now.Add(time.Millisecond)
	v, ok := d.Poll(now)
	if !ok {
		t.Fatal("expected delivery after quiet period")
	}
	if v != 10 {
		t.Errorf("expected last value 10, got %d", v)
	}

	if _, ok := d.Poll(now.Add(time.Hour)); ok {
		t.Error("expected single delivery")
	}
	if d.Pending() {
		t.Error("expected nothing pending")
	}
}
