package game

import (
	"testing"
	"time"
)

func TestFrameTapSnapshotOrder(t *testing.T) {
	tap := newFrameTap(4)
	for i := 1; i <= 6; i++ {
		tap.record(TickStats{Tick: uint64(i)})
	}

	got := tap.snapshot(10)
	if len(got) != 4 {
		t.Fatalf("expected 4 stats, got %d", len(got))
	}
	for i, want := range []uint64{3, 4, 5, 6} {
		if got[i].Tick != want {
			t.Errorf("index %d: expected tick %d, got %d", i, want, got[i].Tick)
		}
	}

	if got := tap.snapshot(2); got[0].Tick != 5 || got[1].Tick != 6 {
		t.Errorf("expected ticks [5 6], got [%d %d]", got[0].Tick, got[1].Tick)
	}
}

func TestFrameTapPartiallyFilled(t *testing.T) {
	tap := newFrameTap(8)
	tap.record(TickStats{Tick: 1})
	if got := tap.snapshot(8); len(got) != 1 {
		t.Errorf("expected 1 stat, got %d", len(got))
	}
}

func TestAverageFPS(t *testing.T) {
	stats := []TickStats{
		{Delta: 0},
		{Delta: 20 * time.Millisecond},
		{Delta: 20 * time.Millisecond},
	}
	if got := AverageFPS(stats); got < 49.99 || got > 50.01 {
		t.Errorf("expected 50 fps, got %f", got)
	}
	if got := AverageFPS(nil); got != 0 {
		t.Errorf("expected 0 fps for no stats, got %f", got)
	}
}

func TestFormatDuration(t *testing.T) {
	if got := FormatDuration(75 * time.Second); got != "01:15" {
		t.Errorf("expected 01:15, got %s", got)
	}
}
