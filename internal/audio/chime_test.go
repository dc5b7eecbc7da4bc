package audio

import (
	"math"
	"testing"

	"github.com/faiface/beep"

	"github.com/iburimskiy/phase-backdrop/internal/phase"
)

func TestToneGeneratorEnvelope(t *testing.T) {
	g := NewToneGenerator(sampleRate, 523.25)
	buf := make([][2]float64, sampleRate.N(chimeLength))

	n, ok := g.Stream(buf)
	if !ok || n != len(buf) {
		t.Fatalf("expected %d samples, got %d (ok=%v)", len(buf), n, ok)
	}
	if buf[0][0] != 0 {
		t.Errorf("expected silent first sample, got %f", buf[0][0])
	}

	peak := 0.0
	for i, s := range buf {
		if s[0] != s[1] {
			t.Fatalf("expected mono sample at %d, got %v", i, s)
		}
		peak = math.Max(peak, math.Abs(s[0]))
	}
	if peak > chimeAmplitude {
		t.Errorf("expected peak <= %f, got %f", chimeAmplitude, peak)
	}
	if peak < chimeAmplitude/2 {
		t.Errorf("expected audible peak, got %f", peak)
	}

	tail := math.Abs(buf[len(buf)-1][0])
	if tail > chimeAmplitude*math.Exp(-chimeDecay*0.4) {
		t.Errorf("expected decayed tail, got %f", tail)
	}
}

func TestChimeLengthIsBounded(t *testing.T) {
	s := beep.Take(sampleRate.N(chimeLength), NewToneGenerator(sampleRate, 659.25))
	buf := make([][2]float64, 1024)

	total := 0
	for {
		n, ok := s.Stream(buf)
		total += n
		if !ok {
			break
		}
	}
	if want := sampleRate.N(chimeLength); total != want {
		t.Errorf("expected %d samples, got %d", want, total)
	}
}

func TestChimeQueuesWithoutSpeaker(t *testing.T) {
	c := New(-1)

	c.Play(phase.Developer)
	c.Play(phase.Gamer)
	if got := c.Pending(); got != 2 {
		t.Errorf("expected 2 queued chimes, got %d", got)
	}

	c.Play(phase.Phase(42))
	if got := c.Pending(); got != 2 {
		t.Errorf("expected unknown phase to be ignored, got %d", got)
	}

	c.Close()
	if got := c.Pending(); got != 0 {
		t.Errorf("expected empty mixer after close, got %d", got)
	}
}

func TestChimeMute(t *testing.T) {
	c := New(0)
	if c.Muted() {
		t.Fatal("expected new chime to be unmuted")
	}
	c.SetMuted(true)
	if !c.Muted() {
		t.Error("expected muted chime")
	}
	c.SetMuted(false)
	if c.Muted() {
		t.Error("expected unmuted chime")
	}
}

func TestNilChimeIsSilent(t *testing.T) {
	var c *Chime
	if err := c.Init(); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
	c.Play(phase.Gamer)
	c.SetMuted(true)
	c.Close()
	if c.Pending() != 0 || !c.Muted() {
		t.Error("expected nil chime to stay silent")
	}
}

func TestEveryPhaseHasTone(t *testing.T) {
	for _, p := range phase.All() {
		if _, ok := Tones[p]; !ok {
			t.Errorf("expected a tone for %s", p)
		}
	}
}
