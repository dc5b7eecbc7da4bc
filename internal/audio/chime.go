// Package audio plays a short chime whenever the active phase changes.
package audio

import (
	"math"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"

	"github.com/iburimskiy/phase-backdrop/internal/phase"
)

const (
	sampleRate     = beep.SampleRate(48000)
	chimeLength    = 450 * time.Millisecond
	chimeAttack    = 8 * time.Millisecond
	chimeDecay     = 6.0 // envelope decay rate per second
	chimeAmplitude = 0.25
)

// Tones maps each phase to its chime frequency in Hz (C5, E5, G5).
var Tones = map[phase.Phase]float64{
	phase.Designer:  523.25,
	phase.Developer: 659.25,
	phase.Gamer:     783.99,
}

// Chime mixes phase chimes into a single speaker stream.
// A nil *Chime is a valid, silent subsystem.
type Chime struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	ctrl        *beep.Ctrl
	volume      *effects.Volume
	initialized bool
}

// New returns a chime at the given volume in beep's log2 scale (0 = unity).
// The speaker is opened lazily by Init.
func New(volume float64) *Chime {
	mixer := &beep.Mixer{}
	ctrl := &beep.Ctrl{Streamer: mixer}
	return &Chime{
		mixer:  mixer,
		ctrl:   ctrl,
		volume: &effects.Volume{Streamer: ctrl, Base: 2, Volume: volume},
	}
}

// Init opens the speaker and starts the mixer. Calling it again is a no-op.
func (c *Chime) Init() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(c.volume)
	c.initialized = true
	return nil
}

// Play queues the chime for p. Unknown phases are ignored.
func (c *Chime) Play(p phase.Phase) {
	if c == nil {
		return
	}
	freq, ok := Tones[p]
	if !ok {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	tone := beep.Take(sampleRate.N(chimeLength), NewToneGenerator(sampleRate, freq))
	c.lockSpeaker()
	c.mixer.Add(tone)
	c.unlockSpeaker()
}

// SetMuted pauses or resumes the whole chime stream.
func (c *Chime) SetMuted(muted bool) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lockSpeaker()
	c.ctrl.Paused = muted
	c.unlockSpeaker()
}

// Muted reports whether the stream is paused.
func (c *Chime) Muted() bool {
	if c == nil {
		return true
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ctrl.Paused
}

// Pending returns the number of chimes still sounding.
func (c *Chime) Pending() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lockSpeaker()
	defer c.unlockSpeaker()
	return c.mixer.Len()
}

// Close silences and detaches everything queued.
func (c *Chime) Close() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		c.mixer.Clear()
		return
	}
	speaker.Lock()
	c.ctrl.Paused = true
	c.mixer.Clear()
	speaker.Unlock()
	speaker.Clear()
	c.initialized = false
}

func (c *Chime) lockSpeaker() {
	if c.initialized {
		speaker.Lock()
	}
}

func (c *Chime) unlockSpeaker() {
	if c.initialized {
		speaker.Unlock()
	}
}

// ToneGenerator is a sine tone with a short linear attack and an
// exponential decay.
type ToneGenerator struct {
	sr   beep.SampleRate
	freq float64
	pos  int
}

// NewToneGenerator creates a tone generator for freq Hz.
func NewToneGenerator(sr beep.SampleRate, freq float64) *ToneGenerator {
	return &ToneGenerator{sr: sr, freq: freq}
}

func (g *ToneGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	attack := g.sr.N(chimeAttack)
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)

		envelope := math.Exp(-chimeDecay * t)
		if g.pos < attack {
			envelope *= float64(g.pos) / float64(attack)
		}
		sample := chimeAmplitude * envelope * math.Sin(2*math.Pi*g.freq*t)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *ToneGenerator) Err() error {
	return nil
}
