// Package phase models the DESIGNER → DEVELOPER → GAMER identity phases, the
// colors the backdrop uses for each, and the section-visibility manager that
// decides which phase is active.
package phase

import (
	"errors"
	"fmt"
	"image/color"
)

// Phase is one of the fixed page identities.
type Phase uint8

const (
	Designer Phase = iota
	Developer
	Gamer

	phaseCount
)

// ErrUnknownPhase is returned for keys outside the closed set.
var ErrUnknownPhase = errors.New("unknown phase")

var phaseKeys = [phaseCount]string{"designer", "developer", "gamer"}

// All lists the phases in page order.
func All() []Phase {
	return []Phase{Designer, Developer, Gamer}
}

// Parse validates an external phase key.
func Parse(key string) (Phase, error) {
	for i, k := range phaseKeys {
		if k == key {
			return Phase(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPhase, key)
}

// Valid reports whether p is a member of the closed set.
func (p Phase) Valid() bool {
	return p < phaseCount
}

func (p Phase) String() string {
	if !p.Valid() {
		return fmt.Sprintf("phase(%d)", uint8(p))
	}
	return phaseKeys[p]
}

// Label is the indicator text shown in the navbar.
func (p Phase) Label() string {
	switch p {
	case Designer:
		return "DESIGNER"
	case Developer:
		return "DEVELOPER"
	case Gamer:
		return "GAMER"
	}
	return ""
}

// Colors is the stroke/fill pair used for every particle and connection of a
// frame.
type Colors struct {
	Stroke color.NRGBA
	Fill   color.NRGBA
}

// alpha converts a CSS-style alpha fraction to an 8-bit channel.
func alpha(f float64) uint8 {
	return uint8(f*255 + 0.5)
}

// Palette is the static phase → colors table.
var Palette = map[Phase]Colors{
	Designer: {
		Stroke: color.NRGBA{R: 179, G: 92, B: 255, A: alpha(0.55)},
		Fill:   color.NRGBA{R: 179, G: 92, B: 255, A: alpha(0.08)},
	},
	Developer: {
		Stroke: color.NRGBA{R: 63, G: 169, B: 245, A: alpha(0.55)},
		Fill:   color.NRGBA{R: 63, G: 169, B: 245, A: alpha(0.08)},
	},
	Gamer: {
		Stroke: color.NRGBA{R: 255, G: 42, B: 42, A: alpha(0.6)},
		Fill:   color.NRGBA{R: 255, G: 42, B: 42, A: alpha(0.1)},
	},
}
