package actor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/milk9111/tilerpg/common"
)

var ErrBadDirection = errors.New("actor: invalid direction")

// Direction is the way an actor looks. It is authored in map properties as
// one of: up, right, down, left.
type Direction int

const (
	DirNone Direction = iota
	DirUp
	DirRight
	DirDown
	DirLeft
)

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirRight:
		return "right"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	default:
		return "none"
	}
}

// Vector returns the unit step for d in screen space (Y grows downwards).
func (d Direction) Vector() common.Vec2 {
	switch d {
	case DirUp:
		return common.V(0, -1)
	case DirRight:
		return common.V(1, 0)
	case DirDown:
		return common.V(0, 1)
	case DirLeft:
		return common.V(-1, 0)
	default:
		return common.Vec2{}
	}
}

// Mask returns the single-bit mask for d.
func (d Direction) Mask() DirectionMask {
	switch d {
	case DirUp:
		return MaskUp
	case DirRight:
		return MaskRight
	case DirDown:
		return MaskDown
	case DirLeft:
		return MaskLeft
	default:
		return 0
	}
}

// ParseDirection parses a direction keyword. The empty string is DirNone.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DirNone, nil
	case "up":
		return DirUp, nil
	case "right":
		return DirRight, nil
	case "down":
		return DirDown, nil
	case "left":
		return DirLeft, nil
	default:
		return DirNone, fmt.Errorf("%w: %q", ErrBadDirection, s)
	}
}

// DirectionOf returns the dominant axis direction of v. Ties favor the
// vertical axis.
func DirectionOf(v common.Vec2) Direction {
	if v.IsZero() {
		return DirNone
	}
	ax, ay := v.X, v.Y
	if ax < 0 {
		ax = -ax
	}
	if ay < 0 {
		ay = -ay
	}
	if ax > ay {
		if v.X > 0 {
			return DirRight
		}
		return DirLeft
	}
	if v.Y > 0 {
		return DirDown
	}
	return DirUp
}

// DirectionMask is a set of directions, used by passages to describe the
// approach directions they accept.
type DirectionMask uint8

const (
	MaskUp DirectionMask = 1 << iota
	MaskRight
	MaskDown
	MaskLeft

	MaskAll = MaskUp | MaskRight | MaskDown | MaskLeft
)

// Has reports whether d is in the mask.
func (m DirectionMask) Has(d Direction) bool {
	return m&d.Mask() != 0
}

// Matches reports whether the movement vector v has a component along any
// direction in the mask.
func (m DirectionMask) Matches(v common.Vec2) bool {
	return (m&MaskUp != 0 && v.Y < 0) ||
		(m&MaskDown != 0 && v.Y > 0) ||
		(m&MaskLeft != 0 && v.X < 0) ||
		(m&MaskRight != 0 && v.X > 0)
}

func (m DirectionMask) String() string {
	var parts []string
	for _, d := range []Direction{DirUp, DirRight, DirDown, DirLeft} {
		if m.Has(d) {
			parts = append(parts, d.String())
		}
	}
	return strings.Join(parts, ",")
}

// ParseDirectionMask parses a comma or space separated keyword set such as
// "up,left". "all" selects every direction.
func ParseDirectionMask(s string) (DirectionMask, error) {
	var m DirectionMask
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '|'
	})
	for _, f := range fields {
		if strings.EqualFold(f, "all") {
			m |= MaskAll
			continue
		}
		d, err := ParseDirection(f)
		if err != nil {
			return 0, err
		}
		m |= d.Mask()
	}
	return m, nil
}
