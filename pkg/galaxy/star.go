package galaxy

import "fmt"

// Shape is the ornament drawn around a star's glow.
type Shape int

const (
	ShapeDot Shape = iota
	ShapeCross
	ShapeBigCross
	ShapeX
	ShapeBigX
)

// Shapes lists every shape in table order.
var Shapes = []Shape{ShapeDot, ShapeCross, ShapeBigCross, ShapeX, ShapeBigX}

var shapeNames = map[Shape]string{
	ShapeDot:      "dot",
	ShapeCross:    "cross",
	ShapeBigCross: "big_cross",
	ShapeX:        "x",
	ShapeBigX:     "big_x",
}

// Radius is the extra exclusion radius a shape adds to a star's collision
// buffer.
func (s Shape) Radius() int {
	switch s {
	case ShapeCross, ShapeBigCross, ShapeX:
		return 2
	case ShapeBigX:
		return 3
	default:
		return 0
	}
}

// ArmLength is the half-length of the cross or x ornament in pixels. Dots
// have no ornament.
func (s Shape) ArmLength() int {
	switch s {
	case ShapeCross, ShapeX:
		return 1
	case ShapeBigCross, ShapeBigX:
		return 2
	default:
		return 0
	}
}

// Diagonal reports whether the ornament is drawn as an x instead of a cross.
func (s Shape) Diagonal() bool {
	return s == ShapeX || s == ShapeBigX
}

func (s Shape) String() string {
	if n, ok := shapeNames[s]; ok {
		return n
	}
	return fmt.Sprintf("shape(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s Shape) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Star is a placed star. Stars are immutable once the star field accepts
// them.
type Star struct {
	Position Point `json:"position"`
	Color    RGB   `json:"color"`
	Shape    Shape `json:"shape"`
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Shape) UnmarshalText(text []byte) error {
	for k, n := range shapeNames {
		if n == string(text) {
			*s = k
			return nil
		}
	}
	return fmt.Errorf("unknown star shape %q", text)
}
