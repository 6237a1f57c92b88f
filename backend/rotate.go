package main

// Quadrant identifies one of the four independently rotatable 3x3 sub-boards.
type Quadrant int

const (
	QuadrantTopLeft Quadrant = iota
	QuadrantTopRight
	QuadrantBottomLeft
	QuadrantBottomRight
)

const quadrantSize = 3

type RotationDirection int

const (
	RotateClockwise RotationDirection = iota
	RotateCounterClockwise
)

func (q Quadrant) IsValid() bool {
	return q >= QuadrantTopLeft && q <= QuadrantBottomRight
}

// Origin returns the board coordinates of the quadrant's top-left cell.
func (q Quadrant) Origin() (int, int) {
	ox := 0
	if q == QuadrantTopRight || q == QuadrantBottomRight {
		ox = quadrantSize
	}
	oy := 0
	if q == QuadrantBottomLeft || q == QuadrantBottomRight {
		oy = quadrantSize
	}
	return ox, oy
}

func (q Quadrant) String() string {
	switch q {
	case QuadrantTopLeft:
		return "top-left"
	case QuadrantTopRight:
		return "top-right"
	case QuadrantBottomLeft:
		return "bottom-left"
	case QuadrantBottomRight:
		return "bottom-right"
	default:
		return "invalid"
	}
}

func (d RotationDirection) IsValid() bool {
	return d == RotateClockwise || d == RotateCounterClockwise
}

func (d RotationDirection) String() string {
	if d == RotateClockwise {
		return "clockwise"
	}
	return "counter-clockwise"
}

// RotateQuadrant returns a copy of board with one quadrant turned 90 degrees.
// Clockwise maps quadrant-local (x,y) to (2-y,x), counter-clockwise to (y,2-x);
// the other three quadrants are untouched.
func RotateQuadrant(board Board, quadrant Quadrant, dir RotationDirection) Board {
	ox, oy := quadrant.Origin()
	rotated := board
	for y := 0; y < quadrantSize; y++ {
		for x := 0; x < quadrantSize; x++ {
			tx, ty := quadrantSize-1-y, x
			if dir == RotateCounterClockwise {
				tx, ty = y, quadrantSize-1-x
			}
			rotated.Set(ox+tx, oy+ty, board.At(ox+x, oy+y))
		}
	}
	return rotated
}
