package drills

import (
	"fmt"
	"io"
	"sort"
)

// Box is a rectangular box with dimensions kept in ascending order.
type Box struct {
	X, Y, Z int
}

// NewBox builds a box, sorting its dimensions so that rotations compare equal.
func NewBox(a, b, c int) Box {
	d := []int{a, b, c}
	sort.Ints(d)
	return Box{X: d[0], Y: d[1], Z: d[2]}
}

// Holds reports whether other fits inside b (touching walls allowed).
func (b Box) Holds(other Box) bool {
	return other.X <= b.X && other.Y <= b.Y && other.Z <= b.Z
}

// CompareBoxes returns "Box 1 = Box 2", "Box 1 > Box 2", "Box 1 < Box 2"
// or "Incomparable".
func CompareBoxes(first, second Box) string {
	switch {
	case first == second:
		return "Box 1 = Box 2"
	case first.Holds(second):
		return "Box 1 > Box 2"
	case second.Holds(first):
		return "Box 1 < Box 2"
	default:
		return "Incomparable"
	}
}

func runBoxes(in io.Reader, out io.Writer) error {
	d, err := scanInts(in, 6)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, CompareBoxes(NewBox(d[0], d[1], d[2]), NewBox(d[3], d[4], d[5])))
	return err
}
