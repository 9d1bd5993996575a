// Package drills holds the small console exercises that ship alongside the
// coffee machine. Each drill is a pure function plus a Runner that reads its
// arguments from a reader and prints a single answer.
package drills

import (
	"fmt"
	"io"
	"sort"
)

// Runner reads a drill's input from in and writes the answer to out.
type Runner func(in io.Reader, out io.Writer) error

// Drill describes one exercise.
type Drill struct {
	Name  string
	Short string
	Run   Runner
}

// All returns every drill, sorted by name.
func All() []Drill {
	list := []Drill{
		{Name: "boxes", Short: "Compare two boxes given as \"x y z\" lines", Run: runBoxes},
		{Name: "sleep", Short: "Classify hours of sleep against a min/max range", Run: runSleep},
		{Name: "rainbow", Short: "Report whether a word is a rainbow color", Run: runRainbow},
		{Name: "largest", Short: "Largest of a zero-terminated integer sequence", Run: runLargest},
		{Name: "sequence", Short: "First n items of 1 2 2 3 3 3 ...", Run: runSequence},
		{Name: "weather", Short: "Coldest of Dubai, Moscow and Hanoi", Run: runWeather},
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

// Lookup finds a drill by name.
func Lookup(name string) (Drill, bool) {
	for _, d := range All() {
		if d.Name == name {
			return d, true
		}
	}
	return Drill{}, false
}

// scanInts reads exactly n integers.
func scanInts(in io.Reader, n int) ([]int, error) {
	out := make([]int, n)
	for i := range out {
		if _, err := fmt.Fscan(in, &out[i]); err != nil {
			return nil, fmt.Errorf("read integer %d of %d: %w", i+1, n, err)
		}
	}
	return out, nil
}
