package drills

import (
	"fmt"
	"io"
)

// Largest returns the maximum of seq up to and including the first 0.
// The running maximum starts at 0, so all-negative input yields 0.
func Largest(seq []int) int {
	best := 0
	for _, n := range seq {
		best = max(best, n)
		if n == 0 {
			break
		}
	}
	return best
}

func runLargest(in io.Reader, out io.Writer) error {
	var seq []int
	for {
		var n int
		if _, err := fmt.Fscan(in, &n); err != nil {
			return fmt.Errorf("read sequence: %w", err)
		}
		seq = append(seq, n)
		if n == 0 {
			break
		}
	}
	_, err := fmt.Fprintln(out, Largest(seq))
	return err
}
