package drills

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Staircase returns the first n items of 1 2 2 3 3 3 4 4 4 4 ...
func Staircase(n int) []int {
	if n <= 0 {
		return nil
	}
	out := make([]int, 0, n)
	for v := 1; len(out) < n; v++ {
		for i := 0; i < v && len(out) < n; i++ {
			out = append(out, v)
		}
	}
	return out
}

func runSequence(in io.Reader, out io.Writer) error {
	v, err := scanInts(in, 1)
	if err != nil {
		return err
	}
	items := Staircase(v[0])
	parts := make([]string, len(items))
	for i, n := range items {
		parts[i] = strconv.Itoa(n)
	}
	_, err = fmt.Fprintln(out, strings.Join(parts, " "))
	return err
}
