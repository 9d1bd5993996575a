package drills

import (
	"fmt"
	"io"
)

// ClassifySleep compares actual hours against the recommended range.
func ClassifySleep(minHours, maxHours, actual int) string {
	switch {
	case actual > maxHours:
		return "Excess"
	case actual < minHours:
		return "Deficiency"
	default:
		return "Normal"
	}
}

func runSleep(in io.Reader, out io.Writer) error {
	v, err := scanInts(in, 3)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, ClassifySleep(v[0], v[1], v[2]))
	return err
}
