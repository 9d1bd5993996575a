package drills

import (
	"fmt"
	"io"
	"strings"
)

var rainbow = []string{"red", "orange", "yellow", "green", "blue", "indigo", "violet"}

// IsRainbowColor matches name against the seven rainbow colors, ignoring case.
func IsRainbowColor(name string) bool {
	name = strings.ToLower(name)
	for _, c := range rainbow {
		if c == name {
			return true
		}
	}
	return false
}

func runRainbow(in io.Reader, out io.Writer) error {
	var word string
	if _, err := fmt.Fscan(in, &word); err != nil {
		return fmt.Errorf("read color: %w", err)
	}
	_, err := fmt.Fprintln(out, IsRainbowColor(word))
	return err
}
