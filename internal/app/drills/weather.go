package drills

import (
	"fmt"
	"io"
	"sort"
)

// Plausible surface temperatures; readings outside are replaced by a
// per-city fallback.
const (
	minDegrees = -92
	maxDegrees = 57
)

var fallbackDegrees = map[string]int{
	"Dubai":  30,
	"Moscow": 5,
	"Hanoi":  20,
}

// City is a named temperature reading.
type City struct {
	Name    string
	Reading int
}

// Degrees returns the reading, or the city's fallback when the reading is
// implausible and a fallback is known.
func (c City) Degrees() int {
	if c.Reading >= minDegrees && c.Reading <= maxDegrees {
		return c.Reading
	}
	if d, ok := fallbackDegrees[c.Name]; ok {
		return d
	}
	return c.Reading
}

// Coldest returns the coldest city's name, or "neither" when the two
// coldest readings tie.
func Coldest(cities ...City) string {
	if len(cities) == 0 {
		return "neither"
	}
	sorted := append([]City(nil), cities...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Degrees() < sorted[j].Degrees() })
	if len(sorted) > 1 && sorted[0].Degrees() == sorted[1].Degrees() {
		return "neither"
	}
	return sorted[0].Name
}

func runWeather(in io.Reader, out io.Writer) error {
	v, err := scanInts(in, 3)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, Coldest(
		City{Name: "Dubai", Reading: v[0]},
		City{Name: "Moscow", Reading: v[1]},
		City{Name: "Hanoi", Reading: v[2]},
	))
	return err
}
