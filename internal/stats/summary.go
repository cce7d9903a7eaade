package stats

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// Summarize returns the mean and sample standard deviation of points. A
// single game has no spread and reports a standard deviation of zero.
func Summarize(points []float64) (Distribution, error) {
	if len(points) == 0 {
		return Distribution{}, fmt.Errorf("no scored games")
	}
	mean, std := stat.MeanStdDev(points, nil)
	if len(points) < 2 || math.IsNaN(std) {
		std = 0
	}
	return Distribution{Mean: mean, StdDev: std}, nil
}

// PlayerCode builds the FantasyPros URL slug for a player name, e.g.
// "Amon-Ra St. Brown" becomes "amonra-stbrown". Names listed in exceptions
// get their disambiguating suffix appended.
func PlayerCode(name string, exceptions map[string]string) (string, error) {
	parts := strings.SplitN(strings.TrimSpace(name), " ", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("player name %q needs a first and last name", name)
	}

	first := strings.NewReplacer(".", "", "-", "", "'", "").Replace(parts[0])
	last := strings.NewReplacer(".", "", " ", "").Replace(parts[1])
	code := strings.ToLower(first) + "-" + strings.ToLower(last)

	if suffix, ok := exceptions[name]; ok {
		code += "-" + suffix
	}
	return code, nil
}
