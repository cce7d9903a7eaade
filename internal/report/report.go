// Package report renders the outcome of a batch of playoff trials.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/sam-maryland/playoff-sim/internal/sim"
)

// RoundReport is one round of a reported bracket
type RoundReport struct {
	Name     string      `json:"name"`
	Matchups [][2]string `json:"matchups,omitempty"`
	Champion string      `json:"champion,omitempty"`
}

// Entries renders the round the way it is printed, e.g. "[(A, D), (B, C)]"
func (r RoundReport) Entries() string {
	if r.Champion != "" {
		return "[" + r.Champion + "]"
	}
	pairs := make([]string, len(r.Matchups))
	for i, m := range r.Matchups {
		pairs[i] = fmt.Sprintf("(%s, %s)", m[0], m[1])
	}
	return "[" + strings.Join(pairs, ", ") + "]"
}

// BracketReport is a reported bracket and how often it occurred
type BracketReport struct {
	Rank   int           `json:"rank"`
	Count  int           `json:"count"`
	Share  float64       `json:"share"`
	Rounds []RoundReport `json:"rounds"`
}

// Summary is the full result of a run
type Summary struct {
	RunID            string                `json:"run_id"`
	Trials           int                   `json:"trials"`
	Completed        int                   `json:"completed"`
	Distinct         int                   `json:"distinct_brackets"`
	Order            string                `json:"order"`
	Elapsed          string                `json:"elapsed"`
	Brackets         []BracketReport       `json:"brackets"`
	AverageStandings []sim.AverageStanding `json:"average_standings"`
}

// Build selects n brackets from tally. By default the least frequent
// outcomes are reported; mostFrequent reverses the selection.
func Build(tally *sim.Tally, n int, mostFrequent bool) Summary {
	order := "least_frequent"
	outcomes := tally.LeastFrequent(n)
	if mostFrequent {
		order = "most_frequent"
		outcomes = tally.MostFrequent(n)
	}

	s := Summary{
		RunID:            tally.RunID.String(),
		Trials:           tally.Requested,
		Completed:        tally.Completed,
		Distinct:         tally.Distinct(),
		Order:            order,
		Elapsed:          tally.Elapsed.String(),
		Brackets:         make([]BracketReport, len(outcomes)),
		AverageStandings: tally.AverageStandings(),
	}
	for i, o := range outcomes {
		share := 0.0
		if tally.Completed > 0 {
			share = float64(o.Count) / float64(tally.Completed)
		}
		s.Brackets[i] = BracketReport{
			Rank:   i + 1,
			Count:  o.Count,
			Share:  share,
			Rounds: Rounds(o.Bracket()),
		}
	}
	return s
}

// Rounds converts a bracket into its reported form
func Rounds(b sim.Bracket) []RoundReport {
	rounds := make([]RoundReport, len(b))
	for i, r := range b {
		rr := RoundReport{Name: string(r.Name)}
		if r.Name == sim.RoundChampion && len(r.Teams) == 1 {
			rr.Champion = r.Teams[0]
		} else {
			for _, m := range r.Matchups {
				rr.Matchups = append(rr.Matchups, [2]string{m.Home, m.Away})
			}
		}
		rounds[i] = rr
	}
	return rounds
}

// PrintBrackets writes each reported bracket followed by the number of
// distinct brackets seen
func PrintBrackets(w io.Writer, s Summary) error {
	var b strings.Builder
	for _, br := range s.Brackets {
		fmt.Fprintf(&b, "#%d Bracket\n", br.Rank)
		for _, r := range br.Rounds {
			fmt.Fprintf(&b, "%s: %s\n", r.Name, r.Entries())
		}
		fmt.Fprintf(&b, "seen in %d of %d trials (%.2f%%)\n\n", br.Count, s.Completed, br.Share*100)
	}
	fmt.Fprintf(&b, "number of different brackets simulated: %d\n", s.Distinct)

	_, err := io.WriteString(w, b.String())
	return err
}

// PrintStandings writes the average regular-season finish of every team
func PrintStandings(w io.Writer, s Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	fmt.Fprintln(tw, "Team\tAvg finish")
	for _, a := range s.AverageStandings {
		fmt.Fprintf(tw, "%s\t%.2f\n", a.Team, a.Position+1)
	}
	return tw.Flush()
}

// WriteCSV writes one row per reported bracket with one column per round,
// named after the rounds of the first bracket
func WriteCSV(w io.Writer, s Summary) error {
	if len(s.Brackets) == 0 {
		return fmt.Errorf("no brackets to export")
	}

	cw := csv.NewWriter(w)
	header := []string{"bracket_number"}
	for _, r := range s.Brackets[0].Rounds {
		header = append(header, r.Name)
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, br := range s.Brackets {
		row := make([]string, len(header))
		row[0] = strconv.Itoa(br.Rank)
		for i, r := range br.Rounds {
			if i+1 < len(row) {
				row[i+1] = r.Entries()
			}
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes the CSV export to path
func WriteCSVFile(path string, s Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := WriteCSV(f, s); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
