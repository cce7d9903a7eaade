package sim

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Outcome is a distinct bracket and how many trials produced it.
type Outcome struct {
	Key   Key `json:"-"`
	Count int `json:"count"`
	seen  int
}

// Bracket decodes the outcome's key.
func (o Outcome) Bracket() Bracket {
	return o.Key.Decode()
}

// Tally accumulates bracket counts and standings positions across trials.
type Tally struct {
	RunID     uuid.UUID
	Requested int
	Completed int
	Elapsed   time.Duration

	counts    map[Key]*Outcome
	positions map[string]int
	teams     []string
}

func newTally(teams []string) *Tally {
	return &Tally{
		counts:    make(map[Key]*Outcome),
		positions: make(map[string]int, len(teams)),
		teams:     teams,
	}
}

func (t *Tally) record(key Key, ranked []Record) {
	o, ok := t.counts[key]
	if !ok {
		o = &Outcome{Key: key, seen: len(t.counts)}
		t.counts[key] = o
	}
	o.Count++
	for pos, r := range ranked {
		t.positions[r.Team] += pos
	}
	t.Completed++
}

// merge folds other into t. Outcomes first seen in other are ordered after
// everything already in t.
func (t *Tally) merge(other *Tally) {
	for _, o := range other.sorted(func(a, b *Outcome) bool { return a.seen < b.seen }) {
		mine, ok := t.counts[o.Key]
		if !ok {
			mine = &Outcome{Key: o.Key, seen: len(t.counts)}
			t.counts[o.Key] = mine
		}
		mine.Count += o.Count
	}
	for team, pos := range other.positions {
		t.positions[team] += pos
	}
	t.Completed += other.Completed
}

func (t *Tally) sorted(less func(a, b *Outcome) bool) []Outcome {
	ptrs := make([]*Outcome, 0, len(t.counts))
	for _, o := range t.counts {
		ptrs = append(ptrs, o)
	}
	sort.Slice(ptrs, func(i, j int) bool { return less(ptrs[i], ptrs[j]) })
	out := make([]Outcome, len(ptrs))
	for i, o := range ptrs {
		out[i] = *o
	}
	return out
}

// Counts returns every distinct bracket with its count.
func (t *Tally) Counts() map[Key]int {
	m := make(map[Key]int, len(t.counts))
	for k, o := range t.counts {
		m[k] = o.Count
	}
	return m
}

// Distinct is the number of different brackets observed.
func (t *Tally) Distinct() int {
	return len(t.counts)
}

// Ascending lists outcomes by count, lowest first. Equal counts keep the
// order in which the brackets were first observed.
func (t *Tally) Ascending() []Outcome {
	return t.sorted(func(a, b *Outcome) bool {
		if a.Count != b.Count {
			return a.Count < b.Count
		}
		return a.seen < b.seen
	})
}

// Descending lists outcomes by count, highest first, ties by first observation.
func (t *Tally) Descending() []Outcome {
	return t.sorted(func(a, b *Outcome) bool {
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.seen < b.seen
	})
}

// LeastFrequent returns the first n outcomes of Ascending. This is the
// selection the reports call the "top" brackets.
func (t *Tally) LeastFrequent(n int) []Outcome {
	return head(t.Ascending(), n)
}

// MostFrequent returns the first n outcomes of Descending.
func (t *Tally) MostFrequent(n int) []Outcome {
	return head(t.Descending(), n)
}

func head(outcomes []Outcome, n int) []Outcome {
	if n >= 0 && n < len(outcomes) {
		return outcomes[:n]
	}
	return outcomes
}

// AverageStanding is a team's mean zero-based regular-season finish.
type AverageStanding struct {
	Team     string  `json:"team"`
	Position float64 `json:"position"`
}

// AverageStandings returns every team's mean finishing position, best first.
func (t *Tally) AverageStandings() []AverageStanding {
	out := make([]AverageStanding, len(t.teams))
	for i, team := range t.teams {
		avg := 0.0
		if t.Completed > 0 {
			avg = float64(t.positions[team]) / float64(t.Completed)
		}
		out[i] = AverageStanding{Team: team, Position: avg}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

// Runner executes independent trials of a league on a pool of workers.
type Runner struct {
	league  *League
	logger  *logrus.Logger
	workers int
	seed    uint64
	seeded  bool
}

// RunnerOption customizes a Runner.
type RunnerOption func(*Runner)

// WithWorkers sets the worker count; values below 1 mean runtime.NumCPU.
func WithWorkers(n int) RunnerOption {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithSeed makes a run reproducible for a fixed worker count.
func WithSeed(seed uint64) RunnerOption {
	return func(r *Runner) {
		r.seed = seed
		r.seeded = true
	}
}

// NewRunner creates a runner for league.
func NewRunner(league *League, logger *logrus.Logger, opts ...RunnerOption) *Runner {
	r := &Runner{
		league:  league,
		logger:  logger,
		workers: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes numTrials trials and tallies their brackets. Cancelling ctx
// stops new trials from starting; the tally then covers only completed
// trials. An invariant violation in any trial aborts the run.
func (r *Runner) Run(ctx context.Context, numTrials int) (*Tally, error) {
	if numTrials <= 0 {
		return nil, configErrorf("num_trials", "must be positive, got %d", numTrials)
	}

	workers := r.workers
	if workers > numTrials {
		workers = numTrials
	}
	seed := r.seed
	if !r.seeded {
		seed = rand.Uint64()
	}

	tally := newTally(r.league.TeamNames())
	tally.RunID = uuid.New()
	tally.Requested = numTrials
	log := r.logger.WithField("run_id", tally.RunID.String())
	log.WithFields(logrus.Fields{
		"trials":  numTrials,
		"workers": workers,
	}).Info("Starting playoff trials")

	start := time.Now()
	partials := make([]*Tally, workers)
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		share := numTrials / workers
		if w < numTrials%workers {
			share++
		}
		partials[w] = newTally(tally.teams)
		g.Go(func() error {
			rng := rand.New(rand.NewPCG(seed, uint64(w)))
			return r.work(gctx, rng, share, partials[w])
		})
	}

	// partials are merged in worker order once every worker has stopped
	err := g.Wait()
	for _, p := range partials {
		tally.merge(p)
	}
	tally.Elapsed = time.Since(start)

	if err != nil {
		log.WithError(err).Error("Playoff trials aborted")
		return nil, err
	}
	if tally.Completed < numTrials {
		log.WithFields(logrus.Fields{
			"completed": tally.Completed,
			"requested": numTrials,
		}).Warn("Run stopped early, tallying completed trials")
	}
	log.WithFields(logrus.Fields{
		"completed": tally.Completed,
		"distinct":  tally.Distinct(),
		"elapsed":   tally.Elapsed.String(),
	}).Info("Playoff trials finished")
	return tally, nil
}

func (r *Runner) work(ctx context.Context, rng *rand.Rand, trials int, partial *Tally) error {
	for i := 0; i < trials; i++ {
		if ctx.Err() != nil {
			return nil
		}
		season, err := NewSeason(r.league, rng)
		if err != nil {
			return fmt.Errorf("trial %d: %w", i, err)
		}
		bracket, err := season.Results()
		if err != nil {
			return fmt.Errorf("trial %d: %w", i, err)
		}
		key, err := Encode(bracket)
		if err != nil {
			return fmt.Errorf("trial %d: %w", i, err)
		}
		partial.record(key, season.Standings().Ranked())
	}
	return nil
}

// RunTrials validates the inputs, runs numTrials trials and returns the
// bracket counts.
func RunTrials(ctx context.Context, teams []Team, config Config, numTrials int, logger *logrus.Logger, opts ...RunnerOption) (*Tally, error) {
	if numTrials <= 0 {
		return nil, configErrorf("num_trials", "must be positive, got %d", numTrials)
	}
	league, err := NewLeague(teams, config)
	if err != nil {
		return nil, err
	}
	return NewRunner(league, logger, opts...).Run(ctx, numTrials)
}
