package roster

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/sam-maryland/playoff-sim/internal/sim"
	"github.com/sam-maryland/playoff-sim/internal/sleeper"
	"github.com/sam-maryland/playoff-sim/internal/stats"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const defaultConcurrency = 4

// Loader assembles simulation teams from a roster file or a Sleeper league,
// filling in scoring distributions from player game logs.
type Loader struct {
	stats           stats.Client
	sleeper         sleeper.Client
	logger          *logrus.Logger
	concurrency     int
	skipUnavailable bool
}

// Option customizes a Loader
type Option func(*Loader)

// WithConcurrency limits the number of game logs fetched at once
func WithConcurrency(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.concurrency = n
		}
	}
}

// WithSkipUnavailable drops players whose game log cannot be retrieved
// instead of failing the load.
func WithSkipUnavailable() Option {
	return func(l *Loader) {
		l.skipUnavailable = true
	}
}

// NewLoader creates a roster loader. sleeperClient may be nil when only
// roster files are used.
func NewLoader(statsClient stats.Client, sleeperClient sleeper.Client, logger *logrus.Logger, opts ...Option) *Loader {
	l := &Loader{
		stats:       statsClient,
		sleeper:     sleeperClient,
		logger:      logger,
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// FromFile loads teams from a YAML roster file, in file order
func (l *Loader) FromFile(ctx context.Context, path string) ([]sim.Team, error) {
	file, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	l.logger.WithFields(logrus.Fields{
		"path":  path,
		"teams": len(file.Teams),
	}).Info("Loading rosters from file")

	return l.resolve(ctx, file.Teams)
}

// FromSleeper loads the starting lineups of every roster in a Sleeper league,
// ordered by roster ID. The returned config carries the league's own season
// length and playoff size, zero where Sleeper does not report them.
func (l *Loader) FromSleeper(ctx context.Context, leagueID string) ([]sim.Team, sim.Config, error) {
	if l.sleeper == nil {
		return nil, sim.Config{}, fmt.Errorf("no Sleeper client configured")
	}

	league, err := l.sleeper.GetLeague(leagueID)
	if err != nil {
		return nil, sim.Config{}, err
	}
	users, err := l.sleeper.GetLeagueUsers(leagueID)
	if err != nil {
		return nil, sim.Config{}, err
	}
	rosters, err := l.sleeper.GetLeagueRosters(leagueID)
	if err != nil {
		return nil, sim.Config{}, err
	}
	players, err := l.sleeper.GetAllPlayers()
	if err != nil {
		return nil, sim.Config{}, err
	}

	entries := sleeperEntries(users, rosters, players)
	l.logger.WithFields(logrus.Fields{
		"league_id": leagueID,
		"league":    league.Name,
		"teams":     len(entries),
	}).Info("Loading rosters from Sleeper")

	teams, err := l.resolve(ctx, entries)
	if err != nil {
		return nil, sim.Config{}, err
	}
	defaults := sim.Config{
		NumWeeks:        league.Settings.RegularSeasonWeeks(),
		NumPlayoffTeams: league.Settings.PlayoffTeams,
	}
	return teams, defaults, nil
}

func sleeperEntries(users []sleeper.User, rosters []sleeper.Roster, players map[string]sleeper.Player) []TeamEntry {
	owners := make(map[string]sleeper.User, len(users))
	for _, u := range users {
		owners[u.UserID] = u
	}

	sorted := append([]sleeper.Roster(nil), rosters...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].RosterID < sorted[j].RosterID })

	entries := make([]TeamEntry, 0, len(sorted))
	for _, r := range sorted {
		name := fmt.Sprintf("Team %d", r.RosterID)
		if u, ok := owners[r.OwnerID]; ok {
			switch {
			case u.Metadata.TeamName != "":
				name = u.Metadata.TeamName
			case u.DisplayName != "":
				name = u.DisplayName
			}
		}

		ids := r.Starters
		if len(ids) == 0 {
			ids = r.Players
		}
		entry := TeamEntry{Name: name}
		for _, id := range ids {
			// "0" marks an empty starting slot
			if id == "" || id == "0" {
				continue
			}
			if p, ok := players[id]; ok && p.Name() != "" {
				entry.Players = append(entry.Players, PlayerEntry{Name: p.Name()})
			}
		}
		entries = append(entries, entry)
	}
	return entries
}

type fetchJob struct {
	team, player int
	name         string
}

func (l *Loader) resolve(ctx context.Context, entries []TeamEntry) ([]sim.Team, error) {
	teams := make([]sim.Team, len(entries))
	var jobs []fetchJob

	for ti, entry := range entries {
		teams[ti] = sim.Team{Name: entry.Name, Roster: make([]sim.Player, len(entry.Players))}
		for pi, p := range entry.Players {
			player := sim.Player{Name: p.Name}
			switch {
			case p.Mean != nil && p.StdDev != nil:
				player.Mean, player.StdDev = *p.Mean, *p.StdDev
				player.PointsLog = p.Points
			case len(p.Points) > 0:
				dist, err := stats.Summarize(p.Points)
				if err != nil {
					return nil, fmt.Errorf("player %q: %w", p.Name, err)
				}
				player.Mean, player.StdDev = dist.Mean, dist.StdDev
				player.PointsLog = p.Points
			default:
				jobs = append(jobs, fetchJob{team: ti, player: pi, name: p.Name})
			}
			teams[ti].Roster[pi] = player
		}
	}

	if len(jobs) > 0 {
		if l.stats == nil {
			return nil, fmt.Errorf("%d players need game logs but no stats client is configured", len(jobs))
		}
		skipped, err := l.fetch(ctx, teams, jobs)
		if err != nil {
			return nil, err
		}
		if len(skipped) > 0 {
			teams = dropSkipped(teams, skipped)
		}
	}

	return teams, nil
}

func (l *Loader) fetch(ctx context.Context, teams []sim.Team, jobs []fetchJob) (map[fetchJob]bool, error) {
	l.logger.WithField("players", len(jobs)).Info("Fetching game logs")

	unavailable := make([]bool, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)
	for i, job := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			log, err := l.stats.GetGameLog(job.name)
			if err != nil {
				var fetchErr *stats.FetchError
				if l.skipUnavailable && errors.As(err, &fetchErr) {
					l.logger.WithError(err).WithField("player", job.name).Warn("Skipping player without game log")
					unavailable[i] = true
					return nil
				}
				return fmt.Errorf("player %q on %q: %w", job.name, teams[job.team].Name, err)
			}
			p := &teams[job.team].Roster[job.player]
			p.Mean = log.Distribution.Mean
			p.StdDev = log.Distribution.StdDev
			p.PointsLog = log.Points
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	skipped := make(map[fetchJob]bool)
	for i, job := range jobs {
		if unavailable[i] {
			skipped[job] = true
		}
	}
	return skipped, nil
}

func dropSkipped(teams []sim.Team, skipped map[fetchJob]bool) []sim.Team {
	for ti := range teams {
		kept := teams[ti].Roster[:0]
		for pi, p := range teams[ti].Roster {
			if skipped[fetchJob{team: ti, player: pi, name: p.Name}] {
				continue
			}
			kept = append(kept, p)
		}
		teams[ti].Roster = kept
	}
	return teams
}
