package handlers

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sam-maryland/playoff-sim/internal/config"
	"github.com/sam-maryland/playoff-sim/internal/report"
	"github.com/sam-maryland/playoff-sim/internal/sim"
	"github.com/sirupsen/logrus"
)

// TeamSource loads simulation teams. *roster.Loader implements it.
type TeamSource interface {
	FromFile(ctx context.Context, path string) ([]sim.Team, error)
	FromSleeper(ctx context.Context, leagueID string) ([]sim.Team, sim.Config, error)
}

// SimulationArgs represents the parameters shared by the simulation tools
type SimulationArgs struct {
	RosterPath      string `json:"roster_path,omitempty"`
	SleeperLeagueID string `json:"sleeper_league_id,omitempty"`
	NumWeeks        int    `json:"num_weeks,omitempty"`
	NumPlayoffTeams int    `json:"num_playoff_teams,omitempty"`
	NumTrials       int    `json:"num_trials,omitempty"`
	ReportCount     int    `json:"report_count,omitempty"`
	ReportOrder     string `json:"report_order,omitempty"`
}

// SeasonResult is the response payload for simulate_season
type SeasonResult struct {
	Bracket   []report.RoundReport `json:"bracket"`
	Champion  string               `json:"champion,omitempty"`
	Standings []sim.Record         `json:"standings"`
	Weeks     int                  `json:"weeks"`
}

type cachedTeams struct {
	teams    []sim.Team
	defaults sim.Config
}

// SimulationHandler handles the playoff simulation MCP tools
type SimulationHandler struct {
	source   TeamSource
	settings *config.Settings
	logger   *logrus.Logger

	mu    sync.Mutex
	cache map[string]cachedTeams
}

// NewSimulationHandler creates a new simulation handler
func NewSimulationHandler(source TeamSource, settings *config.Settings, logger *logrus.Logger) *SimulationHandler {
	if settings == nil {
		defaults := config.DefaultSettings()
		settings = &defaults
	}
	return &SimulationHandler{
		source:   source,
		settings: settings,
		logger:   logger,
		cache:    make(map[string]cachedTeams),
	}
}

func sourceProperties() map[string]interface{} {
	return map[string]interface{}{
		"roster_path": map[string]interface{}{
			"type":        "string",
			"description": "Path to a YAML roster file. Defaults to the configured roster file.",
			"required":    false,
		},
		"sleeper_league_id": map[string]interface{}{
			"type":        "string",
			"description": "Sleeper league ID to load starting lineups from instead of a roster file",
			"required":    false,
		},
		"num_weeks": map[string]interface{}{
			"type":        "integer",
			"description": "Regular season length; must be less than twice the number of teams",
			"required":    false,
		},
		"num_playoff_teams": map[string]interface{}{
			"type":        "integer",
			"description": "Playoff field size: 2, 4 or 8",
			"required":    false,
		},
	}
}

// SimulateSeasonTool returns the MCP tool definition for simulate_season
func (h *SimulationHandler) SimulateSeasonTool() mcp.Tool {
	return mcp.Tool{
		Name:        "simulate_season",
		Description: "Simulate one regular season and playoff from player scoring distributions, returning the bracket and final standings",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: sourceProperties(),
		},
	}
}

// RunPlayoffTrialsTool returns the MCP tool definition for run_playoff_trials
func (h *SimulationHandler) RunPlayoffTrialsTool() mcp.Tool {
	props := sourceProperties()
	props["num_trials"] = map[string]interface{}{
		"type":        "integer",
		"description": "Number of seasons to simulate",
		"required":    false,
	}
	props["report_count"] = map[string]interface{}{
		"type":        "integer",
		"description": "Number of brackets to report (default 3)",
		"required":    false,
	}
	props["report_order"] = map[string]interface{}{
		"type":        "string",
		"description": "least_frequent (default) or most_frequent",
		"enum":        []string{config.OrderLeastFrequent, config.OrderMostFrequent},
		"required":    false,
	}

	return mcp.Tool{
		Name:        "run_playoff_trials",
		Description: "Simulate many seasons and count how often each playoff bracket occurs, with average regular-season finishes",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: props,
		},
	}
}

func (h *SimulationHandler) parseArgs(args map[string]interface{}) (SimulationArgs, error) {
	var a SimulationArgs
	var err error

	if a.RosterPath, err = stringArg(args, "roster_path"); err != nil {
		return a, err
	}
	if a.SleeperLeagueID, err = stringArg(args, "sleeper_league_id"); err != nil {
		return a, err
	}
	if a.ReportOrder, err = stringArg(args, "report_order"); err != nil {
		return a, err
	}
	if a.NumWeeks, err = intArg(args, "num_weeks", 0); err != nil {
		return a, err
	}
	if a.NumPlayoffTeams, err = intArg(args, "num_playoff_teams", 0); err != nil {
		return a, err
	}
	if a.NumTrials, err = intArg(args, "num_trials", h.settings.NumSimulations); err != nil {
		return a, err
	}
	if a.ReportCount, err = intArg(args, "report_count", h.settings.ReportCount); err != nil {
		return a, err
	}

	if a.RosterPath == "" && a.SleeperLeagueID == "" {
		a.RosterPath = h.settings.RosterPath
		a.SleeperLeagueID = h.settings.SleeperLeagueID
	}
	if a.RosterPath == "" && a.SleeperLeagueID == "" {
		return a, fmt.Errorf("roster_path or sleeper_league_id is required")
	}
	if a.ReportOrder == "" {
		a.ReportOrder = h.settings.ReportOrder
	}
	if a.ReportOrder != config.OrderLeastFrequent && a.ReportOrder != config.OrderMostFrequent {
		return a, fmt.Errorf("report_order must be %s or %s", config.OrderLeastFrequent, config.OrderMostFrequent)
	}
	return a, nil
}

// loadTeams resolves the roster source and season config. Explicit
// arguments win over the Sleeper league's settings, which win over the
// configured defaults.
func (h *SimulationHandler) loadTeams(ctx context.Context, a SimulationArgs) ([]sim.Team, sim.Config, bool, error) {
	key := "file:" + a.RosterPath
	if a.SleeperLeagueID != "" {
		key = "sleeper:" + a.SleeperLeagueID
	}

	h.mu.Lock()
	cached, hit := h.cache[key]
	h.mu.Unlock()

	if !hit {
		var err error
		if a.SleeperLeagueID != "" {
			cached.teams, cached.defaults, err = h.source.FromSleeper(ctx, a.SleeperLeagueID)
		} else {
			cached.teams, err = h.source.FromFile(ctx, a.RosterPath)
		}
		if err != nil {
			return nil, sim.Config{}, false, err
		}
		h.mu.Lock()
		h.cache[key] = cached
		h.mu.Unlock()
	}

	cfg := sim.Config{NumWeeks: h.settings.WeeksPerSeason, NumPlayoffTeams: h.settings.NumPlayoffTeams}
	if cached.defaults.NumWeeks > 0 {
		cfg.NumWeeks = cached.defaults.NumWeeks
	}
	if cached.defaults.NumPlayoffTeams > 0 {
		cfg.NumPlayoffTeams = cached.defaults.NumPlayoffTeams
	}
	if a.NumWeeks > 0 {
		cfg.NumWeeks = a.NumWeeks
	}
	if a.NumPlayoffTeams > 0 {
		cfg.NumPlayoffTeams = a.NumPlayoffTeams
	}
	return cached.teams, cfg, hit, nil
}

func (h *SimulationHandler) newRNG() *rand.Rand {
	if h.settings.Seed != 0 {
		return rand.New(rand.NewPCG(h.settings.Seed, 0))
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// HandleSimulateSeason handles the simulate_season tool call
func (h *SimulationHandler) HandleSimulateSeason(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h.logger.WithField("args", args).Info("Handling simulate_season")

	a, err := h.parseArgs(args)
	if err != nil {
		return nil, err
	}

	teams, cfg, hit, err := h.loadTeams(ctx, a)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load teams")
		return errorResult("Failed to load teams: %s", err.Error()), nil
	}

	league, err := sim.NewLeague(teams, cfg)
	if err != nil {
		return errorResult("Invalid simulation: %s", err.Error()), nil
	}
	season, err := sim.NewSeason(league, h.newRNG())
	if err != nil {
		h.logger.WithError(err).Error("Failed to create season")
		return errorResult("Simulation failed: %s", err.Error()), nil
	}
	bracket, err := season.Results()
	if err != nil {
		h.logger.WithError(err).Error("Season simulation failed")
		return errorResult("Simulation failed: %s", err.Error()), nil
	}

	result := SeasonResult{
		Bracket:   report.Rounds(bracket),
		Standings: season.Standings().Ranked(),
		Weeks:     len(season.Schedule()),
	}
	summary := "Season simulated with no playoff bracket"
	if champion, ok := bracket.Champion(); ok {
		result.Champion = champion
		summary = fmt.Sprintf("%s won a simulated %d-week season with a %d-team playoff", champion, result.Weeks, cfg.NumPlayoffTeams)
	}

	return jsonResult(Response{
		Success: true,
		Data:    result,
		Summary: summary,
		Metadata: Metadata{
			Timestamp: time.Now(),
			Source:    "simulation",
			CacheHit:  hit,
		},
	}), nil
}

// HandleRunPlayoffTrials handles the run_playoff_trials tool call
func (h *SimulationHandler) HandleRunPlayoffTrials(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h.logger.WithField("args", args).Info("Handling run_playoff_trials")

	a, err := h.parseArgs(args)
	if err != nil {
		return nil, err
	}

	teams, cfg, hit, err := h.loadTeams(ctx, a)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load teams")
		return errorResult("Failed to load teams: %s", err.Error()), nil
	}

	timeout, err := h.settings.TimeoutDuration()
	if err != nil {
		return errorResult("Invalid settings: %s", err.Error()), nil
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	opts := []sim.RunnerOption{sim.WithWorkers(h.settings.Workers)}
	if h.settings.Seed != 0 {
		opts = append(opts, sim.WithSeed(h.settings.Seed))
	}
	tally, err := sim.RunTrials(ctx, teams, cfg, a.NumTrials, h.logger, opts...)
	if err != nil {
		if errors.Is(err, sim.ErrConfiguration) {
			return errorResult("Invalid simulation: %s", err.Error()), nil
		}
		h.logger.WithError(err).Error("Playoff trials failed")
		return errorResult("Simulation failed: %s", err.Error()), nil
	}

	summary := report.Build(tally, a.ReportCount, a.ReportOrder == config.OrderMostFrequent)
	text := fmt.Sprintf("%d distinct brackets across %d simulated seasons; reporting %d (%s)",
		summary.Distinct, summary.Completed, len(summary.Brackets), summary.Order)

	return jsonResult(Response{
		Success: true,
		Data:    summary,
		Summary: text,
		Metadata: Metadata{
			Timestamp: time.Now(),
			Source:    "simulation",
			CacheHit:  hit,
			RunID:     summary.RunID,
		},
	}), nil
}
