// Package main runs a batch of playoff trials from the command line and
// reports the resulting brackets.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sam-maryland/playoff-sim/internal/config"
	"github.com/sam-maryland/playoff-sim/internal/report"
	"github.com/sam-maryland/playoff-sim/internal/roster"
	"github.com/sam-maryland/playoff-sim/internal/sim"
	"github.com/sam-maryland/playoff-sim/internal/sleeper"
	"github.com/sam-maryland/playoff-sim/internal/stats"
	"github.com/sirupsen/logrus"
)

func main() {
	var settingsPath string
	var trials int
	var seed uint64
	var skipUnavailable bool
	var mostFrequent bool

	flag.StringVar(&settingsPath, "settings", "", "settings file (default: settings.json or configs/settings.json)")
	flag.IntVar(&trials, "trials", 0, "number of seasons to simulate (0 = use settings)")
	flag.Uint64Var(&seed, "seed", 0, "random seed for reproducibility (0 = use settings)")
	flag.BoolVar(&skipUnavailable, "skip-unavailable", false, "drop players whose game log cannot be fetched")
	flag.BoolVar(&mostFrequent, "most-frequent", false, "report the most frequent brackets instead of the least frequent")
	flag.Parse()

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.JSONFormatter{})

	settings, err := loadSettings(settingsPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load settings")
	}
	if trials > 0 {
		settings.NumSimulations = trials
	}
	if seed != 0 {
		settings.Seed = seed
	}
	if mostFrequent {
		settings.ReportOrder = config.OrderMostFrequent
	}
	if err := settings.Validate(); err != nil {
		logger.WithError(err).Fatal("Invalid settings")
	}
	if level, err := logrus.ParseLevel(settings.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Warn("Interrupted, finishing in-flight trials")
		cancel()
	}()

	if err := run(ctx, settings, skipUnavailable, logger); err != nil {
		logger.WithError(err).Error("Simulation failed")
		os.Exit(1)
	}
}

func loadSettings(path string) (*config.Settings, error) {
	if path != "" {
		return config.LoadSettingsFile(path)
	}
	return config.LoadSettings()
}

func run(ctx context.Context, settings *config.Settings, skipUnavailable bool, logger *logrus.Logger) error {
	exceptions, err := config.LoadPlayerCodeExceptions(settings.ExceptionsPath)
	if err != nil {
		return err
	}

	var opts []roster.Option
	if skipUnavailable {
		opts = append(opts, roster.WithSkipUnavailable())
	}
	loader := roster.NewLoader(
		stats.NewHTTPClient(logger, settings.Season, exceptions),
		sleeper.NewHTTPClient(logger),
		logger,
		opts...,
	)

	cfg := sim.Config{NumWeeks: settings.WeeksPerSeason, NumPlayoffTeams: settings.NumPlayoffTeams}
	var teams []sim.Team
	if settings.SleeperLeagueID != "" {
		var defaults sim.Config
		teams, defaults, err = loader.FromSleeper(ctx, settings.SleeperLeagueID)
		if defaults.NumWeeks > 0 {
			cfg.NumWeeks = defaults.NumWeeks
		}
		if defaults.NumPlayoffTeams > 0 {
			cfg.NumPlayoffTeams = defaults.NumPlayoffTeams
		}
	} else {
		teams, err = loader.FromFile(ctx, settings.RosterPath)
	}
	if err != nil {
		return fmt.Errorf("load teams: %w", err)
	}

	timeout, err := settings.TimeoutDuration()
	if err != nil {
		return err
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	runOpts := []sim.RunnerOption{sim.WithWorkers(settings.Workers)}
	if settings.Seed != 0 {
		runOpts = append(runOpts, sim.WithSeed(settings.Seed))
	}
	tally, err := sim.RunTrials(ctx, teams, cfg, settings.NumSimulations, logger, runOpts...)
	if err != nil {
		return err
	}

	summary := report.Build(tally, settings.ReportCount, settings.ReportOrder == config.OrderMostFrequent)
	if err := report.PrintBrackets(os.Stdout, summary); err != nil {
		return err
	}
	fmt.Println()
	if err := report.PrintStandings(os.Stdout, summary); err != nil {
		return err
	}

	if settings.CSVPath != "" {
		if err := report.WriteCSVFile(settings.CSVPath, summary); err != nil {
			return err
		}
		logger.WithField("path", settings.CSVPath).Info("Wrote bracket CSV")
	}
	return nil
}
