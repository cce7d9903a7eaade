package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sam-maryland/playoff-sim/internal/config"
	"github.com/sam-maryland/playoff-sim/internal/report"
	"github.com/sam-maryland/playoff-sim/internal/sim"
	"github.com/sirupsen/logrus/hooks/test"
)

// MockTeamSource is a mock implementation of the TeamSource interface for testing
type MockTeamSource struct {
	FromFileFunc    func(ctx context.Context, path string) ([]sim.Team, error)
	FromSleeperFunc func(ctx context.Context, leagueID string) ([]sim.Team, sim.Config, error)

	fileCalls    int
	sleeperCalls int
}

func (m *MockTeamSource) FromFile(ctx context.Context, path string) ([]sim.Team, error) {
	m.fileCalls++
	if m.FromFileFunc != nil {
		return m.FromFileFunc(ctx, path)
	}
	return nil, errors.New("not implemented")
}

func (m *MockTeamSource) FromSleeper(ctx context.Context, leagueID string) ([]sim.Team, sim.Config, error) {
	m.sleeperCalls++
	if m.FromSleeperFunc != nil {
		return m.FromSleeperFunc(ctx, leagueID)
	}
	return nil, sim.Config{}, errors.New("not implemented")
}

// fixedTeams returns four teams whose scores never vary, strongest first.
func fixedTeams() []sim.Team {
	means := []struct {
		name string
		mean float64
	}{
		{"Aces", 100},
		{"Bears", 80},
		{"Comets", 60},
		{"Dukes", 40},
	}
	teams := make([]sim.Team, len(means))
	for i, m := range means {
		teams[i] = sim.Team{
			Name:   m.name,
			Roster: []sim.Player{{Name: m.name + " QB", Mean: m.mean}},
		}
	}
	return teams
}

func fileSource() *MockTeamSource {
	return &MockTeamSource{
		FromFileFunc: func(ctx context.Context, path string) ([]sim.Team, error) {
			return fixedTeams(), nil
		},
	}
}

func testSettings() *config.Settings {
	s := config.DefaultSettings()
	s.Workers = 2
	s.Seed = 7
	s.NumSimulations = 50
	return &s
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil {
		t.Fatal("Expected result but got nil")
	}
	if len(result.Content) == 0 {
		t.Fatal("Expected content in result")
	}
	textContent, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content")
	}
	return textContent.Text
}

func TestSimulationHandler_Tools(t *testing.T) {
	logger, _ := test.NewNullLogger()
	handler := NewSimulationHandler(fileSource(), testSettings(), logger)

	season := handler.SimulateSeasonTool()
	if season.Name != "simulate_season" {
		t.Errorf("Expected tool name 'simulate_season', got '%s'", season.Name)
	}
	if season.InputSchema.Type != "object" {
		t.Errorf("Expected input schema type 'object', got '%s'", season.InputSchema.Type)
	}
	if _, exists := season.InputSchema.Properties["num_trials"]; exists {
		t.Error("simulate_season should not accept num_trials")
	}

	trials := handler.RunPlayoffTrialsTool()
	if trials.Name != "run_playoff_trials" {
		t.Errorf("Expected tool name 'run_playoff_trials', got '%s'", trials.Name)
	}
	if trials.Description == "" {
		t.Error("Expected tool description to be set")
	}
	for _, prop := range []string{"roster_path", "sleeper_league_id", "num_weeks", "num_playoff_teams", "num_trials", "report_count", "report_order"} {
		if _, exists := trials.InputSchema.Properties[prop]; !exists {
			t.Errorf("Expected %s property in input schema", prop)
		}
	}
}

func TestSimulationHandler_HandleSimulateSeason(t *testing.T) {
	tests := []struct {
		name           string
		args           map[string]interface{}
		wantError      bool
		expectErrorMsg bool
	}{
		{
			name: "successful request",
			args: map[string]interface{}{
				"num_weeks":         float64(3),
				"num_playoff_teams": float64(2),
			},
		},
		{
			name: "season too long for league",
			args: map[string]interface{}{
				"num_weeks": float64(8),
			},
			expectErrorMsg: true,
		},
		{
			name: "playoff field larger than league",
			args: map[string]interface{}{
				"num_weeks":         float64(3),
				"num_playoff_teams": float64(8),
			},
			expectErrorMsg: true,
		},
		{
			name: "invalid num_weeks type",
			args: map[string]interface{}{
				"num_weeks": "three",
			},
			wantError: true,
		},
		{
			name: "fractional num_weeks",
			args: map[string]interface{}{
				"num_weeks": 2.5,
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, hook := test.NewNullLogger()
			handler := NewSimulationHandler(fileSource(), testSettings(), logger)

			result, err := handler.HandleSimulateSeason(context.Background(), tt.args)

			if tt.wantError && err == nil {
				t.Error("Expected error but got none")
			}
			if !tt.wantError && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
			if tt.wantError {
				return
			}

			text := resultText(t, result)
			if tt.expectErrorMsg && !result.IsError {
				t.Errorf("Expected result to indicate error, got %s", text)
			}
			if !tt.expectErrorMsg && result.IsError {
				t.Errorf("Expected successful result but got error: %s", text)
			}
			if len(hook.Entries) == 0 {
				t.Error("Expected log entries")
			}
		})
	}
}

func TestSimulationHandler_HandleSimulateSeason_Result(t *testing.T) {
	logger, _ := test.NewNullLogger()
	handler := NewSimulationHandler(fileSource(), testSettings(), logger)

	result, err := handler.HandleSimulateSeason(context.Background(), map[string]interface{}{
		"num_weeks":         float64(3),
		"num_playoff_teams": float64(4),
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var response struct {
		Success bool         `json:"success"`
		Data    SeasonResult `json:"data"`
	}
	if err := json.Unmarshal([]byte(resultText(t, result)), &response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if !response.Success {
		t.Error("Expected success")
	}
	if response.Data.Champion != "Aces" {
		t.Errorf("Expected champion Aces, got %q", response.Data.Champion)
	}
	if response.Data.Weeks != 3 {
		t.Errorf("Expected 3 weeks, got %d", response.Data.Weeks)
	}

	wantStandings := []string{"Aces", "Bears", "Comets", "Dukes"}
	for i, rec := range response.Data.Standings {
		if rec.Team != wantStandings[i] {
			t.Errorf("Standings[%d] = %s, want %s", i, rec.Team, wantStandings[i])
		}
		if rec.Wins+rec.Losses != 3 {
			t.Errorf("%s played %d games, want 3", rec.Team, rec.Wins+rec.Losses)
		}
	}

	// semi_final, final, champion
	if len(response.Data.Bracket) != 3 {
		t.Fatalf("Expected 3 bracket rounds, got %d", len(response.Data.Bracket))
	}
	semis := response.Data.Bracket[0]
	if semis.Name != "semi_final" {
		t.Errorf("Expected first round semi_final, got %s", semis.Name)
	}
	if semis.Entries() != "[(Aces, Dukes), (Bears, Comets)]" {
		t.Errorf("Unexpected semi-final pairings %s", semis.Entries())
	}
}

func TestSimulationHandler_HandleRunPlayoffTrials(t *testing.T) {
	logger, hook := test.NewNullLogger()
	handler := NewSimulationHandler(fileSource(), testSettings(), logger)

	result, err := handler.HandleRunPlayoffTrials(context.Background(), map[string]interface{}{
		"num_weeks":         float64(3),
		"num_playoff_teams": float64(2),
		"num_trials":        float64(25),
		"report_order":      config.OrderMostFrequent,
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("Expected successful result but got error: %s", resultText(t, result))
	}

	var response struct {
		Data     report.Summary `json:"data"`
		Metadata Metadata       `json:"metadata"`
	}
	if err := json.Unmarshal([]byte(resultText(t, result)), &response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	summary := response.Data
	if summary.Trials != 25 || summary.Completed != 25 {
		t.Errorf("Expected 25 completed trials, got %d of %d", summary.Completed, summary.Trials)
	}
	if summary.Distinct != 1 {
		t.Errorf("Expected a single distinct bracket for fixed scores, got %d", summary.Distinct)
	}
	if summary.Order != config.OrderMostFrequent {
		t.Errorf("Expected order %s, got %s", config.OrderMostFrequent, summary.Order)
	}
	if len(summary.Brackets) != 1 || summary.Brackets[0].Count != 25 {
		t.Errorf("Expected one bracket seen 25 times, got %+v", summary.Brackets)
	}
	if response.Metadata.RunID == "" || response.Metadata.RunID != summary.RunID {
		t.Errorf("Expected metadata run id to match summary, got %q and %q", response.Metadata.RunID, summary.RunID)
	}

	finished := false
	for _, entry := range hook.AllEntries() {
		if entry.Message == "Playoff trials finished" {
			finished = true
		}
	}
	if !finished {
		t.Error("Expected a completion log entry")
	}
}

func TestSimulationHandler_HandleRunPlayoffTrials_Errors(t *testing.T) {
	tests := []struct {
		name           string
		args           map[string]interface{}
		source         *MockTeamSource
		wantError      bool
		expectErrorMsg bool
	}{
		{
			name:           "non-positive trial count",
			args:           map[string]interface{}{"num_weeks": float64(3), "num_trials": float64(0)},
			source:         fileSource(),
			expectErrorMsg: true,
		},
		{
			name:      "unknown report order",
			args:      map[string]interface{}{"report_order": "random"},
			source:    fileSource(),
			wantError: true,
		},
		{
			name: "roster load failure",
			args: map[string]interface{}{"num_weeks": float64(3)},
			source: &MockTeamSource{
				FromFileFunc: func(ctx context.Context, path string) ([]sim.Team, error) {
					return nil, errors.New("file not found")
				},
			},
			expectErrorMsg: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := test.NewNullLogger()
			handler := NewSimulationHandler(tt.source, testSettings(), logger)

			result, err := handler.HandleRunPlayoffTrials(context.Background(), tt.args)

			if tt.wantError {
				if err == nil {
					t.Error("Expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if tt.expectErrorMsg && !result.IsError {
				t.Errorf("Expected result to indicate error, got %s", resultText(t, result))
			}
		})
	}
}

func TestSimulationHandler_SleeperDefaults(t *testing.T) {
	logger, _ := test.NewNullLogger()
	source := &MockTeamSource{
		FromSleeperFunc: func(ctx context.Context, leagueID string) ([]sim.Team, sim.Config, error) {
			if leagueID != "league-1" {
				t.Errorf("Expected league-1, got %s", leagueID)
			}
			return fixedTeams(), sim.Config{NumWeeks: 3, NumPlayoffTeams: 2}, nil
		},
	}
	handler := NewSimulationHandler(source, testSettings(), logger)
	args := map[string]interface{}{"sleeper_league_id": "league-1"}

	for i := 0; i < 2; i++ {
		result, err := handler.HandleSimulateSeason(context.Background(), args)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("Expected league defaults to apply, got error: %s", resultText(t, result))
		}
	}

	if source.sleeperCalls != 1 {
		t.Errorf("Expected teams to be cached after the first load, got %d loads", source.sleeperCalls)
	}
	if source.fileCalls != 0 {
		t.Errorf("Expected no roster file loads, got %d", source.fileCalls)
	}
}
