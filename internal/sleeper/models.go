package sleeper

// League represents a Sleeper fantasy league
type League struct {
	LeagueID     string         `json:"league_id"`
	Name         string         `json:"name"`
	Status       string         `json:"status"`
	Season       string         `json:"season"`
	Settings     LeagueSettings `json:"settings"`
	TotalRosters int            `json:"total_rosters"`
}

// LeagueSettings contains the schedule settings a simulation can default from
type LeagueSettings struct {
	PlayoffTeams     int `json:"playoff_teams"`
	NumTeams         int `json:"num_teams"`
	PlayoffWeekStart int `json:"playoff_week_start"`
	StartWeek        int `json:"start_week"`
}

// RegularSeasonWeeks is the number of weeks before the playoffs begin
func (s LeagueSettings) RegularSeasonWeeks() int {
	if s.PlayoffWeekStart <= 0 {
		return 0
	}
	start := s.StartWeek
	if start <= 0 {
		start = 1
	}
	return s.PlayoffWeekStart - start
}

// User represents a Sleeper user
type User struct {
	UserID      string       `json:"user_id"`
	DisplayName string       `json:"display_name"`
	Metadata    UserMetadata `json:"metadata"`
}

// UserMetadata holds per-league user fields
type UserMetadata struct {
	TeamName string `json:"team_name"`
}

// Roster represents a team's roster
type Roster struct {
	RosterID int      `json:"roster_id"`
	OwnerID  string   `json:"owner_id"`
	Players  []string `json:"players"`
	Starters []string `json:"starters"`
}

// Player represents an NFL player
type Player struct {
	PlayerID  string `json:"player_id"`
	FullName  string `json:"full_name"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Position  string `json:"position"`
	Team      string `json:"team"`
}

// Name returns the player's display name
func (p Player) Name() string {
	if p.FullName != "" {
		return p.FullName
	}
	if p.FirstName == "" {
		return p.LastName
	}
	return p.FirstName + " " + p.LastName
}

// SleeperError represents an error from the Sleeper API
type SleeperError struct {
	Type       string `json:"type"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code,omitempty"`
	LeagueID   string `json:"league_id,omitempty"`
}

func (e *SleeperError) Error() string {
	return e.Message
}
