package sleeper

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	BaseURL        = "https://api.sleeper.app/v1"
	DefaultTimeout = 10 * time.Second
)

// Client defines the Sleeper API calls needed to assemble league rosters
type Client interface {
	GetLeague(leagueID string) (*League, error)
	GetLeagueUsers(leagueID string) ([]User, error)
	GetLeagueRosters(leagueID string) ([]Roster, error)
	GetAllPlayers() (map[string]Player, error)
}

// HTTPClient implements the Client interface using HTTP requests
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger

	playersMu sync.Mutex
	players   map[string]Player
}

// NewHTTPClient creates a new HTTP client for the Sleeper API
func NewHTTPClient(logger *logrus.Logger) Client {
	return &HTTPClient{
		baseURL: BaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger: logger,
	}
}

// makeRequest performs an HTTP GET request to the Sleeper API
func (c *HTTPClient) makeRequest(endpoint string, result interface{}) error {
	url := c.baseURL + endpoint
	log := c.logger.WithField("url", url)
	log.Debug("Making API request")

	resp, err := c.httpClient.Get(url)
	if err != nil {
		log.WithError(err).Error("HTTP request failed")
		return fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.WithError(err).Error("Failed to read response body")
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.WithField("status_code", resp.StatusCode).Error("API request failed")
		return &SleeperError{
			Type:       "api_error",
			Message:    fmt.Sprintf("API request failed with status %d: %s", resp.StatusCode, string(body)),
			StatusCode: resp.StatusCode,
		}
	}

	// Sleeper answers unknown ids with 200 and a null body
	if string(body) == "null" {
		return &SleeperError{Type: "not_found", Message: "resource not found: " + endpoint, StatusCode: resp.StatusCode}
	}

	if err := json.Unmarshal(body, result); err != nil {
		log.WithError(err).Error("Failed to unmarshal response")
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}

// GetLeague retrieves league metadata
func (c *HTTPClient) GetLeague(leagueID string) (*League, error) {
	var league League
	if err := c.makeRequest(fmt.Sprintf("/league/%s", leagueID), &league); err != nil {
		return nil, fmt.Errorf("failed to get league %s: %w", leagueID, err)
	}
	return &league, nil
}

// GetLeagueUsers retrieves the owners in a league
func (c *HTTPClient) GetLeagueUsers(leagueID string) ([]User, error) {
	var users []User
	if err := c.makeRequest(fmt.Sprintf("/league/%s/users", leagueID), &users); err != nil {
		return nil, fmt.Errorf("failed to get users for league %s: %w", leagueID, err)
	}
	return users, nil
}

// GetLeagueRosters retrieves all rosters in a league
func (c *HTTPClient) GetLeagueRosters(leagueID string) ([]Roster, error) {
	var rosters []Roster
	if err := c.makeRequest(fmt.Sprintf("/league/%s/rosters", leagueID), &rosters); err != nil {
		return nil, fmt.Errorf("failed to get rosters for league %s: %w", leagueID, err)
	}
	return rosters, nil
}

// GetAllPlayers retrieves the NFL player directory, cached after the first
// successful fetch
func (c *HTTPClient) GetAllPlayers() (map[string]Player, error) {
	c.playersMu.Lock()
	defer c.playersMu.Unlock()

	if c.players != nil {
		return c.players, nil
	}

	var players map[string]Player
	if err := c.makeRequest("/players/nfl", &players); err != nil {
		return nil, fmt.Errorf("failed to get all players: %w", err)
	}
	c.players = players
	return players, nil
}
