package stats

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
)

const (
	BaseURL        = "https://www.fantasypros.com/nfl/games"
	DefaultTimeout = 30 * time.Second
	DefaultSeason  = "2023"
)

// Client defines the interface for retrieving player scoring history
type Client interface {
	GetGameLog(playerName string) (*GameLog, error)
}

// HTTPClient scrapes FantasyPros game log pages
type HTTPClient struct {
	baseURL    string
	season     string
	exceptions map[string]string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewHTTPClient creates a new FantasyPros client for a season
func NewHTTPClient(logger *logrus.Logger, season string, exceptions map[string]string) Client {
	if season == "" {
		season = DefaultSeason
	}
	if exceptions == nil {
		exceptions = map[string]string{}
	}
	return &HTTPClient{
		baseURL:    BaseURL,
		season:     season,
		exceptions: exceptions,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger: logger,
	}
}

// GetGameLog fetches a player's game log and summarizes the scored weeks
func (c *HTTPClient) GetGameLog(playerName string) (*GameLog, error) {
	code, err := PlayerCode(playerName, c.exceptions)
	if err != nil {
		return nil, &FetchError{Type: "invalid_player", Message: err.Error(), Player: playerName}
	}

	url := fmt.Sprintf("%s/%s.php?season=%s", c.baseURL, code, c.season)
	log := c.logger.WithFields(logrus.Fields{
		"player": playerName,
		"url":    url,
	})
	log.Debug("Fetching game log")

	resp, err := c.httpClient.Get(url)
	if err != nil {
		log.WithError(err).Error("HTTP request failed")
		return nil, fmt.Errorf("http request failed for %s: %w", playerName, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.WithError(err).Error("Failed to read response body")
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.WithField("status_code", resp.StatusCode).Error("Game log request failed")
		return nil, &FetchError{
			Type:       "api_error",
			Message:    fmt.Sprintf("failed to retrieve data for %s: status %d", playerName, resp.StatusCode),
			StatusCode: resp.StatusCode,
			Player:     playerName,
		}
	}

	points, err := ParseGameLog(string(body))
	if err != nil {
		log.WithError(err).Error("Failed to parse game log")
		return nil, &FetchError{Type: "parse_error", Message: fmt.Sprintf("failed to parse game log for %s: %s", playerName, err), Player: playerName}
	}

	dist, err := Summarize(points)
	if err != nil {
		return nil, &FetchError{Type: "no_games", Message: fmt.Sprintf("%s: %s", playerName, err), Player: playerName}
	}

	log.WithFields(logrus.Fields{
		"games":   len(points),
		"mean":    dist.Mean,
		"std_dev": dist.StdDev,
	}).Info("Scraped game log")

	return &GameLog{
		Player:       playerName,
		Code:         code,
		Season:       c.season,
		Points:       points,
		Distribution: dist,
	}, nil
}

// ParseGameLog extracts weekly fantasy points from a game log page. The
// trailing totals row is dropped, as are bye weeks and unplayed games.
func ParseGameLog(html string) ([]float64, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("error parsing HTML: %w", err)
	}

	table := doc.Find("table.table.table-bordered").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("game log table not found")
	}

	pointsCol := -1
	table.Find("thead tr").Last().Find("th").Each(func(i int, th *goquery.Selection) {
		if pointsCol < 0 && strings.TrimSpace(th.Text()) == "Points" {
			pointsCol = i
		}
	})
	if pointsCol < 0 {
		return nil, fmt.Errorf("points column not found")
	}

	rows := table.Find("tbody tr, tfoot tr")
	if rows.Length() == 0 {
		return nil, fmt.Errorf("game log table has no rows")
	}
	rows = rows.Slice(0, rows.Length()-1)

	var points []float64
	var parseErr error
	rows.EachWithBreak(func(i int, row *goquery.Selection) bool {
		cells := row.Find("td")
		if strings.Contains(row.Text(), "BYE Week") || cells.Length() <= pointsCol {
			return true
		}
		text := strings.TrimSpace(cells.Eq(pointsCol).Text())
		if text == "-" || text == "" {
			return true
		}
		value, err := strconv.ParseFloat(text, 64)
		if err != nil {
			parseErr = fmt.Errorf("row %d: invalid points %q: %w", i+1, text, err)
			return false
		}
		points = append(points, value)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	return points, nil
}
