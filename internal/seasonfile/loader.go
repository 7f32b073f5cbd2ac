package seasonfile

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// MatchRecord is one played fixture from a bookmaker season file
type MatchRecord struct {
	Date              time.Time
	HomeTeam          string
	AwayTeam          string
	HomeGoals         int
	AwayGoals         int
	Result            string // H, D or A
	HomeShots         int
	AwayShots         int
	HomeShotsOnTarget int
	AwayShotsOnTarget int
	HomeFouls         int
	AwayFouls         int
	HomeCorners       int
	AwayCorners       int
	HomeYellows       int
	AwayYellows       int
	HomeReds          int
	AwayReds          int
	OddsHome          decimal.Decimal
	OddsDraw          decimal.Decimal
	OddsAway          decimal.Decimal
}

// Loader parses downloaded season CSV files with an explicit cache keyed by
// (season, league). The cache lifetime is caller-controlled; each Loader
// owns its own cache, so tests stay isolated.
type Loader struct {
	dataDir string
	cache   *cache.Cache
	logger  *logrus.Logger
}

// NewLoader creates a loader over the given data directory
func NewLoader(dataDir string, ttl time.Duration, logger *logrus.Logger) *Loader {
	return &Loader{
		dataDir: dataDir,
		cache:   cache.New(ttl, ttl*2),
		logger:  logger,
	}
}

// LoadSeason parses the season file for (season, league), serving repeated
// calls from cache. season is the starting year, e.g. "2024" for 2024/25.
func (l *Loader) LoadSeason(season, league string) ([]MatchRecord, error) {
	key := season + ":" + league
	if cached, found := l.cache.Get(key); found {
		return cached.([]MatchRecord), nil
	}

	code, err := seasonCode(season)
	if err != nil {
		return nil, err
	}
	path := filepath.Join(l.dataDir, fmt.Sprintf("%s_%s.csv", code, league))

	records, err := parseSeasonFile(path)
	if err != nil {
		return nil, err
	}

	l.cache.SetDefault(key, records)
	l.logger.WithFields(logrus.Fields{
		"file":    path,
		"matches": len(records),
	}).Debug("Season file loaded")
	return records, nil
}

// Invalidate drops the cached records for one (season, league) pair
func (l *Loader) Invalidate(season, league string) {
	l.cache.Delete(season + ":" + league)
}

// Clear flushes the whole cache
func (l *Loader) Clear() {
	l.cache.Flush()
}

// FindMatch returns the exact fixture played between home and away on the
// given calendar date, or false when the season file has no such fixture
func (l *Loader) FindMatch(season, league string, date time.Time, home, away string) (*MatchRecord, bool, error) {
	records, err := l.LoadSeason(season, league)
	if err != nil {
		return nil, false, err
	}
	for i := range records {
		r := &records[i]
		if r.HomeTeam == home && r.AwayTeam == away &&
			r.Date.Year() == date.Year() && r.Date.YearDay() == date.YearDay() {
			return r, true, nil
		}
	}
	return nil, false, nil
}

// seasonCode converts a starting year like "2024" to the file code "2425"
func seasonCode(season string) (string, error) {
	year, err := strconv.Atoi(season)
	if err != nil || year < 1900 {
		return "", fmt.Errorf("bad season %q: expected a starting year", season)
	}
	return fmt.Sprintf("%02d%02d", year%100, (year+1)%100), nil
}

// parseSeasonFile reads one football-data CSV into match records. Files vary
// in column count across seasons, so fields are resolved by header name and
// missing optional columns parse as zero.
func parseSeasonFile(path string) ([]MatchRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open season file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse season file %s: %w", path, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("season file %s has no data rows", path)
	}

	col := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		col[name] = i
	}
	for _, required := range []string{"Date", "HomeTeam", "AwayTeam", "FTHG", "FTAG"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("season file %s missing column %s", path, required)
		}
	}

	get := func(row []string, name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return row[idx]
	}
	atoi := func(raw string) int {
		v, _ := strconv.Atoi(raw)
		return v
	}
	dec := func(raw string) decimal.Decimal {
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return decimal.Zero
		}
		return v
	}

	records := make([]MatchRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) == 0 || get(row, "Date") == "" {
			continue
		}
		date, err := parseCSVDate(get(row, "Date"))
		if err != nil {
			return nil, fmt.Errorf("season file %s: %w", path, err)
		}
		records = append(records, MatchRecord{
			Date:              date,
			HomeTeam:          get(row, "HomeTeam"),
			AwayTeam:          get(row, "AwayTeam"),
			HomeGoals:         atoi(get(row, "FTHG")),
			AwayGoals:         atoi(get(row, "FTAG")),
			Result:            get(row, "FTR"),
			HomeShots:         atoi(get(row, "HS")),
			AwayShots:         atoi(get(row, "AS")),
			HomeShotsOnTarget: atoi(get(row, "HST")),
			AwayShotsOnTarget: atoi(get(row, "AST")),
			HomeFouls:         atoi(get(row, "HF")),
			AwayFouls:         atoi(get(row, "AF")),
			HomeCorners:       atoi(get(row, "HC")),
			AwayCorners:       atoi(get(row, "AC")),
			HomeYellows:       atoi(get(row, "HY")),
			AwayYellows:       atoi(get(row, "AY")),
			HomeReds:          atoi(get(row, "HR")),
			AwayReds:          atoi(get(row, "AR")),
			OddsHome:          dec(get(row, "B365H")),
			OddsDraw:          dec(get(row, "B365D")),
			OddsAway:          dec(get(row, "B365A")),
		})
	}
	return records, nil
}

// parseCSVDate handles the two date layouts used across football-data seasons
func parseCSVDate(raw string) (time.Time, error) {
	for _, layout := range []string{"02/01/2006", "02/01/06"} {
		if d, err := time.Parse(layout, raw); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("bad date %q", raw)
}
