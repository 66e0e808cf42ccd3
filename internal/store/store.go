// Package store provides read-only access to the match and delivery
// tables the pipeline consumes.
package store

import (
	"context"
	"regexp"

	"github.com/cricketdfs/dream11-optimizer/internal/models"
	"github.com/cricketdfs/dream11-optimizer/pkg/database"
	"github.com/cricketdfs/dream11-optimizer/pkg/utils"
	"github.com/sirupsen/logrus"
)

var yearToken = regexp.MustCompile(`\d{4}`)

// requiredColumns are checked before a pipeline run; a missing column
// is a DataError, there is no recovery.
var requiredColumns = map[string][]string{
	"matches": {
		"id", "season", "venue", "team1", "team2",
		"toss_winner", "toss_decision",
	},
	"deliveries": {
		"match_id", "inning", "batting_team", "bowling_team",
		"batter", "non_striker", "bowler", "batter_runs",
		"total_runs", "extras_type", "dismissal_kind",
		"player_dismissed", "fielder",
	},
}

type Store struct {
	db  *database.DB
	log *logrus.Logger
}

func New(db *database.DB, log *logrus.Logger) *Store {
	return &Store{db: db, log: log}
}

// Validate checks that every required column exists on the input
// tables. Returns a DataError naming the first missing column.
func (s *Store) Validate(ctx context.Context) error {
	migrator := s.db.WithContext(ctx).Migrator()
	for _, table := range []struct {
		name  string
		model interface{}
	}{
		{"matches", &models.Match{}},
		{"deliveries", &models.Delivery{}},
	} {
		for _, col := range requiredColumns[table.name] {
			if !migrator.HasColumn(table.model, col) {
				return utils.NewDataError(table.name, col)
			}
		}
	}
	return nil
}

// Matches returns all matches ordered by id with seasons normalized to
// a 4-digit year. A season value with no embedded year token is a
// DataError: the column is present but unusable.
func (s *Store) Matches(ctx context.Context) ([]models.Match, error) {
	var matches []models.Match
	if err := s.db.WithContext(ctx).Order("id asc").Find(&matches).Error; err != nil {
		return nil, err
	}
	for i := range matches {
		year, ok := NormalizeSeason(matches[i].Season)
		if !ok {
			s.log.WithFields(logrus.Fields{
				"match_id": matches[i].ID,
				"season":   matches[i].Season,
			}).Error("season value has no 4-digit year token")
			return nil, utils.NewDataError("matches", "season")
		}
		matches[i].SeasonYear = year
	}
	return matches, nil
}

// Deliveries returns all deliveries ordered by match id, then insertion
// order within the match.
func (s *Store) Deliveries(ctx context.Context) ([]models.Delivery, error) {
	var deliveries []models.Delivery
	err := s.db.WithContext(ctx).Order("match_id asc, id asc").Find(&deliveries).Error
	return deliveries, err
}

// DeliveriesForMatch returns the deliveries of a single match.
func (s *Store) DeliveriesForMatch(ctx context.Context, matchID uint) ([]models.Delivery, error) {
	var deliveries []models.Delivery
	err := s.db.WithContext(ctx).
		Where("match_id = ?", matchID).
		Order("id asc").
		Find(&deliveries).Error
	return deliveries, err
}

// NormalizeSeason extracts the first embedded 4-digit year from a raw
// season value such as "2008" or "2020/21".
func NormalizeSeason(raw string) (int, bool) {
	token := yearToken.FindString(raw)
	if token == "" {
		return 0, false
	}
	year := 0
	for _, r := range token {
		year = year*10 + int(r-'0')
	}
	return year, true
}
