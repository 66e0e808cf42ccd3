package predictor

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/cricketdfs/dream11-optimizer/internal/models"
	"github.com/cricketdfs/dream11-optimizer/internal/selector"
	"github.com/cricketdfs/dream11-optimizer/internal/services"
	"github.com/cricketdfs/dream11-optimizer/internal/store"
	"github.com/cricketdfs/dream11-optimizer/internal/teams"
	"github.com/cricketdfs/dream11-optimizer/pkg/database"
	"github.com/cricketdfs/dream11-optimizer/pkg/utils"
	"github.com/sirupsen/logrus"
)

// Prediction is the ranked lineup for one match.
type Prediction struct {
	MatchID    uint                   `json:"match_id"`
	NumPlayers int                    `json:"num_players"`
	Lineup     []selector.LineupEntry `json:"lineup"`
}

type Service struct {
	db       *database.DB
	store    *store.Store
	resolver *teams.Resolver
	model    Model
	cache    *services.CacheService
	log      *logrus.Logger

	lineupCfg selector.Config
	cacheTTL  time.Duration
}

func NewService(db *database.DB, st *store.Store, resolver *teams.Resolver, model Model, cache *services.CacheService, log *logrus.Logger, lineupCfg selector.Config, cacheTTL time.Duration) *Service {
	return &Service{
		db:        db,
		store:     st,
		resolver:  resolver,
		model:     model,
		cache:     cache,
		log:       log,
		lineupCfg: lineupCfg,
		cacheTTL:  cacheTTL,
	}
}

// PredictByMatch builds the lineup for a match: load the match's
// feature rows, resolve each player's team, score with the model and
// run the selector. Results are cached per match.
func (s *Service) PredictByMatch(ctx context.Context, matchID uint) (*Prediction, error) {
	cacheKey := services.PredictionCacheKey(matchID)
	var cached Prediction
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, utils.ErrCacheMiss) {
		s.log.WithError(err).Warn("Prediction cache read failed")
	}

	var rows []models.FeatureRow
	if err := s.db.WithContext(ctx).Where("match_id = ?", matchID).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, utils.NewValidationError("no players found for match ID %d", matchID)
	}

	candidates := make([]selector.Candidate, len(rows))
	vectors := make([][]float64, len(rows))
	for i := range rows {
		row := &rows[i]
		team, err := s.resolveTeam(ctx, row)
		if err != nil {
			return nil, err
		}
		candidates[i] = selector.Candidate{Player: row.Player, Team: team}
		vectors[i] = Vectorize(row)
	}

	probs, err := s.model.PredictProba(ctx, vectors)
	if err != nil {
		return nil, err
	}
	for i := range candidates {
		candidates[i].Probability = probs[i]
	}

	s.log.WithFields(logrus.Fields{
		"match_id": matchID,
		"players":  len(candidates),
	}).Info("Scored match players")

	prediction := &Prediction{
		MatchID:    matchID,
		NumPlayers: len(candidates),
		Lineup:     selector.SelectLineup(candidates, s.lineupCfg),
	}

	if err := s.cache.Set(ctx, cacheKey, prediction, s.cacheTTL); err != nil {
		s.log.WithError(err).Warn("Prediction cache write failed")
	}
	return prediction, nil
}

// resolveTeam picks the first usable of the row's batting and bowling
// teams, then falls back to delivery-level inference.
func (s *Service) resolveTeam(ctx context.Context, row *models.FeatureRow) (string, error) {
	primary := row.BattingTeam
	if !teams.Usable(primary) {
		primary = row.BowlingTeam
	}
	return s.resolver.Resolve(ctx, row.Player, row.MatchID, primary)
}

// ResolveEncounter maps (year, team1, team2, encounter number) to a
// match id: filter the season to the unordered team pair, sort by id
// and 1-index. Returns the match id and the pair's total encounters.
func (s *Service) ResolveEncounter(ctx context.Context, year int, team1, team2 string, encounterNo int) (uint, int, error) {
	team1 = strings.TrimSpace(team1)
	team2 = strings.TrimSpace(team2)

	matches, err := s.store.Matches(ctx)
	if err != nil {
		return 0, 0, err
	}

	var meetings []models.Match
	for _, m := range matches {
		if m.SeasonYear != year {
			continue
		}
		if (m.Team1 == team1 && m.Team2 == team2) || (m.Team1 == team2 && m.Team2 == team1) {
			meetings = append(meetings, m)
		}
	}
	sort.Slice(meetings, func(i, j int) bool { return meetings[i].ID < meetings[j].ID })

	if encounterNo < 1 || encounterNo > len(meetings) {
		return 0, len(meetings), utils.NewValidationError(
			"encounter %d not found for %s vs %s in %d", encounterNo, team1, team2, year)
	}
	return meetings[encounterNo-1].ID, len(meetings), nil
}

// TeamsInSeason lists the distinct teams that played in a season,
// sorted by name.
func (s *Service) TeamsInSeason(ctx context.Context, year int) ([]string, error) {
	cacheKey := services.TeamsCacheKey(year)
	var cached []string
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		return cached, nil
	}

	matches, err := s.store.Matches(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	for _, m := range matches {
		if m.SeasonYear != year {
			continue
		}
		for _, t := range []string{m.Team1, m.Team2} {
			if strings.TrimSpace(t) != "" {
				seen[t] = true
			}
		}
	}
	names := make([]string, 0, len(seen))
	for t := range seen {
		names = append(names, t)
	}
	sort.Strings(names)

	if err := s.cache.Set(ctx, cacheKey, names, s.cacheTTL); err != nil {
		s.log.WithError(err).Warn("Teams cache write failed")
	}
	return names, nil
}
