// Package teams assigns a team label to every player-match row,
// falling back to delivery-level participation when the primary
// source is missing.
package teams

import (
	"context"
	"sort"

	"github.com/cricketdfs/dream11-optimizer/internal/models"
)

// UnknownTeam is the terminal value when no delivery evidence exists.
const UnknownTeam = "Unknown"

// sentinels are the absent-value encodings the source data uses for a
// missing team. They map to an explicit absent state here instead of
// being compared as strings downstream.
var sentinels = map[string]bool{
	"":     true,
	"0":    true,
	"nan":  true,
	"None": true,
}

// Usable reports whether a raw team value is an actual team name.
func Usable(team string) bool {
	return !sentinels[team]
}

// DeliverySource provides the delivery evidence for fallback inference.
type DeliverySource interface {
	DeliveriesForMatch(ctx context.Context, matchID uint) ([]models.Delivery, error)
}

type Resolver struct {
	source DeliverySource
}

func NewResolver(source DeliverySource) *Resolver {
	return &Resolver{source: source}
}

// Resolve returns the team for a player-match row. The primary value
// wins when usable; otherwise the player's deliveries decide: modal
// batting team over appearances as batter or non-striker, else modal
// bowling team over appearances as bowler, else Unknown.
func (r *Resolver) Resolve(ctx context.Context, player string, matchID uint, primary string) (string, error) {
	if Usable(primary) {
		return primary, nil
	}

	deliveries, err := r.source.DeliveriesForMatch(ctx, matchID)
	if err != nil {
		return "", err
	}

	battingTeams := make(map[string]int)
	bowlingTeams := make(map[string]int)
	for i := range deliveries {
		d := &deliveries[i]
		if d.Batter == player || d.NonStriker == player {
			battingTeams[d.BattingTeam]++
		}
		if d.Bowler == player {
			bowlingTeams[d.BowlingTeam]++
		}
	}

	if team, ok := mode(battingTeams); ok {
		return team, nil
	}
	if team, ok := mode(bowlingTeams); ok {
		return team, nil
	}
	return UnknownTeam, nil
}

// mode returns the most frequent key, breaking ties toward the
// lexicographically smallest so resolution stays deterministic.
func mode(counts map[string]int) (string, bool) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		if k != "" {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return "", false
	}
	sort.Strings(keys)
	best := keys[0]
	for _, k := range keys[1:] {
		if counts[k] > counts[best] {
			best = k
		}
	}
	return best, true
}
