// Package scoring aggregates ball-by-ball deliveries into per-player
// match stats and applies the fantasy point table.
package scoring

import (
	"sort"
	"strings"

	"github.com/cricketdfs/dream11-optimizer/internal/models"
)

// Point table. The values are fixed by the fantasy scoring rules and
// must not drift.
const (
	startingXIPoints   = 4
	fourPoints         = 1
	sixPoints          = 2
	halfCenturyPoints  = 8
	centuryPoints      = 16
	duckPenalty        = 2
	wicketPoints       = 25
	fiveWicketBonus    = 16
	fourWicketBonus    = 8
	caughtPoints       = 8
	stumpedPoints      = 12
	runOutPoints       = 12
	minBallsForEconomy = 12
	minBallsForStrike  = 10
)

type statKey struct {
	matchID uint
	player  string
}

// BuildPlayerMatchStats aggregates deliveries into one row per
// (match, player), outer-joining batting, bowling and fielding
// involvement. Missing sides of the join stay zero.
func BuildPlayerMatchStats(deliveries []models.Delivery, matches []models.Match) []models.PlayerMatchStat {
	venueByMatch := make(map[uint]string, len(matches))
	for _, m := range matches {
		venueByMatch[m.ID] = m.Venue
	}

	stats := make(map[statKey]*models.PlayerMatchStat)
	get := func(matchID uint, player string) *models.PlayerMatchStat {
		key := statKey{matchID, player}
		s, ok := stats[key]
		if !ok {
			s = &models.PlayerMatchStat{
				MatchID: matchID,
				Player:  player,
				Venue:   venueByMatch[matchID],
			}
			stats[key] = s
		}
		return s
	}

	for i := range deliveries {
		d := &deliveries[i]

		// Batting aggregate.
		if d.Batter != "" {
			s := get(d.MatchID, d.Batter)
			s.BattingTeam = d.BattingTeam
			s.BowlingTeam = d.BowlingTeam
			if s.Inning == 0 {
				s.Inning = d.Inning
			}
			s.Runs += d.BatterRuns
			if d.CountsTowardBallsFaced() {
				s.BallsFaced++
			}
			switch d.BatterRuns {
			case 4:
				s.Fours++
			case 6:
				s.Sixes++
			}
		}

		// Bowling aggregate. Every delivery counts toward balls bowled
		// and conceded runs include extras; a wicket is any dismissal
		// on the bowler's delivery, run-outs included. The model was
		// trained on points computed this way.
		if d.Bowler != "" {
			s := get(d.MatchID, d.Bowler)
			s.Balls++
			s.Conceded += d.TotalRuns
			if d.PlayerDismissed != "" {
				s.Wickets++
			}
		}

		// Fielding aggregate, restricted to the credited kinds. Joint
		// run-outs record "name/name"; the first name takes the credit.
		switch d.DismissalKind {
		case models.DismissalCaught, models.DismissalRunOut, models.DismissalStumped:
			fielder := creditedFielder(d.Fielder)
			if fielder == "" {
				break
			}
			s := get(d.MatchID, fielder)
			switch d.DismissalKind {
			case models.DismissalCaught:
				s.Caught++
			case models.DismissalRunOut:
				s.RunOut++
			case models.DismissalStumped:
				s.Stumped++
			}
		}
	}

	out := make([]models.PlayerMatchStat, 0, len(stats))
	for _, s := range stats {
		s.Duck = boolToInt(s.Runs == 0 && s.BallsFaced > 0)
		s.HalfCentury = boolToInt(s.Runs >= 50 && s.Runs < 100)
		s.Century = boolToInt(s.Runs >= 100)
		s.FantasyPoints = FantasyPoints(s)
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MatchID != out[j].MatchID {
			return out[i].MatchID < out[j].MatchID
		}
		return out[i].Player < out[j].Player
	})
	return out
}

// FantasyPoints applies the fixed point table to one player-match row.
func FantasyPoints(s *models.PlayerMatchStat) float64 {
	p := float64(startingXIPoints)
	p += float64(s.Runs)
	p += float64(s.Fours*fourPoints + s.Sixes*sixPoints)
	p += float64(s.HalfCentury*halfCenturyPoints + s.Century*centuryPoints)
	p -= float64(s.Duck * duckPenalty)

	p += float64(s.Wickets * wicketPoints)
	if s.Wickets >= 5 {
		p += fiveWicketBonus
	} else if s.Wickets >= 4 {
		p += fourWicketBonus
	}

	p += float64(s.Caught*caughtPoints + s.Stumped*stumpedPoints + s.RunOut*runOutPoints)

	// Economy adjustment. The neutral band is [6,9]: bonus tiers use
	// strict upper bounds, penalty tiers exclusive lower bounds.
	if s.Balls >= minBallsForEconomy {
		rpo := float64(s.Conceded) / (float64(s.Balls) / 6.0)
		switch {
		case rpo < 4:
			p += 6
		case rpo < 5:
			p += 4
		case rpo < 6:
			p += 2
		case rpo > 11:
			p -= 6
		case rpo > 10:
			p -= 4
		case rpo > 9:
			p -= 2
		}
	}

	// Strike-rate penalty.
	if s.BallsFaced >= minBallsForStrike {
		sr := float64(s.Runs) / (float64(s.BallsFaced) / 100.0)
		switch {
		case sr < 50:
			p -= 6
		case sr < 60:
			p -= 4
		case sr < 70:
			p -= 2
		}
	}

	return p
}

func creditedFielder(raw string) string {
	if i := strings.IndexByte(raw, '/'); i >= 0 {
		raw = raw[:i]
	}
	return strings.TrimSpace(raw)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
