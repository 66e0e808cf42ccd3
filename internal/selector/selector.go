// Package selector picks a fixed-size fantasy lineup from probability-
// ranked candidates, enforcing a per-team cap and captain designations.
package selector

import "sort"

// Default lineup rules.
const (
	DefaultLineupSize = 11
	DefaultTeamCap    = 7

	captainTag     = " (C)"
	viceCaptainTag = " (VC)"
)

// Candidate is one player eligible for the lineup.
type Candidate struct {
	Player      string  `json:"player"`
	Team        string  `json:"team"`
	Probability float64 `json:"probability"`
}

// LineupEntry is a selected player; the display name carries the
// captain or vice-captain tag when designated.
type LineupEntry struct {
	Player      string  `json:"player"`
	Team        string  `json:"team"`
	Probability float64 `json:"dream11_prob"`
}

type Config struct {
	LineupSize int
	TeamCap    int
}

func (c Config) withDefaults() Config {
	if c.LineupSize <= 0 {
		c.LineupSize = DefaultLineupSize
	}
	if c.TeamCap <= 0 {
		c.TeamCap = DefaultTeamCap
	}
	return c
}

// SelectLineup returns the top candidates by probability, capped per
// team. When a team exceeds the cap its lowest-probability members are
// dropped and replaced from the remaining pool, highest probability
// first, never pushing another team over the cap. The final lineup is
// probability-descending with the top entry tagged captain and the
// second vice-captain.
func SelectLineup(candidates []Candidate, cfg Config) []LineupEntry {
	cfg = cfg.withDefaults()

	pool := make([]Candidate, len(candidates))
	copy(pool, candidates)
	sortByProbability(pool)

	size := cfg.LineupSize
	if size > len(pool) {
		size = len(pool)
	}
	selected := make([]Candidate, size)
	copy(selected, pool[:size])

	selected = enforceTeamCap(selected, pool, cfg)
	sortByProbability(selected)

	lineup := make([]LineupEntry, len(selected))
	for i, c := range selected {
		lineup[i] = LineupEntry{Player: c.Player, Team: c.Team, Probability: c.Probability}
	}
	switch {
	case len(lineup) >= 2:
		lineup[0].Player += captainTag
		lineup[1].Player += viceCaptainTag
	case len(lineup) == 1:
		lineup[0].Player += captainTag
	}
	return lineup
}

func enforceTeamCap(selected, pool []Candidate, cfg Config) []Candidate {
	for {
		team, count := maxTeam(selected)
		if count <= cfg.TeamCap {
			return selected
		}

		// Drop the over-cap team's lowest-probability members. The
		// selection is probability-descending, so trimming from the
		// back removes the weakest first.
		excess := count - cfg.TeamCap
		kept := make([]Candidate, 0, len(selected))
		for i := len(selected) - 1; i >= 0; i-- {
			if excess > 0 && selected[i].Team == team {
				excess--
				continue
			}
			kept = append(kept, selected[i])
		}
		// Restore descending order after the reverse walk.
		sortByProbability(kept)

		// Backfill from the remaining pool, skipping the over-cap
		// team and anything that would breach the cap itself.
		inLineup := make(map[string]bool, len(kept))
		counts := make(map[string]int, len(kept))
		for _, c := range kept {
			inLineup[c.Player] = true
			counts[c.Team]++
		}
		for _, c := range pool {
			if len(kept) >= cfg.LineupSize {
				break
			}
			if inLineup[c.Player] || c.Team == team || counts[c.Team] >= cfg.TeamCap {
				continue
			}
			kept = append(kept, c)
			inLineup[c.Player] = true
			counts[c.Team]++
		}
		sortByProbability(kept)
		selected = kept
	}
}

func maxTeam(candidates []Candidate) (string, int) {
	counts := make(map[string]int)
	for _, c := range candidates {
		counts[c.Team]++
	}
	bestTeam, bestCount := "", 0
	for team, count := range counts {
		if count > bestCount || (count == bestCount && team < bestTeam) {
			bestTeam, bestCount = team, count
		}
	}
	return bestTeam, bestCount
}

func sortByProbability(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Probability != candidates[j].Probability {
			return candidates[i].Probability > candidates[j].Probability
		}
		return candidates[i].Player < candidates[j].Player
	})
}
