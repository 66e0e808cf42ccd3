package models

// Toss decisions as they appear in the source data.
const (
	TossDecisionBat   = "bat"
	TossDecisionField = "field"
)

// Pressure tiers derived from chronological position in the season's
// match list: the last match is the final, the three before it are the
// eliminator and qualifiers, everything else is league stage.
const (
	PressureLeague     = 1
	PressureEliminator = 3
	PressureFinal      = 4
)

// Match holds the metadata for a single match. The ID is monotonic in
// chronological order and is used as the ordering key for all
// historical feature computation.
type Match struct {
	ID uint `gorm:"primaryKey" json:"id"`
	// Season as recorded in the source, e.g. "2008" or "2020/21".
	Season string `gorm:"index" json:"season"`
	// SeasonYear is the normalized 4-digit year, derived by the store.
	SeasonYear   int    `gorm:"-" json:"season_year,omitempty"`
	Venue        string `gorm:"index" json:"venue"`
	Team1        string `json:"team1"`
	Team2        string `json:"team2"`
	TossWinner   string `json:"toss_winner"`
	TossDecision string `json:"toss_decision"` // "bat" or "field"

	// Derived, not persisted: assigned by position in the id-sorted
	// match list (see features.AssignPressureTiers).
	PressureTier int `gorm:"-" json:"pressure_tier,omitempty"`
}

func (Match) TableName() string {
	return "matches"
}

// Opponent returns the other team of the match relative to the given
// team, or "" if the team played no part in it.
func (m *Match) Opponent(team string) string {
	switch team {
	case m.Team1:
		return m.Team2
	case m.Team2:
		return m.Team1
	default:
		return ""
	}
}
