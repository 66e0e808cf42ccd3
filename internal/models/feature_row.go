package models

import "gorm.io/datatypes"

// Innings types derived from the toss.
const (
	BatFirst  = "bat_first"
	BatSecond = "bat_second"
)

// FeatureRow is one row of the wide feature table: a PlayerMatchStat
// enriched with match context and the point-in-time-safe historical
// aggregates. Every historical value is a function only of matches with
// strictly smaller id within its grouping.
type FeatureRow struct {
	MatchID uint   `gorm:"primaryKey;autoIncrement:false" json:"match_id"`
	Player  string `gorm:"primaryKey" json:"player"`

	BattingTeam  string `json:"batting_team"`
	BowlingTeam  string `json:"bowling_team"`
	Venue        string `json:"venue"`
	Opponent     string `json:"opponent"`
	InningsType  string `json:"innings_type"` // "bat_first" or "bat_second"
	PressureTier int    `json:"match_pressure_metric"`

	Stat PlayerMatchStat `gorm:"-" json:"-"`

	// Flat copy of the model-facing per-match stats.
	Inning        int     `json:"innings"`
	Runs          int     `json:"runs"`
	BallsFaced    int     `json:"balls_faced"`
	Fours         int     `json:"fours"`
	Sixes         int     `json:"sixes"`
	Duck          int     `json:"duck"`
	HalfCentury   int     `json:"half"`
	Century       int     `json:"century"`
	Balls         int     `json:"balls"`
	Conceded      int     `json:"conceded"`
	Wickets       int     `json:"wickets"`
	Maidens       int     `json:"maidens"`
	Caught        int     `json:"caught"`
	RunOut        int     `json:"run_out"`
	Stumped       int     `json:"stumped"`
	FantasyPoints float64 `json:"fantasy_points"`

	// Historical aggregates keyed by feature name. A missing or nil
	// value means the feature is undefined for this row (no prior
	// history); undefined values zero-fill at model input.
	Historical datatypes.JSONMap `gorm:"type:jsonb" json:"historical"`
}

func (FeatureRow) TableName() string {
	return "feature_rows"
}

// HistoricalValue returns the named historical feature and whether it
// is defined for this row.
func (f *FeatureRow) HistoricalValue(name string) (float64, bool) {
	v, ok := f.Historical[name]
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}
