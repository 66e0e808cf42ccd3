package models

// PlayerMatchStat is the per-(match, player) aggregate produced by the
// scoring engine. A player may appear through batting, bowling,
// fielding or any combination; fields the player has no activity for
// are zero.
type PlayerMatchStat struct {
	MatchID uint   `gorm:"primaryKey;autoIncrement:false" json:"match_id"`
	Player  string `gorm:"primaryKey" json:"player"`

	// Context carried from the deliveries the player appeared in.
	BattingTeam string `json:"batting_team"`
	BowlingTeam string `json:"bowling_team"`
	Venue       string `json:"venue"`
	Inning      int    `json:"innings"`

	// Batting
	Runs        int `json:"runs"`
	BallsFaced  int `json:"balls_faced"`
	Fours       int `json:"fours"`
	Sixes       int `json:"sixes"`
	Duck        int `json:"duck"`
	HalfCentury int `json:"half"`
	Century     int `json:"century"`

	// Bowling
	Balls    int `json:"balls"`
	Conceded int `json:"conceded"`
	Wickets  int `json:"wickets"`
	Maidens  int `json:"maidens"` // not derivable from the data, fixed at 0

	// Fielding
	Caught  int `json:"caught"`
	RunOut  int `json:"run_out"`
	Stumped int `json:"stumped"`

	FantasyPoints float64 `json:"fantasy_points"`
}

func (PlayerMatchStat) TableName() string {
	return "player_match_stats"
}
