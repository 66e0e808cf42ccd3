package models

// Extras types that affect balls-faced accounting.
const (
	ExtrasWides   = "wides"
	ExtrasNoballs = "noballs"
	ExtrasByes    = "byes"
	ExtrasLegbyes = "legbyes"
)

// Dismissal kinds credited to fielders.
const (
	DismissalCaught  = "caught"
	DismissalRunOut  = "run out"
	DismissalStumped = "stumped"
)

// Delivery is a single ball-by-ball event.
type Delivery struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	MatchID         uint   `gorm:"index;not null" json:"match_id"`
	Inning          int    `json:"inning"`
	BattingTeam     string `json:"batting_team"`
	BowlingTeam     string `json:"bowling_team"`
	Batter          string `gorm:"index" json:"batter"`
	NonStriker      string `json:"non_striker"`
	Bowler          string `gorm:"index" json:"bowler"`
	BatterRuns      int    `json:"batsman_runs"` // runs off the bat
	ExtraRuns       int    `json:"extra_runs"`
	TotalRuns       int    `json:"total_runs"`
	ExtrasType      string `json:"extras_type"` // "" when none
	DismissalKind   string `json:"dismissal_kind"`
	PlayerDismissed string `json:"player_dismissed"`
	// Fielder may be composite "name/name" for joint run-outs; the
	// first name gets the fielding credit.
	Fielder string `json:"fielder"`
}

func (Delivery) TableName() string {
	return "deliveries"
}

// CountsTowardBallsFaced reports whether the delivery counts as a ball
// faced by the batter. Wides and no-balls do not.
func (d *Delivery) CountsTowardBallsFaced() bool {
	return d.ExtrasType != ExtrasWides && d.ExtrasType != ExtrasNoballs
}
