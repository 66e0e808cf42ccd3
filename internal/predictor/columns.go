package predictor

import (
	"github.com/cricketdfs/dream11-optimizer/internal/models"
)

// FeatureColumns is the model's input schema: a fixed ordered list of
// named numeric features. Columns the pipeline does not produce
// zero-fill, matching the contract the model was trained under.
var FeatureColumns = []string{
	"innings", "runs", "balls_faced", "fours", "sixes", "duck", "half", "century",
	"balls", "conceded", "wickets", "maidens", "caught", "run out", "stumped",
	"match_pressure_metric", "avg_points_venue", "avg_points_opponent",
	"avg_points_batting_first", "avg_points_batting_second",
	"num_matches_venue", "num_matches_opponent",
	"avg_points_vs_opponent_last_5", "avg_points_vs_opponent_at_venue_last_5",
	"avg_points_last_5", "total_points_last_5", "num_past_matches", "is_debut",
	"avg_points_bat_first", "avg_points_bat_second",
}

// Vectorize flattens a feature row into the ordered schema. Missing or
// undefined values become zero.
func Vectorize(row *models.FeatureRow) []float64 {
	flat := map[string]float64{
		"innings":               float64(row.Inning),
		"runs":                  float64(row.Runs),
		"balls_faced":           float64(row.BallsFaced),
		"fours":                 float64(row.Fours),
		"sixes":                 float64(row.Sixes),
		"duck":                  float64(row.Duck),
		"half":                  float64(row.HalfCentury),
		"century":               float64(row.Century),
		"balls":                 float64(row.Balls),
		"conceded":              float64(row.Conceded),
		"wickets":               float64(row.Wickets),
		"maidens":               float64(row.Maidens),
		"caught":                float64(row.Caught),
		"run out":               float64(row.RunOut),
		"stumped":               float64(row.Stumped),
		"match_pressure_metric": float64(row.PressureTier),
	}

	vec := make([]float64, len(FeatureColumns))
	for i, name := range FeatureColumns {
		if v, ok := flat[name]; ok {
			vec[i] = v
			continue
		}
		if v, ok := row.HistoricalValue(name); ok {
			vec[i] = v
		}
	}
	return vec
}
