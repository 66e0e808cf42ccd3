// Package features builds the leakage-safe historical feature table.
// Every rolling or expanding statistic for a match uses only matches
// with a strictly smaller id within its grouping.
package features

import (
	"sort"
	"sync"

	"github.com/cricketdfs/dream11-optimizer/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// Historical feature names. These are also the keys of
// FeatureRow.Historical and part of the model input schema.
const (
	FeatAvgPointsVenue             = "avg_points_venue"
	FeatNumMatchesVenue            = "num_matches_venue"
	FeatAvgPointsOpponent          = "avg_points_opponent"
	FeatNumMatchesOpponent         = "num_matches_opponent"
	FeatAvgPointsVsOpponentLast5   = "avg_points_vs_opponent_last_5"
	FeatAvgPointsVsOppAtVenueLast5 = "avg_points_vs_opponent_at_venue_last_5"
	FeatAvgPointsLast5             = "avg_points_last_5"
	FeatTotalPointsLast5           = "total_points_last_5"
	FeatNumPastMatches             = "num_past_matches"
	FeatIsDebut                    = "is_debut"
	FeatAvgPointsBatFirst          = "avg_points_bat_first"
	FeatAvgPointsBatSecond         = "avg_points_bat_second"
)

const lastNWindow = 5

type Builder struct {
	workers int
	log     *logrus.Logger
}

func NewBuilder(workers int, log *logrus.Logger) *Builder {
	if workers < 1 {
		workers = 1
	}
	return &Builder{workers: workers, log: log}
}

// AssignPressureTiers sets the pressure tier on each match by its
// position in the id-sorted sequence: last match is the final, the
// three before it are eliminator/qualifiers, the rest league stage.
// With fewer than four matches only the final tier is assigned.
func AssignPressureTiers(matches []models.Match) {
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })
	n := len(matches)
	for i := range matches {
		matches[i].PressureTier = models.PressureLeague
	}
	if n == 0 {
		return
	}
	matches[n-1].PressureTier = models.PressureFinal
	if n >= 4 {
		for i := n - 4; i < n-1; i++ {
			matches[i].PressureTier = models.PressureEliminator
		}
	}
}

// Build produces the full feature table for all player-match stats.
// The contextual pass attaches venue, opponent, innings type and
// pressure tier; the historical pass runs one chronological scan per
// player, fanned out over the builder's worker pool. Output is sorted
// by (player, match id).
func (b *Builder) Build(stats []models.PlayerMatchStat, matches []models.Match) []models.FeatureRow {
	AssignPressureTiers(matches)
	matchByID := make(map[uint]models.Match, len(matches))
	for _, m := range matches {
		matchByID[m.ID] = m
	}

	// Contextual join.
	byPlayer := make(map[string][]models.FeatureRow)
	for _, s := range stats {
		m, ok := matchByID[s.MatchID]
		if !ok {
			b.log.WithFields(logrus.Fields{
				"match_id": s.MatchID,
				"player":   s.Player,
			}).Warn("stat row references unknown match, skipping")
			continue
		}
		byPlayer[s.Player] = append(byPlayer[s.Player], contextRow(s, m))
	}

	players := make([]string, 0, len(byPlayer))
	for p := range byPlayer {
		players = append(players, p)
	}

	// Historical pass, embarrassingly parallel across players: each
	// worker owns a player's full chronologically-ordered row set.
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		out  = make([]models.FeatureRow, 0, len(stats))
		work = make(chan string)
	)
	for w := 0; w < b.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for player := range work {
				rows := byPlayer[player]
				sort.Slice(rows, func(i, j int) bool { return rows[i].MatchID < rows[j].MatchID })
				historicalScan(rows)
				mu.Lock()
				out = append(out, rows...)
				mu.Unlock()
			}
		}()
	}
	for _, p := range players {
		work <- p
	}
	close(work)
	wg.Wait()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Player != out[j].Player {
			return out[i].Player < out[j].Player
		}
		return out[i].MatchID < out[j].MatchID
	})
	return out
}

func contextRow(s models.PlayerMatchStat, m models.Match) models.FeatureRow {
	row := models.FeatureRow{
		MatchID:       s.MatchID,
		Player:        s.Player,
		BattingTeam:   s.BattingTeam,
		BowlingTeam:   s.BowlingTeam,
		Venue:         m.Venue,
		InningsType:   inningsType(s.BattingTeam, m),
		PressureTier:  m.PressureTier,
		Stat:          s,
		Inning:        s.Inning,
		Runs:          s.Runs,
		BallsFaced:    s.BallsFaced,
		Fours:         s.Fours,
		Sixes:         s.Sixes,
		Duck:          s.Duck,
		HalfCentury:   s.HalfCentury,
		Century:       s.Century,
		Balls:         s.Balls,
		Conceded:      s.Conceded,
		Wickets:       s.Wickets,
		Maidens:       s.Maidens,
		Caught:        s.Caught,
		RunOut:        s.RunOut,
		Stumped:       s.Stumped,
		FantasyPoints: s.FantasyPoints,
	}
	// Opponent is the other match team relative to the row's batting
	// team; rows without batting involvement fall through to team1.
	if s.BattingTeam == m.Team1 {
		row.Opponent = m.Team2
	} else {
		row.Opponent = m.Team1
	}
	return row
}

// inningsType derives bat_first/bat_second from the toss: if the toss
// winner chose to bat, their side bats first; if they chose to field,
// the other side bats first.
func inningsType(battingTeam string, m models.Match) string {
	if m.TossDecision == models.TossDecisionBat {
		if battingTeam == m.TossWinner {
			return models.BatFirst
		}
		return models.BatSecond
	}
	if battingTeam != m.TossWinner {
		return models.BatFirst
	}
	return models.BatSecond
}

// runningMean is an expanding mean with a one-step lag: Value reports
// the mean of everything added so far, Add happens after the current
// row reads it.
type runningMean struct {
	sum   float64
	count int
}

func (r *runningMean) Add(v float64) { r.sum += v; r.count++ }

func (r *runningMean) Value() (float64, bool) {
	if r.count == 0 {
		return 0, false
	}
	return r.sum / float64(r.count), true
}

// lastN is a bounded window of the most recent n values.
type lastN struct {
	n      int
	values []float64
}

func newLastN(n int) *lastN { return &lastN{n: n} }

func (w *lastN) Add(v float64) {
	w.values = append(w.values, v)
	if len(w.values) > w.n {
		w.values = w.values[1:]
	}
}

func (w *lastN) Mean() (float64, bool) {
	if len(w.values) == 0 {
		return 0, false
	}
	return w.sum() / float64(len(w.values)), true
}

func (w *lastN) Sum() (float64, bool) {
	if len(w.values) == 0 {
		return 0, false
	}
	return w.sum(), true
}

func (w *lastN) sum() float64 {
	s := 0.0
	for _, v := range w.values {
		s += v
	}
	return s
}

// historicalScan fills the historical features of a player's rows in
// one chronological pass, reading each accumulator before adding the
// current row's points to it. This keeps every feature a function of
// strictly prior matches only.
func historicalScan(rows []models.FeatureRow) {
	var (
		venueMeans    = make(map[string]*runningMean)
		opponentMeans = make(map[string]*runningMean)
		oppLast5      = make(map[string]*lastN)
		oppVenueLast5 = make(map[[2]string]*lastN)
		overallLast5  = newLastN(lastNWindow)
		inningsMeans  = map[string]*runningMean{
			models.BatFirst:  {},
			models.BatSecond: {},
		}
		pastMatches int
	)

	for i := range rows {
		row := &rows[i]
		h := datatypes.JSONMap{}

		vm := venueMeans[row.Venue]
		if vm == nil {
			vm = &runningMean{}
			venueMeans[row.Venue] = vm
		}
		setOptional(h, FeatAvgPointsVenue, vm.Value)
		h[FeatNumMatchesVenue] = float64(vm.count)

		om := opponentMeans[row.Opponent]
		if om == nil {
			om = &runningMean{}
			opponentMeans[row.Opponent] = om
		}
		setOptional(h, FeatAvgPointsOpponent, om.Value)
		h[FeatNumMatchesOpponent] = float64(om.count)

		ol := oppLast5[row.Opponent]
		if ol == nil {
			ol = newLastN(lastNWindow)
			oppLast5[row.Opponent] = ol
		}
		setOptional(h, FeatAvgPointsVsOpponentLast5, ol.Mean)

		ovKey := [2]string{row.Opponent, row.Venue}
		ovl := oppVenueLast5[ovKey]
		if ovl == nil {
			ovl = newLastN(lastNWindow)
			oppVenueLast5[ovKey] = ovl
		}
		setOptional(h, FeatAvgPointsVsOppAtVenueLast5, ovl.Mean)

		// Overall last-5 mean/sum fill to 0 when there is no history.
		avg5, _ := overallLast5.Mean()
		sum5, _ := overallLast5.Sum()
		h[FeatAvgPointsLast5] = avg5
		h[FeatTotalPointsLast5] = sum5

		h[FeatNumPastMatches] = float64(pastMatches)
		if pastMatches == 0 {
			h[FeatIsDebut] = float64(1)
		} else {
			h[FeatIsDebut] = float64(0)
		}

		// Innings-type splits are defined only when the current row
		// shares the column's type.
		if row.InningsType == models.BatFirst {
			setOptional(h, FeatAvgPointsBatFirst, inningsMeans[models.BatFirst].Value)
		}
		if row.InningsType == models.BatSecond {
			setOptional(h, FeatAvgPointsBatSecond, inningsMeans[models.BatSecond].Value)
		}

		row.Historical = h

		// Advance the accumulators with the current row.
		pts := row.FantasyPoints
		vm.Add(pts)
		om.Add(pts)
		ol.Add(pts)
		ovl.Add(pts)
		overallLast5.Add(pts)
		inningsMeans[row.InningsType].Add(pts)
		pastMatches++
	}
}

func setOptional(h datatypes.JSONMap, name string, value func() (float64, bool)) {
	if v, ok := value(); ok {
		h[name] = v
	} else {
		h[name] = nil
	}
}
