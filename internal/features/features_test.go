package features

import (
	"testing"

	"github.com/cricketdfs/dream11-optimizer/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMatch(id uint, venue string) models.Match {
	return models.Match{
		ID:           id,
		Venue:        venue,
		Team1:        "Mumbai Indians",
		Team2:        "Chennai Super Kings",
		TossWinner:   "Mumbai Indians",
		TossDecision: models.TossDecisionBat,
	}
}

func testStat(matchID uint, player string, points float64) models.PlayerMatchStat {
	return models.PlayerMatchStat{
		MatchID:       matchID,
		Player:        player,
		BattingTeam:   "Mumbai Indians",
		BowlingTeam:   "Chennai Super Kings",
		Inning:        1,
		FantasyPoints: points,
	}
}

func historical(t *testing.T, rows []models.FeatureRow, matchID uint, name string) (float64, bool) {
	t.Helper()
	for i := range rows {
		if rows[i].MatchID == matchID {
			return rows[i].HistoricalValue(name)
		}
	}
	require.Failf(t, "row not found", "no feature row for match %d", matchID)
	return 0, false
}

func TestBuild_NoFutureLeakage(t *testing.T) {
	// Three matches at the same venue against the same opponent. The
	// third match's rolling averages must exclude its own points.
	matches := []models.Match{testMatch(1, "Wankhede"), testMatch(2, "Wankhede"), testMatch(3, "Wankhede")}
	stats := []models.PlayerMatchStat{
		testStat(1, "Rohit", 10),
		testStat(2, "Rohit", 30),
		testStat(3, "Rohit", 100),
	}

	rows := NewBuilder(1, logrus.New()).Build(stats, matches)
	require.Len(t, rows, 3)

	v, ok := historical(t, rows, 3, FeatAvgPointsLast5)
	require.True(t, ok)
	assert.Equal(t, 20.0, v) // (10+30)/2, own 100 excluded

	v, ok = historical(t, rows, 3, FeatAvgPointsVenue)
	require.True(t, ok)
	assert.Equal(t, 20.0, v)

	v, ok = historical(t, rows, 3, FeatAvgPointsVsOpponentLast5)
	require.True(t, ok)
	assert.Equal(t, 20.0, v)

	v, ok = historical(t, rows, 3, FeatTotalPointsLast5)
	require.True(t, ok)
	assert.Equal(t, 40.0, v)

	v, ok = historical(t, rows, 3, FeatNumPastMatches)
	require.True(t, ok)
	assert.Equal(t, 2.0, v)
}

func TestBuild_DebutRow(t *testing.T) {
	matches := []models.Match{testMatch(1, "Wankhede")}
	stats := []models.PlayerMatchStat{testStat(1, "Rohit", 42)}

	rows := NewBuilder(1, logrus.New()).Build(stats, matches)
	require.Len(t, rows, 1)

	v, ok := rows[0].HistoricalValue(FeatIsDebut)
	require.True(t, ok)
	assert.Equal(t, 1.0, v)

	// Expanding means are undefined with no history.
	_, ok = rows[0].HistoricalValue(FeatAvgPointsVenue)
	assert.False(t, ok)

	// Last-5 mean and sum fill to zero instead.
	v, ok = rows[0].HistoricalValue(FeatAvgPointsLast5)
	require.True(t, ok)
	assert.Equal(t, 0.0, v)
}

func TestBuild_VenueHistoryIsPerVenue(t *testing.T) {
	matches := []models.Match{testMatch(1, "Wankhede"), testMatch(2, "Chepauk"), testMatch(3, "Wankhede")}
	stats := []models.PlayerMatchStat{
		testStat(1, "Rohit", 10),
		testStat(2, "Rohit", 80),
		testStat(3, "Rohit", 0),
	}

	rows := NewBuilder(1, logrus.New()).Build(stats, matches)

	// Match 3 is the player's second at Wankhede: one prior match
	// there, worth 10 points.
	v, ok := historical(t, rows, 3, FeatAvgPointsVenue)
	require.True(t, ok)
	assert.Equal(t, 10.0, v)

	v, ok = historical(t, rows, 3, FeatNumMatchesVenue)
	require.True(t, ok)
	assert.Equal(t, 1.0, v)
}

func TestBuild_LastFiveWindowIsBounded(t *testing.T) {
	var matches []models.Match
	var stats []models.PlayerMatchStat
	points := []float64{1, 2, 3, 4, 5, 6, 7}
	for i, p := range points {
		id := uint(i + 1)
		matches = append(matches, testMatch(id, "Wankhede"))
		stats = append(stats, testStat(id, "Rohit", p))
	}

	rows := NewBuilder(2, logrus.New()).Build(stats, matches)

	// Row 7 sees matches 2..6 only.
	v, ok := historical(t, rows, 7, FeatAvgPointsLast5)
	require.True(t, ok)
	assert.Equal(t, 4.0, v)

	v, ok = historical(t, rows, 7, FeatTotalPointsLast5)
	require.True(t, ok)
	assert.Equal(t, 20.0, v)
}

func TestBuild_InningsTypeSplits(t *testing.T) {
	// Toss winner Mumbai chose to bat in every match, so Mumbai rows
	// are bat_first throughout.
	matches := []models.Match{testMatch(1, "Wankhede"), testMatch(2, "Wankhede")}
	stats := []models.PlayerMatchStat{
		testStat(1, "Rohit", 50),
		testStat(2, "Rohit", 70),
	}

	rows := NewBuilder(1, logrus.New()).Build(stats, matches)

	assert.Equal(t, models.BatFirst, rows[0].InningsType)

	// First bat_first row has no prior bat_first history.
	_, ok := historical(t, rows, 1, FeatAvgPointsBatFirst)
	assert.False(t, ok)

	v, ok := historical(t, rows, 2, FeatAvgPointsBatFirst)
	require.True(t, ok)
	assert.Equal(t, 50.0, v)

	// The bat_second column stays undefined on bat_first rows.
	_, ok = historical(t, rows, 2, FeatAvgPointsBatSecond)
	assert.False(t, ok)
}

func TestInningsType(t *testing.T) {
	m := models.Match{
		Team1:      "Mumbai Indians",
		Team2:      "Chennai Super Kings",
		TossWinner: "Chennai Super Kings",
	}

	m.TossDecision = models.TossDecisionBat
	assert.Equal(t, models.BatFirst, inningsType("Chennai Super Kings", m))
	assert.Equal(t, models.BatSecond, inningsType("Mumbai Indians", m))

	m.TossDecision = models.TossDecisionField
	assert.Equal(t, models.BatFirst, inningsType("Mumbai Indians", m))
	assert.Equal(t, models.BatSecond, inningsType("Chennai Super Kings", m))
}

func TestAssignPressureTiers(t *testing.T) {
	matches := []models.Match{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}, {ID: 5}, {ID: 6}}
	AssignPressureTiers(matches)
	assert.Equal(t, models.PressureLeague, matches[0].PressureTier)
	assert.Equal(t, models.PressureLeague, matches[1].PressureTier)
	assert.Equal(t, models.PressureEliminator, matches[2].PressureTier)
	assert.Equal(t, models.PressureEliminator, matches[3].PressureTier)
	assert.Equal(t, models.PressureEliminator, matches[4].PressureTier)
	assert.Equal(t, models.PressureFinal, matches[5].PressureTier)
}

func TestAssignPressureTiers_FewerThanFourMatches(t *testing.T) {
	matches := []models.Match{{ID: 1}, {ID: 2}}
	AssignPressureTiers(matches)
	assert.Equal(t, models.PressureLeague, matches[0].PressureTier)
	assert.Equal(t, models.PressureFinal, matches[1].PressureTier)
}

func TestBuild_ParallelWorkersMatchSerial(t *testing.T) {
	var matches []models.Match
	var stats []models.PlayerMatchStat
	players := []string{"Rohit", "Kohli", "Dhoni", "Pant", "Gill"}
	for i := 1; i <= 10; i++ {
		id := uint(i)
		matches = append(matches, testMatch(id, "Wankhede"))
		for j, p := range players {
			stats = append(stats, testStat(id, p, float64(i*10+j)))
		}
	}

	serial := NewBuilder(1, logrus.New()).Build(stats, matches)
	parallel := NewBuilder(4, logrus.New()).Build(stats, matches)

	require.Equal(t, len(serial), len(parallel))
	for i := range serial {
		assert.Equal(t, serial[i].Player, parallel[i].Player)
		assert.Equal(t, serial[i].MatchID, parallel[i].MatchID)
		assert.Equal(t, serial[i].Historical, parallel[i].Historical)
	}
}
