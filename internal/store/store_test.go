package store

import (
	"context"
	"testing"

	"github.com/cricketdfs/dream11-optimizer/internal/models"
	"github.com/cricketdfs/dream11-optimizer/pkg/database"
	"github.com/cricketdfs/dream11-optimizer/pkg/utils"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func testStore(t *testing.T) (*Store, *database.DB) {
	t.Helper()
	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	db := &database.DB{DB: gormDB}
	require.NoError(t, db.AutoMigrate(&models.Match{}, &models.Delivery{}))
	return New(db, logrus.New()), db
}

func TestNormalizeSeason(t *testing.T) {
	cases := []struct {
		raw  string
		year int
		ok   bool
	}{
		{"2008", 2008, true},
		{"2020/21", 2020, true},
		{"IPL-2017", 2017, true},
		{"", 0, false},
		{"n/a", 0, false},
	}
	for _, tc := range cases {
		year, ok := NormalizeSeason(tc.raw)
		assert.Equal(t, tc.ok, ok, "raw %q", tc.raw)
		assert.Equal(t, tc.year, year, "raw %q", tc.raw)
	}
}

func TestValidate_AllColumnsPresent(t *testing.T) {
	s, _ := testStore(t)
	assert.NoError(t, s.Validate(context.Background()))
}

func TestValidate_MissingColumnIsDataError(t *testing.T) {
	s, db := testStore(t)
	require.NoError(t, db.Migrator().DropColumn(&models.Match{}, "toss_winner"))

	err := s.Validate(context.Background())
	require.Error(t, err)

	var dataErr *utils.DataError
	require.ErrorAs(t, err, &dataErr)
	assert.Equal(t, "matches", dataErr.Table)
	assert.Equal(t, "toss_winner", dataErr.Column)
}

func TestMatches_NormalizesSeasonsAndSortsByID(t *testing.T) {
	s, db := testStore(t)
	require.NoError(t, db.Create(&models.Match{ID: 2, Season: "2020/21", Venue: "Chepauk"}).Error)
	require.NoError(t, db.Create(&models.Match{ID: 1, Season: "2008", Venue: "Wankhede"}).Error)

	matches, err := s.Matches(context.Background())
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, uint(1), matches[0].ID)
	assert.Equal(t, 2008, matches[0].SeasonYear)
	assert.Equal(t, 2020, matches[1].SeasonYear)
}

func TestMatches_UnparseableSeasonIsDataError(t *testing.T) {
	s, db := testStore(t)
	require.NoError(t, db.Create(&models.Match{ID: 1, Season: "unknown"}).Error)

	_, err := s.Matches(context.Background())
	var dataErr *utils.DataError
	require.ErrorAs(t, err, &dataErr)
	assert.Equal(t, "season", dataErr.Column)
}

func TestDeliveriesForMatch(t *testing.T) {
	s, db := testStore(t)
	require.NoError(t, db.Create(&models.Delivery{MatchID: 1, Batter: "Rohit"}).Error)
	require.NoError(t, db.Create(&models.Delivery{MatchID: 2, Batter: "Kohli"}).Error)

	deliveries, err := s.DeliveriesForMatch(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, deliveries, 1)
	assert.Equal(t, "Rohit", deliveries[0].Batter)
}
