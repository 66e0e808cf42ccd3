package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/cricketdfs/dream11-optimizer/internal/features"
	"github.com/cricketdfs/dream11-optimizer/internal/models"
	"github.com/cricketdfs/dream11-optimizer/internal/pipeline"
	"github.com/cricketdfs/dream11-optimizer/internal/predictor"
	"github.com/cricketdfs/dream11-optimizer/internal/selector"
	"github.com/cricketdfs/dream11-optimizer/internal/services"
	"github.com/cricketdfs/dream11-optimizer/internal/store"
	"github.com/cricketdfs/dream11-optimizer/internal/teams"
	"github.com/cricketdfs/dream11-optimizer/pkg/config"
	"github.com/cricketdfs/dream11-optimizer/pkg/database"
	"github.com/cricketdfs/dream11-optimizer/pkg/utils"
)

const testJWTSecret = "test-secret"

type pointsModel struct{}

func (pointsModel) PredictProba(_ context.Context, vectors [][]float64) ([]float64, error) {
	probs := make([]float64, len(vectors))
	for i, vec := range vectors {
		probs[i] = vec[1] / 200.0 // runs column
	}
	return probs, nil
}

type APITestSuite struct {
	suite.Suite
	db     *database.DB
	router *gin.Engine
	runner *pipeline.Runner
}

func (s *APITestSuite) SetupTest() {
	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	s.Require().NoError(err)
	s.db = &database.DB{DB: gormDB}
	s.Require().NoError(s.db.AutoMigrate(
		&models.Match{},
		&models.Delivery{},
		&models.PlayerMatchStat{},
		&models.FeatureRow{},
	))

	log := logrus.New()
	dataStore := store.New(s.db, log)
	builder := features.NewBuilder(2, log)
	s.runner = pipeline.NewRunner(s.db, dataStore, builder, log)

	predictorService := predictor.NewService(
		s.db, dataStore, teams.NewResolver(dataStore), pointsModel{},
		services.NewCacheService(nil), log, selector.Config{}, time.Minute,
	)

	cfg := &config.Config{
		JWTSecret:    testJWTSecret,
		APIRateLimit: 1000,
		APIRateBurst: 1000,
	}

	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	SetupRoutes(s.router.Group("/api/v1"), predictorService, s.runner, cfg, log)
}

func (s *APITestSuite) seedData() {
	s.Require().NoError(s.db.Create(&models.Match{
		ID: 1, Season: "2023", Venue: "Wankhede",
		Team1: "Mumbai Indians", Team2: "Chennai Super Kings",
		TossWinner: "Mumbai Indians", TossDecision: models.TossDecisionBat,
	}).Error)

	batters := []struct {
		name string
		team string
		runs int
	}{
		{"Rohit", "Mumbai Indians", 6},
		{"Ishan", "Mumbai Indians", 4},
		{"Gaikwad", "Chennai Super Kings", 6},
		{"Dube", "Chennai Super Kings", 1},
	}
	for _, b := range batters {
		bowling := "Chennai Super Kings"
		if b.team == "Chennai Super Kings" {
			bowling = "Mumbai Indians"
		}
		s.Require().NoError(s.db.Create(&models.Delivery{
			MatchID: 1, Inning: 1,
			BattingTeam: b.team, BowlingTeam: bowling,
			Batter: b.name, Bowler: "Bowler-" + bowling,
			BatterRuns: b.runs, TotalRuns: b.runs,
		}).Error)
	}

	s.Require().NoError(s.runner.Run(context.Background()))
}

func (s *APITestSuite) request(method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *APITestSuite) decode(w *httptest.ResponseRecorder) utils.Response {
	var resp utils.Response
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func (s *APITestSuite) TestGetLineupByMatch() {
	s.seedData()

	w := s.request(http.MethodGet, "/api/v1/lineups/match/1", "")
	s.Equal(http.StatusOK, w.Code)

	resp := s.decode(w)
	s.True(resp.Success)

	data := resp.Data.(map[string]interface{})
	s.Equal(float64(1), data["match_id"])
	lineup := data["lineup"].([]interface{})
	s.NotEmpty(lineup)

	top := lineup[0].(map[string]interface{})
	s.Contains(top["player"], "(C)")
}

func (s *APITestSuite) TestGetLineupByMatch_Unknown() {
	s.seedData()

	w := s.request(http.MethodGet, "/api/v1/lineups/match/999", "")
	s.Equal(http.StatusBadRequest, w.Code)
	s.False(s.decode(w).Success)
}

func (s *APITestSuite) TestGetLineupByEncounter() {
	s.seedData()

	w := s.request(http.MethodGet,
		"/api/v1/lineups/encounter?year=2023&team1=Mumbai+Indians&team2=Chennai+Super+Kings&encounter=1", "")
	s.Equal(http.StatusOK, w.Code)
	s.True(s.decode(w).Success)
}

func (s *APITestSuite) TestGetLineupByEncounter_OutOfRange() {
	s.seedData()

	w := s.request(http.MethodGet,
		"/api/v1/lineups/encounter?year=2023&team1=Mumbai+Indians&team2=Chennai+Super+Kings&encounter=5", "")
	s.Equal(http.StatusBadRequest, w.Code)

	resp := s.decode(w)
	s.Require().NotNil(resp.Error)
	s.Contains(resp.Error.Message, "Mumbai Indians")
}

func (s *APITestSuite) TestGetSeasonTeams() {
	s.seedData()

	w := s.request(http.MethodGet, "/api/v1/seasons/2023/teams", "")
	s.Equal(http.StatusOK, w.Code)

	resp := s.decode(w)
	data := resp.Data.(map[string]interface{})
	teamList := data["teams"].([]interface{})
	s.Len(teamList, 2)
}

func (s *APITestSuite) TestGetSeasonTeams_EmptySeason() {
	s.seedData()

	w := s.request(http.MethodGet, "/api/v1/seasons/1999/teams", "")
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *APITestSuite) TestRebuildRequiresAuth() {
	w := s.request(http.MethodPost, "/api/v1/pipeline/rebuild", "")
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *APITestSuite) TestRebuildWithToken() {
	s.seedData()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "admin",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testJWTSecret))
	s.Require().NoError(err)

	w := s.request(http.MethodPost, "/api/v1/pipeline/rebuild", signed)
	s.Equal(http.StatusAccepted, w.Code)
}

func TestAPITestSuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}
