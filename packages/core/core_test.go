package core

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"owl-league/database"
	"owl-league/migrations"
	"owl-league/packages/auth"
	authHandlers "owl-league/packages/auth/handlers"
	authMiddleware "owl-league/packages/auth/middleware"
	authModels "owl-league/packages/auth/models"
	"owl-league/packages/core/cache"
	"owl-league/packages/core/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWeek = "16/10/2024"

type api struct {
	t      *testing.T
	router *gin.Engine
	admin  string
}

func newAPI(t *testing.T) *api {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, migrations.Run(db, logger))

	coreModule := NewModule(db, cache.NoopLeaderboard{}, "0 0 * * * *", logger)
	authModule := auth.NewModule(authHandlers.AdminCredentials{Password: "admin-pass"}, "test-secret", coreModule.WeekLockService, logger)

	r := gin.New()
	authModule.SetupRoutes(r)
	coreModule.SetupRoutes(r, Guards{Admin: authModule.RequireAdmin(), Optional: authModule.OptionalJWT()})

	a := &api{t: t, router: r}
	var token authModels.TokenResponse
	a.decode(a.do(http.MethodPost, "/auth/login", gin.H{"password": "admin-pass"}, nil), http.StatusOK, &token)
	a.admin = token.AccessToken
	return a
}

func (a *api) do(method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	a.t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *api) asAdmin(method, path string, body any) *httptest.ResponseRecorder {
	return a.do(method, path, body, map[string]string{"Authorization": "Bearer " + a.admin})
}

func (a *api) decode(w *httptest.ResponseRecorder, status int, out any) {
	a.t.Helper()
	require.Equal(a.t, status, w.Code, w.Body.String())
	if out != nil {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), out))
	}
}

func (a *api) createPlayer(name string, rating float64) models.Player {
	var p models.Player
	a.decode(a.asAdmin(http.MethodPost, "/players", gin.H{"name": name, "starting_rating": rating}), http.StatusCreated, &p)
	return p
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	a := newAPI(t)
	w := a.do(http.MethodPost, "/auth/login", gin.H{"password": "nope"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminRoutesNeedToken(t *testing.T) {
	a := newAPI(t)
	w := a.do(http.MethodPost, "/players", gin.H{"name": "Anna"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.do(http.MethodGet, "/players", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWeekFlow(t *testing.T) {
	a := newAPI(t)
	p1 := a.createPlayer("A", 1200)
	p2 := a.createPlayer("B", 1100)
	p3 := a.createPlayer("C", 1000)

	var round []models.Match
	a.decode(a.asAdmin(http.MethodPost, "/pairings/generate", gin.H{"week": testWeek}), http.StatusCreated, &round)
	require.Len(t, round, 2)
	assert.Equal(t, p1.ID, round[0].PlayerAID)
	assert.Equal(t, p2.ID, *round[0].PlayerBID)
	assert.Equal(t, p3.ID, round[1].PlayerAID)
	assert.Nil(t, round[1].PlayerBID)

	w := a.asAdmin(http.MethodPost, "/pairings/generate", gin.H{"week": testWeek})
	assert.Equal(t, http.StatusConflict, w.Code)

	// lock the week; anonymous reporting is refused
	a.decode(a.asAdmin(http.MethodPut, "/weeks/password", gin.H{"week": testWeek, "password": "waaagh"}), http.StatusOK, nil)
	resultPath := "/matches/" + strconv.FormatUint(uint64(round[0].ID), 10) + "/result"
	body := gin.H{"result": models.ResultAWin, "k_factor": 40}
	w = a.do(http.MethodPost, resultPath, body, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.do(http.MethodPost, "/auth/unlock-week", gin.H{"week": testWeek, "password": "wrong"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var unlock authModels.TokenResponse
	a.decode(a.do(http.MethodPost, "/auth/unlock-week", gin.H{"week": testWeek, "password": "waaagh"}, nil), http.StatusOK, &unlock)

	headers := map[string]string{authMiddleware.WeekTokenHeader: unlock.AccessToken}
	var reported models.Match
	a.decode(a.do(http.MethodPost, resultPath, body, headers), http.StatusOK, &reported)
	assert.Equal(t, models.ResultAWin, reported.Result)
	assert.Greater(t, *reported.ARatingAfter, 1200.0)

	w = a.do(http.MethodPost, resultPath, body, headers)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = a.do(http.MethodPost, resultPath, gin.H{"result": models.ResultDraw, "k_factor": 32}, headers)
	assert.Equal(t, http.StatusConflict, w.Code)

	var rows []models.LeaderboardRow
	a.decode(a.do(http.MethodGet, "/leaderboard", nil, nil), http.StatusOK, &rows)
	require.Len(t, rows, 3)
	assert.Equal(t, p1.ID, rows[0].PlayerID)
	assert.Equal(t, 1, rows[0].Wins)
	assert.Equal(t, 1, rows[1].Losses)
}

func TestRecordResultValidation(t *testing.T) {
	a := newAPI(t)
	p1 := a.createPlayer("A", 1000)
	p2 := a.createPlayer("B", 1000)

	var round []models.Match
	a.decode(a.asAdmin(http.MethodPost, "/pairings/generate", gin.H{"week": testWeek, "player_ids": []uint{p1.ID, p2.ID}}), http.StatusCreated, &round)
	path := "/matches/" + strconv.FormatUint(uint64(round[0].ID), 10) + "/result"

	w := a.do(http.MethodPost, path, gin.H{"result": models.ResultAWin, "k_factor": 32}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodPost, path, gin.H{"result": "forfeit", "k_factor": 10}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodPost, "/matches/999/result", gin.H{"result": models.ResultAWin, "k_factor": 10}, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestManualPairingsAndDeletePlayer(t *testing.T) {
	a := newAPI(t)
	p1 := a.createPlayer("A", 1000)
	p2 := a.createPlayer("B", 1000)

	w := a.asAdmin(http.MethodPost, "/pairings/manual", gin.H{"week": testWeek, "order": "1,1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var round []models.Match
	order := strconv.FormatUint(uint64(p2.ID), 10) + "," + strconv.FormatUint(uint64(p1.ID), 10)
	a.decode(a.asAdmin(http.MethodPost, "/pairings/manual", gin.H{"week": testWeek, "order": order}), http.StatusCreated, &round)
	require.Len(t, round, 1)
	assert.Equal(t, p2.ID, round[0].PlayerAID)

	playerPath := "/players/" + strconv.FormatUint(uint64(p1.ID), 10)
	w = a.asAdmin(http.MethodDelete, playerPath, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = a.asAdmin(http.MethodDelete, playerPath+"?cascade=true", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = a.do(http.MethodGet, playerPath, nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAttendanceRoutes(t *testing.T) {
	a := newAPI(t)
	p1 := a.createPlayer("A", 1000)
	a.createPlayer("B", 1000)

	a.decode(a.asAdmin(http.MethodPut, "/attendance", gin.H{"week": testWeek, "player_ids": []uint{p1.ID}}), http.StatusOK, nil)

	var got struct {
		Week     string `json:"week"`
		Eligible []uint `json:"eligible_player_ids"`
	}
	a.decode(a.do(http.MethodGet, "/attendance?week="+testWeek, nil, nil), http.StatusOK, &got)
	assert.Equal(t, testWeek, got.Week)
	assert.Equal(t, []uint{p1.ID}, got.Eligible)

	w := a.do(http.MethodGet, "/attendance?week=17/10/2024", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUnlockTokenFollowsWeekPassword(t *testing.T) {
	a := newAPI(t)
	for _, name := range []string{"A", "B", "C", "D"} {
		a.createPlayer(name, 1000)
	}

	var round []models.Match
	a.decode(a.asAdmin(http.MethodPost, "/pairings/generate", gin.H{"week": testWeek}), http.StatusCreated, &round)
	require.Len(t, round, 2)
	resultPath := func(m models.Match) string {
		return "/matches/" + strconv.FormatUint(uint64(m.ID), 10) + "/result"
	}
	body := gin.H{"result": models.ResultAWin, "k_factor": 10}
	unlock := func(password string) *httptest.ResponseRecorder {
		return a.do(http.MethodPost, "/auth/unlock-week", gin.H{"week": testWeek, "password": password}, nil)
	}
	withToken := func(token string) map[string]string {
		return map[string]string{authMiddleware.WeekTokenHeader: token}
	}

	// an open week hands out no token
	w := unlock("anything")
	assert.Equal(t, http.StatusConflict, w.Code)

	a.decode(a.asAdmin(http.MethodPut, "/weeks/password", gin.H{"week": testWeek, "password": "secret"}), http.StatusOK, nil)
	var first authModels.TokenResponse
	a.decode(unlock("secret"), http.StatusOK, &first)

	// a new password revokes the earlier token
	a.decode(a.asAdmin(http.MethodPut, "/weeks/password", gin.H{"week": testWeek, "password": "grudge"}), http.StatusOK, nil)
	w = a.do(http.MethodPost, resultPath(round[0]), body, withToken(first.AccessToken))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = unlock("secret")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var second authModels.TokenResponse
	a.decode(unlock("grudge"), http.StatusOK, &second)
	a.decode(a.do(http.MethodPost, resultPath(round[0]), body, withToken(second.AccessToken)), http.StatusOK, nil)

	// setting the same password again still revokes
	a.decode(a.asAdmin(http.MethodPut, "/weeks/password", gin.H{"week": testWeek, "password": "grudge"}), http.StatusOK, nil)
	w = a.do(http.MethodPost, resultPath(round[1]), body, withToken(second.AccessToken))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// clearing the lock opens the week to everyone
	a.decode(a.asAdmin(http.MethodDelete, "/weeks/password?week="+testWeek, nil), http.StatusOK, nil)
	a.decode(a.do(http.MethodPost, resultPath(round[1]), body, nil), http.StatusOK, nil)
}
