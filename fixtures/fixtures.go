package fixtures

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"owl-league/database"
	"owl-league/packages/core/cache"
	"owl-league/packages/core/models"
	"owl-league/packages/core/services"
	"owl-league/packages/core/utils"

	"gorm.io/gorm"
)

var fixturePlayers = []struct {
	name    string
	rating  float64
	faction string
}{
	{"Aldric", 1180, "Empire of Man"},
	{"Brunhilde", 1120, "Dwarfen Mountain Holds"},
	{"Cedric", 1060, "Kingdom of Bretonnia"},
	{"Dagna", 1040, "Dwarfen Mountain Holds"},
	{"Elowen", 1000, "Wood Elf Realms"},
	{"Fenwick", 990, "Skaven"},
	{"Grimgor", 970, "Orc & Goblin Tribes"},
	{"Hesper", 950, "Vampire Counts"},
	{"Isolde", 920, "High Elf Realms"},
	{"Jorik", 900, "Warriors of Chaos"},
}

type Fixtures struct {
	db         *gorm.DB
	logger     *slog.Logger
	rng        *rand.Rand
	players    *services.PlayerService
	matches    *services.MatchService
	pairings   *services.PairingService
	attendance *services.AttendanceService
	weeks      *services.WeekLockService
}

func NewFixtures(db *gorm.DB, logger *slog.Logger, seed int64) *Fixtures {
	board := cache.NoopLeaderboard{}
	return &Fixtures{
		db:         db,
		logger:     logger,
		rng:        rand.New(rand.NewSource(seed)),
		players:    services.NewPlayerService(db, board, logger),
		matches:    services.NewMatchService(db, services.NewStatsService(db), board, logger),
		pairings:   services.NewPairingService(db, logger),
		attendance: services.NewAttendanceService(db, logger),
		weeks:      services.NewWeekLockService(db, logger),
	}
}

// GenerateTestData creates the players and weeks of league history ending
// at the week of now. Past weeks are fully reported; the last week stays
// pending and locked with the password "fixtures".
func (f *Fixtures) GenerateTestData(ctx context.Context, weeks int, now time.Time) error {
	f.logger.Info("starting fixtures generation", slog.Int("weeks", weeks))

	ids, err := f.generatePlayers(ctx)
	if err != nil {
		return fmt.Errorf("failed to generate players: %w", err)
	}

	current, err := utils.ParseWeekID(utils.WeekID(now))
	if err != nil {
		return err
	}

	reported := 0
	for i := weeks - 1; i >= 0; i-- {
		week := utils.WeekID(current.AddDate(0, 0, -7*i))
		last := i == 0

		n, err := f.generateWeek(ctx, week, ids, !last)
		if err != nil {
			return fmt.Errorf("failed to generate week %s: %w", week, err)
		}
		reported += n

		if last {
			if err := f.weeks.SetWeekPassword(ctx, week, "fixtures"); err != nil {
				return err
			}
		}
	}

	f.logger.Info("fixtures generated", slog.Int("players", len(ids)), slog.Int("reported_matches", reported))
	return nil
}

func (f *Fixtures) generatePlayers(ctx context.Context) ([]uint, error) {
	ids := make([]uint, 0, len(fixturePlayers))
	for _, p := range fixturePlayers {
		rating, faction := p.rating, p.faction
		player, err := f.players.CreatePlayer(ctx, models.CreatePlayerRequest{
			Name:           p.name,
			StartingRating: &rating,
			Faction:        &faction,
		})
		if err != nil {
			return nil, err
		}
		ids = append(ids, player.ID)
	}
	return ids, nil
}

// generateWeek marks most players present, pairs them and, when report is
// set, records a result for every board.
func (f *Fixtures) generateWeek(ctx context.Context, week string, ids []uint, report bool) (int, error) {
	present := make([]uint, 0, len(ids))
	for _, id := range ids {
		if f.rng.Float64() < 0.8 {
			present = append(present, id)
		}
	}
	if _, err := f.attendance.SaveAttendance(ctx, week, present); err != nil {
		return 0, err
	}

	round, err := f.pairings.GeneratePairings(ctx, week, nil)
	if err != nil || !report {
		return 0, err
	}

	results := []string{models.ResultAWin, models.ResultBWin, models.ResultDraw}
	kFactors := []utils.KFactor{utils.KCasual, utils.KCompetitive}
	for _, m := range round {
		in := services.ResultInput{
			Result:  results[f.rng.Intn(len(results))],
			KFactor: kFactors[f.rng.Intn(len(kFactors))],
		}
		if f.rng.Float64() < 0.7 {
			in.AFaction = f.randomFaction()
			in.BFaction = f.randomFaction()
		}
		if _, err := f.matches.RecordResult(ctx, m.ID, in); err != nil {
			return 0, err
		}
	}
	return len(round), nil
}

func (f *Fixtures) randomFaction() *string {
	faction := models.Factions[f.rng.Intn(len(models.Factions))]
	return &faction
}

// ClearAllData removes all league data
func (f *Fixtures) ClearAllData() error {
	f.logger.Info("clearing all fixture data")

	tables := []interface{}{
		&models.WeekKey{},
		&models.Attendance{},
		&models.Match{},
		&models.Player{},
	}

	for _, table := range tables {
		if err := f.db.Where("1 = 1").Delete(table).Error; err != nil {
			return fmt.Errorf("failed to clear table %T: %w", table, err)
		}
	}

	// Reset auto-increment sequences to start from 1
	var resets []string
	if database.IsPostgres(f.db) {
		resets = []string{
			"ALTER SEQUENCE players_id_seq RESTART WITH 1",
			"ALTER SEQUENCE matches_id_seq RESTART WITH 1",
			"ALTER SEQUENCE attendance_id_seq RESTART WITH 1",
			"ALTER SEQUENCE week_keys_id_seq RESTART WITH 1",
		}
	} else {
		resets = []string{"DELETE FROM sqlite_sequence WHERE name IN ('players', 'matches', 'attendance', 'week_keys')"}
	}
	for _, sql := range resets {
		if err := f.db.Exec(sql).Error; err != nil {
			f.logger.Warn("failed to reset sequence", slog.String("sql", sql), slog.Any("error", err))
		}
	}

	return nil
}
