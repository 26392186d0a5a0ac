package migrations

import (
	"time"

	"gorm.io/gorm"
)

// Each migration works on its own snapshot of the table so that later model
// changes never alter what an earlier step creates.

type playerV1 struct {
	ID        uint    `gorm:"primaryKey;autoIncrement"`
	Name      string  `gorm:"size:255;not null"`
	Rating    float64 `gorm:"not null;default:1000"`
	CreatedAt time.Time
}

func (playerV1) TableName() string { return "players" }

type playerV2 struct {
	Active  bool    `gorm:"not null;default:true"`
	Faction *string `gorm:"size:64"`
}

func (playerV2) TableName() string { return "players" }

type matchV1 struct {
	ID            uint     `gorm:"primaryKey;autoIncrement"`
	Week          string   `gorm:"size:10;not null"`
	PlayerAID     uint     `gorm:"column:player_a_id;not null"`
	PlayerBID     *uint    `gorm:"column:player_b_id"`
	Result        string   `gorm:"size:16;not null;default:pending"`
	ARatingBefore *float64 `gorm:"column:a_rating_before"`
	BRatingBefore *float64 `gorm:"column:b_rating_before"`
	ARatingAfter  *float64 `gorm:"column:a_rating_after"`
	BRatingAfter  *float64 `gorm:"column:b_rating_after"`
	ReportedAt    *time.Time
}

func (matchV1) TableName() string { return "matches" }

type matchV2 struct {
	KFactorUsed *int    `gorm:"column:k_factor_used"`
	AFaction    *string `gorm:"column:a_faction;size:64"`
	BFaction    *string `gorm:"column:b_faction;size:64"`
}

func (matchV2) TableName() string { return "matches" }

type attendanceV1 struct {
	ID       uint   `gorm:"primaryKey;autoIncrement"`
	Week     string `gorm:"size:10;not null"`
	PlayerID uint   `gorm:"not null"`
	Present  bool   `gorm:"not null;default:true"`
}

func (attendanceV1) TableName() string { return "attendance" }

type weekKeyV1 struct {
	ID              uint   `gorm:"primaryKey;autoIncrement"`
	Week            string `gorm:"size:10;not null;uniqueIndex:idx_week_keys_week"`
	ResultsPassword string `gorm:"size:255;not null"`
}

func (weekKeyV1) TableName() string { return "week_keys" }

type weekKeyV2 struct {
	LockNonce string `gorm:"column:lock_nonce;size:32;not null;default:''"`
}

func (weekKeyV2) TableName() string { return "week_keys" }

func GetLeagueMigrations() []MigrationDefinition {
	return []MigrationDefinition{
		{
			Name: "2024_09_04_000000_create_players_table",
			Up: func(db *gorm.DB) error {
				return db.Migrator().CreateTable(&playerV1{})
			},
			Down: func(db *gorm.DB) error {
				return db.Migrator().DropTable("players")
			},
		},
		{
			Name: "2024_09_04_000100_create_matches_table",
			Up: func(db *gorm.DB) error {
				return db.Migrator().CreateTable(&matchV1{})
			},
			Down: func(db *gorm.DB) error {
				return db.Migrator().DropTable("matches")
			},
		},
		{
			Name: "2024_09_11_000000_create_attendance_table",
			Up: func(db *gorm.DB) error {
				return db.Migrator().CreateTable(&attendanceV1{})
			},
			Down: func(db *gorm.DB) error {
				return db.Migrator().DropTable("attendance")
			},
		},
		{
			Name: "2024_09_18_000000_create_week_keys_table",
			Up: func(db *gorm.DB) error {
				return db.Migrator().CreateTable(&weekKeyV1{})
			},
			Down: func(db *gorm.DB) error {
				return db.Migrator().DropTable("week_keys")
			},
		},
		{
			Name: "2024_10_02_000000_add_active_and_faction_to_players",
			Up: func(db *gorm.DB) error {
				if err := db.Migrator().AddColumn(&playerV2{}, "Active"); err != nil {
					return err
				}
				return db.Migrator().AddColumn(&playerV2{}, "Faction")
			},
			Down: func(db *gorm.DB) error {
				if err := db.Migrator().DropColumn(&playerV2{}, "Faction"); err != nil {
					return err
				}
				return db.Migrator().DropColumn(&playerV2{}, "Active")
			},
		},
		{
			Name: "2024_10_02_000100_add_k_factor_and_factions_to_matches",
			Up: func(db *gorm.DB) error {
				for _, field := range []string{"KFactorUsed", "AFaction", "BFaction"} {
					if err := db.Migrator().AddColumn(&matchV2{}, field); err != nil {
						return err
					}
				}
				return nil
			},
			Down: func(db *gorm.DB) error {
				for _, field := range []string{"BFaction", "AFaction", "KFactorUsed"} {
					if err := db.Migrator().DropColumn(&matchV2{}, field); err != nil {
						return err
					}
				}
				return nil
			},
		},
		{
			Name: "2024_10_09_000000_add_league_indexes",
			Up: func(db *gorm.DB) error {
				return execAll(db,
					`CREATE INDEX IF NOT EXISTS idx_matches_week ON matches(week)`,
					`CREATE INDEX IF NOT EXISTS idx_matches_player_a_id ON matches(player_a_id)`,
					`CREATE INDEX IF NOT EXISTS idx_matches_player_b_id ON matches(player_b_id)`,
					`CREATE INDEX IF NOT EXISTS idx_matches_result ON matches(result)`,
					`CREATE UNIQUE INDEX IF NOT EXISTS idx_attendance_week_player ON attendance(week, player_id)`,
					`CREATE INDEX IF NOT EXISTS idx_players_rating ON players(rating)`,
				)
			},
			Down: func(db *gorm.DB) error {
				return execAll(db,
					`DROP INDEX IF EXISTS idx_players_rating`,
					`DROP INDEX IF EXISTS idx_attendance_week_player`,
					`DROP INDEX IF EXISTS idx_matches_result`,
					`DROP INDEX IF EXISTS idx_matches_player_b_id`,
					`DROP INDEX IF EXISTS idx_matches_player_a_id`,
					`DROP INDEX IF EXISTS idx_matches_week`,
				)
			},
		},
		{
			Name: "2024_10_30_000000_add_lock_nonce_to_week_keys",
			Up: func(db *gorm.DB) error {
				return db.Migrator().AddColumn(&weekKeyV2{}, "LockNonce")
			},
			Down: func(db *gorm.DB) error {
				return db.Migrator().DropColumn(&weekKeyV2{}, "LockNonce")
			},
		},
	}
}

func execAll(db *gorm.DB, statements ...string) error {
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
