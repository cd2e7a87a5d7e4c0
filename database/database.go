// File: /database/database.go
package database

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"socialnet-api/config"
	"socialnet-api/logger"
	"socialnet-api/models"
)

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(logLevel(cfg.LogLevel)),
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

func dialectorFor(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "mysql":
		return mysql.Open(dsn), nil
	case "postgres":
		return postgres.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

func logLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Like{},
		&models.Follow{},
		&models.FriendRequest{},
		&models.Friendship{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	addDatabaseConstraints(db)
	return nil
}

// idColumns hold user ids or keys built from them. Ids are compared byte by
// byte in Go, so the database must not fold case or accents on them.
var idColumns = []struct {
	table, column string
	size          int
	nullable      bool
}{
	{"users", "id", 191, false},
	{"posts", "created_by_id", 191, false},
	{"likes", "user_id", 191, false},
	{"follows", "follower_id", 191, false},
	{"follows", "following_id", 191, false},
	{"friend_requests", "sender_id", 191, false},
	{"friend_requests", "receiver_id", 191, false},
	{"friend_requests", "pending_key", 400, true},
	{"friendships", "user1_id", 191, false},
	{"friendships", "user2_id", 191, false},
}

const mysqlBinaryCollation = "utf8mb4_bin"

// addDatabaseConstraints adds rules AutoMigrate cannot express. Uniqueness of
// likes, follows, friendships and pending requests lives in the table keys.
func addDatabaseConstraints(db *gorm.DB) {
	dialect := db.Dialector.Name()
	// SQLite cannot add constraints to an existing table, and its default
	// BINARY collation already orders ids like Go does.
	if dialect == "sqlite" {
		return
	}
	if dialect == "mysql" {
		useBinaryIDCollation(db)
	}

	if !db.Migrator().HasConstraint(&models.Follow{}, "ck_follows_no_self_follow") {
		if err := db.Exec("ALTER TABLE follows ADD CONSTRAINT ck_follows_no_self_follow CHECK (follower_id <> following_id)").Error; err != nil {
			logger.Warn("could not add check constraint for follows", zap.Error(err))
		}
	}

	if !db.Migrator().HasConstraint(&models.Friendship{}, "ck_friendships_canonical") {
		if err := db.Exec(canonicalCheckSQL(dialect)).Error; err != nil {
			logger.Warn("could not add check constraint for friendships", zap.Error(err))
		}
	}
}

// canonicalCheckSQL enforces user1_id < user2_id in byte order, matching
// models.CanonicalPair.
func canonicalCheckSQL(dialect string) string {
	cond := "user1_id < user2_id"
	if dialect == "postgres" {
		cond = `user1_id COLLATE "C" < user2_id COLLATE "C"`
	}
	return "ALTER TABLE friendships ADD CONSTRAINT ck_friendships_canonical CHECK (" + cond + ")"
}

func binaryCollationSQL(table, column string, size int, nullable bool) string {
	null := "NOT NULL"
	if nullable {
		null = "NULL"
	}
	return fmt.Sprintf("ALTER TABLE `%s` MODIFY `%s` varchar(%d) CHARACTER SET utf8mb4 COLLATE %s %s",
		table, column, size, mysqlBinaryCollation, null)
}

func useBinaryIDCollation(db *gorm.DB) {
	for _, c := range idColumns {
		var collation string
		err := db.Raw(`SELECT COALESCE(COLLATION_NAME, '') FROM information_schema.COLUMNS
			WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ? AND COLUMN_NAME = ?`, c.table, c.column).
			Scan(&collation).Error
		if err != nil {
			logger.Warn("could not read column collation", zap.String("table", c.table), zap.String("column", c.column), zap.Error(err))
			continue
		}
		if collation == mysqlBinaryCollation {
			continue
		}
		if err := db.Exec(binaryCollationSQL(c.table, c.column, c.size, c.nullable)).Error; err != nil {
			logger.Warn("could not set binary collation", zap.String("table", c.table), zap.String("column", c.column), zap.Error(err))
		}
	}
}

// SeedData populates an empty database with a couple of users and posts for
// local development.
func SeedData(db *gorm.DB) error {
	var userCount int64
	if err := db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		return err
	}
	if userCount > 0 {
		logger.Info("database already has data, skipping seed")
		return nil
	}

	now := time.Now()
	testUsers := []models.User{
		{ID: "user-1", Name: "Ann Example", Email: "ann@example.com", EmailVerified: &now, OnboardingComplete: true},
		{ID: "user-2", Name: "Ben Example", Email: "ben@example.com", EmailVerified: &now, OnboardingComplete: true},
	}
	if err := db.Create(&testUsers).Error; err != nil {
		return fmt.Errorf("seed users: %w", err)
	}

	testPosts := []models.Post{
		{Name: "Hello from Ann", CreatedByID: "user-1"},
		{Name: "First post, be kind", CreatedByID: "user-2"},
	}
	if err := db.Omit("CreatedBy").Create(&testPosts).Error; err != nil {
		return fmt.Errorf("seed posts: %w", err)
	}

	logger.Info("database seeded with test data", zap.Int("users", len(testUsers)), zap.Int("posts", len(testPosts)))
	return nil
}
