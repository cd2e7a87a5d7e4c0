// Package testutil contains helpers shared by package tests. It must only be
// imported from _test.go files.
package testutil

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"socialnet-api/config"
	"socialnet-api/database"
	"socialnet-api/models"
)

const JWTSecret = "test-secret"

// NewDB opens a private in-memory sqlite database with the full schema. The
// pool is pinned to one connection so every query sees the same memory db.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	return openDB(t, fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()), 1)
}

// NewFileDB opens a WAL-mode sqlite file under t.TempDir with conns open
// connections, for tests that write from several goroutines at once.
func NewFileDB(t testing.TB, conns int) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	return openDB(t, "file:"+path+"?_busy_timeout=5000&_journal_mode=WAL&_txlock=immediate", conns)
}

func openDB(t testing.TB, dsn string, conns int) *gorm.DB {
	t.Helper()
	db, err := database.Initialize(config.DatabaseConfig{
		Driver:       "sqlite",
		DSN:          dsn,
		LogLevel:     "silent",
		MaxOpenConns: conns,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// CreateUser inserts an onboarded user row.
func CreateUser(t testing.TB, db *gorm.DB, id, name string) *models.User {
	t.Helper()
	u := &models.User{ID: id, Name: name, Email: id + "@example.com", OnboardingComplete: true}
	require.NoError(t, db.Create(u).Error)
	return u
}

// CreatePost inserts a post owned by userID.
func CreatePost(t testing.TB, db *gorm.DB, userID, content string) *models.Post {
	t.Helper()
	p := &models.Post{Name: content, CreatedByID: userID}
	require.NoError(t, db.Omit("CreatedBy").Create(p).Error)
	return p
}

// Token signs an HS256 token for userID with JWTSecret. extra claims are
// merged in.
func Token(t testing.TB, userID string, extra map[string]interface{}) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	for k, v := range extra {
		claims[k] = v
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(JWTSecret))
	require.NoError(t, err)
	return s
}
