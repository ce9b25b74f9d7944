// Package testutil provides throwaway databases for package tests.
package testutil

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/prmhq/prm-backend/internal/domain"
	"github.com/prmhq/prm-backend/internal/migration"
)

// NewDB opens a private in-memory sqlite database with the full schema.
// Each call gets its own database; it is closed when the test ends.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, migration.Run(db))
	return db
}

// CreateUser inserts an active user with an empty profile
func CreateUser(t testing.TB, db *gorm.DB, username string) *domain.User {
	t.Helper()
	user := &domain.User{
		Username:  username,
		Email:     username + "@example.com",
		Password:  "not-a-real-hash",
		FirstName: "Test",
		LastName:  "User",
		IsActive:  true,
		Profile:   &domain.Profile{},
	}
	require.NoError(t, db.Create(user).Error)
	return user
}
