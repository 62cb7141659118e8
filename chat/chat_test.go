package chat

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/reach-skyline/chat-service/database"
	"github.com/reach-skyline/chat-service/models"
)

// setupTestDB points the package at an in-memory SQLite database. A single
// connection keeps every goroutine on the same in-memory instance.
func setupTestDB(t *testing.T) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "open test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.ChatRoom{}, &models.ChatMessage{}, &models.UnreadCount{}))

	database.DB = db
}
