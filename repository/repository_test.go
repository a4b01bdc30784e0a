package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"filenest/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// a single connection keeps every query on the same in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Folder{}, &models.File{}))
	return db
}

func createUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{Email: email, Password: "hash"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createFolder(t *testing.T, db *gorm.DB, ownerID uint, name string) *models.Folder {
	t.Helper()
	folder := &models.Folder{Name: name, UserID: ownerID}
	require.NoError(t, db.Create(folder).Error)
	return folder
}

func createFile(t *testing.T, db *gorm.DB, ownerID uint, key string, folderID *uint) *models.File {
	t.Helper()
	file := &models.File{
		OriginalName: key + ".txt",
		Size:         3,
		MimeType:     "text/plain",
		StorageKind:  "path",
		StorageKey:   key,
		UserID:       ownerID,
		FolderID:     folderID,
	}
	require.NoError(t, db.Create(file).Error)
	return file
}
