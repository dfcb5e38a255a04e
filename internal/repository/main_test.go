package repository

import (
	"context"
	"testing"

	"snapshare/internal/config"
	"snapshare/internal/database"
	"snapshare/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newTestDB opens a private in-memory sqlite database with the schema applied.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(context.Background(), &config.Config{
		Env:          "test",
		DBDriver:     "sqlite",
		DBSQLitePath: ":memory:",
		DBSchemaMode: database.SchemaModeAuto,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// setupMockDB creates a GORM *gorm.DB backed by sqlmock for unit tests.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func createUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()
	if name == "" {
		name = gofakeit.Name()
	}
	user := &models.User{
		Email: gofakeit.Email(),
		Name:  name,
		Image: gofakeit.URL(),
	}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), user))
	return user
}

func createPost(t *testing.T, db *gorm.DB, ownerID uint, caption string) *models.Post {
	t.Helper()
	post := &models.Post{UserID: ownerID, Caption: caption}
	require.NoError(t, NewPostRepository(db).Create(context.Background(), post))
	return post
}
