// Package testutil 提供测试用的内存数据库
package testutil

import (
	"fmt"
	"testing"

	"ngosocial/internal/db"
	"ngosocial/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewDB opens a private in-memory sqlite database with the full schema.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), db.Config())
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	// 内存库只在同一连接内可见，且 sqlite 写入需要串行
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(conn))
	return conn
}

// CreateUser inserts a verified user with the given id.
func CreateUser(t testing.TB, conn *gorm.DB, id string) *models.User {
	t.Helper()
	u := &models.User{
		Base:        models.Base{ID: id},
		Credentials: models.Credentials{Email: id + "@example.com", Verified: true},
		FullName:    "User " + id,
		Role:        "USER",
	}
	require.NoError(t, conn.Create(u).Error)
	return u
}

// CreateNgo inserts a verified NGO with the given id.
func CreateNgo(t testing.TB, conn *gorm.DB, id string) *models.Ngo {
	t.Helper()
	n := &models.Ngo{
		Base:        models.Base{ID: id},
		Credentials: models.Credentials{Email: id + "@ngo.example.com", Verified: true},
		Name:        "NGO " + id,
		Role:        "NGO",
	}
	require.NoError(t, conn.Create(n).Error)
	return n
}
