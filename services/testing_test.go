package services

import (
	"fmt"
	"testing"

	"securacore-http-service/config"
	"securacore-http-service/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB 创建每个测试独立的内存数据库
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Admin{},
		&models.Resident{},
		&models.Guard{},
		&models.GuardAttendance{},
		&models.Visitor{},
		&models.QRVisitor{},
		&models.PackageItem{},
		&models.Complaint{},
		&models.AccessLog{},
	))
	return db
}

// testConfig 返回测试用的最小配置
func testConfig() *config.Config {
	return &config.Config{
		JWTSecretKey:         "test-secret",
		DefaultAdminPassword: "admin123",
		PackageOTPLength:     4,
	}
}
