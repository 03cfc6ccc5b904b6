package container

import (
	"fmt"
	"testing"

	"securacore-http-service/config"
	"securacore-http-service/services"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupContainerTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db
}

func containerTestConfig() *config.Config {
	return &config.Config{
		JWTSecretKey:         "test-secret",
		DefaultAdminPassword: "admin123",
		PackageOTPLength:     4,
	}
}

// TestContainerUsesInjectedRedisClient verifies an externally constructed
// Redis client flows into the Redis service instead of being rebuilt
// from config.
func TestContainerUsesInjectedRedisClient(t *testing.T) {
	db := setupContainerTestDB(t)
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer client.Close()

	c := NewServiceContainer(db, containerTestConfig(), client)

	redisSvc, ok := c.GetService("redis").(*services.RedisService)
	require.True(t, ok)
	assert.Same(t, client, redisSvc.Client)
}

// TestContainerResolvesAllServices verifies every registered name yields a
// non-nil service and unknown names yield nil.
func TestContainerResolvesAllServices(t *testing.T) {
	db := setupContainerTestDB(t)
	c := NewServiceContainer(db, containerTestConfig(), nil)

	names := []string{
		"config", "db", "jwt", "redis", "gate_notify",
		"visitor", "qr_visitor", "package", "complaint",
		"resident", "guard", "admin",
	}
	for _, name := range names {
		assert.NotNil(t, c.GetService(name), "service %q should resolve", name)
	}
	assert.Nil(t, c.GetService("unknown"))
}
