package services

import (
	"context"
	"encoding/json"
	"securacore-http-service/config"
	"time"

	"github.com/go-redis/redis/v8"
)

// InterfaceRedisService defines the Redis service interface
type InterfaceRedisService interface {
	Set(key string, value interface{}, expiration time.Duration) error
	Get(key string, dest interface{}) error
	Delete(key string) error
	MarkQRCodeUsed(qrCode string, until time.Time) error
	IsQRCodeUsed(qrCode string) bool
	CacheDashboardStats(stats interface{}, expiration time.Duration) error
	GetDashboardStats(dest interface{}) error
}

// RedisService handles Redis operations
type RedisService struct {
	Client *redis.Client
	Ctx    context.Context
}

// NewRedisService creates a new Redis service
func NewRedisService(cfg *config.Config) *RedisService {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: "", // No password set
		DB:       cfg.RedisDB,
	})

	ctx := context.Background()

	return &RedisService{
		Client: client,
		Ctx:    ctx,
	}
}

// NewRedisServiceWithClient 使用外部注入的Redis客户端创建服务
func NewRedisServiceWithClient(client *redis.Client) *RedisService {
	return &RedisService{
		Client: client,
		Ctx:    context.Background(),
	}
}

// Set sets a key-value pair in Redis with expiration
func (s *RedisService) Set(key string, value interface{}, expiration time.Duration) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return s.Client.Set(s.Ctx, key, jsonValue, expiration).Err()
}

// Get gets a value from Redis by key
func (s *RedisService) Get(key string, dest interface{}) error {
	val, err := s.Client.Get(s.Ctx, key).Result()
	if err != nil {
		return err
	}

	return json.Unmarshal([]byte(val), dest)
}

// Delete deletes a key from Redis
func (s *RedisService) Delete(key string) error {
	return s.Client.Del(s.Ctx, key).Err()
}

// MarkQRCodeUsed 记录已使用的二维码令牌，保留到访问日结束。
// 权威判定始终是数据库中的 check_in_time，这里只是廉价的重放拦截。
func (s *RedisService) MarkQRCodeUsed(qrCode string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		ttl = time.Hour
	}
	return s.Client.Set(s.Ctx, "qr_used:"+qrCode, "1", ttl).Err()
}

// IsQRCodeUsed 检查二维码令牌是否已被使用过
func (s *RedisService) IsQRCodeUsed(qrCode string) bool {
	val, err := s.Client.Get(s.Ctx, "qr_used:"+qrCode).Result()
	return err == nil && val == "1"
}

// CacheDashboardStats caches admin dashboard statistics with expiration
func (s *RedisService) CacheDashboardStats(stats interface{}, expiration time.Duration) error {
	return s.Set("dashboard:stats", stats, expiration)
}

// GetDashboardStats gets cached dashboard statistics
func (s *RedisService) GetDashboardStats(dest interface{}) error {
	return s.Get("dashboard:stats", dest)
}
