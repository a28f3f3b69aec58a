package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/Amadou-dot/infrasight-sub001/config"
)

// InterfaceRedisService defines the report cache interface
type InterfaceRedisService interface {
	Set(key string, value interface{}, expiration time.Duration) error
	Get(key string, dest interface{}) error
	Delete(key string) error
	CacheReport(kind, key string, report interface{}) error
	GetCachedReport(kind, key string, dest interface{}) bool
	InvalidateReports(kind string) error
}

// RedisService handles Redis operations
type RedisService struct {
	Client *redis.Client
	Config *config.Config
	Ctx    context.Context
}

// NewRedisService creates a new Redis service
func NewRedisService(cfg *config.Config) InterfaceRedisService {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.GetRedisAddr(),
		DB:   cfg.RedisDB,
	})

	return &RedisService{
		Client: client,
		Config: cfg,
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

// CacheReport caches an analytics report under report:<kind>:<key> with
// the configured TTL
func (s *RedisService) CacheReport(kind, key string, report interface{}) error {
	ttl := time.Duration(s.Config.ReportCacheTTL) * time.Second
	return s.Set("report:"+kind+":"+key, report, ttl)
}

// GetCachedReport loads a cached report; a miss or decode failure just
// means recompute
func (s *RedisService) GetCachedReport(kind, key string, dest interface{}) bool {
	return s.Get("report:"+kind+":"+key, dest) == nil
}

// InvalidateReports drops every cached report of one kind
func (s *RedisService) InvalidateReports(kind string) error {
	iter := s.Client.Scan(s.Ctx, 0, "report:"+kind+":*", 100).Iterator()
	for iter.Next(s.Ctx) {
		if err := s.Client.Del(s.Ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
