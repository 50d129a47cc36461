package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/temcen/popcornpick/internal/config"
	"github.com/temcen/popcornpick/pkg/models"
)

// RateLimitService implements a sliding-window limit per client in Redis.
// Without a Redis client every request is allowed.
type RateLimitService struct {
	config      *config.RateLimitConfig
	logger      *logrus.Logger
	redisClient *redis.Client
	now         func() time.Time
}

func NewRateLimitService(cfg *config.RateLimitConfig, logger *logrus.Logger, redisClient *redis.Client) *RateLimitService {
	return &RateLimitService{
		config:      cfg,
		logger:      logger,
		redisClient: redisClient,
		now:         time.Now,
	}
}

// Enabled reports whether requests are actually being limited.
func (s *RateLimitService) Enabled() bool {
	return s.config.Enabled && s.redisClient != nil && s.config.Requests > 0
}

func (s *RateLimitService) CheckLimit(ctx context.Context, clientID string) (*models.RateLimitInfo, error) {
	limit := s.config.Requests
	window := s.config.Window
	if window <= 0 {
		window = time.Minute
	}
	now := s.now()

	permissive := &models.RateLimitInfo{
		Limit:     limit,
		Remaining: max(limit-1, 0),
		ResetTime: now.Add(window).Unix(),
	}
	if !s.Enabled() {
		return permissive, nil
	}

	key := fmt.Sprintf("rate_limit:client:%s", clientID)
	windowStart := now.Add(-window)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pipe := s.redisClient.Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart.UnixNano(), 10))
	countCmd := pipe.ZCard(ctx, key)
	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(now.UnixNano()),
		Member: strconv.FormatInt(now.UnixNano(), 10),
	})
	pipe.Expire(ctx, key, window)

	if _, err := pipe.Exec(ctx); err != nil {
		// Fail open when Redis is down
		s.logger.WithError(err).Error("Failed to execute rate limit pipeline")
		return permissive, nil
	}

	remaining := limit - int(countCmd.Val())
	if remaining < 0 {
		remaining = 0
	}

	return &models.RateLimitInfo{
		Limit:     limit,
		Remaining: remaining,
		ResetTime: now.Add(window).Unix(),
	}, nil
}

func (s *RateLimitService) IsAllowed(ctx context.Context, clientID string) (bool, *models.RateLimitInfo, error) {
	info, err := s.CheckLimit(ctx, clientID)
	if err != nil {
		return false, nil, err
	}
	if !s.Enabled() {
		return true, info, nil
	}
	return info.Remaining > 0, info, nil
}
