package redis

import (
	"ScheduleSync/internal/entity"
	"context"
	"errors"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// IRuleCache keeps each user's active scheduling rules close to the chat handlers.
type IRuleCache interface {
	GetRules(ctx context.Context, userID string) ([]entity.SchedulingRule, bool, error)
	SetRules(ctx context.Context, userID string, rules []entity.SchedulingRule) error
	Invalidate(ctx context.Context, userID string) error
}

type Config struct {
	Address  string
	Password string
	DB       int
	TTL      time.Duration
}

type redisClient struct {
	client *redis.Client
	ttl    time.Duration
	log    *logrus.Logger
}

func New(cfg Config, log *logrus.Logger) IRuleCache {
	log.Info(fmt.Sprintf("Connecting to Redis at %s...", cfg.Address))

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Error(fmt.Sprintf("Failed to connect to Redis: %v", err))
	} else {
		log.Info("Successfully connected to Redis")
	}

	return NewWithClient(client, cfg.TTL, log)
}

func NewWithClient(client *redis.Client, ttl time.Duration, log *logrus.Logger) IRuleCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &redisClient{client: client, ttl: ttl, log: log}
}

func rulesKey(userID string) string {
	return "schedulesync:rules:" + userID
}

func (r *redisClient) GetRules(ctx context.Context, userID string) ([]entity.SchedulingRule, bool, error) {
	val, err := r.client.Get(ctx, rulesKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	} else if err != nil {
		r.log.WithFields(logrus.Fields{
			"user_id": userID,
			"error":   err.Error(),
		}).Error("Error reading cached rules")
		return nil, false, err
	}

	var rules []entity.SchedulingRule
	if err := jsoniter.Unmarshal(val, &rules); err != nil {
		r.log.WithFields(logrus.Fields{
			"user_id": userID,
			"error":   err.Error(),
		}).Warn("Discarding undecodable cached rules")
		return nil, false, nil
	}

	return rules, true, nil
}

func (r *redisClient) SetRules(ctx context.Context, userID string, rules []entity.SchedulingRule) error {
	if rules == nil {
		rules = []entity.SchedulingRule{}
	}
	payload, err := jsoniter.Marshal(rules)
	if err != nil {
		return err
	}

	if err := r.client.Set(ctx, rulesKey(userID), payload, r.ttl).Err(); err != nil {
		r.log.WithFields(logrus.Fields{
			"user_id": userID,
			"error":   err.Error(),
		}).Error("Error caching rules")
		return err
	}
	return nil
}

func (r *redisClient) Invalidate(ctx context.Context, userID string) error {
	result, err := r.client.Del(ctx, rulesKey(userID)).Result()
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"user_id": userID,
			"error":   err.Error(),
		}).Error("Error invalidating cached rules")
		return err
	}
	r.log.WithFields(logrus.Fields{
		"user_id": userID,
		"deleted": result,
	}).Debug("Invalidated cached rules")
	return nil
}
