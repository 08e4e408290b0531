package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/certflow/certflow/pkg/util"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Locker guards a job across processes.
type Locker interface {
	// TryLock takes the lock for job. It reports false without waiting when another holder owns it.
	TryLock(ctx context.Context, job string, ttl time.Duration) (unlock func(context.Context), ok bool, err error)
}

type RedisConfig struct {
	Addr      string        `yaml:"addr"`
	Password  string        `yaml:"password"`
	DB        int           `yaml:"db"`
	KeyPrefix string        `yaml:"key_prefix"`
	LockTTL   time.Duration `yaml:"lock_ttl"`
}

var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLock is a SET NX PX lock. Only the holder's token releases it.
type RedisLock struct {
	client *redis.Client
	prefix string
}

func NewRedisLock(cfg RedisConfig) (*RedisLock, error) {
	if cfg.Addr == "" {
		return nil, errors.New("redis addr is required")
	}
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "certflow:lock:"
	}
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	return &RedisLock{client: client, prefix: prefix}, nil
}

func (l *RedisLock) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}

func (l *RedisLock) TryLock(ctx context.Context, job string, ttl time.Duration) (func(context.Context), bool, error) {
	key := l.prefix + job
	token := util.NewUUID()
	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	unlock := func(ctx context.Context) {
		if err := unlockScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
			logrus.Warnf("scheduler: failed to release lock %s: %v", key, err)
		}
	}
	return unlock, true, nil
}

func (l *RedisLock) Close() error {
	return l.client.Close()
}
