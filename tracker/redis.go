package tracker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/yhassan-git-real/DBExportHub/contracts/tracker"
)

// RedisConfig 取消状态存储使用的redis连接配置
type RedisConfig struct {
	Host         string        `help:"redis主机" default:"127.0.0.1"`
	Port         int           `help:"redis端口" default:"6379"`
	Password     string        `help:"redis密码" default:""`
	Db           int           `help:"redis数据库" default:"0"`
	DialTimeout  time.Duration `help:"" default:"0"`
	ReadTimeout  time.Duration `help:"" default:"0"`
	WriteTimeout time.Duration `help:"" default:"0"`
}

// NewRedisClient 创建redis连接并探活
func NewRedisClient(conf RedisConfig) (*redis.Client, error) {
	opts := redis.Options{
		Addr:     fmt.Sprintf("%s:%d", conf.Host, conf.Port),
		Password: conf.Password,
		DB:       conf.Db,
	}
	if conf.DialTimeout > 0 {
		opts.DialTimeout = conf.DialTimeout
	}
	if conf.ReadTimeout > 0 {
		opts.ReadTimeout = conf.ReadTimeout
	}
	if conf.WriteTimeout > 0 {
		opts.WriteTimeout = conf.WriteTimeout
	}
	client := redis.NewClient(&opts)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*3)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("init redis connection error:%s", err)
	}
	return client, nil
}

const defaultKeyPrefix = "export:op:"

// DefaultOperationTTL 操作状态key的过期时间，防止未清理的状态堆积
const DefaultOperationTTL = time.Hour * 24

var _ tracker.Tracker = (*Redis)(nil)

type RedisOption func(r *Redis)

// WithRedisKeyPrefix 设置key前缀
func WithRedisKeyPrefix(prefix string) RedisOption {
	return func(r *Redis) {
		if prefix != "" {
			r.prefix = prefix
		}
	}
}

// WithRedisTTL 设置状态key过期时间
func WithRedisTTL(ttl time.Duration) RedisOption {
	return func(r *Redis) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

// WithRedisLogger 设置日志
func WithRedisLogger(logger *zap.Logger) RedisOption {
	return func(r *Redis) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Redis 跨进程取消状态存储，多实例部署时任意实例都能取消导出
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedis(client *redis.Client, opts ...RedisOption) *Redis {
	r := &Redis{
		client: client,
		prefix: defaultKeyPrefix,
		ttl:    DefaultOperationTTL,
		logger: zap.NewNop(),
	}
	for i := range opts {
		opts[i](r)
	}
	return r
}

func (r *Redis) Start(ctx context.Context, operationID string) error {
	return r.client.Set(ctx, r.key(operationID), "0", r.ttl).Err()
}

func (r *Redis) Cancel(ctx context.Context, operationID string) error {
	return r.client.Set(ctx, r.key(operationID), "1", r.ttl).Err()
}

// IsCancelled redis故障时返回false，宁可取消变慢也不误中止导出
func (r *Redis) IsCancelled(ctx context.Context, operationID string) bool {
	v, err := r.client.Get(ctx, r.key(operationID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("tracker redis get failed",
				zap.String("operation_id", operationID),
				zap.Error(err))
		}
		return false
	}
	return v == "1"
}

func (r *Redis) Finish(ctx context.Context, operationID string) error {
	return r.client.Del(ctx, r.key(operationID)).Err()
}

func (r *Redis) key(operationID string) string {
	return r.prefix + operationID
}
